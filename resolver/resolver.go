// Package resolver resolves reference expressions against a fully discovered
// document cache.
//
// Resolution is pure: for a fixed cache, resolving the same expression twice
// yields structurally equal results and never mutates the cache. Sibling
// overrides (the OAS 3.1 summary/description siblings of $ref) are applied
// to a shallow copy of the resolved value, so the shared cached target is
// never perturbed.
package resolver

import (
	"errors"

	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/graph"
	"github.com/erraggy/oasgraph/loader"
	"github.com/erraggy/oasgraph/oaserrors"
)

const (
	// DefaultMaxDepth is the maximum length of a transitive reference chain.
	// This bounds deeply nested (but non-circular) chains; genuine cycles are
	// detected exactly by the per-call seen set.
	DefaultMaxDepth = 100
)

// Resolver resolves reference expressions against a document cache.
type Resolver struct {
	// Cache is the discovered document graph. Required.
	Cache *graph.Cache
	// MaxDepth bounds transitive reference chains (0 means DefaultMaxDepth).
	MaxDepth int
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger loader.Logger
}

// New creates a Resolver over the given cache.
func New(cache *graph.Cache) *Resolver {
	return &Resolver{Cache: cache}
}

func (r *Resolver) log() loader.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return loader.NopLogger{}
}

// Overrides carries the sibling fields an extended reference expression may
// declare. A nil field means "no override"; a non-nil field replaces the
// resolved value's own field in the returned copy.
type Overrides struct {
	Summary     *string
	Description *string
}

func (o Overrides) isZero() bool {
	return o.Summary == nil && o.Description == nil
}

// Location names where a resolved value lives in the document graph.
type Location struct {
	// Document is the identity of the document holding the value.
	Document string
	// Pointer is the JSON Pointer to the value within that document.
	Pointer string
}

// Resolve resolves a reference expression from the context of the document
// identified by fromIdentity, following nested references transitively and
// switching document context as the chain crosses documents.
//
// Every failure is reported as a *oaserrors.ResolutionError naming the full
// original expression; pointer misses additionally name the failing segment.
func (r *Resolver) Resolve(ref document.Reference, fromIdentity string) (*document.Node, error) {
	node, _, err := r.resolve(ref, fromIdentity, 0, make(map[string]bool))
	return node, err
}

// ResolveWithLocation resolves the expression and additionally reports where
// the resolved value lives after the whole chain has been followed. Callers
// that walk into the result and resolve references found inside it must use
// the returned document as the new resolution context.
func (r *Resolver) ResolveWithLocation(ref document.Reference, fromIdentity string) (*document.Node, Location, error) {
	return r.resolve(ref, fromIdentity, 0, make(map[string]bool))
}

// ResolveWithOverrides resolves the expression and applies sibling overrides
// to the result. When the final resolved value is a mapping, a shallow copy
// with the overridden fields is returned; the cached value is untouched.
// Overrides on a non-mapping value cannot apply and are dropped with a
// diagnostic, per the engine's best-effort policy for override application.
func (r *Resolver) ResolveWithOverrides(ref document.Reference, fromIdentity string, ov Overrides) (*document.Node, []Diagnostic, error) {
	node, err := r.Resolve(ref, fromIdentity)
	if err != nil {
		return nil, nil, err
	}
	if ov.isZero() {
		return node, nil, nil
	}
	if node.Kind() != document.KindMapping {
		return node, []Diagnostic{{
			Ref:     ref,
			Message: "sibling overrides dropped: resolved value is not an object",
		}}, nil
	}

	cp := node.ShallowCopy()
	if ov.Summary != nil {
		cp.Set("summary", document.StringNode(*ov.Summary))
	}
	if ov.Description != nil {
		cp.Set("description", document.StringNode(*ov.Description))
	}
	return cp, nil, nil
}

func (r *Resolver) resolve(ref document.Reference, fromIdentity string, depth int, seen map[string]bool) (*document.Node, Location, error) {
	maxDepth := r.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth > maxDepth {
		return nil, Location{}, &oaserrors.ResolutionError{
			Expression: ref.String(),
			Document:   fromIdentity,
			Message:    "reference chain too deep",
		}
	}

	key := fromIdentity + "|" + ref.String()
	if seen[key] {
		return nil, Location{}, &oaserrors.ResolutionError{
			Expression: ref.String(),
			Document:   fromIdentity,
			IsCircular: true,
		}
	}
	seen[key] = true

	currentDoc, ok := r.Cache.Lookup(fromIdentity)
	if !ok {
		return nil, Location{}, &oaserrors.ResolutionError{
			Expression: ref.String(),
			Document:   fromIdentity,
			Message:    "current document is not in the cache",
		}
	}

	// Switch documents when the expression carries a document part. The
	// target identity is computed against the current document's logical
	// base, exactly as the walker computed it during discovery.
	targetDoc := currentDoc
	targetIdentity := fromIdentity
	if target := ref.Target(); target != "" {
		abs, err := document.AbsoluteIdentity(currentDoc.Base(), target)
		if err != nil {
			return nil, Location{}, &oaserrors.ResolutionError{
				Expression: ref.String(),
				Document:   fromIdentity,
				Message:    "malformed document part",
				Cause:      err,
			}
		}
		targetDoc, ok = r.Cache.Lookup(abs)
		if !ok {
			// Discovery loads every reachable document, so this only
			// triggers on a cache built from a partial walk.
			return nil, Location{}, &oaserrors.ResolutionError{
				Expression: ref.String(),
				Document:   fromIdentity,
				Message:    "target document was not loaded: " + abs,
			}
		}
		targetIdentity = abs
	}

	node := targetDoc.Root
	if ptr := ref.Pointer(); ptr != "" {
		resolved, err := document.ResolvePointer(targetDoc.Root, ptr)
		if err != nil {
			var perr *document.PointerError
			resErr := &oaserrors.ResolutionError{
				Expression: ref.String(),
				Document:   targetIdentity,
				Cause:      err,
			}
			if errors.As(err, &perr) {
				resErr.Segment = perr.Segment
			}
			return nil, Location{}, resErr
		}
		node = resolved
	}

	// A resolved value that is itself a reference expression resolves
	// transitively, with the target document as the new current context.
	if nested, ok := node.RefString(); ok {
		r.log().Debug("following nested reference",
			"from", targetIdentity, "ref", nested, "depth", depth+1)
		return r.resolve(document.Reference(nested), targetIdentity, depth+1, seen)
	}

	return node, Location{Document: targetIdentity, Pointer: ref.Pointer()}, nil
}
