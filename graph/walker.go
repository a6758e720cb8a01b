package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/loader"
	"github.com/erraggy/oasgraph/oaserrors"
)

const (
	// DefaultMaxDocuments is the maximum number of documents a single
	// discovery session will load. This prevents memory exhaustion from
	// graphs with runaway external references.
	DefaultMaxDocuments = 100
)

// Walker discovers the full document graph reachable from a root locator.
type Walker struct {
	// Loader loads individual documents. Defaults to loader.New().
	Loader *loader.Loader
	// Parallelism caps the number of concurrent fetches for documents
	// discovered at the same depth. Values <= 1 mean sequential loading
	// (the default). The visited set is always consulted before a fetch is
	// issued, so a given identity is loaded at most once either way.
	Parallelism int
	// MaxDocuments is the maximum number of documents to load
	// (0 means DefaultMaxDocuments).
	MaxDocuments int
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger loader.Logger
}

// NewWalker creates a Walker with default settings.
func NewWalker() *Walker {
	return &Walker{}
}

func (w *Walker) log() loader.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return loader.NopLogger{}
}

// Discover loads the root document and, transitively, every document its
// reference expressions point into, returning the populated cache. Discovery
// aborts on the first load or parse failure: a document graph cannot be
// partially trusted.
//
// Documents discovered at the same depth are fetched concurrently when
// Parallelism > 1; each identity is claimed in the visited set before its
// fetch is issued, so no identity is ever loaded twice, even under mutual or
// self-referencing document cycles.
func (w *Walker) Discover(ctx context.Context, rootLocator string) (*Cache, error) {
	ld := w.Loader
	if ld == nil {
		ld = loader.New()
	}
	maxDocs := w.MaxDocuments
	if maxDocs == 0 {
		maxDocs = DefaultMaxDocuments
	}

	rootIdentity, err := document.NormalizeIdentity(rootLocator)
	if err != nil {
		return nil, &oaserrors.LoadError{Locator: rootLocator, Message: "invalid root locator", Cause: err}
	}

	cache := newCache()
	visited := map[string]bool{rootIdentity: true}
	frontier := []string{rootIdentity}

	for len(frontier) > 0 {
		if cache.Len()+len(frontier) > maxDocs {
			return nil, &oaserrors.LoadError{
				Locator: rootLocator,
				Message: fmt.Sprintf("document graph exceeds limit of %d documents", maxDocs),
			}
		}

		docs, err := w.loadWave(ctx, ld, frontier)
		if err != nil {
			return nil, err
		}

		var next []string
		for i, doc := range docs {
			identity := frontier[i]
			cache.insert(identity, doc)

			// Register the logical $self alias so references addressed to the
			// declared identity hit this document instead of a second fetch.
			if doc.Self != "" && doc.Self != identity {
				cache.alias(doc.Self, doc)
				visited[doc.Self] = true
			}

			for _, ref := range collectRefs(doc.Root) {
				target := ref.Target()
				if target == "" {
					continue
				}
				abs, err := document.AbsoluteIdentity(doc.Base(), target)
				if err != nil {
					return nil, &oaserrors.LoadError{
						Locator: identity,
						Message: fmt.Sprintf("cannot resolve reference target %q", ref),
						Cause:   err,
					}
				}
				if !visited[abs] {
					visited[abs] = true
					next = append(next, abs)
				}
			}
		}

		w.log().Debug("discovery wave complete", "loaded", len(docs), "pending", len(next))
		frontier = next
	}

	return cache, nil
}

// loadWave fetches one depth level of the graph. The returned slice is
// parallel to identities, so callers can match documents to the identity
// they were requested under.
func (w *Walker) loadWave(ctx context.Context, ld *loader.Loader, identities []string) ([]*document.Document, error) {
	docs := make([]*document.Document, len(identities))

	if w.Parallelism <= 1 || len(identities) == 1 {
		for i, identity := range identities {
			doc, err := ld.Load(ctx, identity)
			if err != nil {
				return nil, err
			}
			docs[i] = doc
		}
		return docs, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.Parallelism)
	for i, identity := range identities {
		g.Go(func() error {
			doc, err := ld.Load(ctx, identity)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// collectRefs gathers every reference expression in the tree, in document
// order, deduplicated. Both plain ($ref) and dynamic ($dynamicRef)
// expressions count; a mapping that carries one is still scanned for nested
// expressions in its other values.
func collectRefs(root *document.Node) []document.Reference {
	var refs []document.Reference
	seen := make(map[document.Reference]bool)

	var walk func(n *document.Node)
	walk = func(n *document.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case document.KindMapping:
			n.Pairs(func(key string, value *document.Node) bool {
				if (key == "$ref" || key == "$dynamicRef") && value != nil && value.Kind() == document.KindString {
					ref := document.Reference(value.Str())
					if !seen[ref] {
						seen[ref] = true
						refs = append(refs, ref)
					}
					return true
				}
				walk(value)
				return true
			})
		case document.KindSequence:
			for _, item := range n.Items() {
				walk(item)
			}
		default:
			// scalars carry no references
		}
	}
	walk(root)

	return refs
}
