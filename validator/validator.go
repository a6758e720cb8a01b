// Package validator checks a discovered document graph against the
// structural rules of the OpenAPI and Swagger specifications.
//
// The validator is a stateless rule engine: each call re-derives every
// finding from the cached documents, and rule groups run in a fixed order so
// that the reported violation is deterministic for a given input. Validation
// stops at the first violation; a nil return means the graph is structurally
// valid.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/graph"
	"github.com/erraggy/oasgraph/loader"
	"github.com/erraggy/oasgraph/oaserrors"
	"github.com/erraggy/oasgraph/resolver"
)

const (
	// DefaultMaxSchemaDepth limits schema nesting to protect against stack
	// exhaustion on adversarial documents.
	DefaultMaxSchemaDepth = 100
)

// Validator validates the structural rules of a document graph.
type Validator struct {
	// MaxSchemaDepth limits schema nesting (0 means DefaultMaxSchemaDepth).
	MaxSchemaDepth int
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger loader.Logger
}

// New creates a Validator with default settings.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) log() loader.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return loader.NopLogger{}
}

// Validate checks the root document of the cache against every structural
// rule group, in order: version and envelope, URI-shaped fields, path
// templates, parameters, bodies and responses, global operationId
// uniqueness, discriminator and XML rules, tag hierarchy, and security
// schemes. The first violation is returned as a *oaserrors.ValidationError;
// nil means valid.
func (v *Validator) Validate(cache *graph.Cache) error {
	maxDepth := v.MaxSchemaDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxSchemaDepth
	}
	r := &run{
		cache:    cache,
		res:      resolver.New(cache),
		doc:      cache.Root(),
		identity: cache.Root().Location,
		maxDepth: maxDepth,
	}

	checks := []func(*run) error{
		checkEnvelope,
		checkURIFields,
		checkPaths,
		checkParameters,
		checkBodies,
		checkOperationIDUniqueness,
		checkSchemaRules,
		checkTags,
		checkSecuritySchemes,
	}
	for _, check := range checks {
		if err := check(r); err != nil {
			return err
		}
	}
	v.log().Debug("document graph is structurally valid",
		"root", r.identity, "documents", cache.Len())
	return nil
}

// run carries the per-call state of a single validation pass.
type run struct {
	cache    *graph.Cache
	res      *resolver.Resolver
	doc      *document.Document
	identity string
	maxDepth int
}

func (r *run) version() document.OASVersion {
	return r.doc.Version
}

// resolveIfRef resolves a node that may be a reference expression, in the
// context of the document identified by identity. It returns the resolved
// node together with the identity of the document it lives in, so references
// found inside the result resolve against that document, not the root. A
// dangling reference here is fatal: validation cannot proceed over a value
// it cannot see.
func (r *run) resolveIfRef(node *document.Node, identity, location string) (*document.Node, string, error) {
	refStr, ok := node.RefString()
	if !ok {
		return node, identity, nil
	}
	resolved, at, err := r.res.ResolveWithLocation(document.Reference(refStr), identity)
	if err != nil {
		return nil, "", violation(location, "unresolvable reference %q: %v", refStr, err)
	}
	return resolved, at.Document, nil
}

// violation builds the ValidationError that halts the run.
func violation(location, format string, args ...any) *oaserrors.ValidationError {
	return &oaserrors.ValidationError{
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	}
}

// loc joins path segments into a slash-delimited location string, escaping
// each segment the way JSON Pointers do so that path keys containing slashes
// stay unambiguous.
func loc(segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(document.EscapePointerSegment(seg))
	}
	return b.String()
}

func locIndex(base string, i int) string {
	return base + "/" + strconv.Itoa(i)
}
