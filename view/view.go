// Package view flattens a discovered document graph into the shape
// downstream consumers want: a flat operation list, a flat webhook list, and
// normalized security-scheme and schema maps with the version-specific
// storage locations abstracted away.
//
// Every entry records the document identity and JSON Pointer it came from,
// so any entry can be re-resolved through the resolver later. Entries hold
// read-only snapshots of cached nodes; callers must not mutate them.
package view

import (
	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/graph"
	"github.com/erraggy/oasgraph/resolver"
)

// httpMethods are the operation keys of a path item, in specification order.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// Source locates a view entry inside the cached document graph.
type Source struct {
	// Document is the identity of the document holding the entry.
	Document string
	// Pointer is the JSON Pointer to the entry within that document.
	Pointer string
}

// Operation is one flattened path operation.
type Operation struct {
	// Path is the path template the operation is declared under.
	Path string
	// Method is the lowercase HTTP method key.
	Method string
	// OperationID is the declared operationId, or empty.
	OperationID string
	// Node is the operation object.
	Node *document.Node
	// Source locates the operation in the graph.
	Source Source
}

// Webhook is one flattened webhook operation.
type Webhook struct {
	// Name is the webhook key.
	Name string
	// Method is the lowercase HTTP method key.
	Method string
	// OperationID is the declared operationId, or empty.
	OperationID string
	// Node is the operation object.
	Node *document.Node
	// Source locates the operation in the graph.
	Source Source
}

// Entry is one named reusable component, such as a security scheme or a
// top-level schema.
type Entry struct {
	// Name is the component key.
	Name string
	// Node is the component object.
	Node *document.Node
	// Source locates the component in the graph.
	Source Source
}

// View is the flattened model of a discovered document graph.
type View struct {
	// Document is the root document the view was built from.
	Document *document.Document
	// Operations lists every path operation in document order.
	Operations []Operation
	// Webhooks lists every webhook operation in document order.
	Webhooks []Webhook
	// SecuritySchemes lists the declared security schemes in document order.
	SecuritySchemes []Entry
	// Schemas lists the top-level reusable schemas in document order,
	// regardless of whether the document stores them under definitions
	// or components.schemas.
	Schemas []Entry
}

// Build flattens the cached graph rooted at the cache's root document.
//
// A path item declared as a reference is resolved before its operations are
// flattened; a dangling path item reference is fatal because the operation
// list would otherwise be silently incomplete. Webhook references are
// best-effort: a dangling one drops that webhook with a diagnostic.
func Build(cache *graph.Cache) (*View, []resolver.Diagnostic, error) {
	root := cache.Root()
	res := resolver.New(cache)
	v := &View{Document: root}
	identity := root.Location

	var diags []resolver.Diagnostic

	if paths, ok := root.Root.GetMapping("paths"); ok {
		var err error
		v.Operations, err = flattenPaths(res, identity, paths)
		if err != nil {
			return nil, nil, err
		}
	}

	if root.Version.AtLeast31() {
		if webhooks, ok := root.Root.GetMapping("webhooks"); ok {
			v.Webhooks, diags = flattenWebhooks(res, identity, webhooks)
		}
	}

	v.SecuritySchemes = collectComponents(root, identity,
		"components", "securitySchemes", "securityDefinitions")
	v.Schemas = collectComponents(root, identity,
		"components", "schemas", "definitions")

	return v, diags, nil
}

func flattenPaths(res *resolver.Resolver, identity string, paths *document.Node) ([]Operation, error) {
	var ops []Operation
	var failure error
	paths.Pairs(func(path string, item *document.Node) bool {
		resolved := item
		// The source of a referenced path item is where the item actually
		// lives, so every flattened entry stays resolvable through the
		// resolver.
		source := Source{Document: identity, Pointer: "/paths/" + document.EscapePointerSegment(path)}
		if refStr, ok := item.RefString(); ok {
			node, at, err := res.ResolveWithLocation(document.Reference(refStr), identity)
			if err != nil {
				failure = err
				return false
			}
			resolved = node
			source = Source{Document: at.Document, Pointer: at.Pointer}
		}
		if resolved.Kind() != document.KindMapping {
			return true
		}
		for _, method := range httpMethods {
			op, ok := resolved.GetMapping(method)
			if !ok {
				continue
			}
			id, _ := op.GetString("operationId")
			ops = append(ops, Operation{
				Path:        path,
				Method:      method,
				OperationID: id,
				Node:        op,
				Source:      Source{Document: source.Document, Pointer: source.Pointer + "/" + method},
			})
		}
		return true
	})
	return ops, failure
}

func flattenWebhooks(res *resolver.Resolver, identity string, webhooks *document.Node) ([]Webhook, []resolver.Diagnostic) {
	var (
		hooks []Webhook
		diags []resolver.Diagnostic
	)
	webhooks.Pairs(func(name string, item *document.Node) bool {
		resolved := item
		source := Source{Document: identity, Pointer: "/webhooks/" + document.EscapePointerSegment(name)}
		if refStr, ok := item.RefString(); ok {
			ref := document.Reference(refStr)
			node, at, err := res.ResolveWithLocation(ref, identity)
			if err != nil {
				diags = append(diags, resolver.Diagnostic{
					Ref:     ref,
					Message: "dropping webhook " + name + ": " + err.Error(),
				})
				return true
			}
			resolved = node
			source = Source{Document: at.Document, Pointer: at.Pointer}
		}
		if resolved.Kind() != document.KindMapping {
			return true
		}
		for _, method := range httpMethods {
			op, ok := resolved.GetMapping(method)
			if !ok {
				continue
			}
			id, _ := op.GetString("operationId")
			hooks = append(hooks, Webhook{
				Name:        name,
				Method:      method,
				OperationID: id,
				Node:        op,
				Source:      Source{Document: source.Document, Pointer: source.Pointer + "/" + method},
			})
		}
		return true
	})
	return hooks, diags
}

// collectComponents reads a named component map from either its 3.x home
// under components or its 2.0 top-level home, whichever the document uses.
func collectComponents(root *document.Document, identity, container, name3x, name2x string) []Entry {
	var (
		source *document.Node
		base   string
	)
	if root.Version.IsOAS2() {
		if m, ok := root.Root.GetMapping(name2x); ok {
			source = m
			base = "/" + name2x
		}
	} else if components, ok := root.Root.GetMapping(container); ok {
		if m, ok := components.GetMapping(name3x); ok {
			source = m
			base = "/" + container + "/" + name3x
		}
	}
	if source == nil {
		return nil
	}

	var entries []Entry
	source.Pairs(func(key string, node *document.Node) bool {
		entries = append(entries, Entry{
			Name: key,
			Node: node,
			Source: Source{
				Document: identity,
				Pointer:  base + "/" + document.EscapePointerSegment(key),
			},
		})
		return true
	})
	return entries
}
