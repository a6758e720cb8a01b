package validator

import (
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// opIDSite records where an operationId was first declared.
type opIDSite struct {
	document string
	location string
}

// checkOperationIDUniqueness requires every declared operationId to be
// unique across paths, webhooks, callbacks, and reusable path items of every
// document in the cache. Referenced path items are resolved in the context of
// the document that references them, so operations declared in bare fragment
// documents are counted too; each path item counts exactly once no matter how
// many references reach it.
func checkOperationIDUniqueness(r *run) error {
	seen := make(map[string]opIDSite)
	counted := make(map[*document.Node]bool)
	for _, doc := range r.cache.Documents() {
		if err := collectOperationIDs(r, doc, seen, counted); err != nil {
			return err
		}
	}
	return nil
}

func collectOperationIDs(r *run, doc *document.Document, seen map[string]opIDSite, counted map[*document.Node]bool) error {
	root := doc.Root
	if !root.IsMapping() {
		return nil
	}
	identity := doc.Location

	if paths, ok := root.GetMapping("paths"); ok {
		if err := collectFromPathItemMap(r, identity, "paths", paths, seen, counted); err != nil {
			return err
		}
	}
	if webhooks, ok := root.GetMapping("webhooks"); ok {
		if err := collectFromPathItemMap(r, identity, "webhooks", webhooks, seen, counted); err != nil {
			return err
		}
	}
	if components, ok := root.GetMapping("components"); ok {
		if pathItems, ok := components.GetMapping("pathItems"); ok {
			if err := collectFromPathItemMap(r, identity, "components/pathItems", pathItems, seen, counted); err != nil {
				return err
			}
		}
		if callbacks, ok := components.GetMapping("callbacks"); ok {
			var failure error
			callbacks.Pairs(func(name string, callback *document.Node) bool {
				failure = collectFromCallback(r, identity,
					"components/callbacks/"+document.EscapePointerSegment(name), callback, seen, counted)
				return failure == nil
			})
			if failure != nil {
				return failure
			}
		}
	}
	return nil
}

func collectFromPathItemMap(r *run, identity, container string, items *document.Node, seen map[string]opIDSite, counted map[*document.Node]bool) error {
	var failure error
	items.Pairs(func(key string, item *document.Node) bool {
		if strings.HasPrefix(key, "x-") {
			return true
		}
		location := "/" + container + "/" + document.EscapePointerSegment(key)
		failure = collectFromPathItem(r, identity, location, item, seen, counted)
		return failure == nil
	})
	return failure
}

func collectFromPathItem(r *run, identity, location string, item *document.Node, seen map[string]opIDSite, counted map[*document.Node]bool) error {
	if !item.IsMapping() {
		return nil
	}
	if refStr, ok := item.RefString(); ok {
		resolved, at, err := r.res.ResolveWithLocation(document.Reference(refStr), identity)
		if err != nil {
			return violation(location, "unresolvable reference %q: %v", refStr, err)
		}
		return collectFromPathItem(r, at.Document, location, resolved, seen, counted)
	}
	// A path item reachable both where it is declared and through references
	// holds one set of operations; count it once.
	if counted[item] {
		return nil
	}
	counted[item] = true

	for _, method := range httpMethods {
		op, ok := item.GetMapping(method)
		if !ok {
			continue
		}
		opLoc := location + "/" + method
		if id, ok := op.GetString("operationId"); ok && id != "" {
			if prior, dup := seen[id]; dup {
				return violation(opLoc,
					"duplicate operationId %q, already declared at %s in %s",
					id, prior.location, prior.document)
			}
			seen[id] = opIDSite{document: identity, location: opLoc}
		}
		if callbacks, ok := op.GetMapping("callbacks"); ok {
			var failure error
			callbacks.Pairs(func(name string, callback *document.Node) bool {
				failure = collectFromCallback(r, identity,
					opLoc+"/callbacks/"+document.EscapePointerSegment(name), callback, seen, counted)
				return failure == nil
			})
			if failure != nil {
				return failure
			}
		}
	}
	return nil
}

// collectFromCallback walks a callback object, whose values are path items
// keyed by runtime expression.
func collectFromCallback(r *run, identity, location string, callback *document.Node, seen map[string]opIDSite, counted map[*document.Node]bool) error {
	if !callback.IsMapping() || callback.IsRef() {
		return nil
	}
	var failure error
	callback.Pairs(func(expr string, item *document.Node) bool {
		failure = collectFromPathItem(r, identity,
			location+"/"+document.EscapePointerSegment(expr), item, seen, counted)
		return failure == nil
	})
	return failure
}
