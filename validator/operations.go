package validator

import (
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// forEachOperation visits every operation under paths and webhooks of the
// root document, resolving referenced path items first. The callback receives
// the identity of the document the (resolved) path item lives in, the item,
// and the operation, with their locations. References found inside the item
// must resolve against that identity, not the root's. The callback returns
// the violation that halts the walk, or nil to continue.
func forEachOperation(r *run, fn func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error) error {
	if paths, ok := r.doc.Root.GetMapping("paths"); ok {
		if err := walkPathItems(r, "paths", paths, fn); err != nil {
			return err
		}
	}
	if r.version().AtLeast31() {
		if webhooks, ok := r.doc.Root.GetMapping("webhooks"); ok {
			if err := walkPathItems(r, "webhooks", webhooks, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkPathItems(r *run, container string, items *document.Node, fn func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error) error {
	var failure error
	items.Pairs(func(key string, item *document.Node) bool {
		if strings.HasPrefix(key, "x-") {
			return true
		}
		itemLoc := loc(container, key)
		resolved, identity, err := r.resolveIfRef(item, r.identity, itemLoc)
		if err != nil {
			failure = err
			return false
		}
		if !resolved.IsMapping() {
			return true
		}
		for _, method := range httpMethods {
			op, ok := resolved.GetMapping(method)
			if !ok {
				continue
			}
			if failure = fn(identity, itemLoc, resolved, itemLoc+"/"+method, op); failure != nil {
				return false
			}
		}
		return true
	})
	return failure
}
