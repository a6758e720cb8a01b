package validator

import (
	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/internal/httputil"
)

// checkBodies validates request bodies, responses, and their media type
// objects: media type syntax, encoding maps only on form-like types, the
// example/examples exclusivity, required response descriptions, and the
// status code grammar.
func checkBodies(r *run) error {
	return forEachOperation(r, func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error {
		if body, ok := op.GetMapping("requestBody"); ok && !r.version().IsOAS2() {
			bodyLoc := opLoc + "/requestBody"
			resolved, _, err := r.resolveIfRef(body, identity, bodyLoc)
			if err != nil {
				return err
			}
			content, ok := resolved.GetMapping("content")
			if !ok {
				return violation(bodyLoc, "requestBody content is required")
			}
			if err := checkContent(r, bodyLoc+"/content", content); err != nil {
				return err
			}
		}

		responses, ok := op.GetMapping("responses")
		if !ok {
			return nil
		}
		responsesLoc := opLoc + "/responses"
		var failure error
		responses.Pairs(func(code string, response *document.Node) bool {
			if !httputil.ValidStatusCode(code) {
				failure = violation(responsesLoc, "invalid response status code %q", code)
				return false
			}
			codeLoc := responsesLoc + "/" + document.EscapePointerSegment(code)
			resolved, _, err := r.resolveIfRef(response, identity, codeLoc)
			if err != nil {
				failure = err
				return false
			}
			if !resolved.IsMapping() {
				failure = violation(codeLoc, "response must be an object")
				return false
			}
			if desc, ok := resolved.GetString("description"); !ok || desc == "" {
				failure = violation(codeLoc, "response description is required")
				return false
			}
			if content, ok := resolved.GetMapping("content"); ok && !r.version().IsOAS2() {
				failure = checkContent(r, codeLoc+"/content", content)
			}
			return failure == nil
		})
		return failure
	})
}

// checkContent validates a media-type map: each key must parse as a media
// type, encoding maps are only meaningful for multipart and form-encoded
// payloads, and example and examples are mutually exclusive.
func checkContent(r *run, location string, content *document.Node) error {
	var failure error
	content.Pairs(func(mediaType string, mt *document.Node) bool {
		mtLoc := location + "/" + document.EscapePointerSegment(mediaType)
		if !httputil.ValidMediaType(mediaType) {
			failure = violation(location, "invalid media type %q", mediaType)
			return false
		}
		if !mt.IsMapping() {
			return true
		}
		if mt.Has("encoding") && !httputil.FormLike(mediaType) {
			failure = violation(mtLoc,
				"encoding is only valid for multipart and form-encoded media types, not %q", mediaType)
			return false
		}
		if mt.Has("example") && mt.Has("examples") {
			failure = violation(mtLoc, "example and examples are mutually exclusive")
			return false
		}
		return true
	})
	return failure
}
