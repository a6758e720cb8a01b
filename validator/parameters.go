package validator

import (
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// stylesPerLocation lists the serialization styles each parameter location
// admits in the 3.x family.
var stylesPerLocation = map[string]map[string]bool{
	"query":  {"form": true, "spaceDelimited": true, "pipeDelimited": true, "deepObject": true},
	"path":   {"matrix": true, "label": true, "simple": true},
	"header": {"simple": true},
	"cookie": {"form": true},
}

var parameterLocations3x = map[string]bool{
	"query": true, "header": true, "path": true, "cookie": true,
}

var parameterLocations2 = map[string]bool{
	"query": true, "header": true, "path": true, "formData": true, "body": true,
}

// checkParameters validates parameter shape rules for every operation:
// per-location styles, deepObject and delimited-style constraints, the
// schema/content choice, and duplicate (name, location) pairs.
func checkParameters(r *run) error {
	return forEachOperation(r, func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error {
		itemParams, itemIDs, err := collectParameters(r, identity, itemLoc+"/parameters", item)
		if err != nil {
			return err
		}
		opParams, opIDs, err := collectParameters(r, identity, opLoc+"/parameters", op)
		if err != nil {
			return err
		}
		// An operation parameter may override a path-item parameter of the
		// same (name, in); duplicates are only rejected within one list.
		if err := checkParameterList(r, itemLoc+"/parameters", itemParams, itemIDs); err != nil {
			return err
		}
		if err := checkParameterList(r, opLoc+"/parameters", opParams, opIDs); err != nil {
			return err
		}

		bodyCount := 0
		hasFormData := false
		for _, p := range append(append([]*document.Node{}, itemParams...), opParams...) {
			switch in, _ := p.GetString("in"); in {
			case "body":
				bodyCount++
			case "formData":
				hasFormData = true
			}
		}

		if r.version().IsOAS2() {
			if bodyCount > 1 {
				return violation(opLoc, "at most one body parameter is allowed")
			}
			if bodyCount > 0 && hasFormData {
				return violation(opLoc, "body and formData parameters are mutually exclusive")
			}
		}
		return nil
	})
}

func checkParameterList(r *run, location string, params []*document.Node, identities []string) error {
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		pLoc := locIndex(location, i)
		if err := checkParameter(r, pLoc, identities[i], p); err != nil {
			return err
		}
		name, _ := p.GetString("name")
		in, _ := p.GetString("in")
		key := in + "|" + name
		if in == "header" {
			key = in + "|" + strings.ToLower(name)
		}
		if seen[key] {
			return violation(pLoc, "duplicate parameter %q in %s", name, in)
		}
		seen[key] = true
	}
	return nil
}

func checkParameter(r *run, location, identity string, p *document.Node) error {
	if !p.IsMapping() {
		return violation(location, "parameter must be an object")
	}

	name, ok := p.GetString("name")
	if !ok || name == "" {
		return violation(location, "parameter name is required")
	}
	in, ok := p.GetString("in")
	if !ok || in == "" {
		return violation(location, "parameter location (in) is required")
	}

	if r.version().IsOAS2() {
		return checkParameter2(location, name, in, p)
	}

	if !parameterLocations3x[in] {
		return violation(location, "invalid parameter location %q", in)
	}

	if in == "path" {
		if required, _ := p.GetBool("required"); !required {
			return violation(location, "path parameter %q must be required", name)
		}
	}

	hasSchema := p.Has("schema")
	hasContent := p.Has("content")
	switch {
	case hasSchema && hasContent:
		return violation(location, "parameter %q must declare schema or content, not both", name)
	case !hasSchema && !hasContent:
		return violation(location, "parameter %q must declare schema or content", name)
	}
	if hasContent {
		content, _ := p.GetMapping("content")
		if content == nil || content.Len() != 1 {
			return violation(location+"/content", "parameter content must hold exactly one media type")
		}
	}

	if style, ok := p.GetString("style"); ok {
		allowed := stylesPerLocation[in]
		if !allowed[style] {
			return violation(location, "style %q is not valid for %s parameters", style, in)
		}
		switch style {
		case "deepObject":
			if schema, ok := p.GetMapping("schema"); ok {
				resolved, _, err := r.resolveIfRef(schema, identity, location+"/schema")
				if err != nil {
					return err
				}
				if !schemaIsObject(resolved) {
					return violation(location, "deepObject style requires an object schema")
				}
			}
		case "spaceDelimited", "pipeDelimited":
			if explode, ok := p.GetBool("explode"); ok && explode {
				return violation(location, "style %q cannot be combined with explode", style)
			}
		}
	}

	return nil
}

// checkParameter2 applies the 2.0 family's parameter rules, where body
// parameters carry a schema and every other location carries a type.
func checkParameter2(location, name, in string, p *document.Node) error {
	if !parameterLocations2[in] {
		return violation(location, "invalid parameter location %q", in)
	}
	if in == "body" {
		if !p.Has("schema") {
			return violation(location, "body parameter %q requires a schema", name)
		}
		return nil
	}
	if !p.Has("type") {
		return violation(location, "parameter %q requires a type", name)
	}
	if in == "path" {
		if required, _ := p.GetBool("required"); !required {
			return violation(location, "path parameter %q must be required", name)
		}
	}
	return nil
}

// schemaIsObject reports whether a schema describes an object: an explicit
// object type, or no type alongside a properties map.
func schemaIsObject(schema *document.Node) bool {
	if !schema.IsMapping() {
		return false
	}
	if t, ok := schema.GetString("type"); ok {
		return t == "object"
	}
	return schema.Has("properties")
}
