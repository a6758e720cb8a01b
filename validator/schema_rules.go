package validator

import (
	"github.com/erraggy/oasgraph/document"
)

// checkSchemaRules validates discriminator and XML rules over every schema
// reachable from the root document: reusable schemas and the inline schemas
// of parameters, request bodies, and responses.
func checkSchemaRules(r *run) error {
	root := r.doc.Root

	if r.version().IsOAS2() {
		if defs, ok := root.GetMapping("definitions"); ok {
			if err := checkSchemaMap(r, loc("definitions"), defs); err != nil {
				return err
			}
		}
	} else if components, ok := root.GetMapping("components"); ok {
		if schemas, ok := components.GetMapping("schemas"); ok {
			if err := checkSchemaMap(r, loc("components", "schemas"), schemas); err != nil {
				return err
			}
		}
	}

	return forEachOperation(r, func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error {
		if params, ok := op.GetSequence("parameters"); ok {
			for i, p := range params.Items() {
				if schema, ok := p.GetMapping("schema"); ok {
					if err := checkSchema(r, locIndex(opLoc+"/parameters", i)+"/schema", schema, 0); err != nil {
						return err
					}
				}
			}
		}
		if body, ok := op.GetMapping("requestBody"); ok {
			if err := checkContentSchemas(r, opLoc+"/requestBody/content", body); err != nil {
				return err
			}
		}
		if responses, ok := op.GetMapping("responses"); ok {
			var failure error
			responses.Pairs(func(code string, response *document.Node) bool {
				codeLoc := opLoc + "/responses/" + document.EscapePointerSegment(code)
				if !response.IsMapping() {
					return true
				}
				if schema, ok := response.GetMapping("schema"); ok {
					// 2.0 stores the response schema directly
					failure = checkSchema(r, codeLoc+"/schema", schema, 0)
					return failure == nil
				}
				failure = checkContentSchemas(r, codeLoc+"/content", response)
				return failure == nil
			})
			return failure
		}
		return nil
	})
}

func checkContentSchemas(r *run, location string, owner *document.Node) error {
	content, ok := owner.GetMapping("content")
	if !ok {
		return nil
	}
	var failure error
	content.Pairs(func(mediaType string, mt *document.Node) bool {
		if schema, ok := mt.GetMapping("schema"); ok {
			failure = checkSchema(r,
				location+"/"+document.EscapePointerSegment(mediaType)+"/schema", schema, 0)
		}
		return failure == nil
	})
	return failure
}

func checkSchemaMap(r *run, location string, schemas *document.Node) error {
	var failure error
	schemas.Pairs(func(name string, schema *document.Node) bool {
		failure = checkSchema(r, location+"/"+document.EscapePointerSegment(name), schema, 0)
		return failure == nil
	})
	return failure
}

// checkSchema validates one schema and recurses into its subschemas.
// References are not followed: each named schema is validated where it is
// declared.
func checkSchema(r *run, location string, schema *document.Node, depth int) error {
	if depth > r.maxDepth {
		return violation(location, "schema nesting exceeds %d levels", r.maxDepth)
	}
	if !schema.IsMapping() || schema.IsRef() {
		return nil
	}

	if disc, ok := schema.GetMapping("discriminator"); ok {
		if !schema.Has("oneOf") && !schema.Has("anyOf") && !schema.Has("allOf") {
			return violation(location, "discriminator requires a oneOf, anyOf, or allOf composition")
		}
		if propName, ok := disc.GetString("propertyName"); ok && propName != "" {
			if !schemaRequires(schema, propName) && !disc.Has("defaultMapping") {
				return violation(location+"/discriminator",
					"optional discriminator property %q requires a defaultMapping", propName)
			}
		}
	}

	if xml, ok := schema.GetMapping("xml"); ok {
		if wrapped, _ := xml.GetBool("wrapped"); wrapped {
			if t, _ := schema.GetString("type"); t != "array" {
				return violation(location+"/xml", "wrapped is only valid on array schemas")
			}
		}
	}

	if props, ok := schema.GetMapping("properties"); ok {
		var failure error
		props.Pairs(func(name string, sub *document.Node) bool {
			failure = checkSchema(r, location+"/properties/"+document.EscapePointerSegment(name), sub, depth+1)
			return failure == nil
		})
		if failure != nil {
			return failure
		}
	}
	if patternProps, ok := schema.GetMapping("patternProperties"); ok {
		var failure error
		patternProps.Pairs(func(pattern string, sub *document.Node) bool {
			failure = checkSchema(r, location+"/patternProperties/"+document.EscapePointerSegment(pattern), sub, depth+1)
			return failure == nil
		})
		if failure != nil {
			return failure
		}
	}
	for _, key := range []string{"items", "additionalProperties", "not"} {
		if sub, ok := schema.GetMapping(key); ok {
			if err := checkSchema(r, location+"/"+key, sub, depth+1); err != nil {
				return err
			}
		}
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf", "prefixItems"} {
		members, ok := schema.GetSequence(key)
		if !ok {
			continue
		}
		for i, member := range members.Items() {
			if err := checkSchema(r, locIndex(location+"/"+key, i), member, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// schemaRequires reports whether a schema's required list names the given
// property.
func schemaRequires(schema *document.Node, property string) bool {
	required, ok := schema.GetSequence("required")
	if !ok {
		return false
	}
	for _, entry := range required.Items() {
		if entry.Kind() == document.KindString && entry.Str() == property {
			return true
		}
	}
	return false
}
