package resolver

import (
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// Option is one (discriminator value, concrete schema) pair of a
// discriminated union.
type Option struct {
	// Value is the discriminator value selecting this alternative.
	Value string
	// Ref is the reference expression that produced Schema, when the
	// alternative was declared by reference. Empty for inline schemas.
	Ref document.Reference
	// Schema is the resolved concrete schema.
	Schema *document.Node
}

// PolymorphicOptions computes the closed set of discriminated alternatives
// declared by a schema. It applies only when the schema declares both a oneOf
// composition and a discriminator; any other schema yields an empty set and
// no diagnostics.
//
// An explicit discriminator mapping wins: each entry is resolved and paired
// with its declared key, and entries that fail to resolve are dropped with a
// diagnostic rather than failing the whole set. Without a mapping, each oneOf
// member supplies its own value implicitly via the first enum entry of the
// property the discriminator names; members lacking that shape are dropped.
func (r *Resolver) PolymorphicOptions(schema *document.Node, fromIdentity string) ([]Option, []Diagnostic) {
	if schema == nil || schema.Kind() != document.KindMapping {
		return nil, nil
	}
	oneOf, hasOneOf := schema.GetSequence("oneOf")
	disc, hasDisc := schema.GetMapping("discriminator")
	if !hasOneOf || !hasDisc {
		return nil, nil
	}
	propName, ok := disc.GetString("propertyName")
	if !ok || propName == "" {
		return nil, nil
	}

	if mapping, ok := disc.GetMapping("mapping"); ok && mapping.Len() > 0 {
		return r.explicitOptions(mapping, fromIdentity)
	}
	return r.implicitOptions(oneOf, propName, fromIdentity)
}

func (r *Resolver) explicitOptions(mapping *document.Node, fromIdentity string) ([]Option, []Diagnostic) {
	var (
		options []Option
		diags   []Diagnostic
	)
	mapping.Pairs(func(value string, target *document.Node) bool {
		if target.Kind() != document.KindString {
			diags = append(diags, Diagnostic{
				Message: "discriminator mapping value for " + value + " is not a string",
			})
			return true
		}
		ref := document.Reference(mappingTargetRef(target.Str()))
		resolved, err := r.Resolve(ref, fromIdentity)
		if err != nil {
			r.log().Debug("dropping unresolvable discriminator mapping entry",
				"value", value, "ref", ref.String(), "error", err)
			diags = append(diags, Diagnostic{
				Ref:     ref,
				Message: "unresolvable discriminator mapping entry for " + value + ": " + err.Error(),
			})
			return true
		}
		options = append(options, Option{Value: value, Ref: ref, Schema: resolved})
		return true
	})
	return options, diags
}

func (r *Resolver) implicitOptions(oneOf *document.Node, propName, fromIdentity string) ([]Option, []Diagnostic) {
	var (
		options []Option
		diags   []Diagnostic
	)
	for _, member := range oneOf.Items() {
		var (
			resolved = member
			ref      document.Reference
		)
		if refStr, ok := member.RefString(); ok {
			ref = document.Reference(refStr)
			node, err := r.Resolve(ref, fromIdentity)
			if err != nil {
				diags = append(diags, Diagnostic{
					Ref:     ref,
					Message: "unresolvable oneOf member: " + err.Error(),
				})
				continue
			}
			resolved = node
		}
		value, ok := implicitValue(resolved, propName)
		if !ok {
			diags = append(diags, Diagnostic{
				Ref:     ref,
				Message: "oneOf member declares no enum for discriminator property " + propName,
			})
			continue
		}
		options = append(options, Option{Value: value, Ref: ref, Schema: resolved})
	}
	return options, diags
}

// implicitValue reads properties.<propName>.enum[0] from a resolved schema.
func implicitValue(schema *document.Node, propName string) (string, bool) {
	props, ok := schema.GetMapping("properties")
	if !ok {
		return "", false
	}
	prop, ok := props.GetMapping(propName)
	if !ok {
		return "", false
	}
	enum, ok := prop.GetSequence("enum")
	if !ok || enum.Len() == 0 {
		return "", false
	}
	first, ok := enum.Index(0)
	if !ok || first.Kind() != document.KindString {
		return "", false
	}
	return first.Str(), true
}

// mappingTargetRef expands the bare-name shorthand allowed in discriminator
// mappings: a value with no fragment and no path separator names a schema
// under components/schemas.
func mappingTargetRef(target string) string {
	if strings.ContainsAny(target, "/#") {
		return target
	}
	return "#/components/schemas/" + target
}
