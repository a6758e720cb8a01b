package validator

import (
	"errors"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/erraggy/oasgraph/document"
)

// httpMethods are the operation keys of a path item, in specification order.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// checkPaths validates path template integrity: leading slash, well-formed
// and non-repeating template braces, no two templates sharing the same
// positional shape, and a required path parameter for every template
// variable.
func checkPaths(r *run) error {
	paths, ok := r.doc.Root.GetMapping("paths")
	if !ok {
		return nil
	}

	// shape of each template with variable names erased, for ambiguity
	// detection across the whole paths object
	shapes := make(map[string]string)

	var failure error
	paths.Pairs(func(path string, item *document.Node) bool {
		if strings.HasPrefix(path, "x-") {
			return true
		}
		location := loc("paths", path)

		if !strings.HasPrefix(path, "/") {
			failure = violation(location, "path %q must start with /", path)
			return false
		}

		vars, err := templateVariables(path)
		if err != nil {
			failure = violation(location, "malformed path template %q: %v", path, err)
			return false
		}
		seen := make(map[string]bool, len(vars))
		for _, name := range vars {
			if seen[name] {
				failure = violation(location, "path template %q repeats variable %q", path, name)
				return false
			}
			seen[name] = true
		}

		// Cross-check the template against RFC 6570 syntax as well; the
		// brace scan above catches OpenAPI-specific shapes the RFC allows.
		if _, err := uritemplate.New(path); err != nil {
			failure = violation(location, "invalid path template %q: %v", path, err)
			return false
		}

		shape := positionalShape(path)
		if prior, ok := shapes[shape]; ok {
			failure = violation(location,
				"path templates %q and %q differ only in variable names and are ambiguous", prior, path)
			return false
		}
		shapes[shape] = path

		failure = checkTemplateParameterDuality(r, location, path, vars, item)
		return failure == nil
	})
	return failure
}

// positionalShape erases variable names from a template so that two paths
// with the same literal segments and variable positions collide.
func positionalShape(path string) string {
	var b strings.Builder
	inVar := false
	for _, ch := range path {
		switch {
		case ch == '{':
			inVar = true
			b.WriteString("{}")
		case ch == '}':
			inVar = false
		case !inVar:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// checkTemplateParameterDuality requires a matching required path parameter
// for every template variable, unless the path item is a pure reference or
// declares no operations.
func checkTemplateParameterDuality(r *run, location, path string, vars []string, item *document.Node) error {
	if len(vars) == 0 || !item.IsMapping() || item.IsRef() {
		return nil
	}

	itemParams, _, err := collectParameters(r, r.identity, location+"/parameters", item)
	if err != nil {
		return err
	}

	for _, method := range httpMethods {
		op, ok := item.GetMapping(method)
		if !ok {
			continue
		}
		opParams, _, err := collectParameters(r, r.identity, location+"/"+method+"/parameters", op)
		if err != nil {
			return err
		}
		effective := append(append([]*document.Node{}, itemParams...), opParams...)
		for _, name := range vars {
			if !hasRequiredPathParameter(effective, name) {
				return violation(location+"/"+method,
					"path %q declares template variable %q without a required path parameter", path, name)
			}
		}
	}
	return nil
}

// collectParameters reads a parameters list off a path item or operation,
// resolving any referenced entries in the context of the document identified
// by identity. The returned identities slice is parallel to the parameters
// and names the document each resolved entry lives in.
func collectParameters(r *run, identity, location string, owner *document.Node) ([]*document.Node, []string, error) {
	list, ok := owner.GetSequence("parameters")
	if !ok {
		return nil, nil, nil
	}
	params := make([]*document.Node, 0, list.Len())
	identities := make([]string, 0, list.Len())
	for i, entry := range list.Items() {
		resolved, entryID, err := r.resolveIfRef(entry, identity, locIndex(location, i))
		if err != nil {
			return nil, nil, err
		}
		params = append(params, resolved)
		identities = append(identities, entryID)
	}
	return params, identities, nil
}

func hasRequiredPathParameter(params []*document.Node, name string) bool {
	for _, p := range params {
		if !p.IsMapping() {
			continue
		}
		pName, _ := p.GetString("name")
		pIn, _ := p.GetString("in")
		if pName != name || pIn != "path" {
			continue
		}
		required, _ := p.GetBool("required")
		return required
	}
	return false
}

// templateVariables extracts the {variable} names of a template, rejecting
// nested, unmatched, or empty braces. Duplicates are returned as-is for the
// caller to judge.
func templateVariables(s string) ([]string, error) {
	var (
		vars  []string
		start = -1
	)
	for i, ch := range s {
		switch ch {
		case '{':
			if start >= 0 {
				return nil, errors.New("nested opening brace")
			}
			start = i
		case '}':
			if start < 0 {
				return nil, errors.New("unmatched closing brace")
			}
			name := s[start+1 : i]
			if name == "" {
				return nil, errors.New("empty variable name")
			}
			vars = append(vars, name)
			start = -1
		}
	}
	if start >= 0 {
		return nil, errors.New("unclosed brace")
	}
	return vars, nil
}
