package validator

import (
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// oauthFlowURLs maps each 3.x flow name to the URL fields it requires.
var oauthFlowURLs = map[string][]string{
	"implicit":          {"authorizationUrl"},
	"password":          {"tokenUrl"},
	"clientCredentials": {"tokenUrl"},
	"authorizationCode": {"authorizationUrl", "tokenUrl"},
}

// oauth2FlowFields2 maps each 2.0 flow value to its required URL fields.
var oauth2FlowFields2 = map[string][]string{
	"implicit":    {"authorizationUrl"},
	"password":    {"tokenUrl"},
	"application": {"tokenUrl"},
	"accessCode":  {"authorizationUrl", "tokenUrl"},
}

// checkSecuritySchemes validates declared security schemes and cross-checks
// every security requirement against the declared scheme names.
func checkSecuritySchemes(r *run) error {
	declared := make(map[string]bool)

	if r.version().IsOAS2() {
		if defs, ok := r.doc.Root.GetMapping("securityDefinitions"); ok {
			var failure error
			defs.Pairs(func(name string, scheme *document.Node) bool {
				declared[name] = true
				failure = checkSecurityScheme2(loc("securityDefinitions", name), scheme)
				return failure == nil
			})
			if failure != nil {
				return failure
			}
		}
	} else if components, ok := r.doc.Root.GetMapping("components"); ok {
		if schemes, ok := components.GetMapping("securitySchemes"); ok {
			var failure error
			schemes.Pairs(func(name string, scheme *document.Node) bool {
				declared[name] = true
				sLoc := loc("components", "securitySchemes", name)
				resolved, _, err := r.resolveIfRef(scheme, r.identity, sLoc)
				if err != nil {
					failure = err
					return false
				}
				failure = checkSecurityScheme3(r, sLoc, resolved)
				return failure == nil
			})
			if failure != nil {
				return failure
			}
		}
	}

	if err := checkSecurityRequirements(loc("security"), r.doc.Root, declared); err != nil {
		return err
	}
	return forEachOperation(r, func(identity, itemLoc string, item *document.Node, opLoc string, op *document.Node) error {
		return checkSecurityRequirements(opLoc+"/security", op, declared)
	})
}

func checkSecurityScheme3(r *run, location string, scheme *document.Node) error {
	if !scheme.IsMapping() {
		return violation(location, "security scheme must be an object")
	}
	schemeType, ok := scheme.GetString("type")
	if !ok || schemeType == "" {
		return violation(location, "security scheme type is required")
	}

	switch schemeType {
	case "apiKey":
		if name, ok := scheme.GetString("name"); !ok || name == "" {
			return violation(location, "apiKey scheme requires a name")
		}
		in, _ := scheme.GetString("in")
		if in != "query" && in != "header" && in != "cookie" {
			return violation(location, "apiKey scheme requires in to be query, header, or cookie")
		}
	case "http":
		if s, ok := scheme.GetString("scheme"); !ok || s == "" {
			return violation(location, "http scheme requires a scheme string")
		}
	case "oauth2":
		flows, ok := scheme.GetMapping("flows")
		if !ok || flows.Len() == 0 {
			return violation(location, "oauth2 scheme requires at least one flow")
		}
		var failure error
		flows.Pairs(func(flowName string, flow *document.Node) bool {
			if strings.HasPrefix(flowName, "x-") {
				return true
			}
			failure = checkOAuthFlow(location+"/flows/"+flowName, flowName, flow)
			return failure == nil
		})
		if failure != nil {
			return failure
		}
	case "openIdConnect":
		if u, ok := scheme.GetString("openIdConnectUrl"); !ok || u == "" {
			return violation(location, "openIdConnect scheme requires openIdConnectUrl")
		}
	case "mutualTLS":
		if !r.version().AtLeast31() {
			return violation(location, "mutualTLS schemes require OpenAPI 3.1 or later")
		}
	default:
		return violation(location, "unknown security scheme type %q", schemeType)
	}
	return nil
}

func checkOAuthFlow(location, flowName string, flow *document.Node) error {
	required, known := oauthFlowURLs[flowName]
	if !known {
		return violation(location, "unknown OAuth flow %q", flowName)
	}
	if !flow.IsMapping() {
		return violation(location, "OAuth flow must be an object")
	}
	for _, field := range required {
		if u, ok := flow.GetString(field); !ok || u == "" {
			return violation(location, "%s flow requires %s", flowName, field)
		}
	}
	if _, ok := flow.GetMapping("scopes"); !ok {
		return violation(location, "%s flow requires a scopes map", flowName)
	}
	return nil
}

func checkSecurityScheme2(location string, scheme *document.Node) error {
	if !scheme.IsMapping() {
		return violation(location, "security scheme must be an object")
	}
	schemeType, ok := scheme.GetString("type")
	if !ok || schemeType == "" {
		return violation(location, "security scheme type is required")
	}

	switch schemeType {
	case "basic":
	case "apiKey":
		if name, ok := scheme.GetString("name"); !ok || name == "" {
			return violation(location, "apiKey scheme requires a name")
		}
		in, _ := scheme.GetString("in")
		if in != "query" && in != "header" {
			return violation(location, "apiKey scheme requires in to be query or header")
		}
	case "oauth2":
		flowName, ok := scheme.GetString("flow")
		if !ok {
			return violation(location, "oauth2 scheme requires a flow")
		}
		required, known := oauth2FlowFields2[flowName]
		if !known {
			return violation(location, "unknown OAuth flow %q", flowName)
		}
		for _, field := range required {
			if u, ok := scheme.GetString(field); !ok || u == "" {
				return violation(location, "%s flow requires %s", flowName, field)
			}
		}
		if _, ok := scheme.GetMapping("scopes"); !ok {
			return violation(location, "oauth2 scheme requires a scopes map")
		}
	default:
		return violation(location, "unknown security scheme type %q", schemeType)
	}
	return nil
}

// checkSecurityRequirements verifies that every name used in a security
// requirement list refers to a declared scheme.
func checkSecurityRequirements(location string, owner *document.Node, declared map[string]bool) error {
	security, ok := owner.GetSequence("security")
	if !ok {
		return nil
	}
	for i, requirement := range security.Items() {
		if !requirement.IsMapping() {
			continue
		}
		var failure error
		requirement.Pairs(func(name string, scopes *document.Node) bool {
			if !declared[name] {
				failure = violation(locIndex(location, i),
					"security requirement references undeclared scheme %q", name)
			}
			return failure == nil
		})
		if failure != nil {
			return failure
		}
	}
	return nil
}
