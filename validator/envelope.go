package validator

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/erraggy/oasgraph/document"
)

// checkEnvelope validates the version declaration and the top-level
// document envelope.
func checkEnvelope(r *run) error {
	root := r.doc.Root
	if !root.IsMapping() {
		return violation("", "document root must be an object")
	}

	hasOpenAPI := root.Has("openapi")
	hasSwagger := root.Has("swagger")
	switch {
	case hasOpenAPI && hasSwagger:
		return violation("", "document declares both openapi and swagger version fields")
	case !hasOpenAPI && !hasSwagger:
		return violation("", "document declares neither openapi nor swagger version field")
	}

	if r.version() == document.VersionUnknown {
		field := "openapi"
		if hasSwagger {
			field = "swagger"
		}
		return violation(loc(field), "unrecognized version %q", r.doc.VersionString)
	}
	if hasSwagger && r.doc.VersionString != "2.0" {
		return violation(loc("swagger"), "swagger field must be exactly \"2.0\", got %q", r.doc.VersionString)
	}

	info, ok := root.GetMapping("info")
	if !ok {
		return violation("", "info object is required")
	}
	if title, ok := info.GetString("title"); !ok || title == "" {
		return violation(loc("info"), "info.title is required")
	}
	if version, ok := info.GetString("version"); !ok || version == "" {
		return violation(loc("info"), "info.version is required")
	}

	if license, ok := info.GetMapping("license"); ok {
		licenseLoc := loc("info", "license")
		if name, ok := license.GetString("name"); !ok || name == "" {
			return violation(licenseLoc, "license.name is required")
		}
		if license.Has("url") && license.Has("identifier") {
			return violation(licenseLoc, "license url and identifier are mutually exclusive")
		}
	}

	switch {
	case r.version().IsOAS2():
		if _, ok := root.GetMapping("paths"); !ok {
			return violation("", "paths object is required")
		}
	case r.version().AtLeast31():
		if !root.Has("paths") && !root.Has("components") && !root.Has("webhooks") {
			return violation("", "at least one of paths, components, or webhooks is required")
		}
	default:
		if _, ok := root.GetMapping("paths"); !ok {
			return violation("", "paths object is required")
		}
	}

	return nil
}

// checkURIFields validates every field the specifications document as a URI
// or URI reference, and requires HTTPS on OAuth flow endpoints.
func checkURIFields(r *run) error {
	root := r.doc.Root

	if info, ok := root.GetMapping("info"); ok {
		if tos, ok := info.GetString("termsOfService"); ok {
			if err := checkURIRef(loc("info", "termsOfService"), tos); err != nil {
				return err
			}
		}
		if contact, ok := info.GetMapping("contact"); ok {
			if u, ok := contact.GetString("url"); ok {
				if err := checkURIRef(loc("info", "contact", "url"), u); err != nil {
					return err
				}
			}
			if email, ok := contact.GetString("email"); ok {
				if _, err := mail.ParseAddress(email); err != nil {
					return violation(loc("info", "contact", "email"), "invalid email address %q", email)
				}
			}
		}
		if license, ok := info.GetMapping("license"); ok {
			if u, ok := license.GetString("url"); ok {
				if err := checkURIRef(loc("info", "license", "url"), u); err != nil {
					return err
				}
			}
		}
	}

	if err := checkExternalDocs(loc("externalDocs"), root); err != nil {
		return err
	}

	if dialect, ok := root.GetString("jsonSchemaDialect"); ok {
		if err := checkURIRef(loc("jsonSchemaDialect"), dialect); err != nil {
			return err
		}
	}
	if self, ok := root.GetString("$self"); ok {
		if err := checkURIRef(loc("$self"), self); err != nil {
			return err
		}
	}

	if servers, ok := root.GetSequence("servers"); ok {
		for i, server := range servers.Items() {
			if err := checkServer(locIndex(loc("servers"), i), server); err != nil {
				return err
			}
		}
	}

	return checkOAuthEndpointsHTTPS(r)
}

func checkExternalDocs(location string, parent *document.Node) error {
	docs, ok := parent.GetMapping("externalDocs")
	if !ok {
		return nil
	}
	u, ok := docs.GetString("url")
	if !ok || u == "" {
		return violation(location, "externalDocs.url is required")
	}
	return checkURIRef(location+"/url", u)
}

// checkServer validates a server object: the url is required, its template
// braces must be balanced, and every variable it names must be declared with
// a default value.
func checkServer(location string, server *document.Node) error {
	if !server.IsMapping() {
		return violation(location, "server must be an object")
	}
	serverURL, ok := server.GetString("url")
	if !ok || serverURL == "" {
		return violation(location, "server url is required")
	}

	vars, err := templateVariables(serverURL)
	if err != nil {
		return violation(location+"/url", "malformed server url template %q: %v", serverURL, err)
	}
	if len(vars) == 0 {
		return checkURIRef(location+"/url", serverURL)
	}

	declared, _ := server.GetMapping("variables")
	for _, name := range vars {
		if declared == nil {
			return violation(location, "server url names variable %q but declares no variables", name)
		}
		v, ok := declared.GetMapping(name)
		if !ok {
			return violation(location, "server url names undeclared variable %q", name)
		}
		if _, ok := v.GetString("default"); !ok {
			return violation(location+"/variables/"+document.EscapePointerSegment(name),
				"server variable %q requires a default value", name)
		}
	}
	return nil
}

func checkOAuthEndpointsHTTPS(r *run) error {
	root := r.doc.Root
	if r.version().IsOAS2() {
		defs, ok := root.GetMapping("securityDefinitions")
		if !ok {
			return nil
		}
		var failure error
		defs.Pairs(func(name string, scheme *document.Node) bool {
			if t, _ := scheme.GetString("type"); t != "oauth2" {
				return true
			}
			base := loc("securityDefinitions", name)
			for _, field := range []string{"authorizationUrl", "tokenUrl"} {
				if u, ok := scheme.GetString(field); ok {
					if failure = checkHTTPSURL(base+"/"+field, u); failure != nil {
						return false
					}
				}
			}
			return true
		})
		return failure
	}

	components, ok := root.GetMapping("components")
	if !ok {
		return nil
	}
	schemes, ok := components.GetMapping("securitySchemes")
	if !ok {
		return nil
	}
	var failure error
	schemes.Pairs(func(name string, scheme *document.Node) bool {
		if !scheme.IsMapping() {
			return true
		}
		if t, _ := scheme.GetString("type"); t != "oauth2" {
			return true
		}
		flows, ok := scheme.GetMapping("flows")
		if !ok {
			return true
		}
		base := loc("components", "securitySchemes", name, "flows")
		flows.Pairs(func(flowName string, flow *document.Node) bool {
			if !flow.IsMapping() {
				return true
			}
			for _, field := range []string{"authorizationUrl", "tokenUrl", "refreshUrl"} {
				if u, ok := flow.GetString(field); ok {
					if failure = checkHTTPSURL(base+"/"+flowName+"/"+field, u); failure != nil {
						return false
					}
				}
			}
			return true
		})
		return failure == nil
	})
	return failure
}

func checkURIRef(location, value string) error {
	if _, err := url.Parse(value); err != nil {
		return violation(location, "invalid URI reference %q", value)
	}
	return nil
}

func checkHTTPSURL(location, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return violation(location, "invalid URL %q", value)
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return violation(location, "OAuth endpoint %q must use https", value)
	}
	return nil
}
