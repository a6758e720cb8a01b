package document

import "strings"

// Reference is a reference expression: a string pointing at another location,
// optionally in another document, optionally with a JSON Pointer fragment.
//
// A reference always decomposes into a document part and a pointer part:
//
//	"#/components/schemas/Pet"          -> ("", "/components/schemas/Pet")
//	"pets.yaml#/components/schemas/Pet" -> ("pets.yaml", "/components/schemas/Pet")
//	"pets.yaml"                         -> ("pets.yaml", "")
//
// An empty document part means "this document".
type Reference string

// Target returns the document part of the expression: everything before the
// first '#'. Empty for purely local references.
func (r Reference) Target() string {
	s := string(r)
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// Pointer returns the JSON Pointer fragment of the expression: everything
// after the first '#'. Empty when the expression addresses a whole document.
func (r Reference) Pointer() string {
	s := string(r)
	idx := strings.IndexByte(s, '#')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(s[idx+1:])
}

// IsLocal reports whether the expression stays within the current document.
func (r Reference) IsLocal() bool {
	return r.Target() == ""
}

// String returns the raw expression.
func (r Reference) String() string {
	return string(r)
}
