package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceDecomposition(t *testing.T) {
	tests := []struct {
		ref     string
		target  string
		pointer string
		local   bool
	}{
		{"#/components/schemas/Pet", "", "/components/schemas/Pet", true},
		{"pets.yaml#/components/schemas/Pet", "pets.yaml", "/components/schemas/Pet", false},
		{"pets.yaml", "pets.yaml", "", false},
		{"https://example.com/api.yaml#/info", "https://example.com/api.yaml", "/info", false},
		{"", "", "", true},
	}

	for _, tt := range tests {
		r := Reference(tt.ref)
		assert.Equal(t, tt.target, r.Target(), "target of %q", tt.ref)
		assert.Equal(t, tt.pointer, r.Pointer(), "pointer of %q", tt.ref)
		assert.Equal(t, tt.local, r.IsLocal(), "locality of %q", tt.ref)
	}
}

func TestPointerSegmentEscaping(t *testing.T) {
	assert.Equal(t, "/pets/{id}", UnescapePointerSegment("~1pets~1{id}"))
	assert.Equal(t, "~1", UnescapePointerSegment("~01"))
	assert.Equal(t, "~1pets~1{id}", EscapePointerSegment("/pets/{id}"))
	assert.Equal(t, "~01", EscapePointerSegment("~1"))
}

func TestResolvePointer(t *testing.T) {
	root := mustParse(t, `
paths:
  /pets/{id}:
    get:
      operationId: getPet
components:
  schemas:
    Pet:
      type: object
servers:
  - url: https://api.example.com
`)

	op, err := ResolvePointer(root, "/paths/~1pets~1{id}/get/operationId")
	require.NoError(t, err)
	assert.Equal(t, "getPet", op.Str())

	pet, err := ResolvePointer(root, "/components/schemas/Pet")
	require.NoError(t, err)
	assert.Equal(t, KindMapping, pet.Kind())

	server, err := ResolvePointer(root, "/servers/0/url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", server.Str())
}

func TestResolvePointerWholeDocument(t *testing.T) {
	root := mustParse(t, "openapi: 3.1.0\n")
	got, err := ResolvePointer(root, "")
	require.NoError(t, err)
	assert.Same(t, root, got)
}

func TestResolvePointerEmptyKey(t *testing.T) {
	root := mustParse(t, "\"\": empty\nopenapi: 3.1.0\n")

	// "/" names the empty-string key at the root, not the root itself.
	got, err := ResolvePointer(root, "/")
	require.NoError(t, err)
	assert.Equal(t, "empty", got.Str())

	_, err = ResolvePointer(mustParse(t, "openapi: 3.1.0\n"), "/")
	var perr *PointerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "", perr.Segment)
}

func TestResolvePointerMissingKey(t *testing.T) {
	root := mustParse(t, "components:\n  schemas: {}\n")
	_, err := ResolvePointer(root, "/components/schemas/Missing")

	var perr *PointerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Missing", perr.Segment)
	assert.Equal(t, "/components/schemas/Missing", perr.Pointer)
}

func TestResolvePointerBadIndex(t *testing.T) {
	root := mustParse(t, "servers:\n  - url: https://a\n")

	_, err := ResolvePointer(root, "/servers/one")
	var perr *PointerError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "one", perr.Segment)

	_, err = ResolvePointer(root, "/servers/4")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "4", perr.Segment)
}

func TestResolvePointerIntoScalar(t *testing.T) {
	root := mustParse(t, "openapi: 3.1.0\n")
	_, err := ResolvePointer(root, "/openapi/minor")
	var perr *PointerError
	require.ErrorAs(t, err, &perr)
}
