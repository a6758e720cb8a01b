package validator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgraph/graph"
	"github.com/erraggy/oasgraph/oaserrors"
)

// validate discovers a graph from the given files and runs a full
// validation pass, returning the first violation (or nil).
func validate(t *testing.T, root string, files map[string]string) error {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cache, err := graph.NewWalker().Discover(context.Background(), filepath.Join(dir, root))
	require.NoError(t, err)
	return New().Validate(cache)
}

func validateDoc(t *testing.T, doc string) error {
	t.Helper()
	return validate(t, "api.yaml", map[string]string{"api.yaml": doc})
}

// requireViolation asserts the error is a ValidationError and returns it.
func requireViolation(t *testing.T, err error) *oaserrors.ValidationError {
	t.Helper()
	var verr *oaserrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Is(err, oaserrors.ErrValidation))
	return verr
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	err := validateDoc(t, `
openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
  contact:
    email: api@example.com
    url: https://example.com/support
  license:
    name: Apache 2.0
    identifier: Apache-2.0
servers:
  - url: https://api.example.com/{basePath}
    variables:
      basePath:
        default: v1
tags:
  - name: pets
  - name: cats
    parent: pets
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          schema: {type: integer}
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items: {$ref: '#/components/schemas/Pet'}
        default:
          description: error
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema: {type: string}
    get:
      operationId: getPet
      responses:
        '200':
          description: ok
webhooks:
  newPet:
    post:
      operationId: onNewPet
      responses:
        '200': {description: ok}
security:
  - apiKey: []
components:
  schemas:
    Pet:
      type: object
      required: [petType]
      properties:
        petType:
          type: string
          enum: [cat, dog]
  securitySchemes:
    apiKey:
      type: apiKey
      name: X-Api-Key
      in: header
`)
	assert.NoError(t, err)
}

func TestValidateAcceptsSwagger2Document(t *testing.T) {
	err := validateDoc(t, `
swagger: "2.0"
info:
  title: Legacy
  version: 1.0.0
paths:
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          type: string
      responses:
        '200':
          description: ok
definitions:
  Pet: {type: object}
securityDefinitions:
  auth:
    type: oauth2
    flow: accessCode
    authorizationUrl: https://example.com/oauth/authorize
    tokenUrl: https://example.com/oauth/token
    scopes:
      read: read access
`)
	assert.NoError(t, err)
}

func TestEnvelopeViolations(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		location string
		contains string
	}{
		{
			name:     "both version fields",
			doc:      "openapi: 3.1.0\nswagger: \"2.0\"\ninfo: {title: T, version: \"1\"}\npaths: {}\n",
			contains: "both",
		},
		{
			name:     "unrecognized version",
			doc:      "openapi: 9.9.9\ninfo: {title: T, version: \"1\"}\npaths: {}\n",
			location: "/openapi",
			contains: "unrecognized",
		},
		{
			name:     "missing info title",
			doc:      "openapi: 3.1.0\ninfo: {version: \"1\"}\npaths: {}\n",
			location: "/info",
			contains: "title",
		},
		{
			name:     "missing info version",
			doc:      "openapi: 3.1.0\ninfo: {title: T}\npaths: {}\n",
			location: "/info",
			contains: "info.version",
		},
		{
			name: "license url and identifier",
			doc: `openapi: 3.1.0
info:
  title: T
  version: "1"
  license:
    name: MIT
    url: https://opensource.org/licenses/MIT
    identifier: MIT
paths: {}
`,
			location: "/info/license",
			contains: "mutually exclusive",
		},
		{
			name:     "3.1 with no containers",
			doc:      "openapi: 3.1.0\ninfo: {title: T, version: \"1\"}\n",
			contains: "at least one of",
		},
		{
			name:     "3.0 without paths",
			doc:      "openapi: 3.0.3\ninfo: {title: T, version: \"1\"}\n",
			contains: "paths",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := requireViolation(t, validateDoc(t, tt.doc))
			if tt.location != "" {
				assert.Equal(t, tt.location, verr.Location)
			}
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestURIFieldViolations(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info:
  title: T
  version: "1"
  contact:
    email: not an email
paths: {}
`))
	assert.Equal(t, "/info/contact/email", verr.Location)

	verr = requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
components:
  securitySchemes:
    auth:
      type: oauth2
      flows:
        implicit:
          authorizationUrl: http://insecure.example.com/authorize
          scopes: {}
`))
	assert.Contains(t, verr.Message, "https")
}

func TestServerVariableViolations(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
servers:
  - url: https://api.example.com/{region}
paths: {}
`))
	assert.Contains(t, verr.Message, "region")

	verr = requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
servers:
  - url: https://api.example.com/{region}
    variables:
      region:
        enum: [us, eu]
paths: {}
`))
	assert.Contains(t, verr.Message, "default")
}

func TestPathTemplateViolations(t *testing.T) {
	tests := []struct {
		name     string
		paths    string
		contains string
	}{
		{
			name:     "missing leading slash",
			paths:    "  pets: {}\n",
			contains: "must start with /",
		},
		{
			name:     "empty braces",
			paths:    "  /pets/{}: {}\n",
			contains: "empty variable name",
		},
		{
			name:     "unclosed brace",
			paths:    "  /pets/{id: {}\n",
			contains: "unclosed brace",
		},
		{
			name: "repeated variable",
			paths: "  /pets/{id}/toys/{id}: {}\n",
			contains: "repeats variable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := requireViolation(t, validateDoc(t,
				"openapi: 3.1.0\ninfo: {title: T, version: \"1\"}\npaths:\n"+tt.paths))
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestAmbiguousPathTemplates(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /users/{id}: {}
  /users/{name}: {}
`))
	// Both original path strings are cited.
	assert.Contains(t, verr.Message, "/users/{id}")
	assert.Contains(t, verr.Message, "/users/{name}")
	assert.Contains(t, verr.Message, "ambiguous")
}

func TestTemplateVariableWithoutPathParameter(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /items/{id}:
    get:
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, `"id"`)
	assert.Contains(t, verr.Message, "/items/{id}")
}

func TestTemplateVariableExemptions(t *testing.T) {
	// A path item with no operations needs no parameter definitions.
	assert.NoError(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /items/{id}: {}
`))

	// A pure reference path item is exempt as well.
	assert.NoError(t, validate(t, "api.yaml", map[string]string{
		"api.yaml": `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /items/{id}:
    $ref: 'items.yaml#/ItemPath'
`,
		"items.yaml": `
ItemPath:
  get:
    operationId: getItem
    parameters:
      - name: id
        in: path
        required: true
        schema: {type: string}
    responses:
      '200': {description: ok}
`,
	}))
}

func TestParameterViolations(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		contains string
	}{
		{
			name: "style not valid for location",
			params: `        - name: limit
          in: query
          style: matrix
          schema: {type: integer}
`,
			contains: "style",
		},
		{
			name: "spaceDelimited with explode",
			params: `        - name: ids
          in: query
          style: spaceDelimited
          explode: true
          schema: {type: array}
`,
			contains: "explode",
		},
		{
			name: "deepObject on non-object schema",
			params: `        - name: filter
          in: query
          style: deepObject
          schema: {type: string}
`,
			contains: "deepObject",
		},
		{
			name: "schema and content together",
			params: `        - name: filter
          in: query
          schema: {type: string}
          content:
            application/json:
              schema: {type: string}
`,
			contains: "not both",
		},
		{
			name: "neither schema nor content",
			params: `        - name: filter
          in: query
`,
			contains: "schema or content",
		},
		{
			name: "duplicate name and location",
			params: `        - name: limit
          in: query
          schema: {type: integer}
        - name: limit
          in: query
          schema: {type: string}
`,
			contains: "duplicate",
		},
		{
			name: "duplicate header case-insensitive",
			params: `        - name: X-Trace
          in: header
          schema: {type: string}
        - name: x-trace
          in: header
          schema: {type: string}
`,
			contains: "duplicate",
		},
		{
			name: "invalid location",
			params: `        - name: limit
          in: nowhere
          schema: {type: integer}
`,
			contains: "location",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      parameters:
` + tt.params + `      responses:
        '200': {description: ok}
`
			verr := requireViolation(t, validateDoc(t, doc))
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestPathParameterMustBeRequired(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets/{id}:
    get:
      parameters:
        - name: id
          in: path
          schema: {type: string}
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, "required")
}

func TestBodyViolations(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{
			name: "invalid media type",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      requestBody:
        content:
          'not a media type':
            schema: {type: object}
      responses:
        '200': {description: ok}
`,
			contains: "media type",
		},
		{
			name: "encoding on json payload",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      requestBody:
        content:
          application/json:
            schema: {type: object}
            encoding:
              field: {contentType: text/plain}
      responses:
        '200': {description: ok}
`,
			contains: "encoding",
		},
		{
			name: "example and examples",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      requestBody:
        content:
          application/json:
            schema: {type: object}
            example: {}
            examples:
              one: {value: {}}
      responses:
        '200': {description: ok}
`,
			contains: "mutually exclusive",
		},
		{
			name: "requestBody without content",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      requestBody:
        description: no content map
      responses:
        '200': {description: ok}
`,
			contains: "content",
		},
		{
			name: "missing response description",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      responses:
        '200':
          content:
            application/json:
              schema: {type: object}
`,
			contains: "description",
		},
		{
			name: "invalid status code",
			doc: `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      responses:
        '6XX': {description: server melted}
`,
			contains: "status code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := requireViolation(t, validateDoc(t, tt.doc))
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestStatusCodeWildcardAndExtensionsAccepted(t *testing.T) {
	assert.NoError(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      responses:
        '2XX': {description: success family}
        '404': {description: missing}
        default: {description: fallback}
        x-internal: {description: extension}
`))
}

func TestDuplicateOperationIDWithinDocument(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200': {description: ok}
  /cats:
    get:
      operationId: listPets
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, "listPets")
	assert.Contains(t, verr.Message, "duplicate operationId")
}

func TestDuplicateOperationIDAcrossWebhooks(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: onPets
      responses:
        '200': {description: ok}
webhooks:
  petEvent:
    post:
      operationId: onPets
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, "onPets")
}

func TestDuplicateOperationIDAcrossDocuments(t *testing.T) {
	err := validate(t, "api.yaml", map[string]string{
		"api.yaml": `
openapi: 3.1.0
info: {title: A, version: "1"}
paths:
  /pets:
    get:
      operationId: listThings
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: 'other.yaml#/components/schemas/Thing'
`,
		"other.yaml": `
openapi: 3.1.0
info: {title: B, version: "1"}
paths:
  /things:
    get:
      operationId: listThings
      responses:
        '200': {description: ok}
components:
  schemas:
    Thing: {type: object}
`,
	})
	verr := requireViolation(t, err)
	assert.Contains(t, verr.Message, "listThings")
}

func TestReferencedPathItemResolvesLocalRefsInItsOwnDocument(t *testing.T) {
	err := validate(t, "api.yaml", map[string]string{
		"api.yaml": `
openapi: 3.1.0
info: {title: A, version: "1"}
paths:
  /items/{id}:
    $ref: 'items.yaml#/ItemPath'
`,
		"items.yaml": `
ItemPath:
  parameters:
    - $ref: '#/IDParam'
  get:
    operationId: getItem
    responses:
      '200': {description: ok}
IDParam:
  name: id
  in: path
  required: true
  schema: {type: string}
`,
	})
	assert.NoError(t, err)
}

func TestDuplicateOperationIDInReferencedFragment(t *testing.T) {
	err := validate(t, "api.yaml", map[string]string{
		"api.yaml": `
openapi: 3.1.0
info: {title: A, version: "1"}
paths:
  /pets:
    get:
      operationId: dupId
      responses:
        '200': {description: ok}
  /more:
    $ref: 'frag.yaml#/MorePath'
`,
		"frag.yaml": `
MorePath:
  get:
    operationId: dupId
    responses:
      '200': {description: ok}
`,
	})
	verr := requireViolation(t, err)
	assert.Contains(t, verr.Message, "duplicate operationId")
	assert.Contains(t, verr.Message, "dupId")
}

func TestSharedPathItemFragmentCountsOnce(t *testing.T) {
	err := validate(t, "api.yaml", map[string]string{
		"api.yaml": `
openapi: 3.1.0
info: {title: A, version: "1"}
paths:
  /a:
    $ref: 'frag.yaml#/Shared'
  /b:
    $ref: 'frag.yaml#/Shared'
`,
		"frag.yaml": `
Shared:
  get:
    operationId: sharedOp
    responses:
      '200': {description: ok}
`,
	})
	assert.NoError(t, err)
}

func TestSchemaRuleViolations(t *testing.T) {
	tests := []struct {
		name     string
		schemas  string
		contains string
	}{
		{
			name: "discriminator without composition",
			schemas: `    Pet:
      type: object
      discriminator:
        propertyName: petType
`,
			contains: "composition",
		},
		{
			name: "optional discriminator property without defaultMapping",
			schemas: `    Pet:
      oneOf:
        - {type: object}
      discriminator:
        propertyName: petType
`,
			contains: "defaultMapping",
		},
		{
			name: "wrapped xml on non-array",
			schemas: `    Pet:
      type: object
      xml:
        wrapped: true
`,
			contains: "array",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
components:
  schemas:
` + tt.schemas
			verr := requireViolation(t, validateDoc(t, doc))
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestRequiredDiscriminatorPropertyNeedsNoDefaultMapping(t *testing.T) {
	assert.NoError(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
components:
  schemas:
    Pet:
      oneOf:
        - {type: object}
      required: [petType]
      discriminator:
        propertyName: petType
`))
}

func TestTagViolations(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
tags:
  - name: pets
  - name: pets
`))
	assert.Contains(t, verr.Message, "duplicate tag")

	verr = requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
tags:
  - name: cats
    parent: animals
`))
	assert.Contains(t, verr.Message, "unknown parent")

	verr = requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
tags:
  - name: a
    parent: b
  - name: b
    parent: a
`))
	assert.Contains(t, verr.Message, "cycle")
}

func TestSecuritySchemeViolations(t *testing.T) {
	tests := []struct {
		name     string
		scheme   string
		contains string
	}{
		{
			name:     "apiKey missing name",
			scheme:   "{type: apiKey, in: header}",
			contains: "name",
		},
		{
			name:     "apiKey bad location",
			scheme:   "{type: apiKey, name: key, in: body}",
			contains: "in",
		},
		{
			name:     "http missing scheme",
			scheme:   "{type: http}",
			contains: "scheme",
		},
		{
			name:     "oauth2 without flows",
			scheme:   "{type: oauth2}",
			contains: "flow",
		},
		{
			name: "oauth2 flow missing tokenUrl",
			scheme: `
      type: oauth2
      flows:
        clientCredentials:
          scopes: {}
`,
			contains: "tokenUrl",
		},
		{
			name: "oauth2 flow missing scopes",
			scheme: `
      type: oauth2
      flows:
        implicit:
          authorizationUrl: https://example.com/authorize
`,
			contains: "scopes",
		},
		{
			name:     "openIdConnect missing url",
			scheme:   "{type: openIdConnect}",
			contains: "openIdConnectUrl",
		},
		{
			name:     "unknown type",
			scheme:   "{type: wizardry}",
			contains: "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
components:
  securitySchemes:
    auth: ` + tt.scheme + "\n"
			verr := requireViolation(t, validateDoc(t, doc))
			assert.Contains(t, verr.Message, tt.contains)
		})
	}
}

func TestMutualTLSRequires31(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.0.3
info: {title: T, version: "1"}
paths: {}
components:
  securitySchemes:
    mtls: {type: mutualTLS}
`))
	assert.Contains(t, verr.Message, "3.1")

	assert.NoError(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
paths: {}
components:
  securitySchemes:
    mtls: {type: mutualTLS}
`))
}

func TestSecurityRequirementMustNameDeclaredScheme(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
openapi: 3.1.0
info: {title: T, version: "1"}
security:
  - ghostScheme: []
paths: {}
`))
	assert.Contains(t, verr.Message, "ghostScheme")
}

func TestSwagger2SecurityViolations(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
swagger: "2.0"
info: {title: T, version: "1"}
paths: {}
securityDefinitions:
  auth:
    type: oauth2
    flow: implicit
    scopes: {}
`))
	assert.Contains(t, verr.Message, "authorizationUrl")
}

func TestSwagger2ParameterViolations(t *testing.T) {
	verr := requireViolation(t, validateDoc(t, `
swagger: "2.0"
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      parameters:
        - name: body1
          in: body
          schema: {type: object}
        - name: body2
          in: body
          schema: {type: object}
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, "one body parameter")

	verr = requireViolation(t, validateDoc(t, `
swagger: "2.0"
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      parameters:
        - name: payload
          in: body
          schema: {type: object}
        - name: field
          in: formData
          type: string
      responses:
        '200': {description: ok}
`))
	assert.Contains(t, verr.Message, "mutually exclusive")
}
