// Package oasgraph resolves and validates graphs of OpenAPI Specification (OAS) documents.
//
// oasgraph ingests one or more interlinked OpenAPI documents (OAS 2.0 through 3.2),
// builds an in-memory model that abstracts over version differences, resolves every
// internal and cross-document $ref (including discriminator-driven polymorphism),
// and validates the whole graph against the structural rules of the specification
// family.
//
// # Overview
//
// The library consists of six primary packages:
//
//   - loader: Load a single document from a file path or URL into a generic tree
//   - document: The generic node tree, document identity, and reference expressions
//   - graph: Discover and cache every document reachable from a root document
//   - resolver: Resolve reference expressions and discriminated unions against the cache
//   - view: A flattened, version-agnostic view of operations, schemas, and security schemes
//   - validator: Structural validation of the fully cached graph
//
// All packages support the following OpenAPI Specification versions:
//   - OAS 2.0 (Swagger): https://spec.openapis.org/oas/v2.0.html
//   - OAS 3.0.x: https://spec.openapis.org/oas/v3.0.0.html
//   - OAS 3.1.x: https://spec.openapis.org/oas/v3.1.0.html
//   - OAS 3.2.0: https://spec.openapis.org/oas/v3.2.0.html
//
// # Quick Start
//
// Discover and validate a document graph:
//
//	w := graph.NewWalker()
//	cache, err := w.Discover(ctx, "openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := validator.New().Validate(cache); err != nil {
//	    log.Fatal(err)
//	}
//
// Resolve a reference against the cached graph:
//
//	r := resolver.New(cache)
//	node, err := r.Resolve("pets.yaml#/components/schemas/Pet", cache.Root().Location)
//
// Structured errors in the oaserrors package support errors.Is and errors.As
// so callers can distinguish load, parse, resolution, and validation failures.
package oasgraph
