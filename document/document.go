// Package document defines the generic tree model for parsed OpenAPI
// documents, their identities, and the reference expressions that connect
// them.
//
// A Document is an immutable tree of Nodes plus an identity: the absolute
// locator it was fetched from (the cache key) and an optional logical base
// declared via $self, used to resolve the document's own relative references
// as if it lived elsewhere.
package document

// SourceFormat represents the serialization format of a loaded document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Document is one loaded OpenAPI document: its parsed tree plus identity.
// Documents are created once by the loader and never mutated after insertion
// into a cache.
type Document struct {
	// Location is the absolute physical identity the document was fetched
	// from. It is the document's cache key.
	Location string
	// Self is the document's self-declared logical identity ($self, OAS
	// 3.1.1+). Empty when the document declares none.
	Self string
	// Format is the detected serialization format.
	Format SourceFormat
	// Version is the declared OAS series.
	Version OASVersion
	// VersionString is the raw declared version (e.g. "3.1.0").
	VersionString string
	// Root is the document's parsed tree.
	Root *Node
}

// New builds a Document around a parsed tree, reading the $self declaration
// and version fields from the root. The root may be any tree; identity and
// version details are simply absent when the fields are not there, and the
// validator reports on them later.
func New(location string, format SourceFormat, root *Node) *Document {
	doc := &Document{
		Location: location,
		Format:   format,
		Root:     root,
	}
	if root != nil && root.Kind() == KindMapping {
		if self, ok := root.GetString("$self"); ok {
			doc.Self = self
		}
		if v, raw, err := DetectVersion(root); err == nil {
			doc.Version = v
			doc.VersionString = raw
		}
	}
	return doc
}

// Base returns the identity this document's own relative references resolve
// against: the self-declared logical identity when present, otherwise the
// physical location.
func (d *Document) Base() string {
	if d.Self != "" {
		return d.Self
	}
	return d.Location
}
