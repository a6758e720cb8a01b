// Package loader turns a locator (filesystem path or URL) into a parsed
// Document: raw text fetched through a transport boundary, decoded into a
// generic tree, and stamped with its identity.
//
// The loader is a pure function of (locator, content): it performs no
// caching and no retries. Graph-wide concerns such as the visited set and
// the document cache belong to the graph package.
package loader

import (
	"context"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgraph/document"
	"github.com/erraggy/oasgraph/oaserrors"
)

const (
	// DefaultMaxFileSize is the maximum size (in bytes) allowed for a fetched
	// document. This prevents resource exhaustion from arbitrarily large
	// resources; 10MB is sufficient for even very large OpenAPI documents.
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Loader loads a single OpenAPI document.
type Loader struct {
	// FileFetcher handles filesystem locators. Defaults to FileFetcher{}.
	FileFetcher Fetcher
	// HTTPFetcher handles http:// and https:// locators.
	// Defaults to &HTTPFetcher{} with a 30-second timeout.
	HTTPFetcher Fetcher
	// MaxFileSize is the maximum document size in bytes (0 means DefaultMaxFileSize).
	MaxFileSize int64
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Loader with default transports.
func New() *Loader {
	return &Loader{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (l *Loader) log() Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return NopLogger{}
}

func (l *Loader) fetcherFor(locator string) Fetcher {
	if document.IsURL(locator) {
		if l.HTTPFetcher != nil {
			return l.HTTPFetcher
		}
		return &HTTPFetcher{}
	}
	if l.FileFetcher != nil {
		return l.FileFetcher
	}
	return FileFetcher{}
}

// Load fetches and parses the document behind the locator. The returned
// Document's Location is the locator itself; callers that need a normalized
// identity (the graph walker does) normalize before calling Load.
//
// Load fails with *oaserrors.LoadError when the resource is missing or
// unreachable, and with *oaserrors.ParseError when the content cannot be
// decoded.
func (l *Loader) Load(ctx context.Context, locator string) (*document.Document, error) {
	data, err := l.fetcherFor(locator).FetchText(ctx, locator)
	if err != nil {
		return nil, err
	}

	maxSize := l.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}
	if int64(len(data)) > maxSize {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: "document exceeds maximum size limit",
		}
	}

	return l.Parse(locator, data)
}

// Parse decodes already-fetched content into a Document. Exposed so callers
// holding in-memory text (readers, tests) can bypass the transport.
func (l *Loader) Parse(locator string, data []byte) (*document.Document, error) {
	format := detectFormatFromPath(locator)
	if format == document.SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}

	// Both formats decode through the YAML AST: JSON is a YAML subset, and
	// the AST is what preserves mapping key order.
	var yn yaml.Node
	if err := yaml.Unmarshal(data, &yn); err != nil {
		return nil, &oaserrors.ParseError{
			Locator: locator,
			Format:  string(format),
			Message: "failed to decode document",
			Cause:   err,
		}
	}

	root, err := document.FromYAML(&yn)
	if err != nil {
		return nil, &oaserrors.ParseError{
			Locator: locator,
			Format:  string(format),
			Message: "failed to build document tree",
			Cause:   err,
		}
	}

	doc := document.New(locator, format, root)
	l.log().Debug("loaded document",
		"locator", locator,
		"format", format,
		"version", doc.VersionString,
		"bytes", len(data))
	return doc, nil
}
