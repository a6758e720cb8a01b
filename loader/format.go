package loader

import (
	"bytes"
	"path/filepath"

	"github.com/erraggy/oasgraph/document"
)

// detectFormatFromPath detects the source format from a file path or URL path.
func detectFormatFromPath(path string) document.SourceFormat {
	switch filepath.Ext(path) {
	case ".json":
		return document.SourceFormatJSON
	case ".yaml", ".yml":
		return document.SourceFormatYAML
	default:
		return document.SourceFormatUnknown
	}
}

// detectFormatFromContent sniffs the format from the content itself.
// JSON objects/arrays start with '{' or '['; a leading "openapi:" or
// "swagger:" token implies the block-structured YAML form.
func detectFormatFromContent(data []byte) document.SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r\uFEFF")

	if len(trimmed) == 0 {
		return document.SourceFormatUnknown
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return document.SourceFormatJSON
	}

	if bytes.HasPrefix(trimmed, []byte("openapi:")) || bytes.HasPrefix(trimmed, []byte("swagger:")) {
		return document.SourceFormatYAML
	}

	// Anything else that is not bracket-structured is treated as YAML;
	// the YAML parser reports the precise failure if it is neither.
	return document.SourceFormatYAML
}
