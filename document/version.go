package document

import (
	"fmt"
	"strconv"
	"strings"
)

// OASVersion identifies the OpenAPI Specification series a document declares.
// Patch releases within a series share validation behavior, so the engine
// tracks series rather than individual patch versions.
type OASVersion int

const (
	// VersionUnknown represents an unrecognized or missing version declaration.
	VersionUnknown OASVersion = iota
	// Version20 is OpenAPI Specification 2.0 (Swagger).
	Version20
	// Version30 is the OpenAPI Specification 3.0.x series.
	Version30
	// Version31 is the OpenAPI Specification 3.1.x series.
	Version31
	// Version32 is the OpenAPI Specification 3.2.x series.
	Version32
)

// String returns the series label.
func (v OASVersion) String() string {
	switch v {
	case Version20:
		return "2.0"
	case Version30:
		return "3.0"
	case Version31:
		return "3.1"
	case Version32:
		return "3.2"
	default:
		return "unknown"
	}
}

// IsValid reports whether this is a recognized series.
func (v OASVersion) IsValid() bool {
	return v >= Version20 && v <= Version32
}

// IsOAS2 reports whether the series is 2.0 (Swagger).
func (v OASVersion) IsOAS2() bool {
	return v == Version20
}

// IsOAS3 reports whether the series is any 3.x release.
func (v OASVersion) IsOAS3() bool {
	return v >= Version30 && v <= Version32
}

// AtLeast31 reports whether the series is 3.1 or later. OAS 3.1 introduced
// webhooks, $self, license identifiers, and $ref sibling overrides.
func (v OASVersion) AtLeast31() bool {
	return v >= Version31
}

// ParseOASVersion maps a declared version string onto a series.
// Pre-release suffixes are tolerated ("3.1.0-rc1" parses as the 3.1 series);
// future patch versions map onto their series ("3.0.9" is still 3.0.x).
func ParseOASVersion(s string) (OASVersion, bool) {
	base := s
	if idx := strings.IndexByte(base, '-'); idx >= 0 {
		base = base[:idx]
	}

	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return VersionUnknown, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return VersionUnknown, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return VersionUnknown, false
	}

	switch {
	case major == 2 && minor == 0 && len(parts) == 2:
		return Version20, true
	case major == 3 && minor == 0:
		return Version30, true
	case major == 3 && minor == 1:
		return Version31, true
	case major == 3 && minor == 2:
		return Version32, true
	default:
		return VersionUnknown, false
	}
}

// DetectVersion reads the version-declaring field from a document root.
// It returns the series, the raw declared string, and an error when neither
// the 'swagger' nor the 'openapi' field is present.
//
// DetectVersion does not reject documents declaring both fields or an
// unrecognized value; that is the validator's job. It reports the series of
// whichever recognized declaration it finds, preferring 'openapi'.
func DetectVersion(root *Node) (OASVersion, string, error) {
	if root == nil || root.Kind() != KindMapping {
		return VersionUnknown, "", fmt.Errorf("document: root is not a mapping")
	}

	if raw, ok := root.GetString("openapi"); ok {
		v, _ := ParseOASVersion(raw)
		return v, raw, nil
	}
	if raw, ok := root.GetString("swagger"); ok {
		v, _ := ParseOASVersion(raw)
		return v, raw, nil
	}

	return VersionUnknown, "", fmt.Errorf("document: unable to detect OpenAPI version: document must declare either 'swagger' or 'openapi' at the root level")
}
