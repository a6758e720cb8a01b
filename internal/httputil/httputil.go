// Package httputil provides HTTP-related validation helpers shared by the
// structural validator.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

const (
	statusCodeLength = 3
	minStatusCode    = 100
	maxStatusCode    = 599
	wildcardChar     = 'X'

	// Wildcard boundary digits for patterns like 2XX.
	minWildcardDigit = '1'
	maxWildcardDigit = '5'
)

// ValidStatusCode reports whether a responses-map key is valid.
// Valid keys are:
//   - "default"
//   - extension fields starting with "x-"
//   - wildcard patterns 1XX through 5XX
//   - numeric codes 100-599
func ValidStatusCode(code string) bool {
	if code == "default" {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) != statusCodeLength {
		return false
	}

	if code[1] == wildcardChar && code[2] == wildcardChar {
		return code[0] >= minWildcardDigit && code[0] <= maxWildcardDigit
	}

	if code[0] >= '0' && code[0] <= '9' &&
		code[1] >= '0' && code[1] <= '9' &&
		code[2] >= '0' && code[2] <= '9' {
		n, err := strconv.Atoi(code)
		return err == nil && n >= minStatusCode && n <= maxStatusCode
	}

	return false
}

// ValidMediaType reports whether a media type string parses per RFC 2045/2046.
// Wildcards */* and type/* are accepted; */subtype is not.
func ValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		parts := strings.Split(mediaType, "/")
		return len(parts) == 2 && parts[0] != "" && parts[0] != "*"
	}

	// A wildcard type with a concrete subtype parses per RFC 2045 but is not
	// a usable range.
	if strings.HasPrefix(mediaType, "*/") {
		return false
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

// FormLike reports whether a media type may carry an encoding map:
// multipart types and URL-encoded forms.
func FormLike(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		mediaType == "application/x-www-form-urlencoded"
}
