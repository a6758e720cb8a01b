package oasgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that Version() returns the version variable.
// In normal builds, this is set via ldflags by GoReleaser.
// In development, it defaults to "dev".
func TestVersion(t *testing.T) {
	result := Version()

	assert.NotEmpty(t, result, "Version() should not return empty string")
	assert.True(t,
		result == "dev" || strings.HasPrefix(result, "v"),
		"Version() should be 'dev' or start with 'v', got: %s", result)
}

// TestUserAgent verifies that UserAgent() returns a properly formatted User-Agent string.
func TestUserAgent(t *testing.T) {
	result := UserAgent()

	assert.True(t, strings.HasPrefix(result, "oasgraph/"),
		"UserAgent() should start with 'oasgraph/', got: %s", result)
	assert.Equal(t, "oasgraph/"+Version(), result)
	assert.NotContains(t, result, " ", "UserAgent() should not contain spaces")
}
