package document

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IsURL reports whether the locator is an http or https URL.
func IsURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// NormalizeIdentity turns a root locator into the absolute identity a cache
// keys on: URLs pass through untouched, filesystem paths become absolute and
// cleaned so the same file reached through different relative paths shares
// one identity.
func NormalizeIdentity(locator string) (string, error) {
	if IsURL(locator) {
		return locator, nil
	}
	abs, err := filepath.Abs(locator)
	if err != nil {
		return "", fmt.Errorf("document: cannot absolutize %q: %w", locator, err)
	}
	return filepath.Clean(abs), nil
}

// AbsoluteIdentity resolves the document part of a reference expression
// against a base identity, yielding the absolute identity of the target
// document. The base is the referring document's logical base: its
// self-declared identity when present, otherwise its physical location.
func AbsoluteIdentity(base, target string) (string, error) {
	if IsURL(target) {
		return target, nil
	}

	if IsURL(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("document: invalid base identity %q: %w", base, err)
		}
		rel, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("document: invalid reference target %q: %w", target, err)
		}
		return baseURL.ResolveReference(rel).String(), nil
	}

	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	return filepath.Clean(filepath.Join(filepath.Dir(base), target)), nil
}
