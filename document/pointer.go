package document

import (
	"fmt"
	"strconv"
	"strings"
)

// PointerError reports a JSON Pointer segment that could not be resolved.
type PointerError struct {
	// Pointer is the full pointer being evaluated
	Pointer string
	// Segment is the (unescaped) segment that failed
	Segment string
	// Message describes why the segment failed
	Message string
}

// Error returns a human-readable error message.
func (e *PointerError) Error() string {
	return fmt.Sprintf("pointer %q: segment %q: %s", e.Pointer, e.Segment, e.Message)
}

// UnescapePointerSegment applies RFC 6901 unescaping to a single pointer
// segment: ~1 becomes / and ~0 becomes ~, in that order.
func UnescapePointerSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// EscapePointerSegment applies RFC 6901 escaping to a single pointer segment.
func EscapePointerSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// ResolvePointer resolves a /-delimited JSON Pointer against a node tree,
// using each unescaped segment as a literal mapping key or sequence index.
// Only the empty pointer names the root itself; a bare "/" addresses the
// empty-string key at the root, per RFC 6901.
func ResolvePointer(root *Node, pointer string) (*Node, error) {
	if pointer == "" {
		return root, nil
	}

	current := root
	for _, raw := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		segment := UnescapePointerSegment(raw)

		switch current.Kind() {
		case KindMapping:
			next, ok := current.Get(segment)
			if !ok {
				return nil, &PointerError{Pointer: pointer, Segment: segment, Message: "key not found"}
			}
			current = next

		case KindSequence:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return nil, &PointerError{Pointer: pointer, Segment: segment, Message: "not a valid sequence index"}
			}
			next, ok := current.Index(index)
			if !ok {
				return nil, &PointerError{Pointer: pointer, Segment: segment,
					Message: fmt.Sprintf("index out of bounds (length %d)", current.Len())}
			}
			current = next

		default:
			return nil, &PointerError{Pointer: pointer, Segment: segment,
				Message: fmt.Sprintf("cannot traverse into %s value", current.Kind())}
		}
	}

	return current, nil
}
