package document

import (
	"strconv"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Kind identifies the concrete shape of a Node. Traversal code switches
// exhaustively on Kind rather than inspecting Go types at runtime.
type Kind int

const (
	// KindNull is an explicit null value.
	KindNull Kind = iota
	// KindBool is a boolean scalar.
	KindBool
	// KindInt is an integer scalar.
	KindInt
	// KindFloat is a floating point scalar.
	KindFloat
	// KindString is a string scalar.
	KindString
	// KindSequence is an ordered list of nodes.
	KindSequence
	// KindMapping is a string-keyed map of nodes with insertion order preserved.
	KindMapping
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one value in a parsed document tree: a scalar, an ordered sequence,
// or an insertion-ordered string-keyed mapping. Nodes are immutable once the
// document has been inserted into a cache; consumers must treat every Node as
// a read-only snapshot.
type Node struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	seq      []*Node
	mapping  *orderedmap.OrderedMap[string, *Node]
}

// Kind returns the node's shape discriminant.
func (n *Node) Kind() Kind {
	return n.kind
}

// NullNode returns a node representing an explicit null.
func NullNode() *Node {
	return &Node{kind: KindNull}
}

// BoolNode returns a boolean scalar node.
func BoolNode(v bool) *Node {
	return &Node{kind: KindBool, boolVal: v}
}

// IntNode returns an integer scalar node.
func IntNode(v int64) *Node {
	return &Node{kind: KindInt, intVal: v}
}

// FloatNode returns a floating point scalar node.
func FloatNode(v float64) *Node {
	return &Node{kind: KindFloat, floatVal: v}
}

// StringNode returns a string scalar node.
func StringNode(v string) *Node {
	return &Node{kind: KindString, strVal: v}
}

// SequenceNode returns a sequence node over the given items.
func SequenceNode(items ...*Node) *Node {
	return &Node{kind: KindSequence, seq: items}
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, mapping: orderedmap.New[string, *Node]()}
}

// Bool returns the boolean value. Valid only for KindBool.
func (n *Node) Bool() bool {
	return n.boolVal
}

// Int returns the integer value. Valid only for KindInt.
func (n *Node) Int() int64 {
	return n.intVal
}

// Float returns the floating point value. For KindInt it returns the integer
// widened to float64 so numeric bounds can be compared uniformly.
func (n *Node) Float() float64 {
	if n.kind == KindInt {
		return float64(n.intVal)
	}
	return n.floatVal
}

// Str returns the string value. Valid only for KindString.
func (n *Node) Str() string {
	return n.strVal
}

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool {
	return n != nil && n.kind == KindMapping
}

// IsSequence reports whether the node is a sequence.
func (n *Node) IsSequence() bool {
	return n != nil && n.kind == KindSequence
}

// Len returns the number of entries in a sequence or mapping, and 0 for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindSequence:
		return len(n.seq)
	case KindMapping:
		return n.mapping.Len()
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence.
func (n *Node) Index(i int) (*Node, bool) {
	if n.kind != KindSequence || i < 0 || i >= len(n.seq) {
		return nil, false
	}
	return n.seq[i], true
}

// Items returns the sequence's backing slice. Callers must not mutate it.
func (n *Node) Items() []*Node {
	if n.kind != KindSequence {
		return nil
	}
	return n.seq
}

// Get returns the value stored under key in a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != KindMapping {
		return nil, false
	}
	return n.mapping.Get(key)
}

// Has reports whether the mapping contains key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// GetString returns the string scalar stored under key, if present.
func (n *Node) GetString(key string) (string, bool) {
	child, ok := n.Get(key)
	if !ok || child == nil || child.kind != KindString {
		return "", false
	}
	return child.strVal, true
}

// GetBool returns the boolean scalar stored under key, if present.
func (n *Node) GetBool(key string) (bool, bool) {
	child, ok := n.Get(key)
	if !ok || child == nil || child.kind != KindBool {
		return false, false
	}
	return child.boolVal, true
}

// GetMapping returns the mapping stored under key, if present.
func (n *Node) GetMapping(key string) (*Node, bool) {
	child, ok := n.Get(key)
	if !ok || child == nil || child.kind != KindMapping {
		return nil, false
	}
	return child, true
}

// GetSequence returns the sequence stored under key, if present.
func (n *Node) GetSequence(key string) (*Node, bool) {
	child, ok := n.Get(key)
	if !ok || child == nil || child.kind != KindSequence {
		return nil, false
	}
	return child, true
}

// Keys returns the mapping's keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, n.mapping.Len())
	for pair := n.mapping.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Pairs calls fn for every mapping entry in insertion order. Iteration stops
// early when fn returns false.
func (n *Node) Pairs(fn func(key string, value *Node) bool) {
	if n == nil || n.kind != KindMapping {
		return
	}
	for pair := n.mapping.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Set stores value under key. Used while constructing trees and shallow
// copies; never call it on a node that has been published through a cache.
func (n *Node) Set(key string, value *Node) {
	if n.kind != KindMapping {
		return
	}
	n.mapping.Set(key, value)
}

// ShallowCopy returns a new mapping node holding the same value pointers as
// the receiver. Mutating the copy's entries does not perturb the original.
// For non-mapping nodes the receiver itself is returned, since scalars and
// sequences are never overridden in place.
func (n *Node) ShallowCopy() *Node {
	if n == nil || n.kind != KindMapping {
		return n
	}
	cp := NewMapping()
	for pair := n.mapping.Oldest(); pair != nil; pair = pair.Next() {
		cp.mapping.Set(pair.Key, pair.Value)
	}
	return cp
}

// RefString returns the reference expression when the node is a mapping
// carrying a string-valued "$ref" entry.
func (n *Node) RefString() (string, bool) {
	if n == nil || n.kind != KindMapping {
		return "", false
	}
	return n.GetString("$ref")
}

// IsRef reports whether the node is a reference-expression mapping.
func (n *Node) IsRef() bool {
	_, ok := n.RefString()
	return ok
}
