// Package sschema implements the schema and attribute-resolution layer:
// an ordered, uniquely-named sequence of typed, nullable attributes with
// O(1) average name lookup.
package sschema

import (
	"strings"

	"github.com/hugr-lab/supersonic/sstype"
)

// NotFound is the sentinel returned by LookupPosition when a name isn't
// present in the schema.
const NotFound = -1

// Attribute is a named, typed, possibly-nullable column slot.
type Attribute struct {
	Name        string
	Type        sstype.DataType
	Nullability sstype.Nullability
}

// NewAttribute builds an Attribute from a (name, type, nullability)
// tuple.
func NewAttribute(name string, typ sstype.DataType, nullability sstype.Nullability) Attribute {
	return Attribute{Name: name, Type: typ, Nullability: nullability}
}

// SameTypeAndNullability reports whether two attributes have the same type
// and nullability, ignoring name. This is the comparison a projector makes
// between its source and result attributes, where only the name may
// differ.
func (a Attribute) SameTypeAndNullability(o Attribute) bool {
	return a.Type == o.Type && a.Nullability == o.Nullability
}

// Equal reports whether two attributes are identical in name, type, and
// nullability.
func (a Attribute) Equal(o Attribute) bool {
	return a.Name == o.Name && a.SameTypeAndNullability(o)
}

// String renders "name TYPE NULLABLE" or "name TYPE NOT_NULLABLE" for
// schema dumps.
func (a Attribute) String() string {
	return a.Name + " " + a.Type.String() + " " + a.Nullability.String()
}

// TupleSchema is an ordered sequence of Attributes plus a name->position
// index. Schemas are built once via AddAttribute and are immutable
// thereafter: nothing in this package mutates a schema after a bound
// object has captured a pointer to it, by convention of the binding
// packages that consume TupleSchema.
type TupleSchema struct {
	attrs []Attribute
	index map[string]int
}

// NewTupleSchema builds an empty schema.
func NewTupleSchema() *TupleSchema {
	return &TupleSchema{index: make(map[string]int)}
}

// NewTupleSchemaFrom builds a schema from attributes in order, returning
// false if any name collides (mirrors AddAttribute's rejection behavior so
// callers building a fixed schema up front get the same fail-fast
// contract).
func NewTupleSchemaFrom(attrs ...Attribute) (*TupleSchema, bool) {
	s := NewTupleSchema()
	for _, a := range attrs {
		if !s.AddAttribute(a) {
			return s, false
		}
	}
	return s, true
}

// AddAttribute appends a, rejecting it (returning false, leaving the
// schema unchanged) if its name already exists. Adding a duplicate is a
// predictable failure, never a silent overwrite.
func (s *TupleSchema) AddAttribute(a Attribute) bool {
	if _, exists := s.index[a.Name]; exists {
		return false
	}
	s.index[a.Name] = len(s.attrs)
	s.attrs = append(s.attrs, a)
	return true
}

// AttributeCount returns the number of attributes in the schema.
func (s *TupleSchema) AttributeCount() int {
	return len(s.attrs)
}

// Attribute returns the i-th attribute. Callers MUST ensure 0 <= i <
// AttributeCount(); an out-of-range index is a contract violation, not a
// FailureOr case, since schema shape is always known at bind time.
func (s *TupleSchema) Attribute(i int) Attribute {
	return s.attrs[i]
}

// Attributes returns a defensive copy of the attribute sequence, in order.
func (s *TupleSchema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// LookupPosition returns name's position, or NotFound if absent. O(1)
// average via the name index built alongside AddAttribute.
func (s *TupleSchema) LookupPosition(name string) int {
	if pos, ok := s.index[name]; ok {
		return pos
	}
	return NotFound
}

// Equal reports whether two schemas have pointwise-equal attribute
// sequences.
func (s *TupleSchema) Equal(o *TupleSchema) bool {
	if o == nil || len(s.attrs) != len(o.attrs) {
		return false
	}
	for i, a := range s.attrs {
		if !a.Equal(o.attrs[i]) {
			return false
		}
	}
	return true
}

// String renders a deterministic human-readable dump, "(name TYPE
// NULLABILITY, ...)", used in error messages so a binding failure is
// self-locating against the schema it failed against.
func (s *TupleSchema) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range s.attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}
