package sschema

import (
	"testing"

	"github.com/hugr-lab/supersonic/sstype"
)

func col0col3Schema(t *testing.T) *TupleSchema {
	t.Helper()
	s, ok := NewTupleSchemaFrom(
		NewAttribute("col0", sstype.TypeString, sstype.NotNullable),
		NewAttribute("col1", sstype.TypeInt32, sstype.Nullable),
		NewAttribute("col2", sstype.TypeDouble, sstype.Nullable),
		NewAttribute("col3", sstype.TypeInt32, sstype.NotNullable),
	)
	if !ok {
		t.Fatalf("unexpected duplicate while building fixture schema")
	}
	return s
}

func TestAddAttributeRejectsDuplicate(t *testing.T) {
	s := NewTupleSchema()
	if !s.AddAttribute(NewAttribute("a", sstype.TypeInt32, sstype.NotNullable)) {
		t.Fatal("first add should succeed")
	}
	if s.AddAttribute(NewAttribute("a", sstype.TypeInt64, sstype.Nullable)) {
		t.Fatal("duplicate name must be rejected, not silently overwritten")
	}
	if s.AttributeCount() != 1 {
		t.Fatalf("AttributeCount() = %d, want 1 (no silent overwrite)", s.AttributeCount())
	}
}

func TestLookupPosition(t *testing.T) {
	s := col0col3Schema(t)
	if got := s.LookupPosition("col2"); got != 2 {
		t.Fatalf("LookupPosition(col2) = %d, want 2", got)
	}
	if got := s.LookupPosition("missing"); got != NotFound {
		t.Fatalf("LookupPosition(missing) = %d, want NotFound", got)
	}
}

func TestSchemaEquality(t *testing.T) {
	a := col0col3Schema(t)
	b := col0col3Schema(t)
	if !a.Equal(b) {
		t.Fatal("pointwise-identical schemas should be equal")
	}
	c := NewTupleSchema()
	c.AddAttribute(NewAttribute("col0", sstype.TypeString, sstype.NotNullable))
	if a.Equal(c) {
		t.Fatal("schemas of different length must not be equal")
	}
}

func TestSchemaStringIsDeterministic(t *testing.T) {
	a := col0col3Schema(t)
	b := col0col3Schema(t)
	if a.String() != b.String() {
		t.Fatalf("String() not deterministic: %q vs %q", a.String(), b.String())
	}
	want := "(col0 STRING NOT_NULLABLE, col1 INT32 NULLABLE, col2 DOUBLE NULLABLE, col3 INT32 NOT_NULLABLE)"
	if a.String() != want {
		t.Fatalf("String() = %q, want %q", a.String(), want)
	}
}

func TestAttributeSameTypeAndNullabilityIgnoresName(t *testing.T) {
	a := NewAttribute("x", sstype.TypeInt32, sstype.Nullable)
	b := NewAttribute("y", sstype.TypeInt32, sstype.Nullable)
	if !a.SameTypeAndNullability(b) {
		t.Fatal("expected type/nullability match regardless of name")
	}
	if a.Equal(b) {
		t.Fatal("Equal must still require the same name")
	}
}
