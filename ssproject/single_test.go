package ssproject

import (
	"testing"

	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

func col0Col3Schema(t *testing.T) *sschema.TupleSchema {
	t.Helper()
	s, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("col0", sstype.TypeString, sstype.Nullable),
		sschema.NewAttribute("col1", sstype.TypeInt32, sstype.Nullable),
		sschema.NewAttribute("col2", sstype.TypeDouble, sstype.Nullable),
		sschema.NewAttribute("col3", sstype.TypeInt32, sstype.NotNullable),
	)
	if !ok {
		t.Fatal("unexpected duplicate building schema fixture")
	}
	return s
}

func mustBindSingle(t *testing.T, spec SingleSourceSpec, source *sschema.TupleSchema) *BoundSingleSourceProjector {
	t.Helper()
	f := spec.Bind(source)
	bound, err := f.Take()
	if err != nil {
		t.Fatalf("Bind(%s) failed: %v", spec.String(), err)
	}
	return bound
}

// Invariant #1: source and result attributes agree on type and
// nullability at every projected position.
func TestInvariant1TypeAndNullabilityPreserved(t *testing.T) {
	source := col0Col3Schema(t)
	bound := mustBindSingle(t, AllAttributes{}, source)
	for i := 0; i < bound.ResultSchema().AttributeCount(); i++ {
		srcAttr := source.Attribute(bound.SourcePosition(i))
		resAttr := bound.ResultSchema().Attribute(i)
		if !srcAttr.SameTypeAndNullability(resAttr) {
			t.Fatalf("position %d: source %v, result %v disagree on type/nullability", i, srcAttr, resAttr)
		}
	}
}

// Invariant #6: re-binding the same unbound spec against the same schema
// yields equal result schemas and proj arrays.
func TestInvariant6RebindIsIdempotent(t *testing.T) {
	source := col0Col3Schema(t)
	spec := Compound{Children: []SingleSourceSpec{
		NamedAttribute{Name: "col3"},
		NamedAttribute{Name: "col0"},
	}}
	a := mustBindSingle(t, spec, source)
	b := mustBindSingle(t, spec, source)
	if !a.ResultSchema().Equal(b.ResultSchema()) {
		t.Fatalf("result schemas differ across rebinds: %s vs %s", a.ResultSchema(), b.ResultSchema())
	}
	aProj, bProj := a.SourcePositions(), b.SourcePositions()
	if len(aProj) != len(bProj) {
		t.Fatalf("proj lengths differ: %d vs %d", len(aProj), len(bProj))
	}
	for i := range aProj {
		if aProj[i] != bProj[i] {
			t.Fatalf("proj[%d] differs: %d vs %d", i, aProj[i], bProj[i])
		}
	}
}

// Invariant #7: Renaming(aliases, X).Bind(S).result_schema.names == aliases.
func TestInvariant7RenameThenBind(t *testing.T) {
	source := col0Col3Schema(t)
	spec := Renaming{
		Aliases: []string{"a", "b"},
		Child: Compound{Children: []SingleSourceSpec{
			NamedAttribute{Name: "col1"},
			NamedAttribute{Name: "col2"},
		}},
	}
	bound := mustBindSingle(t, spec, source)
	want := []string{"a", "b"}
	for i, w := range want {
		got := bound.ResultSchema().Attribute(i).Name
		if got != w {
			t.Fatalf("result name %d = %q, want %q", i, got, w)
		}
	}
	// Types/nullability still flow from the renamed source attributes.
	if bound.ResultSchema().Attribute(0).Type != sstype.TypeInt32 {
		t.Fatalf("renamed col1 lost its type")
	}
}

// Invariant #8: AllAttributes with an empty prefix is an identity
// projector.
func TestInvariant8AllAttributesIdentity(t *testing.T) {
	source := col0Col3Schema(t)
	bound := mustBindSingle(t, AllAttributes{}, source)
	if !bound.ResultSchema().Equal(source) {
		t.Fatalf("AllAttributes{} result schema %s != source %s", bound.ResultSchema(), source)
	}
	for i := 0; i < bound.Len(); i++ {
		if bound.SourcePosition(i) != i {
			t.Fatalf("proj[%d] = %d, want %d (identity)", i, bound.SourcePosition(i), i)
		}
	}
}

// Invariant #9: PositionedAttribute(i) succeeds iff i < width.
func TestInvariant9PositionedAttributeBoundary(t *testing.T) {
	source := col0Col3Schema(t) // width 4
	for _, i := range []int{0, 3} {
		f := PositionedAttribute{Position: i}.Bind(source)
		if f.IsFailure() {
			t.Fatalf("PositionedAttribute(%d) unexpectedly failed: %v", i, f.Err())
		}
	}
	for _, i := range []int{4, -1, 100} {
		f := PositionedAttribute{Position: i}.Bind(source)
		if f.IsSuccess() {
			t.Fatalf("PositionedAttribute(%d) unexpectedly succeeded", i)
		}
		if f.Err().Code != ssfail.AttributeCountMismatch {
			t.Fatalf("PositionedAttribute(%d) failed with %v, want ATTRIBUTE_COUNT_MISMATCH", i, f.Err().Code)
		}
	}
}

// Invariant #10 / S6: a Compound projector with two children producing
// the same result name fails with ATTRIBUTE_EXISTS.
func TestInvariant10DuplicateCompoundRejected(t *testing.T) {
	source := col0Col3Schema(t)
	spec := Compound{Children: []SingleSourceSpec{
		NamedAttribute{Name: "col1"},
		NamedAttribute{Name: "col1"},
	}}
	f := spec.Bind(source)
	if f.IsSuccess() {
		t.Fatal("expected ATTRIBUTE_EXISTS failure for duplicate compound children")
	}
	if f.Err().Code != ssfail.AttributeExists {
		t.Fatalf("failed with %v, want ATTRIBUTE_EXISTS", f.Err().Code)
	}
}

func TestNamedAttributeMissingFails(t *testing.T) {
	source := col0Col3Schema(t)
	f := NamedAttribute{Name: "nope"}.Bind(source)
	if f.IsSuccess() {
		t.Fatal("expected ATTRIBUTE_MISSING failure")
	}
	if f.Err().Code != ssfail.AttributeMissing {
		t.Fatalf("failed with %v, want ATTRIBUTE_MISSING", f.Err().Code)
	}
}

func TestAllAttributesPrefix(t *testing.T) {
	source := col0Col3Schema(t)
	bound := mustBindSingle(t, AllAttributes{Prefix: "left_"}, source)
	if bound.ResultSchema().Attribute(0).Name != "left_col0" {
		t.Fatalf("prefixed name = %q, want %q", bound.ResultSchema().Attribute(0).Name, "left_col0")
	}
}

func TestRenamingDuplicateAliasPanics(t *testing.T) {
	source := col0Col3Schema(t)
	spec := Renaming{
		Aliases: []string{"a", "a"},
		Child: Compound{Children: []SingleSourceSpec{
			NamedAttribute{Name: "col1"},
			NamedAttribute{Name: "col2"},
		}},
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate aliases")
		}
	}()
	_ = spec.Bind(source)
}

func TestRenamingCountMismatch(t *testing.T) {
	source := col0Col3Schema(t)
	spec := Renaming{
		Aliases: []string{"a"},
		Child: Compound{Children: []SingleSourceSpec{
			NamedAttribute{Name: "col1"},
			NamedAttribute{Name: "col2"},
		}},
	}
	f := spec.Bind(source)
	if f.IsSuccess() {
		t.Fatal("expected ATTRIBUTE_COUNT_MISMATCH")
	}
	if f.Err().Code != ssfail.AttributeCountMismatch {
		t.Fatalf("failed with %v, want ATTRIBUTE_COUNT_MISMATCH", f.Err().Code)
	}
}
