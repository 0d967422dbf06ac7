package ssproject

import (
	"reflect"
	"testing"

	"github.com/hugr-lab/supersonic/ssalloc"
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// singleColumnSchema builds a one-attribute schema, used to model S4's
// four independent "children" sources.
func singleColumnSchema(t *testing.T, name string, typ sstype.DataType, nullability sstype.Nullability) *sschema.TupleSchema {
	t.Helper()
	s := sschema.NewTupleSchema()
	s.AddAttribute(sschema.NewAttribute(name, typ, nullability))
	return s
}

func blockFromColumn(t *testing.T, schema *sschema.TupleSchema, values []any) *ssblock.Block {
	t.Helper()
	alloc := ssalloc.NewHeap(nil)
	b, err := ssblock.NewBlock(alloc, schema, 0)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	for _, v := range values {
		if err := b.AppendRow([]any{v}); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return b
}

func blockFromRows(t *testing.T, schema *sschema.TupleSchema, rows [][]any) *ssblock.Block {
	t.Helper()
	alloc := ssalloc.NewHeap(nil)
	b, err := ssblock.NewBlock(alloc, schema, 0)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	for _, r := range rows {
		if err := b.AppendRow(r); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return b
}

// projectMultiRow reads the result tuple at row for a bound multi-source
// projector, given one view per source. This is the minimal evaluation
// needed to exercise BoundMultiSourceProjector in isolation, without the
// full expression-tree evaluator (ssexpr), which is itself built on top
// of this package.
func projectMultiRow(p *BoundMultiSourceProjector, views []*ssblock.View, row int) []any {
	out := make([]any, p.Len())
	for i := 0; i < p.Len(); i++ {
		srcIdx := p.SourceIndex(i)
		srcPos := p.SourceAttributePosition(i)
		out[i] = views[srcIdx].Column(srcPos).Value(row)
	}
	return out
}

func projectSingleRow(p *BoundSingleSourceProjector, view *ssblock.View, row int) []any {
	out := make([]any, p.Len())
	for i := 0; i < p.Len(); i++ {
		out[i] = view.Column(p.SourcePosition(i)).Value(row)
	}
	return out
}

func materializeSingle(t *testing.T, p *BoundSingleSourceProjector, view *ssblock.View) *ssblock.Block {
	t.Helper()
	alloc := ssalloc.NewHeap(nil)
	b, err := ssblock.NewBlock(alloc, p.ResultSchema(), view.RowCount())
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	for row := 0; row < view.RowCount(); row++ {
		if err := b.AppendRow(projectSingleRow(p, view, row)); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return b
}

// TestScenarioS4ProjectionWithDuplication covers four one-column
// sources, a multi-source projector adding (3,0),(0,0),(1,0),
// (3,0),(1,0). Row 2 must read back (23, "3", 14, 23, 14).
func TestScenarioS4ProjectionWithDuplication(t *testing.T) {
	col0Schema := singleColumnSchema(t, "col0", sstype.TypeString, sstype.Nullable)
	col1Schema := singleColumnSchema(t, "col1", sstype.TypeInt32, sstype.Nullable)
	col2Schema := singleColumnSchema(t, "col2", sstype.TypeDouble, sstype.Nullable)
	col3Schema := singleColumnSchema(t, "col3", sstype.TypeInt32, sstype.NotNullable)

	col0Block := blockFromColumn(t, col0Schema, []any{"1", "2", "3", "4", nil})
	col1Block := blockFromColumn(t, col1Schema, []any{int32(12), int32(13), int32(14), nil, int32(16)})
	col2Block := blockFromColumn(t, col2Schema, []any{5.1, 6.2, 7.3, 8.4, nil})
	col3Block := blockFromColumn(t, col3Schema, []any{int32(22), int32(23), int32(23), int32(24), int32(26)})

	sources := []*sschema.TupleSchema{col0Schema, col1Schema, col2Schema, col3Schema}
	spec := MultiSourceSpec{Entries: []MultiSourceEntry{
		{SourceIndex: 3, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 0, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 1, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 3, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 1, Child: PositionedAttribute{Position: 0}},
	}}
	f := spec.Bind(sources)
	bound, err := f.Take()
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if bound.Len() != 5 {
		t.Fatalf("result width = %d, want 5", bound.Len())
	}

	views := []*ssblock.View{col0Block.View(), col1Block.View(), col2Block.View(), col3Block.View()}
	got := projectMultiRow(bound, views, 2)
	want := []any{int32(23), "3", int32(14), int32(23), int32(14)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("row 2 = %v, want %v", got, want)
	}
}

// TestScenarioS5PartialSourceProjection covers two two-column sources,
// projector adds (0,1) then (1,0); result is [col1, col2] in that
// order.
func TestScenarioS5PartialSourceProjection(t *testing.T) {
	source0, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("col0", sstype.TypeString, sstype.Nullable),
		sschema.NewAttribute("col1", sstype.TypeInt32, sstype.Nullable),
	)
	if !ok {
		t.Fatal("dup building source0")
	}
	source1, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("col2", sstype.TypeDouble, sstype.Nullable),
		sschema.NewAttribute("col3", sstype.TypeInt32, sstype.NotNullable),
	)
	if !ok {
		t.Fatal("dup building source1")
	}

	spec := MultiSourceSpec{Entries: []MultiSourceEntry{
		{SourceIndex: 0, Child: PositionedAttribute{Position: 1}},
		{SourceIndex: 1, Child: PositionedAttribute{Position: 0}},
	}}
	boundF := spec.Bind([]*sschema.TupleSchema{source0, source1})
	bound, err := boundF.Take()
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if bound.Len() != 2 {
		t.Fatalf("result width = %d, want 2", bound.Len())
	}
	if bound.ResultSchema().Attribute(0).Name != "col1" || bound.ResultSchema().Attribute(1).Name != "col2" {
		t.Fatalf("result schema = %s, want (col1, col2)", bound.ResultSchema())
	}
}

// Invariant #2: IsAttributeProjected, NumberOfProjectionsForAttribute and
// ProjectedAttributePositions agree for every source attribute, including
// ones never referenced.
func TestInvariant2ReverseMultimapConsistency(t *testing.T) {
	source, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("a", sstype.TypeInt32, sstype.NotNullable),
		sschema.NewAttribute("b", sstype.TypeInt32, sstype.NotNullable),
		sschema.NewAttribute("c", sstype.TypeInt32, sstype.NotNullable),
	)
	if !ok {
		t.Fatal("dup building source")
	}
	spec := MultiSourceSpec{Entries: []MultiSourceEntry{
		{SourceIndex: 0, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 0, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 0, Child: PositionedAttribute{Position: 1}},
	}}
	boundF := spec.Bind([]*sschema.TupleSchema{source})
	bound, err := boundF.Take()
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	cases := []struct {
		pos      int
		wantProj []int
	}{
		{0, []int{0, 1}},
		{1, []int{2}},
		{2, nil},
	}
	for _, c := range cases {
		positions := bound.ProjectedAttributePositions(0, c.pos)
		if !reflect.DeepEqual(positions, c.wantProj) {
			t.Fatalf("ProjectedAttributePositions(0,%d) = %v, want %v", c.pos, positions, c.wantProj)
		}
		wantProjected := len(c.wantProj) > 0
		if bound.IsAttributeProjected(0, c.pos) != wantProjected {
			t.Fatalf("IsAttributeProjected(0,%d) = %v, want %v", c.pos, bound.IsAttributeProjected(0, c.pos), wantProjected)
		}
		if bound.NumberOfProjectionsForAttribute(0, c.pos) != len(c.wantProj) {
			t.Fatalf("NumberOfProjectionsForAttribute(0,%d) = %d, want %d", c.pos, bound.NumberOfProjectionsForAttribute(0, c.pos), len(c.wantProj))
		}
	}
}

// Invariant #3: decomposition correctness. Applying P directly must equal
// applying inner Q to source k, then outer P' with the k-th source
// replaced by Q's materialized output.
func TestInvariant3DecompositionCorrectness(t *testing.T) {
	source0, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("col0", sstype.TypeString, sstype.Nullable),
		sschema.NewAttribute("col1", sstype.TypeInt32, sstype.Nullable),
	)
	if !ok {
		t.Fatal("dup building source0")
	}
	source1, ok := sschema.NewTupleSchemaFrom(
		sschema.NewAttribute("col2", sstype.TypeDouble, sstype.Nullable),
		sschema.NewAttribute("col3", sstype.TypeInt32, sstype.NotNullable),
	)
	if !ok {
		t.Fatal("dup building source1")
	}

	spec := MultiSourceSpec{Entries: []MultiSourceEntry{
		{SourceIndex: 0, Child: PositionedAttribute{Position: 1}},
		{SourceIndex: 1, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 0, Child: PositionedAttribute{Position: 0}},
		{SourceIndex: 0, Child: PositionedAttribute{Position: 1}}, // duplicate source-0 position
	}}
	boundF := spec.Bind([]*sschema.TupleSchema{source0, source1})
	bound, err := boundF.Take()
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	block0 := blockFromRows(t, source0, [][]any{
		{"1", int32(12)},
		{"2", int32(13)},
		{"3", int32(14)},
	})
	block1 := blockFromRows(t, source1, [][]any{
		{5.1, int32(22)},
		{6.2, int32(23)},
		{7.3, int32(23)},
	})
	views := []*ssblock.View{block0.View(), block1.View()}

	outer, inner := bound.DecomposeNth(0)
	if inner.ResultSchema().AttributeCount() != 2 {
		t.Fatalf("Q should dedup source-0's 2 distinct positions into 2 columns, got %d", inner.ResultSchema().AttributeCount())
	}

	qBlock := materializeSingle(t, inner, views[0])
	decomposedViews := []*ssblock.View{qBlock.View(), views[1]}

	for row := 0; row < block0.RowCount(); row++ {
		direct := projectMultiRow(bound, views, row)
		viaDecomp := projectMultiRow(outer, decomposedViews, row)
		if !reflect.DeepEqual(direct, viaDecomp) {
			t.Fatalf("row %d: direct = %v, via decomposition = %v", row, direct, viaDecomp)
		}
	}
}
