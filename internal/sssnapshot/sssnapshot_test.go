package sssnapshot

import (
	"testing"

	"github.com/hugr-lab/supersonic/ssalloc"
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// buildFixture constructs a small literal fixture: col0 STRING
// (nullable), col1 INT32 (nullable), col2 DOUBLE (nullable), col3 INT32,
// five rows including one that is null in every column except col3.
func buildFixture(t *testing.T) *ssblock.View {
	t.Helper()
	schema := sschema.NewTupleSchema()
	schema.AddAttribute(sschema.NewAttribute("col0", sstype.TypeString, sstype.Nullable))
	schema.AddAttribute(sschema.NewAttribute("col1", sstype.TypeInt32, sstype.Nullable))
	schema.AddAttribute(sschema.NewAttribute("col2", sstype.TypeDouble, sstype.Nullable))
	schema.AddAttribute(sschema.NewAttribute("col3", sstype.TypeInt32, sstype.NotNullable))

	alloc := ssalloc.NewHeap(nil)
	block, fail := ssblock.NewBlock(alloc, schema, 5)
	if fail != nil {
		t.Fatalf("NewBlock: %v", fail)
	}
	rows := [][]any{
		{"1", int32(12), 5.1, int32(22)},
		{"2", int32(13), 6.2, int32(23)},
		{"3", int32(14), 7.3, int32(23)},
		{"4", nil, 8.4, int32(24)},
		{nil, int32(16), nil, int32(26)},
	}
	for _, r := range rows {
		if fail := block.AppendRow(r); fail != nil {
			t.Fatalf("AppendRow: %v", fail)
		}
	}
	return block.View()
}

func TestRoundTrip(t *testing.T) {
	view := buildFixture(t)

	data, err := Encode(view)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data, ssalloc.NewHeap(nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !got.Schema().Equal(view.Schema()) {
		t.Fatalf("schema mismatch: got %s, want %s", got.Schema(), view.Schema())
	}
	if got.RowCount() != view.RowCount() {
		t.Fatalf("row count = %d, want %d", got.RowCount(), view.RowCount())
	}
	for c := 0; c < view.Schema().AttributeCount(); c++ {
		wantCol := view.Column(c)
		gotCol := got.Column(c)
		for r := 0; r < view.RowCount(); r++ {
			if wantCol.IsNull(r) != gotCol.IsNull(r) {
				t.Fatalf("col %d row %d: null mismatch got=%v want=%v", c, r, gotCol.IsNull(r), wantCol.IsNull(r))
			}
			if wantCol.IsNull(r) {
				continue
			}
			if wantCol.Value(r) != gotCol.Value(r) {
				t.Errorf("col %d row %d: value = %v, want %v", c, r, gotCol.Value(r), wantCol.Value(r))
			}
		}
	}
}

func TestRoundTripEmptyView(t *testing.T) {
	schema := sschema.NewTupleSchema()
	schema.AddAttribute(sschema.NewAttribute("col0", sstype.TypeInt32, sstype.NotNullable))
	alloc := ssalloc.NewHeap(nil)
	block, fail := ssblock.NewBlock(alloc, schema, 0)
	if fail != nil {
		t.Fatalf("NewBlock: %v", fail)
	}

	data, err := Encode(block.View())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data, ssalloc.NewHeap(nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.RowCount() != 0 {
		t.Fatalf("row count = %d, want 0", got.RowCount())
	}
}
