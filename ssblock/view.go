package ssblock

import (
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// View is the non-owning variant of columnar storage: a window over a
// row range of a sequence of columns under a schema. Views alias their
// backing Column storage and become invalid when the owning Block is
// destroyed, reallocated, or Reset.
//
// A View's schema and column sequence need not come from a single Block:
// NewProjectedView builds one from an arbitrary (schema, columns) pair,
// which is how expression evaluation (ssexpr) exposes attribute
// references, aliases, and projections without copying storage.
type View struct {
	schema   *sschema.TupleSchema
	cols     []*Column
	offsets  []int
	rowCount int
}

// NewView builds a View directly over block's rows [offset, offset+rowCount).
// Exported for callers (e.g. ssexpr's value-computing expressions, which
// publish a prefix of their private output Block) that need a View over a
// Block without going through Block.View()/Subrange.
func NewView(block *Block, offset, rowCount int) *View {
	if offset < 0 || rowCount < 0 || offset+rowCount > block.rowCount {
		ssfail.PanicContractViolation("NewView(%d,%d) out of range for block of %d rows", offset, rowCount, block.rowCount)
	}
	offsets := make([]int, len(block.columns))
	for i := range offsets {
		offsets[i] = offset
	}
	return &View{schema: block.schema, cols: block.columns, offsets: offsets, rowCount: rowCount}
}

// NewProjectedView builds a View presenting cols (drawn from one or more
// backing Blocks, in any order, possibly repeated) under resultSchema,
// with offsets[i] giving the row offset of cols[i] in its own backing
// storage. len(cols) and len(offsets) must both equal
// resultSchema.AttributeCount(). Used by expression evaluation to
// relabel or reorder existing column storage without materializing new
// buffers; columns drawn from different sources routinely carry
// different offsets, so callers must not assume a single shared one.
func NewProjectedView(resultSchema *sschema.TupleSchema, cols []*Column, offsets []int, rowCount int) *View {
	if len(cols) != resultSchema.AttributeCount() {
		ssfail.PanicContractViolation("NewProjectedView: %d columns for a %d-attribute schema", len(cols), resultSchema.AttributeCount())
	}
	if len(offsets) != len(cols) {
		ssfail.PanicContractViolation("NewProjectedView: %d offsets for %d columns", len(offsets), len(cols))
	}
	return &View{schema: resultSchema, cols: cols, offsets: offsets, rowCount: rowCount}
}

// Schema returns the view's schema.
func (v *View) Schema() *sschema.TupleSchema { return v.schema }

// RowCount returns the number of rows this view covers. A View's row
// count is always <= the backing Block's row count.
func (v *View) RowCount() int { return v.rowCount }

// ColumnOffset returns the row offset, within the i-th backing column's
// own buffer, that this view's row 0 corresponds to. Columns assembled
// from different sources (via NewProjectedView) may each carry a
// different offset, so this is tracked per column rather than once per
// view.
func (v *View) ColumnOffset(i int) int { return v.offsets[i] }

// Column returns a read-only window over the i-th column, covering this
// view's row range.
func (v *View) Column(i int) ColumnView {
	return ColumnView{col: v.cols[i], offset: v.offsets[i], rowCount: v.rowCount}
}

// RawColumn returns the backing Column for position i, without the
// offset/rowCount windowing ColumnView applies. Used by expression
// evaluation to re-expose an existing column (at this view's current
// offset, see ColumnOffset) under a different schema, via
// NewProjectedView.
func (v *View) RawColumn(i int) *Column { return v.cols[i] }

// Subrange narrows the view to [offset, offset+count) of its own current
// range, returning a View whose columns alias the same backing storage.
// Out-of-range offset/count is a contract violation.
func (v *View) Subrange(offset, count int) *View {
	if offset < 0 || count < 0 || offset+count > v.rowCount {
		ssfail.PanicContractViolation("Subrange(%d,%d) out of range for view of %d rows", offset, count, v.rowCount)
	}
	newOffsets := make([]int, len(v.offsets))
	for i, o := range v.offsets {
		newOffsets[i] = o + offset
	}
	return &View{schema: v.schema, cols: v.cols, offsets: newOffsets, rowCount: count}
}

// ColumnView is a read-only window over one Column's rows, addressed
// relative to the owning View's offset.
type ColumnView struct {
	col      *Column
	offset   int
	rowCount int
}

// Attribute returns the attribute this column view exposes.
func (cv ColumnView) Attribute() sschema.Attribute { return cv.col.attr }

// RowCount returns the number of rows this column view covers.
func (cv ColumnView) RowCount() int { return cv.rowCount }

// IsNull reports whether localRow (0-based within this view) is null.
func (cv ColumnView) IsNull(localRow int) bool { return cv.col.IsNull(cv.offset + localRow) }

// Value boxes localRow's value as an `any` (nil if null).
func (cv ColumnView) Value(localRow int) any { return cv.col.Value(cv.offset + localRow) }

func (cv ColumnView) Int32(localRow int) int32       { return cv.col.GetInt32(cv.offset + localRow) }
func (cv ColumnView) Int64(localRow int) int64       { return cv.col.GetInt64(cv.offset + localRow) }
func (cv ColumnView) Uint32(localRow int) uint32     { return cv.col.GetUint32(cv.offset + localRow) }
func (cv ColumnView) Uint64(localRow int) uint64     { return cv.col.GetUint64(cv.offset + localRow) }
func (cv ColumnView) Float32(localRow int) float32   { return cv.col.GetFloat32(cv.offset + localRow) }
func (cv ColumnView) Float64(localRow int) float64   { return cv.col.GetFloat64(cv.offset + localRow) }
func (cv ColumnView) Bool(localRow int) bool         { return cv.col.GetBool(cv.offset + localRow) }
func (cv ColumnView) Date(localRow int) int32        { return cv.col.GetDate(cv.offset + localRow) }
func (cv ColumnView) Datetime(localRow int) int64    { return cv.col.GetDatetime(cv.offset + localRow) }
func (cv ColumnView) Enum(localRow int) uint32       { return cv.col.GetEnum(cv.offset + localRow) }
func (cv ColumnView) String(localRow int) string     { return cv.col.GetString(cv.offset + localRow) }
func (cv ColumnView) Binary(localRow int) []byte     { return cv.col.GetBinary(cv.offset + localRow) }
