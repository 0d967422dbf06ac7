package ssblock

import (
	"github.com/hugr-lab/supersonic/internal/ssarena"
	"github.com/hugr-lab/supersonic/ssalloc"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// Block is the owning variant of columnar storage: it owns the values
// buffers, null bitmaps, and string arena for all its columns, plus the
// row count and schema. Construction takes an allocator and a schema.
type Block struct {
	alloc    ssalloc.Allocator
	schema   *sschema.TupleSchema
	columns  []*Column
	arena    *ssarena.Arena
	rowCount int
	capRows  int
}

// NewBlock allocates a Block for schema using alloc, with room for at
// least initialCapacityRows rows (0 is legal; the block grows on first
// AppendRow).
func NewBlock(alloc ssalloc.Allocator, schema *sschema.TupleSchema, initialCapacityRows int) (*Block, *ssfail.Exception) {
	if alloc == nil {
		ssfail.PanicContractViolation("NewBlock: nil allocator")
	}
	if schema == nil {
		ssfail.PanicContractViolation("NewBlock: nil schema")
	}
	b := &Block{
		alloc:  alloc,
		schema: schema,
		arena:  ssarena.New(0),
	}
	b.columns = make([]*Column, schema.AttributeCount())
	for i := 0; i < schema.AttributeCount(); i++ {
		b.columns[i] = &Column{attr: schema.Attribute(i), arena: b.arena}
	}
	if initialCapacityRows > 0 {
		if err := b.reserve(initialCapacityRows); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Schema returns the block's schema.
func (b *Block) Schema() *sschema.TupleSchema { return b.schema }

// RowCount returns the number of logical rows currently populated.
func (b *Block) RowCount() int { return b.rowCount }

// CapacityRows returns the number of rows the current buffers can hold
// without reallocating.
func (b *Block) CapacityRows() int { return b.capRows }

// Column returns the i-th column's owning storage, for direct vectorized
// writes (used by ssexpr's value-computing expressions to fill their
// private output blocks).
func (b *Block) Column(i int) *Column { return b.columns[i] }

// Arena returns the shared string arena backing this block's
// variable-length columns.
func (b *Block) Arena() *ssarena.Arena { return b.arena }

func growCapacity(cur, atLeast int) int {
	if cur == 0 {
		cur = 8
	}
	for cur < atLeast {
		cur *= 2
	}
	return cur
}

// Reserve ensures the block can hold at least newCapRows rows without a
// further reallocation, growing buffers in place (preserving existing
// content) if needed.
func (b *Block) Reserve(newCapRows int) *ssfail.Exception {
	return b.reserve(newCapRows)
}

func (b *Block) reserve(newCapRows int) *ssfail.Exception {
	if newCapRows <= b.capRows {
		return nil
	}
	for _, col := range b.columns {
		if bpr := bytesPerRow(col.attr.Type); bpr > 0 {
			res := b.alloc.Reallocate(bpr*newCapRows, col.values)
			if res.IsFailure() {
				return res.Err()
			}
			col.values = res.Value().Buf
		}
		if col.attr.Nullability == sstype.Nullable {
			newNullBytes := (newCapRows + 7) / 8
			oldLen := len(col.nulls)
			res := b.alloc.Reallocate(newNullBytes, col.nulls)
			if res.IsFailure() {
				return res.Err()
			}
			col.nulls = res.Value().Buf
			for i := oldLen; i < len(col.nulls); i++ {
				col.nulls[i] = 0
			}
		}
	}
	b.capRows = newCapRows
	return nil
}

// AppendRow appends one row built from values (one entry per attribute, in
// schema order; nil means null). It is a row-at-a-time convenience for
// building fixtures in tests, not the vectorized write
// path (that's Column's typed Set* accessors plus SetRowCount below).
// A wrong arity or a nil value for a NOT_NULLABLE attribute is a contract
// violation (panics); an allocator failure while growing is a normal
// MEMORY_EXCEEDED FailureOr.
func (b *Block) AppendRow(values []any) *ssfail.Exception {
	if len(values) != len(b.columns) {
		ssfail.PanicContractViolation("AppendRow: got %d values, schema has %d attributes", len(values), len(b.columns))
	}
	if b.rowCount == b.capRows {
		if err := b.reserve(growCapacity(b.capRows, b.rowCount+1)); err != nil {
			return err
		}
	}
	row := b.rowCount
	for i, col := range b.columns {
		v := values[i]
		if v == nil && col.attr.Nullability != sstype.Nullable && col.attr.Type != sstype.TypeNull {
			ssfail.PanicContractViolation("AppendRow: nil value for NOT_NULLABLE attribute %q", col.attr.Name)
		}
		col.SetValue(row, v)
	}
	b.rowCount++
	return nil
}

// SetRowCount sets the logical row count directly, without touching
// buffer contents. Used by ssexpr's value-computing expressions, whose
// private output block reserves capacity once for max_row_count and then,
// per DoEvaluate call, writes exactly input_view.row_count rows of fresh values and
// calls SetRowCount to publish that prefix as the returned View. rowCount
// must not exceed CapacityRows(); violating that is a contract violation.
func (b *Block) SetRowCount(rowCount int) {
	if rowCount > b.capRows {
		ssfail.PanicContractViolation("SetRowCount(%d) exceeds capacity %d", rowCount, b.capRows)
	}
	b.rowCount = rowCount
}

// Reset clears the block back to zero rows and a fresh (empty) string
// arena, while keeping fixed-width buffers allocated at their current
// capacity for reuse. Used by ssexpr's value-computing expressions on
// their private output blocks before each DoEvaluate so the arena doesn't grow unboundedly across a long-running
// query, at the cost of invalidating any View returned by a prior
// Evaluate: a returned View is valid only until the next Evaluate.
func (b *Block) Reset() {
	b.rowCount = 0
	b.arena = ssarena.New(0)
	for _, col := range b.columns {
		col.arena = b.arena
	}
}

// View returns a View over the full populated row range [0, RowCount()).
func (b *Block) View() *View {
	return NewView(b, 0, b.rowCount)
}
