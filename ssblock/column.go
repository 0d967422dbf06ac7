// Package ssblock implements the columnar storage layer: Block (owning
// storage for a fixed row count under a schema) and View (a non-owning
// window over a row range of columns).
package ssblock

import (
	"encoding/binary"
	"math"

	"github.com/hugr-lab/supersonic/internal/ssarena"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// bytesPerRow returns how many bytes of the values buffer one row of t
// occupies: t's fixed width, 8 (an int32 offset + int32 length pair) for
// variable-length types, or 0 for TypeNull (which never materializes
// storage of its own: every value is null).
func bytesPerRow(t sstype.DataType) int {
	if w, ok := t.Width(); ok {
		return w
	}
	if t.IsVariableLength() {
		return 8
	}
	return 0
}

// Column is the owning variant of columnar storage: a typed values buffer
// plus an optional null bitmap for one attribute, covering some number of rows
// (tracked by the enclosing Block, not the Column itself: a Column never
// outgrows its backing buffers on its own).
type Column struct {
	attr   sschema.Attribute
	values []byte // raw backing bytes, bytesPerRow(attr.Type) per row
	nulls  []byte // packed bitset, 1 bit/row, nil iff attr.Nullability == NotNullable
	arena  *ssarena.Arena
}

// Attribute returns the attribute this column stores.
func (c *Column) Attribute() sschema.Attribute { return c.attr }

func (c *Column) bitmapIndex(row int) (byteIdx int, mask byte) {
	return row / 8, byte(1) << uint(row%8)
}

// SetNull marks row null or not-null. A NOT_NULLABLE column has no bitmap
// and calling SetNull on it is a contract violation (reads always assume
// all-non-null for such columns).
func (c *Column) SetNull(row int, isNull bool) {
	if c.attr.Nullability != sstype.Nullable {
		ssfail.PanicContractViolation("SetNull called on NOT_NULLABLE attribute %q", c.attr.Name)
	}
	byteIdx, mask := c.bitmapIndex(row)
	if isNull {
		c.nulls[byteIdx] |= mask
	} else {
		c.nulls[byteIdx] &^= mask
	}
}

// IsNull reports whether row is null. Always false for NOT_NULLABLE
// columns, always true for
// TypeNull columns (the untyped null literal never has a non-null value).
func (c *Column) IsNull(row int) bool {
	if c.attr.Type == sstype.TypeNull {
		return true
	}
	if c.attr.Nullability != sstype.Nullable {
		return false
	}
	byteIdx, mask := c.bitmapIndex(row)
	return c.nulls[byteIdx]&mask != 0
}

// --- fixed-width typed accessors ---

func (c *Column) GetInt32(row int) int32 {
	return int32(binary.LittleEndian.Uint32(c.values[row*4:]))
}

func (c *Column) SetInt32(row int, v int32) {
	binary.LittleEndian.PutUint32(c.values[row*4:], uint32(v))
}

func (c *Column) GetInt64(row int) int64 {
	return int64(binary.LittleEndian.Uint64(c.values[row*8:]))
}

func (c *Column) SetInt64(row int, v int64) {
	binary.LittleEndian.PutUint64(c.values[row*8:], uint64(v))
}

func (c *Column) GetUint32(row int) uint32 {
	return binary.LittleEndian.Uint32(c.values[row*4:])
}

func (c *Column) SetUint32(row int, v uint32) {
	binary.LittleEndian.PutUint32(c.values[row*4:], v)
}

func (c *Column) GetUint64(row int) uint64 {
	return binary.LittleEndian.Uint64(c.values[row*8:])
}

func (c *Column) SetUint64(row int, v uint64) {
	binary.LittleEndian.PutUint64(c.values[row*8:], v)
}

func (c *Column) GetFloat32(row int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.values[row*4:]))
}

func (c *Column) SetFloat32(row int, v float32) {
	binary.LittleEndian.PutUint32(c.values[row*4:], math.Float32bits(v))
}

func (c *Column) GetFloat64(row int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(c.values[row*8:]))
}

func (c *Column) SetFloat64(row int, v float64) {
	binary.LittleEndian.PutUint64(c.values[row*8:], math.Float64bits(v))
}

func (c *Column) GetBool(row int) bool {
	return c.values[row] != 0
}

func (c *Column) SetBool(row int, v bool) {
	if v {
		c.values[row] = 1
	} else {
		c.values[row] = 0
	}
}

// GetDate/SetDate store day counts (date, day granularity) as int32.
func (c *Column) GetDate(row int) int32     { return c.GetInt32(row) }
func (c *Column) SetDate(row int, v int32)  { c.SetInt32(row, v) }

// GetDatetime/SetDatetime store microsecond ticks (datetime, microsecond
// granularity) as int64.
func (c *Column) GetDatetime(row int) int64    { return c.GetInt64(row) }
func (c *Column) SetDatetime(row int, v int64) { c.SetInt64(row, v) }

// GetEnum/SetEnum store the enum member's integer tag as uint32.
func (c *Column) GetEnum(row int) uint32    { return c.GetUint32(row) }
func (c *Column) SetEnum(row int, v uint32) { c.SetUint32(row, v) }

// GetDataTypeValue/SetDataTypeValue store a DataType value itself (the
// "type-of-type" tag, TypeDataType) as its wire byte.
func (c *Column) GetDataTypeValue(row int) sstype.DataType {
	dt, _ := sstype.DataTypeFromWireTag(c.values[row])
	return dt
}

func (c *Column) SetDataTypeValue(row int, v sstype.DataType) {
	c.values[row] = v.WireTag()
}

// --- variable-length accessors ---

func (c *Column) GetString(row int) string {
	off, length := c.readOffsetLength(row)
	return c.arena.String(off, length)
}

func (c *Column) SetString(row int, v string) {
	off, length := c.arena.AppendString(v)
	c.writeOffsetLength(row, off, length)
}

func (c *Column) GetBinary(row int) []byte {
	off, length := c.readOffsetLength(row)
	return c.arena.Slice(off, length)
}

func (c *Column) SetBinary(row int, v []byte) {
	off, length := c.arena.Append(v)
	c.writeOffsetLength(row, off, length)
}

func (c *Column) readOffsetLength(row int) (offset, length int32) {
	base := row * 8
	offset = int32(binary.LittleEndian.Uint32(c.values[base:]))
	length = int32(binary.LittleEndian.Uint32(c.values[base+4:]))
	return offset, length
}

func (c *Column) writeOffsetLength(row int, offset, length int32) {
	base := row * 8
	binary.LittleEndian.PutUint32(c.values[base:], uint32(offset))
	binary.LittleEndian.PutUint32(c.values[base+4:], uint32(length))
}

// Value boxes row's value as an `any` (nil if null), and SetValue is its
// inverse. These are the slow, reflection-free but type-switch-heavy path
// used by Block.AppendRow (a row-at-a-time helper for tests) and by
// equality/snapshot helpers; the typed Get/Set* accessors above are the
// vectorized evaluators' hot path.
func (c *Column) Value(row int) any {
	if c.IsNull(row) {
		return nil
	}
	switch c.attr.Type {
	case sstype.TypeInt32:
		return c.GetInt32(row)
	case sstype.TypeInt64:
		return c.GetInt64(row)
	case sstype.TypeUint32:
		return c.GetUint32(row)
	case sstype.TypeUint64:
		return c.GetUint64(row)
	case sstype.TypeFloat:
		return c.GetFloat32(row)
	case sstype.TypeDouble:
		return c.GetFloat64(row)
	case sstype.TypeBool:
		return c.GetBool(row)
	case sstype.TypeDate:
		return c.GetDate(row)
	case sstype.TypeDatetime:
		return c.GetDatetime(row)
	case sstype.TypeEnum:
		return c.GetEnum(row)
	case sstype.TypeDataType:
		return c.GetDataTypeValue(row)
	case sstype.TypeString:
		return c.GetString(row)
	case sstype.TypeBinary:
		return c.GetBinary(row)
	case sstype.TypeNull:
		return nil
	default:
		ssfail.PanicContractViolation("Value: unsupported type %v", c.attr.Type)
		panic("unreachable")
	}
}

func (c *Column) SetValue(row int, v any) {
	if v == nil {
		c.SetNull(row, true)
		return
	}
	if c.attr.Nullability == sstype.Nullable {
		c.SetNull(row, false)
	}
	switch c.attr.Type {
	case sstype.TypeInt32:
		c.SetInt32(row, mustType[int32](c, v))
	case sstype.TypeInt64:
		c.SetInt64(row, mustType[int64](c, v))
	case sstype.TypeUint32:
		c.SetUint32(row, mustType[uint32](c, v))
	case sstype.TypeUint64:
		c.SetUint64(row, mustType[uint64](c, v))
	case sstype.TypeFloat:
		c.SetFloat32(row, mustType[float32](c, v))
	case sstype.TypeDouble:
		c.SetFloat64(row, mustType[float64](c, v))
	case sstype.TypeBool:
		c.SetBool(row, mustType[bool](c, v))
	case sstype.TypeDate:
		c.SetDate(row, mustType[int32](c, v))
	case sstype.TypeDatetime:
		c.SetDatetime(row, mustType[int64](c, v))
	case sstype.TypeEnum:
		c.SetEnum(row, mustType[uint32](c, v))
	case sstype.TypeDataType:
		c.SetDataTypeValue(row, mustType[sstype.DataType](c, v))
	case sstype.TypeString:
		c.SetString(row, mustType[string](c, v))
	case sstype.TypeBinary:
		c.SetBinary(row, mustType[[]byte](c, v))
	case sstype.TypeNull:
		// TypeNull columns are always null; a non-nil value for one is
		// a contract violation by the caller.
		ssfail.PanicContractViolation("SetValue: non-nil value for TypeNull attribute %q", c.attr.Name)
	default:
		ssfail.PanicContractViolation("SetValue: unsupported type %v", c.attr.Type)
	}
}

func mustType[T any](c *Column, v any) T {
	t, ok := v.(T)
	if !ok {
		ssfail.PanicContractViolation("SetValue: attribute %q expects %v, got %T", c.attr.Name, c.attr.Type, v)
	}
	return t
}
