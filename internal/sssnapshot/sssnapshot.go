// Package sssnapshot gives tests a byte-exact round trip for literal
// fixtures without hand-building large Go slice literals in every test
// file: Encode msgpack-serializes a View's schema and row values, then
// zstd-compresses the result; Decode reverses both steps and rebuilds an
// owning Block. It is debug/test tooling, not part of the evaluation hot
// path.
package sssnapshot

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hugr-lab/supersonic/ssalloc"
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// wireAttribute is the msgpack-tagged mirror of sschema.Attribute; the
// snapshot format pins DataType/Nullability to their wire tags so a
// snapshot taken by one build decodes correctly in another.
type wireAttribute struct {
	Name        string `msgpack:"name"`
	Type        uint8  `msgpack:"type"`
	Nullability uint8  `msgpack:"nullability"`
}

// wireBlock is the msgpack envelope: schema plus rows, each row a
// positional slice of boxed values (nil meaning NULL), in schema order.
type wireBlock struct {
	Attributes []wireAttribute `msgpack:"attributes"`
	Rows       [][]any         `msgpack:"rows"`
}

// Encode serializes view's schema and rows, then zstd-compresses the
// result. Safe to call repeatedly; a fresh encoder is created per call,
// favoring a simple one-shot API over a reusable encoder since this is a
// test helper's usage pattern, not a hot write path.
func Encode(view *ssblock.View) ([]byte, error) {
	schema := view.Schema()
	wb := wireBlock{
		Attributes: make([]wireAttribute, schema.AttributeCount()),
		Rows:       make([][]any, view.RowCount()),
	}
	for i := 0; i < schema.AttributeCount(); i++ {
		a := schema.Attribute(i)
		wb.Attributes[i] = wireAttribute{Name: a.Name, Type: a.Type.WireTag(), Nullability: uint8(a.Nullability)}
	}
	for r := 0; r < view.RowCount(); r++ {
		row := make([]any, schema.AttributeCount())
		for c := 0; c < schema.AttributeCount(); c++ {
			cv := view.Column(c)
			if cv.IsNull(r) {
				row[c] = nil
				continue
			}
			row[c] = cv.Value(r)
		}
		wb.Rows[r] = row
	}

	raw, err := msgpack.Marshal(wb)
	if err != nil {
		return nil, fmt.Errorf("sssnapshot: encode: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("sssnapshot: new zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode reverses Encode, allocating the rebuilt Block with alloc (a
// plain ssalloc.Heap is the usual choice in tests), and returns
// a View over all of its rows.
func Decode(data []byte, alloc ssalloc.Allocator) (*ssblock.View, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("sssnapshot: new zstd decoder: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("sssnapshot: decompress: %w", err)
	}

	var wb wireBlock
	if err := msgpack.Unmarshal(raw, &wb); err != nil {
		return nil, fmt.Errorf("sssnapshot: decode: %w", err)
	}

	schema := sschema.NewTupleSchema()
	for _, wa := range wb.Attributes {
		typ, ok := sstype.DataTypeFromWireTag(wa.Type)
		if !ok {
			return nil, fmt.Errorf("sssnapshot: unknown wire type tag %d for attribute %q", wa.Type, wa.Name)
		}
		schema.AddAttribute(sschema.NewAttribute(wa.Name, typ, sstype.Nullability(wa.Nullability)))
	}

	block, fail := ssblock.NewBlock(alloc, schema, len(wb.Rows))
	if fail != nil {
		return nil, fail
	}
	for _, row := range wb.Rows {
		// msgpack round-trips numeric values through their narrowest
		// matching type; coerce back to the exact width AppendRow's
		// typed Column.SetValue switch expects.
		coerced := make([]any, len(row))
		for i, v := range row {
			coerced[i] = coerceWireValue(v, schema.Attribute(i).Type)
		}
		if fail := block.AppendRow(coerced); fail != nil {
			return nil, fail
		}
	}
	return block.View(), nil
}

// coerceWireValue repairs the numeric width/signedness msgpack loses on
// its int64/uint64/float64 generic decode path, mapping the decoded value
// back onto the Go type sstype expects for this column.
func coerceWireValue(v any, t sstype.DataType) any {
	if v == nil {
		return nil
	}
	switch t {
	case sstype.TypeInt32, sstype.TypeDate:
		return int32(toInt64(v))
	case sstype.TypeInt64, sstype.TypeDatetime:
		return toInt64(v)
	case sstype.TypeUint32, sstype.TypeEnum:
		return uint32(toUint64(v))
	case sstype.TypeUint64:
		return toUint64(v)
	case sstype.TypeFloat:
		return float32(toFloat64(v))
	case sstype.TypeDouble:
		return toFloat64(v)
	case sstype.TypeDataType:
		return sstype.DataType(toUint64(v))
	default:
		return v
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case uint8:
		return uint64(n)
	case int64:
		return uint64(n)
	case int32:
		return uint64(n)
	case int:
		return uint64(n)
	case float64:
		return uint64(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}
