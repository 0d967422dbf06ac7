package sstype

import "testing"

func TestWireTagsMatchSpec(t *testing.T) {
	want := map[DataType]uint8{
		TypeString:   0,
		TypeInt32:    1,
		TypeInt64:    2,
		TypeUint64:   3,
		TypeDatetime: 4,
		TypeDouble:   5,
		TypeBool:     6,
		TypeBinary:   7,
		TypeUint32:   8,
		TypeFloat:    9,
		TypeDate:     10,
		TypeDataType: 11,
		TypeNull:     12,
		TypeEnum:     13,
	}
	for dt, tag := range want {
		if got := dt.WireTag(); got != tag {
			t.Errorf("%v.WireTag() = %d, want %d", dt, got, tag)
		}
		rt, ok := DataTypeFromWireTag(tag)
		if !ok || rt != dt {
			t.Errorf("DataTypeFromWireTag(%d) = (%v, %v), want (%v, true)", tag, rt, ok, dt)
		}
	}
}

func TestDataTypeFromWireTagRejectsOutOfRange(t *testing.T) {
	if _, ok := DataTypeFromWireTag(200); ok {
		t.Fatalf("expected tag 200 to be rejected")
	}
}

func TestWidthVariableLengthTypes(t *testing.T) {
	for _, dt := range []DataType{TypeString, TypeBinary, TypeNull} {
		if _, ok := dt.Width(); ok {
			t.Errorf("%v: expected no fixed width", dt)
		}
	}
}

func TestWidthFixedTypes(t *testing.T) {
	cases := map[DataType]int{
		TypeInt32:  4,
		TypeInt64:  8,
		TypeUint32: 4,
		TypeUint64: 8,
		TypeFloat:  4,
		TypeDouble: 8,
		TypeBool:   1,
		TypeDate:   4,
		TypeEnum:   4,
	}
	for dt, want := range cases {
		got, ok := dt.Width()
		if !ok || got != want {
			t.Errorf("%v.Width() = (%d, %v), want (%d, true)", dt, got, ok, want)
		}
	}
}

func TestNullabilityString(t *testing.T) {
	if Nullable.String() != "NULLABLE" {
		t.Errorf("Nullable.String() = %q", Nullable.String())
	}
	if NotNullable.String() != "NOT_NULLABLE" {
		t.Errorf("NotNullable.String() = %q", NotNullable.String())
	}
}
