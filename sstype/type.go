// Package sstype defines the closed set of scalar data types Supersonic
// evaluates over, along with their null semantics and storage width.
package sstype

// DataType is a closed enumeration of scalar column types. Values are
// stable wire tags (see the Configuration messages in the top-level spec):
// a consumer that persists or transmits a DataType may rely on these
// integers never being renumbered.
type DataType uint8

const (
	TypeString   DataType = iota // 0
	TypeInt32                    // 1
	TypeInt64                    // 2
	TypeUint64                   // 3
	TypeDatetime                 // 4
	TypeDouble                   // 5
	TypeBool                     // 6
	TypeBinary                   // 7
	TypeUint32                   // 8
	TypeFloat                    // 9
	TypeDate                     // 10
	TypeDataType                 // 11, the type-of-type tag
	TypeNull                     // 12, untyped null literal
	TypeEnum                     // 13
)

var names = [...]string{
	TypeString:   "STRING",
	TypeInt32:    "INT32",
	TypeInt64:    "INT64",
	TypeUint64:   "UINT64",
	TypeDatetime: "DATETIME",
	TypeDouble:   "DOUBLE",
	TypeBool:     "BOOL",
	TypeBinary:   "BINARY",
	TypeUint32:   "UINT32",
	TypeFloat:    "FLOAT",
	TypeDate:     "DATE",
	TypeDataType: "DATA_TYPE",
	TypeNull:     "NULL_TYPE",
	TypeEnum:     "ENUM",
}

// String renders the type's canonical name, used in schema dumps and error
// messages.
func (t DataType) String() string {
	if int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return "UNKNOWN_TYPE"
}

// WireTag returns the stable integer tag for this type: STRING=0 ...
// ENUM=13, never renumbered once assigned.
func (t DataType) WireTag() uint8 {
	return uint8(t)
}

// DataTypeFromWireTag resolves a DataType from its wire tag. ok is false for
// tags outside the closed enumeration.
func DataTypeFromWireTag(tag uint8) (t DataType, ok bool) {
	if int(tag) >= len(names) {
		return 0, false
	}
	return DataType(tag), true
}

// IsVariableLength reports whether values of this type are stored as
// offset/length pairs into an external arena rather than as fixed-width
// cells.
func (t DataType) IsVariableLength() bool {
	return t == TypeString || t == TypeBinary
}

// Width returns the fixed per-value byte width of this type's values
// buffer. ok is false for variable-length types (STRING, BINARY) and for
// TypeNull, which never materializes storage of its own.
func (t DataType) Width() (width int, ok bool) {
	switch t {
	case TypeInt32, TypeUint32, TypeFloat, TypeDate, TypeEnum:
		return 4, true
	case TypeInt64, TypeUint64, TypeDouble, TypeDatetime:
		return 8, true
	case TypeBool:
		return 1, true
	case TypeDataType:
		return 1, true
	default:
		return 0, false
	}
}

// Nullability flags whether an attribute's values may be null.
type Nullability uint8

const (
	NotNullable Nullability = iota
	Nullable
)

// String renders the nullability flag for schema dumps.
func (n Nullability) String() string {
	if n == Nullable {
		return "NULLABLE"
	}
	return "NOT_NULLABLE"
}
