// Package ssarena implements the concatenated-bytes-plus-offset-table
// layout the top-level spec's Design Notes prescribe for variable-length
// column storage: "a target implementation should keep the
// concatenated-bytes + offset-table layout rather than a vector of owned
// strings."
package ssarena

// Arena is a single growable byte buffer that variable-length (STRING,
// BINARY) columns index into via (offset, length) pairs. One Arena is
// shared by every variable-length column of a Block.
type Arena struct {
	data []byte
}

// New returns an empty Arena with capacity reserved up front.
func New(capacityHint int) *Arena {
	return &Arena{data: make([]byte, 0, capacityHint)}
}

// Append copies v into the arena and returns its (offset, length). The
// returned offset is stable until the Arena is discarded; Arena never
// reuses or compacts space already handed out.
func (a *Arena) Append(v []byte) (offset, length int32) {
	offset = int32(len(a.data))
	a.data = append(a.data, v...)
	length = int32(len(v))
	return offset, length
}

// AppendString is Append for a string, avoiding a redundant conversion at
// call sites that already hold a string.
func (a *Arena) AppendString(v string) (offset, length int32) {
	return a.Append([]byte(v))
}

// Slice returns the bytes covered by (offset, length). Callers must not
// mutate the returned slice; it aliases the arena's backing array.
func (a *Arena) Slice(offset, length int32) []byte {
	return a.data[offset : offset+length]
}

// String is Slice converted to a string for a (offset, length) pair.
func (a *Arena) String(offset, length int32) string {
	return string(a.Slice(offset, length))
}

// Len returns the number of bytes currently held in the arena.
func (a *Arena) Len() int {
	return len(a.data)
}

// Bytes returns the arena's full backing buffer, for snapshotting. Callers
// must not mutate it.
func (a *Arena) Bytes() []byte {
	return a.data
}

// FromBytes builds an Arena that owns a copy of raw as its initial
// content, used when decoding a snapshot.
func FromBytes(raw []byte) *Arena {
	data := make([]byte, len(raw))
	copy(data, raw)
	return &Arena{data: data}
}
