// Package ssconfig implements the wire-compatible configuration messages:
// ExtendedSortSpecification (sort keys plus an optional row limit) and
// Distinctness (the three orthogonal DISTINCT-handling flags). The core
// does not execute these; sort and hash-aggregate operators do. This
// package owns their precise shape and encode/decode.
package ssconfig

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ColumnOrder is a sort key's direction.
type ColumnOrder int

const (
	Ascending ColumnOrder = iota
	Descending
)

// String renders the order for diagnostics.
func (o ColumnOrder) String() string {
	if o == Descending {
		return "DESCENDING"
	}
	return "ASCENDING"
}

// SortKey is one entry of an ExtendedSortSpecification: an attribute
// name, its direction, and whether string comparison on it is
// case sensitive (meaningless for non-string keys, carried anyway since
// the wire message doesn't know the schema at encode time).
type SortKey struct {
	AttributeName string      `msgpack:"attribute_name"`
	ColumnOrder   ColumnOrder `msgpack:"column_order"`
	CaseSensitive bool        `msgpack:"case_sensitive,omitempty"`
}

// ExtendedSortSpecification is a sort-with-limit configuration record:
// an ordered list of keys (most significant first) and an optional row
// limit. An empty Keys list is legal and denotes the identity order.
// Nulls sort FIRST for ASCENDING, LAST for DESCENDING, stable across
// keys; enforced by whatever operator consumes this record, not by this
// package.
type ExtendedSortSpecification struct {
	Keys  []SortKey `msgpack:"keys"`
	Limit *uint64   `msgpack:"limit,omitempty"`
}

// HasLimit reports whether a row limit was set.
func (s ExtendedSortSpecification) HasLimit() bool {
	return s.Limit != nil
}

// Encode serializes the specification to MessagePack for transmission to
// an operator or across a process boundary.
func (s ExtendedSortSpecification) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode ExtendedSortSpecification: %w", err)
	}
	return data, nil
}

// DecodeExtendedSortSpecification deserializes a wire-encoded
// ExtendedSortSpecification.
func DecodeExtendedSortSpecification(data []byte) (ExtendedSortSpecification, error) {
	var s ExtendedSortSpecification
	if len(data) == 0 {
		return ExtendedSortSpecification{}, fmt.Errorf("decode ExtendedSortSpecification: empty data")
	}
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return ExtendedSortSpecification{}, fmt.Errorf("decode ExtendedSortSpecification: %w", err)
	}
	return s, nil
}

// Distinctness carries the three orthogonal DISTINCT-handling flags used
// by aggregations. Interaction (applied by Resolve below): IsNotDistinct
// dominates; IsExactDistinct dominates over EstimatedDistinctThreshold.
type Distinctness struct {
	IsNotDistinct             bool   `msgpack:"is_not_distinct,omitempty"`
	IsExactDistinct           bool   `msgpack:"is_exact_distinct,omitempty"`
	EstimatedDistinctThreshold *int32 `msgpack:"estimated_distinct_threshold,omitempty"`
}

// Resolve applies the flag interaction rule and reports which strategy
// an aggregation operator should use: exact dedup, or an approximate
// algorithm gated on the estimated cardinality meeting the threshold.
func (d Distinctness) Resolve(estimatedCardinality int64) (exact bool, approximate bool) {
	if d.IsNotDistinct {
		return false, false
	}
	if d.IsExactDistinct {
		return true, false
	}
	if d.EstimatedDistinctThreshold != nil && estimatedCardinality >= int64(*d.EstimatedDistinctThreshold) {
		return false, true
	}
	return true, false
}

// Encode serializes the flags to MessagePack.
func (d Distinctness) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode Distinctness: %w", err)
	}
	return data, nil
}

// DecodeDistinctness deserializes a wire-encoded Distinctness message.
func DecodeDistinctness(data []byte) (Distinctness, error) {
	var d Distinctness
	if len(data) == 0 {
		return Distinctness{}, fmt.Errorf("decode Distinctness: empty data")
	}
	if err := msgpack.Unmarshal(data, &d); err != nil {
		return Distinctness{}, fmt.Errorf("decode Distinctness: %w", err)
	}
	return d, nil
}
