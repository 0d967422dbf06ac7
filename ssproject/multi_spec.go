package ssproject

import (
	"fmt"

	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// MultiSourceEntry pairs a SingleSourceSpec with the index, into the list
// of source schemas a MultiSourceSpec is bound against, it draws from.
type MultiSourceEntry struct {
	SourceIndex int
	Child       SingleSourceSpec
}

// MultiSourceSpec is the unbound multi-source projector: an ordered
// list of (source index, single-source spec) entries, each
// contributing its bound result attributes, in order, to the overall
// result schema.
type MultiSourceSpec struct {
	Entries []MultiSourceEntry
}

// Bind resolves every entry against its referenced source schema,
// concatenating their bound results. Fails with ATTRIBUTE_COUNT_MISMATCH
// for an out-of-range source index, or propagates a child's own binding
// failure (ATTRIBUTE_MISSING / ATTRIBUTE_COUNT_MISMATCH / ATTRIBUTE_EXISTS
// against the result schema built so far).
func (m MultiSourceSpec) Bind(sources []*sschema.TupleSchema) ssfail.FailureOrOwned[*BoundMultiSourceProjector] {
	result := sschema.NewTupleSchema()
	var proj []SourceAttribute
	reverse := make(map[SourceAttribute][]int)

	for entryIdx, e := range m.Entries {
		if e.SourceIndex < 0 || e.SourceIndex >= len(sources) {
			return ssfail.FailureOwnedf[*BoundMultiSourceProjector](ssfail.AttributeCountMismatch,
				"MultiSourceSpec entry %d: source index %d out of range (have %d sources)", entryIdx, e.SourceIndex, len(sources))
		}
		childF := e.Child.Bind(sources[e.SourceIndex])
		child, err := childF.Take()
		if err != nil {
			return ssfail.FailureOwned[*BoundMultiSourceProjector](
				ssfail.Wrap(err, fmt.Sprintf("MultiSourceSpec entry %d (source %d): %s", entryIdx, e.SourceIndex, e.Child.String())))
		}
		for i := 0; i < child.result.AttributeCount(); i++ {
			attr := child.result.Attribute(i)
			if !result.AddAttribute(attr) {
				return ssfail.FailureOwnedf[*BoundMultiSourceProjector](ssfail.AttributeExists,
					"MultiSourceSpec entry %d (source %d): duplicate result attribute %q", entryIdx, e.SourceIndex, attr.Name)
			}
			sa := SourceAttribute{SourceIndex: e.SourceIndex, Position: child.proj[i]}
			pos := len(proj)
			proj = append(proj, sa)
			reverse[sa] = append(reverse[sa], pos)
		}
	}

	sourcesCopy := make([]*sschema.TupleSchema, len(sources))
	copy(sourcesCopy, sources)

	return ssfail.SuccessOwned(&BoundMultiSourceProjector{
		sources: sourcesCopy,
		result:  result,
		proj:    proj,
		reverse: reverse,
	})
}
