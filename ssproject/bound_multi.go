package ssproject

import "github.com/hugr-lab/supersonic/sschema"

// SourceAttribute identifies one attribute of one source schema by
// (source index, position within that schema).
type SourceAttribute struct {
	SourceIndex int
	Position    int
}

// BoundMultiSourceProjector is the result of binding a MultiSourceSpec
// against a list of source schemas: a result schema, a proj array
// mapping each result position to the SourceAttribute it is drawn from,
// and the reverse multimap from SourceAttribute to the (possibly several,
// possibly zero) result positions it feeds, preserving insertion order.
type BoundMultiSourceProjector struct {
	sources []*sschema.TupleSchema
	result  *sschema.TupleSchema
	proj    []SourceAttribute
	reverse map[SourceAttribute][]int
}

// ResultSchema returns the projector's output schema.
func (p *BoundMultiSourceProjector) ResultSchema() *sschema.TupleSchema { return p.result }

// SourceCount returns the number of source schemas this projector was
// bound against.
func (p *BoundMultiSourceProjector) SourceCount() int { return len(p.sources) }

// SourceSchema returns the i-th source schema.
func (p *BoundMultiSourceProjector) SourceSchema(i int) *sschema.TupleSchema { return p.sources[i] }

// Len returns the number of result attributes.
func (p *BoundMultiSourceProjector) Len() int { return len(p.proj) }

// SourceIndex returns which source resultPos is drawn from.
func (p *BoundMultiSourceProjector) SourceIndex(resultPos int) int {
	return p.proj[resultPos].SourceIndex
}

// SourceAttributePosition returns the position, within its source schema,
// that resultPos is drawn from.
func (p *BoundMultiSourceProjector) SourceAttributePosition(resultPos int) int {
	return p.proj[resultPos].Position
}

// ProjectedAttributePositions returns the result positions fed by
// (sourceIndex, position), in the order they were added. Empty (nil) if
// that source attribute is not projected at all.
func (p *BoundMultiSourceProjector) ProjectedAttributePositions(sourceIndex, position int) []int {
	return p.reverse[SourceAttribute{SourceIndex: sourceIndex, Position: position}]
}

// IsAttributeProjected reports whether (sourceIndex, position) feeds at
// least one result position.
func (p *BoundMultiSourceProjector) IsAttributeProjected(sourceIndex, position int) bool {
	return len(p.reverse[SourceAttribute{SourceIndex: sourceIndex, Position: position}]) > 0
}

// NumberOfProjectionsForAttribute returns how many result positions
// (sourceIndex, position) feeds.
func (p *BoundMultiSourceProjector) NumberOfProjectionsForAttribute(sourceIndex, position int) int {
	return len(p.reverse[SourceAttribute{SourceIndex: sourceIndex, Position: position}])
}

// AddAs appends one more result attribute, drawn from
// sources[sourceIndex] at position, under the given alias. Reports false
// (leaving the projector unchanged) if alias collides with an existing
// result name — the same fail-fast contract as TupleSchema.AddAttribute.
func (p *BoundMultiSourceProjector) AddAs(sourceIndex, position int, alias string) bool {
	attr := p.sources[sourceIndex].Attribute(position)
	attr.Name = alias
	if !p.result.AddAttribute(attr) {
		return false
	}
	sa := SourceAttribute{SourceIndex: sourceIndex, Position: position}
	pos := len(p.proj)
	p.proj = append(p.proj, sa)
	p.reverse[sa] = append(p.reverse[sa], pos)
	return true
}

// GetSingleSourceProjector extracts the slice of this projector's outputs
// drawn from sourceIndex as a standalone BoundSingleSourceProjector,
// preserving result names and relative order.
func (p *BoundMultiSourceProjector) GetSingleSourceProjector(sourceIndex int) *BoundSingleSourceProjector {
	result := sschema.NewTupleSchema()
	var proj []int
	for i, sa := range p.proj {
		if sa.SourceIndex != sourceIndex {
			continue
		}
		result.AddAttribute(p.result.Attribute(i))
		proj = append(proj, sa.Position)
	}
	return &BoundSingleSourceProjector{
		source: p.sources[sourceIndex],
		result: result,
		proj:   proj,
	}
}

// DecomposeNth factors this projector into an inner single-source
// projector Q (over sources[sourceIndex]'s attributes that this
// projector actually uses, each appearing exactly once even if projected
// more than once) and an outer multi-source projector P' over the same
// list of sources, except that sourceIndex's slot now indexes into Q's
// result schema rather than the original source schema. Evaluating Q
// over sourceIndex's input and then evaluating P' over the original
// sources, with sourceIndex's input replaced by Q's output, reproduces
// this projector's result exactly.
func (p *BoundMultiSourceProjector) DecomposeNth(sourceIndex int) (outer *BoundMultiSourceProjector, inner *BoundSingleSourceProjector) {
	qSchema := sschema.NewTupleSchema()
	var qProj []int
	posToQIndex := make(map[int]int)

	outerProj := make([]SourceAttribute, len(p.proj))
	for i, sa := range p.proj {
		if sa.SourceIndex != sourceIndex {
			outerProj[i] = sa
			continue
		}
		qIdx, ok := posToQIndex[sa.Position]
		if !ok {
			attr := p.sources[sourceIndex].Attribute(sa.Position)
			qSchema.AddAttribute(attr)
			qIdx = len(qProj)
			qProj = append(qProj, sa.Position)
			posToQIndex[sa.Position] = qIdx
		}
		outerProj[i] = SourceAttribute{SourceIndex: sourceIndex, Position: qIdx}
	}

	inner = &BoundSingleSourceProjector{
		source: p.sources[sourceIndex],
		result: qSchema,
		proj:   qProj,
	}

	outerSources := make([]*sschema.TupleSchema, len(p.sources))
	copy(outerSources, p.sources)
	outerSources[sourceIndex] = qSchema

	outerReverse := make(map[SourceAttribute][]int, len(outerProj))
	for i, sa := range outerProj {
		outerReverse[sa] = append(outerReverse[sa], i)
	}

	outer = &BoundMultiSourceProjector{
		sources: outerSources,
		result:  p.result,
		proj:    outerProj,
		reverse: outerReverse,
	}
	return outer, inner
}
