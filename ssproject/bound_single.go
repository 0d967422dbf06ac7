package ssproject

import "github.com/hugr-lab/supersonic/sschema"

// BoundSingleSourceProjector is the result of binding a SingleSourceSpec
// against a concrete source schema: a result schema plus, for each
// result position, the source position it is drawn from. proj[i] is
// always a valid index into source.
type BoundSingleSourceProjector struct {
	source *sschema.TupleSchema
	result *sschema.TupleSchema
	proj   []int
}

// SourceSchema returns the schema this projector was bound against.
func (p *BoundSingleSourceProjector) SourceSchema() *sschema.TupleSchema { return p.source }

// ResultSchema returns the projector's output schema.
func (p *BoundSingleSourceProjector) ResultSchema() *sschema.TupleSchema { return p.result }

// Len returns the number of result attributes (== ResultSchema().AttributeCount()).
func (p *BoundSingleSourceProjector) Len() int { return len(p.proj) }

// SourcePosition returns the source schema position that result position
// resultPos is drawn from.
func (p *BoundSingleSourceProjector) SourcePosition(resultPos int) int {
	return p.proj[resultPos]
}

// SourcePositions returns a defensive copy of the full proj array, in
// result order.
func (p *BoundSingleSourceProjector) SourcePositions() []int {
	out := make([]int, len(p.proj))
	copy(out, p.proj)
	return out
}
