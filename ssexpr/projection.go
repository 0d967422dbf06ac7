package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/ssproject"
)

// Projection runs a list of child expressions against the same input
// view, then gates their combined outputs through a
// ssproject.BoundMultiSourceProjector whose "sources" are the children's
// own result schemas. This is the same machinery exercised directly
// against ssproject, one level up.
//
// ReferredAttributeNames is the union over every child, including ones
// the projector doesn't surface in its final result: a child's inputs
// still count as read even when the projector drops its output.
type Projection struct {
	BaseExpression
	children []BoundExpression
	proj     *ssproject.BoundMultiSourceProjector
}

func (p *Projection) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	childViews := make([]*ssblock.View, len(p.children))
	rowCount := input.RowCount()
	for i, child := range p.children {
		cv, err := ssfail.Propagate(child.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Projection"))
		}
		childViews[i] = cv
		rowCount = cv.RowCount()
	}

	cols := make([]*ssblock.Column, p.proj.Len())
	offsets := make([]int, p.proj.Len())
	for i := 0; i < p.proj.Len(); i++ {
		srcIdx := p.proj.SourceIndex(i)
		pos := p.proj.SourceAttributePosition(i)
		cols[i] = childViews[srcIdx].RawColumn(pos)
		offsets[i] = childViews[srcIdx].ColumnOffset(pos)
	}
	view := ssblock.NewProjectedView(p.schema, cols, offsets, rowCount)
	return ssfail.Success[*ssblock.View](view)
}

// BindProjection takes the already-bound children (source is not
// consulted), builds a BoundMultiSourceProjector over their result schemas (source index ==
// child index), and applies spec's entries to it.
func BindProjection(source *sschema.TupleSchema, children []BoundExpression, entries []ssproject.MultiSourceEntry) ssfail.FailureOrOwned[BoundExpression] {
	childSchemas := make([]*sschema.TupleSchema, len(children))
	for i, child := range children {
		childSchemas[i] = child.ResultSchema()
	}
	spec := ssproject.MultiSourceSpec{Entries: entries}
	projF := spec.Bind(childSchemas)
	proj, err := projF.Take()
	if err != nil {
		return ssfail.FailureOwned[BoundExpression](ssfail.Wrap(err, "Projection"))
	}

	referred := make([]map[string]struct{}, len(children))
	for i, child := range children {
		referred[i] = child.ReferredAttributeNames()
	}
	return ssfail.SuccessOwned[BoundExpression](&Projection{
		BaseExpression: newBaseExpression(proj.ResultSchema(), unionNames(referred...)),
		children:       children,
		proj:           proj,
	})
}
