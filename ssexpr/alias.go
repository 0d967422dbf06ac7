package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// Alias renames a child expression's single output attribute. Fails with
// ATTRIBUTE_COUNT_MISMATCH if the child's result schema isn't exactly
// width 1.
type Alias struct {
	BaseExpression
	child BoundExpression
}

func (a *Alias) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	childView, err := ssfail.Propagate(a.child.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Alias"))
	}
	view := ssblock.NewProjectedView(a.schema, []*ssblock.Column{childView.RawColumn(0)}, []int{childView.ColumnOffset(0)}, childView.RowCount())
	return ssfail.Success[*ssblock.View](view)
}

// BindAlias binds child, then renames its (required single) output
// attribute to name.
func BindAlias(name string, child BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	childSchema := child.ResultSchema()
	if childSchema.AttributeCount() != 1 {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeCountMismatch,
			"Alias(%q, ...): child has %d output attributes, want exactly 1", name, childSchema.AttributeCount())
	}
	attr := childSchema.Attribute(0)
	attr.Name = name
	result := sschema.NewTupleSchema()
	result.AddAttribute(attr)
	return ssfail.SuccessOwned[BoundExpression](&Alias{
		BaseExpression: newBaseExpression(result, child.ReferredAttributeNames()),
		child:          child,
	})
}
