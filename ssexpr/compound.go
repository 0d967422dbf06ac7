package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// Compound concatenates its children's evaluated outputs, in order,
// without reprojecting. Fails to bind with ATTRIBUTE_EXISTS on a
// duplicate result name, mirroring ssproject.Compound.
type Compound struct {
	BaseExpression
	children []BoundExpression
}

func (c *Compound) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	cols := make([]*ssblock.Column, 0, c.schema.AttributeCount())
	offsets := make([]int, 0, c.schema.AttributeCount())
	rowCount := input.RowCount()
	for _, child := range c.children {
		childView, err := ssfail.Propagate(child.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Compound"))
		}
		for i := 0; i < childView.Schema().AttributeCount(); i++ {
			cols = append(cols, childView.RawColumn(i))
			offsets = append(offsets, childView.ColumnOffset(i))
		}
		rowCount = childView.RowCount()
	}
	view := ssblock.NewProjectedView(c.schema, cols, offsets, rowCount)
	return ssfail.Success[*ssblock.View](view)
}

// BindCompound concatenates the result schemas of the already-bound
// children; source is not consulted.
func BindCompound(source *sschema.TupleSchema, children []BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	result := sschema.NewTupleSchema()
	referred := make([]map[string]struct{}, 0, len(children))
	for _, child := range children {
		referred = append(referred, child.ReferredAttributeNames())
		cs := child.ResultSchema()
		for i := 0; i < cs.AttributeCount(); i++ {
			attr := cs.Attribute(i)
			if !result.AddAttribute(attr) {
				return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeExists,
					"Compound: duplicate result attribute %q", attr.Name)
			}
		}
	}
	return ssfail.SuccessOwned[BoundExpression](&Compound{
		BaseExpression: newBaseExpression(result, unionNames(referred...)),
		children:       children,
	})
}

// RenameCompound is a Compound followed by a rename of the combined
// result's attribute names.
type RenameCompound struct {
	BaseExpression
	inner *Compound
}

func (r *RenameCompound) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	innerView, err := ssfail.Propagate(r.inner.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "RenameCompound"))
	}
	cols := make([]*ssblock.Column, r.schema.AttributeCount())
	offsets := make([]int, r.schema.AttributeCount())
	for i := range cols {
		cols[i] = innerView.RawColumn(i)
		offsets[i] = innerView.ColumnOffset(i)
	}
	view := ssblock.NewProjectedView(r.schema, cols, offsets, innerView.RowCount())
	return ssfail.Success[*ssblock.View](view)
}

// BindRenameCompound binds children as a Compound, then renames its
// result attributes to aliases. Fails with ATTRIBUTE_COUNT_MISMATCH if
// len(aliases) doesn't match the compound's width.
func BindRenameCompound(source *sschema.TupleSchema, aliases []string, children []BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	innerF := BindCompound(source, children)
	innerExpr, err := innerF.Take()
	if err != nil {
		return ssfail.FailureOwned[BoundExpression](ssfail.Wrap(err, "RenameCompound"))
	}
	inner := innerExpr.(*Compound)
	if len(aliases) != inner.schema.AttributeCount() {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeCountMismatch,
			"RenameCompound: %d aliases for %d result attributes", len(aliases), inner.schema.AttributeCount())
	}
	result := sschema.NewTupleSchema()
	for i, alias := range aliases {
		attr := inner.schema.Attribute(i)
		attr.Name = alias
		result.AddAttribute(attr)
	}
	return ssfail.SuccessOwned[BoundExpression](&RenameCompound{
		BaseExpression: newBaseExpression(result, inner.ReferredAttributeNames()),
		inner:          inner,
	})
}
