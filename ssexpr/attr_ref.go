package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// AttributeRef is the leaf bound expression that selects one input
// attribute, by position or by name, unchanged. It owns no output
// buffers: its DoEvaluate result is a relabeled window directly over
// input's own column storage.
type AttributeRef struct {
	BaseExpression
	sourcePosition int
}

func (a *AttributeRef) DoEvaluate(input *ssblock.View, _ SkipMask) ssfail.FailureOr[*ssblock.View] {
	col := input.RawColumn(a.sourcePosition)
	offset := input.ColumnOffset(a.sourcePosition)
	view := ssblock.NewProjectedView(a.schema, []*ssblock.Column{col}, []int{offset}, input.RowCount())
	return ssfail.Success[*ssblock.View](view)
}

// BindAttributeByPosition binds an attribute reference to source
// position pos. Fails with ATTRIBUTE_COUNT_MISMATCH if pos is out of
// range.
func BindAttributeByPosition(source *sschema.TupleSchema, pos int) ssfail.FailureOrOwned[BoundExpression] {
	if pos < 0 || pos >= source.AttributeCount() {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeCountMismatch,
			"AttributeAt(%d): position out of range for schema %s", pos, source.String())
	}
	attr := source.Attribute(pos)
	result := sschema.NewTupleSchema()
	result.AddAttribute(attr)
	return ssfail.SuccessOwned[BoundExpression](&AttributeRef{
		BaseExpression: newBaseExpression(result, map[string]struct{}{attr.Name: {}}),
		sourcePosition: pos,
	})
}

// BindAttributeByName binds an attribute reference by name. Fails with
// ATTRIBUTE_MISSING if name is absent from source.
func BindAttributeByName(source *sschema.TupleSchema, name string) ssfail.FailureOrOwned[BoundExpression] {
	pos := source.LookupPosition(name)
	if pos == sschema.NotFound {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeMissing,
			"NamedAttribute(%q): not found in schema %s", name, source.String())
	}
	return BindAttributeByPosition(source, pos)
}
