// Package ssexpr implements the bound expression and bound expression
// tree layer: a vectorized evaluator compiled from a logical expression
// over a schema, plus the tree wrapper that enforces the tree's
// max_row_count. The tree holds no output arena of its own: each
// value-computing expression owns a private output Block, and structural
// expressions return views over their input's storage.
//
// Bound expressions are a small, closed set of kinds dispatched through
// the BoundExpression interface: a closed interface with a BaseExpression
// contributing common fields and an unexported marker method.
package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// SkipMask marks rows a vectorized evaluator need not compute correctly:
// for a skipped row, output values are undefined but null bits are still
// cleared, and evaluating a skipped row must never raise a runtime
// error. A nil SkipMask means no row is skipped. Indexing is relative to
// the input View's row 0.
type SkipMask []bool

// Skip reports whether row should be skipped. A nil mask skips nothing.
func (m SkipMask) Skip(row int) bool {
	return m != nil && row < len(m) && m[row]
}

// BoundExpression is the interface every bound expression kind
// implements: its result schema, the set of source attribute names it
// transitively reads, and the vectorized evaluator itself.
type BoundExpression interface {
	// ResultSchema returns the schema of the View DoEvaluate produces.
	ResultSchema() *sschema.TupleSchema

	// ReferredAttributeNames returns the transitive union of source
	// attribute names this expression reads, over every child. The
	// returned map must not be mutated by the caller.
	ReferredAttributeNames() map[string]struct{}

	// DoEvaluate evaluates this expression over input, respecting skip
	// (if non-nil), and returns a View aliasing buffers owned either by
	// input itself (structural, zero-copy expressions: attribute
	// references, aliases, compounds, projections) or by this
	// expression's own private output arena (value-computing
	// expressions: arithmetic, comparison, conjunction, case, constant,
	// is-null; see DESIGN.md's resolution of the "does BoundExpression
	// own buffers" question). Either way, callers must consume the
	// returned View before the next DoEvaluate/Evaluate call on this
	// expression or its enclosing tree.
	DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View]

	boundExpressionMarker()
}

// BaseExpression contributes ResultSchema/ReferredAttributeNames and the
// marker method to every BoundExpression.
type BaseExpression struct {
	schema   *sschema.TupleSchema
	referred map[string]struct{}
}

func newBaseExpression(schema *sschema.TupleSchema, referred map[string]struct{}) BaseExpression {
	return BaseExpression{schema: schema, referred: referred}
}

func (b *BaseExpression) ResultSchema() *sschema.TupleSchema { return b.schema }

func (b *BaseExpression) ReferredAttributeNames() map[string]struct{} { return b.referred }

func (b *BaseExpression) boundExpressionMarker() {}

// unionNames returns the union of every map in srcs, never mutating any
// of them.
func unionNames(srcs ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, src := range srcs {
		for name := range src {
			out[name] = struct{}{}
		}
	}
	return out
}
