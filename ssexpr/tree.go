package ssexpr

import (
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// BoundExpressionTree owns a root BoundExpression and enforces the one
// structural contract the root's own kinds don't each check themselves: no
// Evaluate call may be asked to produce more than max_row_count rows. It
// is the unit of reuse across many input batches: binding happens once,
// Evaluate runs many times, reusing whatever private output arenas the
// root's value-computing descendants allocated at Bind time.
type BoundExpressionTree struct {
	root        BoundExpression
	maxRowCount int
}

// NewBoundExpressionTree wraps root, enforcing maxRowCount on every
// Evaluate call. maxRowCount must be >= 0; it is the same bound every
// value-computing expression under root was allocated against, so a tree
// built over a larger maxRowCount than its descendants' own output blocks
// would make their own internal capacity checks fire instead of this
// tree's, so callers should bind root's descendants and this wrapper
// against one consistent maxRowCount.
func NewBoundExpressionTree(root BoundExpression, maxRowCount int) *BoundExpressionTree {
	if root == nil {
		ssfail.PanicContractViolation("NewBoundExpressionTree: nil root")
	}
	if maxRowCount < 0 {
		ssfail.PanicContractViolation("NewBoundExpressionTree: negative max_row_count %d", maxRowCount)
	}
	return &BoundExpressionTree{root: root, maxRowCount: maxRowCount}
}

// ResultSchema returns the root expression's result schema.
func (t *BoundExpressionTree) ResultSchema() *sschema.TupleSchema {
	return t.root.ResultSchema()
}

// Root returns the wrapped root expression.
func (t *BoundExpressionTree) Root() BoundExpression { return t.root }

// MaxRowCount returns the configured row-count ceiling.
func (t *BoundExpressionTree) MaxRowCount() int { return t.maxRowCount }

// Evaluate runs root against input, respecting skip. Calling Evaluate with
// an input whose RowCount() exceeds MaxRowCount() is a contract violation,
// not a FailureOr case: the tree was sized wrong by its caller, not handed
// bad data. The returned View is valid only until the next Evaluate call
// on this tree (root's descendants may reuse private output storage
// across calls).
func (t *BoundExpressionTree) Evaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	if input.RowCount() > t.maxRowCount {
		ssfail.PanicContractViolation("Evaluate: row_count %d exceeds max_row_count %d", input.RowCount(), t.maxRowCount)
	}
	return t.root.DoEvaluate(input, skip)
}
