package ssexpr

import (
	"strings"

	"github.com/hugr-lab/supersonic/ssalloc"
	"github.com/hugr-lab/supersonic/ssblock"
	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
	"github.com/hugr-lab/supersonic/sstype"
)

// The scalar expression kinds below are genuine BoundExpression
// implementations that compute new values rather than relabel existing
// columns, so each owns a small private output Block (allocated once at
// Bind time, sized to maxRowCount, and Reset before every DoEvaluate)
// rather than returning a window over its operands' storage.

func singleColumnResult(typ sstype.DataType, nullability sstype.Nullability) *sschema.TupleSchema {
	s := sschema.NewTupleSchema()
	s.AddAttribute(sschema.NewAttribute("", typ, nullability))
	return s
}

func nullableIfEither(a, b sschema.Attribute) sstype.Nullability {
	if a.Nullability == sstype.Nullable || b.Nullability == sstype.Nullable {
		return sstype.Nullable
	}
	return sstype.NotNullable
}

func requireSingleColumn(opName string, exprs ...BoundExpression) (*ssfail.Exception, []sschema.Attribute) {
	attrs := make([]sschema.Attribute, len(exprs))
	for i, e := range exprs {
		s := e.ResultSchema()
		if s.AttributeCount() != 1 {
			return ssfail.Newf(ssfail.AttributeCountMismatch,
				"%s: operand %d has %d output attributes, want exactly 1", opName, i, s.AttributeCount()), nil
		}
		attrs[i] = s.Attribute(0)
	}
	return nil, attrs
}

// --- ComparisonExpr ---

// ComparisonOp enumerates the supported comparison operators.
type ComparisonOp int

const (
	CmpEqual ComparisonOp = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

// ComparisonExpr compares two single-column operands of the same type,
// producing a Bool column.
type ComparisonExpr struct {
	BaseExpression
	left, right BoundExpression
	op          ComparisonOp
	operandType sstype.DataType
	out         *ssblock.Block
}

// BindComparison binds a comparison over left and right, which must have
// matching single-column result types. Allocates the private output
// block from alloc, sized for maxRowCount rows.
func BindComparison(alloc ssalloc.Allocator, maxRowCount int, op ComparisonOp, left, right BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	if errEx, attrs := requireSingleColumn("Comparison", left, right); errEx != nil {
		return ssfail.FailureOwned[BoundExpression](errEx)
	} else if attrs[0].Type != attrs[1].Type {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
			"Comparison: operand types differ (%v vs %v)", attrs[0].Type, attrs[1].Type)
	}
	la, ra := left.ResultSchema().Attribute(0), right.ResultSchema().Attribute(0)
	result := singleColumnResult(sstype.TypeBool, nullableIfEither(la, ra))
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&ComparisonExpr{
		BaseExpression: newBaseExpression(result, unionNames(left.ReferredAttributeNames(), right.ReferredAttributeNames())),
		left:           left,
		right:          right,
		op:             op,
		operandType:    la.Type,
		out:            out,
	})
}

func applyOrdering(op ComparisonOp, c int) bool {
	switch op {
	case CmpEqual:
		return c == 0
	case CmpNotEqual:
		return c != 0
	case CmpLess:
		return c < 0
	case CmpLessEqual:
		return c <= 0
	case CmpGreater:
		return c > 0
	case CmpGreaterEqual:
		return c >= 0
	default:
		ssfail.PanicContractViolation("Comparison: unknown operator %d", op)
		panic("unreachable")
	}
}

func sign64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func signU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func signF64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareRow(typ sstype.DataType, l, r ssblock.ColumnView, row int) int {
	switch typ {
	case sstype.TypeInt32, sstype.TypeDate:
		return sign64(int64(l.Int32(row)), int64(r.Int32(row)))
	case sstype.TypeInt64, sstype.TypeDatetime:
		return sign64(l.Int64(row), r.Int64(row))
	case sstype.TypeUint32, sstype.TypeEnum:
		return signU64(uint64(l.Uint32(row)), uint64(r.Uint32(row)))
	case sstype.TypeUint64:
		return signU64(l.Uint64(row), r.Uint64(row))
	case sstype.TypeFloat:
		return signF64(float64(l.Float32(row)), float64(r.Float32(row)))
	case sstype.TypeDouble:
		return signF64(l.Float64(row), r.Float64(row))
	case sstype.TypeBool:
		lb, rb := l.Bool(row), r.Bool(row)
		if lb == rb {
			return 0
		}
		if !lb && rb {
			return -1
		}
		return 1
	case sstype.TypeString:
		return strings.Compare(l.String(row), r.String(row))
	default:
		ssfail.PanicContractViolation("Comparison: unsupported operand type %v", typ)
		panic("unreachable")
	}
}

func (e *ComparisonExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	leftView, err := ssfail.Propagate(e.left.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Comparison"))
	}
	rightView, err := ssfail.Propagate(e.right.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Comparison"))
	}
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("Comparison: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}
	e.out.Reset()
	nullable := e.schema.Attribute(0).Nullability == sstype.Nullable
	lcol, rcol, outCol := leftView.Column(0), rightView.Column(0), e.out.Column(0)
	for r := 0; r < n; r++ {
		if skip.Skip(r) {
			if nullable {
				outCol.SetNull(r, true)
			}
			continue
		}
		if lcol.IsNull(r) || rcol.IsNull(r) {
			outCol.SetNull(r, true)
			continue
		}
		if nullable {
			outCol.SetNull(r, false)
		}
		outCol.SetBool(r, applyOrdering(e.op, compareRow(e.operandType, lcol, rcol, r)))
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// --- ConjunctionExpr ---

// ConjunctionOp is AND or OR.
type ConjunctionOp int

const (
	ConjunctionAnd ConjunctionOp = iota
	ConjunctionOr
)

// ConjunctionExpr combines n Bool operands with AND/OR under the core's
// strict null-propagation rule: the result is null if any operand is
// null, else the boolean combination of the operand values. Unlike SQL,
// this does not short-circuit on a known-false/known-true operand; see
// DESIGN.md.
type ConjunctionExpr struct {
	BaseExpression
	operands []BoundExpression
	op       ConjunctionOp
	out      *ssblock.Block
}

func BindConjunction(alloc ssalloc.Allocator, maxRowCount int, op ConjunctionOp, operands []BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	if len(operands) == 0 {
		ssfail.PanicContractViolation("Conjunction: at least one operand required")
	}
	nullability := sstype.NotNullable
	referred := make([]map[string]struct{}, len(operands))
	for i, o := range operands {
		s := o.ResultSchema()
		if s.AttributeCount() != 1 || s.Attribute(0).Type != sstype.TypeBool {
			return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
				"Conjunction: operand %d is not a single Bool column", i)
		}
		if s.Attribute(0).Nullability == sstype.Nullable {
			nullability = sstype.Nullable
		}
		referred[i] = o.ReferredAttributeNames()
	}
	result := singleColumnResult(sstype.TypeBool, nullability)
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&ConjunctionExpr{
		BaseExpression: newBaseExpression(result, unionNames(referred...)),
		operands:       operands,
		op:             op,
		out:            out,
	})
}

func (e *ConjunctionExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	views := make([]*ssblock.View, len(e.operands))
	for i, o := range e.operands {
		v, err := ssfail.Propagate(o.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Conjunction"))
		}
		views[i] = v
	}
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("Conjunction: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}
	e.out.Reset()
	nullable := e.schema.Attribute(0).Nullability == sstype.Nullable
	outCol := e.out.Column(0)
	for r := 0; r < n; r++ {
		if skip.Skip(r) {
			if nullable {
				outCol.SetNull(r, true)
			}
			continue
		}
		anyNull := false
		result := e.op == ConjunctionAnd
		for _, v := range views {
			col := v.Column(0)
			if col.IsNull(r) {
				anyNull = true
				continue
			}
			if e.op == ConjunctionAnd {
				result = result && col.Bool(r)
			} else {
				result = result || col.Bool(r)
			}
		}
		if anyNull {
			outCol.SetNull(r, true)
			continue
		}
		if nullable {
			outCol.SetNull(r, false)
		}
		outCol.SetBool(r, result)
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// --- ArithmeticExpr ---

// ArithmeticOp enumerates +, -, *, /.
type ArithmeticOp int

const (
	ArithAdd ArithmeticOp = iota
	ArithSub
	ArithMul
	ArithDiv
)

// ArithmeticExpr computes +,-,*,/ over two same-typed numeric operands.
// Integer overflow wraps, matching Go's native fixed-width arithmetic;
// division by zero yields NULL rather than an evaluation error, so a
// division's result is always nullable regardless of operand nullability
// (the other operators are nullable only if an operand is).
type ArithmeticExpr struct {
	BaseExpression
	left, right BoundExpression
	op          ArithmeticOp
	operandType sstype.DataType
	out         *ssblock.Block
}

func BindArithmetic(alloc ssalloc.Allocator, maxRowCount int, op ArithmeticOp, left, right BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	if errEx, attrs := requireSingleColumn("Arithmetic", left, right); errEx != nil {
		return ssfail.FailureOwned[BoundExpression](errEx)
	} else if attrs[0].Type != attrs[1].Type {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
			"Arithmetic: operand types differ (%v vs %v)", attrs[0].Type, attrs[1].Type)
	}
	typ := left.ResultSchema().Attribute(0).Type
	switch typ {
	case sstype.TypeInt32, sstype.TypeInt64, sstype.TypeUint32, sstype.TypeUint64, sstype.TypeFloat, sstype.TypeDouble:
	default:
		return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
			"Arithmetic: operand type %v is not numeric", typ)
	}
	nullability := sstype.Nullable // division may always produce NULL
	if op != ArithDiv {
		la, ra := left.ResultSchema().Attribute(0), right.ResultSchema().Attribute(0)
		nullability = nullableIfEither(la, ra)
	}
	result := singleColumnResult(typ, nullability)
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&ArithmeticExpr{
		BaseExpression: newBaseExpression(result, unionNames(left.ReferredAttributeNames(), right.ReferredAttributeNames())),
		left:           left,
		right:          right,
		op:             op,
		operandType:    typ,
		out:            out,
	})
}

func (e *ArithmeticExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	leftView, err := ssfail.Propagate(e.left.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Arithmetic"))
	}
	rightView, err := ssfail.Propagate(e.right.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Arithmetic"))
	}
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("Arithmetic: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}
	e.out.Reset()
	nullable := e.schema.Attribute(0).Nullability == sstype.Nullable
	lcol, rcol, outCol := leftView.Column(0), rightView.Column(0), e.out.Column(0)
	for r := 0; r < n; r++ {
		if skip.Skip(r) {
			if nullable {
				outCol.SetNull(r, true)
			}
			continue
		}
		if lcol.IsNull(r) || rcol.IsNull(r) {
			outCol.SetNull(r, true)
			continue
		}
		if e.computeRow(lcol, rcol, outCol, r) {
			outCol.SetNull(r, true)
			continue
		}
		if nullable {
			outCol.SetNull(r, false)
		}
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// computeRow writes the arithmetic result for row r into out, and reports
// whether the divisor was zero (division only; the row is then left
// unwritten and the caller marks it null). Integer ops wrap on overflow
// via Go's native fixed-width arithmetic.
func (e *ArithmeticExpr) computeRow(l, r ssblock.ColumnView, out *ssblock.Column, row int) (divByZero bool) {
	switch e.operandType {
	case sstype.TypeInt32:
		a, b := l.Int32(row), r.Int32(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetInt32(row, applyInt32Op(e.op, a, b))
	case sstype.TypeInt64:
		a, b := l.Int64(row), r.Int64(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetInt64(row, applyInt64Op(e.op, a, b))
	case sstype.TypeUint32:
		a, b := l.Uint32(row), r.Uint32(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetUint32(row, applyUint32Op(e.op, a, b))
	case sstype.TypeUint64:
		a, b := l.Uint64(row), r.Uint64(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetUint64(row, applyUint64Op(e.op, a, b))
	case sstype.TypeFloat:
		a, b := l.Float32(row), r.Float32(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetFloat32(row, applyFloat32Op(e.op, a, b))
	case sstype.TypeDouble:
		a, b := l.Float64(row), r.Float64(row)
		if e.op == ArithDiv && b == 0 {
			return true
		}
		out.SetFloat64(row, applyFloat64Op(e.op, a, b))
	default:
		ssfail.PanicContractViolation("Arithmetic: unsupported operand type %v", e.operandType)
	}
	return false
}

func applyInt32Op(op ArithmeticOp, a, b int32) int32 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

func applyInt64Op(op ArithmeticOp, a, b int64) int64 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

func applyUint32Op(op ArithmeticOp, a, b uint32) uint32 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

func applyUint64Op(op ArithmeticOp, a, b uint64) uint64 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

func applyFloat32Op(op ArithmeticOp, a, b float32) float32 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

func applyFloat64Op(op ArithmeticOp, a, b float64) float64 {
	switch op {
	case ArithAdd:
		return a + b
	case ArithSub:
		return a - b
	case ArithMul:
		return a * b
	case ArithDiv:
		return a / b
	default:
		ssfail.PanicContractViolation("Arithmetic: unknown operator %d", op)
		panic("unreachable")
	}
}

// --- ConstantExpr ---

// ConstantExpr broadcasts a fixed literal (or NULL) across every row of
// the batch.
type ConstantExpr struct {
	BaseExpression
	value any
	out   *ssblock.Block
}

// BindConstant builds a constant expression of typ, broadcasting value
// (nil for a NULL literal, which makes the result Nullable; any other
// value makes it NOT_NULLABLE).
func BindConstant(alloc ssalloc.Allocator, maxRowCount int, typ sstype.DataType, value any) ssfail.FailureOrOwned[BoundExpression] {
	nullability := sstype.NotNullable
	if value == nil {
		nullability = sstype.Nullable
	}
	result := singleColumnResult(typ, nullability)
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&ConstantExpr{
		BaseExpression: newBaseExpression(result, nil),
		value:          value,
		out:            out,
	})
}

func (e *ConstantExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("Constant: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}
	e.out.Reset()
	outCol := e.out.Column(0)
	for r := 0; r < n; r++ {
		outCol.SetValue(r, e.value)
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// --- IsNullExpr / IsNotNullExpr ---

// IsNullExpr reports, per row, whether its child's value is null. The
// result is itself never null.
type IsNullExpr struct {
	BaseExpression
	child  BoundExpression
	negate bool
	out    *ssblock.Block
}

func bindIsNull(alloc ssalloc.Allocator, maxRowCount int, child BoundExpression, negate bool) ssfail.FailureOrOwned[BoundExpression] {
	if child.ResultSchema().AttributeCount() != 1 {
		return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeCountMismatch,
			"IsNull: child has %d output attributes, want exactly 1", child.ResultSchema().AttributeCount())
	}
	result := singleColumnResult(sstype.TypeBool, sstype.NotNullable)
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&IsNullExpr{
		BaseExpression: newBaseExpression(result, child.ReferredAttributeNames()),
		child:          child,
		negate:         negate,
		out:            out,
	})
}

// BindIsNull builds an IS NULL expression over child.
func BindIsNull(alloc ssalloc.Allocator, maxRowCount int, child BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	return bindIsNull(alloc, maxRowCount, child, false)
}

// BindIsNotNull builds an IS NOT NULL expression over child.
func BindIsNotNull(alloc ssalloc.Allocator, maxRowCount int, child BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	return bindIsNull(alloc, maxRowCount, child, true)
}

func (e *IsNullExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	childView, err := ssfail.Propagate(e.child.DoEvaluate(input, skip))
	if err != nil {
		return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "IsNull"))
	}
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("IsNull: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}
	e.out.Reset()
	col, outCol := childView.Column(0), e.out.Column(0)
	for r := 0; r < n; r++ {
		isNull := col.IsNull(r)
		if e.negate {
			isNull = !isNull
		}
		outCol.SetBool(r, isNull)
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// --- CaseExpr ---

// CaseWhenThen pairs one WHEN condition (a Bool expression) with its
// THEN result expression.
type CaseWhenThen struct {
	When BoundExpression
	Then BoundExpression
}

// CaseExpr evaluates its WHEN conditions in order and outputs the first
// matching THEN's value, or the ELSE expression's value if none match
// (or NULL, forcing Nullable, if no ELSE is given). A null WHEN
// condition is treated as non-matching, never as a match.
type CaseExpr struct {
	BaseExpression
	branches []CaseWhenThen
	elseExpr BoundExpression // nil means implicit NULL else
	out      *ssblock.Block
	typ      sstype.DataType
}

// BindCase binds a CASE expression. Every THEN (and the ELSE, if given)
// must share the same result type.
func BindCase(alloc ssalloc.Allocator, maxRowCount int, branches []CaseWhenThen, elseExpr BoundExpression) ssfail.FailureOrOwned[BoundExpression] {
	if len(branches) == 0 {
		ssfail.PanicContractViolation("Case: at least one WHEN/THEN branch required")
	}
	var typ sstype.DataType
	nullability := sstype.NotNullable
	if elseExpr == nil {
		nullability = sstype.Nullable
	}
	referred := make([]map[string]struct{}, 0, len(branches)*2+1)
	for i, b := range branches {
		ws := b.When.ResultSchema()
		if ws.AttributeCount() != 1 || ws.Attribute(0).Type != sstype.TypeBool {
			return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
				"Case: WHEN %d is not a single Bool column", i)
		}
		ts := b.Then.ResultSchema()
		if ts.AttributeCount() != 1 {
			return ssfail.FailureOwnedf[BoundExpression](ssfail.AttributeCountMismatch,
				"Case: THEN %d has %d output attributes, want exactly 1", i, ts.AttributeCount())
		}
		thenAttr := ts.Attribute(0)
		if i == 0 {
			typ = thenAttr.Type
		} else if thenAttr.Type != typ {
			return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
				"Case: THEN %d type %v disagrees with branch 0's %v", i, thenAttr.Type, typ)
		}
		if thenAttr.Nullability == sstype.Nullable {
			nullability = sstype.Nullable
		}
		referred = append(referred, b.When.ReferredAttributeNames(), b.Then.ReferredAttributeNames())
	}
	if elseExpr != nil {
		es := elseExpr.ResultSchema()
		if es.AttributeCount() != 1 || es.Attribute(0).Type != typ {
			return ssfail.FailureOwnedf[BoundExpression](ssfail.TypeMismatch,
				"Case: ELSE type disagrees with THEN branches' %v", typ)
		}
		if es.Attribute(0).Nullability == sstype.Nullable {
			nullability = sstype.Nullable
		}
		referred = append(referred, elseExpr.ReferredAttributeNames())
	}
	result := singleColumnResult(typ, nullability)
	out, errAlloc := ssblock.NewBlock(alloc, result, maxRowCount)
	if errAlloc != nil {
		return ssfail.FailureOwned[BoundExpression](errAlloc)
	}
	return ssfail.SuccessOwned[BoundExpression](&CaseExpr{
		BaseExpression: newBaseExpression(result, unionNames(referred...)),
		branches:       branches,
		elseExpr:       elseExpr,
		out:            out,
		typ:            typ,
	})
}

func (e *CaseExpr) DoEvaluate(input *ssblock.View, skip SkipMask) ssfail.FailureOr[*ssblock.View] {
	n := input.RowCount()
	if n > e.out.CapacityRows() {
		ssfail.PanicContractViolation("Case: row_count %d exceeds max_row_count %d", n, e.out.CapacityRows())
	}

	whenViews := make([]*ssblock.View, len(e.branches))
	thenViews := make([]*ssblock.View, len(e.branches))
	for i, b := range e.branches {
		wv, err := ssfail.Propagate(b.When.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Case"))
		}
		tv, err := ssfail.Propagate(b.Then.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Case"))
		}
		whenViews[i] = wv
		thenViews[i] = tv
	}
	var elseView *ssblock.View
	if e.elseExpr != nil {
		ev, err := ssfail.Propagate(e.elseExpr.DoEvaluate(input, skip))
		if err != nil {
			return ssfail.Failure[*ssblock.View](ssfail.Wrap(err, "Case"))
		}
		elseView = ev
	}

	e.out.Reset()
	nullable := e.schema.Attribute(0).Nullability == sstype.Nullable
	outCol := e.out.Column(0)
	for r := 0; r < n; r++ {
		if skip.Skip(r) {
			if nullable {
				outCol.SetNull(r, true)
			}
			continue
		}
		matched := false
		for i, wv := range whenViews {
			wc := wv.Column(0)
			if wc.IsNull(r) || !wc.Bool(r) {
				continue
			}
			copyColumnValue(thenViews[i].Column(0), outCol, r)
			matched = true
			break
		}
		if matched {
			continue
		}
		if elseView != nil {
			copyColumnValue(elseView.Column(0), outCol, r)
			continue
		}
		outCol.SetNull(r, true)
	}
	e.out.SetRowCount(n)
	return ssfail.Success[*ssblock.View](ssblock.NewView(e.out, 0, n))
}

// copyColumnValue copies src's row into dst's row, preserving nullness.
func copyColumnValue(src ssblock.ColumnView, dst *ssblock.Column, row int) {
	dst.SetValue(row, src.Value(row))
}
