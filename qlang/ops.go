// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// ops.go implements QLang's arithmetic, comparison, and cast semantics.
// Numeric promotion always widens to the larger of the two operand kinds
// (int32 < int64 < float32 < float64); string '+' is concatenation, with
// the non-string operand coerced via QValue.Text(); every other operator
// across incompatible kinds is an IncompatibleTypes error.

func rank(k Kind) int {
	switch k {
	case KindInt32:
		return 0
	case KindInt64:
		return 1
	case KindFloat32:
		return 2
	case KindFloat64:
		return 3
	}
	return -1
}

func widen(a, b QValue) Kind {
	ra, rb := rank(a.Kind()), rank(b.Kind())
	if rb > ra {
		return b.Kind()
	}
	return a.Kind()
}

func numericOf(v QValue, k Kind) QValue {
	f, _ := v.AsFloat64()
	switch k {
	case KindInt32:
		return NewInt32(int32(f))
	case KindInt64:
		return NewInt64(int64(f))
	case KindFloat32:
		return NewFloat32(float32(f))
	default:
		return NewFloat64(f)
	}
}

func (ev *evaluator) evalBinary(x *BinaryExpr, ctx *Context) (QValue, error) {
	l, err := ev.eval(x.Left, ctx)
	if err != nil {
		return Null, err
	}
	switch x.Op {
	case TokAnd:
		if !l.Bool() {
			return NewBool(false), nil
		}
		r, err := ev.eval(x.Right, ctx)
		if err != nil {
			return Null, err
		}
		return NewBool(r.Bool()), nil
	case TokOr:
		if l.Bool() {
			return NewBool(true), nil
		}
		r, err := ev.eval(x.Right, ctx)
		if err != nil {
			return Null, err
		}
		return NewBool(r.Bool()), nil
	}

	r, err := ev.eval(x.Right, ctx)
	if err != nil {
		return Null, err
	}

	if x.Op == TokPlus && (l.Kind() == KindString || r.Kind() == KindString) {
		return NewString(l.Text() + r.Text()), nil
	}

	switch x.Op {
	case TokEq:
		return NewBool(valuesEqual(l, r)), nil
	case TokNe:
		return NewBool(!valuesEqual(l, r)), nil
	}

	if !l.Kind().IsNumeric() || !r.Kind().IsNumeric() {
		return Null, newErrAt(IncompatibleTypes, x.Pos, "operator %v requires numeric operands, got %s and %s", x.Op, l.TypeName(), r.TypeName())
	}
	lf, _ := l.AsFloat64()
	rf, _ := r.AsFloat64()

	switch x.Op {
	case TokLt:
		return NewBool(lf < rf), nil
	case TokLe:
		return NewBool(lf <= rf), nil
	case TokGt:
		return NewBool(lf > rf), nil
	case TokGe:
		return NewBool(lf >= rf), nil
	}

	k := widen(l, r)
	var result float64
	switch x.Op {
	case TokPlus:
		result = lf + rf
	case TokMinus:
		result = lf - rf
	case TokStar:
		result = lf * rf
	case TokSlash:
		if rf == 0 {
			return Null, newErrAt(IncompatibleTypes, x.Pos, "division by zero")
		}
		result = lf / rf
	case TokPercent:
		if rf == 0 {
			return Null, newErrAt(IncompatibleTypes, x.Pos, "modulo by zero")
		}
		li, ri := int64(lf), int64(rf)
		result = float64(li % ri)
	default:
		return Null, newErrAt(UnexpectedToken, x.Pos, "unhandled binary operator")
	}
	return numericOf(NewFloat64(result), k), nil
}

func valuesEqual(l, r QValue) bool {
	if l.Kind().IsNumeric() && r.Kind().IsNumeric() {
		lf, _ := l.AsFloat64()
		rf, _ := r.AsFloat64()
		return lf == rf
	}
	if l.Kind() != r.Kind() {
		return false
	}
	switch l.Kind() {
	case KindBool:
		return l.Bool() == r.Bool()
	case KindString:
		return l.String() == r.String()
	case KindNull:
		return true
	case KindInstance, KindPtr:
		return l.Ptr() == r.Ptr()
	}
	return false
}

func negate(v QValue, pos Pos) (QValue, error) {
	if !v.Kind().IsNumeric() {
		return Null, newErrAt(IncompatibleTypes, pos, "unary '-' requires a numeric operand, got %s", v.TypeName())
	}
	f, _ := v.AsFloat64()
	return numericOf(NewFloat64(-f), v.Kind()), nil
}

// castValue implements an explicit (type)expr cast between primitive
// kinds. Casting between class-instance types is not supported: QLang
// class references are not narrowed or widened by a script-level cast.
func castValue(v QValue, typeName string, pos Pos) (QValue, error) {
	switch typeName {
	case "int32":
		f, ok := v.AsFloat64()
		if !ok {
			return Null, newErrAt(IncompatibleTypes, pos, "cannot cast %s to int32", v.TypeName())
		}
		return NewInt32(int32(f)), nil
	case "int64":
		f, ok := v.AsFloat64()
		if !ok {
			return Null, newErrAt(IncompatibleTypes, pos, "cannot cast %s to int64", v.TypeName())
		}
		return NewInt64(int64(f)), nil
	case "float32":
		f, ok := v.AsFloat64()
		if !ok {
			return Null, newErrAt(IncompatibleTypes, pos, "cannot cast %s to float32", v.TypeName())
		}
		return NewFloat32(float32(f)), nil
	case "float64":
		f, ok := v.AsFloat64()
		if !ok {
			return Null, newErrAt(IncompatibleTypes, pos, "cannot cast %s to float64", v.TypeName())
		}
		return NewFloat64(f), nil
	case "string":
		return NewString(v.Text()), nil
	default:
		return Null, newErrAt(IncompatibleTypes, pos, "unsupported cast target %q", typeName)
	}
}
