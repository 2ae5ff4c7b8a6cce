// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "strconv"

// eval.go is the tree-walking body of a CompiledMethod closure: it
// interprets the statement/expression AST captured at compile time against
// a live Context and ClassInstance. This is the half of the "compiled
// method" that actually runs; compileMethodBody does the one-time work of
// capturing the body and layout so repeated calls skip re-parsing.

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
)

// evaluator carries the per-call, read-only environment: the runtime
// (native functions, other instances), the receiver (nil for a static
// method), and the layouts needed to resolve member/method names.
type evaluator struct {
	rt      *Runtime
	self    *ClassInstance
	layout  *ClassLayout
	layouts map[string]*ClassLayout
}

func (ev *evaluator) execBlock(b *BlockStmt, ctx *Context) (QValue, flowKind, error) {
	inner := ctx.Child()
	for _, s := range b.Stmts {
		v, flow, err := ev.execStmt(s, inner)
		if err != nil || flow == flowReturn {
			return v, flow, err
		}
	}
	return Null, flowNormal, nil
}

func (ev *evaluator) execStmt(s Stmt, ctx *Context) (QValue, flowKind, error) {
	switch st := s.(type) {
	case *BlockStmt:
		return ev.execBlock(st, ctx)
	case *VarDeclStmt:
		v := Null
		if st.Init != nil {
			var err error
			v, err = ev.eval(st.Init, ctx)
			if err != nil {
				return Null, flowNormal, err
			}
		}
		ctx.SetLocal(st.Name, v)
		return Null, flowNormal, nil
	case *AssignStmt:
		v, err := ev.eval(st.Value, ctx)
		if err != nil {
			return Null, flowNormal, err
		}
		if err := ev.assign(st.Target, v, ctx); err != nil {
			return Null, flowNormal, err
		}
		return Null, flowNormal, nil
	case *IfStmt:
		cond, err := ev.eval(st.Cond, ctx)
		if err != nil {
			return Null, flowNormal, err
		}
		if cond.Bool() {
			return ev.execBlock(st.Then, ctx)
		}
		if st.Else != nil {
			return ev.execStmt(st.Else, ctx)
		}
		return Null, flowNormal, nil
	case *WhileStmt:
		for {
			cond, err := ev.eval(st.Cond, ctx)
			if err != nil {
				return Null, flowNormal, err
			}
			if !cond.Bool() {
				return Null, flowNormal, nil
			}
			v, flow, err := ev.execBlock(st.Body, ctx)
			if err != nil || flow == flowReturn {
				return v, flow, err
			}
		}
	case *ForStmt:
		loopCtx := ctx.Child()
		if st.Init != nil {
			if _, _, err := ev.execStmt(st.Init, loopCtx); err != nil {
				return Null, flowNormal, err
			}
		}
		for {
			if st.Cond != nil {
				cond, err := ev.eval(st.Cond, loopCtx)
				if err != nil {
					return Null, flowNormal, err
				}
				if !cond.Bool() {
					return Null, flowNormal, nil
				}
			}
			v, flow, err := ev.execBlock(st.Body, loopCtx)
			if err != nil || flow == flowReturn {
				return v, flow, err
			}
			if st.Post != nil {
				if _, _, err := ev.execStmt(st.Post, loopCtx); err != nil {
					return Null, flowNormal, err
				}
			}
		}
	case *ReturnStmt:
		if st.Value == nil {
			return Null, flowReturn, nil
		}
		v, err := ev.eval(st.Value, ctx)
		if err != nil {
			return Null, flowNormal, err
		}
		return v, flowReturn, nil
	case *ExprStmt:
		_, err := ev.eval(st.X, ctx)
		return Null, flowNormal, err
	default:
		return Null, flowNormal, newErr(UnexpectedToken, "unhandled statement type %T", s)
	}
}

func (ev *evaluator) assign(target Expr, v QValue, ctx *Context) error {
	switch t := target.(type) {
	case *IdentExpr:
		if _, ok := ctx.Lookup(t.Name); !ok && ev.self != nil && ev.self.layout.SlotOf(t.Name) >= 0 {
			return ev.self.Set(t.Name, v)
		}
		ctx.Assign(t.Name, v)
		return nil
	case *MemberExpr:
		recv, err := ev.evalTargetInstance(t.Target, ctx)
		if err != nil {
			return err
		}
		if recv == nil {
			return newErrAt(NullDereference, t.Pos, "assignment to member %q on null receiver", t.Name)
		}
		return recv.Set(t.Name, v)
	default:
		return newErrAt(UnexpectedToken, target.exprPos(), "invalid assignment target")
	}
}

// evalTargetInstance resolves the receiver of a member expression to a
// ClassInstance, special-casing the bare "this" identifier.
func (ev *evaluator) evalTargetInstance(x Expr, ctx *Context) (*ClassInstance, error) {
	if id, ok := x.(*IdentExpr); ok && id.Name == "this" {
		return ev.self, nil
	}
	v, err := ev.eval(x, ctx)
	if err != nil {
		return nil, err
	}
	return v.Instance(), nil
}

func (ev *evaluator) eval(e Expr, ctx *Context) (QValue, error) {
	switch x := e.(type) {
	case *LiteralExpr:
		return ev.evalLiteral(x)
	case *IdentExpr:
		if x.Name == "this" {
			return NewInstance(ev.self), nil
		}
		if v, ok := ctx.Lookup(x.Name); ok {
			return v, nil
		}
		if ev.self != nil {
			if slot := ev.self.layout.SlotOf(x.Name); slot >= 0 {
				return ev.self.slots[slot], nil
			}
		}
		return Null, newErrAt(UnknownMember, x.Pos, "undefined identifier %q", x.Name)
	case *MemberExpr:
		recv, err := ev.evalTargetInstance(x.Target, ctx)
		if err != nil {
			return Null, err
		}
		if recv == nil {
			return Null, newErrAt(NullDereference, x.Pos, "member access %q on null receiver", x.Name)
		}
		return recv.Get(x.Name)
	case *CallExpr:
		return ev.evalCall(x, ctx)
	case *BinaryExpr:
		return ev.evalBinary(x, ctx)
	case *UnaryExpr:
		return ev.evalUnary(x, ctx)
	case *CastExpr:
		v, err := ev.eval(x.X, ctx)
		if err != nil {
			return Null, err
		}
		return castValue(v, x.Type.Name, x.Pos)
	default:
		return Null, newErr(UnexpectedToken, "unhandled expression type %T", e)
	}
}

func (ev *evaluator) evalLiteral(x *LiteralExpr) (QValue, error) {
	switch x.Kind {
	case KindInt32:
		n, _ := strconv.ParseInt(x.Raw, 10, 32)
		return NewInt32(int32(n)), nil
	case KindInt64:
		raw := x.Raw
		if len(raw) > 0 && (raw[len(raw)-1] == 'L') {
			raw = raw[:len(raw)-1]
		}
		n, _ := strconv.ParseInt(raw, 10, 64)
		return NewInt64(n), nil
	case KindFloat32:
		raw := x.Raw
		f, _ := strconv.ParseFloat(raw, 32)
		return NewFloat32(float32(f)), nil
	case KindFloat64:
		f, _ := strconv.ParseFloat(x.Raw, 64)
		return NewFloat64(f), nil
	case KindString:
		return NewString(x.Raw), nil
	case KindBool:
		return NewBool(x.Raw == "true"), nil
	case KindNull:
		return Null, nil
	default:
		return Null, newErrAt(UnexpectedToken, x.Pos, "unhandled literal kind %v", x.Kind)
	}
}

func (ev *evaluator) evalCall(x *CallExpr, ctx *Context) (QValue, error) {
	args := make([]QValue, len(x.Args))
	for i, a := range x.Args {
		v, err := ev.eval(a, ctx)
		if err != nil {
			return Null, err
		}
		args[i] = v
	}
	switch callee := x.Callee.(type) {
	case *MemberExpr:
		recv, err := ev.evalTargetInstance(callee.Target, ctx)
		if err != nil {
			return Null, err
		}
		if recv == nil {
			return Null, newErrAt(NullDereference, x.Pos, "method call %q on null receiver", callee.Name)
		}
		return ev.rt.CallMethod(recv, callee.Name, args)
	case *IdentExpr:
		if fn, ok := ev.rt.natives[callee.Name]; ok {
			return fn(ev.rt, args)
		}
		return Null, newErrAt(UnknownFunction, x.Pos, "undefined function %q", callee.Name)
	default:
		return Null, newErrAt(UnexpectedToken, x.Pos, "invalid call target")
	}
}

func (ev *evaluator) evalUnary(x *UnaryExpr, ctx *Context) (QValue, error) {
	v, err := ev.eval(x.X, ctx)
	if err != nil {
		return Null, err
	}
	switch x.Op {
	case TokMinus:
		return negate(v, x.Pos)
	case TokNot:
		return NewBool(!v.Bool()), nil
	default:
		return Null, newErrAt(UnexpectedToken, x.Pos, "unhandled unary operator")
	}
}
