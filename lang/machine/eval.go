package machine

import (
	"math"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
)

// Eval evaluates expr in scope under monitor mon (spec.md §4.6). Eval itself
// consumes no budget; a call to a UserFunction runs the body under budget,
// one unit per instruction executed. It is pure with respect to scope
// bindings save for three exceptions: a named FunctionDef binds its own
// name, a nested AssignExpr writes its target, and a Call may run arbitrary
// MiniScript code (including further assignments) as a side effect.
func Eval(expr ast.Expr, scope *Scope, mon Monitor, budget *StepBudget) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return mon.Literal(NewNumber(e.Value)), nil
	case *ast.StringLit:
		return mon.Literal(NewString(e.Value)), nil
	case *ast.BoolLit:
		return mon.Literal(NewBoolean(e.Value)), nil
	case *ast.NullLit:
		return mon.Literal(Null{}), nil
	case *ast.UndefinedLit:
		return mon.Literal(Undefined{}), nil
	case *ast.ArrayLit:
		elems, err := evalList(e.Elems, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		return mon.Literal(NewArray(elems)), nil

	case *ast.NameExpr:
		return scope.Get(e.Name)

	case *ast.BinOp:
		return evalBinOp(e, scope, mon, budget)

	case *ast.UnaryOp:
		r, err := Eval(e.Expr, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		l := mon.UnaryOp(r)
		switch e.Op {
		case token.MINUS:
			return Number{Val: -ToNumber(r).Val, Lbl: l}, nil
		case token.NOT:
			return Boolean{Val: IsFalsy(r), Lbl: l}, nil
		default:
			return nil, typeMismatch("unary "+e.Op.String(), r)
		}

	case *ast.IndexExpr:
		return evalIndex(e, scope, mon, budget)

	case *ast.AttributeExpr:
		return evalAttribute(e, scope, mon, budget)

	case *ast.CallExpr:
		fn, err := Eval(e.Func, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		args, err := evalList(e.Args, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		callee, ok := fn.(Function)
		if !ok {
			return nil, newError(UnsupportedOperation, "cannot call a "+fn.Type()+" value")
		}
		mon.Call(fn, args)
		return callee.Call(args, mon, budget)

	case *ast.AssignExpr:
		// Only reached when an AssignExpr appears somewhere other than the
		// top of an ExprStmt (the compiler lowers that common case directly
		// to an Assign instruction); evaluate it as an expression with the
		// assigned value as its result.
		name, ok := e.Target.(*ast.NameExpr)
		if !ok {
			return nil, newError(NotYetImplemented, "assignment to non-name target")
		}
		val, err := Eval(e.Value, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		stored, err := mon.SecureAssign(scope, name.Name, val)
		if err != nil {
			return nil, err
		}
		scope.Set(name.Name, stored, false)
		return stored, nil

	case *ast.FunctionDefExpr:
		fn := NewUserFunction(e.Name, e.Params, e.Body, scope)
		if e.Name != "" {
			scope.Declare(e.Name, fn, Empty)
		}
		return fn, nil

	default:
		return nil, illegalState("eval: unknown expression type")
	}
}

func evalBinOp(e *ast.BinOp, scope *Scope, mon Monitor, budget *StepBudget) (Value, error) {
	if e.Op == token.AND || e.Op == token.OR {
		left, err := Eval(e.Left, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		if (e.Op == token.OR && !IsFalsy(left)) || (e.Op == token.AND && IsFalsy(left)) {
			return left, nil
		}
		mon.EnterBlock(left)
		right, err := Eval(e.Right, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		mon.EndBlock()
		return right.WithLabel(mon.BinOp(left, right)), nil
	}

	left, err := Eval(e.Left, scope, mon, budget)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, scope, mon, budget)
	if err != nil {
		return nil, err
	}
	l := mon.BinOp(left, right)

	switch e.Op {
	case token.PLUS:
		if isNumeric(left) && isNumeric(right) {
			return Number{Val: ToNumber(left).Val + ToNumber(right).Val, Lbl: l}, nil
		}
		return String{Val: left.String() + right.String(), Lbl: l}, nil
	case token.MINUS:
		return Number{Val: ToNumber(left).Val - ToNumber(right).Val, Lbl: l}, nil
	case token.STAR:
		return Number{Val: ToNumber(left).Val * ToNumber(right).Val, Lbl: l}, nil
	case token.PERCENT:
		return Number{Val: math.Mod(ToNumber(left).Val, ToNumber(right).Val), Lbl: l}, nil
	case token.SLASH:
		// Go's float64 division already yields the IEEE-754 results the spec
		// calls out explicitly (0/0 = NaN, x/0 = ±Inf for x != 0).
		return Number{Val: ToNumber(left).Val / ToNumber(right).Val, Lbl: l}, nil
	case token.EQ:
		return Boolean{Val: Equal(left, right), Lbl: l}, nil
	case token.NEQ:
		return Boolean{Val: !Equal(left, right), Lbl: l}, nil
	case token.GT:
		return Boolean{Val: ToNumber(left).Val > ToNumber(right).Val, Lbl: l}, nil
	case token.LT:
		return Boolean{Val: ToNumber(left).Val < ToNumber(right).Val, Lbl: l}, nil
	case token.GE:
		return Boolean{Val: ToNumber(left).Val >= ToNumber(right).Val, Lbl: l}, nil
	case token.LE:
		return Boolean{Val: ToNumber(left).Val <= ToNumber(right).Val, Lbl: l}, nil
	default:
		return nil, typeMismatch("binary "+e.Op.String(), left)
	}
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Number, Boolean:
		return true
	default:
		return false
	}
}

// evalIndex and evalAttribute extend the closed value set with the minimum
// read-only array/string access spec.md's grammar (§6) allows the parser to
// produce but §4.6 does not itself specify; out-of-range or inapplicable
// access yields Undefined rather than an error, matching the total-function
// style of the rest of the value model (to_number, is_falsy). Neither hook
// notifies the monitor: §4.8's hook set has no entry for them, so indexing
// and attribute access carry whatever label the accessed value already has.
func evalIndex(e *ast.IndexExpr, scope *Scope, mon Monitor, budget *StepBudget) (Value, error) {
	target, err := Eval(e.Target, scope, mon, budget)
	if err != nil {
		return nil, err
	}
	idx, err := Eval(e.Index, scope, mon, budget)
	if err != nil {
		return nil, err
	}
	n := int(ToNumber(idx).Val)
	switch t := target.(type) {
	case Array:
		if n < 0 || n >= len(t.Elems) {
			return Undefined{}, nil
		}
		return t.Elems[n], nil
	case String:
		r := []rune(t.Val)
		if n < 0 || n >= len(r) {
			return Undefined{}, nil
		}
		return String{Val: string(r[n]), Lbl: t.Lbl}, nil
	default:
		return Undefined{}, nil
	}
}

func evalAttribute(e *ast.AttributeExpr, scope *Scope, mon Monitor, budget *StepBudget) (Value, error) {
	v, err := Eval(e.Value, scope, mon, budget)
	if err != nil {
		return nil, err
	}
	if e.Attr != "length" {
		return Undefined{}, nil
	}
	switch v := v.(type) {
	case Array:
		return Number{Val: float64(len(v.Elems)), Lbl: v.Lbl}, nil
	case String:
		return Number{Val: float64(len([]rune(v.Val))), Lbl: v.Lbl}, nil
	default:
		return Undefined{}, nil
	}
}
