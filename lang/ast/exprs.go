package ast

import "github.com/mna/miniscript/lang/token"

// NumberLit is a numeric literal, e.g. 42.
type NumberLit struct{ Value float64 }

// StringLit is a double-quoted string literal with escapes already resolved.
type StringLit struct{ Value string }

// BoolLit is the `true`/`false` literal.
type BoolLit struct{ Value bool }

// NullLit is the `null` literal.
type NullLit struct{}

// UndefinedLit is the `undefined` literal.
type UndefinedLit struct{}

// ArrayLit is an array literal, e.g. [1, 2, h].
type ArrayLit struct{ Elems []Expr }

// NameExpr is a reference to a bound name.
type NameExpr struct{ Name string }

// BinOp is a binary operator expression. Op is one of
// + - * / % && || == != > < >= <=.
type BinOp struct {
	Op          token.Token
	Left, Right Expr
}

// UnaryOp is a unary operator expression. Op is one of - !.
type UnaryOp struct {
	Op   token.Token
	Expr Expr
}

// IndexExpr is a subscript expression, e.g. a[0].
type IndexExpr struct {
	Target Expr
	Index  Expr
}

// AttributeExpr is a dotted attribute access, e.g. x.f.
type AttributeExpr struct {
	Value Expr
	Attr  string
}

// CallExpr invokes Func with Args, evaluated left to right, callee before
// arguments.
type CallExpr struct {
	Func Expr
	Args []Expr
}

// AssignExpr assigns Value to Target. Target must be a *NameExpr; any other
// target compiles to an instruction that fails with NotYetImplemented.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

// FunctionDefExpr is a function literal, optionally named (in which case
// evaluating it also binds Name in the enclosing scope).
type FunctionDefExpr struct {
	Name   string // empty if anonymous
	Params []string
	Body   []Stmt
}

func (*NumberLit) exprNode()       {}
func (*StringLit) exprNode()       {}
func (*BoolLit) exprNode()         {}
func (*NullLit) exprNode()         {}
func (*UndefinedLit) exprNode()    {}
func (*ArrayLit) exprNode()        {}
func (*NameExpr) exprNode()        {}
func (*BinOp) exprNode()           {}
func (*UnaryOp) exprNode()         {}
func (*IndexExpr) exprNode()       {}
func (*AttributeExpr) exprNode()   {}
func (*CallExpr) exprNode()        {}
func (*AssignExpr) exprNode()      {}
func (*FunctionDefExpr) exprNode() {}

func (n *NumberLit) Walk(v Visitor)    {}
func (n *StringLit) Walk(v Visitor)    {}
func (n *BoolLit) Walk(v Visitor)      {}
func (n *NullLit) Walk(v Visitor)      {}
func (n *UndefinedLit) Walk(v Visitor) {}

func (n *ArrayLit) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}

func (n *NameExpr) Walk(v Visitor) {}

func (n *BinOp) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *UnaryOp) Walk(v Visitor) { Walk(v, n.Expr) }

func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Index)
}

func (n *AttributeExpr) Walk(v Visitor) { Walk(v, n.Value) }

func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Func)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}

func (n *FunctionDefExpr) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}
