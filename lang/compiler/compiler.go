package compiler

import "github.com/mna/miniscript/lang/ast"

// Compile lowers a block of statements (a function body, or an entire
// top-level chunk) into a flat instruction stream.
func Compile(block *ast.Block) []Instruction {
	return compileStmts(block.Stmts)
}

// compileStmts flattens the per-statement instruction lists in order, which
// is the "lists of lists" concatenation required by spec.md §4.4.
func compileStmts(stmts []ast.Stmt) []Instruction {
	var out []Instruction
	for _, s := range stmts {
		out = append(out, compileStmt(s)...)
	}
	return out
}

func compileStmt(s ast.Stmt) []Instruction {
	switch s := s.(type) {
	case *ast.Block:
		return compileStmts(s.Stmts)
	case *ast.IfStmt:
		return compileIf(s)
	case *ast.WhileStmt:
		return compileWhile(s)
	case *ast.VarDeclStmt:
		return []Instruction{&VarDecl{Name: s.Name, Value: s.Value}}
	case *ast.ReturnStmt:
		return []Instruction{&Return{Value: s.Value}}
	case *ast.ExprStmt:
		if assign, ok := s.Expr.(*ast.AssignExpr); ok {
			return []Instruction{&Assign{Target: assign.Target, Value: assign.Value}}
		}
		return []Instruction{&Expression{Expr: s.Expr}}
	default:
		panic("compiler: unknown statement type")
	}
}

// compileIf implements the lowering rule from spec.md §4.4:
//
//	ConditionalJump(cond, |els|+2)
//	<els>
//	Jump(|then|+1)
//	<then>
//	EndBlock
func compileIf(s *ast.IfStmt) []Instruction {
	var els []Instruction
	if s.Else != nil {
		els = compileStmt(s.Else)
	}
	then := compileStmt(s.Then)

	out := make([]Instruction, 0, len(els)+len(then)+3)
	out = append(out, &ConditionalJump{Cond: s.Cond, Offset: len(els) + 2})
	out = append(out, els...)
	out = append(out, &Jump{Offset: len(then) + 1})
	out = append(out, then...)
	out = append(out, &EndBlock{})
	return out
}

// compileWhile implements the lowering rule from spec.md §4.4:
//
//	Jump(|body|+2)
//	<body>
//	EndBlock
//	ConditionalJump(cond, -(|body|+1))
//	EndBlock
func compileWhile(s *ast.WhileStmt) []Instruction {
	body := compileStmt(s.Body)

	out := make([]Instruction, 0, len(body)+4)
	out = append(out, &Jump{Offset: len(body) + 2})
	out = append(out, body...)
	out = append(out, &EndBlock{})
	out = append(out, &ConditionalJump{Cond: s.Cond, Offset: -(len(body) + 1)})
	out = append(out, &EndBlock{})
	return out
}
