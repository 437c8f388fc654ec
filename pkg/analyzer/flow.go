package analyzer

import "github.com/lak-lang/lak/pkg/ast"

// blockDiverges reports whether every path through stmts ends in a return,
// or in a break/continue (which hands control to an enclosing construct
// that is itself responsible for satisfying return-path analysis), or in
// an infinite `while true` loop with no reachable break.
func blockDiverges(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if stmtDiverges(s) {
			return true
		}
	}
	return false
}

func stmtDiverges(s ast.Statement) bool {
	switch v := s.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.BreakStatement:
		return true
	case *ast.ContinueStatement:
		return true
	case *ast.IfStatement:
		return ifStatementDiverges(v)
	case *ast.WhileStatement:
		return isConstTrue(v.Condition) && !loopHasReachableBreak(v.Body.Statements)
	}
	return false
}

func ifStatementDiverges(v *ast.IfStatement) bool {
	if v.Else == nil {
		return false
	}
	if !nestedBlockDiverges(v.Then) {
		return false
	}
	if v.Else.If != nil {
		return ifStatementDiverges(v.Else.If)
	}
	return nestedBlockDiverges(*v.Else.Block)
}

// nestedBlockDiverges treats a block ending in a tail expression as
// diverging (it yields a value to its enclosing if-expression, which is a
// different notion of completion than falling off the end of a function
// body) only when that block is not itself the thing being checked for
// function return coverage — if-expressions are always well-typed, so
// their branches trivially "complete". A bare statement block (no
// TailExpr) is checked by blockDiverges exactly like a function body.
func nestedBlockDiverges(b ast.Block) bool {
	if b.TailExpr != nil {
		return true
	}
	return blockDiverges(b.Statements)
}

// loopHasReachableBreak reports whether stmts contains a break reachable
// without first descending into a nested while loop, whose breaks belong
// to that loop, not this one.
func loopHasReachableBreak(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if stmtHasReachableBreak(s) {
			return true
		}
	}
	return false
}

func stmtHasReachableBreak(s ast.Statement) bool {
	switch v := s.(type) {
	case *ast.BreakStatement:
		return true
	case *ast.IfStatement:
		if loopHasReachableBreak(v.Then.Statements) {
			return true
		}
		if v.Else == nil {
			return false
		}
		if v.Else.If != nil {
			return stmtHasReachableBreak(v.Else.If)
		}
		return loopHasReachableBreak(v.Else.Block.Statements)
	case *ast.WhileStatement:
		return false
	}
	return false
}

// isConstTrue reports whether cond is the literal `true`. Any other
// condition, however trivially always-true it might be by analysis of its
// operands, is treated conservatively as non-divergent.
func isConstTrue(cond ast.Expression) bool {
	b, ok := cond.(*ast.BoolLiteral)
	return ok && b.Value
}
