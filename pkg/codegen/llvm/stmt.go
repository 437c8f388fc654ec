package llvmgen

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func mainSuccessCode() *constant.Int {
	return constant.NewInt(types.I32, 0)
}

// genStatements lowers a flat statement list. Once the current block gains
// a terminator (a return, break, or continue), any statements after it are
// unreachable and are skipped rather than appended to an already-terminated
// block.
func (e *emitter) genStatements(stmts []ast.Statement) *diagnostics.Error {
	for _, s := range stmts {
		if e.block.Term != nil {
			return nil
		}
		if err := e.genStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) genStatement(s ast.Statement) *diagnostics.Error {
	switch v := s.(type) {
	case *ast.LetStatement:
		return e.genLet(v)
	case *ast.AssignStatement:
		return e.genAssign(v)
	case *ast.ReturnStatement:
		return e.genReturn(v)
	case *ast.ExpressionStatement:
		_, err := e.genExpr(v.Value, nil)
		return err
	case *ast.IfStatement:
		return e.genIfStatement(v)
	case *ast.WhileStatement:
		return e.genWhile(v)
	case *ast.BreakStatement:
		return e.genBreak(v)
	case *ast.ContinueStatement:
		return e.genContinue(v)
	}
	return errInternalAt("encountered a statement node of unknown static type", s.Span())
}

func (e *emitter) genLet(v *ast.LetStatement) *diagnostics.Error {
	typ := v.DeclaredType
	if inferred, ok := e.inferred[v.Sp]; ok {
		typ = inferred
	}
	if typ == nil {
		return errInternalAt("'"+v.Name+"' reached codegen with no resolved type", v.Sp)
	}

	val, err := e.genExpr(v.Value, typ)
	if err != nil {
		return err
	}

	if v.Discard {
		return nil
	}

	lowered := lowerType(typ)
	ptr := e.entryBlock.NewAlloca(lowered)
	e.block.NewStore(val, ptr)
	e.locals[v.Name] = &local{ptr: ptr, typ: typ}
	return nil
}

func (e *emitter) genAssign(v *ast.AssignStatement) *diagnostics.Error {
	loc, ok := e.locals[v.Name]
	if !ok {
		return errInternalAt("assignment to '"+v.Name+"' has no codegen binding", v.NameSpan)
	}
	val, err := e.genExpr(v.Value, loc.typ)
	if err != nil {
		return err
	}
	e.block.NewStore(val, loc.ptr)
	return nil
}

func (e *emitter) genReturn(v *ast.ReturnStatement) *diagnostics.Error {
	if v.Value == nil {
		if e.curIsEntry && e.fn.Name() == "main" {
			e.block.NewRet(mainSuccessCode())
			return nil
		}
		e.block.NewRet(nil)
		return nil
	}
	val, err := e.genExpr(v.Value, e.retType)
	if err != nil {
		return err
	}
	e.block.NewRet(val)
	return nil
}

// genIfStatement lowers an if used as a statement. When every branch
// diverges (each ends in return/break/continue, or a further divergent
// construct), merge never gains a predecessor; it is terminated with
// unreachable instead of being left to fall off the function's end.
func (e *emitter) genIfStatement(v *ast.IfStatement) *diagnostics.Error {
	merge := e.fn.NewBlock("")
	reachable, err := e.genIfChain(v, merge)
	if err != nil {
		return err
	}
	e.block = merge
	if !reachable {
		merge.NewUnreachable()
	}
	return nil
}

// genIfChain returns whether merge gained at least one predecessor from
// this chain, so genIfStatement can tell a fully-divergent if apart from
// one that falls through normally.
func (e *emitter) genIfChain(v *ast.IfStatement, merge *ir.Block) (bool, *diagnostics.Error) {
	cond, err := e.genExpr(v.Condition, boolType)
	if err != nil {
		return false, err
	}

	thenBlock := e.fn.NewBlock("")
	var elseBlock *ir.Block
	noElse := v.Else == nil
	if noElse {
		elseBlock = merge
	} else {
		elseBlock = e.fn.NewBlock("")
	}
	e.block.NewCondBr(cond, thenBlock, elseBlock)
	reachable := noElse

	e.block = thenBlock
	if err := e.genStatements(v.Then.Statements); err != nil {
		return false, err
	}
	if e.block.Term == nil {
		e.block.NewBr(merge)
		reachable = true
	}

	if v.Else == nil {
		return reachable, nil
	}

	e.block = elseBlock
	if v.Else.If != nil {
		nestedReachable, err := e.genIfChain(v.Else.If, merge)
		if err != nil {
			return false, err
		}
		return reachable || nestedReachable, nil
	}
	if err := e.genStatements(v.Else.Block.Statements); err != nil {
		return false, err
	}
	if e.block.Term == nil {
		e.block.NewBr(merge)
		reachable = true
	}
	return reachable, nil
}

func (e *emitter) genWhile(v *ast.WhileStatement) *diagnostics.Error {
	headBlock := e.fn.NewBlock("")
	bodyBlock := e.fn.NewBlock("")
	exitBlock := e.fn.NewBlock("")

	e.block.NewBr(headBlock)

	e.block = headBlock
	cond, err := e.genExpr(v.Condition, boolType)
	if err != nil {
		return err
	}
	e.block.NewCondBr(cond, bodyBlock, exitBlock)

	e.loops = append(e.loops, loopContext{headBlock: headBlock, exitBlock: exitBlock})
	e.block = bodyBlock
	if err := e.genStatements(v.Body.Statements); err != nil {
		e.loops = e.loops[:len(e.loops)-1]
		return err
	}
	if e.block.Term == nil {
		e.block.NewBr(headBlock)
	}
	e.loops = e.loops[:len(e.loops)-1]

	e.block = exitBlock
	// exitBlock is always targeted by headBlock's condbr, but when the
	// condition is the literal `true` and the body has no reachable break,
	// that edge is never actually taken; mirror the analyzer's own
	// divergence check (pkg/analyzer/flow.go's isConstTrue /
	// loopHasReachableBreak) so the block is marked unreachable instead of
	// falling off the function's end.
	if isConstTrueCond(v.Condition) && !loopHasReachableBreak(v.Body.Statements) {
		exitBlock.NewUnreachable()
	}
	return nil
}

func isConstTrueCond(cond ast.Expression) bool {
	b, ok := cond.(*ast.BoolLiteral)
	return ok && b.Value
}

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

func (e *emitter) genBreak(v *ast.BreakStatement) *diagnostics.Error {
	if len(e.loops) == 0 {
		return errInternalAt("'break' reached codegen outside any loop", v.Sp)
	}
	e.block.NewBr(e.loops[len(e.loops)-1].exitBlock)
	return nil
}

func (e *emitter) genContinue(v *ast.ContinueStatement) *diagnostics.Error {
	if len(e.loops) == 0 {
		return errInternalAt("'continue' reached codegen outside any loop", v.Sp)
	}
	e.block.NewBr(e.loops[len(e.loops)-1].headBlock)
	return nil
}
