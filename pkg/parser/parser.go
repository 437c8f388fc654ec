// Package parser implements Lak's recursive-descent, Pratt-precedence
// parser: tokens in, one module AST out.
package parser

import (
	"math/big"
	"strconv"

	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
	path   string
}

// Parse parses one module's full token stream (as produced by
// lexer.LexAll, including its trailing EOF) into an *ast.Module.
func Parse(path, source string, tokens []token.Token) (*ast.Module, *diagnostics.Error) {
	p := &Parser{tokens: tokens, path: path}
	return p.parseModule(source)
}

func (p *Parser) peek(distance ...int) token.Token {
	d := 0
	if len(distance) > 0 {
		d = distance[0]
	}
	i := p.pos + d
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, *diagnostics.Error) {
	if !p.check(k) {
		return token.Token{}, errUnexpectedToken(k.String(), p.peek())
	}
	return p.advance(), nil
}

// skipTerminators consumes any run of synthetic statement terminators at
// the current position. Continuation contexts (right after `(`, `,`, `{`,
// and right before `)`) ignore terminators so multi-line argument lists and
// parameter lists read naturally.
func (p *Parser) skipTerminators() {
	for p.check(token.TERMINATOR) {
		p.advance()
	}
}

func (p *Parser) parseModule(source string) (*ast.Module, *diagnostics.Error) {
	m := &ast.Module{Path: p.path, Source: source}

	p.skipTerminators()
	for p.check(token.IMPORT) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		m.Imports = append(m.Imports, *imp)
		p.skipTerminators()
	}

	for !p.check(token.EOF) {
		if !p.check(token.PUB) && !p.check(token.FN) {
			return nil, errInvalidTopLevel(p.peek())
		}
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		m.Functions = append(m.Functions, fn)
		p.skipTerminators()
	}

	return m, nil
}

func (p *Parser) parseImport() (*ast.Import, *diagnostics.Error) {
	start := p.peek().Span
	p.advance() // 'import'

	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}

	imp := &ast.Import{PathText: pathTok.Lexeme, PathSpan: pathTok.Span}

	if p.match(token.AS) {
		aliasTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		imp.Alias = aliasTok.Lexeme
		imp.AliasSpan = aliasTok.Span
	}

	imp.Sp = token.Merge(start, p.peek(-1).Span)
	return imp, nil
}

func (p *Parser) parseType() (ast.Type, *diagnostics.Error) {
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	kind, ok := ast.LookupPrimitive(nameTok.Lexeme)
	if !ok {
		return nil, errUnknownType(nameTok.Lexeme, nameTok.Span)
	}
	return &ast.Primitive{Kind: kind}, nil
}

func (p *Parser) parseFunction() (*ast.Function, *diagnostics.Error) {
	start := p.peek().Span
	visibility := ast.Private
	if p.match(token.PUB) {
		visibility = ast.Public
	}

	if _, err := p.expect(token.FN); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LEFT_PAREN); err != nil {
		return nil, err
	}
	p.skipTerminators()

	var params []ast.Parameter
	for !p.check(token.RIGHT_PAREN) {
		pNameTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{
			Name:     pNameTok.Lexeme,
			NameSpan: pNameTok.Span,
			Type:     typ,
			Sp:       token.Merge(pNameTok.Span, p.peek(-1).Span),
		})

		p.skipTerminators()
		if !p.match(token.COMMA) {
			break
		}
		p.skipTerminators()
	}
	p.skipTerminators()
	if _, err := p.expect(token.RIGHT_PAREN); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	retTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	retType, perr := p.parseTypeFromIdent(retTok)
	if perr != nil {
		return nil, perr
	}

	sigEnd := p.peek(-1).Span
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}

	fn := &ast.Function{
		Visibility:           visibility,
		Name:                 nameTok.Lexeme,
		NameSpan:             nameTok.Span,
		Parameters:           params,
		ReturnType:           retType,
		ReturnTypeSourceText: retTok.Lexeme,
		ReturnTypeSpan:       retTok.Span,
		Body:                 body,
		SignatureSpan:        token.Merge(start, sigEnd),
		Sp:                   token.Merge(start, p.peek(-1).Span),
	}
	return fn, nil
}

func (p *Parser) parseTypeFromIdent(t token.Token) (ast.Type, *diagnostics.Error) {
	kind, ok := ast.LookupPrimitive(t.Lexeme)
	if !ok {
		return nil, errUnknownType(t.Lexeme, t.Span)
	}
	return &ast.Primitive{Kind: kind}, nil
}

// parseBlockStatements parses `{ stmt* }` and returns the flat statement
// list, used by function bodies, while bodies, and if/else bodies that are
// not used in expression position.
func (p *Parser) parseBlockStatements() ([]ast.Statement, *diagnostics.Error) {
	if _, err := p.expect(token.LEFT_BRACE); err != nil {
		return nil, err
	}
	p.skipTerminators()

	var stmts []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.consumeStatementEnd()
	}

	if _, err := p.expect(token.RIGHT_BRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseBlockValue parses `{ stmt* tailExpr? }` for use as the then/else body
// of an if used in expression position: the final line may be a bare
// expression that becomes the block's yielded value.
func (p *Parser) parseBlockValue() (ast.Block, *diagnostics.Error) {
	start := p.peek().Span
	if _, err := p.expect(token.LEFT_BRACE); err != nil {
		return ast.Block{}, err
	}
	p.skipTerminators()

	var stmts []ast.Statement
	var tail ast.Expression

	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		if isStatementStart(p.peek()) || (p.peek().Kind == token.IDENTIFIER && p.peek(1).Kind == token.EQUAL) {
			s, err := p.parseStatement()
			if err != nil {
				return ast.Block{}, err
			}
			stmts = append(stmts, s)
			p.consumeStatementEnd()
			continue
		}

		expr, err := p.parseExpression()
		if err != nil {
			return ast.Block{}, err
		}
		p.skipTerminators()
		if !p.check(token.RIGHT_BRACE) {
			// Not actually the tail: treat it like any other expression
			// statement (call-form only) and keep scanning.
			if !isCallLike(expr) {
				return ast.Block{}, errInvalidExpressionStatement(expr.Span())
			}
			stmts = append(stmts, &ast.ExpressionStatement{Value: expr, Sp: expr.Span()})
			continue
		}
		tail = expr
		break
	}

	end := p.peek().Span
	if _, err := p.expect(token.RIGHT_BRACE); err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Statements: stmts, TailExpr: tail, Sp: token.Merge(start, end)}, nil
}

func isStatementStart(t token.Token) bool {
	switch t.Kind {
	case token.LET, token.RETURN, token.IF, token.WHILE, token.BREAK, token.CONTINUE:
		return true
	}
	return false
}

func isCallLike(e ast.Expression) bool {
	switch e.(type) {
	case *ast.CallExpr, *ast.ModuleCallExpr:
		return true
	}
	return false
}

// consumeStatementEnd consumes any terminators that follow a statement.
// It does not require one: a statement followed on the same line by
// another complete statement (as in `f() g()`) is accepted as two
// statements, not rejected.
func (p *Parser) consumeStatementEnd() {
	consumed := false
	for p.check(token.TERMINATOR) {
		p.advance()
		consumed = true
	}
	_ = consumed // `}`/EOF implicitly terminate; nothing further required
}

func (p *Parser) parseStatement() (ast.Statement, *diagnostics.Error) {
	switch p.peek().Kind {
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		t := p.advance()
		return &ast.BreakStatement{Sp: t.Span}, nil
	case token.CONTINUE:
		t := p.advance()
		return &ast.ContinueStatement{Sp: t.Span}, nil
	case token.IDENTIFIER:
		if p.peek(1).Kind == token.EQUAL {
			return p.parseAssign()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLet() (ast.Statement, *diagnostics.Error) {
	start := p.peek().Span
	p.advance() // 'let'

	mutable := p.match(token.MUT)

	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	discard := nameTok.Lexeme == "_"
	if discard && mutable {
		return nil, errLetMutDiscard(token.Merge(start, nameTok.Span))
	}

	var declared ast.Type
	if p.match(token.COLON) {
		declared, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.EQUAL); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.LetStatement{
		Mutable:      mutable,
		Discard:      discard,
		Name:         nameTok.Lexeme,
		NameSpan:     nameTok.Span,
		DeclaredType: declared,
		Value:        value,
		Sp:           token.Merge(start, value.Span()),
	}, nil
}

func (p *Parser) parseAssign() (ast.Statement, *diagnostics.Error) {
	nameTok := p.advance()
	p.advance() // '='
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStatement{
		Name:     nameTok.Lexeme,
		NameSpan: nameTok.Span,
		Value:    value,
		Sp:       token.Merge(nameTok.Span, value.Span()),
	}, nil
}

func (p *Parser) parseReturn() (ast.Statement, *diagnostics.Error) {
	start := p.advance().Span // 'return'
	if p.check(token.TERMINATOR) || p.check(token.RIGHT_BRACE) || p.check(token.EOF) {
		return &ast.ReturnStatement{Sp: start}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Value: value, Sp: token.Merge(start, value.Span())}, nil
}

func (p *Parser) parseWhile() (ast.Statement, *diagnostics.Error) {
	start := p.advance().Span // 'while'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	end := p.peek(-1).Span
	return &ast.WhileStatement{
		Condition: cond,
		Body:      ast.Block{Statements: body, Sp: token.Merge(cond.Span(), end)},
		Sp:        token.Merge(start, end),
	}, nil
}

// parseIfStatement parses an if used as a statement: else is optional and
// bodies are plain statement blocks (no tail expression).
func (p *Parser) parseIfStatement() (*ast.IfStatement, *diagnostics.Error) {
	start := p.advance().Span // 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenStmts, err := p.parseBlockStatements()
	if err != nil {
		return nil, err
	}
	end := p.peek(-1).Span
	ifStmt := &ast.IfStatement{
		Condition: cond,
		Then:      ast.Block{Statements: thenStmts, Sp: token.Merge(cond.Span(), end)},
		Sp:        token.Merge(start, end),
	}

	if p.match(token.ELSE) {
		if p.check(token.IF) {
			elseIf, err := p.parseIfStatement()
			if err != nil {
				return nil, err
			}
			ifStmt.Else = &ast.ElseBranch{If: elseIf}
		} else {
			elseStmts, err := p.parseBlockStatements()
			if err != nil {
				return nil, err
			}
			blk := ast.Block{Statements: elseStmts, Sp: p.peek(-1).Span}
			ifStmt.Else = &ast.ElseBranch{Block: &blk}
		}
		ifStmt.Sp = token.Merge(start, p.peek(-1).Span)
	}

	return ifStmt, nil
}

// parseIfExpression parses an if used in value position: else is
// mandatory and bodies may end with a tail expression.
func (p *Parser) parseIfExpression() (ast.Expression, *diagnostics.Error) {
	start := p.advance().Span // 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlockValue()
	if err != nil {
		return nil, err
	}
	ifStmt := &ast.IfStatement{Condition: cond, Then: thenBlock, Sp: token.Merge(start, thenBlock.Sp)}

	if !p.match(token.ELSE) {
		return nil, errMissingElseBranch(token.Merge(start, thenBlock.Sp))
	}

	if p.check(token.IF) {
		elseIfExpr, err := p.parseIfExpression()
		if err != nil {
			return nil, err
		}
		elseIf := elseIfExpr.(*ast.IfExpr).If
		ifStmt.Else = &ast.ElseBranch{If: elseIf}
	} else {
		elseBlock, err := p.parseBlockValue()
		if err != nil {
			return nil, err
		}
		ifStmt.Else = &ast.ElseBranch{Block: &elseBlock}
	}
	ifStmt.Sp = token.Merge(start, p.peek(-1).Span)

	return &ast.IfExpr{If: ifStmt, Sp: ifStmt.Sp}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, *diagnostics.Error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !isCallLike(expr) {
		if _, ok := expr.(*ast.Identifier); ok {
			return nil, errIdentifierNotCallable(expr.Span())
		}
		return nil, errInvalidExpressionStatement(expr.Span())
	}
	return &ast.ExpressionStatement{Value: expr, Sp: expr.Span()}, nil
}

// --- Expressions (precedence climbing) ---

func (p *Parser) parseExpression() (ast.Expression, *diagnostics.Error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR_OR) {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND_AND) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQUAL_EQUAL) || p.check(token.BANG_EQUAL) {
		op := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.LESS) || p.check(token.GREATER) || p.check(token.LESS_EQUAL) || p.check(token.GREATER_EQUAL) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, *diagnostics.Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right, Sp: token.Merge(left.Span(), right.Span())}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, *diagnostics.Error) {
	if p.check(token.MINUS) || p.check(token.BANG) {
		op := p.advance()

		// Fold a leading unary minus directly into an integer literal so
		// that the most negative value of every width stays representable.
		if op.Kind == token.MINUS && p.check(token.INT) {
			intTok := p.advance()
			v := new(big.Int)
			v.SetString(intTok.Lexeme, 10)
			v.Neg(v)
			return &ast.IntegerLiteral{Value: v, Sp: token.Merge(op.Span, intTok.Span)}, nil
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, OpSpan: op.Span, Operand: operand, Sp: token.Merge(op.Span, operand.Span())}, nil
	}
	return p.parseCallPostfix()
}

func (p *Parser) parseCallPostfix() (ast.Expression, *diagnostics.Error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.check(token.LEFT_PAREN) {
		switch callee := primary.(type) {
		case *ast.Identifier:
			return p.parseCallArgs(callee.Name, callee.Sp)
		case *ast.ModuleAccess:
			return p.parseModuleCallArgs(callee)
		}
	}

	return primary, nil
}

func (p *Parser) parseArgList() ([]ast.Expression, token.Span, *diagnostics.Error) {
	p.advance() // '('
	p.skipTerminators()

	var args []ast.Expression
	for !p.check(token.RIGHT_PAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, token.Span{}, err
		}
		args = append(args, arg)
		p.skipTerminators()
		if !p.match(token.COMMA) {
			break
		}
		p.skipTerminators()
	}

	closeTok, err := p.expect(token.RIGHT_PAREN)
	if err != nil {
		return nil, token.Span{}, err
	}
	return args, closeTok.Span, nil
}

func (p *Parser) parseCallArgs(name string, calleeSpan token.Span) (ast.Expression, *diagnostics.Error) {
	args, closeSpan, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: name, CalleeSpan: calleeSpan, Args: args, Sp: token.Merge(calleeSpan, closeSpan)}, nil
}

func (p *Parser) parseModuleCallArgs(access *ast.ModuleAccess) (ast.Expression, *diagnostics.Error) {
	args, closeSpan, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.ModuleCallExpr{
		Module:       access.Module,
		ModuleSpan:   access.ModuleSpan,
		Function:     access.Member,
		FunctionSpan: access.MemberSpan,
		Args:         args,
		Sp:           token.Merge(access.Sp, closeSpan),
	}, nil
}

func (p *Parser) parsePrimary() (ast.Expression, *diagnostics.Error) {
	t := p.peek()

	switch t.Kind {
	case token.INT:
		p.advance()
		v := new(big.Int)
		v.SetString(t.Lexeme, 10)
		return &ast.IntegerLiteral{Value: v, Sp: t.Span}, nil
	case token.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(t.Lexeme, 64)
		return &ast.FloatLiteral{Value: f, Sp: t.Span}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: t.Lexeme, Sp: t.Span}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true, Sp: t.Span}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false, Sp: t.Span}, nil
	case token.IF:
		return p.parseIfExpression()
	case token.LEFT_PAREN:
		p.advance()
		p.skipTerminators()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipTerminators()
		if _, err := p.expect(token.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.IDENTIFIER:
		p.advance()
		if p.check(token.DOT) {
			p.advance()
			memberTok, err := p.expect(token.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			return &ast.ModuleAccess{
				Module:     t.Lexeme,
				ModuleSpan: t.Span,
				Member:     memberTok.Lexeme,
				MemberSpan: memberTok.Span,
				Sp:         token.Merge(t.Span, memberTok.Span),
			}, nil
		}
		return &ast.Identifier{Name: t.Lexeme, Sp: t.Span}, nil
	}

	return nil, errUnexpectedToken("an expression", t)
}
