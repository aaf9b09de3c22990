package parser

import (
	"strconv"

	"github.com/pontaoski/redstone/ast"
	"github.com/pontaoski/redstone/errors"
	"github.com/pontaoski/redstone/lexer"
	"github.com/pontaoski/redstone/types"
	"github.com/ztrue/tracerr"
)

type Parser struct {
	tokens []types.Token
	idx    int
}

func NewParser(tokens []types.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != types.EOF {
		tokens = append(tokens, types.Token{Kind: types.EOF})
	}
	return &Parser{tokens: tokens}
}

// Parse builds the program for a token stream produced by lexer.Tokenize.
func Parse(tokens []types.Token) (*ast.Program, error) {
	return NewParser(tokens).Parse()
}

// ParseSource tokenizes and parses source in one step.
func ParseSource(source, filename string, keywords lexer.Keywords) (*ast.Program, error) {
	tokens, err := lexer.TokenizeFile(source, filename, keywords)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				prog = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	prog = &ast.Program{}
	for {
		p.skipNewlines()
		if p.peekIs(types.EOF) {
			return prog, nil
		}

		prog.Body = append(prog.Body, p.parseStatement())
		p.expectTerminator(types.EOF)
	}
}

func (p *Parser) peek() types.Token {
	return p.tokens[p.idx]
}

func (p *Parser) peekIs(k ...types.TokenKind) bool {
	token := p.peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (p *Parser) lex() types.Token {
	tok := p.tokens[p.idx]
	if tok.Kind != types.EOF {
		p.idx++
	}
	return tok
}

func (p *Parser) prev() types.Token {
	if p.idx == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.idx-1]
}

func (p *Parser) lexExpecting(k ...types.TokenKind) types.Token {
	token := p.peek()
	for _, kind := range k {
		if token.Kind == kind {
			return p.lex()
		}
	}

	panic(errors.ExpectedOneOfKindGotKind(k, token))
}

func (p *Parser) skipNewlines() {
	for p.peekIs(types.NEWLINE) {
		p.lex()
	}
}

// expectTerminator checks that a statement is followed by a newline or by
// closer, without consuming the closer.
func (p *Parser) expectTerminator(closer types.TokenKind) {
	if p.peekIs(closer) {
		return
	}
	p.lexExpecting(types.NEWLINE, closer)
}

func (p *Parser) spanFrom(start types.Token) types.Span {
	return types.Span{From: start.Location.From, To: p.prev().Location.To}
}

// lexName reads the identifier of a declaration, rejecting reserved words.
func (p *Parser) lexName() ast.Identifier {
	tok := p.peek()
	if tok.Kind.IsKeyword() {
		panic(errors.NewParseError(errors.ReservedKeyword, tok, "cannot use reserved keyword '%s' as a name", tok.Lexeme))
	}
	tok = p.lexExpecting(types.IDENT)
	return ast.Identifier{Name: tok.Lexeme, Pos: tok.Location}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.peek().Kind {
	case types.VAR, types.CONST:
		return p.parseVariableDeclaration()
	case types.FUNC:
		return p.parseFunctionDeclaration()
	case types.IF:
		return p.parseIf()
	case types.WHILE:
		return p.parseWhile()
	case types.FOR:
		return p.parseFor()
	case types.BREAK:
		tok := p.lex()
		return ast.Break{Pos: tok.Location}
	case types.CONTINUE:
		tok := p.lex()
		return ast.Continue{Pos: tok.Location}
	case types.RETURN:
		return p.parseReturn()
	}

	return p.parseExpression().(ast.Statement)
}

func (p *Parser) parseVariableDeclaration() ast.VariableDeclaration {
	start := p.lexExpecting(types.VAR, types.CONST)
	decl := ast.VariableDeclaration{
		Constant: start.Kind == types.CONST,
		Name:     p.lexName(),
	}

	if p.peekIs(types.EQUALS) {
		p.lex()
		decl.Value = p.parseExpression()
	} else if decl.Constant {
		panic(errors.NewParseError(errors.MissingInitializer, p.peek(), "constant '%s' must be initialized", decl.Name.Name))
	}

	decl.Pos = p.spanFrom(start)
	return decl
}

func (p *Parser) parseFunctionDeclaration() ast.FunctionDeclaration {
	start := p.lexExpecting(types.FUNC)
	fn := ast.FunctionDeclaration{Name: p.lexName()}

	p.lexExpecting(types.LPAREN)
	if !p.peekIs(types.RPAREN) {
		for {
			fn.Params = append(fn.Params, p.lexName())
			if p.peekIs(types.RPAREN) {
				break
			}
			p.lexExpecting(types.COMMA, types.RPAREN)
		}
	}
	p.lexExpecting(types.RPAREN)

	fn.Body = p.parseBlock()
	fn.Pos = p.spanFrom(start)
	return fn
}

// parseBlock parses '{' NEWLINE statements '}'.
func (p *Parser) parseBlock() ast.Block {
	start := p.lexExpecting(types.LBRACE)
	p.lexExpecting(types.NEWLINE)

	var statements []ast.Statement
	for {
		p.skipNewlines()
		if p.peekIs(types.RBRACE) {
			break
		}

		statements = append(statements, p.parseStatement())
		p.expectTerminator(types.RBRACE)
	}
	p.lexExpecting(types.RBRACE)

	return ast.Block{Statements: statements, Pos: p.spanFrom(start)}
}

func (p *Parser) parseCondition() ast.Expression {
	p.lexExpecting(types.LPAREN)
	cond := p.parseExpression()
	p.lexExpecting(types.RPAREN)
	return cond
}

func (p *Parser) parseIf() ast.If {
	start := p.lexExpecting(types.IF)
	stmt := ast.If{
		Condition: p.parseCondition(),
		Then:      p.parseBlock(),
	}

	// else may start on a later line
	ahead := p.idx
	for p.tokens[ahead].Kind == types.NEWLINE {
		ahead++
	}
	if p.tokens[ahead].Kind == types.ELSE {
		p.idx = ahead + 1
		if p.peekIs(types.IF) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}

	stmt.Pos = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseWhile() ast.While {
	start := p.lexExpecting(types.WHILE)
	stmt := ast.While{
		Condition: p.parseCondition(),
		Body:      p.parseBlock(),
	}
	stmt.Pos = p.spanFrom(start)
	return stmt
}

// parseFor parses 'for' '(' [init] ',' [condition] ',' [update] ')' block.
func (p *Parser) parseFor() ast.For {
	start := p.lexExpecting(types.FOR)
	stmt := ast.For{}

	p.lexExpecting(types.LPAREN)
	switch {
	case p.peekIs(types.VAR, types.CONST):
		stmt.Init = p.parseVariableDeclaration()
	case !p.peekIs(types.COMMA):
		stmt.Init = p.parseExpression().(ast.Statement)
	}
	p.lexExpecting(types.COMMA)

	if !p.peekIs(types.COMMA) {
		stmt.Condition = p.parseExpression()
	}
	p.lexExpecting(types.COMMA)

	if !p.peekIs(types.RPAREN) {
		stmt.Update = p.parseExpression()
	}
	p.lexExpecting(types.RPAREN)

	stmt.Body = p.parseBlock()
	stmt.Pos = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseReturn() ast.Return {
	start := p.lexExpecting(types.RETURN)
	stmt := ast.Return{}
	if !p.peekIs(types.NEWLINE, types.RBRACE, types.EOF) {
		stmt.Value = p.parseExpression()
	}
	stmt.Pos = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	start := p.peek()
	left := p.parseOr()

	if p.peekIs(types.EQUALS) {
		eq := p.lex()
		if !ast.IsAssignable(left) {
			panic(errors.NewParseError(errors.InvalidAssignmentTarget, eq, "invalid assignment target %s", ast.ExpressionString(left)))
		}

		value := p.parseAssignment()
		return ast.Assignment{Target: left, Value: value, Pos: p.spanFrom(start)}
	}

	return left
}

func (p *Parser) parseOr() ast.Expression {
	start := p.peek()
	left := p.parseAnd()
	for p.peekIs(types.OR) {
		op := p.lex()
		right := p.parseAnd()
		left = ast.Logical{Left: left, Operator: op.Lexeme, Right: right, Pos: p.spanFrom(start)}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	start := p.peek()
	left := p.parseComparison()
	for p.peekIs(types.AND) {
		op := p.lex()
		right := p.parseComparison()
		left = ast.Logical{Left: left, Operator: op.Lexeme, Right: right, Pos: p.spanFrom(start)}
	}
	return left
}

func (p *Parser) parseBinary(next func() ast.Expression, ops ...types.TokenKind) ast.Expression {
	start := p.peek()
	left := next()
	for p.peekIs(ops...) {
		op := p.lex()
		right := next()
		left = ast.Binary{Left: left, Operator: op.Lexeme, Right: right, Pos: p.spanFrom(start)}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	return p.parseBinary(p.parseAdditive, types.EQ, types.NOTEQ, types.LT, types.LTEQ, types.GT, types.GTEQ)
}

func (p *Parser) parseAdditive() ast.Expression {
	return p.parseBinary(p.parseMultiplicative, types.PLUS, types.MINUS)
}

func (p *Parser) parseMultiplicative() ast.Expression {
	return p.parseBinary(p.parseUnary, types.STAR, types.SLASH, types.PERCENT)
}

func (p *Parser) parseUnary() ast.Expression {
	if p.peekIs(types.MINUS, types.BANG) {
		op := p.lex()
		operand := p.parseUnary()
		return ast.Unary{Operator: op.Lexeme, Operand: operand, Pos: p.spanFrom(op)}
	}
	return p.parseCallMember()
}

// parseCallMember wraps a primary expression in any number of '.name' and
// '(args)' suffixes.
func (p *Parser) parseCallMember() ast.Expression {
	start := p.peek()
	expr := p.parsePrimary()

	for {
		switch {
		case p.peekIs(types.PERIOD):
			p.lex()
			tok := p.lexExpecting(types.IDENT)
			expr = ast.MemberAccess{
				Object:   expr,
				Property: ast.Identifier{Name: tok.Lexeme, Pos: tok.Location},
				Pos:      p.spanFrom(start),
			}
		case p.peekIs(types.LPAREN):
			p.lex()
			args := p.parseArguments()
			expr = ast.Call{Callee: expr, Arguments: args, Pos: p.spanFrom(start)}
		default:
			return expr
		}
	}
}

// parseArguments should be called when the parser is past the opening paren.
func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression

	if !p.peekIs(types.RPAREN) {
		for {
			args = append(args, p.parseExpression())
			if p.peekIs(types.RPAREN) {
				break
			}
			p.lexExpecting(types.COMMA, types.RPAREN)
		}
	}
	p.lexExpecting(types.RPAREN)

	return args
}

var primaryKinds = []types.TokenKind{
	types.NUMBER, types.STRING, types.IDENT, types.TRUE, types.FALSE, types.NULL, types.LPAREN, types.LBRACE,
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.lexExpecting(primaryKinds...)

	switch tok.Kind {
	case types.NUMBER:
		parsed, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			panic(err)
		}
		return ast.NumberLiteral{Value: parsed, Pos: tok.Location}
	case types.STRING:
		return ast.StringLiteral{Value: tok.Lexeme, Pos: tok.Location}
	case types.TRUE, types.FALSE:
		return ast.BooleanLiteral{Value: tok.Kind == types.TRUE, Pos: tok.Location}
	case types.NULL:
		return ast.NullLiteral{Pos: tok.Location}
	case types.IDENT:
		return ast.Identifier{Name: tok.Lexeme, Pos: tok.Location}
	case types.LPAREN:
		expr := p.parseExpression()
		p.lexExpecting(types.RPAREN)
		return expr
	case types.LBRACE:
		return p.parseObjectLiteral(tok)
	}

	panic("unhandled")
}

// parseObjectLiteral should be called when the parser is past the opening
// brace.
func (p *Parser) parseObjectLiteral(start types.Token) ast.ObjectLiteral {
	p.lexExpecting(types.NEWLINE)
	p.skipNewlines()

	var props []ast.Property
	seen := map[string]bool{}

	for !p.peekIs(types.RBRACE) {
		tok := p.lexExpecting(types.IDENT)
		if seen[tok.Lexeme] {
			panic(errors.NewParseError(errors.DuplicateField, tok, "field %s specified more than once", tok.Lexeme))
		}
		seen[tok.Lexeme] = true

		prop := ast.Property{Name: ast.Identifier{Name: tok.Lexeme, Pos: tok.Location}}
		if p.peekIs(types.COLON) {
			p.lex()
			prop.Value = p.parseExpression()
		}
		props = append(props, prop)

		if !p.peekIs(types.COMMA) {
			p.skipNewlines()
			break
		}
		p.lex()
		p.skipNewlines()
	}
	p.lexExpecting(types.RBRACE)

	return ast.ObjectLiteral{Properties: props, Pos: p.spanFrom(start)}
}
