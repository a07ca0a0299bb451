package parser

import (
	"strconv"

	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/types"
)

// Parser 语法分析器
type Parser struct {
	s        *lexer.Stream
	curToken lexer.Token
	last     lexer.Token // 最后一个真实 token，用于定位 EOF
	depth    int         // 代码块嵌套深度
	errors   diag.List
}

// New 创建一个新的语法分析器
func New(s *lexer.Stream) *Parser {
	p := &Parser{s: s}
	p.nextToken()
	return p
}

// Parse 解析 token 序列，返回语法树和语法错误
func Parse(tokens []lexer.Token) (*Program, diag.List) {
	p := New(lexer.FromTokens(tokens))
	program := p.ParseProgram()
	return program, p.Errors()
}

// Errors 返回解析过程中的错误
func (p *Parser) Errors() diag.List {
	return p.errors
}

// eof 构造位于最后一个 token 之后的 EOF
func (p *Parser) eof() lexer.Token {
	return lexer.Token{
		Type:   lexer.TOKEN_EOF,
		Line:   max(p.last.Line, 1),
		Column: p.last.Column + len(p.last.Literal),
		Start:  p.last.End,
		End:    p.last.End,
	}
}

// nextToken 前进到下一个 token
func (p *Parser) nextToken() {
	tok, ok := p.s.Next()
	if !ok {
		p.curToken = p.eof()
		return
	}
	p.curToken = tok
	p.last = tok
}

// peek 查看当前 token 之后的第 n 个 token（0 为紧随其后的一个）
func (p *Parser) peek(n int) lexer.Token {
	tok, ok := p.s.Peek(n)
	if !ok {
		return p.eof()
	}
	return tok
}

// curTokenIs 检查当前 token 类型
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs 检查下一个 token 类型
func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peek(0).Type == t
}

// expectPeek 期望下一个 token 类型并前进
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// peekError 记录期望错误
func (p *Parser) peekError(t lexer.TokenType) {
	got := p.peek(0)
	p.errorAt(got, i18n.T(i18n.ErrExpectedToken, "'"+lexer.TokenTypeName(t)+"'", describe(got)))
}

// errorAt 在指定 token 处记录语法错误
func (p *Parser) errorAt(tok lexer.Token, msg string) {
	p.errors.Add(diag.Syntax, diag.CodeSyntax, tok.Line, tok.Column, msg)
}

// describe 用于错误信息中的 token 描述
func describe(tok lexer.Token) string {
	if tok.Type == lexer.TOKEN_EOF {
		return "EOF"
	}
	return "'" + tok.Literal + "'"
}

// synchronize 丢弃 token 直到语句结束符或右花括号
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.TOKEN_SEMICOLON) &&
		!p.curTokenIs(lexer.TOKEN_RBRACE) &&
		!p.curTokenIs(lexer.TOKEN_EOF) {
		p.nextToken()
	}
}

// ParseProgram 解析整个源文件
func (p *Parser) ParseProgram() *Program {
	program := &Program{}

	for !p.curTokenIs(lexer.TOKEN_EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

// parseStatement 解析语句，结束时 curToken 停在语句的最后一个 token 上
func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.TOKEN_FUNCTION, lexer.TOKEN_PROCEDURE, lexer.TOKEN_CLASS, lexer.TOKEN_ENUM:
		if p.depth > 0 {
			p.errorAt(p.curToken, i18n.T(i18n.ErrNestedDeclaration, p.curToken.Literal))
			return nil
		}
	}

	switch p.curToken.Type {
	case lexer.TOKEN_FUNCTION, lexer.TOKEN_PROCEDURE:
		if fn := p.parseFuncDecl(); fn != nil {
			return fn
		}
		return nil
	case lexer.TOKEN_CLASS:
		if c := p.parseClassDecl(); c != nil {
			return c
		}
		return nil
	case lexer.TOKEN_ENUM:
		if e := p.parseEnumDecl(); e != nil {
			return e
		}
		return nil
	case lexer.TOKEN_VAR, lexer.TOKEN_CONST:
		if v := p.parseVarDecl(true); v != nil {
			return v
		}
		return nil
	case lexer.TOKEN_IF:
		if s := p.parseIfStmt(); s != nil {
			return s
		}
		return nil
	case lexer.TOKEN_WHILE:
		if s := p.parseWhileStmt(); s != nil {
			return s
		}
		return nil
	case lexer.TOKEN_LOOP:
		if s := p.parseLoopStmt(); s != nil {
			return s
		}
		return nil
	case lexer.TOKEN_FOR:
		return p.parseForStmt()
	case lexer.TOKEN_BREAK:
		stmt := &BreakStmt{Token: p.curToken}
		if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
			return nil
		}
		return stmt
	case lexer.TOKEN_CONTINUE:
		stmt := &ContinueStmt{Token: p.curToken}
		if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
			return nil
		}
		return stmt
	case lexer.TOKEN_RETURN:
		if s := p.parseReturnStmt(); s != nil {
			return s
		}
		return nil
	case lexer.TOKEN_PRINT:
		if s := p.parsePrintStmt(); s != nil {
			return s
		}
		return nil
	case lexer.TOKEN_LBRACE:
		if b := p.parseBlockStmt(); b != nil {
			return b
		}
		return nil
	case lexer.TOKEN_SEMICOLON:
		// 空语句
		return nil
	default:
		return p.parseSimpleStmt(true)
	}
}

// ========== 声明 ==========

// parseFuncDecl 解析 function / procedure 声明
func (p *Parser) parseFuncDecl() *FuncDecl {
	fn := &FuncDecl{Token: p.curToken, IsProcedure: p.curTokenIs(lexer.TOKEN_PROCEDURE)}

	if !p.expectPeek(lexer.TOKEN_IDENT) {
		return nil
	}
	fn.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.TOKEN_LT) {
		p.nextToken()
		fn.TypeParams = p.parseTypeParams()
		if fn.TypeParams == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.TOKEN_LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn.Params = params

	if p.peekTokenIs(lexer.TOKEN_COLON) {
		p.nextToken()
		p.nextToken()
		ret, ok := p.parseType()
		if !ok {
			return nil
		}
		fn.ReturnType = ret
	} else if fn.IsProcedure {
		fn.ReturnType = types.Void
	} else {
		p.errorAt(p.peek(0), i18n.T(i18n.ErrReturnTypeRequired, fn.Name))
		return nil
	}

	if !p.expectPeek(lexer.TOKEN_LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStmt()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseTypeParams 解析 <T, U>，curToken 为 <，结束时停在 >
func (p *Parser) parseTypeParams() []string {
	var params []string
	for {
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil
		}
		params = append(params, p.curToken.Literal)
		if !p.peekTokenIs(lexer.TOKEN_COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectCloseAngle() {
		return nil
	}
	return params
}

// parseParams 解析参数列表，curToken 为 (，结束时停在 )
func (p *Parser) parseParams() ([]*Param, bool) {
	var params []*Param
	if p.peekTokenIs(lexer.TOKEN_RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil, false
		}
		param := &Param{Token: p.curToken, Name: p.curToken.Literal}
		if !p.expectPeek(lexer.TOKEN_COLON) {
			return nil, false
		}
		p.nextToken()
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		param.Type = typ
		params = append(params, param)
		if !p.peekTokenIs(lexer.TOKEN_COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(lexer.TOKEN_RPAREN) {
		return nil, false
	}
	return params, true
}

// parseClassDecl 解析类声明
func (p *Parser) parseClassDecl() *ClassDecl {
	class := &ClassDecl{Token: p.curToken}

	if !p.expectPeek(lexer.TOKEN_IDENT) {
		return nil
	}
	class.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.TOKEN_LT) {
		p.nextToken()
		class.TypeParams = p.parseTypeParams()
		if class.TypeParams == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.TOKEN_EXTENDS) {
		p.nextToken()
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil
		}
		class.Extends = p.curToken.Literal
	}

	if !p.expectPeek(lexer.TOKEN_LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(lexer.TOKEN_RBRACE) && !p.curTokenIs(lexer.TOKEN_EOF) {
		ok := true
		switch p.curToken.Type {
		case lexer.TOKEN_FUNCTION, lexer.TOKEN_PROCEDURE:
			if m := p.parseFuncDecl(); m != nil {
				class.Methods = append(class.Methods, m)
			} else {
				ok = false
			}
		case lexer.TOKEN_VAR, lexer.TOKEN_IDENT:
			if f := p.parseClassField(); f != nil {
				class.Fields = append(class.Fields, f)
			} else {
				ok = false
			}
		case lexer.TOKEN_SEMICOLON:
		default:
			p.errorAt(p.curToken, i18n.T(i18n.ErrExpectedStatement, describe(p.curToken)))
			ok = false
		}
		if !ok {
			p.synchronize()
			if p.curTokenIs(lexer.TOKEN_RBRACE) {
				break
			}
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TOKEN_RBRACE) {
		p.errorAt(p.curToken, i18n.T(i18n.ErrExpectedToken, "'}'", describe(p.curToken)))
		return nil
	}
	return class
}

// parseClassField 解析字段 [var] name: type;
func (p *Parser) parseClassField() *ClassField {
	if p.curTokenIs(lexer.TOKEN_VAR) {
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil
		}
	}
	field := &ClassField{Token: p.curToken, Name: p.curToken.Literal}
	if !p.expectPeek(lexer.TOKEN_COLON) {
		return nil
	}
	p.nextToken()
	typ, ok := p.parseType()
	if !ok {
		return nil
	}
	field.Type = typ
	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}
	return field
}

// parseEnumDecl 解析 enum E { A, B = 5, C }
func (p *Parser) parseEnumDecl() *EnumDecl {
	enum := &EnumDecl{Token: p.curToken}

	if !p.expectPeek(lexer.TOKEN_IDENT) {
		return nil
	}
	enum.Name = p.curToken.Literal

	if !p.expectPeek(lexer.TOKEN_LBRACE) {
		return nil
	}

	var next int64
	for !p.peekTokenIs(lexer.TOKEN_RBRACE) {
		if !p.expectPeek(lexer.TOKEN_IDENT) {
			return nil
		}
		member := &EnumMember{Token: p.curToken, Name: p.curToken.Literal, Value: next}

		if p.peekTokenIs(lexer.TOKEN_ASSIGN) {
			p.nextToken()
			p.nextToken()
			negative := false
			if p.curTokenIs(lexer.TOKEN_MINUS) {
				negative = true
				p.nextToken()
			}
			v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
			if !p.curTokenIs(lexer.TOKEN_INT) || err != nil {
				p.errorAt(p.curToken, i18n.T(i18n.ErrInvalidEnumValue, member.Name))
				return nil
			}
			if negative {
				v = -v
			}
			member.Value = v
		}
		next = member.Value + 1
		enum.Members = append(enum.Members, member)

		if !p.peekTokenIs(lexer.TOKEN_COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(lexer.TOKEN_RBRACE) {
		return nil
	}
	return enum
}

// parseVarDecl 解析 var/const name[: type] [= expr][;]
func (p *Parser) parseVarDecl(requireSemicolon bool) *VarDecl {
	decl := &VarDecl{Token: p.curToken, Const: p.curTokenIs(lexer.TOKEN_CONST)}

	if !p.expectPeek(lexer.TOKEN_IDENT) {
		return nil
	}
	decl.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.TOKEN_COLON) {
		p.nextToken()
		p.nextToken()
		typ, ok := p.parseType()
		if !ok {
			return nil
		}
		decl.Type = typ
	}

	if p.peekTokenIs(lexer.TOKEN_ASSIGN) || p.peekTokenIs(lexer.TOKEN_LARROW) {
		p.nextToken()
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)
		if decl.Value == nil {
			return nil
		}
	}

	if requireSemicolon && !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}
	return decl
}

// ========== 语句 ==========

// parseBlockStmt 解析代码块，curToken 为 {，结束时停在 }
func (p *Parser) parseBlockStmt() *BlockStmt {
	block := &BlockStmt{Token: p.curToken}
	p.depth++
	defer func() { p.depth-- }()
	p.nextToken()

	for !p.curTokenIs(lexer.TOKEN_RBRACE) && !p.curTokenIs(lexer.TOKEN_EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
			if p.curTokenIs(lexer.TOKEN_RBRACE) {
				break
			}
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.TOKEN_RBRACE) {
		p.errorAt(p.curToken, i18n.T(i18n.ErrExpectedToken, "'}'", describe(p.curToken)))
		return nil
	}
	return block
}

// parseBody 期望下一个 token 为 { 并解析代码块
func (p *Parser) parseBody() *BlockStmt {
	if !p.expectPeek(lexer.TOKEN_LBRACE) {
		return nil
	}
	return p.parseBlockStmt()
}

// parseCondition 解析条件表达式，括号可选
func (p *Parser) parseCondition() Expression {
	p.nextToken()
	return p.parseExpression(LOWEST)
}

// parseIfStmt 解析 if / elif / else if / else
func (p *Parser) parseIfStmt() *IfStmt {
	stmt := &IfStmt{Token: p.curToken}

	stmt.Condition = p.parseCondition()
	if stmt.Condition == nil {
		return nil
	}
	stmt.Consequence = p.parseBody()
	if stmt.Consequence == nil {
		return nil
	}

	for {
		switch {
		case p.peekTokenIs(lexer.TOKEN_ELIF),
			p.peekTokenIs(lexer.TOKEN_ELSE) && p.peek(1).Type == lexer.TOKEN_IF:
			p.nextToken()
			clause := &ElifClause{Token: p.curToken}
			if p.curTokenIs(lexer.TOKEN_ELSE) {
				p.nextToken()
			}
			clause.Condition = p.parseCondition()
			if clause.Condition == nil {
				return nil
			}
			clause.Consequence = p.parseBody()
			if clause.Consequence == nil {
				return nil
			}
			stmt.Elifs = append(stmt.Elifs, clause)
		case p.peekTokenIs(lexer.TOKEN_ELSE):
			p.nextToken()
			stmt.Alternative = p.parseBody()
			if stmt.Alternative == nil {
				return nil
			}
			return stmt
		default:
			return stmt
		}
	}
}

// parseWhileStmt 解析 while 循环
func (p *Parser) parseWhileStmt() *WhileStmt {
	stmt := &WhileStmt{Token: p.curToken}
	stmt.Condition = p.parseCondition()
	if stmt.Condition == nil {
		return nil
	}
	stmt.Body = p.parseBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseLoopStmt 解析 loop { }
func (p *Parser) parseLoopStmt() *LoopStmt {
	stmt := &LoopStmt{Token: p.curToken}
	stmt.Body = p.parseBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStmt 解析 for (init; cond; post) 与 for (x in expr)
func (p *Parser) parseForStmt() Statement {
	token := p.curToken
	parens := p.peekTokenIs(lexer.TOKEN_LPAREN)
	if parens {
		p.nextToken()
	}

	if p.peekTokenIs(lexer.TOKEN_IDENT) && p.peek(1).Type == lexer.TOKEN_IN {
		p.nextToken()
		stmt := &ForInStmt{Token: token, Var: p.curToken.Literal, VarToken: p.curToken}
		p.nextToken() // in
		p.nextToken()
		stmt.Iterable = p.parseExpression(LOWEST)
		if stmt.Iterable == nil {
			return nil
		}
		if parens && !p.expectPeek(lexer.TOKEN_RPAREN) {
			return nil
		}
		stmt.Body = p.parseBody()
		if stmt.Body == nil {
			return nil
		}
		return stmt
	}

	if !parens {
		p.peekError(lexer.TOKEN_LPAREN)
		return nil
	}

	stmt := &ForStmt{Token: token}

	// init
	p.nextToken()
	if !p.curTokenIs(lexer.TOKEN_SEMICOLON) {
		if p.curTokenIs(lexer.TOKEN_VAR) {
			decl := p.parseVarDecl(false)
			if decl == nil {
				return nil
			}
			stmt.Init = decl
		} else {
			init := p.parseSimpleStmt(false)
			if init == nil {
				return nil
			}
			stmt.Init = init
		}
		if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
			return nil
		}
	}

	// condition
	if !p.peekTokenIs(lexer.TOKEN_SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
	}
	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}

	// post
	if !p.peekTokenIs(lexer.TOKEN_RPAREN) {
		p.nextToken()
		post := p.parseSimpleStmt(false)
		if post == nil {
			return nil
		}
		stmt.Post = post
	}
	if !p.expectPeek(lexer.TOKEN_RPAREN) {
		return nil
	}

	stmt.Body = p.parseBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseReturnStmt 解析 return 语句
func (p *Parser) parseReturnStmt() *ReturnStmt {
	stmt := &ReturnStmt{Token: p.curToken}
	if p.peekTokenIs(lexer.TOKEN_SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}
	return stmt
}

// parsePrintStmt 解析 print(a, b, ...);
func (p *Parser) parsePrintStmt() *PrintStmt {
	stmt := &PrintStmt{Token: p.curToken}
	if !p.expectPeek(lexer.TOKEN_LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(lexer.TOKEN_RPAREN)
	if !ok {
		return nil
	}
	stmt.Args = args
	if !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}
	return stmt
}

// 复合赋值运算符到二元运算符
var compoundOps = map[lexer.TokenType]lexer.TokenType{
	lexer.TOKEN_PLUS_ASSIGN:     lexer.TOKEN_PLUS,
	lexer.TOKEN_MINUS_ASSIGN:    lexer.TOKEN_MINUS,
	lexer.TOKEN_ASTERISK_ASSIGN: lexer.TOKEN_ASTERISK,
	lexer.TOKEN_SLASH_ASSIGN:    lexer.TOKEN_SLASH,
	lexer.TOKEN_PERCENT_ASSIGN:  lexer.TOKEN_PERCENT,
	lexer.TOKEN_SHL_ASSIGN:      lexer.TOKEN_SHL,
	lexer.TOKEN_SHR_ASSIGN:      lexer.TOKEN_SHR,
}

// isAssignable 赋值目标只能是名字、字段访问或下标访问
func isAssignable(e Expression) bool {
	switch e.(type) {
	case *Identifier, *FieldAccess, *IndexExpr:
		return true
	}
	return false
}

// parseSimpleStmt 解析表达式语句或赋值语句
func (p *Parser) parseSimpleStmt(requireSemicolon bool) Statement {
	token := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	var stmt Statement
	next := p.peek(0)
	op, compound := compoundOps[next.Type]
	switch {
	case next.Type == lexer.TOKEN_ASSIGN || next.Type == lexer.TOKEN_LARROW || compound:
		p.nextToken()
		assignTok := p.curToken
		if !isAssignable(expr) {
			p.errorAt(assignTok, i18n.T(i18n.ErrInvalidAssignTarget))
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if compound {
			opTok := assignTok
			opTok.Type = op
			opTok.Literal = lexer.TokenTypeName(op)
			value = &BinaryExpr{
				Token:    opTok,
				Left:     cloneExpr(expr),
				Operator: opTok.Literal,
				Right:    value,
			}
		}
		stmt = &AssignStmt{Token: assignTok, Target: expr, Value: value}
	default:
		stmt = &ExpressionStmt{Token: token, Expression: expr}
	}

	if requireSemicolon && !p.expectPeek(lexer.TOKEN_SEMICOLON) {
		return nil
	}
	return stmt
}
