package parser

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/types"
)

// 运算符优先级
const (
	_ int = iota
	LOWEST
	RANGE   // ..
	OR      // || or
	AND     // && and
	EQUALS  // == != < > <= >=
	SHIFT   // << >>
	SUM     // + - | ^
	PRODUCT // * / % &
	POWER   // **
	PREFIX  // -X !X ~X +X
	CALL    // f(X) a[i] a.b x++
)

var precedences = map[lexer.TokenType]int{
	lexer.TOKEN_RANGE:    RANGE,
	lexer.TOKEN_OR:       OR,
	lexer.TOKEN_AND:      AND,
	lexer.TOKEN_EQ:       EQUALS,
	lexer.TOKEN_NOT_EQ:   EQUALS,
	lexer.TOKEN_LT:       EQUALS,
	lexer.TOKEN_GT:       EQUALS,
	lexer.TOKEN_LT_EQ:    EQUALS,
	lexer.TOKEN_GT_EQ:    EQUALS,
	lexer.TOKEN_SHL:      SHIFT,
	lexer.TOKEN_SHR:      SHIFT,
	lexer.TOKEN_PLUS:     SUM,
	lexer.TOKEN_MINUS:    SUM,
	lexer.TOKEN_BIT_OR:   SUM,
	lexer.TOKEN_BIT_XOR:  SUM,
	lexer.TOKEN_ASTERISK: PRODUCT,
	lexer.TOKEN_SLASH:    PRODUCT,
	lexer.TOKEN_PERCENT:  PRODUCT,
	lexer.TOKEN_BIT_AND:  PRODUCT,
	lexer.TOKEN_POWER:    POWER,
	lexer.TOKEN_LPAREN:   CALL,
	lexer.TOKEN_LBRACKET: CALL,
	lexer.TOKEN_DOT:      CALL,
	lexer.TOKEN_INC:      CALL,
	lexer.TOKEN_DEC:      CALL,
}

// 泛型实参前瞻的最大 token 数
const maxGenericLookahead = 32

// peekPrecedence 获取下一个 token 的优先级
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peek(0).Type]; ok {
		return p
	}
	return LOWEST
}

// parseExpression 解析表达式，结束时 curToken 停在表达式的最后一个 token 上
func (p *Parser) parseExpression(precedence int) Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		switch p.peek(0).Type {
		case lexer.TOKEN_LPAREN:
			p.nextToken()
			left = p.parseCallExpression(left, nil)
		case lexer.TOKEN_LBRACKET:
			p.nextToken()
			left = p.parseIndexExpression(left)
		case lexer.TOKEN_DOT:
			p.nextToken()
			left = p.parseFieldAccess(left)
		case lexer.TOKEN_INC, lexer.TOKEN_DEC:
			p.nextToken()
			left = p.parsePostfixExpression(left)
		case lexer.TOKEN_RANGE:
			p.nextToken()
			left = p.parseRangeExpression(left)
		default:
			p.nextToken()
			left = p.parseInfixExpression(left)
		}
		if left == nil {
			return nil
		}
	}

	return left
}

// parsePrimary 解析基本表达式与前缀表达式
func (p *Parser) parsePrimary() Expression {
	tok := p.curToken
	switch tok.Type {
	case lexer.TOKEN_IDENT:
		ident := &Identifier{Token: tok, Value: tok.Literal}
		if p.peekTokenIs(lexer.TOKEN_LT) && p.isGenericCall() {
			p.nextToken()
			typeArgs := p.parseTypeArgs()
			if typeArgs == nil || !p.expectPeek(lexer.TOKEN_LPAREN) {
				return nil
			}
			return p.parseCallExpression(ident, typeArgs)
		}
		return ident
	case lexer.TOKEN_INT:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorAt(tok, i18n.T(i18n.ErrExpectedExpression, describe(tok)))
			return nil
		}
		return &IntegerLiteral{Token: tok, Value: v}
	case lexer.TOKEN_FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorAt(tok, i18n.T(i18n.ErrExpectedExpression, describe(tok)))
			return nil
		}
		return &FloatLiteral{Token: tok, Value: v}
	case lexer.TOKEN_STRING:
		return &StringLiteral{Token: tok, Value: unquote(tok.Literal)}
	case lexer.TOKEN_CHAR:
		return &CharLiteral{Token: tok, Value: unquote(tok.Literal)}
	case lexer.TOKEN_DNA, lexer.TOKEN_RNA, lexer.TOKEN_PROT:
		quote := strings.IndexByte(tok.Literal, '"')
		return &BioLiteral{Token: tok, Kind: tok.Literal[:quote], Value: unquote(tok.Literal[quote:])}
	case lexer.TOKEN_TRUE:
		return &BooleanLiteral{Token: tok, Value: true}
	case lexer.TOKEN_FALSE:
		return &BooleanLiteral{Token: tok, Value: false}
	case lexer.TOKEN_NULL:
		return &NullLiteral{Token: tok}
	case lexer.TOKEN_LPAREN:
		return p.parseGroupedExpression()
	case lexer.TOKEN_LBRACKET:
		elems, ok := p.parseExpressionList(lexer.TOKEN_RBRACKET)
		if !ok {
			return nil
		}
		return &ArrayLiteral{Token: tok, Elements: elems}
	case lexer.TOKEN_NEW:
		return p.parseNewExpression()
	case lexer.TOKEN_MINUS, lexer.TOKEN_PLUS, lexer.TOKEN_NOT, lexer.TOKEN_BIT_NOT:
		return p.parsePrefixExpression()
	case lexer.TOKEN_EOF:
		p.errorAt(tok, i18n.T(i18n.ErrUnexpectedEOF))
		return nil
	default:
		p.errorAt(tok, i18n.T(i18n.ErrExpectedExpression, describe(tok)))
		return nil
	}
}

// unquote 去掉首尾引号，转义序列保持原样
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	return lit[1 : len(lit)-1]
}

// parseGroupedExpression 解析括号表达式；多于一个元素时为元组
func (p *Parser) parseGroupedExpression() Expression {
	token := p.curToken
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.peekTokenIs(lexer.TOKEN_COMMA) {
		if !p.expectPeek(lexer.TOKEN_RPAREN) {
			return nil
		}
		return expr
	}

	tuple := &TupleLiteral{Token: token, Elements: []Expression{expr}}
	for p.peekTokenIs(lexer.TOKEN_COMMA) {
		p.nextToken()
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		tuple.Elements = append(tuple.Elements, elem)
	}
	if !p.expectPeek(lexer.TOKEN_RPAREN) {
		return nil
	}
	return tuple
}

// parsePrefixExpression 解析前缀表达式
func (p *Parser) parsePrefixExpression() Expression {
	expr := &UnaryExpr{
		Token:    p.curToken,
		Operator: lexer.TokenTypeName(p.curToken.Type),
	}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	if expr.Operand == nil {
		return nil
	}
	return expr
}

// parseInfixExpression 解析中缀表达式；** 为右结合
func (p *Parser) parseInfixExpression(left Expression) Expression {
	expr := &BinaryExpr{
		Token:    p.curToken,
		Left:     left,
		Operator: lexer.TokenTypeName(p.curToken.Type),
	}
	precedence := precedences[p.curToken.Type]
	if p.curTokenIs(lexer.TOKEN_POWER) {
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// isSimpleOperand 范围两端是否为字面量或名字
func isSimpleOperand(e Expression) bool {
	switch v := e.(type) {
	case *IntegerLiteral, *FloatLiteral, *CharLiteral, *Identifier:
		return true
	case *UnaryExpr:
		_, ok := v.Operand.(*IntegerLiteral)
		return ok && v.Operator == "-"
	}
	return false
}

// parseRangeExpression 解析 a..b（右结合）
func (p *Parser) parseRangeExpression(left Expression) Expression {
	token := p.curToken
	p.nextToken()
	right := p.parseExpression(RANGE - 1)
	if right == nil {
		return nil
	}
	if isSimpleOperand(left) && isSimpleOperand(right) {
		return &RangeExpr{Token: token, Start: left, End: right}
	}
	return &BinaryExpr{Token: token, Left: left, Operator: "..", Right: right}
}

// parsePostfixExpression 解析 x++ / x--
func (p *Parser) parsePostfixExpression(operand Expression) Expression {
	if !isAssignable(operand) {
		p.errorAt(p.curToken, i18n.T(i18n.ErrInvalidAssignTarget))
		return nil
	}
	return &PostfixExpr{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Operand:  operand,
	}
}

// parseCallExpression 解析函数调用，curToken 为 (
func (p *Parser) parseCallExpression(function Expression, typeArgs []string) Expression {
	expr := &CallExpr{Token: p.curToken, Function: function, TypeArgs: typeArgs}
	args, ok := p.parseExpressionList(lexer.TOKEN_RPAREN)
	if !ok {
		return nil
	}
	expr.Arguments = args
	return expr
}

// parseExpressionList 解析逗号分隔的表达式列表，curToken 为左括号，结束时停在 end 上
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]Expression, bool) {
	var list []Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekTokenIs(lexer.TOKEN_COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

// parseIndexExpression 解析 a[i]，i 可以是范围（切片）
func (p *Parser) parseIndexExpression(left Expression) Expression {
	expr := &IndexExpr{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(lexer.TOKEN_RBRACKET) {
		return nil
	}
	return expr
}

// parseFieldAccess 解析 obj.field，以及带类型实参的方法调用 obj.m<T>(...)
func (p *Parser) parseFieldAccess(left Expression) Expression {
	expr := &FieldAccess{Token: p.curToken, Object: left}
	if !p.expectPeek(lexer.TOKEN_IDENT) {
		return nil
	}
	expr.Field = p.curToken.Literal
	if p.peekTokenIs(lexer.TOKEN_LT) && p.isGenericCall() {
		p.nextToken()
		typeArgs := p.parseTypeArgs()
		if typeArgs == nil || !p.expectPeek(lexer.TOKEN_LPAREN) {
			return nil
		}
		return p.parseCallExpression(expr, typeArgs)
	}
	return expr
}

// isGenericCall 在不消费 token 的前提下判断 name< 是否开始一个泛型实参列表：
// 必须是一串类型形状的 token，以 > 结束且紧跟 (
func (p *Parser) isGenericCall() bool {
	depth := 0
	for i := 0; i < maxGenericLookahead; i++ {
		tok := p.peek(i)
		switch tok.Type {
		case lexer.TOKEN_LT:
			depth++
		case lexer.TOKEN_GT:
			depth--
			if depth == 0 {
				return p.peek(i+1).Type == lexer.TOKEN_LPAREN
			}
		case lexer.TOKEN_SHR:
			depth -= 2
			if depth <= 0 {
				return depth == 0 && p.peek(i+1).Type == lexer.TOKEN_LPAREN
			}
		case lexer.TOKEN_IDENT, lexer.TOKEN_COMMA, lexer.TOKEN_MAP,
			lexer.TOKEN_LBRACKET, lexer.TOKEN_RBRACKET:
		default:
			return false
		}
	}
	return false
}

// parseTypeArgs 解析 <T, U>，curToken 为 <，结束时停在 >
func (p *Parser) parseTypeArgs() []string {
	var args []string
	for {
		p.nextToken()
		typ, ok := p.parseType()
		if !ok {
			return nil
		}
		args = append(args, typ)
		if !p.peekTokenIs(lexer.TOKEN_COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectCloseAngle() {
		return nil
	}
	return args
}

// expectCloseAngle 期望 >；遇到 >> 时拆成两个 >，第二个放回流中
func (p *Parser) expectCloseAngle() bool {
	switch p.peek(0).Type {
	case lexer.TOKEN_GT:
		p.nextToken()
		return true
	case lexer.TOKEN_SHR:
		p.nextToken()
		shr := p.curToken
		p.curToken.Type = lexer.TOKEN_GT
		p.curToken.Literal = ">"
		p.curToken.End = shr.Start + 1
		p.s.PushBack(lexer.Token{
			Type:    lexer.TOKEN_GT,
			Literal: ">",
			Line:    shr.Line,
			Column:  shr.Column + 1,
			Start:   shr.Start + 1,
			End:     shr.End,
		})
		return true
	}
	p.peekError(lexer.TOKEN_GT)
	return false
}

// parseType 解析类型并规范化为字符串，curToken 为类型的第一个 token
//
//	int          -> "int"
//	Box<int>     -> "Box<int>"
//	int[]        -> "Array<int>"
//	map[K, V]    -> "Map<K,V>"
func (p *Parser) parseType() (string, bool) {
	var typ string
	switch p.curToken.Type {
	case lexer.TOKEN_MAP:
		if !p.expectPeek(lexer.TOKEN_LBRACKET) {
			return "", false
		}
		key, value, ok := p.parseMapTypeArgs()
		if !ok {
			return "", false
		}
		typ = types.MapOf(key, value)
	case lexer.TOKEN_IDENT:
		typ = p.curToken.Literal
		if p.peekTokenIs(lexer.TOKEN_LT) {
			p.nextToken()
			args := p.parseTypeArgs()
			if args == nil {
				return "", false
			}
			typ = types.Generic(typ, args...)
		}
	default:
		p.errorAt(p.curToken, i18n.T(i18n.ErrExpectedType, describe(p.curToken)))
		return "", false
	}

	for p.peekTokenIs(lexer.TOKEN_LBRACKET) && p.peek(1).Type == lexer.TOKEN_RBRACKET {
		p.nextToken()
		p.nextToken()
		typ = types.ArrayOf(typ)
	}
	return typ, true
}

// parseMapTypeArgs 解析 [K, V]，curToken 为 [，结束时停在 ]
func (p *Parser) parseMapTypeArgs() (string, string, bool) {
	p.nextToken()
	key, ok := p.parseType()
	if !ok || !p.expectPeek(lexer.TOKEN_COMMA) {
		return "", "", false
	}
	p.nextToken()
	value, ok := p.parseType()
	if !ok || !p.expectPeek(lexer.TOKEN_RBRACKET) {
		return "", "", false
	}
	return key, value, true
}

// parseNewExpression 解析 new 表达式：
//
//	new C(args) / new Box<int>(args)  对象
//	new T[n]                          一维数组
//	new T[r][c]                       二维数组
//	new map[K, V](cap)                映射
func (p *Parser) parseNewExpression() Expression {
	token := p.curToken
	p.nextToken()

	if p.curTokenIs(lexer.TOKEN_MAP) {
		if !p.expectPeek(lexer.TOKEN_LBRACKET) {
			return nil
		}
		key, value, ok := p.parseMapTypeArgs()
		if !ok || !p.expectPeek(lexer.TOKEN_LPAREN) {
			return nil
		}
		p.nextToken()
		capacity := p.parseExpression(LOWEST)
		if capacity == nil || !p.expectPeek(lexer.TOKEN_RPAREN) {
			return nil
		}
		return &NewMap{Token: token, KeyType: key, ValueType: value, Capacity: capacity}
	}

	if !p.curTokenIs(lexer.TOKEN_IDENT) {
		p.errorAt(p.curToken, i18n.T(i18n.ErrExpectedType, describe(p.curToken)))
		return nil
	}
	name := p.curToken.Literal

	var typeArgs []string
	if p.peekTokenIs(lexer.TOKEN_LT) {
		p.nextToken()
		typeArgs = p.parseTypeArgs()
		if typeArgs == nil {
			return nil
		}
	}

	switch p.peek(0).Type {
	case lexer.TOKEN_LPAREN:
		p.nextToken()
		args, ok := p.parseExpressionList(lexer.TOKEN_RPAREN)
		if !ok {
			return nil
		}
		return &NewObject{Token: token, Class: name, TypeArgs: typeArgs, Arguments: args}
	case lexer.TOKEN_LBRACKET:
		p.nextToken()
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if size == nil || !p.expectPeek(lexer.TOKEN_RBRACKET) {
			return nil
		}
		elem := types.Generic(name, typeArgs...)
		if p.peekTokenIs(lexer.TOKEN_LBRACKET) {
			p.nextToken()
			p.nextToken()
			cols := p.parseExpression(LOWEST)
			if cols == nil || !p.expectPeek(lexer.TOKEN_RBRACKET) {
				return nil
			}
			return &NewArray2D{Token: token, ElemType: elem, Rows: size, Cols: cols}
		}
		return &NewArray{Token: token, ElemType: elem, Size: size}
	}

	p.errorAt(p.peek(0), i18n.T(i18n.ErrInvalidNew, name))
	return nil
}

// cloneExpr 深拷贝表达式，保证复合赋值展开后节点不被共享
func cloneExpr(e Expression) Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *Identifier:
		c := *v
		return &c
	case *IntegerLiteral:
		c := *v
		return &c
	case *FloatLiteral:
		c := *v
		return &c
	case *StringLiteral:
		c := *v
		return &c
	case *CharLiteral:
		c := *v
		return &c
	case *BioLiteral:
		c := *v
		return &c
	case *BooleanLiteral:
		c := *v
		return &c
	case *NullLiteral:
		c := *v
		return &c
	case *BinaryExpr:
		c := *v
		c.Left, c.Right = cloneExpr(v.Left), cloneExpr(v.Right)
		return &c
	case *UnaryExpr:
		c := *v
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *PostfixExpr:
		c := *v
		c.Operand = cloneExpr(v.Operand)
		return &c
	case *CallExpr:
		c := *v
		c.Function = cloneExpr(v.Function)
		c.TypeArgs = append([]string(nil), v.TypeArgs...)
		c.Arguments = cloneList(v.Arguments)
		return &c
	case *FieldAccess:
		c := *v
		c.Object = cloneExpr(v.Object)
		return &c
	case *IndexExpr:
		c := *v
		c.Left, c.Index = cloneExpr(v.Left), cloneExpr(v.Index)
		return &c
	case *RangeExpr:
		c := *v
		c.Start, c.End = cloneExpr(v.Start), cloneExpr(v.End)
		return &c
	case *TupleLiteral:
		c := *v
		c.Elements = cloneList(v.Elements)
		return &c
	case *ArrayLiteral:
		c := *v
		c.Elements = cloneList(v.Elements)
		return &c
	case *NewObject:
		c := *v
		c.TypeArgs = append([]string(nil), v.TypeArgs...)
		c.Arguments = cloneList(v.Arguments)
		return &c
	case *NewArray:
		c := *v
		c.Size = cloneExpr(v.Size)
		return &c
	case *NewArray2D:
		c := *v
		c.Rows, c.Cols = cloneExpr(v.Rows), cloneExpr(v.Cols)
		return &c
	case *NewMap:
		c := *v
		c.Capacity = cloneExpr(v.Capacity)
		return &c
	}
	return e
}

func cloneList(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = cloneExpr(e)
	}
	return out
}
