package parser

import (
	"github.com/tangzhangming/codon/internal/lexer"
)

// Node AST 节点接口
type Node interface {
	TokenLiteral() string
	StartToken() lexer.Token // 诊断定位用
}

// Statement 语句接口
type Statement interface {
	Node
	statementNode()
}

// Expression 表达式接口
type Expression interface {
	Node
	expressionNode()
}

// Program 表示整个源文件
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string { return "program" }
func (p *Program) StartToken() lexer.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].StartToken()
	}
	return lexer.Token{Line: 1, Column: 1}
}

// ========== 声明 ==========

// Param 函数参数
type Param struct {
	Token lexer.Token // 参数名 token
	Name  string
	Type  string // 规范化的类型字符串
}

// FuncDecl 函数或过程声明
type FuncDecl struct {
	Token       lexer.Token // function / procedure token
	Name        string
	TypeParams  []string // 泛型类型参数（可选）
	Params      []*Param
	ReturnType  string // 过程为 "void"
	IsProcedure bool
	Body        *BlockStmt
}

func (f *FuncDecl) TokenLiteral() string    { return f.Token.Literal }
func (f *FuncDecl) StartToken() lexer.Token { return f.Token }
func (f *FuncDecl) statementNode()          {}

// IsGeneric 是否为泛型模板
func (f *FuncDecl) IsGeneric() bool { return len(f.TypeParams) > 0 }

// ClassField 类字段
type ClassField struct {
	Token lexer.Token
	Name  string
	Type  string
}

// ClassDecl 类声明
type ClassDecl struct {
	Token      lexer.Token // class token
	Name       string
	TypeParams []string
	Extends    string // 仅解析，不参与布局
	Fields     []*ClassField
	Methods    []*FuncDecl
}

func (c *ClassDecl) TokenLiteral() string    { return c.Token.Literal }
func (c *ClassDecl) StartToken() lexer.Token { return c.Token }
func (c *ClassDecl) statementNode()          {}

// IsGeneric 是否为泛型模板
func (c *ClassDecl) IsGeneric() bool { return len(c.TypeParams) > 0 }

// EnumMember 枚举成员
type EnumMember struct {
	Token lexer.Token
	Name  string
	Value int64
}

// EnumDecl 枚举声明
type EnumDecl struct {
	Token   lexer.Token
	Name    string
	Members []*EnumMember
}

func (e *EnumDecl) TokenLiteral() string    { return e.Token.Literal }
func (e *EnumDecl) StartToken() lexer.Token { return e.Token }
func (e *EnumDecl) statementNode()          {}

// VarDecl var / const 声明
type VarDecl struct {
	Token lexer.Token
	Name  string
	Type  string     // 可选
	Value Expression // 可选
	Const bool
}

func (v *VarDecl) TokenLiteral() string    { return v.Token.Literal }
func (v *VarDecl) StartToken() lexer.Token { return v.Token }
func (v *VarDecl) statementNode()          {}

// ========== 语句 ==========

// BlockStmt 代码块
type BlockStmt struct {
	Token      lexer.Token // {
	Statements []Statement
}

func (b *BlockStmt) TokenLiteral() string    { return b.Token.Literal }
func (b *BlockStmt) StartToken() lexer.Token { return b.Token }
func (b *BlockStmt) statementNode()          {}

// ElifClause elif 分支
type ElifClause struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStmt
}

// IfStmt if 语句；else if 折叠为额外的 elif
type IfStmt struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStmt
	Elifs       []*ElifClause
	Alternative *BlockStmt // 可选
}

func (i *IfStmt) TokenLiteral() string    { return i.Token.Literal }
func (i *IfStmt) StartToken() lexer.Token { return i.Token }
func (i *IfStmt) statementNode()          {}

// WhileStmt while 循环
type WhileStmt struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStmt
}

func (w *WhileStmt) TokenLiteral() string    { return w.Token.Literal }
func (w *WhileStmt) StartToken() lexer.Token { return w.Token }
func (w *WhileStmt) statementNode()          {}

// LoopStmt 无限循环
type LoopStmt struct {
	Token lexer.Token
	Body  *BlockStmt
}

func (l *LoopStmt) TokenLiteral() string    { return l.Token.Literal }
func (l *LoopStmt) StartToken() lexer.Token { return l.Token }
func (l *LoopStmt) statementNode()          {}

// ForStmt 三段式 for
type ForStmt struct {
	Token     lexer.Token
	Init      Statement  // 可选
	Condition Expression // 可选
	Post      Statement  // 可选
	Body      *BlockStmt
}

func (f *ForStmt) TokenLiteral() string    { return f.Token.Literal }
func (f *ForStmt) StartToken() lexer.Token { return f.Token }
func (f *ForStmt) statementNode()          {}

// ForInStmt for (x in expr)
type ForInStmt struct {
	Token    lexer.Token
	Var      string
	VarToken lexer.Token
	Iterable Expression
	Body     *BlockStmt
}

func (f *ForInStmt) TokenLiteral() string    { return f.Token.Literal }
func (f *ForInStmt) StartToken() lexer.Token { return f.Token }
func (f *ForInStmt) statementNode()          {}

// BreakStmt break
type BreakStmt struct {
	Token lexer.Token
}

func (b *BreakStmt) TokenLiteral() string    { return b.Token.Literal }
func (b *BreakStmt) StartToken() lexer.Token { return b.Token }
func (b *BreakStmt) statementNode()          {}

// ContinueStmt continue
type ContinueStmt struct {
	Token lexer.Token
}

func (c *ContinueStmt) TokenLiteral() string    { return c.Token.Literal }
func (c *ContinueStmt) StartToken() lexer.Token { return c.Token }
func (c *ContinueStmt) statementNode()          {}

// ReturnStmt return
type ReturnStmt struct {
	Token lexer.Token
	Value Expression // 可选
}

func (r *ReturnStmt) TokenLiteral() string    { return r.Token.Literal }
func (r *ReturnStmt) StartToken() lexer.Token { return r.Token }
func (r *ReturnStmt) statementNode()          {}

// PrintStmt print(a, b, ...)
type PrintStmt struct {
	Token lexer.Token
	Args  []Expression
}

func (p *PrintStmt) TokenLiteral() string    { return p.Token.Literal }
func (p *PrintStmt) StartToken() lexer.Token { return p.Token }
func (p *PrintStmt) statementNode()          {}

// ExpressionStmt 表达式语句
type ExpressionStmt struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStmt) TokenLiteral() string    { return e.Token.Literal }
func (e *ExpressionStmt) StartToken() lexer.Token { return e.Token }
func (e *ExpressionStmt) statementNode()          {}

// AssignStmt 赋值；复合赋值在解析时已展开为 target = target OP value
type AssignStmt struct {
	Token  lexer.Token // 赋值运算符 token
	Target Expression  // Identifier / FieldAccess / IndexExpr
	Value  Expression
}

func (a *AssignStmt) TokenLiteral() string    { return a.Token.Literal }
func (a *AssignStmt) StartToken() lexer.Token { return a.Target.StartToken() }
func (a *AssignStmt) statementNode()          {}

// ========== 表达式 ==========

// Identifier 标识符
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) TokenLiteral() string    { return i.Token.Literal }
func (i *Identifier) StartToken() lexer.Token { return i.Token }
func (i *Identifier) expressionNode()         {}

// IntegerLiteral 整数字面量
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (i *IntegerLiteral) TokenLiteral() string    { return i.Token.Literal }
func (i *IntegerLiteral) StartToken() lexer.Token { return i.Token }
func (i *IntegerLiteral) expressionNode()         {}

// FloatLiteral 浮点数字面量
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (f *FloatLiteral) TokenLiteral() string    { return f.Token.Literal }
func (f *FloatLiteral) StartToken() lexer.Token { return f.Token }
func (f *FloatLiteral) expressionNode()         {}

// StringLiteral 字符串字面量，Value 为去掉引号、未处理转义的原文
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) TokenLiteral() string    { return s.Token.Literal }
func (s *StringLiteral) StartToken() lexer.Token { return s.Token }
func (s *StringLiteral) expressionNode()         {}

// CharLiteral 字符字面量，Value 为去掉引号后的原文
type CharLiteral struct {
	Token lexer.Token
	Value string
}

func (c *CharLiteral) TokenLiteral() string    { return c.Token.Literal }
func (c *CharLiteral) StartToken() lexer.Token { return c.Token }
func (c *CharLiteral) expressionNode()         {}

// BioLiteral dna"..." / rna"..." / prot"..."
type BioLiteral struct {
	Token lexer.Token
	Kind  string // "dna" / "rna" / "prot"
	Value string
}

func (b *BioLiteral) TokenLiteral() string    { return b.Token.Literal }
func (b *BioLiteral) StartToken() lexer.Token { return b.Token }
func (b *BioLiteral) expressionNode()         {}

// BooleanLiteral 布尔字面量
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) TokenLiteral() string    { return b.Token.Literal }
func (b *BooleanLiteral) StartToken() lexer.Token { return b.Token }
func (b *BooleanLiteral) expressionNode()         {}

// NullLiteral null
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) TokenLiteral() string    { return n.Token.Literal }
func (n *NullLiteral) StartToken() lexer.Token { return n.Token }
func (n *NullLiteral) expressionNode()         {}

// BinaryExpr 二元表达式
type BinaryExpr struct {
	Token    lexer.Token // 运算符 token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) TokenLiteral() string    { return b.Token.Literal }
func (b *BinaryExpr) StartToken() lexer.Token { return b.Left.StartToken() }
func (b *BinaryExpr) expressionNode()         {}

// UnaryExpr 前缀一元表达式
type UnaryExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpr) TokenLiteral() string    { return u.Token.Literal }
func (u *UnaryExpr) StartToken() lexer.Token { return u.Token }
func (u *UnaryExpr) expressionNode()         {}

// PostfixExpr x++ / x--，值为自增前的旧值
type PostfixExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (p *PostfixExpr) TokenLiteral() string    { return p.Token.Literal }
func (p *PostfixExpr) StartToken() lexer.Token { return p.Operand.StartToken() }
func (p *PostfixExpr) expressionNode()         {}

// CallExpr 函数调用
type CallExpr struct {
	Token     lexer.Token // (
	Function  Expression  // Identifier 或 FieldAccess（方法调用）
	TypeArgs  []string    // 显式泛型实参（可选）
	Arguments []Expression
}

func (c *CallExpr) TokenLiteral() string    { return c.Token.Literal }
func (c *CallExpr) StartToken() lexer.Token { return c.Function.StartToken() }
func (c *CallExpr) expressionNode()         {}

// FieldAccess obj.field
type FieldAccess struct {
	Token  lexer.Token // .
	Object Expression
	Field  string
}

func (f *FieldAccess) TokenLiteral() string    { return f.Token.Literal }
func (f *FieldAccess) StartToken() lexer.Token { return f.Object.StartToken() }
func (f *FieldAccess) expressionNode()         {}

// IndexExpr a[i]；Index 为 RangeExpr 时表示切片
type IndexExpr struct {
	Token lexer.Token // [
	Left  Expression
	Index Expression
}

func (i *IndexExpr) TokenLiteral() string    { return i.Token.Literal }
func (i *IndexExpr) StartToken() lexer.Token { return i.Left.StartToken() }
func (i *IndexExpr) expressionNode()         {}

// RangeExpr start..end（两端都是字面量或名字时才生成）
type RangeExpr struct {
	Token lexer.Token
	Start Expression
	End   Expression
}

func (r *RangeExpr) TokenLiteral() string    { return r.Token.Literal }
func (r *RangeExpr) StartToken() lexer.Token { return r.Start.StartToken() }
func (r *RangeExpr) expressionNode()         {}

// TupleLiteral (a, b, ...)
type TupleLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (t *TupleLiteral) TokenLiteral() string    { return t.Token.Literal }
func (t *TupleLiteral) StartToken() lexer.Token { return t.Token }
func (t *TupleLiteral) expressionNode()         {}

// ArrayLiteral [a, b, ...]
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (a *ArrayLiteral) TokenLiteral() string    { return a.Token.Literal }
func (a *ArrayLiteral) StartToken() lexer.Token { return a.Token }
func (a *ArrayLiteral) expressionNode()         {}

// NewObject new C(args) / new Box<int>(args)
type NewObject struct {
	Token     lexer.Token
	Class     string
	TypeArgs  []string
	Arguments []Expression
}

func (n *NewObject) TokenLiteral() string    { return n.Token.Literal }
func (n *NewObject) StartToken() lexer.Token { return n.Token }
func (n *NewObject) expressionNode()         {}

// NewArray new T[size]
type NewArray struct {
	Token    lexer.Token
	ElemType string
	Size     Expression
}

func (n *NewArray) TokenLiteral() string    { return n.Token.Literal }
func (n *NewArray) StartToken() lexer.Token { return n.Token }
func (n *NewArray) expressionNode()         {}

// NewArray2D new T[rows][cols]
type NewArray2D struct {
	Token    lexer.Token
	ElemType string
	Rows     Expression
	Cols     Expression
}

func (n *NewArray2D) TokenLiteral() string    { return n.Token.Literal }
func (n *NewArray2D) StartToken() lexer.Token { return n.Token }
func (n *NewArray2D) expressionNode()         {}

// NewMap new map[K, V](capacity)
type NewMap struct {
	Token     lexer.Token
	KeyType   string
	ValueType string
	Capacity  Expression
}

func (n *NewMap) TokenLiteral() string    { return n.Token.Literal }
func (n *NewMap) StartToken() lexer.Token { return n.Token }
func (n *NewMap) expressionNode()         {}
