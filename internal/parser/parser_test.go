package parser

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/lexer"
)

func parse(t *testing.T, src string) (*Program, diag.List) {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(src)
	be.Equal(t, len(lexErrs), 0)
	return Parse(tokens)
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	program, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected syntax errors:\n%s", errs.Error())
	}
	return program
}

// exprOf 取出 "x = <expr>;" 中的表达式
func exprOf(t *testing.T, src string) Expression {
	t.Helper()
	program := mustParse(t, "x = "+src+";")
	be.Equal(t, len(program.Statements), 1)
	assign, ok := program.Statements[0].(*AssignStmt)
	be.True(t, ok)
	return assign.Value
}

// render 把表达式写成全括号形式，便于比较结构
func render(e Expression) string {
	switch n := e.(type) {
	case *Identifier:
		return n.Value
	case *IntegerLiteral, *FloatLiteral, *BooleanLiteral, *NullLiteral:
		return n.TokenLiteral()
	case *StringLiteral:
		return `"` + n.Value + `"`
	case *BinaryExpr:
		return "(" + render(n.Left) + " " + n.Operator + " " + render(n.Right) + ")"
	case *UnaryExpr:
		return "(" + n.Operator + render(n.Operand) + ")"
	case *PostfixExpr:
		return "(" + render(n.Operand) + n.Operator + ")"
	case *RangeExpr:
		return "(" + render(n.Start) + ".." + render(n.End) + ")"
	case *CallExpr:
		s := render(n.Function)
		if len(n.TypeArgs) > 0 {
			s += "<"
			for i, a := range n.TypeArgs {
				if i > 0 {
					s += ","
				}
				s += a
			}
			s += ">"
		}
		return s + "(" + renderList(n.Arguments) + ")"
	case *FieldAccess:
		return render(n.Object) + "." + n.Field
	case *IndexExpr:
		return render(n.Left) + "[" + render(n.Index) + "]"
	case *TupleLiteral:
		return "(" + renderList(n.Elements) + ")"
	case *ArrayLiteral:
		return "[" + renderList(n.Elements) + "]"
	}
	return "?"
}

func renderList(list []Expression) string {
	s := ""
	for i, e := range list {
		if i > 0 {
			s += ", "
		}
		s += render(e)
	}
	return s
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-a ** 2", "((-a) ** 2)"},
		{"-2 * 3", "((-2) * 3)"},
		{"a < b == c > d", "(((a < b) == c) > d)"},
		{"a || b && c", "(a || (b && c))"},
		{"a and b or not c", "((a && b) || (!c))"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"a | b & c", "(a | (b & c))"},
		{"a ^ b", "(a ^ b)"},
		{"~a + !b", "((~a) + (!b))"},
		{"a.b.c(1)[2]", "a.b.c(1)[2]"},
		{"i++ + 1", "((i++) + 1)"},
	}
	for _, tt := range tests {
		be.Equal(t, render(exprOf(t, tt.input)), tt.want)
	}
}

func TestRange(t *testing.T) {
	_, ok := exprOf(t, "1..10").(*RangeExpr)
	be.True(t, ok)

	// 非简单操作数保留为二元表达式
	bin, ok := exprOf(t, "1..n+1").(*BinaryExpr)
	be.True(t, ok)
	be.Equal(t, bin.Operator, "..")
}

func TestTupleAndArrayLiterals(t *testing.T) {
	be.Equal(t, render(exprOf(t, "(1, a, \"s\")")), `(1, a, "s")`)
	be.Equal(t, render(exprOf(t, "[1, 2, 3]")), "[1, 2, 3]")
	be.Equal(t, render(exprOf(t, "[]")), "[]")
	// 单个元素的括号不是元组
	_, ok := exprOf(t, "(a)").(*Identifier)
	be.True(t, ok)
}

func TestGenericCallDisambiguation(t *testing.T) {
	be.Equal(t, render(exprOf(t, "identity<int>(5)")), "identity<int>(5)")
	be.Equal(t, render(exprOf(t, "pair<int, Box<float>>(1, b)")), "pair<int,Box<float>>(1, b)")
	be.Equal(t, render(exprOf(t, "a < b")), "(a < b)")
	be.Equal(t, render(exprOf(t, "a < b > (c)")), "a<b>(c)")
	be.Equal(t, render(exprOf(t, "a < b + 1")), "(a < (b + 1))")

	// 方法调用同样可以带类型实参
	be.Equal(t, render(exprOf(t, "u.first<int>([4, 5])")), "u.first<int>([4, 5])")
	be.Equal(t, render(exprOf(t, "u.pair<int, Box<int>>(1, b).x")), "u.pair<int,Box<int>>(1, b).x")
	be.Equal(t, render(exprOf(t, "u.n < m")), "(u.n < m)")
}

func TestNewExpressions(t *testing.T) {
	obj, ok := exprOf(t, "new Box<int>(1, 2)").(*NewObject)
	be.True(t, ok)
	be.Equal(t, obj.Class, "Box")
	be.Equal(t, obj.TypeArgs, []string{"int"})
	be.Equal(t, len(obj.Arguments), 2)

	arr, ok := exprOf(t, "new int[10]").(*NewArray)
	be.True(t, ok)
	be.Equal(t, arr.ElemType, "int")

	grid, ok := exprOf(t, "new float[2][3]").(*NewArray2D)
	be.True(t, ok)
	be.Equal(t, grid.ElemType, "float")

	m, ok := exprOf(t, "new map[string, int](8)").(*NewMap)
	be.True(t, ok)
	be.Equal(t, m.KeyType, "string")
	be.Equal(t, m.ValueType, "int")
}

func TestCompoundAssignment(t *testing.T) {
	program := mustParse(t, "a[i] += 2;")
	assign := program.Statements[0].(*AssignStmt)
	be.Equal(t, render(assign.Target), "a[i]")
	be.Equal(t, render(assign.Value), "(a[i] + 2)")

	// 展开后的左侧是独立的节点
	bin := assign.Value.(*BinaryExpr)
	be.True(t, bin.Left != assign.Target)

	program = mustParse(t, "x <<= 1;")
	be.Equal(t, render(program.Statements[0].(*AssignStmt).Value), "(x << 1)")
}

func TestDeclarations(t *testing.T) {
	program := mustParse(t, `
function add(a: int, b: int): int { return a + b; }
procedure log(msg: string) { print(msg); }
function first<T>(xs: T[]): T { return xs[0]; }
class Box<T> extends Base {
    value: T;
    var count: int;
    function get(): T { return self.value; }
}
enum Color { Red, Green = 5, Blue }
var m: map[string, int[]];
const limit = 10;
`)
	be.Equal(t, len(program.Statements), 7)

	add := program.Statements[0].(*FuncDecl)
	be.Equal(t, add.Name, "add")
	be.Equal(t, add.ReturnType, "int")
	be.Equal(t, len(add.Params), 2)
	be.Equal(t, add.IsProcedure, false)

	log := program.Statements[1].(*FuncDecl)
	be.True(t, log.IsProcedure)
	be.Equal(t, log.ReturnType, "void")

	first := program.Statements[2].(*FuncDecl)
	be.Equal(t, first.TypeParams, []string{"T"})
	be.Equal(t, first.Params[0].Type, "Array<T>")

	box := program.Statements[3].(*ClassDecl)
	be.Equal(t, box.TypeParams, []string{"T"})
	be.Equal(t, box.Extends, "Base")
	be.Equal(t, len(box.Fields), 2)
	be.Equal(t, len(box.Methods), 1)

	color := program.Statements[4].(*EnumDecl)
	be.Equal(t, len(color.Members), 3)
	be.Equal(t, color.Members[0].Value, int64(0))
	be.Equal(t, color.Members[1].Value, int64(5))
	be.Equal(t, color.Members[2].Value, int64(6))

	m := program.Statements[5].(*VarDecl)
	be.Equal(t, m.Type, "Map<string,Array<int>>")
	be.Equal(t, m.Value, nil)

	limit := program.Statements[6].(*VarDecl)
	be.True(t, limit.Const)
}

func TestControlFlow(t *testing.T) {
	program := mustParse(t, `
if x > 1 { a = 1; } elif x > 0 { a = 2; } else if x < -5 { a = 3; } else { a = 4; }
while (i < 10) { i++; }
loop { break; }
for (var i = 0; i < 3; i++) { continue; }
for (;;) { break; }
for (c in "abc") { print(c); }
for n in 1..3 { print(n); }
`)
	be.Equal(t, len(program.Statements), 7)

	ifStmt := program.Statements[0].(*IfStmt)
	be.Equal(t, len(ifStmt.Elifs), 2)
	be.True(t, ifStmt.Alternative != nil)

	forStmt := program.Statements[3].(*ForStmt)
	be.True(t, forStmt.Init != nil)
	be.True(t, forStmt.Post != nil)

	empty := program.Statements[4].(*ForStmt)
	be.Equal(t, empty.Condition, nil)

	forIn := program.Statements[5].(*ForInStmt)
	be.Equal(t, forIn.Var, "c")

	_, ok := program.Statements[6].(*ForInStmt).Iterable.(*RangeExpr)
	be.True(t, ok)
}

func TestSyntaxErrorRecovery(t *testing.T) {
	program, errs := parse(t, `
var a = ;
var b = 2;
print(b;
var c = 3;
`)
	be.Equal(t, len(errs), 2)
	for _, d := range errs {
		be.Equal(t, d.Code, diag.CodeSyntax)
		be.Equal(t, d.Kind, diag.Syntax)
	}
	be.Equal(t, errs[0].Line, 2)

	// 出错的语句被丢弃，后续语句照常解析
	var names []string
	for _, s := range program.Statements {
		if v, ok := s.(*VarDecl); ok {
			names = append(names, v.Name)
		}
	}
	be.Equal(t, names, []string{"b", "c"})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"function f() { }",
		"function f(): int { function g(): int { return 1; } return 1; }",
		"1 = x;",
		"class C { 5; }",
		"x = new 5;",
		"enum E { A = x }",
		"if x { ",
	}
	for _, src := range tests {
		_, errs := parse(t, src)
		be.True(t, errs.HasErrors())
		be.Equal(t, errs[0].Code, diag.CodeSyntax)
	}
}

func TestNestedDeclarationRejected(t *testing.T) {
	_, errs := parse(t, "procedure p() { class Inner { } }")
	be.True(t, errs.HasErrors())
	be.Equal(t, errs[0].Line, 1)
	be.Equal(t, errs[0].Column, 17)
}
