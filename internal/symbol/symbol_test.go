package symbol

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
)

func parseProgram(t *testing.T, src string) *parser.Program {
	t.Helper()
	tokens, errs := lexer.Tokenize(src)
	be.Equal(t, len(errs), 0)
	program, errs := parser.Parse(tokens)
	be.Equal(t, len(errs), 0)
	return program
}

func TestScopeShadowing(t *testing.T) {
	global := NewGlobal()
	be.True(t, global.Define(&Symbol{Name: "x", Type: "int", Kind: SymbolVar}))
	be.Equal(t, global.Define(&Symbol{Name: "x", Type: "float", Kind: SymbolVar}), false)

	inner := NewScope(global)
	be.True(t, inner.Define(&Symbol{Name: "x", Type: "string", Kind: SymbolVar}))
	be.Equal(t, inner.Lookup("x").Type, "string")
	be.Equal(t, global.Lookup("x").Type, "int")
	be.Equal(t, inner.Parent(), global)

	be.Equal(t, inner.LookupLocal("int"), nil)
	be.Equal(t, inner.Lookup("int").Kind, SymbolType)
	be.Equal(t, inner.Lookup("missing"), nil)
}

func TestBuiltins(t *testing.T) {
	global := NewGlobal()
	for _, name := range []string{"length", "input", "inputInt", "printInt", "substring"} {
		sym := global.Lookup(name)
		be.True(t, sym != nil)
		be.True(t, sym.Builtin)
		be.Equal(t, sym.Kind, SymbolFunc)
		be.True(t, IsBuiltin(name))
	}
	be.Equal(t, IsBuiltin("print"), false)

	be.Equal(t, global.Lookup("substring").ParamTypes, []string{"string", "int", "int"})
	be.Equal(t, global.Lookup("length").ParamTypes, []string{"string|array"})
	be.Equal(t, global.Lookup("input").ParamCount, 0)
	printInt := global.Lookup("printInt")
	be.True(t, printInt.IsProcedure)
	be.Equal(t, printInt.ReturnType, "void")
}

func TestCollect(t *testing.T) {
	program := parseProgram(t, `
function add(a: int, b: int): int { return a + b; }
class Box<T> {
    value: T;
    value: int;
    function get(): T { return self.value; }
}
enum Color { Red, Green = 4, Blue }
var x = 1;
`)
	global, errs := Collect(program)
	be.Equal(t, len(errs), 0)

	add := global.Lookup("add")
	be.Equal(t, add.Kind, SymbolFunc)
	be.Equal(t, add.ParamTypes, []string{"int", "int"})
	be.Equal(t, add.ReturnType, "int")
	be.Equal(t, add.IsGeneric(), false)

	box := global.Lookup("Box")
	be.Equal(t, box.Kind, SymbolClass)
	be.True(t, box.IsGeneric())
	// 重复字段只保留第一个
	be.Equal(t, len(box.Class.Fields), 1)
	be.Equal(t, box.Class.FieldIndex("value"), 0)
	be.Equal(t, box.Class.FieldIndex("missing"), -1)
	be.True(t, box.Class.Methods["get"] != nil)

	color := global.Lookup("Color")
	be.Equal(t, color.Kind, SymbolEnum)
	be.Equal(t, color.Members, map[string]int64{"Red": 0, "Green": 4, "Blue": 5})

	// 变量不在收集阶段定义
	be.Equal(t, global.Lookup("x"), nil)
}

func TestCollectDuplicates(t *testing.T) {
	program := parseProgram(t, `
function f(): int { return 1; }
function f(): int { return 2; }
class C { }
enum C { A, A }
`)
	_, errs := Collect(program)
	be.Equal(t, errs.Codes(), []string{diag.CodeDuplicate, diag.CodeDuplicate, diag.CodeDuplicate})
	be.Equal(t, errs[0].Line, 3)
}

func TestInstanceOf(t *testing.T) {
	program := parseProgram(t, "class Pair<A, B> { first: A; second: B; }")
	global, _ := Collect(program)

	info, subst := global.InstanceOf("Pair<int,Array<string>>")
	be.True(t, info != nil)
	be.Equal(t, subst, map[string]string{"A": "int", "B": "Array<string>"})

	typ, ok := info.FieldType("second", subst)
	be.True(t, ok)
	be.Equal(t, typ, "Array<string>")
	_, ok = info.FieldType("third", subst)
	be.Equal(t, ok, false)

	info, _ = global.InstanceOf("int")
	be.True(t, info == nil)
}

func TestIsKnownType(t *testing.T) {
	program := parseProgram(t, "class Node { } enum Kind { A }")
	global, _ := Collect(program)

	tests := []struct {
		typ  string
		want bool
	}{
		{"int", true},
		{"Nbase", true},
		{"Node", true},
		{"Kind", true},
		{"Array<Node>", true},
		{"Map<string,Array<int>>", true},
		{"Tuple<int,float>", true},
		{"Missing", false},
		{"Array<Missing>", false},
		{"Array", false},
	}
	for _, tt := range tests {
		be.Equal(t, global.IsKnownType(tt.typ), tt.want)
	}

	// 函数名不是类型
	program = parseProgram(t, "function f(): int { return 1; }")
	global, _ = Collect(program)
	be.Equal(t, global.IsKnownType("f"), false)
}
