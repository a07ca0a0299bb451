package checker

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
)

func analyze(t *testing.T, src string) diag.List {
	t.Helper()
	tokens, errs := lexer.Tokenize(src)
	be.Equal(t, len(errs), 0)
	program, errs := parser.Parse(tokens)
	if errs.HasErrors() {
		t.Fatalf("unexpected syntax errors:\n%s", errs.Error())
	}
	return Analyze(program)
}

func TestDiagnosticCodes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []string
	}{
		{"declaration by assignment", "x = 5; y = x + 1; print(y);", []string{}},
		{"add example", "function add(a: int, b: int): int { return a + b; } print(add(2, 3));", []string{}},
		{"forward reference", "print(later(1)); function later(x: int): int { return x; }", []string{}},
		{"duplicate variable", "var a = 1; var a = 2;", []string{"SEM001"}},
		{"duplicate function", "function f(): int { return 1; } function f(): int { return 2; }", []string{"SEM001"}},
		{"undefined variable", "print(z);", []string{"SEM003"}},
		{"unknown stays quiet", "x = missing + 1; y = x * 2;", []string{"SEM003"}},
		{"block scope", "if true { y = 1; } print(y);", []string{"SEM003"}},
		{"undefined function", "foo(1);", []string{"SEM005"}},
		{"return outside function", "return 1;", []string{"SEM006"}},
		{"break outside loop", "break;", []string{"SEM007"}},
		{"continue outside loop", "if true { continue; }", []string{"SEM007"}},
		{"loop control inside loops", "loop { break; } while true { continue; }", []string{}},
		{"missing return", "function f(): int { print(1); }", []string{"SEM008"}},
		{"return in branch is enough", "function f(x: int): int { if x > 0 { return 1; } }", []string{}},
		{"procedure needs no return", "procedure p() { print(1); }", []string{}},
		{"arity", "function add(a: int, b: int): int { return a + b; } print(add(1));", []string{"SEM009"}},
		{"method arity", "class C { function f(a: int): int { return a; } } c = new C(); c.f();", []string{"SEM009"}},
		{"constructor arity", "class P { x: int; } p = new P(1, 2);", []string{"SEM009"}},
		{"binary types", `x = 1 + "a";`, []string{"SEM010"}},
		{"string concat", `s = "a" + "b"; var n: int = s.length;`, []string{}},
		{"logical needs bool", "x = 1 && true;", []string{"SEM010"}},
		{"unary minus on bool", "x = -true;", []string{"SEM011"}},
		{"not on int", "x = !1;", []string{"SEM011"}},
		{"return type", `function f(): int { return "s"; }`, []string{"SEM012"}},
		{"return widening", "function f(): float { return 1; }", []string{}},
		{"return narrowing", "function f(): int { return 1.5; }", []string{"SEM012"}},
		{"procedure returns value", "procedure p() { return 1; }", []string{"SEM013"}},
		{"assign const", "const c = 1; c = 2;", []string{"SEM014"}},
		{"increment const", "const k = 1; k++;", []string{"SEM014"}},
		{"assign type", "var s: string = 1;", []string{"SEM015"}},
		{"assign widening", "var f: float = 1; f = 2;", []string{}},
		{"assign narrowing", "var i: int = 1.5;", []string{"SEM015"}},
		{"null to class", "class C { } var c: C = null;", []string{}},
		{"null to int", "var i: int = null;", []string{"SEM015"}},
		{"argument type", `function f(a: int): int { return a; } f("s");`, []string{"SEM015"}},
		{"const without value", "const c;", []string{"SEM016"}},
		{"index not int", `a = [1, 2]; print(a["x"]);`, []string{"SEM017"}},
		{"condition not bool", "if 1 { }", []string{"SEM018"}},
		{"while condition", `while "s" { }`, []string{"SEM018"}},
		{"not iterable", "for (x in 5) { }", []string{"SEM019"}},
		{"type arg count", "class Box<T> { v: T; } b = new Box(1);", []string{"SEM020"}},
		{"explicit type args", "function id<T>(x: T): T { return x; } y = id<int, int>(1);", []string{"SEM020"}},
		{"duplicate field", "class C { a: int; a: int; }", []string{"SEM025"}},
		{"field on non-class", "x = 5; print(x.foo);", []string{"SEM026"}},
		{"unknown var type", "var v: Missing;", []string{"SEM027"}},
		{"unknown field type", "class C { v: Missing; }", []string{"SEM027"}},
		{"unknown param type", "procedure p(v: Missing) { }", []string{"SEM027"}},
		{"unknown member", "class C { a: int; } c = new C(1); print(c.b);", []string{"SEM028"}},
		{"unknown enum member", "enum Color { Red } print(Color.Blue);", []string{"SEM028"}},
		{"index non-array", "x = 5; print(x[0]);", []string{"SEM029"}},
		{"array size", "a = new int[1.5];", []string{"SEM030"}},
		{"map capacity", `m = new map[string, int]("x");`, []string{"SEM030"}},
		{"map key", "m = new map[string, int](4); m[1] = 2;", []string{"SEM031"}},
		{"map usage", `m = new map[string, int](4); m["a"] = 1; var v: int = m["a"];`, []string{}},
		{"builtins", `s = "abc"; n = length(s) + length([1, 2]) + length(dna"AC"); t = substring(s, 0, 2); printInt(n); i = inputInt(); var r: string = input();`, []string{}},
		{"length of int", "x = length(5); print(x);", []string{"SEM015"}},
		{"substring of int", "print(substring(5, 0, 1));", []string{"SEM015"}},
		{"substring bounds", `print(substring("abc", "0", 1.5));`, []string{"SEM015", "SEM015"}},
		{"printInt of float", "printInt(1.5);", []string{"SEM015"}},
		{"builtin arity", `x = length(); y = substring("a", 1);`, []string{"SEM009", "SEM009"}},
		{"void assignment", "procedure p() { print(1); } x = p();", []string{"SEM021"}},
		{"void print argument", "procedure p() { print(1); } print(p());", []string{"SEM021"}},
		{"void var init", "procedure p() { } var v: int = p();", []string{"SEM021"}},
		{"void operand", "procedure p() { } x = p() + 1;", []string{"SEM021"}},
		{"void call argument", "procedure p() { } function f(a: int): int { return a; } f(p());", []string{"SEM021"}},
		{"void return value", "procedure p() { } function f(): int { return p(); }", []string{"SEM021"}},
		{"printInt result", "x = printInt(1);", []string{"SEM021"}},
		{"void call statements", "procedure p() { } p(); printInt(3);", []string{}},
		{"function as value", "function f(): int { return 1; } x = f;", []string{"SEM003"}},
		{"int literal too large", "print(3000000000);", []string{"SEM022"}},
		{"int literal bounds", "x = -2147483648; y = 2147483647;", []string{}},
		{"negative int literal too large", "x = -2147483649;", []string{"SEM022"}},
		{"generic method", "class U { function first<T>(xs: T[]): T { return xs[0]; } } u = new U(); var n: int = u.first<int>([4, 5]);", []string{}},
		{"generic method mismatch", `class U { function first<T>(xs: T[]): T { return xs[0]; } } u = new U(); var s: string = u.first<int>([4, 5]);`, []string{"SEM015"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, analyze(t, tt.src).Codes(), tt.codes)
		})
	}
}

func TestMissingReturnReportedOnce(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)
	errs := analyze(t, "function f(): int {\n    var x = 1;\n}\n")
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Code, diag.CodeMissingReturn)
	be.Equal(t, errs[0].Kind, diag.Semantic)
	be.Equal(t, errs[0].Line, 1)
	be.True(t, strings.Contains(errs[0].Message, "return"))
}

func TestArityMessage(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)
	errs := analyze(t, "function add(a: int, b: int): int { return a + b; }\nprint(add(1));")
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Line, 2)
	be.Equal(t, errs[0].Column, 7)
	be.Equal(t, errs[0].Message, "Function 'add' expects 2 args but received 1")
}

func TestVoidValueMessage(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)
	errs := analyze(t, "procedure log() { }\nx = 1 + log();")
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Code, diag.CodeVoidValue)
	be.Equal(t, errs[0].Line, 2)
	be.Equal(t, errs[0].Column, 9)
	be.Equal(t, errs[0].Message, "'log' does not return a value")
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	// 顶层语句先检查，但输出按位置排序
	errs := analyze(t, "function f(): int {\n    return \"s\";\n}\nprint(q);\n")
	be.Equal(t, errs.Codes(), []string{"SEM012", "SEM003"})
	be.Equal(t, errs[0].Line, 2)
	be.Equal(t, errs[1].Line, 4)
}

func TestGenerics(t *testing.T) {
	errs := analyze(t, `
function identity<T>(x: T): T { return x; }
function first<T>(xs: T[]): T { return xs[0]; }
class Box<T> {
    value: T;
    function get(): T { return self.value; }
    procedure set(v: T) { self.value = v; }
}
a = identity(5);
var b: string = identity<string>("s");
var c: int = first([1, 2, 3]);
box = new Box<int>(3);
var n: int = box.get();
box.set(4);
`)
	be.Equal(t, errs.Codes(), []string{})

	errs = analyze(t, `
function identity<T>(x: T): T { return x; }
var s: string = identity(5);
class Box<T> { value: T; procedure set(v: T) { self.value = v; } }
box = new Box<int>(3);
box.set("x");
`)
	be.Equal(t, errs.Codes(), []string{"SEM015", "SEM015"})
}

func TestEnumsAreInts(t *testing.T) {
	errs := analyze(t, `
enum Color { Red, Green = 3 }
var c: Color = Color.Green;
x = c + 1;
var i: int = Color.Red;
arr = [1, 2, 3, 4];
print(arr[Color.Green]);
`)
	be.Equal(t, errs.Codes(), []string{})
}

func TestIterationTypes(t *testing.T) {
	errs := analyze(t, `
for (x in [1, 2]) { var y: int = x; }
for (ch in "ab") { var c: char = ch; }
for (b in dna"ACGT") { var c: char = b; }
for (i in 1..3) { var j: int = i; }
r = 1..5;
for (k in r) { var m: int = k; }
`)
	be.Equal(t, errs.Codes(), []string{})

	// 循环变量只在循环体内可见
	errs = analyze(t, "for (x in 1..3) { } print(x);")
	be.Equal(t, errs.Codes(), []string{"SEM003"})
}

func TestCompositeTypes(t *testing.T) {
	errs := analyze(t, `
t = (1, "a");
var s: string = t[1];
sub = "hello"[1..3];
var u: string = sub;
arr = [1, 2.5];
var f: float = arr[0];
grid = new int[2][3];
var row: int[] = grid[0];
var g: int = grid[1][2];
var len: int = arr.length;
`)
	be.Equal(t, errs.Codes(), []string{})
}

func TestGlobalScope(t *testing.T) {
	tokens, _ := lexer.Tokenize("var total: float = 0; count = 3;")
	program, _ := parser.Parse(tokens)
	c := New()
	c.Check(program)
	be.Equal(t, len(c.Errors()), 0)
	be.Equal(t, c.Global().Lookup("total").Type, "float")
	be.Equal(t, c.Global().Lookup("count").Type, "int")
}
