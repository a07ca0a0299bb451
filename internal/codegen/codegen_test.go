package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/checker"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
)

func parseChecked(t *testing.T, src string) *parser.Program {
	t.Helper()
	tokens, errs := lexer.Tokenize(src)
	be.Equal(t, len(errs), 0)
	program, errs := parser.Parse(tokens)
	if errs.HasErrors() {
		t.Fatalf("unexpected syntax errors:\n%s", errs.Error())
	}
	if errs := checker.Analyze(program); errs.HasErrors() {
		t.Fatalf("unexpected semantic errors:\n%s", errs.Error())
	}
	return program
}

func generate(t *testing.T, src string) string {
	t.Helper()
	ir, err := Generate(parseChecked(t, src), Options{SourceName: "test.cd"})
	be.Err(t, err, nil)
	return ir
}

// section 返回从 define @name 开始的函数文本
func section(t *testing.T, ir, name string) string {
	t.Helper()
	start := strings.Index(ir, " @"+name+"(")
	if start < 0 || !strings.HasPrefix(ir[strings.LastIndex(ir[:start], "\n")+1:], "define ") {
		t.Fatalf("function %s not defined in:\n%s", name, ir)
	}
	start = strings.LastIndex(ir[:start], "\n") + 1
	end := strings.Index(ir[start:], "\n}\n")
	return ir[start : start+end+3]
}

func assertContains(t *testing.T, text string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(text, p) {
			t.Errorf("missing %q in:\n%s", p, text)
		}
	}
}

func TestAddAndPrint(t *testing.T) {
	ir := generate(t, "function add(a: int, b: int): int { return a + b; }\nprint(add(2, 3));\n")

	assertContains(t, ir,
		"; ModuleID = 'test.cd'",
		`source_filename = "test.cd"`,
		`@.str.0 = private unnamed_addr constant [4 x i8] c"%d\0A\00"`,
		"declare i32 @printf(ptr, ...)",
	)
	be.Equal(t, strings.Contains(ir, "target triple"), false)

	add := section(t, ir, "add")
	assertContains(t, add,
		"define i32 @add(i32 %arg.a, i32 %arg.b) {",
		"%a.addr1 = alloca i32",
		"store i32 %arg.a, ptr %a.addr1",
		"add i32 %t1, %t2",
		"ret i32 %t3",
	)

	main := section(t, ir, "main")
	assertContains(t, main,
		"define i32 @main() {",
		"%t1 = call i32 @add(i32 2, i32 3)",
		"call i32 (ptr, ...) @printf(ptr @.str.0, i32 %t1)",
		"ret i32 0",
	)
	// 合成的 main 最后输出
	be.True(t, strings.Index(ir, "define i32 @add(") < strings.Index(ir, "define i32 @main("))
}

func TestShortCircuit(t *testing.T) {
	ir := generate(t, `
function touch(): bool { print("side"); return true; }
x = false && touch();
y = true || touch();
`)
	main := section(t, ir, "main")
	assertContains(t, main,
		"br i1 false, label %and.rhs.1, label %and.end.1",
		"phi i1 [ false, %entry ], [ %t1, %and.rhs.1 ]",
		"br i1 true, label %or.end.1, label %or.rhs.1",
		"phi i1 [ true, %and.end.1 ]",
	)

	// 右操作数的调用只出现在 rhs 块中
	rhs := strings.Index(main, "and.rhs.1:")
	call := strings.Index(main, "call i1 @touch()")
	end := strings.Index(main, "and.end.1:")
	be.True(t, rhs >= 0)
	be.True(t, rhs < call)
	be.True(t, call < end)
}

func TestArrayHeader(t *testing.T) {
	ir := generate(t, "a = new int[0];\nprint(a.length);\n")
	main := section(t, ir, "main")
	assertContains(t, main,
		"%t1 = sext i32 0 to i64",
		"%t2 = mul i64 %t1, 4",
		"%t3 = add i64 %t2, 8",
		"%t4 = call ptr @malloc(i64 %t3)",
		"store i64 %t1, ptr %t4",
		"%t5 = getelementptr inbounds i8, ptr %t4, i64 8",
		"store ptr %t5, ptr @gv.a",
		"%t6 = load ptr, ptr @gv.a",
		"%t7 = getelementptr inbounds i8, ptr %t6, i64 -8",
		"%t8 = load i64, ptr %t7",
		"%t9 = trunc i64 %t8 to i32",
	)
	assertContains(t, ir, "@gv.a = internal global ptr null")
}

func TestGenericFunctionCached(t *testing.T) {
	src := `
function identity<T>(x: T): T { return x; }
a = identity(1);
b = identity(2);
c = identity<int>(3);
s = identity("s");
`
	ir := generate(t, src)
	be.Equal(t, strings.Count(ir, "define i32 @identity_int("), 1)
	be.Equal(t, strings.Count(ir, "define ptr @identity_string("), 1)
	be.Equal(t, strings.Count(ir, "call i32 @identity_int("), 3)
	// 模板本身不输出
	be.Equal(t, strings.Contains(ir, "@identity("), false)

	program := parseChecked(t, src)
	global, _ := symbol.Collect(program)
	g := New(global, Options{})
	g.Emit(program)
	be.Equal(t, g.Instances(), map[string]string{
		"identity<int>":    "identity_int",
		"identity<string>": "identity_string",
	})
}

func TestGenericClass(t *testing.T) {
	ir := generate(t, `
class Box<T> {
    value: T;
    function get(): T { return self.value; }
}
b = new Box<int>(5);
c = new Box<int>(6);
d = new Box<float>(1.5);
print(b.get());
`)
	be.Equal(t, strings.Count(ir, "%Box_int = type { i32 }"), 1)
	be.Equal(t, strings.Count(ir, "%Box_float = type { double }"), 1)
	be.Equal(t, strings.Count(ir, "define i32 @Box_int_get(ptr %self)"), 1)
	be.Equal(t, strings.Count(ir, "define double @Box_float_get(ptr %self)"), 1)

	get := section(t, ir, "Box_int_get")
	assertContains(t, get, "getelementptr inbounds %Box_int, ptr %t1, i32 0, i32 0")

	main := section(t, ir, "main")
	assertContains(t, main,
		"call ptr @malloc(i64 4)",
		"call ptr @malloc(i64 8)",
		"call i32 @Box_int_get(ptr ",
	)
}

func TestGenericMethod(t *testing.T) {
	src := `
class U {
    function first<T>(xs: T[]): T { return xs[0]; }
}
u = new U();
a = u.first<int>([4, 5]);
b = u.first([6]);
s = u.first<string>(["x"]);
print(a + b, s);
`
	ir := generate(t, src)
	be.Equal(t, strings.Count(ir, "define i32 @U_first_int(ptr %self, ptr %arg.xs)"), 1)
	be.Equal(t, strings.Count(ir, "define ptr @U_first_string(ptr %self, ptr %arg.xs)"), 1)
	be.Equal(t, strings.Count(ir, "call i32 @U_first_int(ptr "), 2)
	be.Equal(t, strings.Contains(ir, " @U_first("), false)

	program := parseChecked(t, src)
	global, _ := symbol.Collect(program)
	g := New(global, Options{})
	g.Emit(program)
	be.Equal(t, g.Instances()["U_first<int>"], "U_first_int")
}

func TestClassLayout(t *testing.T) {
	ir := generate(t, `
class Point {
    x: int;
    y: float;
    tag: char;
    function sum(): float { return self.x + self.y; }
}
p = new Point(1, 2.0);
p.x = 5;
print(p.sum());
`)
	assertContains(t, ir,
		"%Point = type { i32, double, i8 }",
		"define double @Point_sum(ptr %self)",
	)
	main := section(t, ir, "main")
	// 4 + 4(对齐) + 8 + 1，按 8 对齐为 24
	assertContains(t, main,
		"call ptr @malloc(i64 24)",
		"store i8 0, ptr",
		"store i32 5, ptr",
	)
	sum := section(t, ir, "Point_sum")
	assertContains(t, sum, "sitofp i32", "fadd double")
}

func TestControlFlowBlocks(t *testing.T) {
	ir := generate(t, `
function count(n: int): int {
    total = 0;
    for (var i = 0; i < n; i++) {
        if i == 3 { continue; }
        total += i;
    }
    while total > 100 { total -= 1; if total == 50 { break; } }
    loop { break; }
    for (k in 1..n) { total += k; }
    return total;
}
print(count(5));
`)
	fn := section(t, ir, "count")
	assertContains(t, fn,
		"for.cond.1:", "for.body.1:", "for.step.1:", "for.end.1:",
		"br label %for.step.1",
		"while.cond.1:", "while.body.1:", "while.end.1:",
		"br label %while.end.1",
		"loop.body.1:", "loop.end.1:",
		"foreach.cond.1:", "icmp sle i32",
		"if.then.1:", "if.end.1:",
	)
	// 所有栈槽都在入口块
	entry := fn[:strings.Index(fn, "for.cond.1:")]
	assertContains(t, entry, "%total.addr1 = alloca i32", "%i.addr1 = alloca i32", "%k.addr1 = alloca i32")
}

func TestDeadCodeAfterReturn(t *testing.T) {
	ir := generate(t, `
function f(x: int): int {
    if x > 0 {
        return 1;
        print(x);
    } else {
        return 2;
    }
}
print(f(1));
`)
	fn := section(t, ir, "f")
	assertContains(t, fn, "dead.1:", "ret i32 1", "ret i32 2")
	// 每个块恰好一个终结指令
	for _, blk := range strings.Split(fn, "\n\n") {
		terms := strings.Count(blk, "  ret ") + strings.Count(blk, "  br ") + strings.Count(blk, "  unreachable")
		be.Equal(t, terms, 1)
	}
}

func TestStrings(t *testing.T) {
	ir := generate(t, `
s = "a\tb" + "c";
print(s == "ab", s.length, s[1..2]);
`)
	assertContains(t, ir,
		`c"a\09b\00"`,
		"declare ptr @strcat(ptr, ptr)",
		"declare i32 @strcmp(ptr, ptr)",
		"declare i64 @strlen(ptr)",
		"declare ptr @memcpy(ptr, ptr, i64)",
		`c"%d %d %s\0A\00"`,
	)
	// 声明按名字排序
	be.True(t, strings.Index(ir, "@malloc(i64)") < strings.Index(ir, "@printf(ptr, ...)"))
	be.True(t, strings.Index(ir, "@printf(ptr, ...)") < strings.Index(ir, "@strcat(ptr, ptr)"))
}

func TestNumbers(t *testing.T) {
	ir := generate(t, `
x = 1.5;
y = x * 2;
z = 2 ** 10;
c = 'A';
b = 7 ^ 2;
print(x, z, c, b);
`)
	main := section(t, ir, "main")
	assertContains(t, main,
		"store double 0x3FF8000000000000, ptr @gv.x",
		"sitofp i32 2 to double",
		"call double @pow(double",
		"fptosi double",
		"store i8 65, ptr @gv.c",
		"xor i32 7, 2",
	)
	assertContains(t, ir, `c"%f %d %c %d\0A\00"`)
}

func TestMap(t *testing.T) {
	ir := generate(t, `
m = new map[string, int](2);
m["a"] = 1;
m["b"] = 2;
m["c"] = 3;
print(m["a"]);
`)
	be.Equal(t, strings.Count(ir, "%codon.map = type { ptr, ptr, i32, i32 }"), 1)
	main := section(t, ir, "main")
	assertContains(t, main,
		"call ptr @malloc(i64 24)",
		"map.cond.1:", "map.found.1:", "map.missing.1:",
		"map.insert.1:", "map.full.1:",
		"icmp sge i32",
		"call i32 @strcmp(",
	)
}

func TestTopLevelGlobals(t *testing.T) {
	ir := generate(t, `
var counter: int = 0;
procedure bump() { counter = counter + 1; }
bump();
print(counter);
`)
	assertContains(t, ir, "@gv.counter = internal global i32 0")
	bump := section(t, ir, "bump")
	assertContains(t, bump,
		"define void @bump() {",
		"load i32, ptr @gv.counter",
		"ret void",
	)
}

func TestUserMain(t *testing.T) {
	ir := generate(t, "procedure main() { print(1); }")
	be.Equal(t, strings.Count(ir, "define i32 @main("), 1)
	assertContains(t, section(t, ir, "main"), "ret i32 0")
}

func TestRuntimeNameCollision(t *testing.T) {
	ir := generate(t, "function strlen(x: int): int { return x; }\nprint(strlen(3));\n")
	assertContains(t, ir,
		"define i32 @codon.strlen(i32 %arg.x)",
		"call i32 @codon.strlen(i32 3)",
	)
	be.Equal(t, strings.Contains(ir, "declare i64 @strlen"), false)
}

func TestTargetTriple(t *testing.T) {
	program := parseChecked(t, "print(1);")
	ir, err := Generate(program, Options{TargetTriple: "x86_64-pc-linux-gnu"})
	be.Err(t, err, nil)
	assertContains(t, ir,
		"; ModuleID = 'main'",
		`target triple = "x86_64-pc-linux-gnu"`,
	)
}

func TestInternalError(t *testing.T) {
	// 跳过语义检查，未定义的名字到达后端
	tokens, _ := lexer.Tokenize("print(missing);")
	program, _ := parser.Parse(tokens)
	ir, err := Generate(program, Options{})
	be.Equal(t, ir, "")

	var ie *InternalError
	be.True(t, errors.As(err, &ie))
	be.True(t, strings.Contains(ie.Error(), "missing"))
}

func TestEscapes(t *testing.T) {
	be.Equal(t, unescape(`a\nb\t\"q\"\\\0`), "a\nb\t\"q\"\\\x00")
	be.Equal(t, unescape(`\x`), `\x`)
	be.Equal(t, escapeBytes("a\"b\\\n"), `a\22b\5C\0A`)
}

func TestAlignedSize(t *testing.T) {
	be.Equal(t, alignedSize(nil), 1)
	be.Equal(t, alignedSize([]string{"i32"}), 4)
	be.Equal(t, alignedSize([]string{"i8", "i32"}), 8)
	be.Equal(t, alignedSize([]string{"i32", "double", "i8"}), 24)
	be.Equal(t, alignedSize([]string{"ptr", "ptr", "i32", "i32"}), 24)
}
