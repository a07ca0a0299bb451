package codegen

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/types"
)

// runtimeDecls 生成代码依赖的外部 C 符号
var runtimeDecls = map[string]string{
	"printf": "declare i32 @printf(ptr, ...)",
	"scanf":  "declare i32 @scanf(ptr, ...)",
	"strlen": "declare i64 @strlen(ptr)",
	"malloc": "declare ptr @malloc(i64)",
	"strcpy": "declare ptr @strcpy(ptr, ptr)",
	"strcat": "declare ptr @strcat(ptr, ptr)",
	"strcmp": "declare i32 @strcmp(ptr, ptr)",
	"memcpy": "declare ptr @memcpy(ptr, ptr, i64)",
	"pow":    "declare double @pow(double, double)",
}

// use 声明并返回运行时函数
func (g *Generator) use(name string) string {
	g.mod.declare(name, runtimeDecls[name])
	return "@" + name
}

// callRuntime 调用有返回值的运行时函数
func (g *Generator) callRuntime(ret, name string, args ...string) string {
	fn := g.use(name)
	if name == "printf" || name == "scanf" {
		return g.ctx.fn.value("call %s (ptr, ...) %s(%s)", ret, fn, strings.Join(args, ", "))
	}
	return g.ctx.fn.value("call %s %s(%s)", ret, fn, strings.Join(args, ", "))
}

// malloc 按 i64 字节数分配
func (g *Generator) malloc(size string) string {
	return g.callRuntime("ptr", "malloc", "i64 "+size)
}

// strlen 返回 i64 长度
func (g *Generator) strlen(s string) string {
	return g.callRuntime("i64", "strlen", "ptr "+s)
}

// formatOf printf 格式符与实参（必要时提升）
func (g *Generator) formatOf(v value) (string, string) {
	f := g.ctx.fn
	switch ir := g.irType(v.typ); {
	case types.IsStringLike(v.typ):
		return "%s", "ptr " + v.ref
	case ir == "double":
		return "%f", "double " + v.ref
	case ir == "i8":
		return "%c", "i32 " + f.value("zext i8 %s to i32", v.ref)
	case ir == "i1":
		return "%d", "i32 " + f.value("zext i1 %s to i32", v.ref)
	case ir == "i32":
		return "%d", "i32 " + v.ref
	case v.typ == types.Null:
		return "%s", "ptr " + g.mod.stringConst("null")
	default:
		return "%p", "ptr " + v.ref
	}
}

// lowerPrint 参数以空格分隔，末尾换行，一次 printf
func (g *Generator) lowerPrint(s *parser.PrintStmt) {
	formats := make([]string, 0, len(s.Args))
	args := []string{""}
	for _, arg := range s.Args {
		v := g.lowerExpr(arg)
		format, a := g.formatOf(v)
		formats = append(formats, format)
		args = append(args, a)
	}
	args[0] = "ptr " + g.mod.stringConst(strings.Join(formats, " ")+"\n")
	g.callRuntime("i32", "printf", args...)
}

// lowerBuiltin 内置函数；不是内置时返回 false
func (g *Generator) lowerBuiltin(name string, args []parser.Expression) (value, bool) {
	f := g.ctx.fn
	switch name {
	case "length":
		if len(args) != 1 {
			break
		}
		return value{ref: g.lengthOf(g.lowerExpr(args[0])), typ: types.Int}, true

	case "input":
		buf := g.malloc("256")
		g.callRuntime("i32", "scanf", "ptr "+g.mod.stringConst("%255[^\n]"), "ptr "+buf)
		g.callRuntime("i32", "scanf", "ptr "+g.mod.stringConst("%*c"))
		return value{ref: buf, typ: types.String}, true

	case "inputInt":
		slot := f.alloca("i32", "input")
		f.emit("store i32 0, ptr %s", slot)
		g.callRuntime("i32", "scanf", "ptr "+g.mod.stringConst("%d"), "ptr "+slot)
		g.callRuntime("i32", "scanf", "ptr "+g.mod.stringConst("%*c"))
		return value{ref: f.value("load i32, ptr %s", slot), typ: types.Int}, true

	case "printInt":
		if len(args) != 1 {
			break
		}
		v := g.convert(g.lowerExpr(args[0]), types.Int)
		g.callRuntime("i32", "printf", "ptr "+g.mod.stringConst("%d"), "i32 "+v.ref)
		return value{typ: types.Void}, true

	case "substring":
		if len(args) != 3 {
			break
		}
		s := g.lowerExpr(args[0])
		start := g.convert(g.lowerExpr(args[1]), types.Int)
		end := g.convert(g.lowerExpr(args[2]), types.Int)
		return value{ref: g.copyBytes(s.ref, start.ref, end.ref), typ: types.String}, true
	}
	return value{}, false
}

// copyBytes 复制 s[start:end) 为新的以 0 结尾的字符串
func (g *Generator) copyBytes(s, start, end string) string {
	f := g.ctx.fn
	n := f.value("sub i32 %s, %s", end, start)
	neg := f.value("icmp slt i32 %s, 0", n)
	n = f.value("select i1 %s, i32 0, i32 %s", neg, n)
	n64 := f.value("sext i32 %s to i64", n)
	size := f.value("add i64 %s, 1", n64)
	buf := g.malloc(size)
	src := f.value("getelementptr inbounds i8, ptr %s, i32 %s", s, start)
	g.callRuntime("ptr", "memcpy", "ptr "+buf, "ptr "+src, "i64 "+n64)
	tail := f.value("getelementptr inbounds i8, ptr %s, i64 %s", buf, n64)
	f.emit("store i8 0, ptr %s", tail)
	return buf
}

// concat 字符串拼接：strlen + malloc + strcpy + strcat
func (g *Generator) concat(a, b string) string {
	f := g.ctx.fn
	la := g.strlen(a)
	lb := g.strlen(b)
	sum := f.value("add i64 %s, %s", la, lb)
	size := f.value("add i64 %s, 1", sum)
	buf := g.malloc(size)
	g.callRuntime("ptr", "strcpy", "ptr "+buf, "ptr "+a)
	g.callRuntime("ptr", "strcat", "ptr "+buf, "ptr "+b)
	return buf
}

// lengthOf 字符串走 strlen，数组读数据指针前 8 字节的头
func (g *Generator) lengthOf(v value) string {
	f := g.ctx.fn
	switch {
	case types.IsStringLike(v.typ):
		return f.value("trunc i64 %s to i32", g.strlen(v.ref))
	case types.IsArray(v.typ):
		return g.arrayLen(v.ref)
	}
	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("length(%s)", v.typ))
	return ""
}
