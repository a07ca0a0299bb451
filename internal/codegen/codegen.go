// Package codegen lowers a checked program into one self-contained LLVM
// textual IR module. Locals live in entry-block stack slots, structured
// control flow becomes basic blocks, and generic functions and classes are
// monomorphized on demand with a per-instantiation cache.
package codegen

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// Options 代码生成选项
type Options struct {
	SourceName   string // 写入 ModuleID 与 source_filename
	TargetTriple string // 为空时不写 target triple
}

// InternalError 前面阶段本应拒绝的输入到达了后端
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}

// local 一个变量的存储位置
type local struct {
	slot string // %x.addr1 或 @gv.x
	typ  string
}

// loopTarget continue / break 的跳转目标
type loopTarget struct {
	cont, brk *block
}

// funcCtx 单个函数的降级状态，不在两个函数之间共享
type funcCtx struct {
	fn      *function
	scopes  []map[string]*local
	loops   []loopTarget
	retType string
	entry   bool // main：IR 返回 i32
	topLvl  bool // 合成的 main，变量落到模块全局
	subst   map[string]string
	self    *classLayout
}

// value 降级后的值与其源语言类型
type value struct {
	ref string
	typ string
}

// Generator 后端
type Generator struct {
	mod       *module
	global    *symbol.Scope
	enums     map[string]map[string]int64
	layouts   map[string]*classLayout
	instances map[string]string // "id<int>" -> "id_int"
	globals   map[string]*local
	pending   []func()
	ctx       *funcCtx

	mapDefined bool
}

// New 创建后端，全局作用域来自声明收集
func New(global *symbol.Scope, opts Options) *Generator {
	name := opts.SourceName
	if name == "" {
		name = "main"
	}
	return &Generator{
		mod:       newModule(name, opts.TargetTriple),
		global:    global,
		enums:     make(map[string]map[string]int64),
		layouts:   make(map[string]*classLayout),
		instances: make(map[string]string),
		globals:   make(map[string]*local),
	}
}

// Generate 生成整个模块的 IR 文本
func Generate(program *parser.Program, opts Options) (ir string, err error) {
	global, _ := symbol.Collect(program)
	g := New(global, opts)
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			ir, err = "", ie
		}
	}()
	g.Emit(program)
	return g.mod.String(), nil
}

// fail 报告后端内部错误
func (g *Generator) fail(key string, args ...any) {
	panic(&InternalError{Message: i18n.T(key, args...)})
}

// queue 延后生成函数体，避免在另一个函数降级途中切换上下文
func (g *Generator) queue(job func()) {
	g.pending = append(g.pending, job)
}

func (g *Generator) drain() {
	for len(g.pending) > 0 {
		job := g.pending[0]
		g.pending = g.pending[1:]
		job()
	}
}

// Emit 处理顺序：类、枚举、函数、方法，最后按需合成 main
func (g *Generator) Emit(program *parser.Program) {
	var funcs []*parser.FuncDecl
	var classes []*parser.ClassDecl
	var top []parser.Statement
	hasMain := false

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *parser.ClassDecl:
			classes = append(classes, s)
		case *parser.EnumDecl:
			if sym := g.global.LookupLocal(s.Name); sym != nil && sym.Kind == symbol.SymbolEnum {
				g.enums[s.Name] = sym.Members
			}
		case *parser.FuncDecl:
			funcs = append(funcs, s)
			if s.Name == "main" {
				hasMain = true
			}
		default:
			top = append(top, stmt)
		}
	}

	for _, decl := range classes {
		sym := g.global.LookupLocal(decl.Name)
		if sym == nil || sym.Class == nil || sym.Class.Decl != decl || sym.IsGeneric() {
			continue
		}
		g.registerClass(sym.Class)
	}

	// 合成 main 先降级，顶层变量成为模块全局，函数体才能引用
	var mainText string
	if !hasMain {
		mainText = g.lowerMain(top)
	}

	for _, fn := range funcs {
		sym := g.global.LookupLocal(fn.Name)
		if sym == nil || sym.Func != fn || sym.IsGeneric() {
			continue
		}
		g.emitFunc(fn, funcName(fn.Name), nil, nil)
	}
	g.drain()

	if mainText != "" {
		g.mod.funcs = append(g.mod.funcs, mainText)
	}
}

// lowerMain 把非声明的顶层语句合成为入口函数
func (g *Generator) lowerMain(top []parser.Statement) string {
	f := newFunction("main", "i32", nil)
	g.ctx = &funcCtx{fn: f, retType: types.Int, entry: true, topLvl: true}
	g.pushScope()
	for _, stmt := range top {
		g.lowerStatement(stmt)
	}
	if !f.terminated() {
		f.terminate("ret i32 0")
	}
	g.ctx = nil
	return f.String()
}

// funcName 用户函数名避开运行时符号
func funcName(name string) string {
	if _, ok := runtimeDecls[name]; ok {
		return "codon." + name
	}
	return name
}

// emitFunc 生成函数或方法体；self 非空时第一个参数是接收者
func (g *Generator) emitFunc(fn *parser.FuncDecl, name string, self *classLayout, subst map[string]string) {
	prev := g.ctx
	defer func() { g.ctx = prev }()

	retType := types.Substitute(fn.ReturnType, subst)
	if fn.IsProcedure || retType == "" {
		retType = types.Void
	}
	entry := name == "main" && self == nil

	irRet := g.irType(retType)
	if entry {
		irRet = "i32"
	}

	var params []string
	var incoming []value
	if self != nil {
		params = append(params, "ptr %self")
		incoming = append(incoming, value{ref: "%self", typ: self.typ})
	}
	for _, p := range fn.Params {
		pt := types.Substitute(p.Type, subst)
		ref := "%arg." + sanitize(p.Name)
		params = append(params, g.irType(pt)+" "+ref)
		incoming = append(incoming, value{ref: ref, typ: pt})
	}

	f := newFunction(name, irRet, params)
	g.ctx = &funcCtx{fn: f, retType: retType, entry: entry, subst: subst, self: self}
	g.pushScope()

	names := make([]string, 0, len(incoming))
	if self != nil {
		names = append(names, "self")
	}
	for _, p := range fn.Params {
		names = append(names, p.Name)
	}
	for i, in := range incoming {
		slot := g.declareLocal(names[i], in.typ)
		f.emit("store %s %s, ptr %s", g.irType(in.typ), in.ref, slot.slot)
	}

	for _, stmt := range fn.Body.Statements {
		g.lowerStatement(stmt)
	}
	if !f.terminated() {
		g.retZero()
	}
	g.mod.funcs = append(g.mod.funcs, f.String())
}

// retZero 落到函数末尾时返回零值
func (g *Generator) retZero() {
	f := g.ctx.fn
	if f.ret == "void" {
		f.terminate("ret void")
		return
	}
	f.terminate("ret %s %s", f.ret, zeroValue(f.ret))
}

// resolve 替换当前实例的类型参数
func (g *Generator) resolve(t string) string {
	if g.ctx == nil {
		return t
	}
	return types.Substitute(t, g.ctx.subst)
}

func (g *Generator) resolveAll(ts []string) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = g.resolve(t)
	}
	return out
}

func (g *Generator) pushScope() {
	g.ctx.scopes = append(g.ctx.scopes, make(map[string]*local))
}

func (g *Generator) popScope() {
	g.ctx.scopes = g.ctx.scopes[:len(g.ctx.scopes)-1]
}

// declareLocal 在当前作用域声明变量；合成 main 的最外层变量落到模块全局
func (g *Generator) declareLocal(name, typ string) *local {
	irType := g.irType(typ)
	if irType == "void" {
		irType = "i32"
	}
	var l *local
	if g.ctx.topLvl && len(g.ctx.scopes) == 1 {
		gname := fmt.Sprintf("@gv.%s", name)
		if _, dup := g.globals[name]; dup {
			gname = fmt.Sprintf("@gv.%s.%d", name, len(g.globals))
		}
		g.mod.globals = append(g.mod.globals,
			fmt.Sprintf("%s = internal global %s %s", gname, irType, zeroValue(irType)))
		l = &local{slot: gname, typ: typ}
		g.globals[name] = l
	} else {
		l = &local{slot: g.ctx.fn.alloca(irType, sanitize(name)), typ: typ}
	}
	g.ctx.scopes[len(g.ctx.scopes)-1][name] = l
	return l
}

// lookupLocal 由内向外查找变量，最后查模块全局
func (g *Generator) lookupLocal(name string) *local {
	for i := len(g.ctx.scopes) - 1; i >= 0; i-- {
		if l, ok := g.ctx.scopes[i][name]; ok {
			return l
		}
	}
	return g.globals[name]
}

// sanitize 栈槽名只保留字母数字与下划线
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
