package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// block 基本块
type block struct {
	label  string
	instrs []string
	term   bool
}

// function 正在生成的 IR 函数
type function struct {
	name    string
	ret     string   // IR 返回类型
	params  []string // "i32 %a"
	allocas []string // 全部放在入口块开头
	blocks  []*block
	cur     *block
	temps   int
	labels  map[string]int
	slots   map[string]int
}

func newFunction(name, ret string, params []string) *function {
	f := &function{
		name:   name,
		ret:    ret,
		params: params,
		labels: make(map[string]int),
		slots:  make(map[string]int),
	}
	entry := &block{label: "entry"}
	f.blocks = append(f.blocks, entry)
	f.cur = entry
	return f
}

// temp 新的 SSA 临时名
func (f *function) temp() string {
	f.temps++
	return fmt.Sprintf("%%t%d", f.temps)
}

// newBlock 创建基本块（尚未成为插入点）
func (f *function) newBlock(hint string) *block {
	f.labels[hint]++
	b := &block{label: fmt.Sprintf("%s.%d", hint, f.labels[hint])}
	f.blocks = append(f.blocks, b)
	return b
}

// setBlock 移动插入点
func (f *function) setBlock(b *block) {
	f.cur = b
}

// terminated 当前块是否已有终结指令
func (f *function) terminated() bool {
	return f.cur.term
}

// emit 追加一条指令；终结之后的死代码进入新的不可达块
func (f *function) emit(format string, args ...any) {
	if f.cur.term {
		f.setBlock(f.newBlock("dead"))
	}
	f.cur.instrs = append(f.cur.instrs, fmt.Sprintf(format, args...))
}

// value 追加一条产生值的指令并返回结果名
func (f *function) value(format string, args ...any) string {
	t := f.temp()
	f.emit("%s = "+format, append([]any{t}, args...)...)
	return t
}

// alloca 在入口块开头分配栈槽，插入点不变
func (f *function) alloca(irType, hint string) string {
	f.slots[hint]++
	slot := fmt.Sprintf("%%%s.addr%d", hint, f.slots[hint])
	f.allocas = append(f.allocas, fmt.Sprintf("%s = alloca %s", slot, irType))
	return slot
}

func (f *function) terminate(format string, args ...any) {
	f.emit(format, args...)
	f.cur.term = true
}

func (f *function) br(target *block) {
	f.terminate("br label %%%s", target.label)
}

func (f *function) condBr(cond string, then, els *block) {
	f.terminate("br i1 %s, label %%%s, label %%%s", cond, then.label, els.label)
}

// String 渲染函数；没有终结指令的块补 unreachable
func (f *function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "define %s @%s(%s) {\n", f.ret, f.name, strings.Join(f.params, ", "))
	for i, b := range f.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.label + ":\n")
		if i == 0 {
			for _, a := range f.allocas {
				sb.WriteString("  " + a + "\n")
			}
		}
		for _, in := range b.instrs {
			sb.WriteString("  " + in + "\n")
		}
		if !b.term {
			sb.WriteString("  unreachable\n")
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// module 一个 IR 模块
type module struct {
	name     string
	triple   string
	types    []string
	strings  []string
	strIndex map[string]string
	globals  []string
	declares map[string]string
	funcs    []string
}

func newModule(name, triple string) *module {
	return &module{
		name:     name,
		triple:   triple,
		strIndex: make(map[string]string),
		declares: make(map[string]string),
	}
}

// stringConst 字符串常量只生成一次，返回全局名
func (m *module) stringConst(s string) string {
	if name, ok := m.strIndex[s]; ok {
		return name
	}
	name := fmt.Sprintf("@.str.%d", len(m.strings))
	m.strings = append(m.strings, fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"",
		name, len(s)+1, escapeBytes(s)))
	m.strIndex[s] = name
	return name
}

// declare 按需声明外部运行时函数
func (m *module) declare(name, decl string) {
	m.declares[name] = decl
}

func (m *module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", m.name)
	fmt.Fprintf(&sb, "source_filename = \"%s\"\n", m.name)
	if m.triple != "" {
		fmt.Fprintf(&sb, "target triple = \"%s\"\n", m.triple)
	}

	section := func(lines []string) {
		if len(lines) == 0 {
			return
		}
		sb.WriteString("\n")
		for _, l := range lines {
			sb.WriteString(l + "\n")
		}
	}
	section(m.types)
	section(m.strings)
	section(m.globals)

	for _, fn := range m.funcs {
		sb.WriteString("\n")
		sb.WriteString(fn)
	}

	names := make([]string, 0, len(m.declares))
	for n := range m.declares {
		names = append(names, n)
	}
	sort.Strings(names)
	decls := make([]string, len(names))
	for i, n := range names {
		decls[i] = m.declares[n]
	}
	section(decls)
	return sb.String()
}

// escapeBytes 按 IR 字符串常量规则转义
func escapeBytes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	return sb.String()
}

// unescape 处理源码中的反斜杠转义
func unescape(raw string) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		case '"', '\'', '\\':
			sb.WriteByte(raw[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
