package codegen

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// mapType 映射的固定布局：键数组、值数组、容量、元素个数
const mapType = "%codon.map"

// classLayout 一个具体类（泛型类的某个实例）的内存布局
type classLayout struct {
	name     string // IR 中的名字，如 Box_int
	typ      string // 源语言类型，如 Box<int>
	info     *symbol.ClassInfo
	subst    map[string]string
	fields   []string // 具体字段类型，声明顺序
	irFields []string
	size     int
}

// fieldIndex 字段下标
func (l *classLayout) fieldIndex(name string) int {
	return l.info.FieldIndex(name)
}

// structType IR 结构体类型名
func (l *classLayout) structType() string {
	return "%" + l.name
}

// irType 源语言类型到 IR 类型；枚举按 i32，其余引用类型都是 ptr
func (g *Generator) irType(t string) string {
	switch t {
	case types.Int:
		return "i32"
	case types.Float, types.Decimal:
		return "double"
	case types.Bool:
		return "i1"
	case types.Char, types.Nbase:
		return "i8"
	case types.Void:
		return "void"
	}
	if _, ok := g.enums[t]; ok {
		return "i32"
	}
	return "ptr"
}

// sizeOf IR 类型的字节数
func sizeOf(irType string) int {
	switch irType {
	case "i1", "i8":
		return 1
	case "i32":
		return 4
	}
	return 8
}

// zeroValue IR 类型的零值
func zeroValue(irType string) string {
	switch irType {
	case "double":
		return "0.0"
	case "i1":
		return "false"
	case "ptr":
		return "null"
	}
	return "0"
}

// alignedSize 按自然对齐累加字段大小，与 IR 结构体布局一致
func alignedSize(irFields []string) int {
	size, maxAlign := 0, 1
	for _, f := range irFields {
		s := sizeOf(f)
		if size%s != 0 {
			size += s - size%s
		}
		size += s
		if s > maxAlign {
			maxAlign = s
		}
	}
	if size%maxAlign != 0 {
		size += maxAlign - size%maxAlign
	}
	if size == 0 {
		size = 1
	}
	return size
}

// structOf 匿名结构体类型，用于元组与范围
func structOf(irFields []string) string {
	return "{ " + strings.Join(irFields, ", ") + " }"
}

// tupleLayout 元组的 IR 结构与大小
func (g *Generator) tupleLayout(elems []string) (string, []string, int) {
	ir := make([]string, len(elems))
	for i, e := range elems {
		ir[i] = g.irType(e)
	}
	return structOf(ir), ir, alignedSize(ir)
}

// registerClass 计算非泛型类的布局
func (g *Generator) registerClass(info *symbol.ClassInfo) *classLayout {
	return g.layoutFor(info, nil)
}

// layoutOf 根据源语言类型找到类布局，泛型类按需实例化
func (g *Generator) layoutOf(t string) *classLayout {
	if l, ok := g.layouts[t]; ok {
		return l
	}
	base, args := types.Split(t)
	sym := g.global.LookupLocal(base)
	if sym == nil || sym.Kind != symbol.SymbolClass {
		return nil
	}
	if len(args) != len(sym.Class.TypeParams) {
		g.fail(i18n.ErrInternalUnresolved, t)
	}
	return g.layoutFor(sym.Class, args)
}

// layoutFor 生成并缓存布局；泛型实例的方法体排队稍后生成
func (g *Generator) layoutFor(info *symbol.ClassInfo, args []string) *classLayout {
	typ := types.Generic(info.Name, args...)
	if l, ok := g.layouts[typ]; ok {
		return l
	}

	l := &classLayout{
		name:  types.Mangle(info.Name, args),
		typ:   typ,
		info:  info,
		subst: types.Bind(info.TypeParams, args),
	}
	g.layouts[typ] = l
	if len(args) > 0 {
		g.instances[typ] = l.name
	}

	for _, f := range info.Fields {
		ft := types.Substitute(f.Type, l.subst)
		l.fields = append(l.fields, ft)
		l.irFields = append(l.irFields, g.irType(ft))
	}
	l.size = alignedSize(l.irFields)
	g.mod.types = append(g.mod.types, fmt.Sprintf("%s = type %s", l.structType(), structOf(l.irFields)))

	for _, m := range info.Decl.Methods {
		if info.Methods[m.Name] == nil || info.Methods[m.Name].Func != m || len(m.TypeParams) > 0 {
			continue
		}
		method := m
		g.queue(func() {
			g.emitFunc(method, l.name+"_"+method.Name, l, l.subst)
		})
	}
	return l
}
