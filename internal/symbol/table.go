package symbol

import (
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/types"
)

// SymbolKind 符号类型
type SymbolKind int

const (
	SymbolType SymbolKind = iota
	SymbolFunc
	SymbolClass
	SymbolEnum
	SymbolVar
	SymbolConst
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolType:
		return "type"
	case SymbolFunc:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolEnum:
		return "enum"
	case SymbolVar:
		return "variable"
	case SymbolConst:
		return "const"
	case SymbolParam:
		return "parameter"
	}
	return "unknown"
}

// Symbol 表示一个符号
type Symbol struct {
	Name  string
	Type  string // 静态类型
	Kind  SymbolKind
	Token lexer.Token // 声明位置

	// 函数
	ParamTypes  []string
	ParamCount  int
	ReturnType  string
	IsProcedure bool
	TypeParams  []string
	Builtin     bool
	Func        *parser.FuncDecl

	// 类
	Class *ClassInfo

	// 枚举
	Members map[string]int64
}

// IsGeneric 是否为泛型函数或泛型类
func (s *Symbol) IsGeneric() bool {
	if s.Class != nil {
		return len(s.Class.TypeParams) > 0
	}
	return len(s.TypeParams) > 0
}

// ClassInfo 存储类的完整信息
type ClassInfo struct {
	Name       string
	TypeParams []string
	Fields     []*parser.ClassField // 声明顺序
	FieldTypes map[string]string
	Methods    map[string]*Symbol
	Decl       *parser.ClassDecl
}

// NewClassInfo 从类声明收集字段与方法签名；重复字段只保留第一个
func NewClassInfo(decl *parser.ClassDecl) *ClassInfo {
	info := &ClassInfo{
		Name:       decl.Name,
		TypeParams: decl.TypeParams,
		FieldTypes: make(map[string]string),
		Methods:    make(map[string]*Symbol),
		Decl:       decl,
	}
	for _, f := range decl.Fields {
		if _, dup := info.FieldTypes[f.Name]; dup {
			continue
		}
		info.Fields = append(info.Fields, f)
		info.FieldTypes[f.Name] = f.Type
	}
	for _, m := range decl.Methods {
		if _, dup := info.Methods[m.Name]; dup {
			continue
		}
		info.Methods[m.Name] = FuncSymbol(m)
	}
	return info
}

// FieldType 返回字段类型，subst 用于泛型类实例
func (c *ClassInfo) FieldType(name string, subst map[string]string) (string, bool) {
	t, ok := c.FieldTypes[name]
	if !ok {
		return "", false
	}
	return types.Substitute(t, subst), true
}

// FieldIndex 返回字段在布局中的下标
func (c *ClassInfo) FieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FuncSymbol 由函数声明构造符号
func FuncSymbol(fn *parser.FuncDecl) *Symbol {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return &Symbol{
		Name:        fn.Name,
		Type:        fn.ReturnType,
		Kind:        SymbolFunc,
		Token:       fn.Token,
		ParamTypes:  params,
		ParamCount:  len(params),
		ReturnType:  fn.ReturnType,
		IsProcedure: fn.IsProcedure,
		TypeParams:  fn.TypeParams,
		Func:        fn,
	}
}

// 内置函数
var builtins = []*Symbol{
	builtin("length", types.Int, types.Sized),
	builtin("input", types.String),
	builtin("inputInt", types.Int),
	builtin("printInt", types.Void, types.Int),
	builtin("substring", types.String, types.String, types.Int, types.Int),
}

func builtin(name, ret string, params ...string) *Symbol {
	return &Symbol{
		Name:        name,
		Type:        ret,
		Kind:        SymbolFunc,
		ParamTypes:  params,
		ParamCount:  len(params),
		ReturnType:  ret,
		IsProcedure: ret == types.Void,
		Builtin:     true,
	}
}

// IsBuiltin 判断名字是否为内置函数
func IsBuiltin(name string) bool {
	for _, b := range builtins {
		if b.Name == name {
			return true
		}
	}
	return false
}
