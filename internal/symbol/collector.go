package symbol

import (
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/types"
)

// Collector 收集顶层声明（函数、类、枚举）到全局作用域，使前向引用可以解析
type Collector struct {
	global *Scope
	errors diag.List
}

// NewCollector 创建收集器
func NewCollector(global *Scope) *Collector {
	return &Collector{global: global}
}

// Errors 返回重复声明错误
func (c *Collector) Errors() diag.List {
	return c.errors
}

// CollectProgram 收集整个程序的顶层声明
func (c *Collector) CollectProgram(program *parser.Program) {
	for _, stmt := range program.Statements {
		c.collectStatement(stmt)
	}
}

// collectStatement 收集单个语句中的声明
func (c *Collector) collectStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.FuncDecl:
		c.collectFunc(s)
	case *parser.ClassDecl:
		c.collectClass(s)
	case *parser.EnumDecl:
		c.collectEnum(s)
	}
}

func (c *Collector) collectFunc(decl *parser.FuncDecl) {
	c.define(FuncSymbol(decl))
}

func (c *Collector) collectClass(decl *parser.ClassDecl) {
	c.define(&Symbol{
		Name:  decl.Name,
		Type:  decl.Name,
		Kind:  SymbolClass,
		Token: decl.Token,
		Class: NewClassInfo(decl),
	})
}

func (c *Collector) collectEnum(decl *parser.EnumDecl) {
	members := make(map[string]int64, len(decl.Members))
	for _, m := range decl.Members {
		if _, dup := members[m.Name]; dup {
			c.errors.Add(diag.Semantic, diag.CodeDuplicate, m.Token.Line, m.Token.Column,
				i18n.T(i18n.ErrDuplicateSymbol, m.Name))
			continue
		}
		members[m.Name] = m.Value
	}
	c.define(&Symbol{
		Name:    decl.Name,
		Type:    decl.Name,
		Kind:    SymbolEnum,
		Token:   decl.Token,
		Members: members,
	})
}

// define 定义符号，重名时报告 SEM001
func (c *Collector) define(sym *Symbol) {
	if !c.global.Define(sym) {
		c.errors.Add(diag.Semantic, diag.CodeDuplicate, sym.Token.Line, sym.Token.Column,
			i18n.T(i18n.ErrDuplicateSymbol, sym.Name))
	}
}

// Collect 创建全局作用域并收集程序的顶层声明
func Collect(program *parser.Program) (*Scope, diag.List) {
	global := NewGlobal()
	c := NewCollector(global)
	c.CollectProgram(program)
	return global, c.errors
}

// InstanceOf 解析 "Box<int>" 这类类型：返回类信息与类型参数替换表
func (s *Scope) InstanceOf(t string) (*ClassInfo, map[string]string) {
	base, args := types.Split(t)
	sym := s.Lookup(base)
	if sym == nil || sym.Kind != SymbolClass {
		return nil, nil
	}
	return sym.Class, types.Bind(sym.Class.TypeParams, args)
}
