// Package checker implements the two-pass semantic analysis: pass one hoists
// every top-level function, class and enum into the global scope, pass two
// walks every body with chained scopes and infers expression types.
package checker

import (
	"sort"

	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// funcContext 当前正在检查的函数
type funcContext struct {
	name        string
	returnType  string
	isProcedure bool
}

// Checker 语义分析器
type Checker struct {
	global    *symbol.Scope
	scope     *symbol.Scope
	fn        *funcContext
	loopDepth int
	errors    diag.List
}

// New 创建语义分析器
func New() *Checker {
	global := symbol.NewGlobal()
	return &Checker{global: global, scope: global}
}

// Analyze 检查整个程序并返回语义错误
func Analyze(program *parser.Program) diag.List {
	c := New()
	c.Check(program)
	return c.Errors()
}

// Errors 返回按位置排序的语义错误
func (c *Checker) Errors() diag.List {
	sorted := make(diag.List, len(c.errors))
	copy(sorted, c.errors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Column < sorted[j].Column
	})
	return sorted
}

// Global 返回全局作用域，顶层变量也定义在这里
func (c *Checker) Global() *symbol.Scope {
	return c.global
}

// errorAt 在 token 处记录语义错误
func (c *Checker) errorAt(tok lexer.Token, code, msg string) {
	c.errors.Add(diag.Semantic, code, tok.Line, tok.Column, msg)
}

// Check 两遍检查：先收集声明，再检查顶层语句和所有函数体
func (c *Checker) Check(program *parser.Program) {
	collector := symbol.NewCollector(c.global)
	collector.CollectProgram(program)
	c.errors = append(c.errors, collector.Errors()...)

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *parser.ClassDecl:
			c.checkClassSignature(s)
		case *parser.FuncDecl:
			c.checkSignature(s, s.TypeParams)
		}
	}

	// 顶层语句先于函数体检查，函数体可以看到所有全局变量
	for _, stmt := range program.Statements {
		switch stmt.(type) {
		case *parser.FuncDecl, *parser.ClassDecl, *parser.EnumDecl:
		default:
			c.checkStatement(stmt)
		}
	}

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *parser.FuncDecl:
			c.checkFunc(s, nil)
		case *parser.ClassDecl:
			sym := c.global.LookupLocal(s.Name)
			if sym == nil || sym.Class == nil || sym.Class.Decl != s {
				continue
			}
			for _, m := range s.Methods {
				c.checkFunc(m, sym.Class)
			}
		}
	}
}

// typeParamScope 创建定义了类型参数的作用域
func (c *Checker) typeParamScope(parent *symbol.Scope, params []string) *symbol.Scope {
	scope := symbol.NewScope(parent)
	for _, p := range params {
		scope.Define(&symbol.Symbol{Name: p, Type: p, Kind: symbol.SymbolType})
	}
	return scope
}

// checkClassSignature 检查字段重复与字段类型
func (c *Checker) checkClassSignature(decl *parser.ClassDecl) {
	scope := c.typeParamScope(c.global, decl.TypeParams)
	seen := make(map[string]bool)
	for _, f := range decl.Fields {
		if seen[f.Name] {
			c.errorAt(f.Token, diag.CodeDuplicateField, i18n.T(i18n.ErrDuplicateField, f.Name, decl.Name))
			continue
		}
		seen[f.Name] = true
		if !scope.IsKnownType(f.Type) {
			c.errorAt(f.Token, diag.CodeUnknownType, i18n.T(i18n.ErrUnknownFieldType, f.Type, f.Name))
		}
	}
	methods := make(map[string]bool)
	for _, m := range decl.Methods {
		if methods[m.Name] {
			c.errorAt(m.Token, diag.CodeDuplicate, i18n.T(i18n.ErrDuplicateSymbol, m.Name))
			continue
		}
		methods[m.Name] = true
		c.checkSignature(m, append(append([]string(nil), decl.TypeParams...), m.TypeParams...))
	}
}

// checkSignature 检查参数类型是否可解析
func (c *Checker) checkSignature(fn *parser.FuncDecl, typeParams []string) {
	scope := c.typeParamScope(c.global, typeParams)
	for _, p := range fn.Params {
		if !scope.IsKnownType(p.Type) {
			c.errorAt(p.Token, diag.CodeUnknownType, i18n.T(i18n.ErrUnknownParamType, p.Type, p.Name))
		}
	}
}

// checkFunc 检查函数或方法体
func (c *Checker) checkFunc(fn *parser.FuncDecl, class *symbol.ClassInfo) {
	var typeParams []string
	if class != nil {
		typeParams = append(typeParams, class.TypeParams...)
	}
	typeParams = append(typeParams, fn.TypeParams...)

	prevScope, prevFn, prevLoop := c.scope, c.fn, c.loopDepth
	defer func() {
		c.scope, c.fn, c.loopDepth = prevScope, prevFn, prevLoop
	}()

	// 泛型体内类型参数按 unknown 检查，具体类型在实例化时确定
	opaque := make(map[string]string, len(typeParams))
	for _, tp := range typeParams {
		opaque[tp] = types.Unknown
	}

	c.scope = symbol.NewScope(c.typeParamScope(c.global, typeParams))
	c.fn = &funcContext{
		name:        fn.Name,
		returnType:  types.Substitute(fn.ReturnType, opaque),
		isProcedure: fn.IsProcedure,
	}
	c.loopDepth = 0

	if class != nil {
		c.scope.Define(&symbol.Symbol{
			Name:  "self",
			Type:  types.Substitute(types.Generic(class.Name, class.TypeParams...), opaque),
			Kind:  symbol.SymbolParam,
			Token: fn.Token,
		})
	}
	for _, p := range fn.Params {
		if !c.scope.Define(&symbol.Symbol{
			Name:  p.Name,
			Type:  types.Substitute(p.Type, opaque),
			Kind:  symbol.SymbolParam,
			Token: p.Token,
		}) {
			c.errorAt(p.Token, diag.CodeDuplicate, i18n.T(i18n.ErrDuplicateSymbol, p.Name))
		}
	}

	for _, stmt := range fn.Body.Statements {
		c.checkStatement(stmt)
	}

	if !fn.IsProcedure && fn.ReturnType != types.Void && !containsReturn(fn.Body) {
		c.errorAt(fn.Token, diag.CodeMissingReturn, i18n.T(i18n.ErrMissingReturn, fn.Name))
	}
}

// containsReturn 结构性地判断函数体中是否出现 return
func containsReturn(stmt parser.Statement) bool {
	switch s := stmt.(type) {
	case *parser.ReturnStmt:
		return true
	case *parser.BlockStmt:
		if s == nil {
			return false
		}
		for _, inner := range s.Statements {
			if containsReturn(inner) {
				return true
			}
		}
	case *parser.IfStmt:
		if containsReturn(s.Consequence) {
			return true
		}
		for _, elif := range s.Elifs {
			if containsReturn(elif.Consequence) {
				return true
			}
		}
		if s.Alternative != nil {
			return containsReturn(s.Alternative)
		}
	case *parser.WhileStmt:
		return containsReturn(s.Body)
	case *parser.LoopStmt:
		return containsReturn(s.Body)
	case *parser.ForStmt:
		return containsReturn(s.Body)
	case *parser.ForInStmt:
		return containsReturn(s.Body)
	}
	return false
}
