package checker

import (
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// pushScope 进入新的块作用域，返回恢复函数
func (c *Checker) pushScope() func() {
	prev := c.scope
	c.scope = symbol.NewScope(prev)
	return func() { c.scope = prev }
}

// checkStatement 检查单个语句
func (c *Checker) checkStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.VarDecl:
		c.checkVarDecl(s)
	case *parser.AssignStmt:
		c.checkAssign(s)
	case *parser.ExpressionStmt:
		c.exprType(s.Expression)
	case *parser.PrintStmt:
		for _, arg := range s.Args {
			c.typeOf(arg)
		}
	case *parser.BlockStmt:
		c.checkBlock(s)
	case *parser.IfStmt:
		c.checkCondition("if", s.Condition)
		c.checkBlock(s.Consequence)
		for _, elif := range s.Elifs {
			c.checkCondition("elif", elif.Condition)
			c.checkBlock(elif.Consequence)
		}
		if s.Alternative != nil {
			c.checkBlock(s.Alternative)
		}
	case *parser.WhileStmt:
		c.checkCondition("while", s.Condition)
		c.checkLoopBody(s.Body)
	case *parser.LoopStmt:
		c.checkLoopBody(s.Body)
	case *parser.ForStmt:
		c.checkFor(s)
	case *parser.ForInStmt:
		c.checkForIn(s)
	case *parser.BreakStmt:
		if c.loopDepth == 0 {
			c.errorAt(s.Token, diag.CodeLoopControl, i18n.T(i18n.ErrLoopControlOutsideLoop, "break"))
		}
	case *parser.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorAt(s.Token, diag.CodeLoopControl, i18n.T(i18n.ErrLoopControlOutsideLoop, "continue"))
		}
	case *parser.ReturnStmt:
		c.checkReturn(s)
	}
}

// checkBlock 在新作用域中检查代码块
func (c *Checker) checkBlock(block *parser.BlockStmt) {
	defer c.pushScope()()
	for _, stmt := range block.Statements {
		c.checkStatement(stmt)
	}
}

// checkLoopBody 检查循环体，期间允许 break / continue
func (c *Checker) checkLoopBody(body *parser.BlockStmt) {
	c.loopDepth++
	c.checkBlock(body)
	c.loopDepth--
}

// checkCondition 条件必须为 bool
func (c *Checker) checkCondition(keyword string, cond parser.Expression) {
	t := c.typeOf(cond)
	if t != types.Bool && t != types.Unknown {
		c.errorAt(cond.StartToken(), diag.CodeConditionNotBool, i18n.T(i18n.ErrConditionNotBool, keyword, t))
	}
}

// checkVarDecl 检查 var / const 声明
func (c *Checker) checkVarDecl(s *parser.VarDecl) {
	if s.Const && s.Value == nil {
		c.errorAt(s.Token, diag.CodeConstWithoutValue, i18n.T(i18n.ErrConstWithoutValue, s.Name))
	}
	if s.Type != "" && !c.scope.IsKnownType(s.Type) {
		c.errorAt(s.Token, diag.CodeUnknownType, i18n.T(i18n.ErrUnknownVarType, s.Type, s.Name))
	}

	typ := s.Type
	if s.Value != nil {
		valueType := c.typeOf(s.Value)
		if typ == "" {
			typ = valueType
		} else if !c.compatible(typ, valueType) {
			c.errorAt(s.Value.StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, typ, valueType))
		}
	}
	if typ == "" {
		typ = types.Unknown
	}

	kind := symbol.SymbolVar
	if s.Const {
		kind = symbol.SymbolConst
	}
	if !c.scope.Define(&symbol.Symbol{Name: s.Name, Type: typ, Kind: kind, Token: s.Token}) {
		c.errorAt(s.Token, diag.CodeDuplicate, i18n.T(i18n.ErrDuplicateSymbol, s.Name))
	}
}

// checkAssign 检查赋值；对未声明名字的赋值即声明
func (c *Checker) checkAssign(s *parser.AssignStmt) {
	valueType := c.typeOf(s.Value)

	ident, ok := s.Target.(*parser.Identifier)
	if !ok {
		targetType := c.typeOf(s.Target)
		if !c.compatible(targetType, valueType) {
			c.errorAt(s.Value.StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, targetType, valueType))
		}
		return
	}

	sym := c.scope.Lookup(ident.Value)
	if sym == nil {
		c.scope.Define(&symbol.Symbol{Name: ident.Value, Type: valueType, Kind: symbol.SymbolVar, Token: ident.Token})
		return
	}

	switch sym.Kind {
	case symbol.SymbolConst:
		c.errorAt(ident.Token, diag.CodeAssignConst, i18n.T(i18n.ErrAssignToConst, ident.Value))
	case symbol.SymbolVar, symbol.SymbolParam:
		if sym.Type == types.Unknown {
			sym.Type = valueType
			return
		}
		if !c.compatible(sym.Type, valueType) {
			c.errorAt(s.Value.StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, sym.Type, valueType))
		}
	default:
		c.errorAt(ident.Token, diag.CodeUndefinedVariable, i18n.T(i18n.ErrUndefinedVariable, ident.Value))
	}
}

// checkFor 检查三段式 for，init 中的变量只在循环内可见
func (c *Checker) checkFor(s *parser.ForStmt) {
	defer c.pushScope()()
	if s.Init != nil {
		c.checkStatement(s.Init)
	}
	if s.Condition != nil {
		c.checkCondition("for", s.Condition)
	}
	if s.Post != nil {
		c.checkStatement(s.Post)
	}
	c.checkLoopBody(s.Body)
}

// checkForIn 检查 for (x in e)：范围绑定 int，数组绑定元素类型，字符串绑定 char
func (c *Checker) checkForIn(s *parser.ForInStmt) {
	iterType := c.typeOf(s.Iterable)
	elem := types.Unknown
	switch {
	case iterType == types.Range:
		elem = types.Int
	case types.IsStringLike(iterType):
		elem = types.Char
	case types.IsArray(iterType):
		elem, _ = types.ElemOf(iterType)
	case iterType == types.Unknown:
	default:
		c.errorAt(s.Iterable.StartToken(), diag.CodeNotIterable, i18n.T(i18n.ErrNotIterable, iterType))
	}

	defer c.pushScope()()
	c.scope.Define(&symbol.Symbol{Name: s.Var, Type: elem, Kind: symbol.SymbolVar, Token: s.VarToken})
	c.checkLoopBody(s.Body)
}

// checkReturn 检查 return 与所在函数的返回类型
func (c *Checker) checkReturn(s *parser.ReturnStmt) {
	if c.fn == nil {
		c.errorAt(s.Token, diag.CodeReturnOutside, i18n.T(i18n.ErrReturnOutsideFunction))
		if s.Value != nil {
			c.typeOf(s.Value)
		}
		return
	}

	if s.Value == nil {
		if !c.fn.isProcedure && c.fn.returnType != types.Void {
			c.errorAt(s.Token, diag.CodeReturnType,
				i18n.T(i18n.ErrReturnTypeMismatch, c.fn.name, c.fn.returnType, types.Void))
		}
		return
	}

	valueType := c.typeOf(s.Value)
	if c.fn.isProcedure || c.fn.returnType == types.Void {
		c.errorAt(s.Token, diag.CodeProcedureReturn, i18n.T(i18n.ErrProcedureReturnsValue, valueType))
		return
	}
	if !returnCompatible(c.fn.returnType, valueType) {
		c.errorAt(s.Value.StartToken(), diag.CodeReturnType,
			i18n.T(i18n.ErrReturnTypeMismatch, c.fn.name, c.fn.returnType, valueType))
	}
}
