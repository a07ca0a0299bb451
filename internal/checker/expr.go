package checker

import (
	"math"
	"strconv"

	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// normalize 枚举类型按 int 处理
func (c *Checker) normalize(t string) string {
	if sym := c.scope.Lookup(t); sym != nil && sym.Kind == symbol.SymbolEnum {
		return types.Int
	}
	return t
}

// compatible 带枚举归一化的赋值兼容判断
func (c *Checker) compatible(target, value string) bool {
	return assignable(c.normalize(target), c.normalize(value))
}

// typeOf 推导作为值使用的表达式类型；void 调用结果在这里报错
func (c *Checker) typeOf(expr parser.Expression) string {
	t := c.exprType(expr)
	if t == types.Void {
		c.errorAt(expr.StartToken(), diag.CodeVoidValue, i18n.T(i18n.ErrVoidValue, calleeName(expr)))
		return types.Unknown
	}
	return t
}

// calleeName 诊断中使用的被调用者名字
func calleeName(expr parser.Expression) string {
	if call, ok := expr.(*parser.CallExpr); ok {
		switch fn := call.Function.(type) {
		case *parser.Identifier:
			return fn.Value
		case *parser.FieldAccess:
			return fn.Field
		}
	}
	return expr.TokenLiteral()
}

// exprType 推导表达式的静态类型，错误时返回 unknown；调用语句可以是 void
func (c *Checker) exprType(expr parser.Expression) string {
	switch e := expr.(type) {
	case *parser.IntegerLiteral:
		if e.Value > math.MaxInt32 {
			c.errorAt(e.Token, diag.CodeIntOutOfRange,
				i18n.T(i18n.ErrIntOutOfRange, strconv.FormatInt(e.Value, 10)))
			return types.Unknown
		}
		return types.Int
	case *parser.FloatLiteral:
		return types.Float
	case *parser.StringLiteral:
		return types.String
	case *parser.CharLiteral:
		return types.Char
	case *parser.BioLiteral:
		return e.Kind
	case *parser.BooleanLiteral:
		return types.Bool
	case *parser.NullLiteral:
		return types.Null
	case *parser.Identifier:
		return c.identType(e)
	case *parser.BinaryExpr:
		return c.binaryExprType(e)
	case *parser.RangeExpr:
		start, end := c.typeOf(e.Start), c.typeOf(e.End)
		t, ok := binaryType("..", start, end)
		if !ok {
			c.errorAt(e.Token, diag.CodeBinaryTypes, i18n.T(i18n.ErrBinaryTypes, start, end, ".."))
		}
		return t
	case *parser.UnaryExpr:
		return c.unaryType(e)
	case *parser.PostfixExpr:
		return c.postfixType(e)
	case *parser.CallExpr:
		return c.callType(e)
	case *parser.FieldAccess:
		return c.fieldType(e)
	case *parser.IndexExpr:
		return c.indexType(e)
	case *parser.TupleLiteral:
		elems := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.typeOf(el)
		}
		return types.TupleOf(elems...)
	case *parser.ArrayLiteral:
		return c.arrayLiteralType(e)
	case *parser.NewObject:
		return c.newObjectType(e)
	case *parser.NewArray:
		c.checkSize(e.Size)
		c.checkElemType(e.ElemType, e)
		return types.ArrayOf(e.ElemType)
	case *parser.NewArray2D:
		c.checkSize(e.Rows)
		c.checkSize(e.Cols)
		c.checkElemType(e.ElemType, e)
		return types.ArrayOf(types.ArrayOf(e.ElemType))
	case *parser.NewMap:
		c.checkSize(e.Capacity)
		t := types.MapOf(e.KeyType, e.ValueType)
		c.checkElemType(t, e)
		return t
	}
	return types.Unknown
}

// identType 变量引用；类名和枚举名本身作为类型返回
func (c *Checker) identType(e *parser.Identifier) string {
	sym := c.scope.Lookup(e.Value)
	if sym == nil {
		c.errorAt(e.Token, diag.CodeUndefinedVariable, i18n.T(i18n.ErrUndefinedVariable, e.Value))
		return types.Unknown
	}
	if sym.Kind == symbol.SymbolFunc {
		c.errorAt(e.Token, diag.CodeUndefinedVariable, i18n.T(i18n.ErrNotAValue, e.Value))
		return types.Unknown
	}
	return sym.Type
}

func (c *Checker) binaryExprType(e *parser.BinaryExpr) string {
	left, right := c.typeOf(e.Left), c.typeOf(e.Right)
	t, ok := binaryType(e.Operator, c.normalize(left), c.normalize(right))
	if !ok {
		c.errorAt(e.Token, diag.CodeBinaryTypes, i18n.T(i18n.ErrBinaryTypes, left, right, e.Operator))
	}
	return t
}

func (c *Checker) unaryType(e *parser.UnaryExpr) string {
	// -2147483648 是 int 的最小值，字面量本身越界
	if lit, ok := e.Operand.(*parser.IntegerLiteral); ok && e.Operator == "-" && lit.Value == -math.MinInt32 {
		return types.Int
	}
	t := c.normalize(c.typeOf(e.Operand))
	if t == types.Unknown {
		return t
	}
	switch e.Operator {
	case "-", "+":
		if !types.IsNumeric(t) {
			c.errorAt(e.Token, diag.CodeUnaryType, i18n.T(i18n.ErrUnaryNumeric, e.Operator, t))
			return types.Unknown
		}
	case "!":
		if t != types.Bool {
			c.errorAt(e.Token, diag.CodeUnaryType, i18n.T(i18n.ErrUnaryBool, e.Operator, t))
			return types.Unknown
		}
	case "~":
		if t != types.Int {
			c.errorAt(e.Token, diag.CodeUnaryType, i18n.T(i18n.ErrUnaryInt, e.Operator, t))
			return types.Unknown
		}
	}
	return t
}

func (c *Checker) postfixType(e *parser.PostfixExpr) string {
	if ident, ok := e.Operand.(*parser.Identifier); ok {
		if sym := c.scope.Lookup(ident.Value); sym != nil && sym.Kind == symbol.SymbolConst {
			c.errorAt(ident.Token, diag.CodeAssignConst, i18n.T(i18n.ErrAssignToConst, ident.Value))
		}
	}
	t := c.normalize(c.typeOf(e.Operand))
	if t != types.Unknown && !types.IsNumeric(t) {
		c.errorAt(e.Token, diag.CodeUnaryType, i18n.T(i18n.ErrUnaryNumeric, e.Operator, t))
		return types.Unknown
	}
	return t
}

// argTypes 推导全部实参类型
func (c *Checker) argTypes(args []parser.Expression) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = c.typeOf(a)
	}
	return out
}

// callType 普通函数、构造函数（类名调用）与方法调用
func (c *Checker) callType(e *parser.CallExpr) string {
	switch fn := e.Function.(type) {
	case *parser.Identifier:
		sym := c.scope.Lookup(fn.Value)
		if sym == nil {
			c.argTypes(e.Arguments)
			c.errorAt(fn.Token, diag.CodeUndefinedFunction, i18n.T(i18n.ErrUndefinedFunction, fn.Value))
			return types.Unknown
		}
		switch sym.Kind {
		case symbol.SymbolClass:
			return c.constructType(fn.Value, sym, e.TypeArgs, e.Arguments, fn)
		case symbol.SymbolFunc:
			return c.checkCall(fn.Value, sym, nil, e.TypeArgs, e.Arguments, fn)
		}
		c.argTypes(e.Arguments)
		c.errorAt(fn.Token, diag.CodeUndefinedFunction, i18n.T(i18n.ErrUndefinedFunction, fn.Value))
		return types.Unknown
	case *parser.FieldAccess:
		objType := c.typeOf(fn.Object)
		if objType == types.Unknown {
			c.argTypes(e.Arguments)
			return types.Unknown
		}
		info, subst := c.scope.InstanceOf(objType)
		if info == nil {
			c.argTypes(e.Arguments)
			c.errorAt(fn.Token, diag.CodeFieldOnNonClass, i18n.T(i18n.ErrFieldOnNonClass, fn.Field, objType))
			return types.Unknown
		}
		method := info.Methods[fn.Field]
		if method == nil {
			c.argTypes(e.Arguments)
			c.errorAt(fn.Token, diag.CodeUnknownMember, i18n.T(i18n.ErrUnknownField, fn.Field, info.Name))
			return types.Unknown
		}
		return c.checkCall(info.Name+"."+fn.Field, method, subst, e.TypeArgs, e.Arguments, fn.Object)
	}
	c.typeOf(e.Function)
	c.argTypes(e.Arguments)
	return types.Unknown
}

// checkCall 校验参数个数、推导泛型实参并检查实参类型
func (c *Checker) checkCall(name string, sym *symbol.Symbol, subst map[string]string,
	typeArgs []string, args []parser.Expression, at parser.Node) string {
	argTypes := c.argTypes(args)

	if len(args) != sym.ParamCount {
		c.errorAt(at.StartToken(), diag.CodeArity, i18n.T(i18n.ErrArityMismatch, name, sym.ParamCount, len(args)))
		return types.Substitute(sym.ReturnType, subst)
	}

	full := make(map[string]string, len(subst)+len(sym.TypeParams))
	for k, v := range subst {
		full[k] = v
	}
	if len(sym.TypeParams) > 0 {
		switch {
		case len(typeArgs) > 0 && len(typeArgs) != len(sym.TypeParams):
			c.errorAt(at.StartToken(), diag.CodeTypeArgCount,
				i18n.T(i18n.ErrTypeArgCount, name, len(sym.TypeParams), len(typeArgs)))
			return types.Unknown
		case len(typeArgs) > 0:
			for k, v := range types.Bind(sym.TypeParams, typeArgs) {
				full[k] = v
			}
		default:
			for i, p := range sym.ParamTypes {
				types.Unify(p, argTypes[i], sym.TypeParams, full)
			}
		}
	}

	for i, p := range sym.ParamTypes {
		want := types.Substitute(p, full)
		if !c.compatible(want, argTypes[i]) {
			c.errorAt(args[i].StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, want, argTypes[i]))
		}
	}
	return types.Substitute(sym.ReturnType, full)
}

// constructType 类名调用或 new：实参按声明顺序初始化字段
func (c *Checker) constructType(name string, sym *symbol.Symbol, typeArgs []string,
	args []parser.Expression, at parser.Node) string {
	argTypes := c.argTypes(args)
	info := sym.Class

	if len(typeArgs) != len(info.TypeParams) {
		c.errorAt(at.StartToken(), diag.CodeTypeArgCount,
			i18n.T(i18n.ErrTypeArgCount, name, len(info.TypeParams), len(typeArgs)))
		return types.Unknown
	}
	for _, a := range typeArgs {
		if !c.scope.IsKnownType(a) {
			c.errorAt(at.StartToken(), diag.CodeUnknownType, i18n.T(i18n.ErrUnknownClass, a))
			return types.Unknown
		}
	}
	subst := types.Bind(info.TypeParams, typeArgs)

	if len(args) > len(info.Fields) {
		c.errorAt(at.StartToken(), diag.CodeArity, i18n.T(i18n.ErrArityMismatch, name, len(info.Fields), len(args)))
	} else {
		for i, t := range argTypes {
			want := types.Substitute(info.Fields[i].Type, subst)
			if !c.compatible(want, t) {
				c.errorAt(args[i].StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, want, t))
			}
		}
	}
	return types.Generic(name, typeArgs...)
}

func (c *Checker) newObjectType(e *parser.NewObject) string {
	sym := c.scope.Lookup(e.Class)
	if sym == nil || sym.Kind != symbol.SymbolClass {
		c.argTypes(e.Arguments)
		c.errorAt(e.Token, diag.CodeUnknownType, i18n.T(i18n.ErrUnknownClass, e.Class))
		return types.Unknown
	}
	return c.constructType(e.Class, sym, e.TypeArgs, e.Arguments, e)
}

// fieldType 字段访问、枚举成员与 .length
func (c *Checker) fieldType(e *parser.FieldAccess) string {
	if ident, ok := e.Object.(*parser.Identifier); ok {
		if sym := c.scope.Lookup(ident.Value); sym != nil && sym.Kind == symbol.SymbolEnum {
			if _, ok := sym.Members[e.Field]; !ok {
				c.errorAt(e.Token, diag.CodeUnknownMember, i18n.T(i18n.ErrUnknownField, e.Field, sym.Name))
				return types.Unknown
			}
			return types.Int
		}
	}

	objType := c.typeOf(e.Object)
	if objType == types.Unknown {
		return types.Unknown
	}
	if e.Field == "length" && (types.IsArray(objType) || types.IsStringLike(objType)) {
		return types.Int
	}

	info, subst := c.scope.InstanceOf(objType)
	if info == nil {
		c.errorAt(e.Token, diag.CodeFieldOnNonClass, i18n.T(i18n.ErrFieldOnNonClass, e.Field, objType))
		return types.Unknown
	}
	t, ok := info.FieldType(e.Field, subst)
	if !ok {
		c.errorAt(e.Token, diag.CodeUnknownMember, i18n.T(i18n.ErrUnknownField, e.Field, info.Name))
		return types.Unknown
	}
	return t
}

// isRange 下标是否为切片范围
func isRange(e parser.Expression) bool {
	switch v := e.(type) {
	case *parser.RangeExpr:
		return true
	case *parser.BinaryExpr:
		return v.Operator == ".."
	}
	return false
}

// indexType 数组、字符串、映射与元组下标
func (c *Checker) indexType(e *parser.IndexExpr) string {
	left := c.typeOf(e.Left)

	if isRange(e.Index) {
		c.typeOf(e.Index)
		switch {
		case left == types.Unknown:
			return left
		case types.IsArray(left):
			return left
		case types.IsStringLike(left):
			return types.String
		}
		c.errorAt(e.Token, diag.CodeIndexNonArray, i18n.T(i18n.ErrIndexNonArray, left))
		return types.Unknown
	}

	index := c.typeOf(e.Index)

	if key, value, ok := types.MapParts(left); ok {
		if !c.compatible(key, index) {
			c.errorAt(e.Index.StartToken(), diag.CodeMapKeyType, i18n.T(i18n.ErrMapKeyType, key, index))
		}
		return value
	}

	if left != types.Unknown && index != types.Unknown && c.normalize(index) != types.Int {
		c.errorAt(e.Index.StartToken(), diag.CodeIndexNotInt, i18n.T(i18n.ErrIndexNotInt, index))
	}

	switch {
	case left == types.Unknown:
		return left
	case types.IsArray(left):
		elem, _ := types.ElemOf(left)
		return elem
	case types.IsStringLike(left):
		return types.Char
	}
	if elems, ok := types.TupleElems(left); ok {
		if lit, ok := e.Index.(*parser.IntegerLiteral); ok && lit.Value >= 0 && int(lit.Value) < len(elems) {
			return elems[lit.Value]
		}
		return types.Unknown
	}
	c.errorAt(e.Token, diag.CodeIndexNonArray, i18n.T(i18n.ErrIndexNonArray, left))
	return types.Unknown
}

// arrayLiteralType 元素类型取数值拓宽后的公共类型
func (c *Checker) arrayLiteralType(e *parser.ArrayLiteral) string {
	if len(e.Elements) == 0 {
		return types.ArrayOf(types.Unknown)
	}
	elem := c.typeOf(e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := c.typeOf(el)
		switch {
		case types.IsNumeric(elem) && types.IsNumeric(t):
			elem = types.Widest(elem, t)
		case !c.compatible(elem, t):
			c.errorAt(el.StartToken(), diag.CodeAssignType, i18n.T(i18n.ErrAssignTypeMismatch, elem, t))
		}
	}
	return types.ArrayOf(elem)
}

// checkSize 数组大小与映射容量必须为 int
func (c *Checker) checkSize(size parser.Expression) {
	t := c.normalize(c.typeOf(size))
	if t != types.Int && t != types.Unknown {
		c.errorAt(size.StartToken(), diag.CodeArraySizeNotInt, i18n.T(i18n.ErrArraySizeNotInt, t))
	}
}

// checkElemType 元素类型必须可解析
func (c *Checker) checkElemType(t string, at parser.Node) {
	if !c.scope.IsKnownType(t) {
		c.errorAt(at.StartToken(), diag.CodeUnknownType, i18n.T(i18n.ErrUnknownClass, t))
	}
}
