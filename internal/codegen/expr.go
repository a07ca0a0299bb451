package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// floatConst IR 的 double 常量用十六进制位模式，保证精确
func floatConst(v float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}

// lowerExpr 降级表达式
func (g *Generator) lowerExpr(expr parser.Expression) value {
	f := g.ctx.fn
	switch e := expr.(type) {
	case *parser.IntegerLiteral:
		return value{ref: fmt.Sprintf("%d", int32(e.Value)), typ: types.Int}
	case *parser.FloatLiteral:
		return value{ref: floatConst(e.Value), typ: types.Float}
	case *parser.StringLiteral:
		return value{ref: g.mod.stringConst(unescape(e.Value)), typ: types.String}
	case *parser.BioLiteral:
		return value{ref: g.mod.stringConst(e.Value), typ: e.Kind}
	case *parser.CharLiteral:
		c := unescape(e.Value)
		var b byte
		if len(c) > 0 {
			b = c[0]
		}
		return value{ref: fmt.Sprintf("%d", int8(b)), typ: types.Char}
	case *parser.BooleanLiteral:
		if e.Value {
			return value{ref: "true", typ: types.Bool}
		}
		return value{ref: "false", typ: types.Bool}
	case *parser.NullLiteral:
		return value{ref: "null", typ: types.Null}
	case *parser.Identifier:
		l := g.lookupLocal(e.Value)
		if l == nil {
			g.fail(i18n.ErrInternalUnresolved, e.Value)
		}
		return value{ref: f.value("load %s, ptr %s", g.irType(l.typ), l.slot), typ: l.typ}
	case *parser.BinaryExpr:
		if e.Operator == "&&" || e.Operator == "||" {
			return g.lowerLogical(e)
		}
		if e.Operator == ".." {
			return g.lowerRange(e.Left, e.Right)
		}
		return g.lowerBinary(e.Operator, g.lowerExpr(e.Left), g.lowerExpr(e.Right))
	case *parser.RangeExpr:
		return g.lowerRange(e.Start, e.End)
	case *parser.UnaryExpr:
		return g.lowerUnary(e)
	case *parser.PostfixExpr:
		return g.lowerPostfix(e)
	case *parser.CallExpr:
		return g.lowerCall(e)
	case *parser.FieldAccess:
		return g.lowerField(e)
	case *parser.IndexExpr:
		return g.lowerIndex(e)
	case *parser.TupleLiteral:
		return g.lowerTuple(e)
	case *parser.ArrayLiteral:
		return g.lowerArrayLiteral(e)
	case *parser.NewObject:
		typ := types.Generic(e.Class, g.resolveAll(e.TypeArgs)...)
		return g.construct(typ, e.Arguments)
	case *parser.NewArray:
		n := g.convert(g.lowerExpr(e.Size), types.Int)
		elem := g.resolve(e.ElemType)
		return value{ref: g.newArray(g.irType(elem), n.ref), typ: types.ArrayOf(elem)}
	case *parser.NewArray2D:
		return g.lowerArray2D(e)
	case *parser.NewMap:
		return g.newMap(g.resolve(e.KeyType), g.resolve(e.ValueType), e.Capacity)
	}
	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("%T", expr))
	return value{}
}

// convert 按目标类型做数值转换；类型已一致时原样返回
func (g *Generator) convert(v value, target string) value {
	f := g.ctx.fn
	from, to := g.irType(v.typ), g.irType(target)
	if target == "" || target == types.Unknown || from == to {
		if v.typ == types.Null || v.typ == types.Unknown {
			return value{ref: v.ref, typ: target}
		}
		return v
	}
	switch {
	case from == "i32" && to == "double":
		return value{ref: f.value("sitofp i32 %s to double", v.ref), typ: target}
	case from == "double" && to == "i32":
		return value{ref: f.value("fptosi double %s to i32", v.ref), typ: target}
	case from == "i8" && to == "i32", from == "i1" && to == "i32", from == "i1" && to == "i8":
		return value{ref: f.value("zext %s %s to %s", from, v.ref, to), typ: target}
	case from == "i32" && to == "i8", from == "i32" && to == "i1", from == "i8" && to == "i1":
		return value{ref: f.value("trunc %s %s to %s", from, v.ref, to), typ: target}
	case from == "i8" && to == "double":
		return value{ref: f.value("uitofp i8 %s to double", v.ref), typ: target}
	case v.ref == "null":
		return value{ref: zeroValue(to), typ: target}
	}
	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("%s -> %s", v.typ, target))
	return v
}

// lowerLogical && / || 短路：右操作数只在需要时求值，结果由 phi 汇合
func (g *Generator) lowerLogical(e *parser.BinaryExpr) value {
	f := g.ctx.fn
	hint := "and"
	if e.Operator == "||" {
		hint = "or"
	}
	left := g.convert(g.lowerExpr(e.Left), types.Bool)
	leftBlock := f.cur.label
	rhs := f.newBlock(hint + ".rhs")
	end := f.newBlock(hint + ".end")

	short := "false"
	if e.Operator == "&&" {
		f.condBr(left.ref, rhs, end)
	} else {
		f.condBr(left.ref, end, rhs)
		short = "true"
	}

	f.setBlock(rhs)
	right := g.convert(g.lowerExpr(e.Right), types.Bool)
	rightBlock := f.cur.label
	f.br(end)

	f.setBlock(end)
	ref := f.value("phi i1 [ %s, %%%s ], [ %s, %%%s ]", short, leftBlock, right.ref, rightBlock)
	return value{ref: ref, typ: types.Bool}
}

var (
	intArith   = map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "sdiv", "%": "srem"}
	floatArith = map[string]string{"+": "fadd", "-": "fsub", "*": "fmul", "/": "fdiv", "%": "frem"}
	bitwise    = map[string]string{"&": "and", "|": "or", "^": "xor", "<<": "shl", ">>": "ashr"}
	intCmp     = map[string]string{"==": "eq", "!=": "ne", "<": "slt", ">": "sgt", "<=": "sle", ">=": "sge"}
	charCmp    = map[string]string{"==": "eq", "!=": "ne", "<": "ult", ">": "ugt", "<=": "ule", ">=": "uge"}
	floatCmp   = map[string]string{"==": "oeq", "!=": "one", "<": "olt", ">": "ogt", "<=": "ole", ">=": "oge"}
)

// numericType 枚举值按 int 参与运算
func (g *Generator) numericType(t string) string {
	if _, ok := g.enums[t]; ok {
		return types.Int
	}
	return t
}

// lowerBinary 按操作数类型选择整数、浮点、字符串或指针指令
func (g *Generator) lowerBinary(op string, l, r value) value {
	f := g.ctx.fn
	lt, rt := g.numericType(l.typ), g.numericType(r.typ)

	switch {
	case types.IsStringLike(lt) && types.IsStringLike(rt):
		if op == "+" {
			typ := types.String
			if lt == rt {
				typ = lt
			}
			return value{ref: g.concat(l.ref, r.ref), typ: typ}
		}
		if pred, ok := intCmp[op]; ok {
			cmp := g.callRuntime("i32", "strcmp", "ptr "+l.ref, "ptr "+r.ref)
			return value{ref: f.value("icmp %s i32 %s, 0", pred, cmp), typ: types.Bool}
		}

	case types.IsNumeric(lt) && types.IsNumeric(rt):
		wide := types.Widest(lt, rt)
		l, r = g.convert(l, wide), g.convert(r, wide)
		if op == "**" {
			return g.power(l, r, wide)
		}
		if g.irType(wide) == "double" {
			if inst, ok := floatArith[op]; ok {
				return value{ref: f.value("%s double %s, %s", inst, l.ref, r.ref), typ: wide}
			}
			if pred, ok := floatCmp[op]; ok {
				return value{ref: f.value("fcmp %s double %s, %s", pred, l.ref, r.ref), typ: types.Bool}
			}
		} else {
			if inst, ok := intArith[op]; ok {
				return value{ref: f.value("%s i32 %s, %s", inst, l.ref, r.ref), typ: wide}
			}
			if inst, ok := bitwise[op]; ok {
				return value{ref: f.value("%s i32 %s, %s", inst, l.ref, r.ref), typ: types.Int}
			}
			if pred, ok := intCmp[op]; ok {
				return value{ref: f.value("icmp %s i32 %s, %s", pred, l.ref, r.ref), typ: types.Bool}
			}
		}

	case g.irType(lt) == "i8" && g.irType(rt) == "i8":
		if pred, ok := charCmp[op]; ok {
			return value{ref: f.value("icmp %s i8 %s, %s", pred, l.ref, r.ref), typ: types.Bool}
		}

	case lt == types.Bool && rt == types.Bool:
		if pred, ok := intCmp[op]; ok && (op == "==" || op == "!=") {
			return value{ref: f.value("icmp %s i1 %s, %s", pred, l.ref, r.ref), typ: types.Bool}
		}

	case op == "==" || op == "!=":
		// 引用比较地址
		pred := intCmp[op]
		return value{ref: f.value("icmp %s ptr %s, %s", pred, l.ref, r.ref), typ: types.Bool}
	}

	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("%s %s %s", l.typ, op, r.typ))
	return value{}
}

// power 经 pow 计算，整数结果截回 i32
func (g *Generator) power(l, r value, typ string) value {
	f := g.ctx.fn
	lf, rf := g.convert(l, types.Float), g.convert(r, types.Float)
	res := g.callRuntime("double", "pow", "double "+lf.ref, "double "+rf.ref)
	if g.irType(typ) == "double" {
		return value{ref: res, typ: typ}
	}
	return value{ref: f.value("fptosi double %s to i32", res), typ: typ}
}

func (g *Generator) lowerUnary(e *parser.UnaryExpr) value {
	f := g.ctx.fn
	v := g.lowerExpr(e.Operand)
	v.typ = g.numericType(v.typ)
	switch e.Operator {
	case "-":
		if g.irType(v.typ) == "double" {
			return value{ref: f.value("fneg double %s", v.ref), typ: v.typ}
		}
		return value{ref: f.value("sub i32 0, %s", v.ref), typ: v.typ}
	case "+":
		return v
	case "!":
		return value{ref: f.value("xor i1 %s, true", v.ref), typ: types.Bool}
	case "~":
		return value{ref: f.value("xor i32 %s, -1", v.ref), typ: types.Int}
	}
	g.fail(i18n.ErrInternalUnsupported, "unary "+e.Operator)
	return value{}
}

// lowerPostfix x++ / x--：写回新值，表达式值是旧值
func (g *Generator) lowerPostfix(e *parser.PostfixExpr) value {
	f := g.ctx.fn
	addr, typ := g.address(e.Operand)
	irType := g.irType(typ)
	old := f.value("load %s, ptr %s", irType, addr)
	var next string
	switch {
	case irType == "double" && e.Operator == "++":
		next = f.value("fadd double %s, %s", old, floatConst(1))
	case irType == "double":
		next = f.value("fsub double %s, %s", old, floatConst(1))
	case e.Operator == "++":
		next = f.value("add %s %s, 1", irType, old)
	default:
		next = f.value("sub %s %s, 1", irType, old)
	}
	f.emit("store %s %s, ptr %s", irType, next, addr)
	return value{ref: old, typ: typ}
}

// address 可赋值表达式的地址与类型
func (g *Generator) address(expr parser.Expression) (string, string) {
	switch e := expr.(type) {
	case *parser.Identifier:
		l := g.lookupLocal(e.Value)
		if l == nil {
			g.fail(i18n.ErrInternalUnresolved, e.Value)
		}
		return l.slot, l.typ
	case *parser.FieldAccess:
		obj := g.lowerExpr(e.Object)
		return g.fieldAddr(obj, e.Field)
	case *parser.IndexExpr:
		container := g.lowerExpr(e.Left)
		return g.elementAddr(container, g.lowerExpr(e.Index))
	}
	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("assignment to %T", expr))
	return "", ""
}

// lowerArgs 按形参类型降级实参
func (g *Generator) lowerArgs(args []parser.Expression, paramTypes []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		v := g.lowerExpr(a)
		if i < len(paramTypes) {
			v = g.convert(v, paramTypes[i])
		}
		out[i] = g.irType(v.typ) + " " + v.ref
	}
	return out
}

// call 生成调用指令；void 调用没有结果名
func (g *Generator) call(name, retType string, args []string) value {
	f := g.ctx.fn
	irRet := g.irType(retType)
	if irRet == "void" {
		f.emit("call void @%s(%s)", name, strings.Join(args, ", "))
		return value{typ: types.Void}
	}
	ref := f.value("call %s @%s(%s)", irRet, name, strings.Join(args, ", "))
	return value{ref: ref, typ: retType}
}

// lowerCall 内置函数、类构造、普通与泛型函数、方法调用
func (g *Generator) lowerCall(e *parser.CallExpr) value {
	switch fn := e.Function.(type) {
	case *parser.Identifier:
		sym := g.global.LookupLocal(fn.Value)
		if sym == nil {
			g.fail(i18n.ErrInternalUnresolved, fn.Value)
		}
		if sym.Builtin {
			if v, ok := g.lowerBuiltin(fn.Value, e.Arguments); ok {
				return v
			}
			g.fail(i18n.ErrInternalUnresolved, fn.Value)
		}
		switch sym.Kind {
		case symbol.SymbolClass:
			return g.construct(types.Generic(fn.Value, g.resolveAll(e.TypeArgs)...), e.Arguments)
		case symbol.SymbolFunc:
			return g.callFunc(sym, funcName(sym.Name), nil, nil, e.TypeArgs, e.Arguments)
		}
		g.fail(i18n.ErrInternalUnresolved, fn.Value)

	case *parser.FieldAccess:
		recv := g.lowerExpr(fn.Object)
		l := g.layoutOf(recv.typ)
		if l == nil {
			g.fail(i18n.ErrInternalUnresolved, recv.typ+"."+fn.Field)
		}
		method := l.info.Methods[fn.Field]
		if method == nil {
			g.fail(i18n.ErrInternalUnresolved, l.info.Name+"."+fn.Field)
		}
		return g.callFunc(method, l.name+"_"+method.Name, l, &recv, e.TypeArgs, e.Arguments)
	}
	g.fail(i18n.ErrInternalUnsupported, fmt.Sprintf("call of %T", e.Function))
	return value{}
}

// callFunc 调用函数或方法；泛型先确定类型实参再实例化
func (g *Generator) callFunc(sym *symbol.Symbol, name string, self *classLayout, recv *value,
	typeArgs []string, args []parser.Expression) value {
	subst := map[string]string{}
	if self != nil {
		for k, v := range self.subst {
			subst[k] = v
		}
	}

	var argVals []value
	if len(sym.TypeParams) > 0 {
		concrete := g.resolveAll(typeArgs)
		if len(concrete) == 0 {
			// 从实参类型推导
			argVals = make([]value, len(args))
			inferred := map[string]string{}
			for i, a := range args {
				argVals[i] = g.lowerExpr(a)
				if i < len(sym.ParamTypes) {
					types.Unify(sym.ParamTypes[i], argVals[i].typ, sym.TypeParams, inferred)
				}
			}
			for _, tp := range sym.TypeParams {
				t, ok := inferred[tp]
				if !ok {
					g.fail(i18n.ErrInternalUnresolved, sym.Name+"<"+tp+">")
				}
				concrete = append(concrete, t)
			}
		}
		for k, v := range types.Bind(sym.TypeParams, concrete) {
			subst[k] = v
		}
		name = g.instantiate(sym, name, concrete, self, subst)
	}

	paramTypes := make([]string, len(sym.ParamTypes))
	for i, p := range sym.ParamTypes {
		paramTypes[i] = types.Substitute(p, subst)
	}
	retType := types.Substitute(sym.ReturnType, subst)
	if sym.IsProcedure {
		retType = types.Void
	}

	var irArgs []string
	if recv != nil {
		irArgs = append(irArgs, "ptr "+recv.ref)
	}
	if argVals != nil {
		for i, v := range argVals {
			if i < len(paramTypes) {
				v = g.convert(v, paramTypes[i])
			}
			irArgs = append(irArgs, g.irType(v.typ)+" "+v.ref)
		}
	} else {
		irArgs = append(irArgs, g.lowerArgs(args, paramTypes)...)
	}
	return g.call(name, retType, irArgs)
}

// lowerField 枚举成员、.length 与对象字段
func (g *Generator) lowerField(e *parser.FieldAccess) value {
	if ident, ok := e.Object.(*parser.Identifier); ok && g.lookupLocal(ident.Value) == nil {
		if members, ok := g.enums[ident.Value]; ok {
			v, ok := members[e.Field]
			if !ok {
				g.fail(i18n.ErrInternalUnresolved, ident.Value+"."+e.Field)
			}
			return value{ref: fmt.Sprintf("%d", int32(v)), typ: types.Int}
		}
	}

	obj := g.lowerExpr(e.Object)
	if e.Field == "length" && (types.IsArray(obj.typ) || types.IsStringLike(obj.typ)) {
		return value{ref: g.lengthOf(obj), typ: types.Int}
	}
	addr, typ := g.fieldAddr(obj, e.Field)
	return value{ref: g.ctx.fn.value("load %s, ptr %s", g.irType(typ), addr), typ: typ}
}

// fieldAddr 字段地址：按登记的字段下标做 getelementptr
func (g *Generator) fieldAddr(obj value, field string) (string, string) {
	l := g.layoutOf(obj.typ)
	if l == nil {
		g.fail(i18n.ErrInternalUnresolved, obj.typ+"."+field)
	}
	idx := l.fieldIndex(field)
	if idx < 0 {
		g.fail(i18n.ErrInternalUnresolved, l.info.Name+"."+field)
	}
	addr := g.ctx.fn.value("getelementptr inbounds %s, ptr %s, i32 0, i32 %d", l.structType(), obj.ref, idx)
	return addr, l.fields[idx]
}
