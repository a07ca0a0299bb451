// Package types holds the primitive type names of the language and the
// helpers that read and build composite type strings such as
// "Array<int>", "Map<string,int>" or "Box<float>".
package types

import (
	"strings"
)

// 基本类型名
const (
	Int     = "int"
	Float   = "float"
	Decimal = "decimal"
	Bool    = "bool"
	Char    = "char"
	String  = "string"
	DNA     = "dna"
	RNA     = "rna"
	Prot    = "prot"
	Nbase   = "Nbase"
	Void    = "void"

	Null    = "null"
	Range   = "Range"
	Unknown = "unknown_type"

	// Sized 只出现在内置函数的形参上：字符串类或数组
	Sized = "string|array"
)

// 复合类型的基名
const (
	ArrayBase = "Array"
	MapBase   = "Map"
	TupleBase = "Tuple"
)

// Primitives 所有基本类型名，全局作用域中预定义
var Primitives = []string{Int, Float, Decimal, Bool, Char, String, DNA, RNA, Prot, Nbase, Void}

var numericRank = map[string]int{Int: 1, Float: 2, Decimal: 3}

// IsPrimitive 是否为基本类型
func IsPrimitive(t string) bool {
	for _, p := range Primitives {
		if p == t {
			return true
		}
	}
	return false
}

// IsNumeric 是否为数值类型
func IsNumeric(t string) bool {
	_, ok := numericRank[t]
	return ok
}

// IsStringLike string 以及三种生物字符串
func IsStringLike(t string) bool {
	switch t {
	case String, DNA, RNA, Prot:
		return true
	}
	return false
}

// IsSized 能取长度的类型
func IsSized(t string) bool {
	return IsStringLike(t) || IsArray(t)
}

// IsFloating 是否为浮点类型
func IsFloating(t string) bool {
	return t == Float || t == Decimal
}

// Widest 返回两个数值类型中较宽的一个：int < float < decimal
func Widest(a, b string) string {
	if numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

// Split 拆分 "Name<A,B<C>>" 为 "Name" 和 ["A", "B<C>"]；非泛型返回 nil
func Split(t string) (string, []string) {
	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return t, nil
	}
	base := t[:open]
	inner := t[open+1 : len(t)-1]

	var args []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return base, args
}

// Generic 构造 "Name<A,B>"
func Generic(base string, args ...string) string {
	if len(args) == 0 {
		return base
	}
	return base + "<" + strings.Join(args, ",") + ">"
}

// ArrayOf 构造数组类型
func ArrayOf(elem string) string {
	return Generic(ArrayBase, elem)
}

// MapOf 构造映射类型
func MapOf(key, value string) string {
	return Generic(MapBase, key, value)
}

// TupleOf 构造元组类型
func TupleOf(elems ...string) string {
	return Generic(TupleBase, elems...)
}

// ElemOf 返回数组的元素类型
func ElemOf(t string) (string, bool) {
	base, args := Split(t)
	if base != ArrayBase || len(args) != 1 {
		return "", false
	}
	return args[0], true
}

// MapParts 返回映射的键和值类型
func MapParts(t string) (string, string, bool) {
	base, args := Split(t)
	if base != MapBase || len(args) != 2 {
		return "", "", false
	}
	return args[0], args[1], true
}

// TupleElems 返回元组的元素类型
func TupleElems(t string) ([]string, bool) {
	base, args := Split(t)
	if base != TupleBase || args == nil {
		return nil, false
	}
	return args, true
}

// IsArray 是否为数组类型
func IsArray(t string) bool {
	_, ok := ElemOf(t)
	return ok
}

// IsMap 是否为映射类型
func IsMap(t string) bool {
	_, _, ok := MapParts(t)
	return ok
}

// Substitute 递归替换类型参数，"Array<T>" 在 {T: int} 下得到 "Array<int>"
func Substitute(t string, subst map[string]string) string {
	if len(subst) == 0 || t == "" {
		return t
	}
	if concrete, ok := subst[t]; ok {
		return concrete
	}
	base, args := Split(t)
	if args == nil {
		return t
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Substitute(a, subst)
	}
	return Generic(base, out...)
}

// Bind 将类型参数名与实参一一对应
func Bind(params, args []string) map[string]string {
	subst := make(map[string]string, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}
	return subst
}

// Mangle 生成实例化后的具体名字，非字母数字字符替换为 '_'
func Mangle(name string, args []string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, a := range args {
		sb.WriteByte('_')
		for _, r := range a {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				sb.WriteRune(r)
			} else {
				sb.WriteByte('_')
			}
		}
	}
	return sb.String()
}

// Unify 从实参类型推导类型参数，已绑定的参数不覆盖
func Unify(param, arg string, typeParams []string, subst map[string]string) {
	for _, tp := range typeParams {
		if param == tp {
			if _, bound := subst[tp]; !bound && arg != Unknown && arg != Null {
				subst[tp] = arg
			}
			return
		}
	}
	baseP, argsP := Split(param)
	baseA, argsA := Split(arg)
	if argsP == nil || baseP != baseA || len(argsP) != len(argsA) {
		return
	}
	for i := range argsP {
		Unify(argsP[i], argsA[i], typeParams, subst)
	}
}
