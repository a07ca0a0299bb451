package checker

import (
	"github.com/tangzhangming/codon/internal/types"
)

// 运算符分组
var (
	arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true, "**": true}
	comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}
	logicalOps    = map[string]bool{"&&": true, "||": true}
	bitwiseOps    = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
)

// isReference 是否为指针表示的类型（可以为 null）
func isReference(t string) bool {
	if types.IsStringLike(t) {
		return true
	}
	return !types.IsPrimitive(t)
}

// genericMatch 同一泛型基名、参数逐个相同，unknown 作为通配
func genericMatch(a, b string) bool {
	baseA, argsA := types.Split(a)
	baseB, argsB := types.Split(b)
	if argsA == nil || argsB == nil || baseA != baseB || len(argsA) != len(argsB) {
		return false
	}
	for i := range argsA {
		if argsA[i] == argsB[i] || argsA[i] == types.Unknown || argsB[i] == types.Unknown {
			continue
		}
		if !genericMatch(argsA[i], argsB[i]) {
			return false
		}
	}
	return true
}

// assignable 赋值兼容：数值拓宽、null 赋给引用、char 与 Nbase 互通、字符串子类型互通
func assignable(target, value string) bool {
	switch {
	case target == value:
		return true
	case target == types.Unknown || value == types.Unknown:
		return true
	case target == types.Sized:
		return types.IsSized(value)
	case types.IsNumeric(target) && types.IsNumeric(value):
		return types.Widest(target, value) == target
	case value == types.Null:
		return isReference(target)
	case target == types.Nbase && value == types.Char, target == types.Char && value == types.Nbase:
		return true
	case types.IsStringLike(target) && types.IsStringLike(value):
		return true
	}
	return genericMatch(target, value)
}

// returnCompatible 返回值兼容：相同类型，唯一的隐式拓宽是 int -> float
func returnCompatible(declared, value string) bool {
	switch {
	case declared == value:
		return true
	case declared == types.Unknown || value == types.Unknown:
		return true
	case types.IsFloating(declared) && value == types.Int:
		return true
	case value == types.Null:
		return isReference(declared)
	}
	return genericMatch(declared, value)
}

// binaryType 按固定表推导二元运算结果类型，不合法时返回 unknown 与 false
func binaryType(op, left, right string) (string, bool) {
	if left == types.Unknown || right == types.Unknown {
		return types.Unknown, true
	}

	switch {
	case op == "..":
		if left == types.Int && right == types.Int {
			return types.Range, true
		}
	case arithmeticOps[op]:
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return types.Widest(left, right), true
		}
		if op == "+" && types.IsStringLike(left) && types.IsStringLike(right) {
			if left == right {
				return left, true
			}
			return types.String, true
		}
	case comparisonOps[op]:
		switch {
		case types.IsNumeric(left) && types.IsNumeric(right):
			return types.Bool, true
		case types.IsStringLike(left) && types.IsStringLike(right):
			return types.Bool, true
		case (left == types.Char || left == types.Nbase) && (right == types.Char || right == types.Nbase):
			return types.Bool, true
		}
		if op == "==" || op == "!=" {
			switch {
			case left == types.Bool && right == types.Bool:
				return types.Bool, true
			case left == types.Null && isReference(right), right == types.Null && isReference(left):
				return types.Bool, true
			case left == right && isReference(left):
				return types.Bool, true
			}
		}
	case logicalOps[op]:
		if left == types.Bool && right == types.Bool {
			return types.Bool, true
		}
	case bitwiseOps[op]:
		if left == types.Int && right == types.Int {
			return types.Int, true
		}
	}
	return types.Unknown, false
}
