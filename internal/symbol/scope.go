package symbol

import (
	"github.com/tangzhangming/codon/internal/types"
)

// Scope 作用域，通过 parent 链形成树
type Scope struct {
	symbols map[string]*Symbol
	parent  *Scope
}

// NewScope 创建子作用域
func NewScope(parent *Scope) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), parent: parent}
}

// NewGlobal 创建全局作用域，预定义基本类型与内置函数
func NewGlobal() *Scope {
	s := NewScope(nil)
	for _, t := range types.Primitives {
		s.symbols[t] = &Symbol{Name: t, Type: t, Kind: SymbolType}
	}
	for _, b := range builtins {
		sym := *b
		s.symbols[b.Name] = &sym
	}
	return s
}

// Parent 返回外层作用域
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define 在当前作用域定义符号；同一作用域内重名返回 false
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// LookupLocal 只在当前作用域查找
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}

// Lookup 从内向外查找
func (s *Scope) Lookup(name string) *Symbol {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// IsKnownType 类型名是否可解析：基本类型、类、枚举、类型参数，以及它们组成的复合类型
func (s *Scope) IsKnownType(t string) bool {
	base, args := types.Split(t)
	switch base {
	case types.ArrayBase, types.MapBase, types.TupleBase:
		if args == nil {
			return false
		}
	default:
		sym := s.Lookup(base)
		if sym == nil {
			return false
		}
		switch sym.Kind {
		case SymbolType, SymbolClass, SymbolEnum:
		default:
			return false
		}
	}
	for _, a := range args {
		if !s.IsKnownType(a) {
			return false
		}
	}
	return true
}
