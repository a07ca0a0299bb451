package codegen

import (
	"strings"

	"github.com/tangzhangming/codon/internal/symbol"
	"github.com/tangzhangming/codon/internal/types"
)

// instanceKey 缓存键：模板名与有序的具体类型实参
func instanceKey(template string, args []string) string {
	return template + "<" + strings.Join(args, ",") + ">"
}

// instantiate 返回泛型函数（或泛型方法）的具体名字；首次请求时排队生成函数体
func (g *Generator) instantiate(sym *symbol.Symbol, template string, args []string,
	self *classLayout, subst map[string]string) string {
	key := instanceKey(template, args)
	if name, ok := g.instances[key]; ok {
		return name
	}
	name := types.Mangle(template, args)
	g.instances[key] = name

	bound := make(map[string]string, len(subst))
	for k, v := range subst {
		bound[k] = v
	}
	fn := sym.Func
	g.queue(func() {
		g.emitFunc(fn, name, self, bound)
	})
	return name
}

// Instances 已实例化的泛型：缓存键到具体名字
func (g *Generator) Instances() map[string]string {
	out := make(map[string]string, len(g.instances))
	for k, v := range g.instances {
		out[k] = v
	}
	return out
}
