package codegen

import (
	"fmt"

	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/types"
)

// newArray 一次分配：8 字节长度头，紧跟元素；返回数据指针
func (g *Generator) newArray(irElem, n string) string {
	f := g.ctx.fn
	n64 := f.value("sext i32 %s to i64", n)
	bytes := f.value("mul i64 %s, %d", n64, sizeOf(irElem))
	total := f.value("add i64 %s, 8", bytes)
	raw := g.malloc(total)
	f.emit("store i64 %s, ptr %s", n64, raw)
	return f.value("getelementptr inbounds i8, ptr %s, i64 8", raw)
}

// arrayLen 读取数据指针前 8 字节的长度头
func (g *Generator) arrayLen(data string) string {
	f := g.ctx.fn
	hdr := f.value("getelementptr inbounds i8, ptr %s, i64 -8", data)
	n64 := f.value("load i64, ptr %s", hdr)
	return f.value("trunc i64 %s to i32", n64)
}

// elementAddr 数组或字符串元素的地址与元素类型
func (g *Generator) elementAddr(container, index value) (string, string) {
	f := g.ctx.fn
	i := g.convert(index, types.Int)
	switch {
	case types.IsArray(container.typ):
		elem, _ := types.ElemOf(container.typ)
		return f.value("getelementptr inbounds %s, ptr %s, i32 %s", g.irType(elem), container.ref, i.ref), elem
	case types.IsStringLike(container.typ):
		return f.value("getelementptr inbounds i8, ptr %s, i32 %s", container.ref, i.ref), types.Char
	}
	g.fail(i18n.ErrInternalUnsupported, "index into "+container.typ)
	return "", ""
}

// lowerIndex 切片、映射、元组、数组与字符串下标
func (g *Generator) lowerIndex(e *parser.IndexExpr) value {
	f := g.ctx.fn
	container := g.lowerExpr(e.Left)

	if lo, hi, ok := rangeBounds(e.Index); ok {
		start := g.convert(g.lowerExpr(lo), types.Int)
		end := g.convert(g.lowerExpr(hi), types.Int)
		return g.slice(container, start.ref, end.ref)
	}

	if types.IsMap(container.typ) {
		return g.mapGet(container, g.lowerExpr(e.Index))
	}

	if elems, ok := types.TupleElems(container.typ); ok {
		lit, isLit := e.Index.(*parser.IntegerLiteral)
		if !isLit || lit.Value < 0 || int(lit.Value) >= len(elems) {
			g.fail(i18n.ErrInternalUnsupported, "non-constant tuple index")
		}
		st, _, _ := g.tupleLayout(elems)
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 0, i32 %d", st, container.ref, lit.Value)
		elem := elems[lit.Value]
		return value{ref: f.value("load %s, ptr %s", g.irType(elem), addr), typ: elem}
	}

	addr, elem := g.elementAddr(container, g.lowerExpr(e.Index))
	return value{ref: f.value("load %s, ptr %s", g.irType(elem), addr), typ: elem}
}

// clamp 把 v 限制在 [0, n]
func (g *Generator) clamp(v, n string) string {
	f := g.ctx.fn
	over := f.value("icmp sgt i32 %s, %s", v, n)
	v = f.value("select i1 %s, i32 %s, i32 %s", over, n, v)
	neg := f.value("icmp slt i32 %s, 0", v)
	return f.value("select i1 %s, i32 0, i32 %s", neg, v)
}

// slice a[lo..hi]：两端夹到 [0, length]，复制到新数组或新字符串
func (g *Generator) slice(container value, lo, hi string) value {
	f := g.ctx.fn
	n := g.lengthOf(container)
	lo = g.clamp(lo, n)
	hi = g.clamp(hi, n)

	if types.IsStringLike(container.typ) {
		return value{ref: g.copyBytes(container.ref, lo, hi), typ: container.typ}
	}

	elem, _ := types.ElemOf(container.typ)
	irElem := g.irType(elem)
	count := f.value("sub i32 %s, %s", hi, lo)
	neg := f.value("icmp slt i32 %s, 0", count)
	count = f.value("select i1 %s, i32 0, i32 %s", neg, count)
	data := g.newArray(irElem, count)
	src := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irElem, container.ref, lo)
	count64 := f.value("sext i32 %s to i64", count)
	bytes := f.value("mul i64 %s, %d", count64, sizeOf(irElem))
	g.callRuntime("ptr", "memcpy", "ptr "+data, "ptr "+src, "i64 "+bytes)
	return value{ref: data, typ: container.typ}
}

// lowerArrayLiteral 元素类型取数值拓宽后的公共类型
func (g *Generator) lowerArrayLiteral(e *parser.ArrayLiteral) value {
	f := g.ctx.fn
	vals := make([]value, len(e.Elements))
	elem := types.Unknown
	for i, el := range e.Elements {
		vals[i] = g.lowerExpr(el)
		switch {
		case i == 0:
			elem = vals[i].typ
		case types.IsNumeric(elem) && types.IsNumeric(vals[i].typ):
			elem = types.Widest(elem, vals[i].typ)
		}
	}
	irElem := g.irType(elem)
	data := g.newArray(irElem, fmt.Sprintf("%d", len(vals)))
	for i, v := range vals {
		v = g.convert(v, elem)
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 %d", irElem, data, i)
		f.emit("store %s %s, ptr %s", irElem, v.ref, addr)
	}
	return value{ref: data, typ: types.ArrayOf(elem)}
}

// lowerArray2D 外层是行指针数组，每行单独分配
func (g *Generator) lowerArray2D(e *parser.NewArray2D) value {
	f := g.ctx.fn
	elem := g.resolve(e.ElemType)
	rows := g.convert(g.lowerExpr(e.Rows), types.Int)
	cols := g.convert(g.lowerExpr(e.Cols), types.Int)
	outer := g.newArray("ptr", rows.ref)

	counter := f.alloca("i32", "row")
	f.emit("store i32 0, ptr %s", counter)
	cond := f.newBlock("rows.cond")
	body := f.newBlock("rows.body")
	end := f.newBlock("rows.end")

	f.br(cond)
	f.setBlock(cond)
	i := f.value("load i32, ptr %s", counter)
	c := f.value("icmp slt i32 %s, %s", i, rows.ref)
	f.condBr(c, body, end)

	f.setBlock(body)
	row := g.newArray(g.irType(elem), cols.ref)
	slot := f.value("getelementptr inbounds ptr, ptr %s, i32 %s", outer, i)
	f.emit("store ptr %s, ptr %s", row, slot)
	next := f.value("add i32 %s, 1", i)
	f.emit("store i32 %s, ptr %s", next, counter)
	f.br(cond)

	f.setBlock(end)
	return value{ref: outer, typ: types.ArrayOf(types.ArrayOf(elem))}
}

// lowerTuple 元组是堆上的匿名结构体
func (g *Generator) lowerTuple(e *parser.TupleLiteral) value {
	f := g.ctx.fn
	vals := make([]value, len(e.Elements))
	elems := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		vals[i] = g.lowerExpr(el)
		elems[i] = vals[i].typ
	}
	st, irFields, size := g.tupleLayout(elems)
	p := g.malloc(fmt.Sprintf("%d", size))
	for i, v := range vals {
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 0, i32 %d", st, p, i)
		f.emit("store %s %s, ptr %s", irFields[i], v.ref, addr)
	}
	return value{ref: p, typ: types.TupleOf(elems...)}
}

// lowerRange 作为值使用的范围：{ i32 起点, i32 终点 }
func (g *Generator) lowerRange(lo, hi parser.Expression) value {
	f := g.ctx.fn
	start := g.convert(g.lowerExpr(lo), types.Int)
	end := g.convert(g.lowerExpr(hi), types.Int)
	p := g.malloc("8")
	f.emit("store i32 %s, ptr %s", start.ref, p)
	second := f.value("getelementptr inbounds { i32, i32 }, ptr %s, i32 0, i32 1", p)
	f.emit("store i32 %s, ptr %s", end.ref, second)
	return value{ref: p, typ: types.Range}
}

// construct 分配对象，实参按声明顺序初始化字段，其余字段置零
func (g *Generator) construct(typ string, args []parser.Expression) value {
	f := g.ctx.fn
	l := g.layoutOf(typ)
	if l == nil {
		g.fail(i18n.ErrInternalUnresolved, typ)
	}
	vals := make([]value, len(args))
	for i, a := range args {
		vals[i] = g.lowerExpr(a)
	}
	p := g.malloc(fmt.Sprintf("%d", l.size))
	for i, ft := range l.fields {
		irType := l.irFields[i]
		init := zeroValue(irType)
		if i < len(vals) {
			init = g.convert(vals[i], ft).ref
		}
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 0, i32 %d", l.structType(), p, i)
		f.emit("store %s %s, ptr %s", irType, init, addr)
	}
	return value{ref: p, typ: l.typ}
}

// newMap 固定容量：键数组与值数组在构造时分配
func (g *Generator) newMap(key, val string, capacity parser.Expression) value {
	f := g.ctx.fn
	g.mapTypeDef()
	c := g.convert(g.lowerExpr(capacity), types.Int)
	c64 := f.value("sext i32 %s to i64", c.ref)
	keyBytes := f.value("mul i64 %s, %d", c64, sizeOf(g.irType(key)))
	valBytes := f.value("mul i64 %s, %d", c64, sizeOf(g.irType(val)))
	keys := g.malloc(keyBytes)
	vals := g.malloc(valBytes)
	m := g.malloc("24")
	f.emit("store ptr %s, ptr %s", keys, g.mapField(m, 0))
	f.emit("store ptr %s, ptr %s", vals, g.mapField(m, 1))
	f.emit("store i32 %s, ptr %s", c.ref, g.mapField(m, 2))
	f.emit("store i32 0, ptr %s", g.mapField(m, 3))
	return value{ref: m, typ: types.MapOf(key, val)}
}

// mapTypeDef 第一次用到映射时定义结构体
func (g *Generator) mapTypeDef() {
	if g.mapDefined {
		return
	}
	g.mapDefined = true
	g.mod.types = append(g.mod.types, mapType+" = type { ptr, ptr, i32, i32 }")
}

func (g *Generator) mapField(m string, i int) string {
	g.mapTypeDef()
	return g.ctx.fn.value("getelementptr inbounds %s, ptr %s, i32 0, i32 %d", mapType, m, i)
}

// keyEquals 按键类型比较：数值、字符串逐字节、类的 equals 方法或地址
func (g *Generator) keyEquals(typ, a, b string) string {
	f := g.ctx.fn
	ir := g.irType(typ)
	switch {
	case types.IsStringLike(typ):
		cmp := g.callRuntime("i32", "strcmp", "ptr "+a, "ptr "+b)
		return f.value("icmp eq i32 %s, 0", cmp)
	case ir == "double":
		return f.value("fcmp oeq double %s, %s", a, b)
	case ir != "ptr":
		return f.value("icmp eq %s %s, %s", ir, a, b)
	}
	if l := g.layoutOf(typ); l != nil {
		if eq := l.info.Methods["equals"]; eq != nil && eq.ParamCount == 1 && len(eq.TypeParams) == 0 {
			res := g.call(l.name+"_equals", types.Substitute(eq.ReturnType, l.subst), []string{"ptr " + a, "ptr " + b})
			return g.convert(res, types.Bool).ref
		}
	}
	return f.value("icmp eq ptr %s, %s", a, b)
}

// mapScan 线性查找键；found 与 missing 回调在对应块中生成代码
func (g *Generator) mapScan(m value, key value, found func(i string), missing func(size string)) {
	f := g.ctx.fn
	keyType, _, _ := types.MapParts(m.typ)
	irKey := g.irType(keyType)
	key = g.convert(key, keyType)

	keys := f.value("load ptr, ptr %s", g.mapField(m.ref, 0))
	size := f.value("load i32, ptr %s", g.mapField(m.ref, 3))
	counter := f.alloca("i32", "scan")
	f.emit("store i32 0, ptr %s", counter)

	cond := f.newBlock("map.cond")
	body := f.newBlock("map.body")
	hit := f.newBlock("map.found")
	next := f.newBlock("map.next")
	miss := f.newBlock("map.missing")
	end := f.newBlock("map.end")

	f.br(cond)
	f.setBlock(cond)
	i := f.value("load i32, ptr %s", counter)
	more := f.value("icmp slt i32 %s, %s", i, size)
	f.condBr(more, body, miss)

	f.setBlock(body)
	kAddr := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irKey, keys, i)
	k := f.value("load %s, ptr %s", irKey, kAddr)
	eq := g.keyEquals(keyType, k, key.ref)
	f.condBr(eq, hit, next)

	f.setBlock(next)
	inc := f.value("add i32 %s, 1", i)
	f.emit("store i32 %s, ptr %s", inc, counter)
	f.br(cond)

	f.setBlock(hit)
	found(i)
	g.branchIfOpen(end)

	f.setBlock(miss)
	missing(size)
	g.branchIfOpen(end)

	f.setBlock(end)
}

// mapGet 找不到键时得到值类型的零值
func (g *Generator) mapGet(m, key value) value {
	f := g.ctx.fn
	_, valType, _ := types.MapParts(m.typ)
	irVal := g.irType(valType)
	result := f.alloca(irVal, "lookup")
	f.emit("store %s %s, ptr %s", irVal, zeroValue(irVal), result)

	g.mapScan(m, key, func(i string) {
		vals := f.value("load ptr, ptr %s", g.mapField(m.ref, 1))
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irVal, vals, i)
		v := f.value("load %s, ptr %s", irVal, addr)
		f.emit("store %s %s, ptr %s", irVal, v, result)
	}, func(string) {})

	return value{ref: f.value("load %s, ptr %s", irVal, result), typ: valType}
}

// mapSet 已有键覆盖；新键追加；映射已满时静默丢弃
func (g *Generator) mapSet(m, key, val value) {
	f := g.ctx.fn
	keyType, valType, _ := types.MapParts(m.typ)
	irKey, irVal := g.irType(keyType), g.irType(valType)
	key = g.convert(key, keyType)
	val = g.convert(val, valType)

	g.mapScan(m, key, func(i string) {
		vals := f.value("load ptr, ptr %s", g.mapField(m.ref, 1))
		addr := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irVal, vals, i)
		f.emit("store %s %s, ptr %s", irVal, val.ref, addr)
	}, func(size string) {
		capacity := f.value("load i32, ptr %s", g.mapField(m.ref, 2))
		full := f.value("icmp sge i32 %s, %s", size, capacity)
		insert := f.newBlock("map.insert")
		done := f.newBlock("map.full")
		f.condBr(full, done, insert)

		f.setBlock(insert)
		keys := f.value("load ptr, ptr %s", g.mapField(m.ref, 0))
		vals := f.value("load ptr, ptr %s", g.mapField(m.ref, 1))
		kAddr := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irKey, keys, size)
		f.emit("store %s %s, ptr %s", irKey, key.ref, kAddr)
		vAddr := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irVal, vals, size)
		f.emit("store %s %s, ptr %s", irVal, val.ref, vAddr)
		grown := f.value("add i32 %s, 1", size)
		f.emit("store i32 %s, ptr %s", grown, g.mapField(m.ref, 3))
		f.br(done)

		f.setBlock(done)
	})
}
