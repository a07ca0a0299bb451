package codegen

import (
	"github.com/tangzhangming/codon/internal/i18n"
	"github.com/tangzhangming/codon/internal/parser"
	"github.com/tangzhangming/codon/internal/types"
)

// lowerStatement 降级单个语句
func (g *Generator) lowerStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.VarDecl:
		g.lowerVarDecl(s)
	case *parser.AssignStmt:
		g.lowerAssign(s)
	case *parser.ExpressionStmt:
		g.lowerExpr(s.Expression)
	case *parser.PrintStmt:
		g.lowerPrint(s)
	case *parser.BlockStmt:
		g.lowerBlock(s)
	case *parser.IfStmt:
		g.lowerIf(s)
	case *parser.WhileStmt:
		g.lowerWhile(s)
	case *parser.LoopStmt:
		g.lowerLoop(s)
	case *parser.ForStmt:
		g.lowerFor(s)
	case *parser.ForInStmt:
		g.lowerForIn(s)
	case *parser.BreakStmt:
		g.ctx.fn.br(g.loopTop("break").brk)
	case *parser.ContinueStmt:
		g.ctx.fn.br(g.loopTop("continue").cont)
	case *parser.ReturnStmt:
		g.lowerReturn(s)
	case *parser.FuncDecl, *parser.ClassDecl, *parser.EnumDecl:
		g.fail(i18n.ErrInternalUnsupported, "nested declaration")
	}
}

// loopTop 栈为空说明前面阶段漏掉了循环外的 break / continue
func (g *Generator) loopTop(keyword string) loopTarget {
	if len(g.ctx.loops) == 0 {
		g.fail(i18n.ErrInternalNoLoop, keyword)
	}
	return g.ctx.loops[len(g.ctx.loops)-1]
}

// lowerBody 在循环目标入栈的情况下降级循环体
func (g *Generator) lowerBody(body *parser.BlockStmt, cont, brk *block) {
	g.ctx.loops = append(g.ctx.loops, loopTarget{cont: cont, brk: brk})
	g.lowerBlock(body)
	g.ctx.loops = g.ctx.loops[:len(g.ctx.loops)-1]
}

func (g *Generator) lowerBlock(block *parser.BlockStmt) {
	if block == nil {
		return
	}
	g.pushScope()
	defer g.popScope()
	for _, stmt := range block.Statements {
		g.lowerStatement(stmt)
	}
}

// branchIfOpen 当前块尚未终结时跳到 target
func (g *Generator) branchIfOpen(target *block) {
	if !g.ctx.fn.terminated() {
		g.ctx.fn.br(target)
	}
}

// lowerVarDecl 有声明类型时转换初值，否则取初值类型
func (g *Generator) lowerVarDecl(s *parser.VarDecl) {
	typ := g.resolve(s.Type)
	var v value
	hasValue := s.Value != nil
	if hasValue {
		v = g.lowerExpr(s.Value)
		if typ == "" {
			typ = v.typ
		}
	}
	if typ == "" || typ == types.Null {
		typ = types.Unknown
	}
	l := g.declareLocal(s.Name, typ)
	irType := g.irType(typ)
	if hasValue {
		v = g.convert(v, typ)
		g.ctx.fn.emit("store %s %s, ptr %s", irType, v.ref, l.slot)
		return
	}
	g.ctx.fn.emit("store %s %s, ptr %s", irType, zeroValue(irType), l.slot)
}

// lowerAssign 赋值到变量、字段、数组元素或映射键；未声明的名字即声明
func (g *Generator) lowerAssign(s *parser.AssignStmt) {
	f := g.ctx.fn
	if idx, ok := s.Target.(*parser.IndexExpr); ok {
		container := g.lowerExpr(idx.Left)
		if types.IsMap(container.typ) {
			key := g.lowerExpr(idx.Index)
			g.mapSet(container, key, g.lowerExpr(s.Value))
			return
		}
		v := g.lowerExpr(s.Value)
		addr, typ := g.elementAddr(container, g.lowerExpr(idx.Index))
		v = g.convert(v, typ)
		f.emit("store %s %s, ptr %s", g.irType(typ), v.ref, addr)
		return
	}

	v := g.lowerExpr(s.Value)
	if ident, ok := s.Target.(*parser.Identifier); ok && g.lookupLocal(ident.Value) == nil {
		l := g.declareLocal(ident.Value, v.typ)
		f.emit("store %s %s, ptr %s", g.irType(v.typ), v.ref, l.slot)
		return
	}
	if ident, ok := s.Target.(*parser.Identifier); ok {
		// 无类型声明的变量由第一次赋值确定类型，8 字节的槽能容纳任何标量
		if l := g.lookupLocal(ident.Value); l.typ == types.Unknown {
			l.typ = v.typ
		}
	}
	addr, typ := g.address(s.Target)
	v = g.convert(v, typ)
	f.emit("store %s %s, ptr %s", g.irType(typ), v.ref, addr)
}

// lowerIf if / elif / else：每个条件一个 then 块，失败落到下一个条件
func (g *Generator) lowerIf(s *parser.IfStmt) {
	f := g.ctx.fn
	end := f.newBlock("if.end")

	conds := []parser.Expression{s.Condition}
	bodies := []*parser.BlockStmt{s.Consequence}
	for _, elif := range s.Elifs {
		conds = append(conds, elif.Condition)
		bodies = append(bodies, elif.Consequence)
	}

	for i, cond := range conds {
		c := g.convert(g.lowerExpr(cond), types.Bool)
		then := f.newBlock("if.then")
		next := end
		if i < len(conds)-1 || s.Alternative != nil {
			next = f.newBlock("if.else")
		}
		f.condBr(c.ref, then, next)

		f.setBlock(then)
		g.lowerBlock(bodies[i])
		g.branchIfOpen(end)
		f.setBlock(next)
	}

	if s.Alternative != nil {
		g.lowerBlock(s.Alternative)
		g.branchIfOpen(end)
		f.setBlock(end)
	}
}

func (g *Generator) lowerWhile(s *parser.WhileStmt) {
	f := g.ctx.fn
	cond := f.newBlock("while.cond")
	body := f.newBlock("while.body")
	end := f.newBlock("while.end")

	f.br(cond)
	f.setBlock(cond)
	c := g.convert(g.lowerExpr(s.Condition), types.Bool)
	f.condBr(c.ref, body, end)

	f.setBlock(body)
	g.lowerBody(s.Body, cond, end)
	g.branchIfOpen(cond)
	f.setBlock(end)
}

// lowerLoop 无条件循环，只能通过 break 或 return 退出
func (g *Generator) lowerLoop(s *parser.LoopStmt) {
	f := g.ctx.fn
	body := f.newBlock("loop.body")
	end := f.newBlock("loop.end")

	f.br(body)
	f.setBlock(body)
	g.lowerBody(s.Body, body, end)
	g.branchIfOpen(body)
	f.setBlock(end)
}

// lowerFor 三段式 for；continue 跳到 step 块
func (g *Generator) lowerFor(s *parser.ForStmt) {
	f := g.ctx.fn
	g.pushScope()
	defer g.popScope()

	if s.Init != nil {
		g.lowerStatement(s.Init)
	}
	cond := f.newBlock("for.cond")
	body := f.newBlock("for.body")
	step := f.newBlock("for.step")
	end := f.newBlock("for.end")

	f.br(cond)
	f.setBlock(cond)
	if s.Condition != nil {
		c := g.convert(g.lowerExpr(s.Condition), types.Bool)
		f.condBr(c.ref, body, end)
	} else {
		f.br(body)
	}

	f.setBlock(body)
	g.lowerBody(s.Body, step, end)
	g.branchIfOpen(step)

	f.setBlock(step)
	if s.Post != nil {
		g.lowerStatement(s.Post)
	}
	g.branchIfOpen(cond)
	f.setBlock(end)
}

// rangeBounds 识别 a..b 形式
func rangeBounds(e parser.Expression) (parser.Expression, parser.Expression, bool) {
	switch r := e.(type) {
	case *parser.RangeExpr:
		return r.Start, r.End, true
	case *parser.BinaryExpr:
		if r.Operator == ".." {
			return r.Left, r.Right, true
		}
	}
	return nil, nil, false
}

// lowerForIn 范围（含右端点）、字符串与数组的遍历
func (g *Generator) lowerForIn(s *parser.ForInStmt) {
	f := g.ctx.fn
	g.pushScope()
	defer g.popScope()

	var start, limit string // 迭代 [start, limit]
	var elem string
	var fetch func(i string) string

	if lo, hi, ok := rangeBounds(s.Iterable); ok {
		start = g.convert(g.lowerExpr(lo), types.Int).ref
		limit = g.convert(g.lowerExpr(hi), types.Int).ref
		elem = types.Int
		fetch = func(i string) string { return i }
	} else {
		it := g.lowerExpr(s.Iterable)
		switch {
		case it.typ == types.Range:
			start = f.value("load i32, ptr %s", it.ref)
			hiAddr := f.value("getelementptr inbounds { i32, i32 }, ptr %s, i32 0, i32 1", it.ref)
			limit = f.value("load i32, ptr %s", hiAddr)
			elem = types.Int
			fetch = func(i string) string { return i }
		case types.IsStringLike(it.typ):
			start = "0"
			limit = f.value("sub i32 %s, 1", g.lengthOf(it))
			elem = types.Char
			fetch = func(i string) string {
				p := f.value("getelementptr inbounds i8, ptr %s, i32 %s", it.ref, i)
				return f.value("load i8, ptr %s", p)
			}
		case types.IsArray(it.typ):
			start = "0"
			limit = f.value("sub i32 %s, 1", g.arrayLen(it.ref))
			elem, _ = types.ElemOf(it.typ)
			irElem := g.irType(elem)
			fetch = func(i string) string {
				p := f.value("getelementptr inbounds %s, ptr %s, i32 %s", irElem, it.ref, i)
				return f.value("load %s, ptr %s", irElem, p)
			}
		default:
			g.fail(i18n.ErrInternalUnsupported, "for-in over "+it.typ)
		}
	}

	counter := f.alloca("i32", "it")
	f.emit("store i32 %s, ptr %s", start, counter)
	v := g.declareLocal(s.Var, elem)

	cond := f.newBlock("foreach.cond")
	body := f.newBlock("foreach.body")
	step := f.newBlock("foreach.step")
	end := f.newBlock("foreach.end")

	f.br(cond)
	f.setBlock(cond)
	i := f.value("load i32, ptr %s", counter)
	c := f.value("icmp sle i32 %s, %s", i, limit)
	f.condBr(c, body, end)

	f.setBlock(body)
	f.emit("store %s %s, ptr %s", g.irType(elem), fetch(i), v.slot)
	g.lowerBody(s.Body, step, end)
	g.branchIfOpen(step)

	f.setBlock(step)
	cur := f.value("load i32, ptr %s", counter)
	next := f.value("add i32 %s, 1", cur)
	f.emit("store i32 %s, ptr %s", next, counter)
	f.br(cond)
	f.setBlock(end)
}

// lowerReturn 值按声明的返回类型转换；main 的空 return 返回 0
func (g *Generator) lowerReturn(s *parser.ReturnStmt) {
	f := g.ctx.fn
	if s.Value == nil {
		g.retZero()
		return
	}
	v := g.lowerExpr(s.Value)
	if f.ret == "void" {
		f.terminate("ret void")
		return
	}
	target := g.ctx.retType
	if g.ctx.entry && g.irType(target) != "i32" {
		target = types.Int
	}
	v = g.convert(v, target)
	f.terminate("ret %s %s", f.ret, v.ref)
}
