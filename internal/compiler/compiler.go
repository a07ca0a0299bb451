// Package compiler runs the four stages in order and stops at the first
// stage that reports diagnostics: lexical errors block parsing, syntax errors
// block checking, semantic errors block code generation.
package compiler

import (
	"github.com/tangzhangming/codon/internal/checker"
	"github.com/tangzhangming/codon/internal/codegen"
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/lexer"
	"github.com/tangzhangming/codon/internal/parser"
)

// Stage 编译阶段
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageCheck
	StageEmit
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageCheck:
		return "check"
	case StageEmit:
		return "emit"
	}
	return "done"
}

// Options 编译选项
type Options struct {
	Filename     string
	TargetTriple string
}

// Result 一次编译的产物
type Result struct {
	Tokens      []lexer.Token
	Program     *parser.Program
	Diagnostics diag.List
	IR          string
	Stage       Stage // 停止时所在的阶段；成功时为 StageDone
}

// OK 没有诊断且生成了 IR
func (r *Result) OK() bool {
	return r.Stage == StageDone
}

// Compile 编译一段源码。用户错误在 Result.Diagnostics 中；
// 返回的 error 只表示后端内部错误
func Compile(source string, opts Options) (*Result, error) {
	res := &Result{Stage: StageLex}

	tokens, lexErrs := lexer.Tokenize(source)
	res.Tokens = tokens
	if lexErrs.HasErrors() {
		res.Diagnostics = lexErrs
		return res, nil
	}

	res.Stage = StageParse
	program, parseErrs := parser.Parse(tokens)
	res.Program = program
	if parseErrs.HasErrors() {
		res.Diagnostics = parseErrs
		return res, nil
	}

	res.Stage = StageCheck
	if semErrs := checker.Analyze(program); semErrs.HasErrors() {
		res.Diagnostics = semErrs
		return res, nil
	}

	res.Stage = StageEmit
	ir, err := codegen.Generate(program, codegen.Options{
		SourceName:   opts.Filename,
		TargetTriple: opts.TargetTriple,
	})
	if err != nil {
		return res, err
	}
	res.IR = ir
	res.Stage = StageDone
	return res, nil
}
