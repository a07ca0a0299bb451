package diag

import (
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
)

// Kind 诊断类别
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case Lexical:
		return i18n.T(i18n.MsgKindLexical)
	case Syntax:
		return i18n.T(i18n.MsgKindSyntax)
	case Semantic:
		return i18n.T(i18n.MsgKindSemantic)
	default:
		return "unknown"
	}
}

// 默认错误码
const (
	CodeLexical = "LEX000"
	CodeSyntax  = "SYN000"
)

// 语义错误码
const (
	CodeDuplicate         = "SEM001"
	CodeUndefinedVariable = "SEM003"
	CodeUndefinedFunction = "SEM005"
	CodeReturnOutside     = "SEM006"
	CodeLoopControl       = "SEM007"
	CodeMissingReturn     = "SEM008"
	CodeArity             = "SEM009"
	CodeBinaryTypes       = "SEM010"
	CodeUnaryType         = "SEM011"
	CodeReturnType        = "SEM012"
	CodeProcedureReturn   = "SEM013"
	CodeAssignConst       = "SEM014"
	CodeAssignType        = "SEM015"
	CodeConstWithoutValue = "SEM016"
	CodeIndexNotInt       = "SEM017"
	CodeConditionNotBool  = "SEM018"
	CodeNotIterable       = "SEM019"
	CodeTypeArgCount      = "SEM020"
	CodeVoidValue         = "SEM021"
	CodeIntOutOfRange     = "SEM022"
	CodeDuplicateField    = "SEM025"
	CodeFieldOnNonClass   = "SEM026"
	CodeUnknownType       = "SEM027"
	CodeUnknownMember     = "SEM028"
	CodeIndexNonArray     = "SEM029"
	CodeArraySizeNotInt   = "SEM030"
	CodeMapKeyType        = "SEM031"
)

// Diagnostic 一条诊断信息
type Diagnostic struct {
	Kind    Kind
	Code    string
	Message string
	Line    int
	Column  int
}

// String 格式化为 "line L:C: [CODE] message"
func (d Diagnostic) String() string {
	return i18n.T(i18n.MsgDiagnostic, d.Line, d.Column, d.Code, d.Message)
}

// List 按报告顺序收集的诊断列表
type List []Diagnostic

// Add 追加一条诊断
func (l *List) Add(kind Kind, code string, line, column int, message string) {
	*l = append(*l, Diagnostic{Kind: kind, Code: code, Message: message, Line: line, Column: column})
}

// HasErrors 是否存在诊断
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Codes 返回所有错误码，测试中常用
func (l List) Codes() []string {
	codes := make([]string, len(l))
	for i, d := range l {
		codes[i] = d.Code
	}
	return codes
}

// Error 实现 error 接口
func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
