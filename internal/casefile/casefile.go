// Package casefile extracts golden compiler test cases from Markdown. Each
// "Test: name" heading starts a case; a ```codon fence holds the program and
// the remaining fences hold expectations.
package casefile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FenceType 代码块语言
type FenceType string

const (
	FenceSource      FenceType = "codon"
	FenceDiagnostics FenceType = "diagnostics" // 每行一个错误码
	FenceIRContains  FenceType = "ir-contains" // 每行一个必须出现的 IR 片段
	FenceIRAbsent    FenceType = "ir-absent"   // 每行一个不能出现的 IR 片段
	FenceStdout      FenceType = "stdout"      // 运行后的标准输出
	FenceStdin       FenceType = "stdin"       // 运行时的标准输入
)

// Case 一个测试用例
type Case struct {
	Name        string
	Line        int
	Source      string
	Diagnostics []string // nil 表示未断言；空切片表示断言无诊断
	IRContains  []string
	IRAbsent    []string
	Stdout      *string
	Stdin       string
}

const testPrefix = "Test: "

// ParseFile 读取并解析文件
func ParseFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 从 Markdown 中提取全部用例
func Parse(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var cur *Case

	finish := func() error {
		if cur == nil {
			return nil
		}
		if cur.Source == "" {
			return fmt.Errorf("line %d: test '%s' has no codon fence", cur.Line, cur.Name)
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, testPrefix) {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(heading, testPrefix), Line: lineOf(n, source)}

		case *ast.FencedCodeBlock:
			lang := FenceType(n.Language(source))
			content := blockContent(n, source)
			line := lineOf(n, source)
			if cur == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
				}
				return ast.WalkContinue, nil
			}
			if err := cur.add(lang, content, line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// add 把一个代码块记入用例
func (c *Case) add(lang FenceType, content string, line int) error {
	switch lang {
	case FenceSource:
		if c.Source != "" {
			return fmt.Errorf("line %d: multiple codon fences in test '%s'", line, c.Name)
		}
		c.Source = content
	case FenceDiagnostics:
		c.Diagnostics = nonEmptyLines(content)
	case FenceIRContains:
		c.IRContains = append(c.IRContains, nonEmptyLines(content)...)
	case FenceIRAbsent:
		c.IRAbsent = append(c.IRAbsent, nonEmptyLines(content)...)
	case FenceStdout:
		out := content
		c.Stdout = &out
	case FenceStdin:
		c.Stdin = content
	case "":
	default:
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, lang, c.Name)
	}
	return nil
}

// nonEmptyLines 去掉首尾空白后的非空行
func nonEmptyLines(s string) []string {
	out := []string{}
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf 节点首行的行号（从 1 开始）
func lineOf(node ast.Node, source []byte) int {
	pos := -1
	if node.Lines().Len() > 0 {
		pos = node.Lines().At(0).Start
	} else if node.FirstChild() != nil {
		if t, ok := node.FirstChild().(*ast.Text); ok {
			pos = t.Segment.Start
		}
	}
	if pos < 0 {
		return 1
	}
	return bytes.Count(source[:min(pos, len(source))], []byte("\n")) + 1
}
