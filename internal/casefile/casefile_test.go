package casefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const sample = "# Basics\n\nIntro text.\n\n" +
	"## Test: add two numbers\n\n" +
	"```codon\nprint(2 + 3);\n```\n\n" +
	"```ir-contains\nadd i32 2, 3\n\n@printf\n```\n\n" +
	"```stdout\n5\n```\n\n" +
	"## Test: undefined\n\n" +
	"Some notes.\n\n" +
	"```codon\nprint(x);\n```\n\n" +
	"```diagnostics\nSEM003\n```\n\n" +
	"## Test: clean\n\n" +
	"```codon\nx = 1;\n```\n\n" +
	"```diagnostics\n```\n\n" +
	"```ir-absent\n@printf\n```\n\n" +
	"```stdin\n7\n```\n"

func TestParse(t *testing.T) {
	cases, err := Parse([]byte(sample))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 3)

	add := cases[0]
	be.Equal(t, add.Name, "add two numbers")
	be.Equal(t, add.Line, 5)
	be.Equal(t, add.Source, "print(2 + 3);\n")
	be.Equal(t, add.IRContains, []string{"add i32 2, 3", "@printf"})
	be.True(t, add.Stdout != nil)
	be.Equal(t, *add.Stdout, "5\n")
	// 未给出 diagnostics 块时不做断言
	be.True(t, add.Diagnostics == nil)

	undefined := cases[1]
	be.Equal(t, undefined.Diagnostics, []string{"SEM003"})
	be.True(t, undefined.Stdout == nil)

	clean := cases[2]
	be.True(t, clean.Diagnostics != nil)
	be.Equal(t, len(clean.Diagnostics), 0)
	be.Equal(t, clean.IRAbsent, []string{"@printf"})
	be.Equal(t, clean.Stdin, "7\n")
}

func TestParseIgnoresOtherHeadings(t *testing.T) {
	src := "# Notes\n\n```\nplain block\n```\n\n## Test: only\n\n```codon\nx = 1;\n```\n"
	cases, err := Parse([]byte(src))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Name, "only")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"fence outside test",
			"```codon\nx = 1;\n```\n",
			"outside of a test",
		},
		{
			"unknown fence",
			"## Test: a\n\n```codon\nx = 1;\n```\n\n```python\npass\n```\n",
			"unknown fence language 'python'",
		},
		{
			"duplicate source",
			"## Test: a\n\n```codon\nx = 1;\n```\n\n```codon\ny = 2;\n```\n",
			"multiple codon fences",
		},
		{
			"missing source",
			"## Test: a\n\n```diagnostics\nSEM003\n```\n",
			"has no codon fence",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			be.Err(t, err)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.md")
	be.Err(t, os.WriteFile(path, []byte(sample), 0o644), nil)
	cases, err := ParseFile(path)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	be.Err(t, err)
}
