package compiler

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/casefile"
	"github.com/tangzhangming/codon/internal/i18n"
)

func TestStages(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage Stage
		codes []string
	}{
		{"lexical error blocks parsing", "x = 1 @ 2;", StageLex, []string{"LEX000"}},
		{"syntax error blocks checking", "print(1;", StageParse, []string{"SYN000"}},
		{"semantic error blocks emission", "print(z);", StageCheck, []string{"SEM003"}},
		{"clean program", "x = 1; print(x);", StageDone, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compile(tt.src, Options{Filename: "stage.cd"})
			be.Err(t, err, nil)
			be.Equal(t, res.Stage, tt.stage)
			be.Equal(t, res.Diagnostics.Codes(), tt.codes)
			be.Equal(t, res.OK(), tt.stage == StageDone)
			be.Equal(t, res.IR == "", tt.stage != StageDone)
		})
	}
}

func TestCompileKeepsIntermediates(t *testing.T) {
	res, err := Compile("x = 1 @ 2;", Options{})
	be.Err(t, err, nil)
	be.True(t, len(res.Tokens) > 0)
	be.True(t, res.Program == nil)

	res, err = Compile("function add(a: int, b: int): int { return a + b; } print(add(2, 3));", Options{
		Filename:     "add.cd",
		TargetTriple: "x86_64-pc-linux-gnu",
	})
	be.Err(t, err, nil)
	be.True(t, res.OK())
	be.True(t, res.Program != nil)
	be.Equal(t, len(res.Program.Statements), 2)
	be.True(t, strings.Contains(res.IR, `source_filename = "add.cd"`))
	be.True(t, strings.Contains(res.IR, `target triple = "x86_64-pc-linux-gnu"`))
}

func TestStageString(t *testing.T) {
	names := []string{"lex", "parse", "check", "emit", "done"}
	for i, want := range names {
		be.Equal(t, Stage(i).String(), want)
	}
}

// TestGolden 运行 testdata 下的 Markdown 用例。
// 设置 CODON_E2E=1 且 PATH 中有 lli 时还会执行程序并比对标准输出
func TestGolden(t *testing.T) {
	i18n.SetLanguage(i18n.LangEnglish)

	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	runner := ""
	if os.Getenv("CODON_E2E") == "1" {
		if path, err := exec.LookPath("lli"); err == nil {
			runner = path
		}
	}

	for _, file := range files {
		cases, err := casefile.ParseFile(file)
		be.Err(t, err, nil)
		for _, c := range cases {
			t.Run(filepath.Base(file)+"/"+c.Name, func(t *testing.T) {
				runCase(t, c, runner)
			})
		}
	}
}

func runCase(t *testing.T, c casefile.Case, runner string) {
	res, err := Compile(c.Source, Options{Filename: c.Name})
	be.Err(t, err, nil)

	if c.Diagnostics != nil {
		be.Equal(t, res.Diagnostics.Codes(), c.Diagnostics)
	} else if res.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%s", res.Diagnostics.Error())
	}

	for _, want := range c.IRContains {
		if !strings.Contains(res.IR, want) {
			t.Errorf("IR does not contain %q\n%s", want, res.IR)
		}
	}
	for _, banned := range c.IRAbsent {
		if strings.Contains(res.IR, banned) {
			t.Errorf("IR unexpectedly contains %q", banned)
		}
	}

	if c.Stdout == nil || runner == "" || !res.OK() {
		return
	}
	irFile := filepath.Join(t.TempDir(), "case.ll")
	be.Err(t, os.WriteFile(irFile, []byte(res.IR), 0o644), nil)

	var stdout bytes.Buffer
	cmd := exec.Command(runner, irFile)
	cmd.Stdin = strings.NewReader(c.Stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	be.Err(t, cmd.Run(), nil)
	be.Equal(t, stdout.String(), *c.Stdout)
}
