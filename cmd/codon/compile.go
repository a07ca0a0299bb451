package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tangzhangming/codon/internal/codegen"
	"github.com/tangzhangming/codon/internal/compiler"
	"github.com/tangzhangming/codon/internal/config"
	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
)

// sourceExt 源文件扩展名
const sourceExt = ".cd"

// unit 一次编译的输入与配置
type unit struct {
	input      string
	cfg        *config.Config
	configPath string
}

// loadUnit 校验输入文件并加载 codon.toml
func loadUnit(input string, verbose bool) (*unit, error) {
	if filepath.Ext(input) != sourceExt {
		return nil, &extensionError{path: input}
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, &accessError{err: err}
	}
	if info.IsDir() {
		return nil, &extensionError{path: input}
	}

	cfg, configPath, err := config.FindAndLoad(filepath.Dir(input))
	if err != nil {
		return nil, &configError{err: err}
	}
	if lang, ok := i18n.ParseLanguage(cfg.Diagnostics.Language); ok {
		i18n.SetLanguage(lang)
	}

	if verbose {
		if configPath != "" {
			printInfo(i18n.T(i18n.MsgUsingConfig, configPath))
		} else {
			printInfo(i18n.T(i18n.MsgNoConfig))
		}
	}
	return &unit{input: input, cfg: cfg, configPath: configPath}, nil
}

// compile 编译源文件，诊断打印到 stderr
func (u *unit) compile(verbose bool) (string, error) {
	if verbose {
		printInfo(i18n.T(i18n.MsgCompiling, u.input))
	}
	source, err := os.ReadFile(u.input)
	if err != nil {
		return "", &readFileError{path: u.input, err: err}
	}

	res, err := compiler.Compile(string(source), compiler.Options{
		Filename:     filepath.Base(u.input),
		TargetTriple: u.cfg.Build.TargetTriple,
	})
	if err != nil {
		var ie *codegen.InternalError
		if errors.As(err, &ie) {
			return "", &internalError{path: u.input, err: ie}
		}
		return "", err
	}
	if !res.OK() {
		printDiagnostics(u.input, res.Diagnostics)
		return "", &compileError{path: u.input, count: len(res.Diagnostics)}
	}
	return res.IR, nil
}

// irPath 输出的 .ll 路径
func (u *unit) irPath(outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(u.input), sourceExt)
	return filepath.Join(outputDir, base+".ll")
}

// writeIR 写出 IR 文件
func writeIR(path, ir string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &writeFileError{path: path, err: err}
	}
	if err := os.WriteFile(path, []byte(ir), 0644); err != nil {
		return &writeFileError{path: path, err: err}
	}
	return nil
}

// printDiagnostics 每条诊断一行：file:line:col: [CODE] message
func printDiagnostics(path string, list diag.List) {
	for _, d := range list {
		printError(fmt.Sprintf("%s: %s", path, d.String()))
	}
}

// 错误类型

type accessError struct {
	err error
}

func (e *accessError) Error() string {
	return fmt.Sprintf("%s: %v", i18n.T(i18n.ErrCannotAccessInput), e.err)
}

type extensionError struct {
	path string
}

func (e *extensionError) Error() string {
	return i18n.T(i18n.ErrBadExtension, e.path, sourceExt)
}

type configError struct {
	err error
}

func (e *configError) Error() string {
	return fmt.Sprintf("%s: %v", i18n.T(i18n.ErrCannotLoadConfig), e.err)
}

type readFileError struct {
	path string
	err  error
}

func (e *readFileError) Error() string {
	return fmt.Sprintf("%s %s: %v", i18n.T(i18n.ErrCannotReadFile), e.path, e.err)
}

type writeFileError struct {
	path string
	err  error
}

func (e *writeFileError) Error() string {
	return fmt.Sprintf("%s %s: %v", i18n.T(i18n.ErrCannotWriteFile), e.path, e.err)
}

type compileError struct {
	path  string
	count int
}

func (e *compileError) Error() string {
	return i18n.T(i18n.ErrCompileFailed, e.path, e.count)
}

type internalError struct {
	path string
	err  error
}

func (e *internalError) Error() string {
	return fmt.Sprintf("%s: %v", i18n.T(i18n.ErrInternal, e.path), e.err)
}

func (e *internalError) Unwrap() error {
	return e.err
}
