package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/tangzhangming/codon/internal/config"
	"github.com/tangzhangming/codon/internal/i18n"
)

// toolchainError 外部工具缺失或执行失败
type toolchainError struct {
	tool string
	err  error
}

func (e *toolchainError) Error() string {
	if e.err == nil {
		return i18n.T(i18n.ErrToolNotFound, e.tool)
	}
	return i18n.T(i18n.ErrRunError, fmt.Errorf("%s: %w", e.tool, e.err))
}

func (e *toolchainError) Unwrap() error {
	return e.err
}

// lookTool 在 PATH 中查找工具
func lookTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &toolchainError{tool: name}
	}
	return path, nil
}

// link 用配置的 C 编译器把 .ll 编译链接为可执行文件
func link(tc config.ToolchainConfig, irFile, exe string, verbose bool) error {
	cc, err := lookTool(tc.CC)
	if err != nil {
		return err
	}
	if verbose {
		printInfo(i18n.T(i18n.MsgLinking, tc.CC, exe))
	}
	args := append([]string{irFile, "-o", exe}, tc.Flags...)
	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &toolchainError{tool: tc.CC, err: err}
	}
	return nil
}

// execute 运行程序，标准输入输出直通
func execute(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &toolchainError{tool: name, err: err}
	}
	return nil
}
