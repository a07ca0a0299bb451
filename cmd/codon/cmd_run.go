package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
)

// runCmd 编译并运行 codon 源码
func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("v", false, i18n.T(i18n.MsgRunOptVerbose))
	native := fs.Bool("native", false, i18n.T(i18n.MsgRunOptNative))

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgRunUsage))
		fmt.Println()
		fmt.Println(i18n.T(i18n.MsgRunDescription))
		fmt.Println()
		fmt.Println("Arguments:")
		fmt.Println(i18n.T(i18n.MsgRunArgInput))
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		printError(i18n.T(i18n.ErrInputRequired))
		fs.Usage()
		os.Exit(1)
	}

	if err := run(fs.Arg(0), *native, *verbose); err != nil {
		printError("Error: " + err.Error())
		os.Exit(1)
	}
}

func run(input string, native, verbose bool) error {
	u, err := loadUnit(input, verbose)
	if err != nil {
		return err
	}
	ir, err := u.compile(verbose)
	if err != nil {
		return err
	}

	// 中间文件放在 .output
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%s", i18n.T(i18n.ErrCannotGetCwd, err))
	}
	outputDir := filepath.Join(cwd, ".output")
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("%s", i18n.T(i18n.ErrCannotCleanDir, err))
	}

	irFile := u.irPath(outputDir)
	if err := writeIR(irFile, ir); err != nil {
		return err
	}
	if verbose {
		printInfo(i18n.T(i18n.MsgWroteIR, irFile))
	}

	tc := u.cfg.Toolchain
	if !native {
		runner, err := lookTool(tc.Runner)
		if err == nil {
			if verbose {
				printInfo(i18n.T(i18n.MsgRunning, irFile))
			}
			return execute(runner, irFile)
		}
		// 没有 IR 解释器时退回本地链接
		printWarning(err.Error())
	}

	exe := strings.TrimSuffix(irFile, ".ll")
	if err := link(tc, irFile, exe, verbose); err != nil {
		return err
	}
	if verbose {
		printInfo(i18n.T(i18n.MsgRunning, exe))
	}
	return execute(exe)
}
