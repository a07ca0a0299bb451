package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tangzhangming/codon/internal/i18n"
)

// buildCmd 编译 codon 源码到 LLVM IR
func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outputDir := fs.String("o", "", i18n.T(i18n.MsgBuildOptOutput))
	verbose := fs.Bool("v", false, i18n.T(i18n.MsgBuildOptVerbose))
	printIR := fs.Bool("p", false, i18n.T(i18n.MsgBuildOptPrint))
	native := fs.Bool("native", false, i18n.T(i18n.MsgBuildOptNative))

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgBuildUsage))
		fmt.Println()
		fmt.Println(i18n.T(i18n.MsgBuildDescription))
		fmt.Println()
		fmt.Println("Arguments:")
		fmt.Println(i18n.T(i18n.MsgBuildArgInput))
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

	if err := build(fs.Arg(0), *outputDir, *printIR, *native, *verbose); err != nil {
		printError("Error: " + err.Error())
		os.Exit(1)
	}
}

func build(input, outputDir string, printIR, native, verbose bool) error {
	u, err := loadUnit(input, verbose)
	if err != nil {
		return err
	}
	ir, err := u.compile(verbose)
	if err != nil {
		return err
	}

	if printIR {
		fmt.Print(ir)
		return nil
	}

	if outputDir == "" {
		outputDir = u.cfg.OutputDir(u.configPath, filepath.Dir(input))
	}
	irFile := u.irPath(outputDir)
	if err := writeIR(irFile, ir); err != nil {
		return err
	}
	if verbose {
		printInfo(i18n.T(i18n.MsgWroteIR, irFile))
	}

	out := irFile
	if native {
		out = strings.TrimSuffix(irFile, ".ll")
		if err := link(u.cfg.Toolchain, irFile, out, verbose); err != nil {
			return err
		}
	}
	fmt.Println(i18n.T(i18n.MsgBuildCompleted, out))
	return nil
}
