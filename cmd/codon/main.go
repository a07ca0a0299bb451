package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tangzhangming/codon/internal/i18n"
)

const version = "0.1.0"

// command 子命令
type command struct {
	name string
	help string // 帮助行的 i18n key
	run  func(args []string)
}

var commands []command

func init() {
	commands = []command{
		{name: "run", help: i18n.MsgCmdRun, run: runCmd},
		{name: "build", help: i18n.MsgCmdBuild, run: buildCmd},
		{name: "version", help: i18n.MsgCmdVersion, run: versionCmd},
		{name: "help", help: i18n.MsgCmdHelp, run: helpCmd},
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "-h" || name == "--help" {
		name = "help"
	}
	cmd := lookupCommand(name)
	if cmd == nil {
		printError(i18n.T(i18n.MsgUnknownCommand, name))
		printUsage()
		os.Exit(1)
	}
	cmd.run(os.Args[2:])
}

func lookupCommand(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

func versionCmd([]string) {
	fmt.Printf("codon %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
}

// helpCmd codon help [command]：带子命令时打印该命令的参数说明
func helpCmd(args []string) {
	if len(args) > 0 {
		if cmd := lookupCommand(args[0]); cmd != nil && cmd.name != "help" {
			cmd.run([]string{"-h"})
			return
		}
	}
	printUsage()
}

func printUsage() {
	fmt.Println(i18n.T(i18n.MsgUsage))
	fmt.Println()
	fmt.Println(i18n.T(i18n.MsgCommands))
	for _, cmd := range commands {
		fmt.Println(i18n.T(cmd.help))
	}
	fmt.Println()
	fmt.Println(i18n.T(i18n.MsgUseHelp))
}

func printError(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func printInfo(msg string) {
	fmt.Println(msg)
}

// printWarning 警告与错误一样写到 stderr，不混进程序输出
func printWarning(msg string) {
	fmt.Fprintln(os.Stderr, i18n.T(i18n.MsgWarning, msg))
}
