package i18n

// zhMessages contains Chinese translations
var zhMessages = map[string]string{
	// Diagnostics
	MsgKindLexical:  "词法错误",
	MsgKindSyntax:   "语法错误",
	MsgKindSemantic: "语义错误",
	MsgDiagnostic:   "第 %d 行第 %d 列: [%s] %s",

	// Scanner errors
	ErrUnexpectedChar: "无法识别的字符 '%s'",

	// Parser errors
	ErrExpectedToken:       "期望 %s, 实际是 %s",
	ErrExpectedExpression:  "期望表达式, 实际是 %s",
	ErrExpectedType:        "期望类型名, 实际是 %s",
	ErrExpectedStatement:   "语句开头出现意外的 token %s",
	ErrNestedDeclaration:   "'%s' 声明只能出现在顶层",
	ErrUnexpectedEOF:       "输入意外结束",
	ErrInvalidAssignTarget: "无效的赋值目标",
	ErrInvalidNew:          "'new %s' 之后期望 '(' 或 '['",
	ErrReturnTypeRequired:  "函数 '%s' 需要返回类型 (无返回值请使用 'procedure')",
	ErrInvalidEnumValue:    "枚举成员 '%s' 的值必须是整数字面量",

	// Type checker errors
	ErrDuplicateSymbol:        "符号 '%s' 已在当前作用域中定义",
	ErrUndefinedVariable:      "使用了未定义的变量 '%s'",
	ErrUndefinedFunction:      "调用了未定义的函数 '%s'",
	ErrReturnOutsideFunction:  "'return' 语句出现在函数之外",
	ErrLoopControlOutsideLoop: "'%s' 出现在循环之外",
	ErrMissingReturn:          "函数 '%s' (非 procedure) 需要 'return' 语句",
	ErrArityMismatch:          "函数 '%s' 需要 %d 个参数, 实际传入 %d 个",
	ErrBinaryTypes:            "二元运算符 '%[3]s' 的操作数类型 '%[1]s' 和 '%[2]s' 不兼容",
	ErrUnaryNumeric:           "一元运算符 '%s' 需要数值类型, 实际是 '%s'",
	ErrUnaryBool:              "一元运算符 '%s' 需要 'bool' 类型, 实际是 '%s'",
	ErrUnaryInt:               "一元运算符 '%s' 需要 'int' 类型, 实际是 '%s'",
	ErrReturnTypeMismatch:     "函数 '%s' 的返回类型不兼容: 期望 '%s', 实际是 '%s'",
	ErrProcedureReturnsValue:  "procedure 不能返回 '%s' 类型的值",
	ErrAssignToConst:          "'%s' 是常量, 不能赋值",
	ErrAssignTypeMismatch:     "赋值类型不兼容: '%s' := '%s'",
	ErrConstWithoutValue:      "常量 '%s' 必须初始化",
	ErrIndexNotInt:            "数组下标必须是 'int' 类型, 实际是 '%s'",
	ErrConditionNotBool:       "'%s' 的条件必须是 'bool' 类型, 实际是 '%s'",
	ErrNotIterable:            "无法遍历 '%s' 类型的值",
	ErrTypeArgCount:           "'%s' 需要 %d 个类型参数, 实际传入 %d 个",
	ErrDuplicateField:         "字段 '%s' 在类 '%s' 中重复",
	ErrFieldOnNonClass:        "在无效或未定义的类型 '%[2]s' 上访问字段 ('%[1]s')",
	ErrUnknownFieldType:       "字段 '%[2]s' 的类型 '%[1]s' 未定义 (类或基本类型)",
	ErrUnknownParamType:       "参数 '%[2]s' 的类型 '%[1]s' 未定义",
	ErrUnknownVarType:         "变量 '%[2]s' 的类型 '%[1]s' 未定义",
	ErrUnknownClass:           "未定义的类 '%s'",
	ErrUnknownField:           "字段 '%s' 在类 '%s' 中不存在",
	ErrIndexNonArray:          "试图对非数组类型 '%s' 进行下标访问",
	ErrArraySizeNotInt:        "数组大小必须是 'int' 类型, 实际是 '%s'",
	ErrMapKeyType:             "映射的键必须是 '%s' 类型, 实际是 '%s'",
	ErrVoidValue:              "'%s' 没有返回值",
	ErrIntOutOfRange:          "整数字面量 %s 超出 int 范围",
	ErrNotAValue:              "函数 '%s' 不能作为值使用",

	// Backend contract violations
	ErrInternalUnresolved:  "内部错误: 无法解析的名称 '%s'",
	ErrInternalNoLoop:      "内部错误: '%s' 没有外层循环",
	ErrInternalUnsupported: "内部错误: 不支持的 %s",

	// CLI - Usage and help
	MsgUsage:          "用法: codon <命令> [参数]",
	MsgCommands:       "命令:",
	MsgCmdRun:         "  run      编译 .cd 文件并执行",
	MsgCmdBuild:       "  build    将 .cd 文件编译为 LLVM IR",
	MsgCmdVersion:     "  version  显示版本信息",
	MsgCmdHelp:        "  help     显示帮助信息",
	MsgUseHelp:        "使用 \"codon <命令> -h\" 查看命令的详细信息。",
	MsgUnknownCommand: "未知命令: %s",
	MsgWarning:        "警告: %s",

	// CLI - Run command
	MsgRunUsage:       "用法: codon run [选项] <file.cd>",
	MsgRunDescription: "编译源文件并执行生成的 IR。\n中间文件放在 .output 目录中（自动清理）。",
	MsgRunArgInput:    "  <file.cd>  源文件",
	MsgRunOptVerbose:  "详细输出",
	MsgRunOptNative:   "使用配置的 C 编译器链接本地可执行文件，而不是使用 IR 运行器",

	// CLI - Build command
	MsgBuildUsage:       "用法: codon build [选项] <file.cd>",
	MsgBuildDescription: "将源文件编译为文本形式的 LLVM IR 模块 (.ll)，放在源文件旁边。",
	MsgBuildArgInput:    "  <file.cd>  源文件",
	MsgBuildOptOutput:   "输出目录（默认：源文件所在目录，或 [build].output_dir）",
	MsgBuildOptVerbose:  "详细输出",
	MsgBuildOptPrint:    "将 IR 打印到标准输出而不是写入文件",
	MsgBuildOptNative:   "同时使用配置的 C 编译器链接本地可执行文件",
	MsgBuildCompleted:   "构建完成: %s",

	// CLI - Common errors
	ErrInputRequired:     "错误: 需要指定输入文件",
	ErrBadExtension:      "输入文件 '%s' 必须使用 %s 扩展名",
	ErrCannotGetCwd:      "错误: 无法获取当前目录: %v",
	ErrCannotCleanDir:    "错误: 无法清理输出目录: %v",
	ErrCannotAccessInput: "无法访问输入",
	ErrCannotLoadConfig:  "无法加载配置",
	ErrCannotReadFile:    "无法读取文件",
	ErrCannotWriteFile:   "无法写入文件",
	ErrCompileFailed:     "%s: 编译失败, 共 %d 个错误",
	ErrInternal:          "%s: 编译器内部错误",
	ErrToolNotFound:      "在 PATH 中找不到工具 '%s' (可在 codon.toml 的 [toolchain] 中配置)",
	ErrRunError:          "运行错误: %v",

	// CLI - Info messages
	MsgUsingConfig: "使用配置: %s",
	MsgNoConfig:    "未找到 codon.toml, 使用默认配置",
	MsgCompiling:   "编译: %s",
	MsgWroteIR:     "已写入 IR: %s",
	MsgLinking:     "使用 %s 链接: %s",
	MsgRunning:     "运行: %s",
}
