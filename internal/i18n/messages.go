package i18n

// Message keys shared by every diagnostic
const (
	MsgKindLexical  = "diag.kind_lexical"
	MsgKindSyntax   = "diag.kind_syntax"
	MsgKindSemantic = "diag.kind_semantic"
	MsgDiagnostic   = "diag.format" // args: line, column, code, message
)

// Message keys for scanner errors
const (
	ErrUnexpectedChar = "lexer.unexpected_char" // args: char
)

// Message keys for parser errors
const (
	ErrExpectedToken       = "parser.expected_token"      // args: expected, got
	ErrExpectedExpression  = "parser.expected_expression" // args: got
	ErrExpectedType        = "parser.expected_type"       // args: got
	ErrExpectedStatement   = "parser.expected_statement"  // args: got
	ErrNestedDeclaration   = "parser.nested_declaration"  // args: keyword
	ErrUnexpectedEOF       = "parser.unexpected_eof"
	ErrInvalidAssignTarget = "parser.invalid_assign_target"
	ErrInvalidNew          = "parser.invalid_new"          // args: typeName
	ErrReturnTypeRequired  = "parser.return_type_required" // args: funcName
	ErrInvalidEnumValue    = "parser.invalid_enum_value"   // args: member
)

// Message keys for type checker errors
const (
	ErrDuplicateSymbol        = "checker.duplicate_symbol"   // args: name
	ErrUndefinedVariable      = "checker.undefined_variable" // args: name
	ErrUndefinedFunction      = "checker.undefined_function" // args: name
	ErrReturnOutsideFunction  = "checker.return_outside_function"
	ErrLoopControlOutsideLoop = "checker.loop_control_outside"    // args: keyword
	ErrMissingReturn          = "checker.missing_return"          // args: funcName
	ErrArityMismatch          = "checker.arity_mismatch"          // args: funcName, expected, got
	ErrBinaryTypes            = "checker.binary_types"            // args: left, right, op
	ErrUnaryNumeric           = "checker.unary_numeric"           // args: op, type
	ErrUnaryBool              = "checker.unary_bool"              // args: op, type
	ErrUnaryInt               = "checker.unary_int"               // args: op, type
	ErrReturnTypeMismatch     = "checker.return_type_mismatch"    // args: funcName, expected, got
	ErrProcedureReturnsValue  = "checker.procedure_returns_value" // args: type
	ErrAssignToConst          = "checker.assign_to_const"         // args: name
	ErrAssignTypeMismatch     = "checker.assign_type_mismatch"    // args: expected, got
	ErrConstWithoutValue      = "checker.const_without_value"     // args: name
	ErrIndexNotInt            = "checker.index_not_int"           // args: type
	ErrConditionNotBool       = "checker.condition_not_bool"      // args: keyword, type
	ErrNotIterable            = "checker.not_iterable"            // args: type
	ErrTypeArgCount           = "checker.type_arg_count"          // args: name, expected, got
	ErrDuplicateField         = "checker.duplicate_field"         // args: field, className
	ErrFieldOnNonClass        = "checker.field_on_non_class"      // args: field, type
	ErrUnknownFieldType       = "checker.unknown_field_type"      // args: type, field
	ErrUnknownParamType       = "checker.unknown_param_type"      // args: type, param
	ErrUnknownVarType         = "checker.unknown_var_type"        // args: type, name
	ErrUnknownClass           = "checker.unknown_class"           // args: name
	ErrUnknownField           = "checker.unknown_field"           // args: field, className
	ErrIndexNonArray          = "checker.index_non_array"         // args: type
	ErrArraySizeNotInt        = "checker.array_size_not_int"      // args: type
	ErrMapKeyType             = "checker.map_key_type"            // args: expected, got
	ErrVoidValue              = "checker.void_value"              // args: callee
	ErrIntOutOfRange          = "checker.int_out_of_range"        // args: literal
	ErrNotAValue              = "checker.not_a_value"             // args: name
)

// Message keys for backend contract violations
const (
	ErrInternalUnresolved  = "codegen.unresolved"  // args: name
	ErrInternalNoLoop      = "codegen.no_loop"     // args: keyword
	ErrInternalUnsupported = "codegen.unsupported" // args: what
)

// Message keys for CLI
const (
	// Usage and help
	MsgUsage          = "cli.usage"
	MsgCommands       = "cli.commands"
	MsgCmdRun         = "cli.cmd_run"
	MsgCmdBuild       = "cli.cmd_build"
	MsgCmdVersion     = "cli.cmd_version"
	MsgCmdHelp        = "cli.cmd_help"
	MsgUseHelp        = "cli.use_help"
	MsgUnknownCommand = "cli.unknown_command" // args: command
	MsgWarning        = "cli.warning"         // args: message

	// Run command
	MsgRunUsage       = "cli.run_usage"
	MsgRunDescription = "cli.run_description"
	MsgRunArgInput    = "cli.run_arg_input"
	MsgRunOptVerbose  = "cli.run_opt_verbose"
	MsgRunOptNative   = "cli.run_opt_native"

	// Build command
	MsgBuildUsage       = "cli.build_usage"
	MsgBuildDescription = "cli.build_description"
	MsgBuildArgInput    = "cli.build_arg_input"
	MsgBuildOptOutput   = "cli.build_opt_output"
	MsgBuildOptVerbose  = "cli.build_opt_verbose"
	MsgBuildOptPrint    = "cli.build_opt_print"
	MsgBuildOptNative   = "cli.build_opt_native"
	MsgBuildCompleted   = "cli.build_completed" // args: path

	// Common errors
	ErrInputRequired     = "cli.input_required"
	ErrBadExtension      = "cli.bad_extension"    // args: path, ext
	ErrCannotGetCwd      = "cli.cannot_get_cwd"   // args: error
	ErrCannotCleanDir    = "cli.cannot_clean_dir" // args: error
	ErrCannotAccessInput = "cli.cannot_access_input"
	ErrCannotLoadConfig  = "cli.cannot_load_config"
	ErrCannotReadFile    = "cli.cannot_read_file"
	ErrCannotWriteFile   = "cli.cannot_write_file"
	ErrCompileFailed     = "cli.compile_failed" // args: path, count
	ErrInternal          = "cli.internal"       // args: path
	ErrToolNotFound      = "cli.tool_not_found" // args: tool
	ErrRunError          = "cli.run_error"      // args: error

	// Info messages
	MsgUsingConfig = "cli.using_config" // args: configPath
	MsgNoConfig    = "cli.no_config"
	MsgCompiling   = "cli.compiling" // args: path
	MsgWroteIR     = "cli.wrote_ir"  // args: path
	MsgLinking     = "cli.linking"   // args: cc, output
	MsgRunning     = "cli.running"   // args: command
)
