package i18n

// enMessages contains English translations
var enMessages = map[string]string{
	// Diagnostics
	MsgKindLexical:  "lexical error",
	MsgKindSyntax:   "syntax error",
	MsgKindSemantic: "semantic error",
	MsgDiagnostic:   "line %d:%d: [%s] %s",

	// Scanner errors
	ErrUnexpectedChar: "unrecognized character '%s'",

	// Parser errors
	ErrExpectedToken:       "expected %s, got %s",
	ErrExpectedExpression:  "expected expression, got %s",
	ErrExpectedType:        "expected type name, got %s",
	ErrExpectedStatement:   "unexpected token %s at start of statement",
	ErrNestedDeclaration:   "'%s' declarations are only allowed at the top level",
	ErrUnexpectedEOF:       "unexpected end of input",
	ErrInvalidAssignTarget: "invalid assignment target",
	ErrInvalidNew:          "expected '(' or '[' after 'new %s'",
	ErrReturnTypeRequired:  "function '%s' requires a return type (use 'procedure' for no return value)",
	ErrInvalidEnumValue:    "value of enum member '%s' must be an integer literal",

	// Type checker errors
	ErrDuplicateSymbol:        "symbol '%s' is already defined in this scope",
	ErrUndefinedVariable:      "use of undefined variable '%s'",
	ErrUndefinedFunction:      "call to undefined function '%s'",
	ErrReturnOutsideFunction:  "'return' statement outside of a function",
	ErrLoopControlOutsideLoop: "'%s' outside of a loop",
	ErrMissingReturn:          "function '%s' (not a procedure) requires a 'return' statement",
	ErrArityMismatch:          "Function '%s' expects %d args but received %d",
	ErrBinaryTypes:            "incompatible types '%s' and '%s' for binary operator '%s'",
	ErrUnaryNumeric:           "unary operator '%s' requires a numeric type, got '%s'",
	ErrUnaryBool:              "unary operator '%s' requires type 'bool', got '%s'",
	ErrUnaryInt:               "unary operator '%s' requires type 'int', got '%s'",
	ErrReturnTypeMismatch:     "return type of function '%s' is incompatible: expected '%s', got '%s'",
	ErrProcedureReturnsValue:  "a procedure cannot return a value of type '%s'",
	ErrAssignToConst:          "'%s' is const and cannot be assigned",
	ErrAssignTypeMismatch:     "incompatible types in assignment: '%s' := '%s'",
	ErrConstWithoutValue:      "const '%s' must be initialized",
	ErrIndexNotInt:            "array index must be of type 'int', got '%s'",
	ErrConditionNotBool:       "condition of '%s' must be of type 'bool', got '%s'",
	ErrNotIterable:            "cannot iterate over a value of type '%s'",
	ErrTypeArgCount:           "'%s' expects %d type arguments but received %d",
	ErrDuplicateField:         "duplicate field '%s' in class '%s'",
	ErrFieldOnNonClass:        "field access ('%s') on invalid or undefined type '%s'",
	ErrUnknownFieldType:       "type '%s' of field '%s' is undefined (class or primitive)",
	ErrUnknownParamType:       "type '%s' of parameter '%s' is undefined",
	ErrUnknownVarType:         "type '%s' of variable '%s' is undefined",
	ErrUnknownClass:           "undefined class '%s'",
	ErrUnknownField:           "field '%s' does not exist in class '%s'",
	ErrIndexNonArray:          "attempt to index a non-array type: '%s'",
	ErrArraySizeNotInt:        "array size must be of type 'int', got '%s'",
	ErrMapKeyType:             "map key must be of type '%s', got '%s'",
	ErrVoidValue:              "'%s' does not return a value",
	ErrIntOutOfRange:          "integer literal %s does not fit in int",
	ErrNotAValue:              "function '%s' cannot be used as a value",

	// Backend contract violations
	ErrInternalUnresolved:  "internal error: unresolved name '%s'",
	ErrInternalNoLoop:      "internal error: '%s' with no enclosing loop",
	ErrInternalUnsupported: "internal error: unsupported %s",

	// CLI - Usage and help
	MsgUsage:          "Usage: codon <command> [arguments]",
	MsgCommands:       "Commands:",
	MsgCmdRun:         "  run      Compile a .cd file and execute it",
	MsgCmdBuild:       "  build    Compile a .cd file to LLVM IR",
	MsgCmdVersion:     "  version  Print version information",
	MsgCmdHelp:        "  help     Print this help message",
	MsgUseHelp:        "Use \"codon <command> -h\" for more information about a command.",
	MsgUnknownCommand: "Unknown command: %s",
	MsgWarning:        "Warning: %s",

	// CLI - Run command
	MsgRunUsage:       "Usage: codon run [options] <file.cd>",
	MsgRunDescription: "Compile a source file and execute the emitted IR.\nIntermediate files are placed in the .output directory (auto-cleaned).",
	MsgRunArgInput:    "  <file.cd>  Source file",
	MsgRunOptVerbose:  "Verbose output",
	MsgRunOptNative:   "Link a native executable with the configured C compiler instead of using the IR runner",

	// CLI - Build command
	MsgBuildUsage:       "Usage: codon build [options] <file.cd>",
	MsgBuildDescription: "Compile a source file to a textual LLVM IR module (.ll) next to the source.",
	MsgBuildArgInput:    "  <file.cd>  Source file",
	MsgBuildOptOutput:   "Output directory (default: next to the source, or [build].output_dir)",
	MsgBuildOptVerbose:  "Verbose output",
	MsgBuildOptPrint:    "Print the IR to stdout instead of writing a file",
	MsgBuildOptNative:   "Also link a native executable with the configured C compiler",
	MsgBuildCompleted:   "Build completed: %s",

	// CLI - Common errors
	ErrInputRequired:     "Error: input file is required",
	ErrBadExtension:      "input file '%s' must have the %s extension",
	ErrCannotGetCwd:      "Error: cannot get current directory: %v",
	ErrCannotCleanDir:    "Error: cannot clean output directory: %v",
	ErrCannotAccessInput: "cannot access input",
	ErrCannotLoadConfig:  "cannot load config",
	ErrCannotReadFile:    "cannot read file",
	ErrCannotWriteFile:   "cannot write file",
	ErrCompileFailed:     "%s: compilation failed with %d error(s)",
	ErrInternal:          "%s: internal compiler error",
	ErrToolNotFound:      "tool '%s' not found in PATH (configure it in codon.toml [toolchain])",
	ErrRunError:          "Error running: %v",

	// CLI - Info messages
	MsgUsingConfig: "Using config: %s",
	MsgNoConfig:    "No codon.toml found, using defaults",
	MsgCompiling:   "Compiling: %s",
	MsgWroteIR:     "Wrote IR: %s",
	MsgLinking:     "Linking with %s: %s",
	MsgRunning:     "Running: %s",
}
