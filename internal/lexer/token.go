package lexer

// TokenType 表示 token 的类型
type TokenType int

const (
	// 特殊 token
	TOKEN_ILLEGAL TokenType = iota
	TOKEN_EOF
	TOKEN_SKIP // 可丢弃的类别：空白、注释、换行

	// 标识符和字面量
	TOKEN_IDENT  // 标识符
	TOKEN_INT    // 整数
	TOKEN_FLOAT  // 浮点数
	TOKEN_STRING // 字符串
	TOKEN_CHAR   // 字符
	TOKEN_DNA    // dna"..."
	TOKEN_RNA    // rna"..."
	TOKEN_PROT   // prot"..."

	// 运算符
	TOKEN_ASSIGN   // =
	TOKEN_PLUS     // +
	TOKEN_MINUS    // -
	TOKEN_ASTERISK // *
	TOKEN_SLASH    // /
	TOKEN_PERCENT  // %
	TOKEN_POWER    // **

	TOKEN_EQ     // ==
	TOKEN_NOT_EQ // !=
	TOKEN_LT     // <
	TOKEN_GT     // >
	TOKEN_LT_EQ  // <=
	TOKEN_GT_EQ  // >=

	TOKEN_AND // &&
	TOKEN_OR  // ||
	TOKEN_NOT // !

	TOKEN_BIT_AND // &
	TOKEN_BIT_OR  // |
	TOKEN_BIT_XOR // ^
	TOKEN_BIT_NOT // ~
	TOKEN_SHL     // <<
	TOKEN_SHR     // >>

	TOKEN_PLUS_ASSIGN     // +=
	TOKEN_MINUS_ASSIGN    // -=
	TOKEN_ASTERISK_ASSIGN // *=
	TOKEN_SLASH_ASSIGN    // /=
	TOKEN_PERCENT_ASSIGN  // %=
	TOKEN_SHL_ASSIGN      // <<=
	TOKEN_SHR_ASSIGN      // >>=

	TOKEN_INC // ++
	TOKEN_DEC // --

	TOKEN_LARROW    // <-
	TOKEN_ARROW     // ->
	TOKEN_FAT_ARROW // =>
	TOKEN_RANGE     // ..
	TOKEN_ELLIPSIS  // ...

	// 分隔符
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_COLON     // :
	TOKEN_DOT       // .

	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }

	// 关键字
	TOKEN_FUNCTION  // function
	TOKEN_PROCEDURE // procedure
	TOKEN_CLASS     // class
	TOKEN_EXTENDS   // extends
	TOKEN_ENUM      // enum
	TOKEN_VAR       // var
	TOKEN_CONST     // const
	TOKEN_IF        // if
	TOKEN_ELIF      // elif
	TOKEN_ELSE      // else
	TOKEN_WHILE     // while
	TOKEN_LOOP      // loop
	TOKEN_FOR       // for
	TOKEN_IN        // in
	TOKEN_BREAK     // break
	TOKEN_CONTINUE  // continue
	TOKEN_RETURN    // return
	TOKEN_PRINT     // print
	TOKEN_NEW       // new
	TOKEN_TRUE      // true
	TOKEN_FALSE     // false
	TOKEN_NULL      // null
	TOKEN_MAP       // map

	// 保留字，语法中暂未使用
	TOKEN_SWITCH  // switch
	TOKEN_CASE    // case
	TOKEN_DEFAULT // default
	TOKEN_MATCH   // match
	TOKEN_IMPORT  // import
	TOKEN_FROM    // from
	TOKEN_AS      // as
	TOKEN_STRUCT  // struct
	TOKEN_PUB     // pub
	TOKEN_EXTERN  // extern
	TOKEN_USE     // use
)

// Token 表示一个词法单元
type Token struct {
	Type    TokenType
	Literal string
	Line    int // 从 1 开始
	Column  int // 从 1 开始
	Start   int // 起始字节偏移
	End     int // 结束字节偏移（不含）
}

var keywords = map[string]TokenType{
	"function":  TOKEN_FUNCTION,
	"procedure": TOKEN_PROCEDURE,
	"class":     TOKEN_CLASS,
	"extends":   TOKEN_EXTENDS,
	"enum":      TOKEN_ENUM,
	"var":       TOKEN_VAR,
	"const":     TOKEN_CONST,
	"if":        TOKEN_IF,
	"elif":      TOKEN_ELIF,
	"else":      TOKEN_ELSE,
	"while":     TOKEN_WHILE,
	"loop":      TOKEN_LOOP,
	"for":       TOKEN_FOR,
	"in":        TOKEN_IN,
	"break":     TOKEN_BREAK,
	"continue":  TOKEN_CONTINUE,
	"return":    TOKEN_RETURN,
	"print":     TOKEN_PRINT,
	"new":       TOKEN_NEW,
	"true":      TOKEN_TRUE,
	"false":     TOKEN_FALSE,
	"null":      TOKEN_NULL,
	"map":       TOKEN_MAP,
	"and":       TOKEN_AND,
	"or":        TOKEN_OR,
	"not":       TOKEN_NOT,
	"switch":    TOKEN_SWITCH,
	"case":      TOKEN_CASE,
	"default":   TOKEN_DEFAULT,
	"match":     TOKEN_MATCH,
	"import":    TOKEN_IMPORT,
	"from":      TOKEN_FROM,
	"as":        TOKEN_AS,
	"struct":    TOKEN_STRUCT,
	"pub":       TOKEN_PUB,
	"extern":    TOKEN_EXTERN,
	"use":       TOKEN_USE,
}

// LookupIdent 查找标识符是否为关键字
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}

// IsKeyword 判断 token 类型是否为关键字
func IsKeyword(t TokenType) bool {
	return t >= TOKEN_FUNCTION && t <= TOKEN_USE
}

var tokenNames = map[TokenType]string{
	TOKEN_ILLEGAL:         "ILLEGAL",
	TOKEN_EOF:             "EOF",
	TOKEN_SKIP:            "SKIP",
	TOKEN_IDENT:           "IDENT",
	TOKEN_INT:             "INT",
	TOKEN_FLOAT:           "FLOAT",
	TOKEN_STRING:          "STRING",
	TOKEN_CHAR:            "CHAR",
	TOKEN_DNA:             "DNA",
	TOKEN_RNA:             "RNA",
	TOKEN_PROT:            "PROT",
	TOKEN_ASSIGN:          "=",
	TOKEN_PLUS:            "+",
	TOKEN_MINUS:           "-",
	TOKEN_ASTERISK:        "*",
	TOKEN_SLASH:           "/",
	TOKEN_PERCENT:         "%",
	TOKEN_POWER:           "**",
	TOKEN_EQ:              "==",
	TOKEN_NOT_EQ:          "!=",
	TOKEN_LT:              "<",
	TOKEN_GT:              ">",
	TOKEN_LT_EQ:           "<=",
	TOKEN_GT_EQ:           ">=",
	TOKEN_AND:             "&&",
	TOKEN_OR:              "||",
	TOKEN_NOT:             "!",
	TOKEN_BIT_AND:         "&",
	TOKEN_BIT_OR:          "|",
	TOKEN_BIT_XOR:         "^",
	TOKEN_BIT_NOT:         "~",
	TOKEN_SHL:             "<<",
	TOKEN_SHR:             ">>",
	TOKEN_PLUS_ASSIGN:     "+=",
	TOKEN_MINUS_ASSIGN:    "-=",
	TOKEN_ASTERISK_ASSIGN: "*=",
	TOKEN_SLASH_ASSIGN:    "/=",
	TOKEN_PERCENT_ASSIGN:  "%=",
	TOKEN_SHL_ASSIGN:      "<<=",
	TOKEN_SHR_ASSIGN:      ">>=",
	TOKEN_INC:             "++",
	TOKEN_DEC:             "--",
	TOKEN_LARROW:          "<-",
	TOKEN_ARROW:           "->",
	TOKEN_FAT_ARROW:       "=>",
	TOKEN_RANGE:           "..",
	TOKEN_ELLIPSIS:        "...",
	TOKEN_COMMA:           ",",
	TOKEN_SEMICOLON:       ";",
	TOKEN_COLON:           ":",
	TOKEN_DOT:             ".",
	TOKEN_LPAREN:          "(",
	TOKEN_RPAREN:          ")",
	TOKEN_LBRACKET:        "[",
	TOKEN_RBRACKET:        "]",
	TOKEN_LBRACE:          "{",
	TOKEN_RBRACE:          "}",
}

// TokenTypeName 返回 token 类型的名称
func TokenTypeName(t TokenType) string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	for word, kw := range keywords {
		// and/or/not 与符号形式共用类型，已在上面命中
		if kw == t {
			return word
		}
	}
	return "UNKNOWN"
}
