package lexer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/tangzhangming/codon/internal/diag"
	"github.com/tangzhangming/codon/internal/i18n"
)

// rule 词法规则：模式 + token 类型，TOKEN_SKIP 表示丢弃
type rule struct {
	re  *regexp.Regexp
	typ TokenType
}

func newRule(pattern string, typ TokenType) rule {
	return rule{re: regexp.MustCompile(`^(?:` + pattern + `)`), typ: typ}
}

// rules 按优先级排列，等长匹配时取靠前的规则
var rules = []rule{
	newRule(`/"[\s\S]*?"/`, TOKEN_SKIP),
	// 同一行内没有 "/ 收尾时 /" 注释到行尾
	newRule(`/"(?:[^"\n]|"[^/\n])*"?`, TOKEN_SKIP),
	newRule(`//[^\n]*`, TOKEN_SKIP),
	newRule(`[\t\f\r ]+`, TOKEN_SKIP),
	newRule(`\n`, TOKEN_SKIP),

	newRule(`<-`, TOKEN_LARROW),
	newRule(`->`, TOKEN_ARROW),
	newRule(`\.\.\.`, TOKEN_ELLIPSIS),
	newRule(`\.\.`, TOKEN_RANGE),
	newRule(`=>`, TOKEN_FAT_ARROW),
	newRule(`<<=`, TOKEN_SHL_ASSIGN),
	newRule(`>>=`, TOKEN_SHR_ASSIGN),
	newRule(`<<`, TOKEN_SHL),
	newRule(`>>`, TOKEN_SHR),
	newRule(`\*\*`, TOKEN_POWER),
	newRule(`\+=`, TOKEN_PLUS_ASSIGN),
	newRule(`-=`, TOKEN_MINUS_ASSIGN),
	newRule(`\+\+`, TOKEN_INC),
	newRule(`--`, TOKEN_DEC),
	newRule(`\*=`, TOKEN_ASTERISK_ASSIGN),
	newRule(`/=`, TOKEN_SLASH_ASSIGN),
	newRule(`%=`, TOKEN_PERCENT_ASSIGN),
	newRule(`==`, TOKEN_EQ),
	newRule(`!=`, TOKEN_NOT_EQ),
	newRule(`<=`, TOKEN_LT_EQ),
	newRule(`>=`, TOKEN_GT_EQ),
	newRule(`&&`, TOKEN_AND),
	newRule(`\|\|`, TOKEN_OR),

	newRule(`dna"(?:\\"|[^"])*"`, TOKEN_DNA),
	newRule(`rna"(?:\\"|[^"])*"`, TOKEN_RNA),
	newRule(`prot"(?:\\"|[^"])*"`, TOKEN_PROT),
	newRule(`"(?:\\.|[^"\\\n])*"`, TOKEN_STRING),
	newRule(`'(?:\\.|[^'\\\n])'`, TOKEN_CHAR),

	newRule(`\d+\.\d+[eE][+-]?\d+`, TOKEN_FLOAT),
	newRule(`\d+[eE][+-]?\d+`, TOKEN_FLOAT),
	newRule(`\d+\.\d+`, TOKEN_FLOAT),
	newRule(`\d+`, TOKEN_INT),

	newRule(`[A-Za-z_][A-Za-z0-9_]*`, TOKEN_IDENT),

	newRule(`=`, TOKEN_ASSIGN),
	newRule(`\+`, TOKEN_PLUS),
	newRule(`-`, TOKEN_MINUS),
	newRule(`\*`, TOKEN_ASTERISK),
	newRule(`/`, TOKEN_SLASH),
	newRule(`%`, TOKEN_PERCENT),
	newRule(`\^`, TOKEN_BIT_XOR),
	newRule(`>`, TOKEN_GT),
	newRule(`<`, TOKEN_LT),
	newRule(`&`, TOKEN_BIT_AND),
	newRule(`\|`, TOKEN_BIT_OR),
	newRule(`!`, TOKEN_NOT),
	newRule(`~`, TOKEN_BIT_NOT),
	newRule(`\(`, TOKEN_LPAREN),
	newRule(`\)`, TOKEN_RPAREN),
	newRule(`\{`, TOKEN_LBRACE),
	newRule(`\}`, TOKEN_RBRACE),
	newRule(`\[`, TOKEN_LBRACKET),
	newRule(`\]`, TOKEN_RBRACKET),
	newRule(`;`, TOKEN_SEMICOLON),
	newRule(`:`, TOKEN_COLON),
	newRule(`,`, TOKEN_COMMA),
	newRule(`\.`, TOKEN_DOT),
}

// Lexer 词法分析器
type Lexer struct {
	input  string
	pos    int // 当前字节偏移
	line   int // 当前行号
	column int // 当前列号
	errors diag.List
}

// New 创建一个新的词法分析器
func New(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

// Errors 返回扫描过程中的词法错误
func (l *Lexer) Errors() diag.List {
	return l.errors
}

// longestMatch 在当前位置尝试所有规则，返回最长匹配；等长取靠前的规则
func (l *Lexer) longestMatch() (rule, int) {
	rest := l.input[l.pos:]
	best, bestLen := rule{}, 0
	for _, r := range rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil || loc[1] <= bestLen {
			continue
		}
		best, bestLen = r, loc[1]
	}
	return best, bestLen
}

// advance 消费 n 个字节并更新行列
func (l *Lexer) advance(n int) {
	for _, ch := range l.input[l.pos : l.pos+n] {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.pos += n
}

// Next 返回下一个 token；输入结束时 ok 为 false
func (l *Lexer) Next() (Token, bool) {
	for l.pos < len(l.input) {
		r, n := l.longestMatch()
		if n == 0 {
			// 无法识别的字符：报告并跳过一个字符
			ch, size := utf8.DecodeRuneInString(l.input[l.pos:])
			l.errors.Add(diag.Lexical, diag.CodeLexical, l.line, l.column,
				i18n.T(i18n.ErrUnexpectedChar, string(ch)))
			l.advance(size)
			continue
		}

		tok := Token{
			Type:    r.typ,
			Literal: l.input[l.pos : l.pos+n],
			Line:    l.line,
			Column:  l.column,
			Start:   l.pos,
			End:     l.pos + n,
		}
		l.advance(n)

		if tok.Type == TOKEN_SKIP {
			continue
		}
		if tok.Type == TOKEN_IDENT {
			tok.Type = LookupIdent(tok.Literal)
		}
		return tok, true
	}
	return Token{}, false
}

// Tokenize 扫描全部输入，返回 token 序列和词法错误
func Tokenize(input string) ([]Token, diag.List) {
	l := New(input)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.errors
}

// String 便于调试
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) %d:%d", TokenTypeName(t.Type), t.Literal, t.Line, t.Column)
}
