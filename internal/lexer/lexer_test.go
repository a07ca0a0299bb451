package lexer

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/codon/internal/diag"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func TestLongestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"<<=", []TokenType{TOKEN_SHL_ASSIGN}},
		{"<<", []TokenType{TOKEN_SHL}},
		{"<", []TokenType{TOKEN_LT}},
		{"<-", []TokenType{TOKEN_LARROW}},
		{">>=", []TokenType{TOKEN_SHR_ASSIGN}},
		{"**", []TokenType{TOKEN_POWER}},
		{"...", []TokenType{TOKEN_ELLIPSIS}},
		{"..", []TokenType{TOKEN_RANGE}},
		{"1..5", []TokenType{TOKEN_INT, TOKEN_RANGE, TOKEN_INT}},
		{"a++", []TokenType{TOKEN_IDENT, TOKEN_INC}},
		{"x+=1", []TokenType{TOKEN_IDENT, TOKEN_PLUS_ASSIGN, TOKEN_INT}},
		{"&& ||", []TokenType{TOKEN_AND, TOKEN_OR}},
	}
	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		be.Equal(t, len(errs), 0)
		be.Equal(t, tokenTypes(tokens), tt.want)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", TOKEN_INT},
		{"3.14", TOKEN_FLOAT},
		{"1e10", TOKEN_FLOAT},
		{"2.5E-3", TOKEN_FLOAT},
	}
	for _, tt := range tests {
		tokens, _ := Tokenize(tt.input)
		be.Equal(t, len(tokens), 1)
		be.Equal(t, tokens[0].Type, tt.typ)
		be.Equal(t, tokens[0].Literal, tt.input)
	}
}

func TestKeywords(t *testing.T) {
	tokens, _ := Tokenize("function functional var variable and android print")
	be.Equal(t, tokenTypes(tokens), []TokenType{
		TOKEN_FUNCTION, TOKEN_IDENT, TOKEN_VAR, TOKEN_IDENT, TOKEN_AND, TOKEN_IDENT, TOKEN_PRINT,
	})
}

func TestBioLiterals(t *testing.T) {
	tokens, errs := Tokenize(`dna"ACGT" rna"ACGU" prot"MK" dna "x"`)
	be.Equal(t, len(errs), 0)
	be.Equal(t, tokenTypes(tokens), []TokenType{
		TOKEN_DNA, TOKEN_RNA, TOKEN_PROT, TOKEN_IDENT, TOKEN_STRING,
	})
	be.Equal(t, tokens[0].Literal, `dna"ACGT"`)
}

func TestStringsAndChars(t *testing.T) {
	tokens, errs := Tokenize(`"a \"q\" b" 'x' '\n'`)
	be.Equal(t, len(errs), 0)
	be.Equal(t, tokenTypes(tokens), []TokenType{TOKEN_STRING, TOKEN_CHAR, TOKEN_CHAR})
	be.Equal(t, tokens[0].Literal, `"a \"q\" b"`)
}

func TestComments(t *testing.T) {
	tokens, errs := Tokenize("a // trailing\n/\"block\ncomment\"/ b")
	be.Equal(t, len(errs), 0)
	be.Equal(t, len(tokens), 2)
	be.Equal(t, tokens[1].Literal, "b")
	be.Equal(t, tokens[1].Line, 3)

	tests := []struct {
		input string
		want  []string
	}{
		{"x = 1; /\" a line comment\ny", []string{"x", "=", "1", ";", "y"}},
		{"/\" note \"/ x /\" tail", []string{"x"}},
		{"a /\" quote \" inside\nb", []string{"a", "b"}},
		{"a /\"\"/ b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		be.Equal(t, len(errs), 0)
		literals := make([]string, len(tokens))
		for i, tok := range tokens {
			literals[i] = tok.Literal
		}
		be.Equal(t, literals, tt.want)
	}
}

func TestPositions(t *testing.T) {
	tokens, _ := Tokenize("a\nb")
	be.Equal(t, len(tokens), 2)
	be.Equal(t, tokens[0].Line, 1)
	be.Equal(t, tokens[0].Column, 1)
	be.Equal(t, tokens[1].Line, 2)
	be.Equal(t, tokens[1].Column, 1)

	tokens, _ = Tokenize("var  xyz = 1;")
	be.Equal(t, tokens[1].Column, 6)
	be.Equal(t, tokens[1].Start, 5)
	be.Equal(t, tokens[1].End, 8)
}

func TestUnexpectedCharacter(t *testing.T) {
	tokens, errs := Tokenize("a @ b $")
	be.Equal(t, len(errs), 2)
	be.Equal(t, errs[0].Code, diag.CodeLexical)
	be.Equal(t, errs[0].Kind, diag.Lexical)
	be.Equal(t, errs[0].Column, 3)
	be.Equal(t, errs[1].Column, 7)
	// 出错后继续扫描
	be.Equal(t, len(tokens), 2)
}

func TestEmptyInput(t *testing.T) {
	tokens, errs := Tokenize("  \n\t")
	be.Equal(t, len(tokens), 0)
	be.Equal(t, len(errs), 0)

	_, ok := New("").Next()
	be.Equal(t, ok, false)
}

func TestStream(t *testing.T) {
	tokens, _ := Tokenize("a b c")
	s := FromTokens(tokens)

	tok, ok := s.Peek(1)
	be.True(t, ok)
	be.Equal(t, tok.Literal, "b")

	tok, _ = s.Next()
	be.Equal(t, tok.Literal, "a")
	s.PushBack(tok)

	tok, _ = s.Next()
	be.Equal(t, tok.Literal, "a")
	s.Next()
	s.Next()

	_, ok = s.Next()
	be.Equal(t, ok, false)
	_, ok = s.Peek(0)
	be.Equal(t, ok, false)
}

func TestStreamFromLexer(t *testing.T) {
	s := NewStream(New("x = 1;"))
	tok, ok := s.Peek(3)
	be.True(t, ok)
	be.Equal(t, tok.Type, TOKEN_SEMICOLON)
	tok, _ = s.Next()
	be.Equal(t, tok.Type, TOKEN_IDENT)
}
