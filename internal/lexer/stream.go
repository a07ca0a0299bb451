package lexer

// Source 按顺序产出 token，结束时 ok 为 false
type Source interface {
	Next() (Token, bool)
}

// sliceSource 已扫描好的 token 序列
type sliceSource struct {
	tokens []Token
	pos    int
}

func (s *sliceSource) Next() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, true
}

// Stream 带缓冲的 token 流，支持任意长度的前瞻和回退
type Stream struct {
	src Source
	buf []Token // buf[0] 是下一个要消费的 token
}

// NewStream 从任意 token 来源创建流（例如 *Lexer，按需扫描）
func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// FromTokens 从已扫描的 token 序列创建流
func FromTokens(tokens []Token) *Stream {
	return &Stream{src: &sliceSource{tokens: tokens}}
}

// fill 确保缓冲区至少有 n 个 token，不足时返回 false
func (s *Stream) fill(n int) bool {
	for len(s.buf) < n {
		tok, ok := s.src.Next()
		if !ok {
			return false
		}
		s.buf = append(s.buf, tok)
	}
	return true
}

// Next 消费并返回下一个 token
func (s *Stream) Next() (Token, bool) {
	if !s.fill(1) {
		return Token{}, false
	}
	tok := s.buf[0]
	s.buf = s.buf[1:]
	return tok, true
}

// Peek 查看第 n 个未消费的 token（0 为下一个），不移动位置
func (s *Stream) Peek(n int) (Token, bool) {
	if !s.fill(n + 1) {
		return Token{}, false
	}
	return s.buf[n], true
}

// PushBack 将 token 放回流的最前面
func (s *Stream) PushBack(tok Token) {
	s.buf = append([]Token{tok}, s.buf...)
}
