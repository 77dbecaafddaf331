package tokenizer

import (
	"strings"

	"github.com/BaSui01/freqflow/types"
)

// ngramStream emits overlapping windows of n consecutive base tokens.
// The trailing window shorter than n is dropped, so an input with fewer
// than n base tokens yields nothing.
type ngramStream struct {
	base   types.TokenStream
	n      int
	sep    string
	window []types.Token
}

func newNGramStream(base types.TokenStream, n int, sep string) *ngramStream {
	return &ngramStream{base: base, n: n, sep: sep, window: make([]types.Token, 0, n)}
}

// Next implements types.TokenStream.
func (s *ngramStream) Next() (types.Token, error) {
	for len(s.window) < s.n {
		tok, err := s.base.Next()
		if err != nil {
			return "", err
		}
		s.window = append(s.window, tok)
	}
	gram := s.join()
	copy(s.window, s.window[1:])
	s.window = s.window[:s.n-1]
	return gram, nil
}

func (s *ngramStream) join() types.Token {
	if s.n == 1 {
		return s.window[0]
	}
	var b strings.Builder
	for i, tok := range s.window {
		if i > 0 {
			b.WriteString(s.sep)
		}
		b.WriteString(string(tok))
	}
	return types.Token(b.String())
}
