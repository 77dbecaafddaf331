package types

import "io"

// Token is a single unit produced by a tokenizer: a character, a word, or an
// n-gram of either, depending on the tokenizer configuration.
type Token string

// String returns the token text.
func (t Token) String() string { return string(t) }

// TokenStream is a lazy, single-pass sequence of tokens.
//
// Next returns the next token, or io.EOF once the stream is exhausted. Any
// other error means the underlying input failed; such errors are returned
// verbatim and the stream must not be used afterwards. Streams are not
// restartable: tokens already produced are gone.
//
// Note: Two tokenizer shapes exist in the project, each serving a different layer:
//   - types.TokenStream (this) — the cross-package contract the frequency
//     engine consumes, defined here to keep freq independent of tokenizer
//   - tokenizer.Tokenizer      — the configured factory that opens streams
//     over io.Reader inputs
type TokenStream interface {
	// Next returns the next token or io.EOF at end of input.
	Next() (Token, error)
}

// SliceStream adapts an in-memory token slice to the TokenStream contract.
// Useful in tests and for callers that already hold materialized tokens.
type SliceStream struct {
	tokens []Token
	pos    int
}

// NewSliceStream creates a stream over the given tokens. The slice is not
// copied; the caller must not mutate it while the stream is live.
func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

// Next implements TokenStream.
func (s *SliceStream) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return "", io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}
