package tokenizer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/BaSui01/freqflow/types"
)

// wordStream emits maximal runs of non-whitespace runes. With strip enabled,
// leading and trailing punctuation is trimmed from each run; interior
// punctuation (hyphens, apostrophes) survives. A run that trims to nothing
// yields no token at all.
type wordStream struct {
	r     *bufio.Reader
	fold  bool
	strip bool
}

func newWordStream(r io.Reader, fold, strip bool) *wordStream {
	return &wordStream{r: bufio.NewReader(r), fold: fold, strip: strip}
}

// Next implements types.TokenStream.
func (s *wordStream) Next() (types.Token, error) {
	for {
		raw, err := s.nextField()
		if err != nil {
			return "", err
		}
		word := raw
		if s.strip {
			word = strings.TrimFunc(word, isStrippable)
			if word == "" {
				continue
			}
		}
		if s.fold {
			word = strings.ToLower(word)
		}
		return types.Token(word), nil
	}
}

// nextField reads the next maximal run of non-whitespace runes. A run cut
// short by EOF is still a complete field; the EOF surfaces on the next call.
func (s *wordStream) nextField() (string, error) {
	var b strings.Builder
	for {
		ch, _, err := s.r.ReadRune()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		if unicode.IsSpace(ch) {
			if b.Len() > 0 {
				return b.String(), nil
			}
			continue
		}
		b.WriteRune(ch)
	}
}
