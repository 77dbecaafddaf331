package tokenizer

import (
	"bufio"
	"io"
	"unicode"

	"github.com/BaSui01/freqflow/types"
)

// charStream emits one token per rune. Whitespace runes are delimiters,
// never tokens. Case folding uses the simple one-to-one Unicode mapping.
type charStream struct {
	r     *bufio.Reader
	fold  bool
	strip bool
}

func newCharStream(r io.Reader, fold, strip bool) *charStream {
	return &charStream{r: bufio.NewReader(r), fold: fold, strip: strip}
}

// Next implements types.TokenStream.
func (s *charStream) Next() (types.Token, error) {
	for {
		ch, _, err := s.r.ReadRune()
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(ch) {
			continue
		}
		if s.strip && isStrippable(ch) {
			continue
		}
		if s.fold {
			ch = unicode.ToLower(ch)
		}
		return types.Token(ch), nil
	}
}
