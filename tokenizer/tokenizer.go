package tokenizer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/BaSui01/freqflow/types"
)

// Mode selects how input text is split into tokens.
type Mode string

const (
	// ModeCharacter emits one token per non-whitespace rune.
	ModeCharacter Mode = "character"
	// ModeWord emits maximal runs of non-whitespace runes.
	ModeWord Mode = "word"
	// ModeNGram emits overlapping windows of NGramSize base units.
	ModeNGram Mode = "ngram"
)

// Unit selects the base unit n-gram windows are built from.
type Unit string

const (
	// UnitCharacters builds n-grams over the character stream.
	UnitCharacters Unit = "characters"
	// UnitWords builds n-grams over the word stream, window members
	// joined by a single space.
	UnitWords Unit = "words"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCharacter, ModeWord, ModeNGram:
		return Mode(s), nil
	}
	return "", types.NewError(types.ErrInvalidConfig,
		fmt.Sprintf("unrecognized tokenizer mode: %q (valid: character, word, ngram)", s))
}

// ParseUnit converts a string to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitCharacters, UnitWords:
		return Unit(s), nil
	}
	return "", types.NewError(types.ErrInvalidConfig,
		fmt.Sprintf("unrecognized ngram unit: %q (valid: characters, words)", s))
}

// Config declares how a Tokenizer splits and normalizes input.
type Config struct {
	Mode             Mode `json:"mode" yaml:"mode" env:"MODE"`
	NGramSize        int  `json:"ngram_size,omitempty" yaml:"ngram_size" env:"NGRAM_SIZE"`
	NGramUnit        Unit `json:"ngram_unit,omitempty" yaml:"ngram_unit" env:"NGRAM_UNIT"`
	CaseFold         bool `json:"case_fold" yaml:"case_fold" env:"CASE_FOLD"`
	StripPunctuation bool `json:"strip_punctuation" yaml:"strip_punctuation" env:"STRIP_PUNCTUATION"`
}

// WithDefaults fills optional fields that have a documented default.
// Mode itself has no default; an empty mode fails validation.
func (c Config) WithDefaults() Config {
	if c.Mode == ModeNGram && c.NGramUnit == "" {
		c.NGramUnit = UnitCharacters
	}
	return c
}

// Validate checks the configuration. All violations map to INVALID_CONFIG.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeCharacter, ModeWord:
		return nil
	case ModeNGram:
		if c.NGramSize < 1 {
			return types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("ngram size must be at least 1, got %d", c.NGramSize))
		}
		if _, err := ParseUnit(string(c.NGramUnit)); err != nil {
			return err
		}
		return nil
	default:
		return types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("unrecognized tokenizer mode: %q (valid: character, word, ngram)", c.Mode))
	}
}

// Tokenizer opens lazy token streams over readers. A Tokenizer is immutable
// and safe for concurrent use; each stream it opens is single-goroutine.
type Tokenizer struct {
	cfg Config
}

// New validates the configuration and returns a Tokenizer.
func New(cfg Config) (*Tokenizer, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tokenizer{cfg: cfg}, nil
}

// Config returns the normalized configuration.
func (t *Tokenizer) Config() Config {
	return t.cfg
}

// Tokenize opens a single-pass token stream over r. The reader is consumed
// incrementally as the stream is pulled; it is never read past the bytes the
// returned tokens required.
func (t *Tokenizer) Tokenize(r io.Reader) types.TokenStream {
	switch t.cfg.Mode {
	case ModeCharacter:
		return newCharStream(r, t.cfg.CaseFold, t.cfg.StripPunctuation)
	case ModeWord:
		return newWordStream(r, t.cfg.CaseFold, t.cfg.StripPunctuation)
	default:
		// ModeNGram, guaranteed by New.
		if t.cfg.NGramUnit == UnitWords {
			base := newWordStream(r, t.cfg.CaseFold, t.cfg.StripPunctuation)
			return newNGramStream(base, t.cfg.NGramSize, " ")
		}
		base := newCharStream(r, t.cfg.CaseFold, t.cfg.StripPunctuation)
		return newNGramStream(base, t.cfg.NGramSize, "")
	}
}

// TokenizeString opens a token stream over an in-memory string.
func (t *Tokenizer) TokenizeString(s string) types.TokenStream {
	return t.Tokenize(strings.NewReader(s))
}

// isStrippable reports whether StripPunctuation removes the rune.
// Punctuation and symbol classes together cover ASCII punctuation,
// typographic quotes, currency signs and math operators.
func isStrippable(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
