package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BaSui01/freqflow/freq"
	"github.com/BaSui01/freqflow/types"
)

// ReadTable parses a "token<TAB>count" stream into a frequency table. The
// format is exactly what freq.WriteTSV emits, so a previous run's report can
// serve as this run's reference corpus.
//
// Counts must be positive integers. Repeated tokens accumulate. Blank lines
// are ignored. Malformed lines map to INVALID_CONFIG naming the line number;
// read failures from r pass through untouched.
func ReadTable(r io.Reader) (freq.Table, error) {
	counts := make(map[types.Token]int64)
	var total int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		token, countText, found := strings.Cut(line, "\t")
		if !found {
			return freq.Table{}, types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("reference table line %d: expected token<TAB>count", lineNo))
		}
		if token == "" {
			return freq.Table{}, types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("reference table line %d: empty token", lineNo))
		}
		count, err := strconv.ParseInt(strings.TrimSpace(countText), 10, 64)
		if err != nil {
			return freq.Table{}, types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("reference table line %d: count %q is not an integer", lineNo, countText)).
				WithCause(err)
		}
		if count < 1 {
			return freq.Table{}, types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("reference table line %d: count must be positive, got %d", lineNo, count))
		}

		counts[types.Token(token)] += count
		total += count
	}
	if err := scanner.Err(); err != nil {
		return freq.Table{}, err
	}
	return freq.Table{Counts: counts, Total: total}, nil
}
