package freq

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/BaSui01/freqflow/types"
)

// Order selects how report entries are sorted by count.
type Order string

const (
	// OrderDescending sorts most frequent first. This is the default.
	OrderDescending Order = "desc"
	// OrderAscending sorts least frequent first.
	OrderAscending Order = "asc"
)

// ParseOrder converts a string to an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderDescending, OrderAscending:
		return Order(s), nil
	}
	return "", types.NewError(types.ErrInvalidConfig,
		fmt.Sprintf("unrecognized report order: %q (valid: desc, asc)", s))
}

// ReportOptions controls report shape.
type ReportOptions struct {
	// TopN truncates the report after sorting. Zero means no truncation.
	TopN int `json:"top_n" yaml:"top_n" env:"TOP_N"`
	// Order is the count sort direction; ties always break by token text
	// ascending, in both directions.
	Order Order `json:"order" yaml:"order" env:"ORDER"`
}

// WithDefaults fills the default order.
func (o ReportOptions) WithDefaults() ReportOptions {
	if o.Order == "" {
		o.Order = OrderDescending
	}
	return o
}

// Validate checks the options. All violations map to INVALID_CONFIG.
func (o ReportOptions) Validate() error {
	if o.TopN < 0 {
		return types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("top_n must not be negative, got %d", o.TopN))
	}
	if _, err := ParseOrder(string(o.Order)); err != nil {
		return err
	}
	return nil
}

// Entry is one row of a frequency report.
type Entry struct {
	Rank  int         `json:"rank"`
	Token types.Token `json:"token"`
	Count int64       `json:"count"`
}

// Report computes a sorted frequency report from the current table. Each
// call works on a fresh snapshot; concurrent ingestion does not disturb a
// report in progress and reports never mutate the table.
//
// Sorting is by count in the requested order, ties broken by token text
// ascending. Rank is the 1-based position after sorting and truncation.
// An empty table yields an empty report, never an error.
func (e *Engine) Report(opts ReportOptions) ([]Entry, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snap := e.Snapshot()
	entries := make([]Entry, 0, len(snap.Counts))
	for tok, c := range snap.Counts {
		entries = append(entries, Entry{Token: tok, Count: c})
	}

	sortEntries(entries, opts.Order)

	if opts.TopN > 0 && opts.TopN < len(entries) {
		entries = entries[:opts.TopN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func sortEntries(entries []Entry, order Order) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			if order == OrderAscending {
				return entries[i].Count < entries[j].Count
			}
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
}

// WriteTSV renders entries as "token<TAB>count" lines. The format round
// trips through corpus.ReadTable, so one run's report can feed a later
// run as a reference table.
func WriteTSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, entry := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", entry.Token, entry.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
