package freq

import (
	"io"
	"sync"

	"github.com/BaSui01/freqflow/types"
)

// Table is an immutable snapshot of an engine's frequency table at one
// instant. Callers must not mutate Counts.
type Table struct {
	Counts map[types.Token]int64
	Total  int64
}

// Distinct returns the number of distinct tokens in the snapshot.
func (t Table) Distinct() int {
	return len(t.Counts)
}

// Engine accumulates token frequencies for a single run. The table lives
// exactly as long as the engine; nothing is persisted anywhere.
//
// All methods are safe for concurrent use. Ingest merges a fully buffered
// local table under the lock, so a stream is counted as one atomic step and
// reports never observe a half-ingested stream.
type Engine struct {
	mu     sync.Mutex
	counts map[types.Token]int64
	total  int64
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{counts: make(map[types.Token]int64)}
}

// Ingest consumes stream to exhaustion and adds every token to the table.
// It returns the number of tokens consumed.
//
// If the stream fails mid-way, the tokens it already produced are still
// counted, the partial count is returned, and the stream's error comes back
// exactly as the stream produced it. Ingesting the same content twice counts
// it twice; the engine does not deduplicate streams.
func (e *Engine) Ingest(stream types.TokenStream) (int64, error) {
	local := make(map[types.Token]int64)
	var n int64
	var streamErr error
	for {
		tok, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		local[tok]++
		n++
	}
	if n > 0 {
		e.merge(local, n)
	}
	return n, streamErr
}

// IngestTokens adds already-materialized tokens to the table and returns
// how many were added.
func (e *Engine) IngestTokens(tokens []types.Token) int64 {
	if len(tokens) == 0 {
		return 0
	}
	local := make(map[types.Token]int64, len(tokens))
	for _, tok := range tokens {
		local[tok]++
	}
	e.merge(local, int64(len(tokens)))
	return int64(len(tokens))
}

func (e *Engine) merge(local map[types.Token]int64, n int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for tok, c := range local {
		e.counts[tok] += c
	}
	e.total += n
}

// TotalTokens returns the sum of all counts in the table.
func (e *Engine) TotalTokens() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// DistinctTokens returns the number of distinct tokens in the table.
func (e *Engine) DistinctTokens() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.counts)
}

// Snapshot returns a copy of the current table. Later ingests and resets do
// not affect the returned snapshot.
func (e *Engine) Snapshot() Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := make(map[types.Token]int64, len(e.counts))
	for tok, c := range e.counts {
		counts[tok] = c
	}
	return Table{Counts: counts, Total: e.total}
}

// Reset clears the table. Snapshots and reports taken earlier are
// unaffected.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts = make(map[types.Token]int64)
	e.total = 0
}
