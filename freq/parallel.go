package freq

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/freqflow/types"
)

// ctxStream checks ctx between pulls so a cancelled group stops its
// remaining workers promptly.
type ctxStream struct {
	ctx  context.Context
	base types.TokenStream
}

func (s ctxStream) Next() (types.Token, error) {
	if err := s.ctx.Err(); err != nil {
		return "", err
	}
	return s.base.Next()
}

// IngestAll consumes several token streams concurrently, one worker per
// stream. Each worker buffers its own partial table and merges it into the
// engine when its stream ends, so streams land atomically just like
// sequential Ingest calls.
//
// The first stream error cancels the remaining workers and is returned.
// Tokens any stream produced before the failure stay counted. The returned
// total is the number of tokens ingested across all streams.
func (e *Engine) IngestAll(ctx context.Context, streams ...types.TokenStream) (int64, error) {
	if len(streams) == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var total atomic.Int64
	for _, stream := range streams {
		g.Go(func() error {
			n, err := e.Ingest(ctxStream{ctx: ctx, base: stream})
			total.Add(n)
			return err
		})
	}
	err := g.Wait()
	return total.Load(), err
}
