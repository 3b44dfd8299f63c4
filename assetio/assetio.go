// Package assetio provides building blocks for loader functions:
// rate-limited reading and small file helpers.
package assetio

import (
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// RateLimitedReader wraps an io.Reader and paces reads with a shared
// limiter, so background loads cannot saturate disk bandwidth needed
// by the render loop.
type RateLimitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

// NewRateLimitedReader wraps r. A nil limiter means unlimited.
func NewRateLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) *RateLimitedReader {
	return &RateLimitedReader{r: r, limiter: limiter, ctx: ctx}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if r.limiter != nil {
		if burst := r.limiter.Burst(); len(p) > burst {
			p = p[:burst]
		}
		if err := r.limiter.WaitN(r.ctx, len(p)); err != nil {
			return 0, err
		}
	}
	return r.r.Read(p)
}

// ReadFile reads the named file, paced by limiter when non-nil. Pass
// Manager.IOLimiter() to share one bandwidth cap across all loaders.
func ReadFile(ctx context.Context, path string, limiter *rate.Limiter) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(NewRateLimitedReader(ctx, f, limiter))
}

// ReadFiles reads several files concurrently and returns their contents
// keyed by path. parallelism bounds the concurrent reads; <= 0 means
// one goroutine per file. The first error aborts the remaining reads.
func ReadFiles(ctx context.Context, paths []string, limiter *rate.Limiter, parallelism int) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	var mu sync.Mutex
	out := make(map[string][]byte, len(paths))
	for _, path := range paths {
		g.Go(func() error {
			data, err := ReadFile(ctx, path, limiter)
			if err != nil {
				return err
			}
			mu.Lock()
			out[path] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
