// Package batch runs metadata extraction over many documents at once.
// Work is spread over a bounded number of goroutines while results are
// delivered in input order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/kreuzwerker/webmeta"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Runner.Concurrency is not positive.
const DefaultConcurrency = 10

// Result is the outcome of processing one input.
type Result struct {
	// Position is the index of the input.
	Position int

	// URL is the source URL of the document, if known.
	URL string

	// Payload is the output payload. Nil when Err is set.
	Payload *webmeta.Record

	Err error
}

// EmitFunc receives results in input order. Returning an error stops the
// run.
type EmitFunc func(Result) error

// EventOptions selects the event fields used for extraction.
type EventOptions struct {
	// DataField names the payload field holding the HTML.
	DataField string

	// URLField names the payload field holding the source URL. Optional.
	URLField string

	// Merge keeps the event payload and adds the result to it.
	Merge bool

	// ResultKey is the payload key holding the result.
	ResultKey string
}

// Runner extracts metadata from fetched pages and event payloads.
type Runner struct {
	Assembler *webmeta.Assembler

	// Fetcher retrieves pages for URLs. Required by URLs only.
	Fetcher webmeta.Fetcher

	// Limiter spaces requests per host. Optional.
	Limiter *DomainLimiter

	Concurrency int

	// RetryDelays are the backoff delays between fetch attempts.
	// Nil means DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// ResultKey is the payload key for URL results.
	ResultKey string

	Logger *slog.Logger
}

// URLs fetches every URL and emits a payload {"url": ..., <ResultKey>: ...}
// per URL.
func (r *Runner) URLs(ctx context.Context, urls []string, emit EmitFunc) error {
	return r.run(ctx, len(urls), func(ctx context.Context, i int) Result {
		res := Result{Position: i, URL: urls[i]}
		res.Payload, res.Err = r.extractURL(ctx, urls[i])
		return res
	}, emit)
}

func (r *Runner) extractURL(ctx context.Context, url string) (*webmeta.Record, error) {
	if r.Limiter != nil {
		if err := r.Limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	var html string
	var err error
	if r.RetryDelays == nil {
		html, err = FetchWithRetry(ctx, url, r.Fetcher.Fetch, r.logf)
	} else {
		html, err = FetchWithRetryDelays(ctx, url, r.Fetcher.Fetch, r.logf, r.RetryDelays)
	}
	if err != nil {
		return nil, err
	}

	result, err := r.Assembler.Assemble(html, url)
	if err != nil {
		return nil, err
	}

	base := webmeta.NewRecord()
	base.Set("url", url)
	return webmeta.BuildPayload(result, webmeta.PayloadOptions{
		ResultKey: r.ResultKey,
		Merge:     true,
		Base:      base,
	}), nil
}

// Events decodes each line as a JSON object payload, extracts metadata
// from the fields selected by opts and emits the resulting payloads.
func (r *Runner) Events(ctx context.Context, lines []string, opts EventOptions, emit EmitFunc) error {
	return r.run(ctx, len(lines), func(ctx context.Context, i int) Result {
		res := Result{Position: i}
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		res.URL, res.Payload, res.Err = r.extractEvent(lines[i], opts)
		return res
	}, emit)
}

func (r *Runner) extractEvent(line string, opts EventOptions) (string, *webmeta.Record, error) {
	v, err := webmeta.ParseJSON(line)
	if err != nil {
		return "", nil, webmeta.Errorf(webmeta.EINVALID, "invalid event: %v", err)
	}
	payload, ok := v.(*webmeta.Record)
	if !ok {
		return "", nil, webmeta.Errorf(webmeta.EINVALID, "event must be a JSON object")
	}

	url := stringField(payload, opts.URLField)
	out, err := r.Assembler.Run(webmeta.Options{
		Data:      stringField(payload, opts.DataField),
		URL:       url,
		Merge:     opts.Merge,
		ResultKey: opts.ResultKey,
	}, payload)
	return url, out, err
}

// stringField returns the string form of a scalar payload field.
func stringField(payload *webmeta.Record, name string) string {
	if name == "" {
		return ""
	}
	v, _ := payload.Get(name)
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// run calls work for every index in [0, n) on at most Concurrency
// goroutines and passes the results to emit in index order.
func (r *Runner) run(ctx context.Context, n int, work func(context.Context, int) Result, emit EmitFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan Result, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i := range n {
			g.Go(func() error {
				resultCh <- work(gctx, i)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	pending := make(map[int]Result)
	next := 0
	var emitErr error
	for res := range resultCh {
		if emitErr != nil {
			continue
		}
		pending[res.Position] = res
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := emit(ready); err != nil {
				emitErr = err
				cancel()
				break
			}
		}
	}

	return emitErr
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Warn(fmt.Sprintf(format, args...))
}
