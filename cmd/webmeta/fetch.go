package main

import (
	"fmt"
	"path/filepath"

	"github.com/kreuzwerker/webmeta"
	"github.com/kreuzwerker/webmeta/batch"
	"github.com/kreuzwerker/webmeta/fs"
	wmslog "github.com/kreuzwerker/webmeta/slog"
	"github.com/kreuzwerker/webmeta/sqlite"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	fetcher, err := deps.NewFetcher(FetcherConfig{
		Render:    c.Render,
		Timeout:   c.Timeout,
		UserAgent: deps.UserAgent,
	})
	if err != nil {
		return err
	}
	defer fetcher.Close()

	runner := &batch.Runner{
		Assembler:   deps.Assembler,
		Fetcher:     wmslog.NewLoggingFetcher(fetcher, deps.Logger),
		Concurrency: c.Concurrency,
		RetryDelays: deps.RetryDelays,
		ResultKey:   c.ResultKey,
		Logger:      deps.Logger,
	}
	if c.RPS > 0 {
		runner.Limiter = batch.NewDomainLimiter(c.RPS)
	}

	var store webmeta.PayloadStore
	var dest string
	switch {
	case c.Out != "":
		out := filepath.Clean(c.Out)
		store, dest = fs.NewStore(filepath.Dir(out), filepath.Base(out)), c.Out
	case c.DB != "":
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		defer db.Close()
		store, dest = sqlite.NewStore(db), c.DB
	}

	var failed, saved int
	err = runner.URLs(deps.Ctx, c.URLs, func(r batch.Result) error {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %v\n", r.URL, r.Err)
			return nil
		}
		if store != nil {
			if err := store.Save(deps.Ctx, r.URL, r.Payload); err != nil {
				return err
			}
			saved++
			return nil
		}
		return writePayload(deps.Stdout, r.Payload, "json")
	})
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		return err
	}

	if store != nil && saved > 0 {
		if err := store.Commit(); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		fmt.Fprintf(deps.Stdout, "Saved %d of %d pages to %s\n", saved, len(c.URLs), dest)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(c.URLs))
	}
	return nil
}
