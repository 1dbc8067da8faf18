package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/kreuzwerker/webmeta"
	"github.com/kreuzwerker/webmeta/batch"
)

// maxEventSize bounds a single JSON line on stdin.
const maxEventSize = 32 << 20

// Run executes the events command.
func (c *EventsCmd) Run(deps *Dependencies) error {
	var lines []string
	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	runner := &batch.Runner{
		Assembler:   deps.Assembler,
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}
	opts := batch.EventOptions{
		DataField: c.DataField,
		URLField:  c.URLField,
		Merge:     c.Merge,
		ResultKey: c.ResultKey,
	}

	var failed int
	err := runner.Events(deps.Ctx, lines, opts, func(r batch.Result) error {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: event %d: %s\n", r.Position+1, webmeta.ErrorMessage(r.Err))
			return nil
		}
		return writePayload(deps.Stdout, r.Payload, "json")
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d events failed", failed, len(lines))
	}
	return nil
}
