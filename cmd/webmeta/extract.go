package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kreuzwerker/webmeta"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := c.readHTML(deps.Stdin)
	if err != nil {
		return err
	}

	var base *webmeta.Record
	if c.Payload != "" {
		f, err := os.Open(c.Payload)
		if err != nil {
			return fmt.Errorf("failed to open payload: %w", err)
		}
		defer f.Close()

		if base, err = readPayload(f); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", webmeta.ErrorMessage(err))
			return err
		}
	}

	payload, err := deps.Assembler.Run(webmeta.Options{
		Data:      html,
		URL:       c.URL,
		Merge:     c.Merge,
		ResultKey: c.ResultKey,
	}, base)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webmeta.ErrorMessage(err))
		return err
	}

	return writePayload(deps.Stdout, payload, c.Format)
}

func (c *ExtractCmd) readHTML(stdin io.Reader) (string, error) {
	if c.File == "" || c.File == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(c.File)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	return string(b), nil
}
