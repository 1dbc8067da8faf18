package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/kreuzwerker/webmeta"
	"github.com/kreuzwerker/webmeta/goquery"
	wmhttp "github.com/kreuzwerker/webmeta/http"
	"github.com/kreuzwerker/webmeta/rod"
	wmslog "github.com/kreuzwerker/webmeta/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// FetcherFunc builds the fetcher used by the fetch command.
type FetcherFunc func(cfg FetcherConfig) (webmeta.Fetcher, error)

// FetcherConfig selects and configures a fetcher.
type FetcherConfig struct {
	Render    bool
	Timeout   time.Duration
	UserAgent string
}

// Main represents the program.
type Main struct {
	// NewFetcher builds the page fetcher. Set before calling Run().
	NewFetcher FetcherFunc

	// RetryDelays overrides the fetch backoff. Nil uses the default.
	RetryDelays []time.Duration
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewFetcher: newFetcher,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		NewFetcher:  m.NewFetcher,
		RetryDelays: m.RetryDelays,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webmeta"),
		kong.Description("Extract microdata, JSON-LD and meta tags from HTML"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webmeta --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.LogLevel, err)
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.UserAgent = cli.UserAgent

	deps.Assembler = webmeta.NewAssembler(
		wmslog.NewLoggingDocumentParser(goquery.NewParser(), deps.Logger),
		wmslog.NewReporter(deps.Logger),
	)

	return kongCtx.Run(deps)
}

// newFetcher returns a headless Chrome fetcher when rendering is requested
// and a plain HTTP fetcher otherwise.
func newFetcher(cfg FetcherConfig) (webmeta.Fetcher, error) {
	if cfg.Render {
		f, err := rod.NewFetcher(
			rod.WithTimeout(cfg.Timeout),
			rod.WithBrowserOptions(rod.WithUserAgent(cfg.UserAgent)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return f, nil
	}
	return wmhttp.NewFetcher(
		wmhttp.WithTimeout(cfg.Timeout),
		wmhttp.WithUserAgent(cfg.UserAgent),
	), nil
}
