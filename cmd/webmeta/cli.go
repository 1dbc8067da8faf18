package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/kreuzwerker/webmeta"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Assembler   *webmeta.Assembler
	NewFetcher  FetcherFunc
	RetryDelays []time.Duration
	UserAgent   string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" env:"WEBMETA_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	UserAgent string `name:"user-agent" env:"WEBMETA_USER_AGENT" help:"User-Agent sent when fetching pages"`

	Extract ExtractCmd `cmd:"" help:"Extract metadata from an HTML file or stdin"`
	Fetch   FetchCmd   `cmd:"" help:"Fetch pages and extract their metadata"`
	Events  EventsCmd  `cmd:"" help:"Extract metadata from JSON-lines event payloads on stdin"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File      string `arg:"" optional:"" help:"HTML file to read (default: stdin)"`
	URL       string `short:"u" help:"Source URL used to resolve relative links"`
	Payload   string `short:"p" help:"JSON object file used as the incoming payload"`
	Merge     bool   `short:"m" help:"Merge the result into the payload"`
	ResultKey string `short:"k" default:"data" help:"Payload key holding the result"`
	Format    string `short:"f" default:"json" enum:"json,yaml" help:"Output format (json, yaml)"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs"`
	Render      bool          `short:"r" help:"Render pages in headless Chrome"`
	Timeout     time.Duration `default:"10s" help:"Per-page timeout"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent fetch limit"`
	RPS         float64       `name:"rps" default:"1" help:"Requests per second per domain"`
	ResultKey   string        `short:"k" default:"data" help:"Payload key holding the result"`
	Out         string        `short:"o" xor:"sink" help:"Write one JSON file per URL below this directory instead of stdout"`
	DB          string        `name:"db" xor:"sink" help:"Store payloads in this SQLite database instead of stdout"`
}

// EventsCmd is the "events" subcommand.
type EventsCmd struct {
	DataField   string `default:"body" help:"Event field holding the HTML"`
	URLField    string `default:"url" help:"Event field holding the source URL"`
	Merge       bool   `short:"m" help:"Merge the result into each event payload"`
	ResultKey   string `short:"k" default:"data" help:"Payload key holding the result"`
	Concurrency int    `short:"c" default:"10" help:"Concurrent extraction limit"`
}
