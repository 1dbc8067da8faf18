package slog

import (
	"log/slog"
	"time"

	"github.com/kreuzwerker/webmeta"
)

// Ensure LoggingDocumentParser implements webmeta.DocumentParser.
var _ webmeta.DocumentParser = (*LoggingDocumentParser)(nil)

// LoggingDocumentParser wraps a DocumentParser with debug logging.
type LoggingDocumentParser struct {
	next   webmeta.DocumentParser
	logger *slog.Logger
}

// NewLoggingDocumentParser creates a new LoggingDocumentParser.
func NewLoggingDocumentParser(next webmeta.DocumentParser, logger *slog.Logger) *LoggingDocumentParser {
	return &LoggingDocumentParser{next: next, logger: logger}
}

// ParseDocument delegates to the wrapped parser and logs the operation.
func (p *LoggingDocumentParser) ParseDocument(html string, sourceURL string) (doc webmeta.Document, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("parse",
			"url", sourceURL,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseDocument(html, sourceURL)
}
