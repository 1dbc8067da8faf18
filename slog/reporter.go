// Package slog provides log/slog based decorators for webmeta services.
package slog

import (
	"log/slog"

	"github.com/kreuzwerker/webmeta"
)

// Ensure Reporter implements webmeta.Reporter.
var _ webmeta.Reporter = (*Reporter)(nil)

// Reporter logs non-fatal extraction conditions at warn level.
type Reporter struct {
	logger *slog.Logger
}

// NewReporter creates a new Reporter. Extra args are attached to every
// record, e.g. the URL of the document being processed.
func NewReporter(logger *slog.Logger, args ...any) *Reporter {
	return &Reporter{logger: logger.With(args...)}
}

// Report logs message.
func (r *Reporter) Report(message string) {
	r.logger.Warn("extraction issue", "message", message)
}
