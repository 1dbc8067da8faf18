package webmeta

// Reporter receives non-fatal extraction issues, such as an unparseable
// JSON-LD block. Implementations must be safe for concurrent use and must
// not block.
type Reporter interface {
	Report(message string)
}

// ReportFunc adapts a function to the Reporter interface.
type ReportFunc func(message string)

// Report calls f(message).
func (f ReportFunc) Report(message string) {
	f(message)
}

// NopReporter discards every report.
var NopReporter Reporter = ReportFunc(func(string) {})
