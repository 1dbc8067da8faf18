// Package webmeta extracts structured metadata from HTML documents.
// It collects schema.org microdata items, embedded JSON-LD blocks and
// flat meta tags, and normalizes them into one JSON-safe record.
//
// This package contains domain types, interfaces and the normalization
// logic itself. Implementations that depend on third-party libraries live
// in subdirectories named after their primary dependency (e.g., goquery/,
// rod/, slog/).
package webmeta
