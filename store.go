package webmeta

import "context"

// PayloadStore persists output payloads keyed by source URL. Saved
// payloads become visible together on Commit.
type PayloadStore interface {
	Save(ctx context.Context, url string, payload *Record) error
	Commit() error
	Abort() error
}
