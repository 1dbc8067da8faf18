package mock

import (
	"sync"

	"github.com/kreuzwerker/webmeta"
)

var _ webmeta.Reporter = (*Reporter)(nil)

// Reporter is a mock implementation of webmeta.Reporter that records
// every message. It is safe for concurrent use.
type Reporter struct {
	mu       sync.Mutex
	messages []string
}

func (r *Reporter) Report(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns the reported messages in order.
func (r *Reporter) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}
