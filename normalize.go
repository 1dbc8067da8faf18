package webmeta

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ContextRewrites maps legacy vocabulary contexts to their canonical
// replacement. A table is treated as read-only once passed to NewNormalizer.
type ContextRewrites map[string]string

// DefaultContextRewrites returns the built-in rewrite table.
func DefaultContextRewrites() ContextRewrites {
	return ContextRewrites{
		"http://data-vocabulary.org": "http://schema.org",
	}
}

// Rewrite returns the canonical context for context, or context itself
// when no rewrite is registered.
func (c ContextRewrites) Rewrite(context string) string {
	if to, ok := c[context]; ok {
		return to
	}
	return context
}

// SplitType partitions an item type on its last "/" into the vocabulary
// context, the separator and the type name. A type without "/" has an
// empty context and separator.
//
//	SplitType("http://schema.org/Product") // "http://schema.org", "/", "Product"
//	SplitType("Product")                   // "", "", "Product"
func SplitType(itemType string) (context, sep, name string) {
	i := strings.LastIndex(itemType, "/")
	if i < 0 {
		return "", "", itemType
	}
	return itemType[:i], "/", itemType[i+1:]
}

// Normalizer converts microdata items into ordered records.
// A Normalizer is safe for concurrent use.
type Normalizer struct {
	rewrites ContextRewrites
	reporter Reporter
}

// NewNormalizer returns a Normalizer using rewrites for top-level contexts.
// Values it cannot represent are sent to reporter; a nil reporter discards them.
func NewNormalizer(rewrites ContextRewrites, reporter Reporter) *Normalizer {
	if reporter == nil {
		reporter = NopReporter
	}
	table := make(ContextRewrites, len(rewrites))
	for from, to := range rewrites {
		table[from] = to
	}
	return &Normalizer{rewrites: table, reporter: reporter}
}

// Normalize converts a top-level item into a record whose first keys are
// "@context" and "@type", followed by the item's properties in order.
//
// It returns false when the item has no usable type; such items are
// dropped by the caller rather than emitted empty.
func (n *Normalizer) Normalize(item *MicroItem) (*Record, bool) {
	if item == nil || item.Type == "" {
		return nil, false
	}

	context, sep, name := SplitType(item.Type)
	if name == "" {
		return nil, false
	}

	rec := NewRecord()
	rec.Set("@context", n.rewrites.Rewrite(context)+sep)
	rec.Set("@type", name)

	w := &walker{reporter: n.reporter, path: make(map[*MicroItem]bool)}
	return w.item(rec, item), true
}

// walker holds the state of one Normalize call. path contains the items
// currently being expanded so that itemref loops terminate.
type walker struct {
	reporter Reporter
	path     map[*MicroItem]bool
}

func (w *walker) item(rec *Record, item *MicroItem) *Record {
	w.path[item] = true
	defer delete(w.path, item)

	for _, p := range item.Properties {
		rec.Set(p.Name, w.value(p.Value))
	}
	return rec
}

func (w *walker) value(v any) any {
	switch v := v.(type) {
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case *MicroItem:
		if v == nil {
			return w.unhandled(v)
		}
		if w.path[v] {
			w.reporter.Report(fmt.Sprintf("Not able to handle value: recursive item of type %q", v.Type))
			return nil
		}
		// Nested types are kept verbatim; only top-level contexts are split.
		rec := NewRecord()
		rec.Set("@type", v.Type)
		return w.item(rec, v)
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, w.value(e))
		}
		if len(out) == 1 {
			return out[0]
		}
		return out
	default:
		return w.unhandled(v)
	}
}

func (w *walker) unhandled(v any) any {
	w.reporter.Report(fmt.Sprintf("Not able to handle value: %#v", v))
	return nil
}
