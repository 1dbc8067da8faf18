package webmeta

import "strings"

// Attribute candidates for meta tags, tried in order. The first attribute
// present on the element wins, even when its value is empty.
var (
	MetaKeyAttributes   = []string{"name", "property"}
	MetaValueAttributes = []string{"content", "value"}
)

// CollectMeta builds a flat record of meta tag keys to trimmed values.
//
// Elements without any key attribute are skipped. Elements without a value
// attribute map their key to nil. When a key repeats, the last value wins
// and the key keeps the position of its first occurrence.
func CollectMeta(elements []Element) *Record {
	meta := NewRecord()
	for _, el := range elements {
		key, ok := firstAttr(el, MetaKeyAttributes)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)

		if value, ok := firstAttr(el, MetaValueAttributes); ok {
			meta.Set(key, strings.TrimSpace(value))
		} else {
			meta.Set(key, nil)
		}
	}
	return meta
}

// firstAttr returns the value of the first attribute in names that is
// present on el.
func firstAttr(el Element, names []string) (string, bool) {
	for _, name := range names {
		if v, ok := el.Attr(name); ok {
			return v, true
		}
	}
	return "", false
}
