package goquery

import (
	"net/url"
	"sort"
	"strings"

	"github.com/kreuzwerker/webmeta"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// microdata builds items from one parsed document.
type microdata struct {
	base  *url.URL
	ids   map[string]*html.Node
	order map[*html.Node]int
}

// newMicrodata indexes the elements below root by id and by tree order.
func newMicrodata(root *html.Node, base *url.URL) *microdata {
	m := &microdata{
		base:  base,
		ids:   make(map[string]*html.Node),
		order: make(map[*html.Node]int),
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			m.order[n] = len(m.order)
			// The first element with a given id wins, as in getElementById.
			if id, ok := attr(n, "id"); ok && id != "" {
				if _, seen := m.ids[id]; !seen {
					m.ids[id] = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return m
}

func (m *microdata) items(roots []*html.Node) []*webmeta.MicroItem {
	items := make([]*webmeta.MicroItem, 0, len(roots))
	for _, n := range roots {
		items = append(items, m.item(n, make(map[*html.Node]bool)))
	}
	return items
}

// item builds the item whose itemscope element is n. building holds the
// itemscope elements on the current path; an itemref pointing back into
// the path is skipped.
func (m *microdata) item(n *html.Node, building map[*html.Node]bool) *webmeta.MicroItem {
	building[n] = true
	defer delete(building, n)

	item := &webmeta.MicroItem{Type: itemType(n)}
	index := make(map[string]int)

	for _, prop := range m.propertyElements(n) {
		var value any
		if _, scoped := attr(prop, "itemscope"); scoped {
			if building[prop] {
				continue
			}
			value = m.item(prop, building)
		} else {
			value = m.value(prop)
		}

		names, _ := attr(prop, "itemprop")
		for _, name := range strings.Fields(names) {
			if i, ok := index[name]; ok {
				values := item.Properties[i].Value.([]any)
				item.Properties[i].Value = append(values, value)
				continue
			}
			index[name] = len(item.Properties)
			item.Properties = append(item.Properties, webmeta.Property{Name: name, Value: []any{value}})
		}
	}

	return item
}

// propertyElements returns the elements carrying itemprop that belong to
// the item rooted at root, in tree order. The search covers root's
// descendants and the subtrees named by its itemref attribute, and does
// not descend into nested items.
func (m *microdata) propertyElements(root *html.Node) []*html.Node {
	var pending []*html.Node
	pending = appendChildren(pending, root)
	if refs, ok := attr(root, "itemref"); ok {
		for _, id := range strings.Fields(refs) {
			if ref, ok := m.ids[id]; ok {
				pending = append(pending, ref)
			}
		}
	}

	seen := map[*html.Node]bool{root: true}
	var props []*html.Node
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[n] {
			continue
		}
		seen[n] = true

		if _, ok := attr(n, "itemprop"); ok {
			props = append(props, n)
		}
		if _, ok := attr(n, "itemscope"); !ok {
			pending = appendChildren(pending, n)
		}
	}

	sort.Slice(props, func(i, j int) bool {
		return m.order[props[i]] < m.order[props[j]]
	})
	return props
}

// value returns the property value of a non-item element.
func (m *microdata) value(n *html.Node) string {
	switch n.DataAtom {
	case atom.Meta:
		v, _ := attr(n, "content")
		return v
	case atom.Audio, atom.Embed, atom.Iframe, atom.Img, atom.Source, atom.Track, atom.Video:
		return m.resolveAttr(n, "src")
	case atom.A, atom.Area, atom.Link:
		return m.resolveAttr(n, "href")
	case atom.Object:
		return m.resolveAttr(n, "data")
	case atom.Data, atom.Meter:
		v, _ := attr(n, "value")
		return v
	case atom.Time:
		if v, ok := attr(n, "datetime"); ok {
			return v
		}
	}
	return strings.TrimSpace(textContent(n))
}

// resolveAttr resolves a URL attribute against the document URL.
// Without a document URL, or when the value does not parse, the value is
// returned as written.
func (m *microdata) resolveAttr(n *html.Node, name string) string {
	raw, ok := attr(n, name)
	if !ok {
		return ""
	}
	raw = strings.TrimSpace(raw)
	if m.base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return m.base.ResolveReference(ref).String()
}

// itemType returns the first token of the itemtype attribute.
func itemType(n *html.Node) string {
	v, _ := attr(n, "itemtype")
	if fields := strings.Fields(v); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func appendChildren(nodes []*html.Node, n *html.Node) []*html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
