// Package goquery implements webmeta.DocumentParser on top of goquery.
// It locates microdata items, JSON-LD script blocks and meta tags in an
// HTML document.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/kreuzwerker/webmeta"
)

// Compile-time interface verification.
var (
	_ webmeta.DocumentParser = (*Parser)(nil)
	_ webmeta.Document       = (*Document)(nil)
	_ webmeta.Element        = (*Element)(nil)
)

var (
	jsonLDSelector = cascadia.MustCompile(`script[type="application/ld+json"]`)
	metaSelector   = cascadia.MustCompile(`meta[name], meta[property]`)
	itemSelector   = cascadia.MustCompile(`[itemscope]:not([itemprop])`)
)

// Parser parses HTML documents with goquery.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseDocument parses html into a Document. The sourceURL resolves
// relative URLs in microdata values; it is ignored unless absolute.
func (p *Parser) ParseDocument(html string, sourceURL string) (webmeta.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webmeta.Errorf(webmeta.EINVALID, "failed to parse HTML: %v", err)
	}
	return NewDocument(doc, sourceURL), nil
}

// Document is a parsed HTML document.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// NewDocument wraps a goquery document. An empty or relative sourceURL
// leaves microdata URLs unresolved.
func NewDocument(doc *goquery.Document, sourceURL string) *Document {
	d := &Document{doc: doc}
	if u, err := url.Parse(strings.TrimSpace(sourceURL)); err == nil && u.IsAbs() {
		d.base = u
	}
	return d
}

// MicrodataItems returns the top-level microdata items in document order.
// Top-level items are itemscope elements that are not themselves a
// property of another item.
func (d *Document) MicrodataItems() []*webmeta.MicroItem {
	roots := d.doc.FindMatcher(itemSelector).Nodes
	if len(roots) == 0 {
		return nil
	}

	return newMicrodata(d.doc.Nodes[0], d.base).items(roots)
}

// JSONLDScripts returns the text of every application/ld+json script.
func (d *Document) JSONLDScripts() []string {
	var texts []string
	d.doc.FindMatcher(jsonLDSelector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// MetaElements returns every meta element carrying a name or property.
func (d *Document) MetaElements() []webmeta.Element {
	var elements []webmeta.Element
	d.doc.FindMatcher(metaSelector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &Element{sel: s})
	})
	return elements
}

// Element adapts a goquery selection to webmeta.Element.
type Element struct {
	sel *goquery.Selection
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}
