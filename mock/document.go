package mock

import "github.com/kreuzwerker/webmeta"

var _ webmeta.DocumentParser = (*DocumentParser)(nil)

// DocumentParser is a mock implementation of webmeta.DocumentParser.
type DocumentParser struct {
	ParseDocumentFn func(html string, sourceURL string) (webmeta.Document, error)
}

func (p *DocumentParser) ParseDocument(html string, sourceURL string) (webmeta.Document, error) {
	return p.ParseDocumentFn(html, sourceURL)
}

var _ webmeta.Document = (*Document)(nil)

// Document is a mock implementation of webmeta.Document.
// Unset functions return no results.
type Document struct {
	MicrodataItemsFn func() []*webmeta.MicroItem
	JSONLDScriptsFn  func() []string
	MetaElementsFn   func() []webmeta.Element
}

func (d *Document) MicrodataItems() []*webmeta.MicroItem {
	if d.MicrodataItemsFn == nil {
		return nil
	}
	return d.MicrodataItemsFn()
}

func (d *Document) JSONLDScripts() []string {
	if d.JSONLDScriptsFn == nil {
		return nil
	}
	return d.JSONLDScriptsFn()
}

func (d *Document) MetaElements() []webmeta.Element {
	if d.MetaElementsFn == nil {
		return nil
	}
	return d.MetaElementsFn()
}

var _ webmeta.Element = Element(nil)

// Element is a mock implementation of webmeta.Element backed by a map.
type Element map[string]string

func (e Element) Attr(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}
