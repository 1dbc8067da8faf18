package webmeta

// DocumentParser parses raw HTML into a queryable Document.
type DocumentParser interface {
	// ParseDocument parses html. The sourceURL, when non-empty, is used to
	// resolve relative URLs found in microdata property values. An empty or
	// unparseable sourceURL leaves those values as written.
	ParseDocument(html string, sourceURL string) (Document, error)
}

// Document is a parsed HTML document.
type Document interface {
	// MicrodataItems returns the top-level microdata items in document order.
	MicrodataItems() []*MicroItem

	// JSONLDScripts returns the raw text of every
	// <script type="application/ld+json"> element in document order.
	JSONLDScripts() []string

	// MetaElements returns every <meta> element carrying a name or
	// property attribute, in document order.
	MetaElements() []Element
}

// Element is an HTML element exposing attribute lookup.
type Element interface {
	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)
}
