package webmeta

import "strings"

// DefaultResultKey is the payload key used when none is configured.
const DefaultResultKey = "data"

// Result holds the metadata extracted from one document.
type Result struct {
	// SchemaOrg holds normalized microdata records followed by parsed
	// JSON-LD values, each group in document order.
	SchemaOrg []any `json:"schemaorg"`

	// Meta maps meta tag names and properties to their content.
	Meta *Record `json:"meta"`
}

// NewResult returns an empty result that encodes as
// {"schemaorg": [], "meta": {}}.
func NewResult() *Result {
	return &Result{
		SchemaOrg: make([]any, 0),
		Meta:      NewRecord(),
	}
}

// Record returns the result as an ordered record.
func (r *Result) Record() *Record {
	rec := NewRecord()
	rec.Set("schemaorg", r.SchemaOrg)
	rec.Set("meta", r.Meta)
	return rec
}

// MarshalJSON encodes the result as {"schemaorg": [...], "meta": {...}}.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r.Record().MarshalJSON()
}

// MarshalYAML encodes the result with the same key order as its JSON form.
func (r *Result) MarshalYAML() (any, error) {
	return yamlNode(r.Record())
}

// Options configures a single extraction.
type Options struct {
	// Data is the HTML to extract from.
	Data string

	// URL is the optional source URL of Data, used to resolve relative
	// URLs in microdata values.
	URL string

	// Merge keeps the incoming payload and adds the result to it.
	Merge bool

	// ResultKey is the payload key holding the result.
	// Defaults to DefaultResultKey.
	ResultKey string
}

// Validate returns an error if the options cannot be used for extraction.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Data) == "" {
		return Errorf(EINVALID, "data needs to be present")
	}
	return nil
}

// PayloadOptions controls how a Result is embedded into a payload.
type PayloadOptions struct {
	ResultKey string
	Merge     bool
	Base      *Record
}

// BuildPayload embeds result under opts.ResultKey. With Merge set the
// payload starts as a shallow copy of opts.Base, otherwise it starts empty.
// An existing value under the result key is replaced, not merged.
func BuildPayload(result *Result, opts PayloadOptions) *Record {
	key := opts.ResultKey
	if key == "" {
		key = DefaultResultKey
	}

	var payload *Record
	if opts.Merge {
		payload = opts.Base.Clone()
	} else {
		payload = NewRecord()
	}
	payload.Set(key, result)
	return payload
}

// Assembler extracts microdata, JSON-LD and meta tags from HTML documents.
// An Assembler holds no per-call state and is safe for concurrent use as
// long as its Parser is.
type Assembler struct {
	Parser     DocumentParser
	Normalizer *Normalizer
	Reporter   Reporter
}

// NewAssembler returns an Assembler using the default context rewrites.
func NewAssembler(parser DocumentParser, reporter Reporter) *Assembler {
	return &Assembler{
		Parser:     parser,
		Normalizer: NewNormalizer(DefaultContextRewrites(), reporter),
		Reporter:   reporter,
	}
}

// Assemble parses html once and collects its metadata. Microdata records
// come first in SchemaOrg, followed by JSON-LD values.
//
// Malformed JSON-LD and unrepresentable microdata values are reported and
// skipped. The only error returned is a failure of the underlying parser.
func (a *Assembler) Assemble(html string, sourceURL string) (*Result, error) {
	doc, err := a.Parser.ParseDocument(html, sourceURL)
	if err != nil {
		return nil, Errorf(EINVALID, "failed to parse HTML: %v", err)
	}

	normalizer := a.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(DefaultContextRewrites(), a.Reporter)
	}

	result := NewResult()
	for _, item := range doc.MicrodataItems() {
		if rec, ok := normalizer.Normalize(item); ok {
			result.SchemaOrg = append(result.SchemaOrg, rec)
		}
	}
	result.SchemaOrg = append(result.SchemaOrg, ExtractJSONLD(doc.JSONLDScripts(), a.Reporter)...)
	result.Meta = CollectMeta(doc.MetaElements())

	return result, nil
}

// Run validates opts, assembles opts.Data and embeds the result into a
// payload built from base.
func (a *Assembler) Run(opts Options, base *Record) (*Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result, err := a.Assemble(opts.Data, opts.URL)
	if err != nil {
		return nil, err
	}

	return BuildPayload(result, PayloadOptions{
		ResultKey: opts.ResultKey,
		Merge:     opts.Merge,
		Base:      base,
	}), nil
}
