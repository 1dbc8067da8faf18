package webmeta_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/kreuzwerker/webmeta"
	"github.com/kreuzwerker/webmeta/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONLD(t *testing.T) {
	t.Parallel()

	t.Run("parses a well-formed object verbatim", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		values := webmeta.ExtractJSONLD([]string{`{"@type":"WebSite","name":"X"}`}, reporter)

		require.Len(t, values, 1)
		rec, ok := values[0].(*webmeta.Record)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"@type": "WebSite", "name": "X"}, rec.Map())
		assert.Empty(t, reporter.Messages())
	})

	t.Run("preserves key order", func(t *testing.T) {
		t.Parallel()

		text := `{"@context":"http://schema.org","@type":"WebSite","name":"eBay Kleinanzeigen","url":"https://www.ebay-kleinanzeigen.de"}`
		values := webmeta.ExtractJSONLD([]string{text}, nil)

		require.Len(t, values, 1)
		b, err := json.Marshal(values[0])
		require.NoError(t, err)
		assert.Equal(t, text, string(b))
	})

	t.Run("keeps numbers as written", func(t *testing.T) {
		t.Parallel()

		text := `{"price":19.90,"count":3,"ratio":1e3}`
		values := webmeta.ExtractJSONLD([]string{text}, nil)

		require.Len(t, values, 1)
		b, err := json.Marshal(values[0])
		require.NoError(t, err)
		assert.JSONEq(t, text, string(b))
	})

	t.Run("accepts arrays and primitives", func(t *testing.T) {
		t.Parallel()

		values := webmeta.ExtractJSONLD([]string{`[{"@type":"A"},{"@type":"B"}]`, `"text"`, `true`}, nil)

		require.Len(t, values, 3)
		arr, ok := values[0].([]any)
		require.True(t, ok)
		assert.Len(t, arr, 2)
		assert.Equal(t, "text", values[1])
		assert.Equal(t, true, values[2])
	})

	t.Run("reports invalid JSON and skips it", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		values := webmeta.ExtractJSONLD([]string{"invalid JSON"}, reporter)

		assert.Empty(t, values)
		require.Len(t, reporter.Messages(), 1)
		assert.Equal(t, "Unable to parse JSON-LD script tag: invalid JSON", reporter.Messages()[0])
	})

	t.Run("malformed block does not affect siblings", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		values := webmeta.ExtractJSONLD([]string{
			`{"@type":"First"}`,
			`{"@type":`,
			`{"@type":"Third"}`,
		}, reporter)

		require.Len(t, values, 2)
		assert.Equal(t, map[string]any{"@type": "First"}, values[0].(*webmeta.Record).Map())
		assert.Equal(t, map[string]any{"@type": "Third"}, values[1].(*webmeta.Record).Map())
		assert.Len(t, reporter.Messages(), 1)
	})

	t.Run("reports empty and trailing data", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		values := webmeta.ExtractJSONLD([]string{"", "   ", `{"a":1} {"b":2}`}, reporter)

		assert.Empty(t, values)
		assert.Len(t, reporter.Messages(), 3)
	})

	t.Run("returns empty slice for no input", func(t *testing.T) {
		t.Parallel()

		values := webmeta.ExtractJSONLD(nil, nil)

		assert.NotNil(t, values)
		assert.Empty(t, values)
	})
}
