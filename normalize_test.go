package webmeta_test

import (
	"testing"

	"github.com/kreuzwerker/webmeta"
	"github.com/kreuzwerker/webmeta/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		context string
		sep     string
		typ     string
	}{
		{"schema.org type", "http://schema.org/Breadcrumb", "http://schema.org", "/", "Breadcrumb"},
		{"no slash", "Breadcrumb", "", "", "Breadcrumb"},
		{"splits on last slash", "http://example.com/vocab/v2/Thing", "http://example.com/vocab/v2", "/", "Thing"},
		{"trailing slash", "http://schema.org/", "http://schema.org", "/", ""},
		{"empty", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			context, sep, typ := webmeta.SplitType(tt.in)

			assert.Equal(t, tt.context, context)
			assert.Equal(t, tt.sep, sep)
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestDefaultContextRewrites(t *testing.T) {
	t.Parallel()

	rewrites := webmeta.DefaultContextRewrites()

	assert.Equal(t, "http://schema.org", rewrites.Rewrite("http://data-vocabulary.org"))
	assert.Equal(t, "http://schema.org", rewrites.Rewrite("http://schema.org"))
	assert.Equal(t, "https://example.com", rewrites.Rewrite("https://example.com"))
	assert.Equal(t, "", rewrites.Rewrite(""))
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("splits schema.org type into context and type", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{Type: "http://schema.org/Breadcrumb"})

		require.True(t, ok)
		assert.Equal(t, []string{"@context", "@type"}, rec.Keys())
		assertValue(t, rec, "@context", "http://schema.org/")
		assertValue(t, rec, "@type", "Breadcrumb")
	})

	t.Run("type without slash has empty context", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{Type: "Breadcrumb"})

		require.True(t, ok)
		assertValue(t, rec, "@context", "")
		assertValue(t, rec, "@type", "Breadcrumb")
	})

	t.Run("rewrites legacy data-vocabulary context", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{Type: "http://data-vocabulary.org/Breadcrumb"})

		require.True(t, ok)
		assertValue(t, rec, "@context", "http://schema.org/")
		assertValue(t, rec, "@type", "Breadcrumb")
	})

	t.Run("uses injected rewrite table", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.ContextRewrites{"http://old.example": "https://new.example"}, nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{Type: "http://old.example/Thing"})

		require.True(t, ok)
		assertValue(t, rec, "@context", "https://new.example/")
	})

	t.Run("copies the rewrite table", func(t *testing.T) {
		t.Parallel()

		table := webmeta.ContextRewrites{"http://old.example": "https://new.example"}
		n := webmeta.NewNormalizer(table, nil)
		table["http://old.example"] = "https://changed.example"

		rec, ok := n.Normalize(&webmeta.MicroItem{Type: "http://old.example/Thing"})

		require.True(t, ok)
		assertValue(t, rec, "@context", "https://new.example/")
	})

	t.Run("drops items without type", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)

		_, ok := n.Normalize(&webmeta.MicroItem{
			Properties: []webmeta.Property{{Name: "name", Value: []any{"x"}}},
		})
		assert.False(t, ok)

		_, ok = n.Normalize(nil)
		assert.False(t, ok)
	})

	t.Run("drops items whose type name is empty", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		_, ok := n.Normalize(&webmeta.MicroItem{Type: "http://schema.org/"})

		assert.False(t, ok)
	})

	t.Run("keeps property order after context and type", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Product",
			Properties: []webmeta.Property{
				{Name: "name", Value: []any{"Widget"}},
				{Name: "brand", Value: []any{"ACME"}},
				{Name: "color", Value: []any{"red"}},
			},
		})

		require.True(t, ok)
		assert.Equal(t, []string{"@context", "@type", "name", "brand", "color"}, rec.Keys())
	})

	t.Run("collapses single element sequences", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Product",
			Properties: []webmeta.Property{
				{Name: "name", Value: []any{"Widget"}},
				{Name: "url", Value: []any{"http://test.org/", "http://test.org/a", "http://test.org/b"}},
				{Name: "tags", Value: []any{}},
			},
		})

		require.True(t, ok)
		assertValue(t, rec, "name", "Widget")
		assertValue(t, rec, "url", []any{"http://test.org/", "http://test.org/a", "http://test.org/b"})
		assertValue(t, rec, "tags", []any{})
	})

	t.Run("passes scalars through unchanged", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Offer",
			Properties: []webmeta.Property{
				{Name: "price", Value: 9.99},
				{Name: "count", Value: 3},
				{Name: "available", Value: true},
				{Name: "currency", Value: "EUR"},
			},
		})

		require.True(t, ok)
		assertValue(t, rec, "price", 9.99)
		assertValue(t, rec, "count", 3)
		assertValue(t, rec, "available", true)
		assertValue(t, rec, "currency", "EUR")
	})

	t.Run("nested items keep their type verbatim", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://data-vocabulary.org/Product",
			Properties: []webmeta.Property{
				{Name: "offers", Value: []any{&webmeta.MicroItem{
					Type: "http://data-vocabulary.org/Offer",
					Properties: []webmeta.Property{
						{Name: "price", Value: []any{"10"}},
					},
				}}},
			},
		})

		require.True(t, ok)
		v, _ := rec.Get("offers")
		offer, isRecord := v.(*webmeta.Record)
		require.True(t, isRecord)
		assert.Equal(t, []string{"@type", "price"}, offer.Keys())
		assertValue(t, offer, "@type", "http://data-vocabulary.org/Offer")
		assertValue(t, offer, "price", "10")
	})

	t.Run("nested items without type get empty type", func(t *testing.T) {
		t.Parallel()

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), nil)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Person",
			Properties: []webmeta.Property{
				{Name: "address", Value: []any{&webmeta.MicroItem{
					Properties: []webmeta.Property{{Name: "city", Value: []any{"Berlin"}}},
				}}},
			},
		})

		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"@context": "http://schema.org/",
			"@type":    "Person",
			"address":  map[string]any{"@type": "", "city": "Berlin"},
		}, rec.Map())
	})

	t.Run("reports unhandled values and substitutes nil", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), reporter)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Thing",
			Properties: []webmeta.Property{
				{Name: "bad", Value: struct{ X int }{1}},
				{Name: "mixed", Value: []any{"ok", map[string]int{"a": 1}}},
				{Name: "name", Value: []any{"still here"}},
			},
		})

		require.True(t, ok)
		assertValue(t, rec, "bad", nil)
		assertValue(t, rec, "mixed", []any{"ok", nil})
		assertValue(t, rec, "name", "still here")

		messages := reporter.Messages()
		require.Len(t, messages, 2)
		assert.Contains(t, messages[0], "Not able to handle value")
		assert.Contains(t, messages[1], "map[string]int")
	})

	t.Run("reports recursive items instead of looping", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		parent := &webmeta.MicroItem{Type: "http://schema.org/Person"}
		child := &webmeta.MicroItem{
			Type:       "http://schema.org/Person",
			Properties: []webmeta.Property{{Name: "knows", Value: []any{parent}}},
		}
		parent.Properties = []webmeta.Property{{Name: "knows", Value: []any{child}}}

		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), reporter)
		rec, ok := n.Normalize(parent)

		require.True(t, ok)
		v, _ := rec.Get("knows")
		knows, isRecord := v.(*webmeta.Record)
		require.True(t, isRecord)
		assertValue(t, knows, "knows", nil)
		require.Len(t, reporter.Messages(), 1)
		assert.Contains(t, reporter.Messages()[0], "recursive item")
	})

	t.Run("same nested item may appear twice", func(t *testing.T) {
		t.Parallel()

		reporter := &mock.Reporter{}
		shared := &webmeta.MicroItem{
			Type:       "http://schema.org/Organization",
			Properties: []webmeta.Property{{Name: "name", Value: []any{"ACME"}}},
		}
		n := webmeta.NewNormalizer(webmeta.DefaultContextRewrites(), reporter)
		rec, ok := n.Normalize(&webmeta.MicroItem{
			Type: "http://schema.org/Product",
			Properties: []webmeta.Property{
				{Name: "brand", Value: []any{shared}},
				{Name: "manufacturer", Value: []any{shared}},
			},
		})

		require.True(t, ok)
		assert.Empty(t, reporter.Messages())
		assert.Equal(t, rec.Map()["brand"], rec.Map()["manufacturer"])
	})
}

func assertValue(t *testing.T, rec *webmeta.Record, key string, want any) {
	t.Helper()

	got, ok := rec.Get(key)
	require.True(t, ok, "missing key %q", key)
	assert.Equal(t, want, got)
}
