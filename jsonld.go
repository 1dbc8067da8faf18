package webmeta

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// ExtractJSONLD parses each JSON-LD script text independently and returns
// the parsed values in input order. Objects are returned as *Record so
// that their key order survives re-encoding.
//
// A text that fails to parse contributes nothing; the failure is sent to
// reporter together with the raw text and the remaining texts are still
// processed.
func ExtractJSONLD(texts []string, reporter Reporter) []any {
	if reporter == nil {
		reporter = NopReporter
	}

	values := make([]any, 0, len(texts))
	for _, text := range texts {
		v, err := ParseJSON(text)
		if err != nil {
			reporter.Report(fmt.Sprintf("Unable to parse JSON-LD script tag: %s", text))
			continue
		}
		values = append(values, v)
	}
	return values
}

// ParseJSON decodes a single JSON value. Objects become *Record, arrays
// []any and numbers json.Number.
func ParseJSON(text string) (any, error) {
	// Validate the whole input first; the token stream below is lenient
	// about separators and trailing data.
	var probe any
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	} else if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		rec := NewRecord()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			rec.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return rec, nil
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}
