package main

import (
	"io"

	"github.com/kreuzwerker/webmeta"
	"gopkg.in/yaml.v3"
)

// writePayload writes payload to w in the given format, followed by a
// newline.
func writePayload(w io.Writer, payload *webmeta.Record, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	}

	b, err := payload.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// readPayload reads a JSON object from r.
func readPayload(r io.Reader) (*webmeta.Record, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	v, err := webmeta.ParseJSON(string(b))
	if err != nil {
		return nil, webmeta.Errorf(webmeta.EINVALID, "invalid payload: %v", err)
	}
	rec, ok := v.(*webmeta.Record)
	if !ok {
		return nil, webmeta.Errorf(webmeta.EINVALID, "payload must be a JSON object")
	}
	return rec, nil
}
