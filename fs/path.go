// Package fs provides file-based storage for extraction payloads.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/kreuzwerker/webmeta"
)

// URLToPath converts a page URL to a relative file path below its host.
// A query string is kept in the file name, escaped, after an "@".
//
//	https://example.com/shop/item        → example.com/shop/item.json
//	https://example.com/shop/?page=2     → example.com/shop/index@page%3D2.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", webmeta.Errorf(webmeta.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", webmeta.Errorf(webmeta.EINVALID, "URL %q has no host", rawURL)
	}

	host := strings.ReplaceAll(u.Host, ":", "_")

	// Clean against a rooted path so ".." cannot leave the host directory.
	p := path.Clean("/" + u.Path)
	switch {
	case p == "/":
		p = "/index"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index"
	}
	if u.RawQuery != "" {
		p += "@" + url.QueryEscape(u.RawQuery)
	}
	return host + p + ".json", nil
}
