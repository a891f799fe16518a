package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader converts an HTML body to UTF-8 before it reaches goquery.
//
// contentType is the Content-Type header of the response (may be empty). The
// encoding is taken from its charset parameter, then from <meta> tags, byte
// order marks and finally heuristics. Older NRK pages are served as
// ISO-8859-1, which would otherwise garble æ, ø and å in titles.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
