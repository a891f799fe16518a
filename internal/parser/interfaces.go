package parser

import "io"

// SingleResultParser extracts one value from an HTML document.
// contentType is the Content-Type header of the response and may be empty.
type SingleResultParser[T any] interface {
	ParseHtml(body io.Reader, contentType string) (T, error)
}
