package models

import "net/http"

// Response is a completed HTTP GET with its body fully read
type Response struct {
	URL        string      // URL actually requested (after scheme fix-up)
	StatusCode int         // HTTP status code
	Header     http.Header // Response headers
	Body       []byte      // Response body, decompressed
}

// Text returns the body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// ContentType returns the Content-Type header of the response
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}
