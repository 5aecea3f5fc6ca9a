package domain

import (
	"encoding/json"
	"net/http"
)

// Response is the generic response produced by handler code. The
// specializer serializes it into the wire shape of whichever trigger
// produced the request.
type Response struct {
	// StatusCode is the HTTP status. Constructors default it to 200; the
	// specializer rejects values outside [100, 599].
	StatusCode int

	// Header is a multimap. Duplicate values survive on variants whose
	// wire shape can carry them.
	Header http.Header

	// Body is the payload. IsBinary marks it for base64 transport on
	// variants with an explicit encoding flag.
	Body     []byte
	IsBinary bool

	// Cookies holds serialized Set-Cookie values. HTTP API 2.0 shapes emit
	// them in the dedicated cookies array; every other variant sends them
	// as Set-Cookie headers.
	Cookies []string
}

// NewResponse returns an empty response with the given status, defaulting
// to 200 OK when status is zero.
func NewResponse(status int) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{StatusCode: status, Header: make(http.Header)}
}

// TextResponse builds a text/plain response.
func TextResponse(status int, body string) *Response {
	r := NewResponse(status)
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(body)
	return r
}

// JSONResponse builds an application/json response from v.
func JSONResponse(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, ErrResponseEncode("marshal response body").WithCause(err)
	}
	r := NewResponse(status)
	r.Header.Set("Content-Type", "application/json")
	r.Body = body
	return r, nil
}

// BinaryResponse builds a response whose body travels base64-encoded on
// variants with an explicit encoding flag.
func BinaryResponse(status int, contentType string, body []byte) *Response {
	r := NewResponse(status)
	r.Header.Set("Content-Type", contentType)
	r.Body = body
	r.IsBinary = true
	return r
}

// SetHeader replaces the values of key, returning the response for
// chaining.
func (r *Response) SetHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// AddHeader appends a value for key.
func (r *Response) AddHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Add(key, value)
	return r
}

// AddCookie appends a Set-Cookie value built from c.
func (r *Response) AddCookie(c *http.Cookie) *Response {
	r.Cookies = append(r.Cookies, c.String())
	return r
}
