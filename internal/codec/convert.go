package codec

import (
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// headerFromSingle lifts a single-valued header map into the canonical
// multimap, one-element slice per key.
func headerFromSingle(src map[string]string) http.Header {
	h := make(http.Header, len(src))
	for k, v := range src {
		h.Add(k, v)
	}
	return h
}

// headerFromMulti copies a multi-valued header map, preserving the value
// order given in the source arrays.
func headerFromMulti(src map[string][]string) http.Header {
	h := make(http.Header, len(src))
	for k, vs := range src {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	return h
}

// queryFromSingle lifts a single-valued query map. Keys keep their exact
// case; query parameters are case-sensitive.
func queryFromSingle(src map[string]string) url.Values {
	q := make(url.Values, len(src))
	for k, v := range src {
		q.Add(k, v)
	}
	return q
}

// queryFromMulti copies a multi-valued query map, preserving source value
// order.
func queryFromMulti(src map[string][]string) url.Values {
	q := make(url.Values, len(src))
	for k, vs := range src {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return q
}

// lastValue collapses a multimap to its final value per key, the shape
// required by variants without multi-value header support.
func lastValue(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

// percentDecode undoes percent-encoding, keeping the raw text when a
// sequence does not decode. ALB delivers paths and query strings still
// encoded; the gateway variants deliver them decoded.
func percentDecode(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// decodeBody returns the canonical body bytes, decoding the base64
// transport encoding eagerly. A body that claims base64 but does not
// decode aborts canonicalization; no partial request is returned.
func decodeBody(body string, isBase64 bool, tag domain.Trigger) ([]byte, error) {
	if body == "" {
		return nil, nil
	}
	if !isBase64 {
		return []byte(body), nil
	}
	b, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, domain.ErrMalformedPayload("decode base64 body").
			WithField("body").
			WithTrigger(tag).
			WithCause(err)
	}
	return b, nil
}

// encodeBody serializes response body bytes for transport, reporting
// whether base64 was applied.
func encodeBody(resp *domain.Response) (string, bool) {
	if len(resp.Body) == 0 {
		return "", false
	}
	if resp.IsBinary {
		return base64.StdEncoding.EncodeToString(resp.Body), true
	}
	return string(resp.Body), false
}

// responseHeader clones the response header multimap and folds the
// response's cookie list in as Set-Cookie values, the form every variant
// without a dedicated cookies field uses.
func responseHeader(resp *domain.Response) http.Header {
	h := resp.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	for _, c := range resp.Cookies {
		h.Add("Set-Cookie", c)
	}
	return h
}
