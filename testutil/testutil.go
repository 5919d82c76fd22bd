// Package testutil provides helpers for testing humble apps and handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// RequestBuilder constructs test HTTP requests with a fluent API.
type RequestBuilder struct {
	method  string
	path    string
	body    []byte
	headers map[string]string
	query   map[string]string
}

// NewRequest creates a request builder. The default method is POST.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodPost,
		headers: make(map[string]string),
		query:   make(map[string]string),
	}
}

// Method sets the HTTP method.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.method = method
	return b
}

// Call sets the request path to /Service/method.
func (b *RequestBuilder) Call(service, method string) *RequestBuilder {
	b.path = "/" + service + "/" + method
	return b
}

// Path sets the request path directly.
func (b *RequestBuilder) Path(path string) *RequestBuilder {
	b.path = path
	return b
}

// JSON marshals v as the request body and sets the content type.
func (b *RequestBuilder) JSON(t *testing.T, v any) *RequestBuilder {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b
}

// Body sets a raw request body.
func (b *RequestBuilder) Body(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// Header sets a request header.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// Query adds a URL query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.query[key] = value
	return b
}

// Build creates the http.Request.
func (b *RequestBuilder) Build() *http.Request {
	path := b.path
	if len(b.query) > 0 {
		values := url.Values{}
		for k, v := range b.query {
			values.Set(k, v)
		}
		path += "?" + values.Encode()
	}
	req := httptest.NewRequest(b.method, path, bytes.NewReader(b.body))
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req
}

// Do runs the request against the handler and returns the recorded response.
func (b *RequestBuilder) Do(handler http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, b.Build())
	return w
}

// DecodeResult unmarshals the result envelope of a successful response into
// out and fails the test on any mismatch.
func DecodeResult(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

// DecodeError unmarshals the error envelope of a failed response and returns
// its code and message.
func DecodeError(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Error.Code == "" {
		t.Fatalf("expected an error envelope, got: %s", w.Body.String())
	}
	return envelope.Error.Code, envelope.Error.Message
}
