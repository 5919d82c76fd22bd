package humble

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testRequest struct {
	Name  string `json:"name" schema:"name" validate:"required,min=3"`
	Email string `json:"email" schema:"email" validate:"required,email"`
}

type testResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

func TestNewHandler(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{Message: "ok", ID: 1}, nil
	}

	handler := NewHandler(fn)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
	if handler.method != http.MethodPost {
		t.Errorf("expected default method POST, got %s", handler.method)
	}
}

func TestHandlerMethod(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{}, nil
	}

	handler := NewHandler(fn).Method(http.MethodGet)
	if handler.method != http.MethodGet {
		t.Errorf("expected method GET, got %s", handler.method)
	}
}

func serve(h RPCMethod, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r, HandlerConfig{})
	return w
}

func decodeResult[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Result T `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope.Result
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *Error {
	t.Helper()
	var envelope struct {
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Error == nil {
		t.Fatalf("expected an error envelope, got: %s", w.Body.String())
	}
	return envelope.Error
}

func TestHandlerPostSuccess(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{Message: "hello " + req.Name, ID: 123}, nil
	}

	body := `{"name":"John","email":"john@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/Svc/hello", strings.NewReader(body))
	w := serve(NewHandler(fn), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decodeResult[testResponse](t, w)
	if res.Message != "hello John" {
		t.Errorf("expected message 'hello John', got %q", res.Message)
	}
	if res.ID != 123 {
		t.Errorf("expected ID 123, got %d", res.ID)
	}
}

func TestHandlerGetQueryDecoding(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{Message: req.Name + "/" + req.Email}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/Svc/hello?name=Alice&email=alice@example.com", nil)
	w := serve(NewHandler(fn).Method(http.MethodGet), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decodeResult[testResponse](t, w)
	if res.Message != "Alice/alice@example.com" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestHandlerWrongMethod(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/Svc/hello", nil)
	w := serve(NewHandler(fn), req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != CodeMethodNotAllowed {
		t.Errorf("expected code %s, got %s", CodeMethodNotAllowed, e.Code)
	}
}

func TestHandlerMalformedBody(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/Svc/hello", strings.NewReader(`{"name":`))
	w := serve(NewHandler(fn), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if e := decodeError(t, w); e.Code != CodeInvalidArgument {
		t.Errorf("expected code %s, got %s", CodeInvalidArgument, e.Code)
	}
}

func TestHandlerValidationFailure(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		t.Fatal("handler must not run on invalid input")
		return testResponse{}, nil
	}

	body := `{"name":"Jo","email":"not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/Svc/hello", strings.NewReader(body))
	w := serve(NewHandler(fn), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	e := decodeError(t, w)
	if e.Code != CodeInvalidArgument {
		t.Errorf("expected code %s, got %s", CodeInvalidArgument, e.Code)
	}
	if len(e.Details) != 2 {
		t.Errorf("expected details for both fields, got %v", e.Details)
	}
}

func TestHandlerServiceError(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{}, NewError(CodeNotFound, "no such user")
	}

	body := `{"name":"John","email":"john@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/Svc/hello", strings.NewReader(body))
	w := serve(NewHandler(fn), req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if e := decodeError(t, w); e.Message != "no such user" {
		t.Errorf("expected message 'no such user', got %q", e.Message)
	}
}

func TestHandlerMaskInternalErrors(t *testing.T) {
	fn := func(ctx context.Context, req testRequest) (testResponse, error) {
		return testResponse{}, NewError(CodeInternal, "db password is hunter2")
	}

	body := `{"name":"John","email":"john@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/Svc/hello", strings.NewReader(body))
	w := httptest.NewRecorder()
	NewHandler(fn).ServeHTTP(w, req, HandlerConfig{MaskInternalErrors: true})

	e := decodeError(t, w)
	if e.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, e.Code)
	}
	if e.Message != "internal error" {
		t.Errorf("expected masked message, got %q", e.Message)
	}
}
