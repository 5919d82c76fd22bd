package humble

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate     = validator.New()
	queryDecoder = schema.NewDecoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// HandlerConfig contains configuration passed from App to handlers.
type HandlerConfig struct {
	MaskInternalErrors bool
}

// RPCMethod is the interface for registered handlers. It is exported so
// generated code can pass handlers to App.Register, but sealed so callers
// cannot implement it directly; use NewHandler.
type RPCMethod interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request, config HandlerConfig)
}

// Handler implements RPCMethod for a specific Request/Response pair.
// Generated registration code wraps each service method in a Handler.
type Handler[Req any, Res any] struct {
	fn     func(context.Context, Req) (Res, error)
	method string
}

// NewHandler creates a handler from a service method. The default HTTP
// method is POST with a JSON request body.
func NewHandler[Req any, Res any](fn func(context.Context, Req) (Res, error)) *Handler[Req, Res] {
	return &Handler[Req, Res]{fn: fn, method: http.MethodPost}
}

// Method sets the HTTP method. GET handlers decode the request from URL
// query parameters instead of the body.
func (h *Handler[Req, Res]) Method(m string) *Handler[Req, Res] {
	h.method = m
	return h
}

// ServeHTTP decodes the request, validates it, invokes the service method,
// and writes the response envelope.
func (h *Handler[Req, Res]) ServeHTTP(w http.ResponseWriter, r *http.Request, config HandlerConfig) {
	if r.Method != h.method {
		writeError(w, NewError(CodeMethodNotAllowed, "method not allowed"), config)
		return
	}

	var req Req
	if err := h.decode(r, &req); err != nil {
		writeError(w, toError(err), config)
		return
	}

	res, err := h.fn(r.Context(), req)
	if err != nil {
		writeError(w, toError(err), config)
		return
	}
	writeResult(w, res)
}

func (h *Handler[Req, Res]) decode(r *http.Request, req *Req) error {
	if h.method == http.MethodGet {
		if err := queryDecoder.Decode(req, r.URL.Query()); err != nil {
			return Errorf(CodeInvalidArgument, "failed to decode query: %v", err)
		}
	} else if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return Errorf(CodeInvalidArgument, "failed to decode body: %v", err)
		}
	}

	if err := validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// Req is not a struct; nothing to validate.
			return nil
		}
		return err
	}
	return nil
}
