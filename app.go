// Package humble is the runtime support library for code generated by
// humblec. Generated service bindings register their methods on an App,
// which serves them over HTTP with JSON request and response envelopes.
package humble

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

// Middleware wraps an http.Handler, typically for cross-cutting concerns
// such as logging or CORS.
type Middleware func(http.Handler) http.Handler

// App routes RPC requests to registered service methods. Generated
// RegisterXxx functions attach one handler per service method; Handler
// returns the resulting http.Handler.
type App struct {
	routes             map[string]RPCMethod
	logger             *slog.Logger
	middleware         []Middleware
	maskInternalErrors bool
}

// NewApp creates an empty App.
func NewApp() *App {
	return &App{
		routes: make(map[string]RPCMethod),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for request handling.
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

// WithMiddleware appends middleware applied around the whole app, outermost
// first.
func (a *App) WithMiddleware(mw ...Middleware) *App {
	a.middleware = append(a.middleware, mw...)
	return a
}

// WithMaskInternalErrors hides internal error messages from clients,
// replacing them with a generic message. Error codes are preserved.
func (a *App) WithMaskInternalErrors(mask bool) *App {
	a.maskInternalErrors = mask
	return a
}

// Register attaches a handler under /ServiceName/methodName. It panics on a
// duplicate route because registration happens once at startup from
// generated code.
func (a *App) Register(service, method string, h RPCMethod) {
	key := service + "/" + method
	if _, exists := a.routes[key]; exists {
		panic(fmt.Sprintf("humble: duplicate registration of %s", key))
	}
	a.routes[key] = h
}

// Routes returns the registered route keys, sorted.
func (a *App) Routes() []string {
	keys := make([]string, 0, len(a.routes))
	for key := range a.routes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Handler returns the http.Handler serving all registered methods, with the
// app middleware applied.
func (a *App) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(a.dispatch)
	for i := len(a.middleware) - 1; i >= 0; i-- {
		h = a.middleware[i](h)
	}
	return h
}

func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	handler, ok := a.routes[key]
	if !ok {
		writeError(w, NewError(CodeNotFound, "no such method"), HandlerConfig{})
		return
	}
	handler.ServeHTTP(w, r, HandlerConfig{
		MaskInternalErrors: a.maskInternalErrors,
	})
}
