package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the CORS middleware. Empty list fields fall back to
// permissive defaults: any origin, GET/POST/OPTIONS, and the Content-Type
// and Authorization headers.
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string

	// AllowCredentials permits requests with cookies or authorization
	// headers. Combined with a wildcard origin, responses echo the
	// requesting origin because the CORS spec forbids "*" with credentials.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds; zero leaves the
	// header unset.
	MaxAge int
}

// CORSAllowAll selects the default permissive configuration, suitable for
// development.
var CORSAllowAll *CORSConfig = nil

// CORS returns middleware that answers OPTIONS preflight requests and sets
// CORS headers on every response whose origin is allowed.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &CORSConfig{}
	}

	origins := orDefault(cfg.AllowOrigins, []string{"*"})
	wildcard := contains(origins, "*")
	methods := strings.Join(orDefault(cfg.AllowMethods, []string{"GET", "POST", "OPTIONS"}), ", ")
	headers := strings.Join(orDefault(cfg.AllowHeaders, []string{"Content-Type", "Authorization"}), ", ")
	exposed := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if wildcard || (origin != "" && contains(origins, origin)) {
				switch {
				case !wildcard, origin != "" && cfg.AllowCredentials:
					w.Header().Set("Access-Control-Allow-Origin", origin)
				default:
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if exposed != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposed)
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func orDefault(vals, fallback []string) []string {
	if len(vals) == 0 {
		return fallback
	}
	return vals
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
