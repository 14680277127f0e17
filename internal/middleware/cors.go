// Package middleware provides HTTP middleware for the Avika API.
package middleware

import (
	"net/http"
	"path"
)

// CORS returns middleware that handles CORS headers. Origins may be exact,
// "*", or shell patterns such as "https://*.example.com".
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				if allowed, explicit := matchOrigin(allowedOrigins, origin); allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
					w.Header().Add("Vary", "Origin")
					// Credentials only for configured origins, never for "*".
					if explicit {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchOrigin(allowedOrigins []string, origin string) (allowed, explicit bool) {
	for _, o := range allowedOrigins {
		if o == "*" {
			allowed = true
			continue
		}
		if o == origin {
			return true, true
		}
		if ok, err := path.Match(o, origin); err == nil && ok {
			return true, true
		}
	}
	return allowed, false
}
