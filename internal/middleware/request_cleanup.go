package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest caps the request body at maxBodyBytes (when positive), and drains
// and closes it after the handler is done, so the connection can be reused.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBodyBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
