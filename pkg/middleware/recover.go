package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/regtriage/pkg/handlers"
)

// ErrInternal is reported to clients when a handler panics.
var ErrInternal = errors.New("internal server error")

// Recover returns middleware that turns a handler panic into a JSON 500.
// http.ErrAbortHandler is re-raised so the server can abort the response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error(
					"handler panic",
					"panic", v,
					"method", r.Method,
					"uri", r.URL.RequestURI(),
					"stack", string(debug.Stack()),
				)
				handlers.RespondJSON(w, http.StatusInternalServerError, map[string]string{
					"error": ErrInternal.Error(),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
