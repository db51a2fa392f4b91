package middlew

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"fx-transactions/internal/custom_err"
	"fx-transactions/pkg/response"
)

// Recover turns a panic in a handler into the application error envelope.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			log := GetLogger(r.Context())
			log.Error("recovered from panic",
				slog.String("panic", fmt.Sprint(rvr)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)
			response.WriteJSONError(w, log, http.StatusInternalServerError, map[string]string{
				custom_err.FieldApp: custom_err.AppErrorMessage,
			})
		}()

		next.ServeHTTP(w, r)
	})
}
