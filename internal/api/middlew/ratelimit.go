package middlew

import (
	"fmt"
	"log/slog"
	"net/http"

	"fx-transactions/internal/custom_err"
	"fx-transactions/pkg/response"

	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits requests per client IP. formatted uses the limiter notation,
// e.g. "100-M" for one hundred requests a minute.
func RateLimit(formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	mw := limiterhttp.NewMiddleware(instance,
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			log := GetLogger(r.Context())
			log.Warn("rate limit reached", slog.String("remote_addr", r.RemoteAddr))
			response.WriteJSONError(w, log, http.StatusTooManyRequests,
				map[string]string{custom_err.FieldRate: custom_err.RateLimitedMessage})
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log := GetLogger(r.Context())
			log.Error("rate limiter failed", slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError,
				map[string]string{custom_err.FieldApp: custom_err.AppErrorMessage})
		}),
	)

	return mw.Handler, nil
}
