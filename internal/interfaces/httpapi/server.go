// Package httpapi is the operational surface of the pipeline: run triggers,
// run inspection and QA report retrieval.
package httpapi

import (
	"net/http"

	"github.com/courtdata/statpipe/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/runs", handler.ListRuns)
	mux.HandleFunc("POST /v1/runs", handler.TriggerRun)
	mux.HandleFunc("GET /v1/runs/{league}/{season}", handler.GetRun)
	mux.HandleFunc("GET /v1/runs/{league}/{season}/report", handler.GetRunReport)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
