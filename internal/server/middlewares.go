package server

import (
	"net/http"
	"time"

	"marathon-chat/internal/storage/zapadapter"

	"github.com/rs/xid"
	"go.uber.org/zap"
)

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// log assigns a request id, stores it in the request context for pgx logs and
// logs the request together with its outcome
func log(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()

		ctx := zapadapter.NewContextWithRequestID(r.Context(), id)
		rwID := r.WithContext(ctx)

		logger.Info("incoming http request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.String("ip", r.RemoteAddr),
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, rwID)

		logger.Info("http request served",
			zap.String("id", id),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
