package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/alphabill-org/alphabill-escrow/logger"
)

// instrumentHTTP wraps the handler to count requests and measure their
// duration, labeled by path template and status code.
func instrumentHTTP(observe Observability, handler http.Handler) http.Handler {
	mtr := observe.Meter("rpc.rest")
	log := observe.Logger()

	reqCount, err := mtr.Int64Counter(
		"requests",
		metric.WithDescription("Number of HTTP requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Error("creating request counter", logger.Error(err))
		return handler
	}
	reqDuration, err := mtr.Float64Histogram(
		"request.duration",
		metric.WithDescription("Duration of serving a HTTP request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		log.Error("creating request duration histogram", logger.Error(err))
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		handler.ServeHTTP(srw, r)

		attrs := attribute.NewSet(
			attribute.String("method", r.Method),
			attribute.String("path", r.URL.Path),
			attribute.Int("status", srw.status),
		)
		reqCount.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
		reqDuration.Record(context.Background(), time.Since(start).Seconds(), metric.WithAttributeSet(attrs))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (srw *statusResponseWriter) WriteHeader(status int) {
	srw.status = status
	srw.ResponseWriter.WriteHeader(status)
}

func (srw *statusResponseWriter) Flush() {
	if f, ok := srw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (srw *statusResponseWriter) String() string {
	return fmt.Sprintf("status %d", srw.status)
}
