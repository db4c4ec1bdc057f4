package rpc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/metric"
)

// MaxBodySize is the maximum accepted request body, larger requests are
// rejected before reaching the handlers.
const MaxBodySize int64 = 1 << 20

type (
	// Registrar registers endpoints on the API router.
	Registrar interface {
		Register(r *mux.Router)
	}

	RegistrarFunc func(r *mux.Router)

	Observability interface {
		Meter(name string, opts ...metric.MeterOption) metric.Meter
		Logger() *slog.Logger
	}
)

func (rf RegistrarFunc) Register(r *mux.Router) { rf(r) }

// NewRESTServer creates a REST server listening on addr, serving the given
// endpoints under /api/v1.
func NewRESTServer(addr string, observe Observability, endpoints ...Registrar) *http.Server {
	rtr := mux.NewRouter().StrictSlash(true)
	apiRouter := rtr.PathPrefix("/api").Subrouter()
	// allow cross origin requests from browser clients
	apiRouter.Use(handlers.CORS(handlers.AllowedHeaders([]string{"Content-Type"})))
	apiV1 := apiRouter.PathPrefix("/v1").Subrouter()
	for _, endpoint := range endpoints {
		endpoint.Register(apiV1)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           http.MaxBytesHandler(instrumentHTTP(observe, rtr), MaxBodySize),
		ReadTimeout:       3 * time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
