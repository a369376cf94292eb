// Package fwserve serves framework resources with cache headers chosen by
// the nonce carried in the request URL.
package fwserve

import (
	"errors"
	"net/http"
	"time"

	"github.com/always-cache/fwserve/metrics"
	"github.com/always-cache/fwserve/nonce"
	responseheaders "github.com/always-cache/fwserve/pkg/response-headers"
	"github.com/always-cache/fwserve/policy"
	"github.com/always-cache/fwserve/resource"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.opentelemetry.io/otel/metric"
)

type Config struct {
	// Storage for resources.
	Store resource.Store
	// Current framework build. Read once per request.
	Build nonce.Source
	// Path prefix the resources are served under. resource.DefaultMount if empty.
	Mount string
	// Cache lifetimes.
	Policy policy.Config
	// Header rules applied to every response on top of the defaults.
	Headers responseheaders.Rules
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
	// Meter for response metrics. The global meter provider is used if nil.
	Meter metric.Meter
	// Clock for verdicts. time.Now if nil.
	Now func() time.Time
}

type Server struct {
	store   resource.Store
	build   nonce.Source
	mount   string
	policy  policy.Engine
	headers responseheaders.Rules
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time
	router  chi.Router
}

// CreateServer validates config and sets up the routes.
func CreateServer(config Config) (*Server, error) {
	if config.Store == nil {
		return nil, errors.New("fwserve: no resource store")
	}
	if config.Build == nil {
		return nil, errors.New("fwserve: no build source")
	}

	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	} else {
		logger = *config.Logger
	}

	mount := config.Mount
	if mount == "" {
		mount = resource.DefaultMount
	}
	logger = logger.With().Str("mount", mount).Logger()

	recorder, err := metrics.NewRecorder(config.Meter)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:   config.Store,
		build:   config.Build,
		mount:   mount,
		policy:  policy.NewEngine(config.Policy),
		headers: config.Headers,
		metrics: recorder,
		log:     logger,
		now:     config.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(logRequest))
	r.Use(middleware.Recoverer)

	r.Get(s.mount+"/*", s.serveResource)
	r.Head(s.mount+"/*", s.serveResource)
	r.NotFound(s.serveResource)
	r.MethodNotAllowed(s.methodNotAllowed)
	return r
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.headers.Apply(r, w.Header())
	w.Header().Set("Allow", "GET, HEAD")
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func logRequest(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("sourceIp", getRequestSourceIp(r)).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Sending response to client")
}
