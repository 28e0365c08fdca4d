package server

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/broadcast"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response data is not from user input
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

type config struct {
	jwtSecret      types.JWTSecret
	hub            *broadcast.Hub
	metrics        *metrics.Metrics
	originPatterns []string
}

type Option func(*config)

func WithJWTSecret(secret types.JWTSecret) Option {
	return func(cfg *config) {
		cfg.jwtSecret = secret
	}
}

// WithHub enables the /ws subscription endpoint.
func WithHub(hub *broadcast.Hub) Option {
	return func(cfg *config) {
		cfg.hub = hub
	}
}

// WithMetrics enables the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithOriginPatterns sets the hosts allowed to open a websocket from a
// browser. Same-origin requests are always allowed.
func WithOriginPatterns(patterns ...string) Option {
	return func(cfg *config) {
		cfg.originPatterns = append(cfg.originPatterns, patterns...)
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics.Handler())
	}
	if cfg.hub != nil {
		r.Get("/ws", handleWebSocket(cfg.hub, cfg.originPatterns))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate(cfg.jwtSecret))

		r.Route("/scans", func(r chi.Router) {
			r.Post("/", createScan(uc))
			r.Get("/", listScans(uc))
			r.Post("/test", createTestScan(uc))
			r.Route("/{scanID}", func(r chi.Router) {
				r.Get("/", getScan(uc))
				r.Patch("/", updateScan(uc))
				r.Post("/files", addFiles(uc))
				r.Post("/vulnerabilities", addVulnerabilities(uc))
			})
		})

		r.Route("/vulnerabilities", func(r chi.Router) {
			r.Get("/", listVulnerabilities(uc))
			r.Get("/{vulnID}", getVulnerability(uc))
			r.Patch("/{vulnID}/status", updateVulnerabilityStatus(uc))
		})
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
