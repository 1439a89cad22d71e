// Package web hosts the sign-in HTTP service: the /api/auth endpoints, the
// liveness probe, and the session cookie layer in front of the remote
// authentication backend.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/signin/internal/platform/timeouts"
	"github.com/louisbranch/signin/internal/services/web/modules"
	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	"github.com/louisbranch/signin/internal/services/web/platform/httpx"
	"github.com/louisbranch/signin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/signin/internal/services/web/routepath"
	"github.com/louisbranch/signin/internal/services/web/session"
	"github.com/louisbranch/signin/internal/services/web/storage"
	"github.com/louisbranch/signin/internal/services/web/storage/sqlite"
)

// Config defines the inputs for the web sign-in service.
type Config struct {
	HTTPAddr string
	// BackendURL is the base URL of the remote authentication API.
	BackendURL string
	// BackendClient overrides the HTTP client used for backend calls.
	BackendClient       *http.Client
	SessionSecret       string
	SessionMaxAge       time.Duration
	TrustForwardedProto bool
	// AuditDBPath enables the sign-in attempt audit when set.
	AuditDBPath string
	Debug       bool
}

// Server hosts the web sign-in service.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	audit      storage.LoginAttemptStore
}

// NewHandler composes the service routes. audit may be nil.
func NewHandler(config Config, audit storage.LoginAttemptRecorder) (http.Handler, error) {
	backend, err := credentials.NewHTTPBackend(config.BackendURL, config.BackendClient)
	if err != nil {
		return nil, fmt.Errorf("build auth backend: %w", err)
	}
	codec, err := session.NewCodec(session.CodecConfig{
		Secret: []byte(config.SessionSecret),
		MaxAge: config.SessionMaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("build session codec: %w", err)
	}

	registry := modules.Default(modules.Dependencies{
		Adapter: credentials.NewAdapter(backend),
		Codec:   codec,
		Audit:   audit,
		Policy:  requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto},
		Debug:   config.Debug,
	})

	mux := http.NewServeMux()
	for _, m := range registry {
		mount, err := m.Mount()
		if err != nil {
			return nil, fmt.Errorf("mount module %s: %w", m.ID(), err)
		}
		if strings.TrimSpace(mount.Prefix) == "" || mount.Handler == nil {
			return nil, fmt.Errorf("mount module %s: prefix and handler are required", m.ID())
		}
		mux.Handle(mount.Prefix, mount.Handler)
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if !modules.Healthy(registry) {
		log.Printf("web sign-in started in degraded mode: backend_url=%q", config.BackendURL)
	}

	handler := httpx.Chain(mux, httpx.RecoverPanic(), httpx.RequestID())
	return otelhttp.NewHandler(handler, "web",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	), nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	var audit storage.LoginAttemptStore
	if path := strings.TrimSpace(config.AuditDBPath); path != "" {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		audit = store
	}

	handler, err := NewHandler(config, audit)
	if err != nil {
		if audit != nil {
			_ = audit.Close()
		}
		return nil, fmt.Errorf("build handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		audit: audit,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web sign-in listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the audit store, if any.
func (s *Server) Close() {
	if s == nil || s.audit == nil {
		return
	}
	if err := s.audit.Close(); err != nil {
		log.Printf("close audit store: %v", err)
	}
}
