// Package authapi serves the framework-style authentication endpoints under
// /api/auth: provider discovery, the credential sign-in callback, session
// lookup, and sign-out.
package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/louisbranch/signin/internal/services/web/module"
	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	"github.com/louisbranch/signin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/signin/internal/services/web/routepath"
	"github.com/louisbranch/signin/internal/services/web/session"
	"github.com/louisbranch/signin/internal/services/web/storage"
)

// Config carries the collaborators of the auth API module.
type Config struct {
	Adapter *credentials.Adapter
	Codec   *session.Codec
	// Audit is optional; nil disables the sign-in attempt trail.
	Audit  storage.LoginAttemptRecorder
	Policy requestmeta.SchemePolicy
	Debug  bool
	Now    func() time.Time
}

// Module provides the /api/auth routes.
type Module struct {
	cfg Config
}

// New returns an auth API module.
func New(cfg Config) Module {
	if cfg.Adapter == nil {
		cfg.Adapter = credentials.NewAdapter(nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth-api" }

// Healthy reports whether sign-in can reach a configured backend.
func (m Module) Healthy() bool {
	return m.cfg.Codec != nil && m.cfg.Adapter.Available()
}

// Mount wires auth API route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.cfg.Codec == nil {
		return module.Mount{}, errors.New("session codec is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{Prefix: routepath.AuthAPIPrefix, Handler: mux}, nil
}
