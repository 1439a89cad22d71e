package authapi

import (
	"net/http"

	"github.com/louisbranch/signin/internal/services/web/platform/httpx"
	"github.com/louisbranch/signin/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	sameOrigin := httpx.RequireSameOrigin(h.policy)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthProviders, h.handleProviders)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthSignIn, h.handleSignIn)
	mux.Handle(http.MethodPost+" "+routepath.AuthCallbackPattern, sameOrigin(http.HandlerFunc(h.handleCallback)))
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthSession, h.handleSession)
	mux.Handle(http.MethodPost+" "+routepath.AuthSignOut, sameOrigin(http.HandlerFunc(h.handleSignOut)))
}
