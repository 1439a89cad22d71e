package authapi

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	apperrors "github.com/louisbranch/signin/internal/services/web/platform/errors"
	"github.com/louisbranch/signin/internal/services/web/platform/httpx"
	"github.com/louisbranch/signin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/signin/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/signin/internal/services/web/routepath"
	"github.com/louisbranch/signin/internal/services/web/session"
	"github.com/louisbranch/signin/internal/services/web/storage"
)

const (
	// providerID is the only sign-in provider this service exposes.
	providerID = "credentials"

	errTwoFactorRequired = "two_factor_required"
)

type handlers struct {
	adapter *credentials.Adapter
	codec   *session.Codec
	audit   storage.LoginAttemptRecorder
	policy  requestmeta.SchemePolicy
	debug   bool
	nowFunc func() time.Time
}

func newHandlers(cfg Config) handlers {
	return handlers{
		adapter: cfg.Adapter,
		codec:   cfg.Codec,
		audit:   cfg.Audit,
		policy:  cfg.Policy,
		debug:   cfg.Debug,
		nowFunc: cfg.Now,
	}
}

type providerField struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type providerInfo struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Type        string                   `json:"type"`
	SignInURL   string                   `json:"signinUrl"`
	CallbackURL string                   `json:"callbackUrl"`
	Credentials map[string]providerField `json:"credentials"`
}

func (h handlers) handleProviders(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]providerInfo{
		providerID: {
			ID:          providerID,
			Name:        "Credentials",
			Type:        "credentials",
			SignInURL:   routepath.AuthSignIn,
			CallbackURL: routepath.AuthCallback(providerID),
			Credentials: map[string]providerField{
				"email":      {Label: "Email", Type: "email"},
				"password":   {Label: "Password", Type: "password"},
				"twoFAToken": {Label: "2FA Token", Type: "text"},
				"userId":     {Label: "User ID", Type: "text"},
			},
		},
	})
}

// handleSignIn sends the browser to the fixed sign-in page.
func (h handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	target := routepath.Login
	if next := safeCallbackURL(r.URL.Query().Get("callbackUrl")); next != routepath.Root {
		target += "?" + url.Values{"callbackUrl": {next}}.Encode()
	}
	httpx.WriteRedirect(w, r, target)
}

func (h handlers) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("provider") != providerID {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, "unknown provider")
		return
	}
	sub, err := decodeSubmission(w, r)
	if err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid sign-in request"))
		return
	}

	outcome := h.adapter.Authorize(r.Context(), sub.creds)
	h.recordAttempt(r, sub.creds, outcome)
	if h.debug {
		log.Printf("auth callback outcome=%s two_factor=%t request_id=%s", outcome.Kind, sub.creds.IsTwoFactor(), httpx.RequestIDFrom(r))
	}

	switch outcome.Kind {
	case credentials.OutcomeAuthorized:
		user := outcome.User
		token := session.ProjectToken(session.Token{}, &user)
		raw, token, err := h.codec.Issue(token)
		if err != nil {
			log.Printf("auth callback issue session failed request_id=%s err=%v", httpx.RequestIDFrom(r), err)
			_ = httpx.WriteJSONError(w, http.StatusInternalServerError, credentials.FallbackMessage)
			return
		}
		sessioncookie.Write(w, r, raw, token.ExpiresAt, h.codec.MaxAge(), h.policy)
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"ok":  true,
			"url": safeCallbackURL(sub.callbackURL),
		})
	case credentials.OutcomeStepUpRequired:
		_ = httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"error":         errTwoFactorRequired,
			"twofaRequired": true,
			"userId":        outcome.UserID,
		})
	default:
		httpx.WriteError(w, outcome.Err())
	}
}

// handleSession returns the client-visible session, or an empty object when
// the request carries no valid session cookie.
func (h handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	raw, ok := sessioncookie.Read(r)
	if !ok {
		_ = httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	token, err := h.codec.Parse(raw)
	if err != nil {
		if h.debug {
			log.Printf("auth session rejected request_id=%s err=%v", httpx.RequestIDFrom(r), err)
		}
		sessioncookie.Clear(w, r, h.policy)
		_ = httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	token = session.ProjectToken(token, nil)
	_ = httpx.WriteJSON(w, http.StatusOK, session.ProjectSession(token))
}

func (h handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.policy)
	if h.debug {
		log.Printf("auth signout request_id=%s", httpx.RequestIDFrom(r))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":  true,
		"url": safeCallbackURL(r.URL.Query().Get("callbackUrl")),
	})
}

// safeCallbackURL keeps only same-site absolute paths; anything else
// resolves to the root.
func safeCallbackURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return routepath.Root
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return routepath.Root
	}
	return parsed.String()
}
