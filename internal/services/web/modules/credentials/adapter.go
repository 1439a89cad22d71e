// Package credentials implements email/password sign-in with an optional
// two-factor step-up, delegating every check to a remote authentication
// backend and normalizing its answers into an Outcome.
package credentials

import (
	"context"
	"errors"
	"strings"
)

// Adapter runs sign-in submissions against a Backend. It holds no mutable
// state, so one Adapter serves concurrent requests.
type Adapter struct {
	backend Backend
}

// NewAdapter builds an Adapter. A nil backend yields an adapter whose every
// attempt fails.
func NewAdapter(backend Backend) *Adapter {
	if backend == nil {
		backend = unavailableBackend{}
	}
	return &Adapter{backend: backend}
}

// Authorize runs exactly one backend branch for creds: two-factor
// verification when both UserID and TwoFAToken are present, the password
// check otherwise.
func (a *Adapter) Authorize(ctx context.Context, creds Credentials) Outcome {
	if creds.IsTwoFactor() {
		auth, err := a.backend.VerifyLogin(ctx, strings.TrimSpace(creds.UserID), strings.TrimSpace(creds.TwoFAToken))
		if err != nil {
			return failure(err)
		}
		return authorized(auth)
	}

	result, err := a.backend.Login(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		return failure(err)
	}
	if result.TwoFARequired {
		return StepUpRequired(result.UserID)
	}
	return authorized(result.Auth)
}

func authorized(auth AuthResult) Outcome {
	user := auth.User
	user.AccessToken = auth.Token
	if strings.TrimSpace(user.AccessToken) == "" {
		return Failed(FallbackMessage)
	}
	return Authorized(user)
}

// failure keeps the backend's own message when it sent one; transport,
// decoding, and configuration errors collapse to the fallback.
func failure(err error) Outcome {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return Failed(backendErr.Message)
	}
	return Failed(FallbackMessage)
}

// Available reports whether the adapter has a configured backend.
func (a *Adapter) Available() bool {
	if a == nil {
		return false
	}
	_, unavailable := a.backend.(unavailableBackend)
	return !unavailable
}
