package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/signin/internal/platform/requestctx"
	apperrors "github.com/louisbranch/signin/internal/services/web/platform/errors"
	"github.com/louisbranch/signin/internal/services/web/platform/httpx"
)

const (
	loginPath       = "/api/auth/login"
	verifyLoginPath = "/api/auth/2fa/verify-login"

	maxResponseBytes = 1 << 20

	backendUnavailableMessage = "authentication backend is not configured"
)

var tracer = otel.Tracer("github.com/louisbranch/signin/internal/services/web/modules/credentials")

// Backend abstracts the remote authentication API behind domain types.
type Backend interface {
	// Login checks an email/password pair. It returns step-up details when
	// the account requires a second factor.
	Login(ctx context.Context, email, password string) (LoginResult, error)
	// VerifyLogin completes a step-up with a one-time code.
	VerifyLogin(ctx context.Context, userID, code string) (AuthResult, error)
}

// LoginResult is the backend answer to a password check.
type LoginResult struct {
	TwoFARequired bool
	UserID        string
	Auth          AuthResult
}

// --- HTTP backend ---

type httpBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend builds a Backend that POSTs JSON to baseURL. A nil client
// uses http.DefaultClient; timeouts are whatever that client enforces.
func NewHTTPBackend(baseURL string, client *http.Client) (Backend, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return unavailableBackend{}, nil
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend url must include a host, got %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return httpBackend{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

func (b httpBackend) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	err := b.post(ctx, loginPath, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return LoginResult{}, err
	}
	if resp.TwoFARequired {
		userID := string(resp.UserID)
		if userID == "" {
			return LoginResult{}, fmt.Errorf("backend requested two-factor without a user id")
		}
		return LoginResult{TwoFARequired: true, UserID: userID}, nil
	}
	auth, err := authResult(resp.Token, resp.User)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Auth: auth}, nil
}

func (b httpBackend) VerifyLogin(ctx context.Context, userID, code string) (AuthResult, error) {
	var resp verifyResponse
	err := b.post(ctx, verifyLoginPath, map[string]string{
		"userId": userID,
		"token":  code,
	}, &resp)
	if err != nil {
		return AuthResult{}, err
	}
	return authResult(resp.Token, resp.User)
}

func authResult(token string, user *wireUser) (AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthResult{}, fmt.Errorf("backend did not return an access token")
	}
	if user == nil {
		return AuthResult{}, fmt.Errorf("backend did not return a user")
	}
	u := user.toUser()
	if u.ID == "" {
		return AuthResult{}, fmt.Errorf("backend did not return a user id")
	}
	return AuthResult{Token: token, User: u}, nil
}

// BackendError is a non-2xx answer from the authentication backend.
type BackendError struct {
	StatusCode int
	// Message is the backend's own error text, possibly empty.
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// post sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses become *BackendError.
func (b httpBackend) post(ctx context.Context, path string, body any, out any) (err error) {
	ctx, span := tracer.Start(ctx, "POST "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "backend call failed")
		}
		span.End()
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(httpx.RequestIDHeader, requestID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		_ = json.Unmarshal(raw, &errBody)
		return &BackendError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(errBody.Message)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// --- Unavailable backend ---

type unavailableBackend struct{}

func (unavailableBackend) Login(context.Context, string, string) (LoginResult, error) {
	return LoginResult{}, apperrors.E(apperrors.KindUnavailable, backendUnavailableMessage)
}

func (unavailableBackend) VerifyLogin(context.Context, string, string) (AuthResult, error) {
	return AuthResult{}, apperrors.E(apperrors.KindUnavailable, backendUnavailableMessage)
}
