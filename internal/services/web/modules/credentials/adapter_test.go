package credentials

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/signin/internal/services/web/platform/errors"
)

type backendStub struct {
	loginResult  LoginResult
	loginErr     error
	verifyResult AuthResult
	verifyErr    error

	loginCalls   int
	verifyCalls  int
	lastEmail    string
	lastPassword string
	lastUserID   string
	lastCode     string
}

func (s *backendStub) Login(_ context.Context, email, password string) (LoginResult, error) {
	s.loginCalls++
	s.lastEmail = email
	s.lastPassword = password
	return s.loginResult, s.loginErr
}

func (s *backendStub) VerifyLogin(_ context.Context, userID, code string) (AuthResult, error) {
	s.verifyCalls++
	s.lastUserID = userID
	s.lastCode = code
	return s.verifyResult, s.verifyErr
}

func TestAuthorizeDirectLoginCarriesAccessToken(t *testing.T) {
	t.Parallel()

	stub := &backendStub{loginResult: LoginResult{Auth: AuthResult{
		Token: "backend-token",
		User:  User{ID: "user-1", Email: "ada@example.com"},
	}}}
	outcome := NewAdapter(stub).Authorize(context.Background(), Credentials{Email: " ada@example.com ", Password: " secret "})

	if outcome.Kind != OutcomeAuthorized {
		t.Fatalf("kind = %q, want %q", outcome.Kind, OutcomeAuthorized)
	}
	if outcome.User.AccessToken != "backend-token" {
		t.Fatalf("access token = %q, want %q", outcome.User.AccessToken, "backend-token")
	}
	if outcome.User.ID != "user-1" {
		t.Fatalf("user id = %q, want %q", outcome.User.ID, "user-1")
	}
	if stub.lastEmail != "ada@example.com" {
		t.Fatalf("email = %q, want trimmed", stub.lastEmail)
	}
	if stub.lastPassword != " secret " {
		t.Fatalf("password = %q, want untouched", stub.lastPassword)
	}
	if stub.verifyCalls != 0 {
		t.Fatalf("verify calls = %d, want 0", stub.verifyCalls)
	}
}

func TestAuthorizeStepUpCarriesUserID(t *testing.T) {
	t.Parallel()

	stub := &backendStub{loginResult: LoginResult{TwoFARequired: true, UserID: "user-2"}}
	outcome := NewAdapter(stub).Authorize(context.Background(), Credentials{Email: "ada@example.com", Password: "secret"})

	if outcome.Kind != OutcomeStepUpRequired {
		t.Fatalf("kind = %q, want %q", outcome.Kind, OutcomeStepUpRequired)
	}
	if outcome.UserID != "user-2" {
		t.Fatalf("user id = %q, want %q", outcome.UserID, "user-2")
	}
	if outcome.User != (User{}) {
		t.Fatalf("user = %+v, want zero value", outcome.User)
	}
	if err := outcome.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil for step-up", err)
	}
}

func TestAuthorizeTwoFactorBranchSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		creds      Credentials
		wantVerify bool
	}{
		{name: "both present", creds: Credentials{UserID: "u", TwoFAToken: "123456"}, wantVerify: true},
		{name: "both present with email", creds: Credentials{Email: "a@b.c", Password: "p", UserID: "u", TwoFAToken: "123456"}, wantVerify: true},
		{name: "user id only", creds: Credentials{Email: "a@b.c", Password: "p", UserID: "u"}},
		{name: "code only", creds: Credentials{Email: "a@b.c", Password: "p", TwoFAToken: "123456"}},
		{name: "blank code", creds: Credentials{UserID: "u", TwoFAToken: "  "}},
		{name: "empty", creds: Credentials{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stub := &backendStub{
				loginResult:  LoginResult{Auth: AuthResult{Token: "t", User: User{ID: "u"}}},
				verifyResult: AuthResult{Token: "t", User: User{ID: "u"}},
			}
			NewAdapter(stub).Authorize(context.Background(), tc.creds)
			if tc.wantVerify {
				if stub.verifyCalls != 1 || stub.loginCalls != 0 {
					t.Fatalf("calls login=%d verify=%d, want verify only", stub.loginCalls, stub.verifyCalls)
				}
				return
			}
			if stub.loginCalls != 1 || stub.verifyCalls != 0 {
				t.Fatalf("calls login=%d verify=%d, want login only", stub.loginCalls, stub.verifyCalls)
			}
		})
	}
}

func TestAuthorizeTwoFactorSuccess(t *testing.T) {
	t.Parallel()

	stub := &backendStub{verifyResult: AuthResult{Token: "verified-token", User: User{ID: "user-3", Email: "grace@example.com"}}}
	outcome := NewAdapter(stub).Authorize(context.Background(), Credentials{UserID: " user-3 ", TwoFAToken: " 654321 "})

	if outcome.Kind != OutcomeAuthorized {
		t.Fatalf("kind = %q, want %q", outcome.Kind, OutcomeAuthorized)
	}
	if outcome.User.AccessToken != "verified-token" {
		t.Fatalf("access token = %q, want %q", outcome.User.AccessToken, "verified-token")
	}
	if stub.lastUserID != "user-3" || stub.lastCode != "654321" {
		t.Fatalf("verify args = (%q, %q), want trimmed", stub.lastUserID, stub.lastCode)
	}
}

func TestAuthorizeFailureMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stub  *backendStub
		creds Credentials
		want  string
	}{
		{
			name: "backend message",
			stub: &backendStub{loginErr: &BackendError{StatusCode: 401, Message: "Invalid email or password"}},
			want: "Invalid email or password",
		},
		{
			name: "backend without message",
			stub: &backendStub{loginErr: &BackendError{StatusCode: 500}},
			want: FallbackMessage,
		},
		{
			name: "wrapped backend message",
			stub: &backendStub{loginErr: errors.Join(errors.New("call"), &BackendError{StatusCode: 403, Message: "Account locked"})},
			want: "Account locked",
		},
		{
			name: "network error",
			stub: &backendStub{loginErr: errors.New("dial tcp: connection refused")},
			want: FallbackMessage,
		},
		{
			name:  "verify rejected",
			stub:  &backendStub{verifyErr: &BackendError{StatusCode: 400, Message: "Invalid 2FA code"}},
			creds: Credentials{UserID: "u", TwoFAToken: "000000"},
			want:  "Invalid 2FA code",
		},
		{
			name: "empty access token",
			stub: &backendStub{loginResult: LoginResult{Auth: AuthResult{User: User{ID: "u"}}}},
			want: FallbackMessage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			creds := tc.creds
			if creds == (Credentials{}) {
				creds = Credentials{Email: "ada@example.com", Password: "wrong"}
			}
			outcome := NewAdapter(tc.stub).Authorize(context.Background(), creds)
			if outcome.Kind != OutcomeFailed {
				t.Fatalf("kind = %q, want %q", outcome.Kind, OutcomeFailed)
			}
			if outcome.Message != tc.want {
				t.Fatalf("message = %q, want %q", outcome.Message, tc.want)
			}
			if got := apperrors.KindOf(outcome.Err()); got != apperrors.KindUnauthorized {
				t.Fatalf("Err() kind = %q, want %q", got, apperrors.KindUnauthorized)
			}
		})
	}
}

func TestNewAdapterNilBackendFails(t *testing.T) {
	t.Parallel()

	outcome := NewAdapter(nil).Authorize(context.Background(), Credentials{Email: "a@b.c", Password: "p"})
	if outcome.Kind != OutcomeFailed || outcome.Message != FallbackMessage {
		t.Fatalf("outcome = %+v, want fallback failure", outcome)
	}
}

func TestFailedBlankMessageUsesFallback(t *testing.T) {
	t.Parallel()

	if got := Failed("   ").Message; got != FallbackMessage {
		t.Fatalf("Failed(blank).Message = %q, want %q", got, FallbackMessage)
	}
}

func TestAdapterAvailable(t *testing.T) {
	t.Parallel()

	if NewAdapter(nil).Available() {
		t.Fatal("expected nil backend adapter to be unavailable")
	}
	if !NewAdapter(&backendStub{}).Available() {
		t.Fatal("expected stub backend adapter to be available")
	}
	var missing *Adapter
	if missing.Available() {
		t.Fatal("expected nil adapter to be unavailable")
	}
}
