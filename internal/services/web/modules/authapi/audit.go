package authapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	"github.com/louisbranch/signin/internal/services/web/platform/httpx"
	"github.com/louisbranch/signin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/signin/internal/services/web/storage"
)

const maxUserAgentLength = 512

// recordAttempt appends the attempt to the audit trail when one is
// configured. Audit failures are logged and never change the response.
func (h handlers) recordAttempt(r *http.Request, creds credentials.Credentials, outcome credentials.Outcome) {
	if h.audit == nil {
		return
	}
	attempt := storage.LoginAttempt{
		Method:     storage.AttemptMethodPassword,
		Subject:    strings.TrimSpace(creds.Email),
		RemoteIP:   requestmeta.RemoteIP(r),
		UserAgent:  truncate(r.UserAgent(), maxUserAgentLength),
		RequestID:  httpx.RequestIDFrom(r),
		OccurredAt: h.nowFunc().UTC(),
	}
	if creds.IsTwoFactor() {
		attempt.Method = storage.AttemptMethodTwoFactor
		attempt.Subject = strings.TrimSpace(creds.UserID)
	}
	switch outcome.Kind {
	case credentials.OutcomeAuthorized:
		attempt.Outcome = storage.AttemptAuthorized
		attempt.UserID = outcome.User.ID
	case credentials.OutcomeStepUpRequired:
		attempt.Outcome = storage.AttemptStepUpRequired
		attempt.UserID = outcome.UserID
	default:
		attempt.Outcome = storage.AttemptFailed
		attempt.Reason = outcome.Message
	}

	ctx := context.WithoutCancel(r.Context())
	if err := h.audit.RecordLoginAttempt(ctx, attempt); err != nil {
		log.Printf("auth audit record failed request_id=%s err=%v", attempt.RequestID, err)
	}
}

// truncate caps value at limit bytes without splitting a UTF-8 sequence.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
