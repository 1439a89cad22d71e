package credentials

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "github.com/louisbranch/signin/internal/services/web/platform/errors"
)

// FallbackMessage is reported when a failed sign-in carries no backend text.
const FallbackMessage = "Login failed"

// Credentials is one sign-in submission. It holds either an email/password
// pair or a user id with a one-time code, and is never persisted.
type Credentials struct {
	Email      string
	Password   string
	UserID     string
	TwoFAToken string
}

// IsTwoFactor reports whether the submission completes a two-factor step-up.
// Both the user id and the code must be non-blank.
func (c Credentials) IsTwoFactor() bool {
	return strings.TrimSpace(c.UserID) != "" && strings.TrimSpace(c.TwoFAToken) != ""
}

// User is the backend user returned on a successful sign-in.
type User struct {
	ID    string
	Email string
	Name  string
	// AccessToken is the bearer token issued by the backend.
	AccessToken string
}

// AuthResult is a successful backend authentication payload.
type AuthResult struct {
	Token string
	User  User
}

// OutcomeKind enumerates the three sign-in results.
type OutcomeKind string

const (
	OutcomeAuthorized     OutcomeKind = "authorized"
	OutcomeStepUpRequired OutcomeKind = "step_up_required"
	OutcomeFailed         OutcomeKind = "failed"
)

// Outcome is the result of Authorize. Exactly one of User (authorized),
// UserID (step-up required), or Message (failed) is meaningful, as selected
// by Kind.
type Outcome struct {
	Kind    OutcomeKind
	User    User
	UserID  string
	Message string
}

// Authorized builds a successful outcome.
func Authorized(user User) Outcome {
	return Outcome{Kind: OutcomeAuthorized, User: user}
}

// StepUpRequired builds an outcome asking the caller to resubmit with a
// one-time code for userID.
func StepUpRequired(userID string) Outcome {
	return Outcome{Kind: OutcomeStepUpRequired, UserID: strings.TrimSpace(userID)}
}

// Failed builds a terminal failure. A blank message becomes FallbackMessage.
func Failed(message string) Outcome {
	message = strings.TrimSpace(message)
	if message == "" {
		message = FallbackMessage
	}
	return Outcome{Kind: OutcomeFailed, Message: message}
}

// Err converts a failed outcome into a typed web error; other outcomes
// return nil.
func (o Outcome) Err() error {
	if o.Kind != OutcomeFailed {
		return nil
	}
	return apperrors.E(apperrors.KindUnauthorized, o.Message)
}

// FlexibleID is an identifier that decodes from a JSON string or number.
// Backends disagree on whether user ids are numeric.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// wireUser is the backend JSON shape of a user.
type wireUser struct {
	ID       FlexibleID `json:"id"`
	MongoID  FlexibleID `json:"_id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Username string     `json:"username"`
}

func (w wireUser) toUser() User {
	id := string(w.ID)
	if id == "" {
		id = string(w.MongoID)
	}
	name := strings.TrimSpace(w.Name)
	if name == "" {
		name = strings.TrimSpace(w.Username)
	}
	return User{
		ID:    id,
		Email: strings.TrimSpace(w.Email),
		Name:  name,
	}
}

// loginResponse is the body of POST /api/auth/login.
type loginResponse struct {
	Token         string     `json:"token"`
	User          *wireUser  `json:"user"`
	TwoFARequired bool       `json:"twofaRequired"`
	UserID        FlexibleID `json:"userId"`
}

// verifyResponse is the body of POST /api/auth/2fa/verify-login.
type verifyResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

// errorResponse is the backend error body; only message is surfaced.
type errorResponse struct {
	Message string `json:"message"`
}
