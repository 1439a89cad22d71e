// Package storage declares persistence contracts owned by the web service.
//
// The web service never stores credentials; the only persisted data is the
// optional sign-in attempt audit trail.
package storage

import (
	"context"
	"time"
)

// AttemptOutcome labels how a sign-in attempt ended.
type AttemptOutcome string

const (
	AttemptAuthorized     AttemptOutcome = "authorized"
	AttemptStepUpRequired AttemptOutcome = "step_up_required"
	AttemptFailed         AttemptOutcome = "failed"
)

// AttemptMethod labels which credential branch an attempt used.
type AttemptMethod string

const (
	AttemptMethodPassword  AttemptMethod = "password"
	AttemptMethodTwoFactor AttemptMethod = "two_factor"
)

// LoginAttempt is one audited sign-in attempt. Subject is the submitted
// email for password attempts and the user id for two-factor attempts.
type LoginAttempt struct {
	ID         int64
	Method     AttemptMethod
	Outcome    AttemptOutcome
	Subject    string
	UserID     string
	Reason     string
	RemoteIP   string
	UserAgent  string
	RequestID  string
	OccurredAt time.Time
}

// LoginAttemptRecorder appends to the sign-in audit trail. The sign-in path
// only ever writes.
type LoginAttemptRecorder interface {
	RecordLoginAttempt(ctx context.Context, attempt LoginAttempt) error
}

// LoginAttemptStore is the full audit store owned by the server. List is the
// read path for operators inspecting recent attempts for a subject.
type LoginAttemptStore interface {
	LoginAttemptRecorder
	ListLoginAttempts(ctx context.Context, subject string, limit int) ([]LoginAttempt, error)
	Close() error
}
