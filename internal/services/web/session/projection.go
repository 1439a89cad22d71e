// Package session maps sign-in results onto the persisted session token and
// derives the client-visible session from it.
package session

import (
	"time"

	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
)

// Token is the persisted session state carried inside the signed cookie.
type Token struct {
	ID          string
	Email       string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// User is the client-visible identity of a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the client-visible session object.
type Session struct {
	User        User      `json:"user"`
	AccessToken string    `json:"accessToken"`
	Expires     time.Time `json:"expires"`
}

// ProjectToken copies the identity and backend access token of user onto
// token. It runs with a user only on the first authorization; a nil user
// returns token unchanged, so repeated calls are no-ops.
func ProjectToken(token Token, user *credentials.User) Token {
	if user == nil {
		return token
	}
	token.ID = user.ID
	token.Email = user.Email
	token.AccessToken = user.AccessToken
	return token
}

// ProjectSession derives the client-visible session from token.
func ProjectSession(token Token) Session {
	return Session{
		User: User{
			ID:    token.ID,
			Email: token.Email,
		},
		AccessToken: token.AccessToken,
		Expires:     token.ExpiresAt.UTC(),
	}
}
