package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
)

const maxSubmissionBytes = 64 << 10

var errUnsupportedMediaType = errors.New("unsupported content type")

// submission is one decoded sign-in callback body.
type submission struct {
	creds       credentials.Credentials
	callbackURL string
}

type jsonSubmission struct {
	Email       string                 `json:"email"`
	Password    string                 `json:"password"`
	TwoFAToken  string                 `json:"twoFAToken"`
	UserID      credentials.FlexibleID `json:"userId"`
	CallbackURL string                 `json:"callbackUrl"`
}

// decodeSubmission reads a JSON or form-encoded callback body.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

	mediaType := "application/x-www-form-urlencoded"
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return submission{}, fmt.Errorf("parse content type: %w", err)
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		var body jsonSubmission
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return submission{}, fmt.Errorf("decode json body: %w", err)
		}
		return submission{
			creds: credentials.Credentials{
				Email:      body.Email,
				Password:   body.Password,
				UserID:     string(body.UserID),
				TwoFAToken: body.TwoFAToken,
			},
			callbackURL: body.CallbackURL,
		}, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxSubmissionBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return submission{}, fmt.Errorf("parse form body: %w", err)
		}
		return submission{
			creds: credentials.Credentials{
				Email:      r.PostFormValue("email"),
				Password:   r.PostFormValue("password"),
				UserID:     r.PostFormValue("userId"),
				TwoFAToken: r.PostFormValue("twoFAToken"),
			},
			callbackURL: r.PostFormValue("callbackUrl"),
		}, nil
	default:
		return submission{}, errUnsupportedMediaType
	}
}
