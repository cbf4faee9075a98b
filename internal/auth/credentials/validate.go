package credentials

import (
	"strings"
	"unicode/utf8"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// MinPasswordLength applies to registration only.
const MinPasswordLength = 6

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

type Mode int

const (
	ModeRegister Mode = iota + 1
	ModeLogin
)

// ValidationError is a malformed-input failure. Message is safe to return
// to the client verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the shape of credentials for the given mode. Login does
// not re-check password length; a short password simply fails verification.
func Validate(c auth.Credentials, mode Mode) error {
	email := strings.TrimSpace(c.Email)
	name := strings.TrimSpace(c.Name)

	switch mode {
	case ModeRegister:
		if email == "" || c.Password == "" || name == "" {
			return &ValidationError{
				Field:   missingField(email, c.Password, name),
				Message: "email, password and name are required",
			}
		}
		if utf8.RuneCountInString(c.Password) < MinPasswordLength {
			return &ValidationError{
				Field:   "password",
				Message: "password must be at least 6 characters",
			}
		}
		if len(c.Password) > MaxPasswordBytes {
			return &ValidationError{
				Field:   "password",
				Message: "password must be at most 72 bytes",
			}
		}
	case ModeLogin:
		if email == "" || c.Password == "" {
			return &ValidationError{
				Field:   missingField(email, c.Password, "-"),
				Message: "email and password are required",
			}
		}
	default:
		return &ValidationError{Message: "unsupported validation mode"}
	}

	return nil
}

func missingField(email, password, name string) string {
	switch {
	case email == "":
		return "email"
	case password == "":
		return "password"
	case name == "":
		return "name"
	}
	return ""
}
