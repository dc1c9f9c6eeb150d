package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vibecommerce/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reQ     = regexp.MustCompile(`^[\p{L}0-9 _'.&-]{1,50}$`)

	v = validator.New(validator.WithRequiredStructEnabled())
)

const (
	MinPasswordLen = 6
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
	maxQ             = 50
)

// Struct runs the `validate` tags of s and reports any failure as a
// ValidationError carrying msg.
func Struct(s any, msg string) error {
	if err := v.Struct(s); err != nil {
		return domain.Validation(msg)
	}
	return nil
}

// Email trims and lowercases s and checks its shape.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > maxQ {
		s = string([]rune(s)[:maxQ])
	}
	return s, reQ.MatchString(s)
}

// ID validates a 24-hex document id.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, primitive.IsValidObjectID(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 100 {
		return "", false
	}
	return s, true
}

// Password checks length only: at least MinPasswordLen characters and no
// more than bcrypt accepts.
func Password(s string) error {
	switch {
	case len(s) < MinPasswordLen:
		return domain.Validation("Password must be at least 6 characters long")
	case len(s) > MaxPasswordBytes:
		return domain.Validation("Password must be at most 72 bytes")
	}
	return nil
}
