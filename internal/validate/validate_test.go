package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/validate"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  John.Doe@Example.com ", "john.doe@example.com", true},
		{"a@b.c", "a@b.c", true},
		{"no-at-sign.com", "no-at-sign.com", false},
		{"a@b", "a@b", false},
		{"a b@c.d", "a b@c.d", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := validate.Email(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestPassword(t *testing.T) {
	err := validate.Password("12345")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Password must be at least 6 characters long", err.Error())

	require.NoError(t, validate.Password("123456"))
	require.NoError(t, validate.Password(strings.Repeat("a", validate.MaxPasswordBytes)))

	err = validate.Password(strings.Repeat("a", validate.MaxPasswordBytes+1))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Password must be at most 72 bytes", err.Error())

	// 25 three-byte runes: short in characters, too long for bcrypt.
	err = validate.Password(strings.Repeat("€", 25))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestName(t *testing.T) {
	got, ok := validate.Name("  Ann Lee ")
	assert.True(t, ok)
	assert.Equal(t, "Ann Lee", got)

	_, ok = validate.Name("   ")
	assert.False(t, ok)
	_, ok = validate.Name(strings.Repeat("x", 101))
	assert.False(t, ok)
	_, ok = validate.Name(strings.Repeat("é", 100))
	assert.True(t, ok)
}

func TestID(t *testing.T) {
	_, ok := validate.ID("507f1f77bcf86cd799439011")
	assert.True(t, ok)
	_, ok = validate.ID("not-an-id")
	assert.False(t, ok)
}

func TestQ(t *testing.T) {
	got, ok := validate.Q("  headphones ")
	assert.True(t, ok)
	assert.Equal(t, "headphones", got)

	_, ok = validate.Q("<script>")
	assert.False(t, ok)
}

func TestQ_TruncatesOnRuneBoundary(t *testing.T) {
	got, ok := validate.Q(strings.Repeat("é", 60))
	assert.True(t, ok)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 50), got)

	got, ok = validate.Q("a" + strings.Repeat("ü", 55))
	assert.True(t, ok)
	assert.Equal(t, 50, utf8.RuneCountInString(got))
}

func TestStruct(t *testing.T) {
	type in struct {
		Sort string `validate:"omitempty,oneof=price_asc price_desc name"`
	}
	require.NoError(t, validate.Struct(in{Sort: "name"}, "bad sort"))
	require.NoError(t, validate.Struct(in{}, "bad sort"))

	err := validate.Struct(in{Sort: "random"}, "bad sort")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "bad sort", err.Error())
}
