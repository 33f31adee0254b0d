// Package fixtures generates throwaway form data for signup scenarios.
package fixtures

import (
	"math/rand/v2"
	"strings"

	"github.com/khawajarafayy/Texmage/internal/common"
)

const (
	lowerDigits  = "abcdefghijklmnopqrstuvwxyz0123456789"
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Credentials is a name/email/password triple typed into the auth forms
type Credentials struct {
	Name     string
	Email    string
	Password string
}

func randomString(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// RandomEmail returns test_<8 lowercase alphanumerics>@example.com
func RandomEmail() string {
	return "test_" + randomString(lowerDigits, 8) + "@example.com"
}

// RandomName returns TestUser_<6 alphanumerics>
func RandomName() string {
	return "TestUser_" + randomString(alphanumeric, 6)
}

// Fixed returns the stable credentials from configuration
func Fixed(cfg *common.Config) Credentials {
	return Credentials{
		Name:     cfg.Fixtures.Name,
		Email:    cfg.Fixtures.Email,
		Password: cfg.Fixtures.Password,
	}
}

// NewSignup returns a fresh random identity with the configured password
func NewSignup(cfg *common.Config) Credentials {
	return Credentials{
		Name:     RandomName(),
		Email:    RandomEmail(),
		Password: cfg.Fixtures.Password,
	}
}
