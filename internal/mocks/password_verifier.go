package mocks

import (
	"errors"

	"github.com/taskbooking/taskbooking-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by the default Compare on mismatch.
var ErrPasswordMismatch = errors.New("password does not match")

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// CompareFn overrides the default behavior
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// NewMockPasswordVerifier creates a mock that accepts the convention
// used by MockUserStore, where hashes are "hashed:" + plaintext.
func NewMockPasswordVerifier() *MockPasswordVerifier {
	return &MockPasswordVerifier{}
}

// Compare implements the PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return ErrPasswordMismatch
}
