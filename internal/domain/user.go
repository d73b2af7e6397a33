package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace an account belongs to.
// The role is fixed at registration and never changes.
type Role string

const (
	// RolePoster is an account that creates tasks and pays for work.
	RolePoster Role = "poster"

	// RoleExpert is an account that performs tasks and exposes
	// availability, skills and an hourly rate.
	RoleExpert Role = "expert"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RolePoster || r == RoleExpert
}

// User validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrInvalidHourlyRate   = errors.New("hourly rate cannot be negative")
	ErrInvalidUserRating   = errors.New("rating must be between 0 and 5")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account, either a poster or an expert.
// Expert-specific fields (skills, hourly rate, availability) are zero-valued
// for posters.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set transiently before hashing
	HashedPassword string    `json:"-"` // Never exposed in JSON
	Role           Role      `json:"role"`
	Bio            string    `json:"bio,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	Skills         []string  `json:"skills"`
	HourlyRate     float64   `json:"hourly_rate"`
	Rating         float64   `json:"rating"`
	CompletedTasks int       `json:"completed_tasks"`
	Available      bool      `json:"available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a generated ID and timestamps.
// The plaintext password is carried on the struct; the caller (the user
// store) is responsible for hashing it before persistence.
func NewUser(name, email, password string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		Role:      role,
		Skills:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that the user has consistent data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	if u.HourlyRate < 0 {
		return ErrInvalidHourlyRate
	}
	if u.Rating < 0 || u.Rating > 5 {
		return ErrInvalidUserRating
	}

	return nil
}

// IsExpert reports whether the account is an expert.
func (u *User) IsExpert() bool {
	return u.Role == RoleExpert
}

// HasSkill reports whether any of the given categories intersects the
// expert's skill tags. Matching is case-insensitive.
func (u *User) HasSkill(categories []string) bool {
	for _, c := range categories {
		for _, s := range u.Skills {
			if strings.EqualFold(c, s) {
				return true
			}
		}
	}
	return false
}

// validEmailFormat performs basic structural validation of an email
// address: a non-empty local part, an @, and a dotted domain.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
