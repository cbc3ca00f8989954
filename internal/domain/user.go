package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// phoneRegex matches international phone numbers: a leading +, a 1-3 digit
// country code, and 9-15 further digits.
var phoneRegex = regexp.MustCompile(`^\+\d{1,3}\d{9,15}$`)

// User represents a registered account. Tasks belong to exactly one user
// and are removed when the account is deleted.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Region         string    `json:"region,omitempty"`     // Free-text locale/timezone identifier
	AvatarURL      string    `json:"avatar_url,omitempty"` // Optional image reference
	Password       string    `json:"-"`                    // Plaintext, only set transiently during registration/updates
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a generated ID and creation timestamps.
// The plaintext password is carried on the struct; the caller is
// responsible for hashing it before the user is persisted.
// Returns a ValidationError if any field is invalid.
func NewUser(username, email, password, phone, region string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Region:    strings.TrimSpace(region),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns a ValidationError naming the offending field on failure.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Username == "" {
		return NewValidationError("username", "cannot be empty", nil)
	}

	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if !validEmail(u.Email) {
		return NewValidationError("email", "is not a valid email address", ErrInvalidEmail)
	}

	if err := ValidatePhone(u.Phone); err != nil {
		return err
	}

	// Either a plaintext password (pre-hashing) or a stored hash must be
	// present; existing rows loaded from the store only carry the hash.
	if u.Password == "" && u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", nil)
	}

	return nil
}

// ValidatePhone checks that a phone number uses the international format
// +<country><number> with a 1-3 digit country code and 9-15 further digits.
func ValidatePhone(phone string) error {
	if phone == "" {
		return NewValidationError("phone", "cannot be empty", nil)
	}
	if !strings.HasPrefix(phone, "+") {
		return NewValidationError(
			"phone",
			"must use the international format beginning with +",
			ErrInvalidPhone,
		)
	}
	if !phoneRegex.MatchString(phone) {
		return NewValidationError(
			"phone",
			"must match +<country code><number> with 10-18 digits",
			ErrInvalidPhone,
		)
	}
	return nil
}

// validEmail performs a light structural check: one @ with a dotted domain.
// Uniqueness and deliverability are enforced elsewhere.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
