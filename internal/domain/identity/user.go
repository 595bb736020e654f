package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/mall/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{5,20}$`)
	mobilePattern   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a registered shopper
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Mobile       string
	Email        string
	EmailActive  bool
	IsActive     bool
	LastLogin    *time.Time
}

// NewUser validates the registration fields and hashes the password
func NewUser(username, password, mobile string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateMobile(mobile); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: hash,
		Mobile:       mobile,
		IsActive:     true,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetEmail sets an unverified email address
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) || len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	u.Email = email
	u.EmailActive = false
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLogin = &now
}

// ValidateUsername checks the username format. Pure digit usernames are
// rejected so they cannot be confused with mobile numbers at login.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be 5-20 letters, digits, underscores or hyphens")
	}
	if mobilePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be a mobile number")
	}
	return nil
}

// ValidateMobile checks the mobile number format
func ValidateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return shared.NewDomainError("INVALID_MOBILE", "Invalid mobile number")
	}
	return nil
}

// IsMobile reports whether the account identifier looks like a mobile number
func IsMobile(account string) bool {
	return mobilePattern.MatchString(account)
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be 8-20 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
