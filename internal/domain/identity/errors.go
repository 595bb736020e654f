package identity

import "github.com/mall/backend/internal/domain/shared"

var (
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrAccountExists      = shared.NewDomainError("ALREADY_EXISTS", "Username or mobile is already registered")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrAddressNotFound    = shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
	ErrAddressLimit       = shared.NewDomainError("ADDRESS_LIMIT", "Address count exceeds the limit")
)
