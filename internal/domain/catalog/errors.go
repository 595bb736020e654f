package catalog

import "github.com/mall/backend/internal/domain/shared"

var (
	ErrSKUNotFound  = shared.NewDomainError("SKU_NOT_FOUND", "SKU does not exist")
	ErrInvalidCount = shared.NewDomainError("INVALID_COUNT", "Count must be at least 1")
)
