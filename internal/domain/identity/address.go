package identity

import (
	"strings"
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// MaxAddressesPerUser caps how many live addresses a user may keep
const MaxAddressesPerUser = 20

// Address is a delivery address owned by a user
type Address struct {
	shared.BaseEntity
	UserID    int64
	Title     string
	Receiver  string
	Province  string
	City      string
	District  string
	Place     string
	Mobile    string
	Tel       string
	Email     string
	IsDeleted bool
}

// NewAddress validates and builds a new address for userID
func NewAddress(userID int64, a Address) (*Address, error) {
	a.Receiver = strings.TrimSpace(a.Receiver)
	a.Place = strings.TrimSpace(a.Place)
	if a.Receiver == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Receiver is required")
	}
	if a.Province == "" || a.City == "" || a.District == "" || a.Place == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Province, city, district and place are required")
	}
	if err := ValidateMobile(a.Mobile); err != nil {
		return nil, err
	}
	if a.Title == "" {
		a.Title = a.Receiver
	}
	a.BaseEntity = shared.NewBaseEntity()
	a.UserID = userID
	a.IsDeleted = false
	return &a, nil
}

// BelongsTo reports whether the address is live and owned by userID
func (a *Address) BelongsTo(userID int64) bool {
	return a.UserID == userID && !a.IsDeleted
}

// SoftDelete hides the address from listings and checkout
func (a *Address) SoftDelete() {
	a.IsDeleted = true
	a.UpdatedAt = time.Now()
}
