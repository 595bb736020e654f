package identity

import (
	"time"

	"github.com/mall/backend/internal/domain/identity"
)

// RegisterRequest is the body of POST /users/
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=5,max=20"`
	Password  string `json:"password" binding:"required,min=8,max=20"`
	Password2 string `json:"password2" binding:"required"`
	Mobile    string `json:"mobile" binding:"required,len=11"`
	Allow     string `json:"allow" binding:"required"`
}

// RegisterResponse is returned after sign-up, already logged in
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
	Token    string `json:"token"`
}

// LoginRequest is the body of POST /authorizations/. Username also accepts a mobile number.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UsernameCountResponse answers the username availability check
type UsernameCountResponse struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// MobileCountResponse answers the mobile availability check
type MobileCountResponse struct {
	Mobile string `json:"mobile"`
	Count  int64  `json:"count"`
}

// ProfileResponse is the body of GET /user/
type ProfileResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	EmailActive bool   `json:"email_active"`
}

// CreateAddressRequest is the body of POST /addresses/
type CreateAddressRequest struct {
	Title    string `json:"title" binding:"max=20"`
	Receiver string `json:"receiver" binding:"required,max=20"`
	Province string `json:"province" binding:"required"`
	City     string `json:"city" binding:"required"`
	District string `json:"district" binding:"required"`
	Place    string `json:"place" binding:"required,max=50"`
	Mobile   string `json:"mobile" binding:"required,len=11"`
	Tel      string `json:"tel" binding:"max=20"`
	Email    string `json:"email" binding:"omitempty,email,max=30"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Receiver string `json:"receiver"`
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
	Place    string `json:"place"`
	Mobile   string `json:"mobile"`
	Tel      string `json:"tel"`
	Email    string `json:"email"`
}

// AddressListResponse lists a user's addresses with the per-user limit
type AddressListResponse struct {
	Limit     int               `json:"limit"`
	Addresses []AddressResponse `json:"addresses"`
}

// ToAddressResponse converts a domain address
func ToAddressResponse(a *identity.Address) AddressResponse {
	return AddressResponse{
		ID:       a.ID,
		Title:    a.Title,
		Receiver: a.Receiver,
		Province: a.Province,
		City:     a.City,
		District: a.District,
		Place:    a.Place,
		Mobile:   a.Mobile,
		Tel:      a.Tel,
		Email:    a.Email,
	}
}
