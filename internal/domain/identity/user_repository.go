package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user. Duplicate usernames or mobiles yield ErrAccountExists.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByAccount finds a user by username or mobile
	FindByAccount(ctx context.Context, account string) (*User, error)

	// CountByUsername counts users with the given username
	CountByUsername(ctx context.Context, username string) (int64, error)

	// CountByMobile counts users with the given mobile
	CountByMobile(ctx context.Context, mobile string) (int64, error)

	// UpdateLastLogin stamps the last login time
	UpdateLastLogin(ctx context.Context, user *User) error
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	Create(ctx context.Context, address *Address) error

	// FindByIDForUser returns a live address owned by userID, or ErrAddressNotFound
	FindByIDForUser(ctx context.Context, id, userID int64) (*Address, error)

	// ListByUser lists the live addresses of a user
	ListByUser(ctx context.Context, userID int64) ([]*Address, error)

	// CountByUser counts the live addresses of a user
	CountByUser(ctx context.Context, userID int64) (int64, error)

	// SoftDelete marks an address deleted
	SoftDelete(ctx context.Context, id, userID int64) error
}
