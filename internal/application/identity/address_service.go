package identity

import (
	"context"

	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AddressService manages delivery addresses
type AddressService struct {
	addressRepo identity.AddressRepository
	logger      *zap.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo identity.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addressRepo: addressRepo, logger: logger}
}

// List returns the user's live addresses
func (s *AddressService) List(ctx context.Context, userID int64) (*AddressListResponse, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &AddressListResponse{
		Limit:     identity.MaxAddressesPerUser,
		Addresses: make([]AddressResponse, len(addresses)),
	}
	for i, a := range addresses {
		resp.Addresses[i] = ToAddressResponse(a)
	}
	return resp, nil
}

// Create adds an address unless the user already has the maximum
func (s *AddressService) Create(ctx context.Context, userID int64, req CreateAddressRequest) (*AddressResponse, error) {
	count, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= identity.MaxAddressesPerUser {
		return nil, identity.ErrAddressLimit
	}

	address, err := identity.NewAddress(userID, identity.Address{
		Title:    req.Title,
		Receiver: req.Receiver,
		Province: req.Province,
		City:     req.City,
		District: req.District,
		Place:    req.Place,
		Mobile:   req.Mobile,
		Tel:      req.Tel,
		Email:    req.Email,
	})
	if err != nil {
		return nil, err
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to create address", zap.Error(err))
		return nil, err
	}

	resp := ToAddressResponse(address)
	return &resp, nil
}

// Delete soft-deletes one of the user's addresses
func (s *AddressService) Delete(ctx context.Context, userID, addressID int64) error {
	return s.addressRepo.SoftDelete(ctx, addressID, userID)
}
