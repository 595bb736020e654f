package identity

import (
	"context"
	"errors"

	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/infrastructure/auth"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	ErrPasswordMismatch = shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	ErrTermsNotAccepted = shared.NewDomainError("TERMS_NOT_ACCEPTED", "The user agreement must be accepted")
)

// AuthService handles registration and login
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an account and logs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Password != req.Password2 {
		return nil, ErrPasswordMismatch
	}
	if req.Allow != "true" {
		return nil, ErrTermsNotAccepted
	}

	// The unique indexes still reject a concurrent registration
	if n, err := s.userRepo.CountByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, identity.ErrAccountExists
	}
	if n, err := s.userRepo.CountByMobile(ctx, req.Mobile); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, identity.ErrAccountExists
	}

	user, err := identity.NewUser(req.Username, req.Password, req.Mobile)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, identity.ErrAccountExists) {
			logger.Ctx(ctx, s.logger).Error("Failed to create user", zap.Error(err))
		}
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	logger.Ctx(ctx, s.logger).Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Mobile:   user.Mobile,
		Token:    token.Token,
	}, nil
}

// Login authenticates by username or mobile number and issues a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.Ctx(ctx, s.logger)

	user, err := s.userRepo.FindByAccount(ctx, req.Username)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			log.Warn("Login for unknown account", zap.String("account", req.Username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	user.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, user); err != nil {
		// Don't fail the login - just log the error
		log.Error("Failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	log.Info("User logged in", zap.Int64("user_id", user.ID))
	return &LoginResponse{
		Token:     token.Token,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// CountUsername reports how many accounts use username
func (s *AuthService) CountUsername(ctx context.Context, username string) (*UsernameCountResponse, error) {
	n, err := s.userRepo.CountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &UsernameCountResponse{Username: username, Count: n}, nil
}

// CountMobile reports how many accounts use mobile
func (s *AuthService) CountMobile(ctx context.Context, mobile string) (*MobileCountResponse, error) {
	if err := identity.ValidateMobile(mobile); err != nil {
		return nil, err
	}
	n, err := s.userRepo.CountByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	return &MobileCountResponse{Mobile: mobile, Count: n}, nil
}

// Profile returns the account details of userID
func (s *AuthService) Profile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Mobile:      user.Mobile,
		Email:       user.Email,
		EmailActive: user.EmailActive,
	}, nil
}
