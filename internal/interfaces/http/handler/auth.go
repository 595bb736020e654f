package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	identityapp "github.com/mall/backend/internal/application/identity"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AccountUseCases is the account application service as seen by the handler
type AccountUseCases interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.RegisterResponse, error)
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.LoginResponse, error)
	CountUsername(ctx context.Context, username string) (*identityapp.UsernameCountResponse, error)
	CountMobile(ctx context.Context, mobile string) (*identityapp.MobileCountResponse, error)
	Profile(ctx context.Context, userID int64) (*identityapp.ProfileResponse, error)
}

// CartMerger folds an anonymous cart into a user's stored cart
type CartMerger interface {
	Merge(ctx context.Context, userID int64, anonymous cart.Cart) (bool, error)
}

// AuthHandler serves sign-up, login and the profile
type AuthHandler struct {
	BaseHandler
	accounts AccountUseCases
	merger   CartMerger
	cookie   CartCookie
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountUseCases, merger CartMerger, cookie CartCookie) *AuthHandler {
	return &AuthHandler{accounts: accounts, merger: merger, cookie: cookie}
}

// Register handles POST /users/
// @Summary      Register a user
// @Description  Creates the account and returns a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Sign-up form"
// @Success      201 {object} identityapp.RegisterResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      409 {object} dto.ErrorBody
// @Failure      500 {object} dto.ErrorBody
// @Router       /users/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login handles POST /authorizations/. After a successful login the cart
// cookie is merged into the user's stored cart.
// @Summary      Log in
// @Description  Username also accepts a mobile number
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} identityapp.LoginResponse
// @Failure      400 {object} dto.ErrorBody
// @Failure      429 {object} dto.ErrorBody
// @Router       /authorizations/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.mergeCart(c, resp.UserID)
	h.OK(c, resp)
}

// mergeCart never fails the login. The cookie is only cleared once the
// merge has been applied, so a failed merge is retried on the next login.
func (h *AuthHandler) mergeCart(c *gin.Context, userID int64) {
	anonymous := h.cookie.Read(c)
	if anonymous.IsEmpty() {
		return
	}

	ctx := logger.WithUserID(c.Request.Context(), userID)
	merged, err := h.merger.Merge(ctx, userID, anonymous)
	if err != nil {
		logger.L(ctx).Warn("Cart merge failed, keeping cookie for the next login",
			zap.Int("lines", len(anonymous)),
			zap.Error(err),
		)
		return
	}
	if merged {
		h.cookie.Clear(c)
	}
}

// CountUsername handles GET /usernames/:username/count/
// @Summary      Count users with a username
// @Tags         users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} identityapp.UsernameCountResponse
// @Failure      500 {object} dto.ErrorBody
// @Router       /usernames/{username}/count/ [get]
func (h *AuthHandler) CountUsername(c *gin.Context) {
	resp, err := h.accounts.CountUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// CountMobile handles GET /mobiles/:mobile/count/
// @Summary      Count users with a mobile number
// @Tags         users
// @Produce      json
// @Param        mobile path string true "Mobile number"
// @Success      200 {object} identityapp.MobileCountResponse
// @Failure      500 {object} dto.ErrorBody
// @Router       /mobiles/{mobile}/count/ [get]
func (h *AuthHandler) CountMobile(c *gin.Context) {
	resp, err := h.accounts.CountMobile(c.Request.Context(), c.Param("mobile"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// Profile handles GET /user/
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Success      200 {object} identityapp.ProfileResponse
// @Failure      401 {object} dto.ErrorBody
// @Failure      404 {object} dto.ErrorBody
// @Security     BearerAuth
// @Router       /user/ [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	resp, err := h.accounts.Profile(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}
