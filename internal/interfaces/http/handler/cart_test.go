package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	cartapp "github.com/mall/backend/internal/application/cart"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/catalog"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartUseCases is a mock implementation of CartUseCases
type MockCartUseCases struct {
	mock.Mock
}

func (m *MockCartUseCases) List(ctx context.Context, h *cartapp.Holder) ([]cartapp.SKUItemResponse, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cartapp.SKUItemResponse), args.Error(1)
}

func (m *MockCartUseCases) Put(ctx context.Context, h *cartapp.Holder, req cartapp.PutItemRequest) (*cartapp.ItemResponse, error) {
	args := m.Called(ctx, h, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.ItemResponse), args.Error(1)
}

func (m *MockCartUseCases) Delete(ctx context.Context, h *cartapp.Holder, req cartapp.DeleteItemRequest) error {
	return m.Called(ctx, h, req).Error(0)
}

func (m *MockCartUseCases) SelectAll(ctx context.Context, h *cartapp.Holder, selected bool) error {
	return m.Called(ctx, h, selected).Error(0)
}

func testCartCookie() CartCookie {
	return NewCartCookie(config.CartConfig{CookieName: "cart", CookieMaxAge: 24 * time.Hour})
}

func cartCookie(t *testing.T, c cart.Cart) *http.Cookie {
	t.Helper()
	value, err := cart.Encode(c)
	require.NoError(t, err)
	return &http.Cookie{Name: "cart", Value: value}
}

func responseCookie(w interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func newCartRouter(carts CartUseCases, userID int64) http.Handler {
	h := NewCartHandler(carts, testCartCookie())
	r := newTestRouter(userID)
	r.GET("/cart/", h.List)
	r.POST("/cart/", h.Add)
	r.PUT("/cart/", h.Update)
	r.DELETE("/cart/", h.Delete)
	r.PUT("/cart/selection/", h.Select)
	return r
}

func TestCartHandler_AnonymousAddRewritesCookie(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("Put", mock.Anything, mock.MatchedBy(func(h *cartapp.Holder) bool {
		return !h.Authenticated() && h.Cookie[3].Count == 1
	}), cartapp.PutItemRequest{SKUID: 5, Count: 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*cartapp.Holder).Cookie.Set(5, 2, true)
		}).
		Return(&cartapp.ItemResponse{SKUID: 5, Count: 2, Selected: true}, nil)

	existing := cart.New()
	existing.Set(3, 1, false)
	w := doJSON(newCartRouter(carts, 0), http.MethodPost, "/cart/", `{"sku_id":5,"count":2}`, cartCookie(t, existing))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"sku_id":5,"count":2,"selected":true}`, w.Body.String())

	ck := responseCookie(w, "cart")
	require.NotNil(t, ck)
	assert.Equal(t, 86400, ck.MaxAge)
	assert.True(t, ck.HttpOnly)

	written := cart.Decode(ck.Value)
	assert.Equal(t, cart.Entry{Count: 1, Selected: false}, written[3])
	assert.Equal(t, cart.Entry{Count: 2, Selected: true}, written[5])
}

func TestCartHandler_AuthenticatedDoesNotTouchCookie(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("Put", mock.Anything, &cartapp.Holder{UserID: 42}, mock.Anything).
		Return(&cartapp.ItemResponse{SKUID: 5, Count: 4, Selected: false}, nil)

	w := doJSON(newCartRouter(carts, 42), http.MethodPut, "/cart/", `{"sku_id":5,"count":4,"selected":false}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, responseCookie(w, "cart"))
	carts.AssertExpectations(t)
}

func TestCartHandler_Validation(t *testing.T) {
	carts := new(MockCartUseCases)
	r := newCartRouter(carts, 42)

	tests := []struct {
		name string
		body string
	}{
		{"zero count", `{"sku_id":5,"count":0}`},
		{"missing sku", `{"count":1}`},
		{"not json", `sku_id=5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/cart/", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w), "message")
		})
	}
	carts.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartHandler_UnknownSKU(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("Delete", mock.Anything, mock.Anything, cartapp.DeleteItemRequest{SKUID: 999}).Return(catalog.ErrSKUNotFound)

	w := doJSON(newCartRouter(carts, 42), http.MethodDelete, "/cart/", `{"sku_id":999}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SKU_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestCartHandler_DeleteAndSelect(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("Delete", mock.Anything, mock.Anything, cartapp.DeleteItemRequest{SKUID: 5}).Return(nil)
	carts.On("SelectAll", mock.Anything, mock.Anything, false).Return(nil)
	r := newCartRouter(carts, 42)

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/cart/", `{"sku_id":5}`).Code)

	w := doJSON(r, http.MethodPut, "/cart/selection/", `{"selected":false}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())

	w = doJSON(r, http.MethodPut, "/cart/selection/", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_StoreFailureIs500(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("redis: connection refused"))

	w := doJSON(newCartRouter(carts, 42), http.MethodGet, "/cart/", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "An unexpected error occurred", body["message"])
	assert.NotContains(t, w.Body.String(), "redis")
}

func TestCartHandler_ListAnonymousWithGarbageCookie(t *testing.T) {
	carts := new(MockCartUseCases)
	carts.On("List", mock.Anything, mock.MatchedBy(func(h *cartapp.Holder) bool {
		return h.Cookie != nil && h.Cookie.IsEmpty()
	})).Return([]cartapp.SKUItemResponse{}, nil)

	w := doJSON(newCartRouter(carts, 0), http.MethodGet, "/cart/", nil, &http.Cookie{Name: "cart", Value: "%%%not-base64"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
