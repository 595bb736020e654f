package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "github.com/mall/backend/docs"
	areaapp "github.com/mall/backend/internal/application/area"
	cartapp "github.com/mall/backend/internal/application/cart"
	catalogapp "github.com/mall/backend/internal/application/catalog"
	identityapp "github.com/mall/backend/internal/application/identity"
	tradeapp "github.com/mall/backend/internal/application/trade"
	"github.com/mall/backend/internal/domain/area"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/domain/identity"
	"github.com/mall/backend/internal/domain/trade"
	"github.com/mall/backend/internal/infrastructure/auth"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/interfaces/http/dto"
	"github.com/mall/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubServices answers every use case with an empty success
type stubServices struct{}

func (stubServices) List(context.Context, *cartapp.Holder) ([]cartapp.SKUItemResponse, error) {
	return []cartapp.SKUItemResponse{}, nil
}

func (stubServices) Put(_ context.Context, _ *cartapp.Holder, req cartapp.PutItemRequest) (*cartapp.ItemResponse, error) {
	return &cartapp.ItemResponse{SKUID: req.SKUID, Count: req.Count, Selected: true}, nil
}

func (stubServices) Delete(context.Context, *cartapp.Holder, cartapp.DeleteItemRequest) error {
	return nil
}

func (stubServices) SelectAll(context.Context, *cartapp.Holder, bool) error { return nil }

func (stubServices) Register(context.Context, identityapp.RegisterRequest) (*identityapp.RegisterResponse, error) {
	return &identityapp.RegisterResponse{}, nil
}

func (stubServices) Login(context.Context, identityapp.LoginRequest) (*identityapp.LoginResponse, error) {
	return nil, identity.ErrInvalidCredentials
}

func (stubServices) CountUsername(_ context.Context, u string) (*identityapp.UsernameCountResponse, error) {
	return &identityapp.UsernameCountResponse{Username: u}, nil
}

func (stubServices) CountMobile(_ context.Context, m string) (*identityapp.MobileCountResponse, error) {
	return &identityapp.MobileCountResponse{Mobile: m}, nil
}

func (stubServices) Profile(_ context.Context, id int64) (*identityapp.ProfileResponse, error) {
	return &identityapp.ProfileResponse{ID: id}, nil
}

func (stubServices) Merge(context.Context, int64, cart.Cart) (bool, error) { return false, nil }

func (stubServices) ListByCategory(context.Context, int64, catalogapp.ListSKUsQuery) (*catalogapp.SKUPage, error) {
	return &catalogapp.SKUPage{}, nil
}

func (stubServices) PlaceOrder(context.Context, tradeapp.PlaceOrderCommand) (*trade.OrderInfo, error) {
	return &trade.OrderInfo{OrderID: "1"}, nil
}

func (stubServices) Get(context.Context, int64) (*tradeapp.SettlementResponse, error) {
	return &tradeapp.SettlementResponse{}, nil
}

func (stubServices) PaymentURL(context.Context, string, int64) (*tradeapp.PaymentURLResponse, error) {
	return &tradeapp.PaymentURLResponse{}, nil
}

func (stubServices) ConfirmReturn(context.Context, url.Values) (*tradeapp.PaymentStatusResponse, error) {
	return &tradeapp.PaymentStatusResponse{TradeID: "t"}, nil
}

type stubAddresses struct{}

func (stubAddresses) List(context.Context, int64) (*identityapp.AddressListResponse, error) {
	return &identityapp.AddressListResponse{}, nil
}

func (stubAddresses) Create(context.Context, int64, identityapp.CreateAddressRequest) (*identityapp.AddressResponse, error) {
	return &identityapp.AddressResponse{}, nil
}

func (stubAddresses) Delete(context.Context, int64, int64) error { return nil }

type stubAreas struct{}

func (stubAreas) ListProvinces(context.Context) ([]areaapp.AreaResponse, error) {
	return []areaapp.AreaResponse{{ID: 440000, Name: "Guangdong"}}, nil
}

func (stubAreas) Get(_ context.Context, id int64) (*areaapp.AreaDetailResponse, error) {
	if id != 440000 {
		return nil, area.ErrAreaNotFound
	}
	return &areaapp.AreaDetailResponse{ID: id, Name: "Guangdong", Subs: []areaapp.AreaResponse{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "mall"},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"http://www.mall.site:8080"},
			CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowHeaders: []string{"Authorization", "Content-Type"},
		},
		JWT: config.JWTConfig{Secret: "router-test-secret-at-least-32-chars", AccessTokenExpiration: time.Hour, Issuer: "mall-test"},
	}
}

func newTestEngine(t *testing.T) (*Engine, *auth.JWTService) {
	t.Helper()
	return newTestEngineWith(t, testConfig())
}

func newTestEngineWith(t *testing.T, cfg *config.Config) (*Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(cfg.JWT)
	cookie := handler.NewCartCookie(config.CartConfig{CookieName: "cart", CookieMaxAge: time.Hour})
	svc := stubServices{}

	e, err := New(Options{Config: cfg, Logger: zap.NewNop(), Tokens: jwtService}, Handlers{
		Cart:    handler.NewCartHandler(svc, cookie),
		Auth:    handler.NewAuthHandler(svc, svc, cookie),
		Address: handler.NewAddressHandler(stubAddresses{}),
		Area:    handler.NewAreaHandler(stubAreas{}),
		SKU:     handler.NewSKUHandler(svc),
		Order:   handler.NewOrderHandler(svc, svc, svc),
		Health:  handler.NewHealthHandler(map[string]handler.HealthCheck{}),
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, jwtService
}

func serve(e http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestNew_Routes(t *testing.T) {
	e, jwtService := newTestEngine(t)
	issued, err := jwtService.GenerateToken(42, "shopper01")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"anonymous cart", http.MethodGet, "/cart/", "", http.StatusOK},
		{"logged-in cart", http.MethodGet, "/cart/", issued.Token, http.StatusOK},
		{"sku listing", http.MethodGet, "/categories/115/skus/", "", http.StatusOK},
		{"provinces", http.MethodGet, "/areas/", "", http.StatusOK},
		{"area detail", http.MethodGet, "/areas/440000/", "", http.StatusOK},
		{"unknown area", http.MethodGet, "/areas/1/", "", http.StatusNotFound},
		{"username count", http.MethodGet, "/usernames/shopper01/count/", "", http.StatusOK},
		{"mobile count", http.MethodGet, "/mobiles/13800138000/count/", "", http.StatusOK},
		{"profile needs auth", http.MethodGet, "/user/", "", http.StatusUnauthorized},
		{"profile", http.MethodGet, "/user/", issued.Token, http.StatusOK},
		{"addresses need auth", http.MethodGet, "/addresses/", "", http.StatusUnauthorized},
		{"addresses", http.MethodGet, "/addresses/", issued.Token, http.StatusOK},
		{"delete address", http.MethodDelete, "/addresses/3/", issued.Token, http.StatusNoContent},
		{"settlement needs auth", http.MethodGet, "/orders/settlement/", "", http.StatusUnauthorized},
		{"settlement", http.MethodGet, "/orders/settlement/", issued.Token, http.StatusOK},
		{"payment url", http.MethodGet, "/orders/1/payment/", issued.Token, http.StatusOK},
		{"payment status is public", http.MethodPut, "/payment/status/?out_trade_no=1", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope/", "", http.StatusNotFound},
		{"api docs off by default", http.MethodGet, "/swagger/index.html", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(e, tc.method, tc.path, tc.token)
			assert.Equal(t, tc.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNew_LoginRateLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	body := `{"username":"shopper01","password":"password123"}`

	for i := 0; i < loginRateLimit; i++ {
		req := httptest.NewRequest(http.MethodPost, "/authorizations/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "attempt %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/authorizations/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestNew_CORSPreflight(t *testing.T) {
	e, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/cart/", nil)
	req.Header.Set("Origin", "http://www.mall.site:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://www.mall.site:8080", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestNew_SwaggerDocs(t *testing.T) {
	t.Run("enabled serves the UI and the document", func(t *testing.T) {
		cfg := testConfig()
		cfg.Swagger.Enabled = true
		e, _ := newTestEngineWith(t, cfg)

		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/swagger/index.html", "").Code)

		w := serve(e, http.MethodGet, "/swagger/doc.json", "")
		require.Equal(t, http.StatusOK, w.Code)
		var doc struct {
			Info struct {
				Title string `json:"title"`
			} `json:"info"`
			Paths map[string]json.RawMessage `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "Mall Backend API", doc.Info.Title)
		assert.Contains(t, doc.Paths, "/cart/")
		assert.Contains(t, doc.Paths, "/orders/")
		assert.Contains(t, doc.Paths, "/areas/{id}/")
	})

	t.Run("require_auth reuses the access token check", func(t *testing.T) {
		cfg := testConfig()
		cfg.Swagger.Enabled = true
		cfg.Swagger.RequireAuth = true
		e, jwtService := newTestEngineWith(t, cfg)

		w := serve(e, http.MethodGet, "/swagger/index.html", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		var body dto.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Code)

		issued, err := jwtService.GenerateToken(42, "shopper01")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/swagger/index.html", issued.Token).Code)
	})
}
