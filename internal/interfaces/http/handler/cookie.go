package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mall/backend/internal/domain/cart"
	"github.com/mall/backend/internal/infrastructure/config"
)

// CartCookie reads and writes the anonymous cart cookie
type CartCookie struct {
	name   string
	maxAge time.Duration
	domain string
	secure bool
}

// NewCartCookie creates a CartCookie from the cart settings
func NewCartCookie(cfg config.CartConfig) CartCookie {
	return CartCookie{
		name:   cfg.CookieName,
		maxAge: cfg.CookieMaxAge,
		domain: cfg.CookieDomain,
		secure: cfg.CookieSecure,
	}
}

// Read returns the cart carried by the request. A missing or unreadable
// cookie is an empty cart.
func (k CartCookie) Read(c *gin.Context) cart.Cart {
	value, err := c.Cookie(k.name)
	if err != nil {
		return cart.New()
	}
	return cart.Decode(value)
}

// Write replaces the cookie with crt
func (k CartCookie) Write(c *gin.Context, crt cart.Cart) error {
	value, err := cart.Encode(crt)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(k.name, value, int(k.maxAge.Seconds()), "/", k.domain, k.secure, true)
	return nil
}

// Clear expires the cookie
func (k CartCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(k.name, "", -1, "/", k.domain, k.secure, true)
}
