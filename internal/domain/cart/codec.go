package cart

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Encode serialises a cart into the opaque cookie value
func Encode(c Cart) (string, error) {
	if c == nil {
		c = New()
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a cookie value. Malformed values decode to an empty cart,
// so a tampered or outdated cookie never blocks the caller.
func Decode(value string) Cart {
	value = strings.TrimSpace(value)
	if value == "" {
		return New()
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return New()
	}
	c := New()
	if err := json.Unmarshal(raw, &c); err != nil {
		return New()
	}
	return c.normalize()
}
