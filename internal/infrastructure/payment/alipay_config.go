package payment

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/mall/backend/internal/infrastructure/config"
)

// AlipayConfig holds the parsed credentials for the Alipay open platform
type AlipayConfig struct {
	AppID           string
	PrivateKey      *rsa.PrivateKey
	AlipayPublicKey *rsa.PublicKey
	IsSandbox       bool
	ReturnURL       string
	NotifyURL       string
	SubjectPrefix   string
}

// Errors for configuration validation
var (
	ErrAlipayMissingAppID      = errors.New("alipay: missing app ID")
	ErrAlipayMissingPrivateKey = errors.New("alipay: missing private key")
	ErrAlipayInvalidPrivateKey = errors.New("alipay: invalid private key format")
	ErrAlipayMissingPublicKey  = errors.New("alipay: missing Alipay public key")
	ErrAlipayInvalidPublicKey  = errors.New("alipay: invalid Alipay public key format")
	ErrAlipayMissingReturnURL  = errors.New("alipay: missing return URL")
)

// Validate checks that every field needed for page pay is present
func (c *AlipayConfig) Validate() error {
	switch {
	case c.AppID == "":
		return ErrAlipayMissingAppID
	case c.PrivateKey == nil:
		return ErrAlipayMissingPrivateKey
	case c.AlipayPublicKey == nil:
		return ErrAlipayMissingPublicKey
	case c.ReturnURL == "":
		return ErrAlipayMissingReturnURL
	}
	return nil
}

// AlipayConfigBuilder accumulates settings and remembers the first error
type AlipayConfigBuilder struct {
	config AlipayConfig
	err    error
}

// NewAlipayConfigBuilder creates a new config builder
func NewAlipayConfigBuilder() *AlipayConfigBuilder {
	return &AlipayConfigBuilder{}
}

// FromSettings loads the app id, urls and key files named in the alipay config section
func FromSettings(s config.AlipayConfig) (*AlipayConfig, error) {
	return NewAlipayConfigBuilder().
		SetAppID(s.AppID).
		SetPrivateKeyFromFile(s.PrivateKeyPath).
		SetAlipayPublicKeyFromFile(s.AlipayPublicKeyPath).
		SetIsSandbox(s.Sandbox).
		SetReturnURL(s.ReturnURL).
		SetNotifyURL(s.NotifyURL).
		SetSubjectPrefix(s.SubjectPrefix).
		Build()
}

// SetAppID sets the app ID
func (b *AlipayConfigBuilder) SetAppID(appID string) *AlipayConfigBuilder {
	b.config.AppID = appID
	return b
}

// SetPrivateKeyFromPEM parses a PKCS8 or PKCS1 RSA private key
func (b *AlipayConfigBuilder) SetPrivateKeyFromPEM(pemStr string) *AlipayConfigBuilder {
	if b.err != nil {
		return b
	}
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		b.err = ErrAlipayInvalidPrivateKey
		return b
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			b.err = ErrAlipayInvalidPrivateKey
			return b
		}
		b.config.PrivateKey = rsaKey
		return b
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		b.err = fmt.Errorf("%w: %v", ErrAlipayInvalidPrivateKey, err)
		return b
	}
	b.config.PrivateKey = rsaKey
	return b
}

// SetPrivateKeyFromFile reads the private key PEM from path
func (b *AlipayConfigBuilder) SetPrivateKeyFromFile(path string) *AlipayConfigBuilder {
	if b.err != nil {
		return b
	}
	data, err := os.ReadFile(path)
	if err != nil {
		b.err = fmt.Errorf("alipay: failed to read private key file: %w", err)
		return b
	}
	return b.SetPrivateKeyFromPEM(string(data))
}

// SetAlipayPublicKeyFromPEM parses Alipay's PKIX public key
func (b *AlipayConfigBuilder) SetAlipayPublicKeyFromPEM(pemStr string) *AlipayConfigBuilder {
	if b.err != nil {
		return b
	}
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		b.err = ErrAlipayInvalidPublicKey
		return b
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		b.err = fmt.Errorf("%w: %v", ErrAlipayInvalidPublicKey, err)
		return b
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		b.err = ErrAlipayInvalidPublicKey
		return b
	}
	b.config.AlipayPublicKey = rsaKey
	return b
}

// SetAlipayPublicKeyFromFile reads Alipay's public key PEM from path
func (b *AlipayConfigBuilder) SetAlipayPublicKeyFromFile(path string) *AlipayConfigBuilder {
	if b.err != nil {
		return b
	}
	data, err := os.ReadFile(path)
	if err != nil {
		b.err = fmt.Errorf("alipay: failed to read public key file: %w", err)
		return b
	}
	return b.SetAlipayPublicKeyFromPEM(string(data))
}

// SetIsSandbox switches to the sandbox gateway
func (b *AlipayConfigBuilder) SetIsSandbox(isSandbox bool) *AlipayConfigBuilder {
	b.config.IsSandbox = isSandbox
	return b
}

// SetReturnURL sets where the buyer's browser lands after paying
func (b *AlipayConfigBuilder) SetReturnURL(u string) *AlipayConfigBuilder {
	b.config.ReturnURL = u
	return b
}

// SetNotifyURL sets the asynchronous notification URL
func (b *AlipayConfigBuilder) SetNotifyURL(u string) *AlipayConfigBuilder {
	b.config.NotifyURL = u
	return b
}

// SetSubjectPrefix sets the text prepended to the order id in the payment subject
func (b *AlipayConfigBuilder) SetSubjectPrefix(prefix string) *AlipayConfigBuilder {
	b.config.SubjectPrefix = prefix
	return b
}

// Build validates and returns the config
func (b *AlipayConfigBuilder) Build() (*AlipayConfig, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return &b.config, nil
}
