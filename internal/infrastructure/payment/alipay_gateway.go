package payment

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

const (
	alipayGatewayURL        = "https://openapi.alipay.com/gateway.do"
	alipaySandboxGatewayURL = "https://openapi-sandbox.dl.alipaydev.com/gateway.do"
	alipayPagePayMethod     = "alipay.trade.page.pay"
	alipayProductCode       = "FAST_INSTANT_TRADE_PAY"
	alipaySignType          = "RSA2"
	alipayCharset           = "utf-8"
	alipayVersion           = "1.0"
	alipayTimeLayout        = "2006-01-02 15:04:05"
)

// ErrInvalidSignature is returned when a return query fails RSA2 verification
var ErrInvalidSignature = errors.New("alipay: signature verification failed")

// AlipayGateway signs page-pay URLs and verifies return redirects.
// It never calls Alipay itself; the browser carries both legs.
type AlipayGateway struct {
	config *AlipayConfig
	now    func() time.Time
}

// NewAlipayGateway creates a gateway from a validated config
func NewAlipayGateway(cfg *AlipayConfig) (*AlipayGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AlipayGateway{config: cfg, now: time.Now}, nil
}

// PagePayURL builds the signed alipay.trade.page.pay redirect URL
func (g *AlipayGateway) PagePayURL(_ context.Context, req trade.PagePayRequest) (string, error) {
	biz, err := json.Marshal(map[string]string{
		"out_trade_no": req.OrderID,
		"total_amount": req.Amount.StringFixed(2),
		"subject":      g.config.SubjectPrefix + req.OrderID,
		"product_code": alipayProductCode,
	})
	if err != nil {
		return "", err
	}

	params := map[string]string{
		"app_id":      g.config.AppID,
		"method":      alipayPagePayMethod,
		"charset":     alipayCharset,
		"sign_type":   alipaySignType,
		"timestamp":   g.now().Format(alipayTimeLayout),
		"version":     alipayVersion,
		"return_url":  g.config.ReturnURL,
		"notify_url":  g.config.NotifyURL,
		"biz_content": string(biz),
	}
	sig, err := g.sign(params)
	if err != nil {
		return "", err
	}
	params["sign"] = sig

	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return g.gatewayURL() + "?" + values.Encode(), nil
}

// VerifyReturn checks the RSA2 signature of the return query and extracts the trade
func (g *AlipayGateway) VerifyReturn(values url.Values) (*trade.ReturnResult, error) {
	sig := values.Get("sign")
	if sig == "" {
		return nil, ErrInvalidSignature
	}
	params := make(map[string]string, len(values))
	for k := range values {
		if k != "sign" && k != "sign_type" {
			params[k] = values.Get(k)
		}
	}
	if !g.verify(params, sig) {
		return nil, ErrInvalidSignature
	}

	res := &trade.ReturnResult{
		OrderID: values.Get("out_trade_no"),
		TradeID: values.Get("trade_no"),
	}
	if res.OrderID == "" || res.TradeID == "" {
		return nil, errors.New("alipay: return query lacks out_trade_no or trade_no")
	}
	if amt := values.Get("total_amount"); amt != "" {
		d, err := decimal.NewFromString(amt)
		if err != nil {
			return nil, err
		}
		res.Amount = d
	}
	return res, nil
}

func (g *AlipayGateway) gatewayURL() string {
	if g.config.IsSandbox {
		return alipaySandboxGatewayURL
	}
	return alipayGatewayURL
}

func (g *AlipayGateway) sign(params map[string]string) (string, error) {
	hash := sha256.Sum256([]byte(signContent(params)))
	sig, err := rsa.SignPKCS1v15(rand.Reader, g.config.PrivateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func (g *AlipayGateway) verify(params map[string]string, signature string) bool {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	hash := sha256.Sum256([]byte(signContent(params)))
	return rsa.VerifyPKCS1v15(g.config.AlipayPublicKey, crypto.SHA256, hash[:], raw) == nil
}

// signContent joins the non-empty params as k=v pairs in key order
func signContent(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" && k != "sign" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

var _ trade.PaymentGateway = (*AlipayGateway)(nil)
