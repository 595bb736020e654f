package trade

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
)

// PagePayRequest describes the order to pay
type PagePayRequest struct {
	OrderID string
	Amount  decimal.Decimal
}

// ReturnResult is the verified content of the buyer's return redirect
type ReturnResult struct {
	OrderID string
	TradeID string
	Amount  decimal.Decimal
}

// PaymentGateway builds payment redirects and verifies gateway returns
type PaymentGateway interface {
	PagePayURL(ctx context.Context, req PagePayRequest) (string, error)
	VerifyReturn(params url.Values) (*ReturnResult, error)
}
