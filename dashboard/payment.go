package dashboard

import (
	"context"
	"strconv"

	"github.com/bizzai/go-session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/tidwall/gjson"
)

const (
	PaymentCreatePath = "/api/payment/create"
	PaymentVerifyPath = "/api/payment/verify"
)

// PaymentOrderRequest asks for a checkout order. Amount is in major units.
type PaymentOrderRequest struct {
	Tier     string
	Amount   int64
	Currency string
}

// Validate will validate the payload
func (r PaymentOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tier, validation.Required),
		validation.Field(&r.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Currency, validation.Required, validation.Length(3, 3)),
	)
}

// PaymentOrder is the order created by the payment service.
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderPayload struct {
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	BusinessID string            `json:"BusinessId"`
	Notes      map[string]string `json:"notes"`
}

// CreatePaymentOrder creates an order for the current business. The amount
// is sent in minor units.
func (c *Client) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (*PaymentOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err, "payment order")
	}

	identity, ok := c.currentIdentity()
	if !ok {
		return nil, session.ErrNotAuthenticated
	}

	businessID := identity.BusinessID()
	payload := orderPayload{
		Amount:     req.Amount * 100,
		Currency:   req.Currency,
		Receipt:    req.Tier + "-" + strconv.FormatInt(c.now().UnixMilli(), 10),
		BusinessID: businessID,
		Notes:      map[string]string{"BusinessId": businessID},
	}

	resp, err := c.post(ctx, c.api, call{
		op:       "payment.create",
		path:     PaymentCreatePath,
		body:     payload,
		fallback: FallbackCreateOrder,
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	orderID := gjson.GetBytes(body, "orderId").String()
	if orderID == "" {
		orderID = gjson.GetBytes(body, "id").String()
	}

	return &PaymentOrder{
		OrderID:  orderID,
		Amount:   payload.Amount,
		Currency: payload.Currency,
		Receipt:  payload.Receipt,
	}, nil
}

// PaymentVerification carries the checkout callback values.
type PaymentVerification struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

// Validate will validate the payload
func (v PaymentVerification) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.PaymentID, validation.Required),
		validation.Field(&v.OrderID, validation.Required),
		validation.Field(&v.Signature, validation.Required),
	)
}

type verifyPayload struct {
	PaymentVerification
	BusinessID string `json:"businessId"`
}

// VerifyPayment asks the payment service to check the checkout signature.
func (c *Client) VerifyPayment(ctx context.Context, v PaymentVerification) error {
	if err := v.Validate(); err != nil {
		return validationError(err, "payment verification")
	}

	identity, ok := c.currentIdentity()
	if !ok {
		return session.ErrNotAuthenticated
	}

	_, err := c.post(ctx, c.api, call{
		op:   "payment.verify",
		path: PaymentVerifyPath,
		body: verifyPayload{
			PaymentVerification: v,
			BusinessID:          identity.BusinessID(),
		},
		fallback: FallbackVerifyPayment,
	})
	if err != nil {
		return err
	}
	c.logger.Info("payment verified", "order", v.OrderID)
	return nil
}
