package shopier

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("shopier: missing callback field")
	ErrBadSignature  = errors.New("shopier: invalid signature")
	ErrUnknownStatus = errors.New("shopier: unknown payment status")
)

// Callback is a payment notification as posted by the gateway, either as a
// form or as JSON.
type Callback struct {
	PlatformOrderID string `json:"platform_order_id" form:"platform_order_id"`
	PaymentStatus   string `json:"payment_status" form:"payment_status"`
	TotalOrderValue string `json:"total_order_value" form:"total_order_value"`
	Currency        string `json:"currency" form:"currency"`
	Installment     string `json:"installment" form:"installment"`
	TestMode        string `json:"test_mode" form:"test_mode"`
	MerchantID      string `json:"merchant_id" form:"merchant_id"`
	RandomNr        string `json:"random_nr" form:"random_nr"`
	Signature       string `json:"signature" form:"signature"`
}

// CallbackSignature is hex(SHA-256(apiKey + websiteIndex + orderID + amount +
// currency + randomNr + secret)). The order is fixed by the gateway.
func CallbackSignature(apiKey, websiteIndex, orderID, amount, currency, randomNr, secret string) string {
	sum := sha256.Sum256([]byte(apiKey + websiteIndex + orderID + amount + currency + randomNr + secret))
	return hex.EncodeToString(sum[:])
}

// VerifyCallback accepts cb only when every signed field is present and the
// signature matches exactly.
func (c *Client) VerifyCallback(cb Callback) error {
	if c.APIKey == "" || c.Secret == "" {
		return ErrNotConfigured
	}
	for _, f := range []Field{
		{"platform_order_id", cb.PlatformOrderID},
		{"payment_status", cb.PaymentStatus},
		{"total_order_value", cb.TotalOrderValue},
		{"currency", cb.Currency},
		{"random_nr", cb.RandomNr},
		{"signature", cb.Signature},
	} {
		if f.Value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.Name)
		}
	}
	want := CallbackSignature(c.APIKey, c.WebsiteIndex, cb.PlatformOrderID, cb.TotalOrderValue, cb.Currency, cb.RandomNr, c.Secret)
	if subtle.ConstantTimeCompare([]byte(want), []byte(cb.Signature)) != 1 {
		return ErrBadSignature
	}
	return nil
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// ParseStatus maps the gateway payment_status code.
func ParseStatus(code string) (Status, error) {
	switch code {
	case "1":
		return StatusSuccess, nil
	case "0":
		return StatusFailed, nil
	case "2":
		return StatusPending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, code)
}

// Message is the buyer facing text for a status.
func (s Status) Message() string {
	switch s {
	case StatusSuccess:
		return "Ödeme başarıyla tamamlandı"
	case StatusFailed:
		return "Ödeme başarısız oldu"
	case StatusPending:
		return "Ödeme onay bekliyor"
	}
	return ""
}
