// Package shopier talks to the Shopier hosted payment page: it builds the
// signed checkout form and verifies payment notifications.
package shopier

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotConfigured = errors.New("shopier: api key or secret missing")
	ErrBadOrder      = errors.New("shopier: invalid order")
)

// Client holds the merchant credentials.
type Client struct {
	APIKey       string
	Secret       string
	WebsiteIndex string
	PaymentURL   string
	CallbackURL  string

	// RandomNr returns the per-request nonce; tests replace it.
	RandomNr func() string
}

func New(apiKey, secret, websiteIndex, paymentURL, callbackURL string) *Client {
	return &Client{
		APIKey:       apiKey,
		Secret:       secret,
		WebsiteIndex: websiteIndex,
		PaymentURL:   paymentURL,
		CallbackURL:  callbackURL,
		RandomNr:     randomNr,
	}
}

func randomNr() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "100000"
	}
	return fmt.Sprint(n.Int64() + 100000)
}

type Buyer struct {
	FirstName string
	Surname   string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
	Postcode  string
}

type Order struct {
	ID          string // platform order id
	ProductName string
	Total       decimal.Decimal
	Currency    string // TRY | USD | EUR
	Buyer       Buyer
}

type Field struct {
	Name  string
	Value string
}

// Form is a ready-to-post gateway form. Field order is significant to the
// gateway and preserved.
type Form struct {
	Action string
	Fields []Field
}

func (f Form) Get(name string) string {
	for _, fl := range f.Fields {
		if fl.Name == name {
			return fl.Value
		}
	}
	return ""
}

var currencyCodes = map[string]string{"TRY": "0", "USD": "1", "EUR": "2"}

// CurrencyCode maps an ISO currency to the gateway code.
func CurrencyCode(iso string) (string, bool) {
	code, ok := currencyCodes[strings.ToUpper(iso)]
	return code, ok
}

// RequestSignature signs a checkout request:
// base64(HMAC-SHA256(secret, randomNr + orderID + total + currencyCode)).
func RequestSignature(secret, randomNr, orderID, total, currencyCode string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(randomNr + orderID + total + currencyCode))
	return base64.StdEncoding.EncodeToString(m.Sum(nil))
}

// PaymentForm builds the signed form that sends the buyer to the gateway.
func (c *Client) PaymentForm(o Order) (Form, error) {
	if c.APIKey == "" || c.Secret == "" {
		return Form{}, ErrNotConfigured
	}
	if o.ID == "" || o.ProductName == "" || !o.Total.IsPositive() {
		return Form{}, fmt.Errorf("%w: id, product name and positive total are required", ErrBadOrder)
	}
	if o.Currency == "" {
		o.Currency = "TRY"
	}
	cur, ok := CurrencyCode(o.Currency)
	if !ok {
		return Form{}, fmt.Errorf("%w: unsupported currency %q", ErrBadOrder, o.Currency)
	}
	b := o.Buyer
	if b.Country == "" {
		b.Country = "Türkiye"
	}
	if b.City == "" {
		b.City = "İstanbul"
	}
	if b.Postcode == "" {
		b.Postcode = "34000"
	}

	total := o.Total.StringFixed(2)
	nonce := c.RandomNr()
	return Form{
		Action: c.PaymentURL,
		Fields: []Field{
			{"API_key", c.APIKey},
			{"website_index", c.WebsiteIndex},
			{"platform_order_id", o.ID},
			{"product_name", o.ProductName},
			{"product_type", "0"}, // physical goods
			{"buyer_name", b.FirstName},
			{"buyer_surname", b.Surname},
			{"buyer_email", b.Email},
			{"buyer_account_age", "0"},
			{"buyer_id_nr", "0"},
			{"buyer_phone", b.Phone},
			{"billing_address", b.Address},
			{"billing_city", b.City},
			{"billing_country", b.Country},
			{"billing_postcode", b.Postcode},
			{"shipping_address", b.Address},
			{"shipping_city", b.City},
			{"shipping_country", b.Country},
			{"shipping_postcode", b.Postcode},
			{"total_order_value", total},
			{"currency", cur},
			{"platform", "0"},
			{"is_in_frame", "0"},
			{"current_language", "0"},
			{"modul_version", "1.0.4"},
			{"random_nr", nonce},
			{"signature", RequestSignature(c.Secret, nonce, o.ID, total, cur)},
			{"callback", c.CallbackURL},
		},
	}, nil
}
