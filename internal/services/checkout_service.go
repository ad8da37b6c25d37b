package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"numa/internal/domain"
	"numa/internal/repos"
	"numa/internal/shopier"
	"numa/internal/validate"
)

// ErrStoreUnavailable means prices could not be confirmed against the store.
var ErrStoreUnavailable = errors.New("store unavailable")

// PaymentGateway turns an order into a form that sends the buyer to the
// hosted payment page.
type PaymentGateway interface {
	PaymentForm(o shopier.Order) (shopier.Form, error)
}

type BuyerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type CheckoutRequest struct {
	CartItems   []domain.CartItem `json:"cartItems"`
	BuyerInfo   BuyerInfo         `json:"buyerInfo"`
	TotalAmount float64           `json:"totalAmount"` // client side total, informational
}

type Checkout struct {
	OrderID  string
	Lines    []domain.CartItem // repriced
	Subtotal float64
	Discount DiscountResult
	Form     shopier.Form
}

type CheckoutService struct {
	Catalog  *CatalogService
	Settings *SettingsService
	Gateway  PaymentGateway
	Now      func() time.Time
}

func NewCheckoutService(catalog *CatalogService, settings *SettingsService, gw PaymentGateway) *CheckoutService {
	return &CheckoutService{Catalog: catalog, Settings: settings, Gateway: gw, Now: time.Now}
}

// SplitName splits a full name into first name (every word but the last) and
// surname (the last word). A single word is used for both.
func SplitName(full string) (first, surname string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func (s *CheckoutService) validateBuyer(b *BuyerInfo) error {
	var ok bool
	if b.Name, ok = validate.Name(b.Name); !ok {
		return invalid("ad soyad gerekli")
	}
	if b.Email, ok = validate.Email(b.Email); !ok {
		return invalid("geçerli bir e-posta adresi girin")
	}
	if b.Phone, ok = validate.Phone(b.Phone); !ok {
		return invalid("geçerli bir telefon numarası girin")
	}
	if b.Address, ok = validate.Address(b.Address); !ok {
		return invalid("teslimat adresi gerekli")
	}
	b.City = strings.TrimSpace(b.City)
	return nil
}

// reprice replaces client supplied names and prices with catalog values.
func (s *CheckoutService) reprice(items []domain.CartItem) ([]domain.CartItem, decimal.Decimal, error) {
	lines := make([]domain.CartItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, decimal.Zero, invalid("invalid quantity for %s", it.Product.ID)
		}
		p, stale, err := s.Catalog.Get(it.Product.ID)
		if errors.Is(err, repos.ErrNotFound) {
			return nil, decimal.Zero, invalid("ürün bulunamadı: %s", it.Product.ID)
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if stale {
			return nil, decimal.Zero, ErrStoreUnavailable
		}
		if !p.InStock {
			return nil, decimal.Zero, invalid("%s stokta yok", p.Name)
		}
		qty := validate.ClampQty(it.Quantity)
		lines = append(lines, domain.CartItem{Product: domain.SnapshotOf(p), Quantity: qty})
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return lines, total, nil
}

// productName collapses the lines into the single gateway product name.
func productName(lines []domain.CartItem) string {
	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = fmt.Sprintf("%s x%d", l.Product.Name, l.Quantity)
	}
	return strings.Join(names, ", ")
}

// Begin validates the request, reprices the cart, applies the campaign and
// returns the signed gateway form. Nothing is stored.
func (s *CheckoutService) Begin(req CheckoutRequest) (Checkout, error) {
	if len(req.CartItems) == 0 {
		return Checkout{}, ErrEmptyCart
	}
	if err := s.validateBuyer(&req.BuyerInfo); err != nil {
		return Checkout{}, err
	}
	lines, subtotal, err := s.reprice(req.CartItems)
	if err != nil {
		return Checkout{}, err
	}

	now := s.Now()
	sub, _ := subtotal.Round(2).Float64()
	disc := CalculateCampaignDiscount(sub, s.Settings.Campaign(), now)
	final := decimal.NewFromFloat(disc.FinalTotal)
	if !final.IsPositive() {
		return Checkout{}, invalid("sipariş tutarı sıfır olamaz")
	}

	first, surname := SplitName(req.BuyerInfo.Name)
	orderID := fmt.Sprintf("NUMA_%d", now.UnixMilli())
	form, err := s.Gateway.PaymentForm(shopier.Order{
		ID:          orderID,
		ProductName: productName(lines),
		Total:       final,
		Currency:    "TRY",
		Buyer: shopier.Buyer{
			FirstName: first,
			Surname:   surname,
			Email:     req.BuyerInfo.Email,
			Phone:     req.BuyerInfo.Phone,
			Address:   req.BuyerInfo.Address,
			City:      req.BuyerInfo.City,
		},
	})
	if err != nil {
		return Checkout{}, err
	}
	return Checkout{OrderID: orderID, Lines: lines, Subtotal: sub, Discount: disc, Form: form}, nil
}
