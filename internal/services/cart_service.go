package services

import (
	"time"

	"numa/internal/domain"
)

type CartService struct {
	Storage  CartStorage
	Catalog  *CatalogService
	Settings *SettingsService
	Now      func() time.Time
}

func NewCartService(storage CartStorage, catalog *CatalogService, settings *SettingsService) *CartService {
	return &CartService{Storage: storage, Catalog: catalog, Settings: settings, Now: time.Now}
}

type CartView struct {
	Items         []domain.CartItem `json:"items"`
	Total         float64           `json:"total"`
	Count         int               `json:"count"`
	Discount      DiscountResult    `json:"discount"`
	UnlockMessage string            `json:"unlockMessage,omitempty"`
}

func (s *CartService) Open(sessionID string) *CartStore {
	return OpenCartStore(s.Storage, sessionID)
}

// Add resolves productID against the catalog so the cart always holds
// current names and prices. Sample data served while the store is down is
// never added.
func (s *CartService) Add(sessionID, productID string, qty int) (CartView, error) {
	p, stale, err := s.Catalog.Get(productID)
	if err != nil {
		return CartView{}, err
	}
	if stale {
		return CartView{}, ErrStoreUnavailable
	}
	if !p.InStock {
		return CartView{}, invalid("product %s is out of stock", productID)
	}
	cart := s.Open(sessionID)
	if err := cart.Add(domain.SnapshotOf(p), qty); err != nil {
		return CartView{}, err
	}
	return s.view(cart), nil
}

func (s *CartService) SetQuantity(sessionID, productID string, qty int) (CartView, error) {
	cart := s.Open(sessionID)
	if err := cart.SetQuantity(productID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(cart), nil
}

func (s *CartService) Remove(sessionID, productID string) (CartView, error) {
	cart := s.Open(sessionID)
	if err := cart.Remove(productID); err != nil {
		return CartView{}, err
	}
	return s.view(cart), nil
}

func (s *CartService) Clear(sessionID string) error {
	return s.Open(sessionID).Clear()
}

func (s *CartService) View(sessionID string) CartView {
	return s.view(s.Open(sessionID))
}

func (s *CartService) view(cart *CartStore) CartView {
	items := cart.Items()
	total := linesTotal(items)
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	campaign := s.Settings.Campaign()
	now := s.Now()
	return CartView{
		Items:         items,
		Total:         total,
		Count:         count,
		Discount:      CalculateCampaignDiscount(total, campaign, now),
		UnlockMessage: CampaignUnlockMessage(total, campaign, now),
	}
}
