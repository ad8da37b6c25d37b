package services

import (
	"encoding/json"
	"errors"
	"sync"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/repos"
	"numa/internal/validate"
)

// CartStorage persists serialized carts by key.
type CartStorage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// CartStore is one visitor's cart: ordered lines, at most one per product,
// written back to storage after every mutation.
type CartStore struct {
	mu      sync.Mutex
	key     string
	storage CartStorage
	items   []domain.CartItem
}

// OpenCartStore loads the cart saved under key. Missing or unreadable data
// yields an empty cart.
func OpenCartStore(storage CartStorage, key string) *CartStore {
	s := &CartStore{key: key, storage: storage, items: []domain.CartItem{}}
	raw, err := storage.Load(key)
	if err != nil {
		if !errors.Is(err, repos.ErrNotFound) {
			applog.Error(nil, "cart.load.fail", err, map[string]any{"key": key})
		}
		return s
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		applog.Error(nil, "cart.load.corrupt", err, map[string]any{"key": key})
		return s
	}
	for _, it := range items {
		if it.Product.ID == "" || it.Quantity <= 0 {
			continue
		}
		it.Quantity = validate.ClampQty(it.Quantity)
		s.items = append(s.items, it)
	}
	return s
}

func (s *CartStore) indexOf(productID string) int {
	for i, it := range s.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *CartStore) persist() error {
	b, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return s.storage.Save(s.key, b)
}

// Add merges into an existing line or appends a new one. qty < 1 counts as 1;
// a line never holds more than the per-line cap.
func (s *CartStore) Add(p domain.CartProduct, qty int) error {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity = validate.ClampQty(s.items[i].Quantity + qty)
		s.items[i].Product = p
	} else {
		s.items = append(s.items, domain.CartItem{Product: p, Quantity: validate.ClampQty(qty)})
	}
	return s.persist()
}

func (s *CartStore) Remove(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return s.persist()
}

// SetQuantity replaces a line's quantity (capped); qty <= 0 removes the line.
func (s *CartStore) SetQuantity(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = validate.ClampQty(qty)
	}
	return s.persist()
}

func (s *CartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []domain.CartItem{}
	return s.persist()
}

// Items returns a copy of the lines.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return linesTotal(s.items)
}

func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func linesTotal(items []domain.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return round2(total)
}
