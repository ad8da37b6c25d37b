package services

import (
	"strings"

	"numa/internal/domain"
	"numa/internal/repos"
)

// SaleInfo overrides the sale price recorded for a "sale" movement.
type SaleInfo struct {
	Price float64 `json:"price"`
	Note  string  `json:"note,omitempty"`
}

type StockAdjustment struct {
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	Type       string    `json:"type"` // increase | decrease | sale | adjustment
	Reason     string    `json:"reason"`
	AdminEmail string    `json:"-"`
	SaleInfo   *SaleInfo `json:"saleInfo,omitempty"`
}

type StockService struct {
	Repo *repos.StockRepo
}

func NewStockService(repo *repos.StockRepo) *StockService { return &StockService{Repo: repo} }

// Adjust applies one stock movement and appends its history entry.
func (s *StockService) Adjust(a StockAdjustment) (domain.Product, domain.StockHistory, error) {
	a.ProductID = strings.TrimSpace(a.ProductID)
	if a.ProductID == "" {
		return domain.Product{}, domain.StockHistory{}, invalid("productId is required")
	}
	if a.Quantity < 0 {
		return domain.Product{}, domain.StockHistory{}, invalid("quantity must be >= 0")
	}
	switch a.Type {
	case domain.StockIncrease, domain.StockDecrease, domain.StockSale, domain.StockAdjustment:
	default:
		return domain.Product{}, domain.StockHistory{}, invalid("unknown stock movement %q", a.Type)
	}
	if a.SaleInfo != nil && a.SaleInfo.Price < 0 {
		return domain.Product{}, domain.StockHistory{}, invalid("sale price must be >= 0")
	}

	return s.Repo.Adjust(a.ProductID, func(p domain.Product) (domain.Product, domain.StockHistory, error) {
		next := ApplyStockMovement(p, a.Type, a.Quantity)
		h := domain.StockHistory{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Type:          a.Type,
			Quantity:      a.Quantity,
			PreviousStock: p.Stock,
			NewStock:      next.Stock,
			Reason:        strings.TrimSpace(a.Reason),
			AdminEmail:    a.AdminEmail,
		}
		if a.SaleInfo != nil {
			price := a.SaleInfo.Price
			h.SalePrice = &price
			h.SaleNote = a.SaleInfo.Note
		}
		return next, h, nil
	})
}

// ApplyStockMovement returns p with its stock counters moved by qty.
func ApplyStockMovement(p domain.Product, kind string, qty int) domain.Product {
	switch kind {
	case domain.StockIncrease:
		p.Stock += qty
	case domain.StockDecrease:
		p.Stock = max(0, p.Stock-qty)
	case domain.StockSale:
		p.Stock = max(0, p.Stock-qty)
		p.TotalSold += qty
	case domain.StockAdjustment:
		p.Stock = qty
	}
	p.InStock = p.Stock > 0
	return p
}

func (s *StockService) History(productID string, limit int) ([]domain.StockHistory, error) {
	return s.Repo.History(strings.TrimSpace(productID), limit)
}
