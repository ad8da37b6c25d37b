package services

import (
	"errors"
	"sort"
	"strings"

	"numa/internal/domain"
	"numa/internal/repos"
)

type ProductFilter struct {
	Category    string
	Query       string
	InStockOnly bool
	Featured    bool
	Sort        string // price_asc | price_desc | newest | name
}

// ProductList is a catalog read. Stale marks sample data served because the
// store was unreachable.
type ProductList struct {
	Items []domain.Product `json:"items"`
	Stale bool             `json:"stale"`
}

type CatalogService struct {
	Prods    *repos.ProductRepo
	Fallback FallbackPolicy
}

func NewCatalogService(prods *repos.ProductRepo, policy FallbackPolicy) *CatalogService {
	return &CatalogService{Prods: prods, Fallback: policy}
}

func (s *CatalogService) all() ([]domain.Product, bool, error) {
	items, err := s.Prods.List()
	if err == nil {
		return items, false, nil
	}
	if s.Fallback == UseFallback && repos.IsRemote(err) {
		return repos.SampleProducts(), true, nil
	}
	return nil, false, err
}

func (s *CatalogService) List(f ProductFilter) (ProductList, error) {
	items, stale, err := s.all()
	if err != nil {
		return ProductList{}, err
	}
	return ProductList{Items: FilterProducts(items, f), Stale: stale}, nil
}

func (s *CatalogService) Get(id string) (domain.Product, bool, error) {
	p, err := s.Prods.Get(id)
	if err == nil {
		return p, false, nil
	}
	if s.Fallback == UseFallback && repos.IsRemote(err) {
		for _, sp := range repos.SampleProducts() {
			if sp.ID == id {
				return sp, true, nil
			}
		}
		return domain.Product{}, true, repos.ErrNotFound
	}
	return domain.Product{}, false, err
}

// FilterProducts applies f to items with linear scans; the input is not modified.
func FilterProducts(items []domain.Product, f ProductFilter) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	switch f.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case "newest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	}
	return out
}

// matches searches visible and hidden names so customers find a perfume by
// the name they know it under.
func matches(p domain.Product, q string) bool {
	fields := []string{p.Name, p.OriginalName, p.Brand, p.Description}
	fields = append(fields, p.SEOKeywords...)
	fields = append(fields, p.Notes.Top...)
	fields = append(fields, p.Notes.Middle...)
	fields = append(fields, p.Notes.Base...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Create validates and stores a new product.
func (s *CatalogService) Create(p domain.Product) (domain.Product, error) {
	if err := validateProduct(&p); err != nil {
		return domain.Product{}, err
	}
	if p.Stock < 0 {
		return domain.Product{}, invalid("stock must be >= 0")
	}
	p.InStock = p.Stock > 0
	p.TotalSold = 0
	return s.Prods.Create(p)
}

func (s *CatalogService) Update(p domain.Product) (domain.Product, error) {
	if err := validateProduct(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Update(p)
}

func (s *CatalogService) Delete(id string) error {
	return s.Prods.Delete(id)
}

func (s *CatalogService) AddImage(id, url string) (domain.Product, error) {
	return s.Prods.AddImage(id, url)
}

func validateProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name is required")
	}
	if p.Price <= 0 {
		return invalid("price must be positive")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		return invalid("original price must be >= 0")
	}
	if !domain.ValidCategory(p.Category) {
		return invalid("category must be women, men or unisex")
	}
	return nil
}

// IsNotFound is a convenience for handlers.
func IsNotFound(err error) bool { return errors.Is(err, repos.ErrNotFound) }
