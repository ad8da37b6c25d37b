package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"numa/internal/domain"
	"numa/internal/repos"
	"numa/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyStockMovement(t *testing.T) {
	base := domain.Product{ID: "p", Stock: 5, TotalSold: 10, InStock: true}
	cases := []struct {
		kind        string
		qty         int
		stock, sold int
		inStock     bool
	}{
		{domain.StockIncrease, 3, 8, 10, true},
		{domain.StockDecrease, 2, 3, 10, true},
		{domain.StockDecrease, 9, 0, 10, false},
		{domain.StockSale, 2, 3, 12, true},
		{domain.StockSale, 7, 0, 17, false},
		{domain.StockAdjustment, 42, 42, 10, true},
		{domain.StockAdjustment, 0, 0, 10, false},
	}
	for _, c := range cases {
		got := services.ApplyStockMovement(base, c.kind, c.qty)
		if got.Stock != c.stock || got.TotalSold != c.sold || got.InStock != c.inStock {
			t.Fatalf("%s %d: want stock=%d sold=%d inStock=%v, got %+v", c.kind, c.qty, c.stock, c.sold, c.inStock, got)
		}
	}
}

func TestStockService_AdjustWritesProductAndHistory(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewStockRepo(db))
	prods := repos.NewProductRepo(db)

	p, h, err := svc.Adjust(services.StockAdjustment{
		ProductID: "numa-001", Quantity: 4, Type: domain.StockSale, Reason: " fuar ",
		AdminEmail: "admin@numa.test", SaleInfo: &services.SaleInfo{Price: 700, Note: "stand"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 8 || p.TotalSold != 4 {
		t.Fatalf("want stock=8 sold=4, got %+v", p)
	}
	if h.PreviousStock != 12 || h.NewStock != 8 || h.Reason != "fuar" || h.SalePrice == nil || *h.SalePrice != 700 {
		t.Fatalf("unexpected history %+v", h)
	}

	stored, err := prods.Get("numa-001")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Stock != 8 || stored.TotalSold != 4 || !stored.InStock {
		t.Fatalf("product not persisted: %+v", stored)
	}

	if _, _, err := svc.Adjust(services.StockAdjustment{ProductID: "numa-001", Quantity: 0, Type: domain.StockAdjustment}); err != nil {
		t.Fatal(err)
	}
	stored, _ = prods.Get("numa-001")
	if stored.Stock != 0 || stored.InStock {
		t.Fatalf("adjustment to 0 must mark out of stock: %+v", stored)
	}

	rows, err := svc.History("numa-001", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Type != domain.StockAdjustment {
		t.Fatalf("want 2 rows newest first, got %+v", rows)
	}
	if all, _ := svc.History("", 0); len(all) != 2 {
		t.Fatalf("empty product id lists all, got %d", len(all))
	}
}

func TestStockService_AdjustRejects(t *testing.T) {
	svc := services.NewStockService(repos.NewStockRepo(memdb(t)))
	for name, a := range map[string]services.StockAdjustment{
		"no product": {Quantity: 1, Type: domain.StockIncrease},
		"negative":   {ProductID: "numa-001", Quantity: -1, Type: domain.StockIncrease},
		"bad type":   {ProductID: "numa-001", Quantity: 1, Type: "gift"},
		"sale price": {ProductID: "numa-001", Quantity: 1, Type: domain.StockSale, SaleInfo: &services.SaleInfo{Price: -5}},
	} {
		if _, _, err := svc.Adjust(a); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: want validation error, got %v", name, err)
		}
	}
	if _, _, err := svc.Adjust(services.StockAdjustment{ProductID: "ghost", Quantity: 1, Type: domain.StockIncrease}); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
