package services

import (
	"strings"

	"numa/internal/domain"
	"numa/internal/repos"
)

type FavoriteService struct {
	Repo    *repos.FavoriteRepo
	Catalog *CatalogService
}

func NewFavoriteService(repo *repos.FavoriteRepo, catalog *CatalogService) *FavoriteService {
	return &FavoriteService{Repo: repo, Catalog: catalog}
}

func (s *FavoriteService) Add(sessionID, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return invalid("productId is required")
	}
	if _, stale, err := s.Catalog.Get(productID); err != nil {
		return err
	} else if stale {
		return invalid("store unavailable")
	}
	return s.Repo.Add(sessionID, productID)
}

func (s *FavoriteService) Remove(sessionID, productID string) error {
	return s.Repo.Remove(sessionID, productID)
}

func (s *FavoriteService) List(sessionID string) ([]domain.Product, error) {
	items, err := s.Repo.List(sessionID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = items[i].Public()
	}
	return items, nil
}
