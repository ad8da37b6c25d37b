package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numa/internal/repos"
	"numa/internal/services"
)

func TestCartService_CheckoutChargesWhatTheCartShows(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewProductRepo(db), services.UseFallback)
	settings := services.NewSettingsService(repos.NewSettingsRepo(db), services.FailFast)
	carts := services.NewCartService(repos.NewCartRepo(db), catalog, settings)

	_, err := carts.Add("sid", "numa-001", 50)
	require.NoError(t, err)
	view, err := carts.Add("sid", "numa-001", 50)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 50, view.Items[0].Quantity)

	gw := &recordingGateway{}
	co, err := services.NewCheckoutService(catalog, settings, gw).Begin(services.CheckoutRequest{
		CartItems: view.Items, BuyerInfo: buyer,
	})
	require.NoError(t, err)
	assert.Equal(t, view.Total, co.Subtotal)
	assert.Equal(t, "NUMA No.1 Rose Oud x50", gw.orders[0].ProductName)
}

func TestCartService_AddRefusesSampleData(t *testing.T) {
	st := memStorage{}
	carts := services.NewCartService(st, downCatalog(t, services.UseFallback, 1), nil)

	_, err := carts.Add("sid", "numa-001", 1)
	assert.ErrorIs(t, err, services.ErrStoreUnavailable)
	assert.Empty(t, st, "nothing is written to the cart")
}

func TestCartService_AddRejectsOutOfStock(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(repos.NewProductRepo(db), services.FailFast)
	carts := services.NewCartService(repos.NewCartRepo(db), catalog, nil)

	_, err := carts.Add("sid", "numa-003", 1)
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = carts.Add("sid", "ghost", 1)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	assert.Empty(t, carts.Open("sid").Items())
}
