package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"numa/internal/domain"
	"numa/internal/services"
)

var now = time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

func pct(value, min float64) domain.CampaignSettings {
	return domain.CampaignSettings{
		IsActive: true, Title: "Kasım", MinAmount: min,
		DiscountType: domain.DiscountPercentage, DiscountValue: value,
	}
}

func TestCampaign_InactiveNeverApplies(t *testing.T) {
	c := pct(10, 0)
	c.IsActive = false
	for _, total := range []float64{0, 1, 500, 1e6} {
		res := services.CalculateCampaignDiscount(total, c, now)
		assert.False(t, res.CampaignApplied)
		assert.Zero(t, res.DiscountAmount)
		assert.Equal(t, total, res.FinalTotal)
	}
}

func TestCampaign_BelowMinimum(t *testing.T) {
	c := pct(10, 500)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	c.StartDate, c.EndDate = &past, &future

	res := services.CalculateCampaignDiscount(499.99, c, now)
	assert.False(t, res.CampaignApplied)
	assert.Equal(t, 499.99, res.FinalTotal)
}

func TestCampaign_Percentage(t *testing.T) {
	res := services.CalculateCampaignDiscount(1000, pct(10, 500), now)
	assert.True(t, res.CampaignApplied)
	assert.Equal(t, 100.0, res.DiscountAmount)
	assert.Equal(t, 900.0, res.FinalTotal)
	assert.Equal(t, "Kasım", res.CampaignTitle)
}

func TestCampaign_FixedClampedToTotal(t *testing.T) {
	c := domain.CampaignSettings{IsActive: true, DiscountType: domain.DiscountFixed, DiscountValue: 9999}
	res := services.CalculateCampaignDiscount(100, c, now)
	assert.True(t, res.CampaignApplied)
	assert.Equal(t, 100.0, res.DiscountAmount)
	assert.Equal(t, 0.0, res.FinalTotal)
}

func TestCampaign_DateWindow(t *testing.T) {
	future := now.Add(24 * time.Hour)
	c := pct(10, 0)
	c.StartDate = &future
	assert.False(t, services.CalculateCampaignDiscount(1000, c, now).CampaignApplied, "not started")

	past := now.Add(-24 * time.Hour)
	c = pct(10, 0)
	c.EndDate = &past
	assert.False(t, services.CalculateCampaignDiscount(1000, c, now).CampaignApplied, "ended")

	c = pct(10, 0)
	c.StartDate, c.EndDate = &now, &now
	assert.True(t, services.CalculateCampaignDiscount(1000, c, now).CampaignApplied, "bounds are inclusive")
}

func TestCampaign_Rounding(t *testing.T) {
	res := services.CalculateCampaignDiscount(1234.5, pct(10, 0), now)
	assert.Equal(t, 123.45, res.DiscountAmount)
	assert.Equal(t, 1111.05, res.FinalTotal)
}

func TestCampaign_UnlockMessageAndDescribe(t *testing.T) {
	c := pct(10, 1000)
	assert.Equal(t, "Kampanyadan yararlanmak için sepetinize ₺210.00 daha ekleyin",
		services.CampaignUnlockMessage(790, c, now))
	assert.Empty(t, services.CampaignUnlockMessage(1000, c, now))

	c.IsActive = false
	assert.Empty(t, services.CampaignUnlockMessage(10, c, now))

	assert.Equal(t, "₺1000.00 ve üzeri %10 indirim", services.CampaignDescribe(pct(10, 1000)))
	assert.Equal(t, "₺50.00 indirim", services.CampaignDescribe(domain.CampaignSettings{
		DiscountType: domain.DiscountFixed, DiscountValue: 50,
	}))
}
