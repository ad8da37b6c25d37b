package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"numa/internal/domain"
)

// DiscountResult is the outcome of applying a campaign to a cart total.
type DiscountResult struct {
	OriginalTotal       float64 `json:"originalTotal"`
	DiscountAmount      float64 `json:"discountAmount"`
	FinalTotal          float64 `json:"finalTotal"`
	CampaignApplied     bool    `json:"campaignApplied"`
	CampaignTitle       string  `json:"campaignTitle,omitempty"`
	CampaignDescription string  `json:"campaignDescription,omitempty"`
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// CampaignLive reports whether c is active and inside its date window.
func CampaignLive(c domain.CampaignSettings, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}
	return true
}

// CalculateCampaignDiscount applies c to cartTotal at time now.
func CalculateCampaignDiscount(cartTotal float64, c domain.CampaignSettings, now time.Time) DiscountResult {
	res := DiscountResult{OriginalTotal: cartTotal, FinalTotal: cartTotal}
	if !c.IsActive || cartTotal < c.MinAmount {
		return res
	}
	if !CampaignLive(c, now) {
		return res
	}

	var raw float64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		raw = cartTotal * c.DiscountValue / 100
	case domain.DiscountFixed:
		raw = c.DiscountValue
	default:
		return res
	}
	if raw < 0 {
		raw = 0
	}
	if raw > cartTotal {
		raw = cartTotal
	}

	res.DiscountAmount = round2(raw)
	res.FinalTotal = round2(cartTotal - raw)
	res.CampaignApplied = true
	res.CampaignTitle = c.Title
	res.CampaignDescription = c.Description
	return res
}

// CampaignUnlockMessage tells the buyer how much more to spend. It is empty
// when the campaign is not running or already unlocked.
func CampaignUnlockMessage(cartTotal float64, c domain.CampaignSettings, now time.Time) string {
	if !CampaignLive(c, now) || cartTotal >= c.MinAmount {
		return ""
	}
	missing := decimal.NewFromFloat(c.MinAmount).Sub(decimal.NewFromFloat(cartTotal))
	return fmt.Sprintf("Kampanyadan yararlanmak için sepetinize ₺%s daha ekleyin", missing.StringFixed(2))
}

// CampaignDescribe renders a short label such as "₺1000.00 ve üzeri %10 indirim".
func CampaignDescribe(c domain.CampaignSettings) string {
	var label string
	switch c.DiscountType {
	case domain.DiscountPercentage:
		label = "%" + decimal.NewFromFloat(c.DiscountValue).String() + " indirim"
	case domain.DiscountFixed:
		label = "₺" + decimal.NewFromFloat(c.DiscountValue).StringFixed(2) + " indirim"
	default:
		return ""
	}
	if c.MinAmount > 0 {
		label = "₺" + decimal.NewFromFloat(c.MinAmount).StringFixed(2) + " ve üzeri " + label
	}
	return label
}
