package services

import (
	"strings"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/repos"
)

type SettingsService struct {
	Repo     *repos.SettingsRepo
	Fallback FallbackPolicy
	// OnSave runs after settings are stored (scheduler re-arm).
	OnSave func(domain.SiteSettings)
}

func NewSettingsService(repo *repos.SettingsRepo, policy FallbackPolicy) *SettingsService {
	return &SettingsService{Repo: repo, Fallback: policy}
}

// Get returns the stored settings; under UseFallback an unreachable or
// empty store yields the defaults with stale=true.
func (s *SettingsService) Get() (domain.SiteSettings, bool, error) {
	st, err := s.Repo.Get()
	if err == nil {
		return st, false, nil
	}
	if s.Fallback == UseFallback {
		applog.Error(nil, "settings.get.fallback", err, nil)
		return repos.DefaultSettings(), true, nil
	}
	return domain.SiteSettings{}, false, err
}

// Campaign never fails: without settings there is no campaign.
func (s *SettingsService) Campaign() domain.CampaignSettings {
	st, _, err := s.Get()
	if err != nil {
		applog.Error(nil, "settings.campaign.fail", err, nil)
		return domain.CampaignSettings{}
	}
	return st.Campaign
}

func (s *SettingsService) Save(st domain.SiteSettings) (domain.SiteSettings, error) {
	if err := validateSettings(&st); err != nil {
		return domain.SiteSettings{}, err
	}
	saved, err := s.Repo.Save(st)
	if err != nil {
		return domain.SiteSettings{}, err
	}
	if s.OnSave != nil {
		s.OnSave(saved)
	}
	return saved, nil
}

func validateSettings(st *domain.SiteSettings) error {
	c := &st.Campaign
	switch c.DiscountType {
	case domain.DiscountPercentage:
		if c.DiscountValue < 0 || c.DiscountValue > 100 {
			return invalid("percentage discount must be between 0 and 100")
		}
	case domain.DiscountFixed:
		if c.DiscountValue < 0 {
			return invalid("fixed discount must be >= 0")
		}
	case "":
		if c.IsActive {
			return invalid("active campaign needs a discount type")
		}
	default:
		return invalid("discount type must be percentage or fixed")
	}
	if c.MinAmount < 0 {
		return invalid("minimum amount must be >= 0")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return invalid("campaign end date is before start date")
	}
	st.AI.Time = strings.TrimSpace(st.AI.Time)
	if st.AI.Enabled {
		if _, _, err := ParseClock(st.AI.Time); err != nil {
			return err
		}
	}
	return nil
}
