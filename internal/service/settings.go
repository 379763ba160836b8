package service

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/domain/settings"
	"github.com/fakturo/fakturo/internal/types"
	gocache "github.com/patrickmn/go-cache"
)

const (
	settingsCacheTTL     = 30 * time.Second
	settingsCacheCleanup = 5 * time.Minute
)

// SettingsService exposes the company configuration the invoicing core
// reads on every operation. Reads are cached briefly per tenant; any write
// invalidates the tenant's entry so the core never acts on settings older
// than the TTL.
type SettingsService interface {
	GetSettings(ctx context.Context) (*settings.CompanySettings, error)
	UpdateSettings(ctx context.Context, s *settings.CompanySettings) error
	SetValue(ctx context.Context, key string, value types.SettingValue) error
	GetValue(ctx context.Context, key string) (types.SettingValue, error)
}

type settingsService struct {
	ServiceParams
	cache *gocache.Cache
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{
		ServiceParams: params,
		cache:         gocache.New(settingsCacheTTL, settingsCacheCleanup),
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*settings.CompanySettings, error) {
	companyID := types.GetCompanyID(ctx)
	if cached, found := s.cache.Get(companyID); found {
		return cached.(*settings.CompanySettings), nil
	}

	companySettings, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(companyID, companySettings)
	return companySettings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, companySettings *settings.CompanySettings) error {
	if err := companySettings.Validate(); err != nil {
		return err
	}

	if err := s.SettingsRepo.Update(ctx, companySettings); err != nil {
		return err
	}

	s.cache.Delete(types.GetCompanyID(ctx))
	s.Logger.Infow("updated company settings", "company_id", companySettings.CompanyID)
	return nil
}

func (s *settingsService) SetValue(ctx context.Context, key string, value types.SettingValue) error {
	if err := value.Validate(); err != nil {
		return err
	}

	if err := s.SettingsRepo.SetValue(ctx, key, value); err != nil {
		return err
	}

	s.cache.Delete(types.GetCompanyID(ctx))
	return nil
}

func (s *settingsService) GetValue(ctx context.Context, key string) (types.SettingValue, error) {
	return s.SettingsRepo.GetValue(ctx, key)
}
