package testutil

import (
	"context"
	"sync"

	"github.com/fakturo/fakturo/internal/domain/settings"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// InMemorySettingsStore implements settings.Repository
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	settings map[string]*settings.CompanySettings
}

// NewInMemorySettingsStore creates a new in-memory settings store
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		settings: make(map[string]*settings.CompanySettings),
	}
}

func copySettings(s *settings.CompanySettings) *settings.CompanySettings {
	cp := *s
	if s.NumberFormats != nil {
		cp.NumberFormats = make(map[types.DocumentType]string, len(s.NumberFormats))
		for k, v := range s.NumberFormats {
			cp.NumberFormats[k] = v
		}
	}
	if s.Values != nil {
		cp.Values = make(map[string]types.SettingValue, len(s.Values))
		for k, v := range s.Values {
			cp.Values[k] = v
		}
	}
	return &cp
}

func (s *InMemorySettingsStore) Get(ctx context.Context) (*settings.CompanySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companyID := types.GetCompanyID(ctx)
	if stored, exists := s.settings[companyID]; exists {
		return copySettings(stored), nil
	}
	return settings.DefaultCompanySettings(companyID), nil
}

func (s *InMemorySettingsStore) Update(ctx context.Context, companySettings *settings.CompanySettings) error {
	if companySettings == nil {
		return ierr.NewError("settings cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[types.GetCompanyID(ctx)] = copySettings(companySettings)
	return nil
}

func (s *InMemorySettingsStore) SetValue(ctx context.Context, key string, value types.SettingValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companyID := types.GetCompanyID(ctx)
	stored, exists := s.settings[companyID]
	if !exists {
		stored = settings.DefaultCompanySettings(companyID)
		s.settings[companyID] = stored
	}
	if stored.Values == nil {
		stored.Values = make(map[string]types.SettingValue)
	}
	stored.Values[key] = value
	return nil
}

func (s *InMemorySettingsStore) GetValue(ctx context.Context, key string) (types.SettingValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companyID := types.GetCompanyID(ctx)
	if stored, exists := s.settings[companyID]; exists {
		if value, ok := stored.Values[key]; ok {
			return value, nil
		}
	}
	return types.SettingValue{}, ierr.NewError("setting not found").
		WithReportableDetails(map[string]any{"key": key}).
		Mark(ierr.ErrNotFound)
}

// Clear removes all settings from the store
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = make(map[string]*settings.CompanySettings)
}
