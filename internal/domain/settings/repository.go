package settings

import (
	"context"

	"github.com/fakturo/fakturo/internal/types"
)

// Repository provides access to company settings storage
type Repository interface {
	// Get returns the settings for the tenant company in context, or the
	// defaults if none have been stored yet.
	Get(ctx context.Context) (*CompanySettings, error)
	Update(ctx context.Context, s *CompanySettings) error
	// SetValue stores one arbitrary tagged setting value by key
	SetValue(ctx context.Context, key string, value types.SettingValue) error
	// GetValue returns one arbitrary tagged setting value by key
	GetValue(ctx context.Context, key string) (types.SettingValue, error)
}
