package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/repository"
)

// SettingService reads and writes the app_settings key-value table. Payment
// details (UPI ID, QR image) and storefront copy live here so admins can
// change them without a deploy.
type SettingService struct {
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
}

func NewSettingService(settingRepo *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

// GetAllSettings returns every setting as a flat key-value map.
func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	list, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settings := make(map[string]string, len(list))
	for _, st := range list {
		settings[st.Key] = st.Value
	}
	return settings, nil
}

// UpdateSettings upserts each provided key. Settings are low volume, so this
// is an iterative upsert rather than a single transaction.
func (s *SettingService) UpdateSettings(ctx context.Context, settings map[string]string) error {
	for key, value := range settings {
		if err := s.settingRepo.Upsert(ctx, key, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to update setting")
			return err
		}
	}
	return nil
}

// GetSettingByKey returns a single setting's value.
func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
