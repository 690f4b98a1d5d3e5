package service

import (
	"context"
	"errors"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/settings"
	"time"
)

// DefaultListingPrice applies until an administrator saves settings.
const DefaultListingPrice = 99.90

type SettingsServiceI interface {
	GetSettings() (*settings.Settings, error)
	UpdateSettings(patch settings.Patch) (*settings.Settings, error)
}

type SettingsService struct {
	settingsRepo repository.SettingsRepositoryI
}

func NewSettingsService(settingsRepo repository.SettingsRepositoryI) SettingsServiceI {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

func loadSettings(ctx context.Context, settingsRepo repository.SettingsRepositoryI) (*settings.Settings, error) {
	current, err := settingsRepo.GetSettings(ctx)
	if errors.Is(err, customerror.ErrNotFound) {
		return &settings.Settings{ListingPrice: DefaultListingPrice}, nil
	}
	return current, err
}

func (settingsService *SettingsService) GetSettings() (*settings.Settings, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	current, err := loadSettings(ctx, settingsService.settingsRepo)
	if err != nil {
		return nil, customerror.Wrap(err, "SettingsService.GetSettings")
	}
	return current, nil
}

func (settingsService *SettingsService) UpdateSettings(patch settings.Patch) (*settings.Settings, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	current, err := loadSettings(ctx, settingsService.settingsRepo)
	if err != nil {
		return nil, customerror.Wrap(err, "SettingsService.UpdateSettings")
	}
	current.Apply(patch)
	if err := current.Validate(); err != nil {
		return nil, err
	}
	if err := settingsService.settingsRepo.UpdateSettings(ctx, current); err != nil {
		return nil, customerror.Wrap(err, "SettingsService.UpdateSettings")
	}
	return current, nil
}
