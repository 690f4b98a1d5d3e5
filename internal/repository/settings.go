package repository

import (
	"context"
	"errors"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/settings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetSettings(ctx context.Context) (*settings.Settings, error)
	UpdateSettings(ctx context.Context, settings *settings.Settings) error
}

type SettingsRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewSettingsRepository(pool *pgxpool.Pool, host string, port string) SettingsRepositoryI {
	return &SettingsRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (settingsRepo *SettingsRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		id                  INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		listing_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
		admin_contact_phone TEXT NOT NULL DEFAULT ''
	);`
	_, err := settingsRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("settingsRepo.CreateTables", settingsRepo.Host+":"+settingsRepo.Port, err.Error())
	}
	return nil
}

func (settingsRepo *SettingsRepository) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	err := settingsRepo.Pool.QueryRow(ctx, `SELECT listing_price, admin_contact_phone FROM settings WHERE id = 1`).Scan(
		&s.ListingPrice,
		&s.AdminContactPhone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("settingsRepo.GetSettings", settingsRepo.Host+":"+settingsRepo.Port, err.Error())
	}
	return &s, nil
}

func (settingsRepo *SettingsRepository) UpdateSettings(ctx context.Context, s *settings.Settings) error {
	query := `INSERT INTO settings (id, listing_price, admin_contact_phone) VALUES (1, $1, $2)
	ON CONFLICT (id) DO UPDATE SET listing_price = EXCLUDED.listing_price, admin_contact_phone = EXCLUDED.admin_contact_phone`
	_, err := settingsRepo.Pool.Exec(ctx, query, s.ListingPrice, s.AdminContactPhone)
	if err != nil {
		return customerror.NewError("settingsRepo.UpdateSettings", settingsRepo.Host+":"+settingsRepo.Port, err.Error())
	}
	return nil
}
