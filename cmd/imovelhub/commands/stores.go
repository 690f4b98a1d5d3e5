package commands

import (
	"context"
	"fmt"
	"imovelhub/internal/repository"
	"imovelhub/internal/repository/seed"
	"imovelhub/pkg/config"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type stores struct {
	properties repository.PropertyRepositoryI
	users      repository.UserRepositoryI
	settings   repository.SettingsRepositoryI
	types      repository.PropertyTypeRepositoryI
	inquiries  repository.InquiryRepositoryI
	favourites repository.FavouritesRepositoryI
	close      func()
}

func (s *stores) createTables(ctx context.Context) error {
	for _, creator := range []interface {
		CreateTables(ctx context.Context) error
	}{s.users, s.properties, s.settings, s.types, s.inquiries, s.favourites} {
		if err := creator.CreateTables(ctx); err != nil {
			return err
		}
	}
	return nil
}

// seedIfEmpty writes the demo data unless the store already has accounts.
func (s *stores) seedIfEmpty(ctx context.Context) error {
	existing, err := s.users.GetUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Print("seed skipped: store already has users")
		return nil
	}
	data, err := seed.Load()
	if err != nil {
		return err
	}
	return seed.Apply(ctx, seed.Stores{
		Users:         s.users,
		Properties:    s.properties,
		Settings:      s.settings,
		PropertyTypes: s.types,
	}, data, time.Now())
}

func newPool(ctx context.Context, appConfig *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", appConfig.DbUser, appConfig.DbPassword, appConfig.DbHost, appConfig.DbPort, appConfig.DbName)
	dbconfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	dbconfig.MaxConns = 100
	dbconfig.MinConns = 10
	dbconfig.MaxConnLifetime = 1 * time.Hour
	dbconfig.MaxConnIdleTime = 15 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, dbconfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// openStores returns the repositories for the configured backend. The memory backend always starts
// with the demo data.
func openStores(ctx context.Context, appConfig *config.Config) (*stores, error) {
	if appConfig.Storage == config.StorageMemory {
		store, err := seed.NewMemoryStore(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		return &stores{
			properties: store,
			users:      store,
			settings:   store,
			types:      store,
			inquiries:  store,
			favourites: store,
			close:      func() {},
		}, nil
	}
	pool, err := newPool(ctx, appConfig)
	if err != nil {
		return nil, err
	}
	host, port := appConfig.WebHost, appConfig.WebPort
	return &stores{
		properties: repository.NewPropertyRepository(pool, host, port),
		users:      repository.NewUserRepository(pool, host, port),
		settings:   repository.NewSettingsRepository(pool, host, port),
		types:      repository.NewPropertyTypeRepository(pool, host, port),
		inquiries:  repository.NewInquiryRepository(pool, host, port),
		favourites: repository.NewFavouritesRepository(pool, host, port),
		close:      pool.Close,
	}, nil
}
