package repository

import (
	"context"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/property"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavouritesRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetFavourites(ctx context.Context, userId uuid.UUID) ([]property.Property, error)
	InsertFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error
	DeleteFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error
}

type FavouritesRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewFavouritesRepository(pool *pgxpool.Pool, host string, port string) FavouritesRepositoryI {
	return &FavouritesRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (r *FavouritesRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS favourites (
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id UUID NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, property_id)
	);`
	_, err := r.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("favouritesRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *FavouritesRepository) GetFavourites(ctx context.Context, userId uuid.UUID) ([]property.Property, error) {
	query := `SELECT ` + qualifiedPropertyColumns("property") + `
		FROM favourites JOIN property ON favourites.property_id = property.id
		WHERE favourites.user_id = $1
		ORDER BY favourites.created_at DESC`
	rows, err := r.Pool.Query(ctx, query, userId)
	if err != nil {
		return nil, customerror.NewError("favouritesRepo.GetFavourites", r.Host+":"+r.Port, err.Error())
	}
	defer rows.Close()
	properties := []property.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, customerror.NewError("favouritesRepo.GetFavourites", r.Host+":"+r.Port, err.Error())
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

func (r *FavouritesRepository) InsertFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error {
	query := `INSERT INTO favourites (user_id, property_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.Pool.Exec(ctx, query, userId, propertyId)
	if err != nil {
		return customerror.NewError("favouritesRepo.InsertFavourite", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *FavouritesRepository) DeleteFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error {
	command, err := r.Pool.Exec(ctx, `DELETE FROM favourites WHERE property_id = $1 AND user_id = $2`, propertyId, userId)
	if err != nil {
		return customerror.NewError("favouritesRepo.DeleteFavourite", r.Host+":"+r.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}
