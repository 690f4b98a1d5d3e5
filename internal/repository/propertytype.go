package repository

import (
	"context"
	"errors"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/propertytype"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyTypeRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetTypes(ctx context.Context) ([]propertytype.PropertyType, error)
	GetType(ctx context.Context, id uuid.UUID) (*propertytype.PropertyType, error)
	InsertType(ctx context.Context, propertyType *propertytype.PropertyType) error
	UpdateType(ctx context.Context, propertyType *propertytype.PropertyType) error
	DeleteType(ctx context.Context, id uuid.UUID) error
}

type PropertyTypeRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewPropertyTypeRepository(pool *pgxpool.Pool, host string, port string) PropertyTypeRepositoryI {
	return &PropertyTypeRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (typeRepo *PropertyTypeRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS property_type (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := typeRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("propertyTypeRepo.CreateTables", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	_, err = typeRepo.Pool.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS property_type_name_idx ON property_type(lower(name));`)
	if err != nil {
		return customerror.NewError("propertyTypeRepo.CreateTables", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	return nil
}

func (typeRepo *PropertyTypeRepository) GetTypes(ctx context.Context) ([]propertytype.PropertyType, error) {
	rows, err := typeRepo.Pool.Query(ctx, `SELECT id, name FROM property_type ORDER BY created_at, name`)
	if err != nil {
		return nil, customerror.NewError("propertyTypeRepo.GetTypes", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	defer rows.Close()
	types := []propertytype.PropertyType{}
	for rows.Next() {
		var propertyType propertytype.PropertyType
		if err := rows.Scan(&propertyType.Id, &propertyType.Name); err != nil {
			return nil, customerror.NewError("propertyTypeRepo.GetTypes", typeRepo.Host+":"+typeRepo.Port, err.Error())
		}
		types = append(types, propertyType)
	}
	return types, rows.Err()
}

func (typeRepo *PropertyTypeRepository) GetType(ctx context.Context, id uuid.UUID) (*propertytype.PropertyType, error) {
	var propertyType propertytype.PropertyType
	err := typeRepo.Pool.QueryRow(ctx, `SELECT id, name FROM property_type WHERE id = $1`, id).Scan(&propertyType.Id, &propertyType.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("propertyTypeRepo.GetType", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	return &propertyType, nil
}

func (typeRepo *PropertyTypeRepository) InsertType(ctx context.Context, propertyType *propertytype.PropertyType) error {
	_, err := typeRepo.Pool.Exec(ctx, `INSERT INTO property_type (id, name) VALUES ($1, $2)`, propertyType.Id, propertyType.Name)
	if err != nil {
		return customerror.NewError("propertyTypeRepo.InsertType", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	return nil
}

func (typeRepo *PropertyTypeRepository) UpdateType(ctx context.Context, propertyType *propertytype.PropertyType) error {
	command, err := typeRepo.Pool.Exec(ctx, `UPDATE property_type SET name = $1 WHERE id = $2`, propertyType.Name, propertyType.Id)
	if err != nil {
		return customerror.NewError("propertyTypeRepo.UpdateType", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (typeRepo *PropertyTypeRepository) DeleteType(ctx context.Context, id uuid.UUID) error {
	command, err := typeRepo.Pool.Exec(ctx, `DELETE FROM property_type WHERE id = $1`, id)
	if err != nil {
		return customerror.NewError("propertyTypeRepo.DeleteType", typeRepo.Host+":"+typeRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}
