package repository

import (
	"context"
	"errors"
	"fmt"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/property"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetProperties(ctx context.Context, filter property.Filter, now time.Time) ([]property.Property, error)
	GetPropertiesByOwner(ctx context.Context, ownerId uuid.UUID) ([]property.Property, error)
	GetAllProperties(ctx context.Context) ([]property.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error)
	InsertProperty(ctx context.Context, property *property.Property) error
	UpdateProperty(ctx context.Context, property *property.Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) (bool, error)
	CountPropertiesByOwner(ctx context.Context) (map[uuid.UUID]int, error)
	CountExpired(ctx context.Context, now time.Time) (int, error)
}

type PropertyRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewPropertyRepository(pool *pgxpool.Pool, host string, port string) PropertyRepositoryI {
	return &PropertyRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

const propertyColumns = `id, owner_id, title, type, description, city, neighborhood, address, price, price_on_request,
	condo_fee, iptu, area, bedrooms, suites, bathrooms, garage_spots, images, lat, lng, created_at, views, status,
	expires_at, contact_override, has_pool, is_furnished, pets_allowed`

func qualifiedPropertyColumns(table string) string {
	columns := strings.Split(propertyColumns, ",")
	for i, column := range columns {
		columns[i] = table + "." + strings.TrimSpace(column)
	}
	return strings.Join(columns, ", ")
}

func (propertyRepo *PropertyRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS property (
		id               UUID PRIMARY KEY,
		owner_id         UUID NOT NULL,
		title            TEXT NOT NULL,
		type             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		city             TEXT NOT NULL,
		neighborhood     TEXT NOT NULL DEFAULT '',
		address          TEXT NOT NULL DEFAULT '',
		price            DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
		price_on_request BOOLEAN NOT NULL DEFAULT FALSE,
		condo_fee        DOUBLE PRECISION NOT NULL DEFAULT 0,
		iptu             DOUBLE PRECISION NOT NULL DEFAULT 0,
		area             DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (area >= 0),
		bedrooms         INTEGER NOT NULL DEFAULT 0,
		suites           INTEGER NOT NULL DEFAULT 0,
		bathrooms        INTEGER NOT NULL DEFAULT 0,
		garage_spots     INTEGER NOT NULL DEFAULT 0,
		images           TEXT[] NOT NULL DEFAULT '{}',
		lat              DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng              DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		views            BIGINT NOT NULL DEFAULT 0,
		status           TEXT NOT NULL,
		expires_at       TIMESTAMPTZ,
		contact_override TEXT NOT NULL DEFAULT 'owner',
		has_pool         BOOLEAN NOT NULL DEFAULT FALSE,
		is_furnished     BOOLEAN NOT NULL DEFAULT FALSE,
		pets_allowed     BOOLEAN NOT NULL DEFAULT FALSE,
		CONSTRAINT property_suites_check CHECK (suites <= bedrooms)
	);`
	_, err := propertyRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("propertyRepo.CreateTables", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	for _, createIndexQuery := range []string{
		`CREATE INDEX IF NOT EXISTS property_owner_id_idx ON property(owner_id);`,
		`CREATE INDEX IF NOT EXISTS property_status_idx ON property(status, created_at DESC);`,
	} {
		_, err = propertyRepo.Pool.Exec(ctx, createIndexQuery)
		if err != nil {
			return customerror.NewError("propertyRepo.CreateTables", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
	}
	return nil
}

func scanProperty(row pgx.Row) (*property.Property, error) {
	var p property.Property
	err := row.Scan(
		&p.Id,
		&p.OwnerId,
		&p.Title,
		&p.Type,
		&p.Description,
		&p.City,
		&p.Neighborhood,
		&p.Address,
		&p.Price,
		&p.PriceOnRequest,
		&p.CondoFee,
		&p.Iptu,
		&p.Area,
		&p.Bedrooms,
		&p.Suites,
		&p.Bathrooms,
		&p.GarageSpots,
		&p.Images,
		&p.Lat,
		&p.Lng,
		&p.CreatedAt,
		&p.Views,
		&p.Status,
		&p.ExpiresAt,
		&p.ContactOverride,
		&p.HasPool,
		&p.IsFurnished,
		&p.PetsAllowed,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (propertyRepo *PropertyRepository) queryProperties(ctx context.Context, module string, query string, params ...any) ([]property.Property, error) {
	rows, err := propertyRepo.Pool.Query(ctx, query, params...)
	if err != nil {
		return nil, customerror.NewError(module, propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	defer rows.Close()
	properties := []property.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, customerror.NewError(module, propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, customerror.NewError(module, propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return properties, nil
}

// GetProperties returns the public feed. The predicate mirrors property.Filter.Matches.
func (propertyRepo *PropertyRepository) GetProperties(ctx context.Context, filter property.Filter, now time.Time) ([]property.Property, error) {
	filtersCount := 1
	query := `SELECT ` + propertyColumns + ` FROM property WHERE status = $1 AND (expires_at IS NULL OR expires_at >= $2)`
	params := []any{property.StatusActive, now}
	filtersCount += 2

	if filter.Type != "" {
		query += " AND type = $" + fmt.Sprint(filtersCount)
		params = append(params, filter.Type)
		filtersCount++
	}
	if filter.City != "" {
		query += " AND strpos(lower(city), lower($" + fmt.Sprint(filtersCount) + ")) > 0"
		params = append(params, filter.City)
		filtersCount++
	}
	if filter.MaxPrice != nil {
		query += " AND price <= $" + fmt.Sprint(filtersCount)
		params = append(params, *filter.MaxPrice)
		filtersCount++
	}
	if filter.MaxArea != nil {
		query += " AND area <= $" + fmt.Sprint(filtersCount)
		params = append(params, *filter.MaxArea)
		filtersCount++
	}
	if filter.Query != "" {
		n := fmt.Sprint(filtersCount)
		query += " AND (strpos(lower(title), lower($" + n + ")) > 0 OR strpos(lower(description), lower($" + n +
			")) > 0 OR strpos(lower(city), lower($" + n + ")) > 0 OR strpos(lower(neighborhood), lower($" + n + ")) > 0)"
		params = append(params, filter.Query)
		filtersCount++
	}
	query += " ORDER BY created_at DESC"
	if filter.Offset > 0 {
		query += " OFFSET $" + fmt.Sprint(filtersCount)
		params = append(params, filter.Offset)
		filtersCount++
	}
	if filter.Limit > 0 {
		query += " LIMIT $" + fmt.Sprint(filtersCount)
		params = append(params, filter.Limit)
	}
	return propertyRepo.queryProperties(ctx, "propertyRepo.GetProperties", query, params...)
}

func (propertyRepo *PropertyRepository) GetPropertiesByOwner(ctx context.Context, ownerId uuid.UUID) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM property WHERE owner_id = $1 ORDER BY created_at DESC`
	return propertyRepo.queryProperties(ctx, "propertyRepo.GetPropertiesByOwner", query, ownerId)
}

func (propertyRepo *PropertyRepository) GetAllProperties(ctx context.Context) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM property ORDER BY created_at DESC`
	return propertyRepo.queryProperties(ctx, "propertyRepo.GetAllProperties", query)
}

func (propertyRepo *PropertyRepository) GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM property WHERE id = $1`
	p, err := scanProperty(propertyRepo.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("propertyRepo.GetProperty", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return p, nil
}

func (propertyRepo *PropertyRepository) InsertProperty(ctx context.Context, p *property.Property) error {
	query := `INSERT INTO property (` + propertyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err := propertyRepo.Pool.Exec(ctx, query,
		p.Id, p.OwnerId, p.Title, p.Type, p.Description, p.City, p.Neighborhood, p.Address, p.Price, p.PriceOnRequest,
		p.CondoFee, p.Iptu, p.Area, p.Bedrooms, p.Suites, p.Bathrooms, p.GarageSpots, p.Images, p.Lat, p.Lng,
		p.CreatedAt, p.Views, p.Status, p.ExpiresAt, p.ContactOverride, p.HasPool, p.IsFurnished, p.PetsAllowed,
	)
	if err != nil {
		return customerror.NewError("propertyRepo.InsertProperty", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return nil
}

// UpdateProperty writes every mutable column. Views are owned by IncrementViews and left out.
func (propertyRepo *PropertyRepository) UpdateProperty(ctx context.Context, p *property.Property) error {
	query := `UPDATE property SET title = $1, type = $2, description = $3, city = $4, neighborhood = $5, address = $6,
	price = $7, price_on_request = $8, condo_fee = $9, iptu = $10, area = $11, bedrooms = $12, suites = $13,
	bathrooms = $14, garage_spots = $15, images = $16, lat = $17, lng = $18, status = $19, expires_at = $20,
	contact_override = $21, has_pool = $22, is_furnished = $23, pets_allowed = $24 WHERE id = $25`
	command, err := propertyRepo.Pool.Exec(ctx, query,
		p.Title, p.Type, p.Description, p.City, p.Neighborhood, p.Address, p.Price, p.PriceOnRequest, p.CondoFee,
		p.Iptu, p.Area, p.Bedrooms, p.Suites, p.Bathrooms, p.GarageSpots, p.Images, p.Lat, p.Lng, p.Status,
		p.ExpiresAt, p.ContactOverride, p.HasPool, p.IsFurnished, p.PetsAllowed, p.Id,
	)
	if err != nil {
		return customerror.NewError("propertyRepo.UpdateProperty", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (propertyRepo *PropertyRepository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	command, err := propertyRepo.Pool.Exec(ctx, `DELETE FROM property WHERE id = $1`, id)
	if err != nil {
		return customerror.NewError("propertyRepo.DeleteProperty", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (propertyRepo *PropertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) (bool, error) {
	command, err := propertyRepo.Pool.Exec(ctx, `UPDATE property SET views = views + 1 WHERE id = $1 AND status = $2`, id, property.StatusActive)
	if err != nil {
		return false, customerror.NewError("propertyRepo.IncrementViews", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return command.RowsAffected() > 0, nil
}

func (propertyRepo *PropertyRepository) CountPropertiesByOwner(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := propertyRepo.Pool.Query(ctx, `SELECT owner_id, COUNT(*) FROM property GROUP BY owner_id`)
	if err != nil {
		return nil, customerror.NewError("propertyRepo.CountPropertiesByOwner", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	defer rows.Close()
	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var ownerId uuid.UUID
		var count int
		if err := rows.Scan(&ownerId, &count); err != nil {
			return nil, customerror.NewError("propertyRepo.CountPropertiesByOwner", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
		counts[ownerId] = count
	}
	return counts, rows.Err()
}

func (propertyRepo *PropertyRepository) CountExpired(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := propertyRepo.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM property WHERE status = $1 AND expires_at < $2`, property.StatusActive, now).Scan(&count)
	if err != nil {
		return 0, customerror.NewError("propertyRepo.CountExpired", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return count, nil
}
