package repository

import (
	"context"
	"errors"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUsers(ctx context.Context) ([]user.User, error)
	InsertUser(ctx context.Context, user *user.User, credential *user.Credential) error
	UpdateUser(ctx context.Context, user *user.User) error
	GetCredential(ctx context.Context, userId uuid.UUID) (*user.Credential, error)
	UpdateCredential(ctx context.Context, credential *user.Credential) error
}

type UserRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewUserRepository(pool *pgxpool.Pool, host string, port string) UserRepositoryI {
	return &UserRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

const userColumns = `id, name, email, phone, account_type, role, status, validation_status, creci_number, creci_state,
	company_name, cnpj, document_type, document_number, document_url, proof_of_address_url, years_of_experience,
	service_regions, specialties, professional_website, contact_preference, preferred_contact_time, additional_notes,
	team_size, created_at, jwt_version`

func (userRepo *UserRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id                     UUID PRIMARY KEY,
		name                   TEXT NOT NULL DEFAULT '',
		email                  TEXT NOT NULL UNIQUE,
		phone                  TEXT NOT NULL DEFAULT '',
		account_type           TEXT NOT NULL DEFAULT 'particular',
		role                   TEXT NOT NULL DEFAULT 'user',
		status                 TEXT NOT NULL DEFAULT 'active',
		validation_status      TEXT NOT NULL DEFAULT 'not_submitted',
		creci_number           TEXT NOT NULL DEFAULT '',
		creci_state            TEXT NOT NULL DEFAULT '',
		company_name           TEXT NOT NULL DEFAULT '',
		cnpj                   TEXT NOT NULL DEFAULT '',
		document_type          TEXT NOT NULL DEFAULT '',
		document_number        TEXT NOT NULL DEFAULT '',
		document_url           TEXT NOT NULL DEFAULT '',
		proof_of_address_url   TEXT NOT NULL DEFAULT '',
		years_of_experience    TEXT NOT NULL DEFAULT '',
		service_regions        TEXT NOT NULL DEFAULT '',
		specialties            TEXT NOT NULL DEFAULT '',
		professional_website   TEXT NOT NULL DEFAULT '',
		contact_preference     TEXT NOT NULL DEFAULT '',
		preferred_contact_time TEXT NOT NULL DEFAULT '',
		additional_notes       TEXT NOT NULL DEFAULT '',
		team_size              TEXT NOT NULL DEFAULT '',
		created_at             TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		jwt_version            INTEGER NOT NULL DEFAULT 0,
		password_hash          TEXT NOT NULL DEFAULT '',
		reset_hash             TEXT NOT NULL DEFAULT '',
		reset_hash_created_at  TIMESTAMPTZ,
		reset_hash_attempts    INTEGER NOT NULL DEFAULT 0
	);`
	_, err := userRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("userRepo.CreateTables", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.UUID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.AccountType,
		&u.Role,
		&u.Status,
		&u.ValidationStatus,
		&u.CreciNumber,
		&u.CreciState,
		&u.CompanyName,
		&u.Cnpj,
		&u.DocumentType,
		&u.DocumentNumber,
		&u.DocumentUrl,
		&u.ProofOfAddressUrl,
		&u.YearsOfExperience,
		&u.ServiceRegions,
		&u.Specialties,
		&u.ProfessionalWebsite,
		&u.ContactPreference,
		&u.PreferredContactTime,
		&u.AdditionalNotes,
		&u.TeamSize,
		&u.CreatedAt,
		&u.JWTVersion,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (userRepo *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(userRepo.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("userRepo.GetUser", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return u, nil
}

// GetUserByEmail matches the address exactly.
func (userRepo *UserRepository) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(userRepo.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("userRepo.GetUserByEmail", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return u, nil
}

func (userRepo *UserRepository) GetUsers(ctx context.Context) ([]user.User, error) {
	rows, err := userRepo.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, customerror.NewError("userRepo.GetUsers", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	defer rows.Close()
	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, customerror.NewError("userRepo.GetUsers", userRepo.Host+":"+userRepo.Port, err.Error())
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, customerror.NewError("userRepo.GetUsers", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return users, nil
}

func (userRepo *UserRepository) InsertUser(ctx context.Context, u *user.User, credential *user.Credential) error {
	query := `INSERT INTO users (` + userColumns + `, password_hash) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := userRepo.Pool.Exec(ctx, query,
		u.UUID, u.Name, u.Email, u.Phone, u.AccountType, u.Role, u.Status, u.ValidationStatus, u.CreciNumber,
		u.CreciState, u.CompanyName, u.Cnpj, u.DocumentType, u.DocumentNumber, u.DocumentUrl, u.ProofOfAddressUrl,
		u.YearsOfExperience, u.ServiceRegions, u.Specialties, u.ProfessionalWebsite, u.ContactPreference,
		u.PreferredContactTime, u.AdditionalNotes, u.TeamSize, u.CreatedAt, u.JWTVersion, credential.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return customerror.ErrDuplicateEmail
		}
		return customerror.NewError("userRepo.InsertUser", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return nil
}

func (userRepo *UserRepository) UpdateUser(ctx context.Context, u *user.User) error {
	query := `UPDATE users SET name = $1, phone = $2, account_type = $3, role = $4, status = $5, validation_status = $6,
	creci_number = $7, creci_state = $8, company_name = $9, cnpj = $10, document_type = $11, document_number = $12,
	document_url = $13, proof_of_address_url = $14, years_of_experience = $15, service_regions = $16, specialties = $17,
	professional_website = $18, contact_preference = $19, preferred_contact_time = $20, additional_notes = $21,
	team_size = $22, jwt_version = $23 WHERE id = $24`
	command, err := userRepo.Pool.Exec(ctx, query,
		u.Name, u.Phone, u.AccountType, u.Role, u.Status, u.ValidationStatus, u.CreciNumber, u.CreciState,
		u.CompanyName, u.Cnpj, u.DocumentType, u.DocumentNumber, u.DocumentUrl, u.ProofOfAddressUrl,
		u.YearsOfExperience, u.ServiceRegions, u.Specialties, u.ProfessionalWebsite, u.ContactPreference,
		u.PreferredContactTime, u.AdditionalNotes, u.TeamSize, u.JWTVersion, u.UUID,
	)
	if err != nil {
		return customerror.NewError("userRepo.UpdateUser", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (userRepo *UserRepository) GetCredential(ctx context.Context, userId uuid.UUID) (*user.Credential, error) {
	credential := user.Credential{UserId: userId}
	query := `SELECT password_hash, reset_hash, reset_hash_created_at, reset_hash_attempts FROM users WHERE id = $1`
	err := userRepo.Pool.QueryRow(ctx, query, userId).Scan(
		&credential.PasswordHash,
		&credential.ResetHash,
		&credential.ResetHashCreatedAt,
		&credential.ResetHashAttempts,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError("userRepo.GetCredential", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	return &credential, nil
}

func (userRepo *UserRepository) UpdateCredential(ctx context.Context, credential *user.Credential) error {
	query := `UPDATE users SET password_hash = $1, reset_hash = $2, reset_hash_created_at = $3, reset_hash_attempts = $4 WHERE id = $5`
	command, err := userRepo.Pool.Exec(ctx, query,
		credential.PasswordHash,
		credential.ResetHash,
		credential.ResetHashCreatedAt,
		credential.ResetHashAttempts,
		credential.UserId,
	)
	if err != nil {
		return customerror.NewError("userRepo.UpdateCredential", userRepo.Host+":"+userRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}
