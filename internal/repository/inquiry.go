package repository

import (
	"context"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/inquiry"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InquiryRepositoryI interface {
	CreateTables(ctx context.Context) error
	InsertInquiry(ctx context.Context, inquiry *inquiry.Inquiry) error
	GetInquiries(ctx context.Context, userId uuid.UUID, withAdminInbox bool) ([]inquiry.Inquiry, error)
}

type InquiryRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewInquiryRepository(pool *pgxpool.Pool, host string, port string) InquiryRepositoryI {
	return &InquiryRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (r *InquiryRepository) CreateTables(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS inquiry (
		id              UUID PRIMARY KEY,
		property_id     UUID NOT NULL,
		sender_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipient_id    UUID,
		admin_inbox     BOOLEAN NOT NULL DEFAULT FALSE,
		recipient_phone TEXT NOT NULL DEFAULT '',
		message         TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := r.Pool.Exec(ctx, query)
	if err != nil {
		return customerror.NewError("InquiryRepository.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *InquiryRepository) InsertInquiry(ctx context.Context, i *inquiry.Inquiry) error {
	var recipient *uuid.UUID
	if i.RecipientId != uuid.Nil {
		recipient = &i.RecipientId
	}
	query := `INSERT INTO inquiry (id, property_id, sender_id, recipient_id, admin_inbox, recipient_phone, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.Pool.Exec(ctx, query, i.Id, i.PropertyId, i.SenderId, recipient, i.AdminInbox, i.RecipientPhone, i.Message, i.CreatedAt)
	if err != nil {
		return customerror.NewError("InquiryRepository.InsertInquiry", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

func (r *InquiryRepository) GetInquiries(ctx context.Context, userId uuid.UUID, withAdminInbox bool) ([]inquiry.Inquiry, error) {
	query := `SELECT id, property_id, sender_id, recipient_id, admin_inbox, recipient_phone, message, created_at
	FROM inquiry WHERE sender_id = $1 OR recipient_id = $1 OR (admin_inbox AND $2) ORDER BY created_at DESC`
	rows, err := r.Pool.Query(ctx, query, userId, withAdminInbox)
	if err != nil {
		return nil, customerror.NewError("InquiryRepository.GetInquiries", r.Host+":"+r.Port, err.Error())
	}
	defer rows.Close()
	inquiries := []inquiry.Inquiry{}
	for rows.Next() {
		var i inquiry.Inquiry
		var recipient *uuid.UUID
		err := rows.Scan(&i.Id, &i.PropertyId, &i.SenderId, &recipient, &i.AdminInbox, &i.RecipientPhone, &i.Message, &i.CreatedAt)
		if err != nil {
			return nil, customerror.NewError("InquiryRepository.GetInquiries", r.Host+":"+r.Port, err.Error())
		}
		if recipient != nil {
			i.RecipientId = *recipient
		}
		inquiries = append(inquiries, i)
	}
	return inquiries, rows.Err()
}
