package repository_test

import (
	"imovelhub/pkg/inquiry"

	"github.com/google/uuid"
)

func inquiryFor(propertyId, senderId, recipientId uuid.UUID, adminInbox bool) *inquiry.Inquiry {
	return &inquiry.Inquiry{
		Id:          uuid.New(),
		PropertyId:  propertyId,
		SenderId:    senderId,
		RecipientId: recipientId,
		AdminInbox:  adminInbox,
		Message:     "Olá, ainda está disponível?",
		CreatedAt:   now,
	}
}
