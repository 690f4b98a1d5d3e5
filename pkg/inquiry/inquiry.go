package inquiry

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a buyer message about a listing. RecipientId is uuid.Nil when it goes to the admin inbox.
type Inquiry struct {
	Id             uuid.UUID `json:"id"`
	PropertyId     uuid.UUID `json:"property_id"`
	SenderId       uuid.UUID `json:"sender_id"`
	RecipientId    uuid.UUID `json:"recipient_id"`
	AdminInbox     bool      `json:"admin_inbox"`
	RecipientPhone string    `json:"recipient_phone"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

// MaxLength bounds a single message.
const MaxLength = 2000
