package favourites

import (
	"time"

	"github.com/google/uuid"
)

type Favourite struct {
	UserId     uuid.UUID `json:"user_id"`
	PropertyId uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
