package property

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPendingPayment  Status = "pending_payment"
	StatusPendingApproval Status = "pending_approval"
	StatusActive          Status = "active"
	StatusRejected        Status = "rejected"
)

func (status Status) Valid() bool {
	switch status {
	case StatusPendingPayment, StatusPendingApproval, StatusActive, StatusRejected:
		return true
	}
	return false
}

type ContactOverride string

const (
	ContactOwner ContactOverride = "owner"
	ContactAdmin ContactOverride = "admin"
)

func (contact ContactOverride) Valid() bool {
	return contact == ContactOwner || contact == ContactAdmin
}

// Default catalog entries.
const (
	TypeLand      = "Terreno"
	TypeHouse     = "Casa"
	TypeApartment = "Apartamento"
)

// Lifetime is how long a new listing stays publicly visible.
const Lifetime = 30 * 24 * time.Hour

type Property struct {
	Id              uuid.UUID       `json:"id"`
	OwnerId         uuid.UUID       `json:"owner_id"`
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	City            string          `json:"city"`
	Neighborhood    string          `json:"neighborhood"`
	Address         string          `json:"address"`
	Price           float64         `json:"price"`
	PriceOnRequest  bool            `json:"price_on_request"`
	CondoFee        float64         `json:"condo_fee"`
	Iptu            float64         `json:"iptu"`
	Area            float64         `json:"area"`
	Bedrooms        int             `json:"bedrooms"`
	Suites          int             `json:"suites"`
	Bathrooms       int             `json:"bathrooms"`
	GarageSpots     int             `json:"garage_spots"`
	Images          []string        `json:"images"`
	Lat             float64         `json:"lat"`
	Lng             float64         `json:"lng"`
	CreatedAt       time.Time       `json:"created_at"`
	Views           int64           `json:"views"`
	Status          Status          `json:"status"`
	ExpiresAt       *time.Time      `json:"expires_at"`
	ContactOverride ContactOverride `json:"contact_override"`
	HasPool         bool            `json:"has_pool"`
	IsFurnished     bool            `json:"is_furnished"`
	PetsAllowed     bool            `json:"pets_allowed"`
}

// Draft holds the fields an owner fills in when announcing a listing.
type Draft struct {
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	City           string   `json:"city"`
	Neighborhood   string   `json:"neighborhood"`
	Address        string   `json:"address"`
	Price          float64  `json:"price"`
	PriceOnRequest bool     `json:"price_on_request"`
	CondoFee       float64  `json:"condo_fee"`
	Iptu           float64  `json:"iptu"`
	Area           float64  `json:"area"`
	Bedrooms       int      `json:"bedrooms"`
	Suites         int      `json:"suites"`
	Bathrooms      int      `json:"bathrooms"`
	GarageSpots    int      `json:"garage_spots"`
	Images         []string `json:"images"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	HasPool        bool     `json:"has_pool"`
	IsFurnished    bool     `json:"is_furnished"`
	PetsAllowed    bool     `json:"pets_allowed"`
}

// New turns a draft into a listing awaiting payment.
func New(draft Draft, ownerId uuid.UUID, now time.Time) *Property {
	expiresAt := now.Add(Lifetime)
	images := make([]string, len(draft.Images))
	copy(images, draft.Images)
	return &Property{
		Id:              uuid.New(),
		OwnerId:         ownerId,
		Title:           draft.Title,
		Type:            draft.Type,
		Description:     draft.Description,
		City:            draft.City,
		Neighborhood:    draft.Neighborhood,
		Address:         draft.Address,
		Price:           draft.Price,
		PriceOnRequest:  draft.PriceOnRequest,
		CondoFee:        draft.CondoFee,
		Iptu:            draft.Iptu,
		Area:            draft.Area,
		Bedrooms:        draft.Bedrooms,
		Suites:          draft.Suites,
		Bathrooms:       draft.Bathrooms,
		GarageSpots:     draft.GarageSpots,
		Images:          images,
		Lat:             draft.Lat,
		Lng:             draft.Lng,
		CreatedAt:       now,
		Views:           0,
		Status:          StatusPendingPayment,
		ExpiresAt:       &expiresAt,
		ContactOverride: ContactOwner,
		HasPool:         draft.HasPool,
		IsFurnished:     draft.IsFurnished,
		PetsAllowed:     draft.PetsAllowed,
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title           *string          `json:"title"`
	Type            *string          `json:"type"`
	Description     *string          `json:"description"`
	City            *string          `json:"city"`
	Neighborhood    *string          `json:"neighborhood"`
	Address         *string          `json:"address"`
	Price           *float64         `json:"price"`
	PriceOnRequest  *bool            `json:"price_on_request"`
	CondoFee        *float64         `json:"condo_fee"`
	Iptu            *float64         `json:"iptu"`
	Area            *float64         `json:"area"`
	Bedrooms        *int             `json:"bedrooms"`
	Suites          *int             `json:"suites"`
	Bathrooms       *int             `json:"bathrooms"`
	GarageSpots     *int             `json:"garage_spots"`
	Images          *[]string        `json:"images"`
	Lat             *float64         `json:"lat"`
	Lng             *float64         `json:"lng"`
	HasPool         *bool            `json:"has_pool"`
	IsFurnished     *bool            `json:"is_furnished"`
	PetsAllowed     *bool            `json:"pets_allowed"`
	Status          *Status          `json:"status"`
	ExpiresAt       *time.Time       `json:"expires_at"`
	ContactOverride *ContactOverride `json:"contact_override"`
}

// TouchesAdminFields reports whether the patch changes fields reserved to administrators.
func (patch Patch) TouchesAdminFields() bool {
	return patch.Status != nil || patch.ExpiresAt != nil || patch.ContactOverride != nil
}

// Apply merges the patch into the listing. Identity, owner, creation time and views never change.
func (property *Property) Apply(patch Patch) {
	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.Type != nil {
		property.Type = *patch.Type
	}
	if patch.Description != nil {
		property.Description = *patch.Description
	}
	if patch.City != nil {
		property.City = *patch.City
	}
	if patch.Neighborhood != nil {
		property.Neighborhood = *patch.Neighborhood
	}
	if patch.Address != nil {
		property.Address = *patch.Address
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.PriceOnRequest != nil {
		property.PriceOnRequest = *patch.PriceOnRequest
	}
	if patch.CondoFee != nil {
		property.CondoFee = *patch.CondoFee
	}
	if patch.Iptu != nil {
		property.Iptu = *patch.Iptu
	}
	if patch.Area != nil {
		property.Area = *patch.Area
	}
	if patch.Bedrooms != nil {
		property.Bedrooms = *patch.Bedrooms
	}
	if patch.Suites != nil {
		property.Suites = *patch.Suites
	}
	if patch.Bathrooms != nil {
		property.Bathrooms = *patch.Bathrooms
	}
	if patch.GarageSpots != nil {
		property.GarageSpots = *patch.GarageSpots
	}
	if patch.Images != nil {
		property.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Lat != nil {
		property.Lat = *patch.Lat
	}
	if patch.Lng != nil {
		property.Lng = *patch.Lng
	}
	if patch.HasPool != nil {
		property.HasPool = *patch.HasPool
	}
	if patch.IsFurnished != nil {
		property.IsFurnished = *patch.IsFurnished
	}
	if patch.PetsAllowed != nil {
		property.PetsAllowed = *patch.PetsAllowed
	}
	if patch.Status != nil {
		property.Status = *patch.Status
	}
	if patch.ExpiresAt != nil {
		expiresAt := *patch.ExpiresAt
		property.ExpiresAt = &expiresAt
	}
	if patch.ContactOverride != nil {
		property.ContactOverride = *patch.ContactOverride
	}
}

// Clone returns a deep copy so callers never share the images slice.
func (property Property) Clone() Property {
	clone := property
	clone.Images = append([]string{}, property.Images...)
	if property.ExpiresAt != nil {
		expiresAt := *property.ExpiresAt
		clone.ExpiresAt = &expiresAt
	}
	return clone
}
