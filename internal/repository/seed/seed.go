package seed

import (
	"context"
	_ "embed"
	"fmt"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/property"
	"imovelhub/pkg/propertytype"
	"imovelhub/pkg/security"
	"imovelhub/pkg/settings"
	"imovelhub/pkg/user"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedData []byte

type User struct {
	Id               uuid.UUID             `yaml:"id"`
	Name             string                `yaml:"name"`
	Email            string                `yaml:"email"`
	Password         string                `yaml:"password"`
	Phone            string                `yaml:"phone"`
	AccountType      user.AccountType      `yaml:"account_type"`
	Role             user.Role             `yaml:"role"`
	Status           user.Status           `yaml:"status"`
	ValidationStatus user.ValidationStatus `yaml:"validation_status"`
	Professional     user.Professional     `yaml:"professional"`
}

type Property struct {
	Id              uuid.UUID                `yaml:"id"`
	OwnerId         uuid.UUID                `yaml:"owner_id"`
	Title           string                   `yaml:"title"`
	Type            string                   `yaml:"type"`
	Description     string                   `yaml:"description"`
	City            string                   `yaml:"city"`
	Neighborhood    string                   `yaml:"neighborhood"`
	Address         string                   `yaml:"address"`
	Price           float64                  `yaml:"price"`
	PriceOnRequest  bool                     `yaml:"price_on_request"`
	CondoFee        float64                  `yaml:"condo_fee"`
	Iptu            float64                  `yaml:"iptu"`
	Area            float64                  `yaml:"area"`
	Bedrooms        int                      `yaml:"bedrooms"`
	Suites          int                      `yaml:"suites"`
	Bathrooms       int                      `yaml:"bathrooms"`
	GarageSpots     int                      `yaml:"garage_spots"`
	ImageSeed       int                      `yaml:"image_seed"`
	ImageCount      int                      `yaml:"image_count"`
	Lat             float64                  `yaml:"lat"`
	Lng             float64                  `yaml:"lng"`
	CreatedHoursAgo int                      `yaml:"created_hours_ago"`
	Views           int64                    `yaml:"views"`
	Status          property.Status          `yaml:"status"`
	ExpiresInDays   int                      `yaml:"expires_in_days"`
	ContactOverride property.ContactOverride `yaml:"contact_override"`
	HasPool         bool                     `yaml:"has_pool"`
	IsFurnished     bool                     `yaml:"is_furnished"`
	PetsAllowed     bool                     `yaml:"pets_allowed"`
}

type Data struct {
	Settings      settings.Settings           `yaml:"settings"`
	PropertyTypes []propertytype.PropertyType `yaml:"property_types"`
	Users         []User                      `yaml:"users"`
	Properties    []Property                  `yaml:"properties"`
}

// Stores groups the repositories the demo data is written to.
type Stores struct {
	Users         repository.UserRepositoryI
	Properties    repository.PropertyRepositoryI
	Settings      repository.SettingsRepositoryI
	PropertyTypes repository.PropertyTypeRepositoryI
}

func Load() (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(seedData, &data); err != nil {
		return nil, customerror.NewError("seed.Load", "", err.Error())
	}
	return &data, nil
}

// Build materialises the fixture relative to now.
func (p Property) Build(now time.Time) property.Property {
	images := make([]string, 0, p.ImageCount)
	for i := 0; i < p.ImageCount; i++ {
		images = append(images, fmt.Sprintf("https://picsum.photos/seed/%d/800/600", p.ImageSeed+i))
	}
	var expiresAt *time.Time
	if p.ExpiresInDays > 0 {
		at := now.AddDate(0, 0, p.ExpiresInDays)
		expiresAt = &at
	}
	return property.Property{
		Id:              p.Id,
		OwnerId:         p.OwnerId,
		Title:           p.Title,
		Type:            p.Type,
		Description:     p.Description,
		City:            p.City,
		Neighborhood:    p.Neighborhood,
		Address:         p.Address,
		Price:           p.Price,
		PriceOnRequest:  p.PriceOnRequest,
		CondoFee:        p.CondoFee,
		Iptu:            p.Iptu,
		Area:            p.Area,
		Bedrooms:        p.Bedrooms,
		Suites:          p.Suites,
		Bathrooms:       p.Bathrooms,
		GarageSpots:     p.GarageSpots,
		Images:          images,
		Lat:             p.Lat,
		Lng:             p.Lng,
		CreatedAt:       now.Add(-time.Duration(p.CreatedHoursAgo) * time.Hour),
		Views:           p.Views,
		Status:          p.Status,
		ExpiresAt:       expiresAt,
		ContactOverride: p.ContactOverride,
		HasPool:         p.HasPool,
		IsFurnished:     p.IsFurnished,
		PetsAllowed:     p.PetsAllowed,
	}
}

// Apply writes the demo data. Users are created before their listings.
func Apply(ctx context.Context, stores Stores, data *Data, now time.Time) error {
	if err := stores.Settings.UpdateSettings(ctx, &data.Settings); err != nil {
		return customerror.Wrap(err, "seed.Apply")
	}
	for i := range data.PropertyTypes {
		if err := stores.PropertyTypes.InsertType(ctx, &data.PropertyTypes[i]); err != nil {
			return customerror.Wrap(err, "seed.Apply")
		}
	}
	for i, fixture := range data.Users {
		hash, err := security.HashPassword(fixture.Password)
		if err != nil {
			return customerror.NewError("seed.Apply", "", err.Error())
		}
		account := user.User{
			UUID:             fixture.Id,
			Name:             fixture.Name,
			Email:            fixture.Email,
			Phone:            fixture.Phone,
			AccountType:      fixture.AccountType,
			Role:             fixture.Role,
			Status:           fixture.Status,
			ValidationStatus: fixture.ValidationStatus,
			Professional:     fixture.Professional,
			CreatedAt:        now.Add(-time.Duration(len(data.Users)-i) * time.Hour),
		}
		if err := stores.Users.InsertUser(ctx, &account, &user.Credential{UserId: account.UUID, PasswordHash: hash}); err != nil {
			return customerror.Wrap(err, "seed.Apply")
		}
	}
	for _, fixture := range data.Properties {
		listing := fixture.Build(now)
		if err := stores.Properties.InsertProperty(ctx, &listing); err != nil {
			return customerror.Wrap(err, "seed.Apply")
		}
	}
	return nil
}

// NewMemoryStore returns a memory store holding the demo data.
func NewMemoryStore(ctx context.Context, now time.Time) (*repository.MemoryStore, error) {
	data, err := Load()
	if err != nil {
		return nil, err
	}
	store := repository.NewMemoryStore()
	stores := Stores{Users: store, Properties: store, Settings: store, PropertyTypes: store}
	if err := Apply(ctx, stores, data, now); err != nil {
		return nil, err
	}
	return store, nil
}
