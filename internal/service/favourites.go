package service

import (
	"context"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/property"
	"imovelhub/pkg/user"
	"time"

	"github.com/google/uuid"
)

type FavouritesServiceI interface {
	GetFavourites(user *user.User) ([]property.Property, error)
	InsertFavourite(propertyId uuid.UUID, user *user.User) error
	DeleteFavourite(propertyId uuid.UUID, user *user.User) error
}

type FavouritesService struct {
	favouritesRepo repository.FavouritesRepositoryI
	propertyRepo   repository.PropertyRepositoryI
	now            func() time.Time
}

func NewFavouritesService(favouritesRepo repository.FavouritesRepositoryI, propertyRepo repository.PropertyRepositoryI, now func() time.Time) FavouritesServiceI {
	return &FavouritesService{
		favouritesRepo: favouritesRepo,
		propertyRepo:   propertyRepo,
		now:            now,
	}
}

// GetFavourites lists saved listings that are still publicly visible.
func (s *FavouritesService) GetFavourites(user *user.User) ([]property.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	properties, err := s.favouritesRepo.GetFavourites(ctx, user.UUID)
	if err != nil {
		return []property.Property{}, customerror.Wrap(err, "FavouritesService.GetFavourites")
	}
	return property.StillVisible(properties, s.now()), nil
}

func (s *FavouritesService) InsertFavourite(propertyId uuid.UUID, user *user.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	found, err := s.propertyRepo.GetProperty(ctx, propertyId)
	if err != nil {
		return customerror.Wrap(err, "FavouritesService.InsertFavourite")
	}
	if !found.IsPubliclyVisible(s.now()) {
		return customerror.ErrNotFound
	}
	if err := s.favouritesRepo.InsertFavourite(ctx, propertyId, user.UUID); err != nil {
		return customerror.Wrap(err, "FavouritesService.InsertFavourite")
	}
	return nil
}

func (s *FavouritesService) DeleteFavourite(propertyId uuid.UUID, user *user.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.favouritesRepo.DeleteFavourite(ctx, propertyId, user.UUID); err != nil {
		return customerror.Wrap(err, "FavouritesService.DeleteFavourite")
	}
	return nil
}
