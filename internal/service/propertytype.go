package service

import (
	"context"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/propertytype"
	"time"

	"github.com/google/uuid"
)

type PropertyTypeServiceI interface {
	GetTypes() ([]propertytype.PropertyType, error)
	InsertType(name string) (*propertytype.PropertyType, error)
	UpdateType(id uuid.UUID, name string) (*propertytype.PropertyType, error)
	DeleteType(id uuid.UUID) error
}

type PropertyTypeService struct {
	typeRepo repository.PropertyTypeRepositoryI
}

func NewPropertyTypeService(typeRepo repository.PropertyTypeRepositoryI) PropertyTypeServiceI {
	return &PropertyTypeService{
		typeRepo: typeRepo,
	}
}

func (typeService *PropertyTypeService) GetTypes() ([]propertytype.PropertyType, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	types, err := typeService.typeRepo.GetTypes(ctx)
	if err != nil {
		return []propertytype.PropertyType{}, customerror.Wrap(err, "PropertyTypeService.GetTypes")
	}
	return types, nil
}

func (typeService *PropertyTypeService) InsertType(name string) (*propertytype.PropertyType, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	existing, err := typeService.typeRepo.GetTypes(ctx)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyTypeService.InsertType")
	}
	name, err = propertytype.Normalize(name, existing, uuid.Nil)
	if err != nil {
		return nil, err
	}
	created := &propertytype.PropertyType{Id: uuid.New(), Name: name}
	if err := typeService.typeRepo.InsertType(ctx, created); err != nil {
		return nil, customerror.Wrap(err, "PropertyTypeService.InsertType")
	}
	return created, nil
}

// UpdateType renames a catalog entry. Listings keep the name they were saved with.
func (typeService *PropertyTypeService) UpdateType(id uuid.UUID, name string) (*propertytype.PropertyType, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := typeService.typeRepo.GetType(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyTypeService.UpdateType")
	}
	existing, err := typeService.typeRepo.GetTypes(ctx)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyTypeService.UpdateType")
	}
	found.Name, err = propertytype.Normalize(name, existing, id)
	if err != nil {
		return nil, err
	}
	if err := typeService.typeRepo.UpdateType(ctx, found); err != nil {
		return nil, customerror.Wrap(err, "PropertyTypeService.UpdateType")
	}
	return found, nil
}

func (typeService *PropertyTypeService) DeleteType(id uuid.UUID) error {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	if err := typeService.typeRepo.DeleteType(ctx, id); err != nil {
		return customerror.Wrap(err, "PropertyTypeService.DeleteType")
	}
	return nil
}
