package service

import (
	"context"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/user"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserServiceI interface {
	GetUser(id uuid.UUID) (*user.User, error)
	GetUsers() ([]user.User, error)
	UpdateUser(id uuid.UUID, patch user.Patch, actor *user.User) (*user.User, error)
	UpdateUserStatus(id uuid.UUID, status user.Status, actor *user.User) (*user.User, error)
	SubmitValidation(id uuid.UUID, phone string, professional user.Professional) (*user.User, error)
	DecideValidation(id uuid.UUID, decision user.ValidationStatus) (*user.User, error)
}

type UserService struct {
	userRepo     repository.UserRepositoryI
	propertyRepo repository.PropertyRepositoryI
}

func NewUserService(userRepo repository.UserRepositoryI, propertyRepo repository.PropertyRepositoryI) UserServiceI {
	return &UserService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
	}
}

func (userService *UserService) GetUser(id uuid.UUID) (*user.User, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := userService.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "UserService.GetUser")
	}
	return found, nil
}

// GetUsers lists every account with the number of listings it owns.
func (userService *UserService) GetUsers() ([]user.User, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	users, err := userService.userRepo.GetUsers(ctx)
	if err != nil {
		return []user.User{}, customerror.Wrap(err, "UserService.GetUsers")
	}
	counts, err := userService.propertyRepo.CountPropertiesByOwner(ctx)
	if err != nil {
		return []user.User{}, customerror.Wrap(err, "UserService.GetUsers")
	}
	for i := range users {
		count := counts[users[i].UUID]
		users[i].PropertyCount = &count
	}
	return users, nil
}

func validatePatch(patch user.Patch) error {
	fields := customerror.ValidationErrors{}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		fields["name"] = "field is required"
	}
	if patch.Role != nil && !patch.Role.Valid() {
		fields["role"] = "must be user or admin"
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fields["status"] = "must be active or blocked"
	}
	if patch.ValidationStatus != nil && !patch.ValidationStatus.Valid() {
		fields["validation_status"] = "unknown validation status"
	}
	return fields.OrNil()
}

// UpdateUser changes a profile. Blocking an account invalidates its outstanding tokens.
func (userService *UserService) UpdateUser(id uuid.UUID, patch user.Patch, actor *user.User) (*user.User, error) {
	if !actor.IsAdmin() && (actor.UUID != id || patch.TouchesAdminFields()) {
		return nil, customerror.ErrForbidden
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := userService.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "UserService.UpdateUser")
	}
	wasBlocked := found.IsBlocked()
	found.Apply(patch)
	found.Name = strings.TrimSpace(found.Name)
	if !wasBlocked && found.IsBlocked() {
		found.JWTVersion++
	}
	if err := userService.userRepo.UpdateUser(ctx, found); err != nil {
		return nil, customerror.Wrap(err, "UserService.UpdateUser")
	}
	return found, nil
}

func (userService *UserService) UpdateUserStatus(id uuid.UUID, status user.Status, actor *user.User) (*user.User, error) {
	if status == user.StatusBlocked && actor.UUID == id {
		return nil, customerror.ErrForbidden
	}
	return userService.UpdateUser(id, user.Patch{Status: &status}, actor)
}

// SubmitValidation sends a broker or agency registration for review.
func (userService *UserService) SubmitValidation(id uuid.UUID, phone string, professional user.Professional) (*user.User, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := userService.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "UserService.SubmitValidation")
	}
	if found.ValidationStatus == user.ValidationPending || found.ValidationStatus == user.ValidationApproved {
		return nil, customerror.ErrInvalidTransition
	}
	if err := user.ValidateSubmission(found.AccountType, phone, professional); err != nil {
		return nil, err
	}
	found.Phone = strings.TrimSpace(phone)
	found.Professional = professional
	found.ValidationStatus = user.ValidationPending
	if err := userService.userRepo.UpdateUser(ctx, found); err != nil {
		return nil, customerror.Wrap(err, "UserService.SubmitValidation")
	}
	return found, nil
}

func (userService *UserService) DecideValidation(id uuid.UUID, decision user.ValidationStatus) (*user.User, error) {
	if decision != user.ValidationApproved && decision != user.ValidationRejected {
		return nil, customerror.ValidationErrors{"validation_status": "must be approved or rejected"}
	}
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := userService.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "UserService.DecideValidation")
	}
	if found.ValidationStatus != user.ValidationPending {
		return nil, customerror.ErrInvalidTransition
	}
	found.ValidationStatus = decision
	if err := userService.userRepo.UpdateUser(ctx, found); err != nil {
		return nil, customerror.Wrap(err, "UserService.DecideValidation")
	}
	return found, nil
}
