package service

import (
	"context"
	"errors"
	"imovelhub/internal/repository"
	"imovelhub/pkg/cache"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/media"
	"imovelhub/pkg/metrics"
	"imovelhub/pkg/property"
	"imovelhub/pkg/propertytype"
	"imovelhub/pkg/user"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PropertyServiceI interface {
	GetProperties(filter property.Filter) ([]property.Property, error)
	GetPropertiesByOwner(ownerId uuid.UUID) ([]property.Property, error)
	GetAllProperties() ([]property.Property, error)
	GetProperty(id uuid.UUID) (*property.Property, error)
	GetPropertyDetail(id uuid.UUID, viewer *user.User) (*PropertyDetail, error)
	InsertProperty(draft property.Draft, owner *user.User) (*property.Property, error)
	UpdateProperty(id uuid.UUID, patch property.Patch, actor *user.User) (*property.Property, error)
	DeleteProperty(id uuid.UUID, actor *user.User) error
	SimulatePayment(id uuid.UUID, actor *user.User) (*property.Property, error)
	ApproveProperty(id uuid.UUID) (*property.Property, error)
	RejectProperty(id uuid.UUID) (*property.Property, error)
	InsertPropertyImage(file *multipart.FileHeader, id uuid.UUID, actor *user.User) (*property.Property, error)
	DeletePropertyImage(id uuid.UUID, index int, actor *user.User) (*property.Property, error)
}

// OwnerSummary is what a listing page shows about the announcer.
type OwnerSummary struct {
	Id               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	AccountType      user.AccountType      `json:"account_type"`
	ValidationStatus user.ValidationStatus `json:"validation_status"`
}

type PropertyDetail struct {
	property.View
	Owner        *OwnerSummary `json:"owner"`
	ContactPhone string        `json:"contact_phone"`
}

type PropertyService struct {
	propertyRepo repository.PropertyRepositoryI
	userRepo     repository.UserRepositoryI
	typeRepo     repository.PropertyTypeRepositoryI
	settingsRepo repository.SettingsRepositoryI
	feedCache    cache.FeedCache
	storage      media.Storage
	metrics      *metrics.Metrics
	host         string
	port         string
	now          func() time.Time
}

func NewPropertyService(
	propertyRepo repository.PropertyRepositoryI,
	userRepo repository.UserRepositoryI,
	typeRepo repository.PropertyTypeRepositoryI,
	settingsRepo repository.SettingsRepositoryI,
	feedCache cache.FeedCache,
	storage media.Storage,
	metrics *metrics.Metrics,
	host string,
	port string,
	now func() time.Time,
) PropertyServiceI {
	return &PropertyService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		typeRepo:     typeRepo,
		settingsRepo: settingsRepo,
		feedCache:    feedCache,
		storage:      storage,
		metrics:      metrics,
		host:         host,
		port:         port,
		now:          now,
	}
}

func filterParams(filter property.Filter) map[string]string {
	params := map[string]string{
		"type":   filter.Type,
		"city":   strings.ToLower(filter.City),
		"q":      strings.ToLower(filter.Query),
		"offset": strconv.Itoa(filter.Offset),
		"limit":  strconv.Itoa(filter.Limit),
	}
	if filter.MaxPrice != nil {
		params["max_price"] = strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64)
	}
	if filter.MaxArea != nil {
		params["max_area"] = strconv.FormatFloat(*filter.MaxArea, 'f', -1, 64)
	}
	return params
}

// GetProperties serves the public feed. Cached pages are re-checked against the clock
// because a listing may expire while its page is still cached.
func (propertyService *PropertyService) GetProperties(filter property.Filter) ([]property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	now := propertyService.now()
	params := filterParams(filter)
	var cached []property.Property
	hit, err := propertyService.feedCache.Get(ctx, params, &cached)
	if err != nil {
		log.Print(customerror.NewError("PropertyService.GetProperties", propertyService.host+":"+propertyService.port, err.Error()).Error())
	}
	if hit {
		return property.StillVisible(cached, now), nil
	}
	properties, err := propertyService.propertyRepo.GetProperties(ctx, filter, now)
	if err != nil {
		return []property.Property{}, customerror.Wrap(err, "PropertyService.GetProperties")
	}
	if err := propertyService.feedCache.Set(ctx, params, properties); err != nil {
		log.Print(customerror.NewError("PropertyService.GetProperties", propertyService.host+":"+propertyService.port, err.Error()).Error())
	}
	return properties, nil
}

func (propertyService *PropertyService) GetPropertiesByOwner(ownerId uuid.UUID) ([]property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	properties, err := propertyService.propertyRepo.GetPropertiesByOwner(ctx, ownerId)
	if err != nil {
		return []property.Property{}, customerror.Wrap(err, "PropertyService.GetPropertiesByOwner")
	}
	return properties, nil
}

func (propertyService *PropertyService) GetAllProperties() ([]property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	properties, err := propertyService.propertyRepo.GetAllProperties(ctx)
	if err != nil {
		return []property.Property{}, customerror.Wrap(err, "PropertyService.GetAllProperties")
	}
	return properties, nil
}

func (propertyService *PropertyService) GetProperty(id uuid.UUID) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.GetProperty")
	}
	return found, nil
}

func canManage(found *property.Property, actor *user.User) bool {
	return actor != nil && (actor.IsAdmin() || found.OwnerId == actor.UUID)
}

// GetPropertyDetail renders one listing for viewer, who may be nil. Listings outside the
// public feed are only shown to their owner and to administrators.
func (propertyService *PropertyService) GetPropertyDetail(id uuid.UUID, viewer *user.User) (*PropertyDetail, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.GetPropertyDetail")
	}
	if !found.IsPubliclyVisible(propertyService.now()) && !canManage(found, viewer) {
		return nil, customerror.ErrNotFound
	}
	if found.CountsViews() {
		counted, err := propertyService.propertyRepo.IncrementViews(ctx, id)
		if err != nil {
			return nil, customerror.Wrap(err, "PropertyService.GetPropertyDetail")
		}
		if counted {
			found.Views++
			propertyService.metrics.PropertyViews.Inc()
		}
	}
	detail := &PropertyDetail{View: property.ViewFor(*found, viewer != nil)}
	ownerPhone := ""
	owner, err := propertyService.userRepo.GetUser(ctx, found.OwnerId)
	switch {
	case err == nil:
		ownerPhone = owner.Phone
		detail.Owner = &OwnerSummary{
			Id:               owner.UUID,
			Name:             owner.Name,
			AccountType:      owner.AccountType,
			ValidationStatus: owner.ValidationStatus,
		}
	case !errors.Is(err, customerror.ErrNotFound):
		return nil, customerror.Wrap(err, "PropertyService.GetPropertyDetail")
	}
	current, err := loadSettings(ctx, propertyService.settingsRepo)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.GetPropertyDetail")
	}
	detail.ContactPhone = property.ContactPhone(*found, ownerPhone, current.AdminContactPhone)
	return detail, nil
}

// catalog returns the current type names.
func (propertyService *PropertyService) catalog(ctx context.Context) ([]string, error) {
	types, err := propertyService.typeRepo.GetTypes(ctx)
	if err != nil {
		return nil, err
	}
	return propertytype.Names(types), nil
}

// canonicalType stores the catalog spelling of a type that matches case-insensitively.
func canonicalType(names []string, value string) string {
	value = strings.TrimSpace(value)
	for _, name := range names {
		if strings.EqualFold(name, value) {
			return name
		}
	}
	return value
}

// validate checks a listing before it is written. The type is checked against the catalog only when it
// differs from previousType, so removing a type from the catalog leaves existing listings editable.
func (propertyService *PropertyService) validate(ctx context.Context, found *property.Property, previousType string) error {
	names, err := propertyService.catalog(ctx)
	if err != nil {
		return customerror.Wrap(err, "PropertyService.validate")
	}
	found.Title = strings.TrimSpace(found.Title)
	found.City = strings.TrimSpace(found.City)
	found.Type = canonicalType(names, found.Type)
	if previousType != "" && strings.EqualFold(found.Type, previousType) {
		found.Type = previousType
		names = nil
	}
	return found.Validate(names)
}

func (propertyService *PropertyService) invalidateFeed(ctx context.Context) {
	if err := propertyService.feedCache.Invalidate(ctx); err != nil {
		log.Print(customerror.NewError("PropertyService.invalidateFeed", propertyService.host+":"+propertyService.port, err.Error()).Error())
	}
}

func (propertyService *PropertyService) InsertProperty(draft property.Draft, owner *user.User) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	created := property.New(draft, owner.UUID, propertyService.now())
	if err := propertyService.validate(ctx, created, ""); err != nil {
		return nil, err
	}
	if err := propertyService.propertyRepo.InsertProperty(ctx, created); err != nil {
		return nil, customerror.Wrap(err, "PropertyService.InsertProperty")
	}
	propertyService.metrics.Transition("new", string(created.Status))
	return created, nil
}

// loadForChange fetches a listing an actor wants to modify and applies the ownership guards.
func (propertyService *PropertyService) loadForChange(ctx context.Context, id uuid.UUID, actor *user.User) (*property.Property, error) {
	found, err := propertyService.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return found, nil
	}
	if found.OwnerId != actor.UUID {
		return nil, customerror.ErrForbidden
	}
	if !found.CanOwnerModify() {
		return nil, customerror.ErrPendingApproval
	}
	return found, nil
}

// save validates and writes a changed listing. Owner edits of a rejected listing send it back to payment.
func (propertyService *PropertyService) save(ctx context.Context, changed *property.Property, from property.Status, previousType string, actor *user.User) error {
	if !actor.IsAdmin() {
		changed.Resubmit()
	}
	if err := propertyService.validate(ctx, changed, previousType); err != nil {
		return err
	}
	if err := propertyService.propertyRepo.UpdateProperty(ctx, changed); err != nil {
		return err
	}
	propertyService.metrics.Transition(string(from), string(changed.Status))
	propertyService.invalidateFeed(ctx)
	return nil
}

func (propertyService *PropertyService) UpdateProperty(id uuid.UUID, patch property.Patch, actor *user.User) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.loadForChange(ctx, id, actor)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.UpdateProperty")
	}
	if !actor.IsAdmin() && patch.TouchesAdminFields() {
		return nil, customerror.ErrForbidden
	}
	from, previousType := found.Status, found.Type
	found.Apply(patch)
	if err := propertyService.save(ctx, found, from, previousType, actor); err != nil {
		return nil, customerror.Wrap(err, "PropertyService.UpdateProperty")
	}
	return found, nil
}

func (propertyService *PropertyService) DeleteProperty(id uuid.UUID, actor *user.User) error {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.loadForChange(ctx, id, actor)
	if err != nil {
		return customerror.Wrap(err, "PropertyService.DeleteProperty")
	}
	if err := propertyService.propertyRepo.DeleteProperty(ctx, id); err != nil {
		return customerror.Wrap(err, "PropertyService.DeleteProperty")
	}
	for _, url := range found.Images {
		if err := propertyService.storage.Delete(ctx, url); err != nil {
			log.Print(customerror.NewError("PropertyService.DeleteProperty", propertyService.host+":"+propertyService.port, err.Error()).Error())
		}
	}
	propertyService.invalidateFeed(ctx)
	return nil
}

// SimulatePayment completes the listing fee. Paying anything but a listing awaiting payment changes nothing.
func (propertyService *PropertyService) SimulatePayment(id uuid.UUID, actor *user.User) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.SimulatePayment")
	}
	if !canManage(found, actor) {
		return nil, customerror.ErrForbidden
	}
	if !found.Pay() {
		return found, nil
	}
	if err := propertyService.propertyRepo.UpdateProperty(ctx, found); err != nil {
		return nil, customerror.Wrap(err, "PropertyService.SimulatePayment")
	}
	propertyService.metrics.Transition(string(property.StatusPendingPayment), string(found.Status))
	return found, nil
}

func (propertyService *PropertyService) decide(id uuid.UUID, module string, decision func(*property.Property) error) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.propertyRepo.GetProperty(ctx, id)
	if err != nil {
		return nil, customerror.Wrap(err, module)
	}
	from := found.Status
	if err := decision(found); err != nil {
		return nil, err
	}
	if err := propertyService.propertyRepo.UpdateProperty(ctx, found); err != nil {
		return nil, customerror.Wrap(err, module)
	}
	propertyService.metrics.Transition(string(from), string(found.Status))
	propertyService.invalidateFeed(ctx)
	return found, nil
}

func (propertyService *PropertyService) ApproveProperty(id uuid.UUID) (*property.Property, error) {
	return propertyService.decide(id, "PropertyService.ApproveProperty", (*property.Property).Approve)
}

func (propertyService *PropertyService) RejectProperty(id uuid.UUID) (*property.Property, error) {
	return propertyService.decide(id, "PropertyService.RejectProperty", (*property.Property).Reject)
}

func (propertyService *PropertyService) InsertPropertyImage(file *multipart.FileHeader, id uuid.UUID, actor *user.User) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.loadForChange(ctx, id, actor)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.InsertPropertyImage")
	}
	key, contentType, err := media.NewKey(found.Id, file.Filename, propertyService.now())
	if err != nil {
		return nil, customerror.ValidationErrors{"image": err.Error()}
	}
	src, err := file.Open()
	if err != nil {
		return nil, customerror.NewError("PropertyService.InsertPropertyImage", propertyService.host+":"+propertyService.port, err.Error())
	}
	defer src.Close()
	url, err := propertyService.storage.Save(ctx, key, contentType, src)
	if err != nil {
		return nil, customerror.NewError("PropertyService.InsertPropertyImage", propertyService.host+":"+propertyService.port, err.Error())
	}
	from := found.Status
	found.Images = append(found.Images, url)
	if err := propertyService.save(ctx, found, from, found.Type, actor); err != nil {
		if deleteErr := propertyService.storage.Delete(ctx, url); deleteErr != nil {
			log.Print(deleteErr)
		}
		return nil, customerror.Wrap(err, "PropertyService.InsertPropertyImage")
	}
	return found, nil
}

func (propertyService *PropertyService) DeletePropertyImage(id uuid.UUID, index int, actor *user.User) (*property.Property, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := propertyService.loadForChange(ctx, id, actor)
	if err != nil {
		return nil, customerror.Wrap(err, "PropertyService.DeletePropertyImage")
	}
	if index < 0 || index >= len(found.Images) {
		return nil, customerror.ValidationErrors{"images": "no image at this position"}
	}
	url := found.Images[index]
	from := found.Status
	found.Images = append(append([]string{}, found.Images[:index]...), found.Images[index+1:]...)
	if err := propertyService.save(ctx, found, from, found.Type, actor); err != nil {
		return nil, customerror.Wrap(err, "PropertyService.DeletePropertyImage")
	}
	if err := propertyService.storage.Delete(ctx, url); err != nil {
		log.Print(customerror.NewError("PropertyService.DeletePropertyImage", propertyService.host+":"+propertyService.port, err.Error()).Error())
	}
	return found, nil
}
