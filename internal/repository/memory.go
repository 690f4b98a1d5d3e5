package repository

import (
	"context"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/favourites"
	"imovelhub/pkg/inquiry"
	"imovelhub/pkg/property"
	"imovelhub/pkg/propertytype"
	"imovelhub/pkg/settings"
	"imovelhub/pkg/user"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps every collection in process memory. It satisfies all repository interfaces
// and backs STORAGE=memory as well as the service tests.
type MemoryStore struct {
	mu            sync.RWMutex
	properties    []property.Property
	users         []user.User
	credentials   map[uuid.UUID]user.Credential
	settings      *settings.Settings
	propertyTypes []propertytype.PropertyType
	inquiries     []inquiry.Inquiry
	favourites    []favourites.Favourite
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		credentials: map[uuid.UUID]user.Credential{},
	}
}

func (store *MemoryStore) CreateTables(ctx context.Context) error {
	return nil
}

func (store *MemoryStore) propertyIndex(id uuid.UUID) int {
	for i := range store.properties {
		if store.properties[i].Id == id {
			return i
		}
	}
	return -1
}

func (store *MemoryStore) GetProperties(ctx context.Context, filter property.Filter, now time.Time) ([]property.Property, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return cloneProperties(property.Public(store.properties, filter, now)), nil
}

func (store *MemoryStore) GetPropertiesByOwner(ctx context.Context, ownerId uuid.UUID) ([]property.Property, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	result := []property.Property{}
	for _, p := range store.properties {
		if p.OwnerId == ownerId {
			result = append(result, p.Clone())
		}
	}
	property.SortNewestFirst(result)
	return result, nil
}

func (store *MemoryStore) GetAllProperties(ctx context.Context) ([]property.Property, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	result := cloneProperties(store.properties)
	property.SortNewestFirst(result)
	return result, nil
}

func (store *MemoryStore) GetProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	i := store.propertyIndex(id)
	if i < 0 {
		return nil, customerror.ErrNotFound
	}
	p := store.properties[i].Clone()
	return &p, nil
}

// InsertProperty puts new listings first, matching the newest-first feed.
func (store *MemoryStore) InsertProperty(ctx context.Context, p *property.Property) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.propertyIndex(p.Id) >= 0 {
		return customerror.NewError("memoryStore.InsertProperty", "memory", "duplicate property id")
	}
	store.properties = append([]property.Property{p.Clone()}, store.properties...)
	return nil
}

func (store *MemoryStore) UpdateProperty(ctx context.Context, p *property.Property) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	i := store.propertyIndex(p.Id)
	if i < 0 {
		return customerror.ErrNotFound
	}
	updated := p.Clone()
	current := store.properties[i]
	updated.OwnerId = current.OwnerId
	updated.CreatedAt = current.CreatedAt
	updated.Views = current.Views
	store.properties[i] = updated
	return nil
}

func (store *MemoryStore) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	i := store.propertyIndex(id)
	if i < 0 {
		return customerror.ErrNotFound
	}
	store.properties = append(store.properties[:i], store.properties[i+1:]...)
	return nil
}

func (store *MemoryStore) IncrementViews(ctx context.Context, id uuid.UUID) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	i := store.propertyIndex(id)
	if i < 0 || !store.properties[i].CountsViews() {
		return false, nil
	}
	store.properties[i].Views++
	return true, nil
}

func (store *MemoryStore) CountPropertiesByOwner(ctx context.Context) (map[uuid.UUID]int, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	counts := map[uuid.UUID]int{}
	for _, p := range store.properties {
		counts[p.OwnerId]++
	}
	return counts, nil
}

func (store *MemoryStore) CountExpired(ctx context.Context, now time.Time) (int, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	count := 0
	for _, p := range store.properties {
		if p.Status == property.StatusActive && p.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (store *MemoryStore) userIndex(id uuid.UUID) int {
	for i := range store.users {
		if store.users[i].UUID == id {
			return i
		}
	}
	return -1
}

func (store *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	i := store.userIndex(id)
	if i < 0 {
		return nil, customerror.ErrNotFound
	}
	u := store.users[i]
	return &u, nil
}

func (store *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, u := range store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, customerror.ErrNotFound
}

func (store *MemoryStore) GetUsers(ctx context.Context) ([]user.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	users := append([]user.User{}, store.users...)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (store *MemoryStore) InsertUser(ctx context.Context, u *user.User, credential *user.Credential) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.users {
		if existing.Email == u.Email {
			return customerror.ErrDuplicateEmail
		}
	}
	if store.userIndex(u.UUID) >= 0 {
		return customerror.NewError("memoryStore.InsertUser", "memory", "duplicate user id")
	}
	stored := *u
	stored.PropertyCount = nil
	store.users = append(store.users, stored)
	saved := *credential
	saved.UserId = u.UUID
	store.credentials[u.UUID] = saved
	return nil
}

// UpdateUser never changes the email address.
func (store *MemoryStore) UpdateUser(ctx context.Context, u *user.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	i := store.userIndex(u.UUID)
	if i < 0 {
		return customerror.ErrNotFound
	}
	updated := *u
	updated.Email = store.users[i].Email
	updated.CreatedAt = store.users[i].CreatedAt
	updated.PropertyCount = nil
	store.users[i] = updated
	return nil
}

func (store *MemoryStore) GetCredential(ctx context.Context, userId uuid.UUID) (*user.Credential, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	credential, ok := store.credentials[userId]
	if !ok {
		return nil, customerror.ErrNotFound
	}
	return &credential, nil
}

func (store *MemoryStore) UpdateCredential(ctx context.Context, credential *user.Credential) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.credentials[credential.UserId]; !ok {
		return customerror.ErrNotFound
	}
	store.credentials[credential.UserId] = *credential
	return nil
}

func (store *MemoryStore) GetSettings(ctx context.Context) (*settings.Settings, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if store.settings == nil {
		return nil, customerror.ErrNotFound
	}
	s := *store.settings
	return &s, nil
}

func (store *MemoryStore) UpdateSettings(ctx context.Context, s *settings.Settings) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	saved := *s
	store.settings = &saved
	return nil
}

func (store *MemoryStore) GetTypes(ctx context.Context) ([]propertytype.PropertyType, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return append([]propertytype.PropertyType{}, store.propertyTypes...), nil
}

func (store *MemoryStore) GetType(ctx context.Context, id uuid.UUID) (*propertytype.PropertyType, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, propertyType := range store.propertyTypes {
		if propertyType.Id == id {
			return &propertyType, nil
		}
	}
	return nil, customerror.ErrNotFound
}

func (store *MemoryStore) InsertType(ctx context.Context, propertyType *propertytype.PropertyType) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.propertyTypes = append(store.propertyTypes, *propertyType)
	return nil
}

func (store *MemoryStore) UpdateType(ctx context.Context, propertyType *propertytype.PropertyType) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := range store.propertyTypes {
		if store.propertyTypes[i].Id == propertyType.Id {
			store.propertyTypes[i] = *propertyType
			return nil
		}
	}
	return customerror.ErrNotFound
}

func (store *MemoryStore) DeleteType(ctx context.Context, id uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := range store.propertyTypes {
		if store.propertyTypes[i].Id == id {
			store.propertyTypes = append(store.propertyTypes[:i], store.propertyTypes[i+1:]...)
			return nil
		}
	}
	return customerror.ErrNotFound
}

func (store *MemoryStore) InsertInquiry(ctx context.Context, i *inquiry.Inquiry) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.inquiries = append(store.inquiries, *i)
	return nil
}

func (store *MemoryStore) GetInquiries(ctx context.Context, userId uuid.UUID, withAdminInbox bool) ([]inquiry.Inquiry, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	result := []inquiry.Inquiry{}
	for _, i := range store.inquiries {
		if i.SenderId == userId || (i.RecipientId == userId && userId != uuid.Nil) || (i.AdminInbox && withAdminInbox) {
			result = append(result, i)
		}
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].CreatedAt.After(result[b].CreatedAt)
	})
	return result, nil
}

func (store *MemoryStore) GetFavourites(ctx context.Context, userId uuid.UUID) ([]property.Property, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	marked := []favourites.Favourite{}
	for _, favourite := range store.favourites {
		if favourite.UserId == userId {
			marked = append(marked, favourite)
		}
	}
	sort.SliceStable(marked, func(i, j int) bool {
		return marked[i].CreatedAt.After(marked[j].CreatedAt)
	})
	result := []property.Property{}
	for _, favourite := range marked {
		if i := store.propertyIndex(favourite.PropertyId); i >= 0 {
			result = append(result, store.properties[i].Clone())
		}
	}
	return result, nil
}

func (store *MemoryStore) InsertFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.propertyIndex(propertyId) < 0 {
		return customerror.ErrNotFound
	}
	for _, favourite := range store.favourites {
		if favourite.PropertyId == propertyId && favourite.UserId == userId {
			return nil
		}
	}
	store.favourites = append(store.favourites, favourites.Favourite{
		UserId:     userId,
		PropertyId: propertyId,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (store *MemoryStore) DeleteFavourite(ctx context.Context, propertyId uuid.UUID, userId uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i, favourite := range store.favourites {
		if favourite.PropertyId == propertyId && favourite.UserId == userId {
			store.favourites = append(store.favourites[:i], store.favourites[i+1:]...)
			return nil
		}
	}
	return customerror.ErrNotFound
}

func cloneProperties(properties []property.Property) []property.Property {
	result := make([]property.Property, 0, len(properties))
	for _, p := range properties {
		result = append(result, p.Clone())
	}
	return result
}
