package service_test

import (
	"bytes"
	"context"
	"imovelhub/internal/repository"
	"imovelhub/internal/repository/seed"
	"imovelhub/internal/service"
	"imovelhub/pkg/cache"
	"imovelhub/pkg/config"
	"imovelhub/pkg/mailer"
	"imovelhub/pkg/media"
	"imovelhub/pkg/metrics"
	"imovelhub/pkg/security"
	"imovelhub/pkg/user"
	"mime/multipart"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	start      = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	anaId      = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000001")
	brunoId    = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000002")
	adminId    = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000003")
	carlosId   = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000004")
	apartment  = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000001")
	house      = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000002")
	pendingId  = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000007")
	awaitingId = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000008")
)

func TestMain(m *testing.M) {
	security.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store      *repository.MemoryStore
	clock      *clock
	mailer     *mailer.RecordingMailer
	metrics    *metrics.Metrics
	auth       service.AuthServiceI
	jwt        service.JWTServiceI
	properties service.PropertyServiceI
	users      service.UserServiceI
	settings   service.SettingsServiceI
	types      service.PropertyTypeServiceI
	inquiries  service.InquiryServiceI
	favourites service.FavouritesServiceI
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithCache(t, cache.NopCache{})
}

func newFixtureWithCache(t *testing.T, feedCache cache.FeedCache) *fixture {
	t.Helper()
	store, err := seed.NewMemoryStore(context.Background(), start)
	require.NoError(t, err)
	c := &clock{now: start}
	f := &fixture{
		store:   store,
		clock:   c,
		mailer:  &mailer.RecordingMailer{},
		metrics: metrics.New(),
	}
	storage := media.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	f.auth = service.NewAuthService(store, f.mailer, "localhost", "8080", "http://localhost:3000", c.Now)
	f.jwt = service.NewJWTService(testConfig(), store)
	f.properties = service.NewPropertyService(store, store, store, store, feedCache, storage, f.metrics, "localhost", "8080", c.Now)
	f.users = service.NewUserService(store, store)
	f.settings = service.NewSettingsService(store)
	f.types = service.NewPropertyTypeService(store)
	f.inquiries = service.NewInquiryService(store, store, store, store, "localhost", "8080", c.Now)
	f.favourites = service.NewFavouritesService(store, store, c.Now)
	return f
}

func (f *fixture) user(t *testing.T, id uuid.UUID) *user.User {
	t.Helper()
	found, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return found
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func testConfig() *config.Config {
	return &config.Config{
		Storage:   config.StorageMemory,
		WebHost:   "localhost",
		WebPort:   "8080",
		MainUrl:   "http://localhost:8080",
		SecretKey: "test-secret",
	}
}

func ptr[T any](value T) *T {
	return &value
}
