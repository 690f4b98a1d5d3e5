package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"imovelhub/internal/handler"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/repository"
	"imovelhub/internal/repository/seed"
	"imovelhub/internal/service"
	"imovelhub/pkg/cache"
	"imovelhub/pkg/config"
	"imovelhub/pkg/mailer"
	"imovelhub/pkg/media"
	"imovelhub/pkg/metrics"
	"imovelhub/pkg/security"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	anaId      = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000001")
	brunoId    = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000002")
	adminId    = uuid.MustParse("1e0c9b6a-0000-4000-8000-000000000003")
	apartment  = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000001")
	house      = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000002")
	pendingId  = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000007")
	awaitingId = uuid.MustParse("5c1d7e42-0000-4000-8000-000000000008")
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	security.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type envelope struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
	Error  *string         `json:"error"`
}

type testServer struct {
	store   *repository.MemoryStore
	metrics *metrics.Metrics
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := seed.NewMemoryStore(context.Background(), time.Now())
	require.NoError(t, err)
	appConfig := &config.Config{
		Storage:   config.StorageMemory,
		WebHost:   "localhost",
		WebPort:   "8080",
		MainUrl:   "http://localhost:8080",
		SecretKey: "test-secret",
	}
	appMetrics := metrics.New()
	mediaDir := t.TempDir()
	jwtService := service.NewJWTService(appConfig, store)
	services := handler.Services{
		Auth:         service.NewAuthService(store, &mailer.RecordingMailer{}, "localhost", "8080", appConfig.MainUrl, time.Now),
		JWT:          jwtService,
		Property:     service.NewPropertyService(store, store, store, store, cache.NopCache{}, media.NewLocalStorage(mediaDir, appConfig.MainUrl), appMetrics, "localhost", "8080", time.Now),
		User:         service.NewUserService(store, store),
		Settings:     service.NewSettingsService(store),
		PropertyType: service.NewPropertyTypeService(store),
		Inquiry:      service.NewInquiryService(store, store, store, store, "localhost", "8080", time.Now),
		Favourites:   service.NewFavouritesService(store, store, time.Now),
	}
	return &testServer{
		store:   store,
		metrics: appMetrics,
		router:  handler.NewRouter(services, middlewares.NewMiddlewares(jwtService, store), appMetrics, mediaDir),
	}
}

func (s *testServer) do(t *testing.T, method string, path string, token string, body any) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	var result envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	return result
}

func (s *testServer) signIn(t *testing.T, email string, password string) string {
	t.Helper()
	result := s.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, result.Status)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(result.Body, &body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(raw, &value))
	return value
}
