package handler_test

import (
	"context"
	"encoding/json"
	"imovelhub/pkg/property"
	"imovelhub/pkg/user"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	s := newTestServer(t)

	result := s.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", gin.H{"email": "ana@email.com", "password": "password123"})
	require.Equal(t, http.StatusOK, result.Status)
	assert.Nil(t, result.Error)
	body := decode[struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		User         user.User `json:"user"`
	}](t, result.Body)
	assert.NotEmpty(t, body.AccessToken)
	assert.NotEmpty(t, body.RefreshToken)
	assert.Equal(t, anaId, body.User.UUID)

	result = s.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", gin.H{"email": "ana@email.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	require.NotNil(t, result.Error)
	assert.Equal(t, "invalid credentials", *result.Error)
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t)

	result := s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, result.Status)

	token := s.signIn(t, "ana@email.com", "password123")
	result = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, result.Status)
	body := decode[struct {
		User user.User `json:"user"`
	}](t, result.Body)
	assert.Equal(t, "ana@email.com", body.User.Email)
}

func TestFeedHidesPriceOnRequestFromAnonymous(t *testing.T) {
	s := newTestServer(t)
	expiresAt := time.Now().Add(24 * time.Hour)
	onRequest := property.Property{
		Id:             uuid.New(),
		OwnerId:        anaId,
		Title:          "Cobertura sob consulta",
		Type:           "Apartamento",
		City:           "Curitiba",
		Price:          2500000,
		PriceOnRequest: true,
		Images:         []string{"https://picsum.photos/seed/1/800/600"},
		CreatedAt:      time.Now(),
		Status:         property.StatusActive,
		ExpiresAt:      &expiresAt,
	}
	require.NoError(t, s.store.InsertProperty(context.Background(), &onRequest))

	type feed struct {
		Properties []struct {
			Id          uuid.UUID `json:"id"`
			Price       *float64  `json:"price"`
			PriceHidden bool      `json:"price_hidden"`
		} `json:"properties"`
	}

	result := s.do(t, http.MethodGet, "/api/v1/properties?city=curitiba", "", nil)
	require.Equal(t, http.StatusOK, result.Status)
	anonymous := decode[feed](t, result.Body)
	require.Len(t, anonymous.Properties, 1)
	assert.Equal(t, onRequest.Id, anonymous.Properties[0].Id)
	assert.True(t, anonymous.Properties[0].PriceHidden)
	assert.Nil(t, anonymous.Properties[0].Price)

	token := s.signIn(t, "bruno@email.com", "password123")
	result = s.do(t, http.MethodGet, "/api/v1/properties?city=curitiba", token, nil)
	require.Equal(t, http.StatusOK, result.Status)
	signedIn := decode[feed](t, result.Body)
	require.Len(t, signedIn.Properties, 1)
	assert.False(t, signedIn.Properties[0].PriceHidden)
	require.NotNil(t, signedIn.Properties[0].Price)
	assert.Equal(t, 2500000.0, *signedIn.Properties[0].Price)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	result := s.do(t, http.MethodGet, "/api/v1/admin/users", s.signIn(t, "ana@email.com", "password123"), nil)
	assert.Equal(t, http.StatusForbidden, result.Status)

	result = s.do(t, http.MethodGet, "/api/v1/admin/users", s.signIn(t, "admin@email.com", "admin123"), nil)
	require.Equal(t, http.StatusOK, result.Status)
	body := decode[struct {
		Users []user.User `json:"users"`
	}](t, result.Body)
	assert.Len(t, body.Users, 4)
}

func TestInsertPropertyReportsFields(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, "ana@email.com", "password123")

	result := s.do(t, http.MethodPost, "/api/v1/properties", token, gin.H{"type": "Apartamento", "price": 100000})
	assert.Equal(t, http.StatusBadRequest, result.Status)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, result.Body)
	assert.Contains(t, body.Fields, "title")
	assert.Contains(t, body.Fields, "city")
	assert.NotContains(t, body.Fields, "type")
}

func TestOwnerCannotEditListingUnderReview(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, "ana@email.com", "password123")

	result := s.do(t, http.MethodPatch, "/api/v1/properties/"+pendingId.String(), token, gin.H{"title": "Novo título"})
	assert.Equal(t, http.StatusConflict, result.Status)
}

func TestPaymentRequiresOwnership(t *testing.T) {
	s := newTestServer(t)

	result := s.do(t, http.MethodPost, "/api/v1/properties/"+awaitingId.String()+"/pay", s.signIn(t, "ana@email.com", "password123"), nil)
	assert.Equal(t, http.StatusForbidden, result.Status)

	result = s.do(t, http.MethodPost, "/api/v1/properties/"+awaitingId.String()+"/pay", s.signIn(t, "bruno@email.com", "password123"), nil)
	require.Equal(t, http.StatusOK, result.Status)
	body := decode[struct {
		Property property.Property `json:"property"`
	}](t, result.Body)
	assert.Equal(t, property.StatusPendingApproval, body.Property.Status)
}

func TestDetailOfListingUnderReview(t *testing.T) {
	s := newTestServer(t)

	result := s.do(t, http.MethodGet, "/api/v1/properties/"+pendingId.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, result.Status)

	result = s.do(t, http.MethodGet, "/api/v1/properties/"+pendingId.String(), s.signIn(t, "ana@email.com", "password123"), nil)
	assert.Equal(t, http.StatusOK, result.Status)

	result = s.do(t, http.MethodGet, "/api/v1/properties/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, result.Status)
}

func TestWebsocketReceivesInquiry(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()
	anaToken := s.signIn(t, "ana@email.com", "password123")

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/inquiries/websocket?token=" + anaToken
	connection, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer connection.Close()
	require.NoError(t, connection.SetReadDeadline(time.Now().Add(5*time.Second)))

	// the error reply proves the connection is registered
	require.NoError(t, connection.WriteJSON(gin.H{"property_id": "bad", "message": "oi"}))
	var reply envelope
	require.NoError(t, connection.ReadJSON(&reply))
	assert.Equal(t, http.StatusBadRequest, reply.Status)

	result := s.do(t, http.MethodPost, "/api/v1/properties/"+apartment.String()+"/inquiries", s.signIn(t, "bruno@email.com", "password123"), gin.H{"message": "Ainda está disponível?"})
	require.Equal(t, http.StatusOK, result.Status)

	var pushed struct {
		PropertyId  uuid.UUID `json:"property_id"`
		RecipientId uuid.UUID `json:"recipient_id"`
		Message     string    `json:"message"`
	}
	require.NoError(t, connection.ReadJSON(&pushed))
	assert.Equal(t, apartment, pushed.PropertyId)
	assert.Equal(t, anaId, pushed.RecipientId)
	assert.Equal(t, "Ainda está disponível?", pushed.Message)
}

func dialInquiries(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/inquiries/websocket?token=" + token
	connection, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { connection.Close() })
	require.NoError(t, connection.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, connection.WriteJSON(gin.H{"property_id": "bad", "message": "oi"}))
	var reply envelope
	require.NoError(t, connection.ReadJSON(&reply))
	require.Equal(t, http.StatusBadRequest, reply.Status)
	return connection
}

func TestWebsocketStopsSpeakingForBlockedUser(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()
	connection := dialInquiries(t, server, s.signIn(t, "bruno@email.com", "password123"))

	ctx := context.Background()
	bruno, err := s.store.GetUser(ctx, brunoId)
	require.NoError(t, err)
	bruno.Status = user.StatusBlocked
	bruno.JWTVersion++
	require.NoError(t, s.store.UpdateUser(ctx, bruno))

	require.NoError(t, connection.WriteJSON(gin.H{"property_id": apartment.String(), "message": "enviada bloqueado"}))
	var reply envelope
	require.NoError(t, connection.ReadJSON(&reply))
	assert.Equal(t, http.StatusUnauthorized, reply.Status)

	received, err := s.store.GetInquiries(ctx, anaId, false)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestWebsocketFollowsRoleChanges(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()
	connection := dialInquiries(t, server, s.signIn(t, "admin@email.com", "admin123"))

	ctx := context.Background()
	admin, err := s.store.GetUser(ctx, adminId)
	require.NoError(t, err)
	admin.Role = user.RoleUser
	require.NoError(t, s.store.UpdateUser(ctx, admin))

	result := s.do(t, http.MethodPost, "/api/v1/properties/"+house.String()+"/inquiries", s.signIn(t, "ana@email.com", "password123"), gin.H{"message": "Aceita permuta?"})
	require.Equal(t, http.StatusOK, result.Status)

	require.NoError(t, connection.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var pushed map[string]any
	assert.Error(t, connection.ReadJSON(&pushed))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/property-types", "", nil)

	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	data, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `imovelhub_http_requests_total{method="GET",route="/api/v1/property-types",status="200"} 1`)
}

func TestFavourites(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t, "bruno@email.com", "password123")

	result := s.do(t, http.MethodPost, "/api/v1/favourites/"+apartment.String(), token, nil)
	require.Equal(t, http.StatusOK, result.Status)
	result = s.do(t, http.MethodPost, "/api/v1/favourites/"+pendingId.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, result.Status)

	result = s.do(t, http.MethodGet, "/api/v1/favourites", token, nil)
	require.Equal(t, http.StatusOK, result.Status)
	var body struct {
		Properties []property.Property `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(result.Body, &body))
	require.Len(t, body.Properties, 1)
	assert.Equal(t, apartment, body.Properties[0].Id)
}
