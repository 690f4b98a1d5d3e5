package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) *httptest.Server {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/sign-in", func(ctx *gin.Context) {
		var request struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ShouldBindJSON(&request); err != nil || request.Password != "password123" {
			ctx.JSON(http.StatusOK, gin.H{"status": http.StatusUnauthorized, "body": gin.H{}, "error": "invalid credentials"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "error": nil, "body": gin.H{
			"access_token":  "access",
			"refresh_token": "refresh",
			"user":          gin.H{"name": "Ana", "email": request.Email},
		}})
	})
	router.GET("/api/v1/auth/me", func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") != "Bearer access" {
			ctx.JSON(http.StatusOK, gin.H{"status": http.StatusUnauthorized, "body": gin.H{}, "error": "token invalid"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "error": nil, "body": gin.H{
			"user": gin.H{"name": "Ana Souza", "email": "ana@email.com"},
		}})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestSignIn(t *testing.T) {
	c := NewHTTP(newAPI(t).URL + "/")

	signed, err := c.SignIn("ana@email.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "access", signed.Token)
	assert.Equal(t, "refresh", signed.RefreshToken)
	assert.Equal(t, "ana@email.com", signed.User.Email)

	_, err = c.SignIn("ana@email.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestMe(t *testing.T) {
	c := NewHTTP(newAPI(t).URL)

	current, err := c.Me("access")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", current.Name)

	_, err = c.Me("stale")
	assert.Error(t, err)
}

func TestMissingRoute(t *testing.T) {
	c := &HTTPClient{Base: newAPI(t).URL + "/nowhere", HTTP: http.DefaultClient}
	_, err := c.Me("access")
	assert.Error(t, err)
}
