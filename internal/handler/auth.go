package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/user"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	SignIn(ctx *gin.Context)
	SignUp(ctx *gin.Context)
	RequestPasswordReset(ctx *gin.Context)
	ResetPassword(ctx *gin.Context)
	RefreshToken(ctx *gin.Context)
	Me(ctx *gin.Context)
}

type AuthHandler struct {
	authService service.AuthServiceI
	jwtService  service.JWTServiceI
	middlewares middlewares.MiddlewaresI
}

func NewAuthHandler(authService service.AuthServiceI, jwtService service.JWTServiceI, middlewares middlewares.MiddlewaresI) AuthHandlerI {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		middlewares: middlewares,
	}
}

func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	authGroup := group.Group("/auth")
	authGroup.POST("/sign-in", h.SignIn)
	authGroup.POST("/sign-up", h.SignUp)
	authGroup.POST("/password-reset", h.RequestPasswordReset)
	authGroup.POST("/reset-password/:id", h.ResetPassword)
	authGroup.POST("/refresh-token", h.middlewares.ValidUser(), h.RefreshToken)
	authGroup.GET("/me", h.middlewares.ValidUser(), h.Me)
}

// respondWithTokens issues a fresh token pair for account.
func (h *AuthHandler) respondWithTokens(ctx *gin.Context, account *user.User, module string) {
	accessToken, err := h.jwtService.GenerateToken(account, true)
	if err != nil {
		envelope.AbortWithError(ctx, err, module)
		return
	}
	refreshToken, err := h.jwtService.GenerateToken(account, false)
	if err != nil {
		envelope.AbortWithError(ctx, err, module)
		return
	}
	envelope.OK(ctx, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          account,
	})
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn(ctx *gin.Context) {
	var request SignInRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil || request.Email == "" || request.Password == "" {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	account, err := h.authService.SignIn(request.Email, request.Password)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AuthHandler.SignIn")
		return
	}
	h.respondWithTokens(ctx, account, "AuthHandler.SignIn")
}

type SignUpRequest struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	AccountType user.AccountType `json:"account_type"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var request SignUpRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	account, err := h.authService.SignUp(request.Name, request.Email, request.Password, request.AccountType)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AuthHandler.SignUp")
		return
	}
	h.respondWithTokens(ctx, account, "AuthHandler.SignUp")
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestPasswordReset(ctx *gin.Context) {
	var request PasswordResetRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil || request.Email == "" {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	if err := h.authService.RequestPasswordReset(request.Email); err != nil {
		envelope.AbortWithError(ctx, err, "AuthHandler.RequestPasswordReset")
		return
	}
	envelope.OK(ctx, gin.H{})
}

type ResetPasswordRequest struct {
	ResetHash string `json:"reset_hash"`
	Password  string `json:"password"`
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var request ResetPasswordRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil || request.ResetHash == "" {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	if err := h.authService.ResetPassword(id, request.ResetHash, request.Password); err != nil {
		envelope.AbortWithError(ctx, err, "AuthHandler.ResetPassword")
		return
	}
	envelope.OK(ctx, gin.H{})
}

func (h *AuthHandler) RefreshToken(ctx *gin.Context) {
	h.respondWithTokens(ctx, middlewares.CurrentUser(ctx), "AuthHandler.RefreshToken")
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	envelope.OK(ctx, gin.H{"user": middlewares.CurrentUser(ctx)})
}
