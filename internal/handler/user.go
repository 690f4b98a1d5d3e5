package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/user"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	GetUser(ctx *gin.Context)
	UpdateUser(ctx *gin.Context)
	SubmitValidation(ctx *gin.Context)
}

type UserHandler struct {
	userService service.UserServiceI
	middlewares middlewares.MiddlewaresI
}

func NewUserHandler(userService service.UserServiceI, middlewares middlewares.MiddlewaresI) UserHandlerI {
	return &UserHandler{
		userService: userService,
		middlewares: middlewares,
	}
}

func (h *UserHandler) RegisterRoutes(group *gin.RouterGroup) {
	userGroup := group.Group("/users")
	userGroup.Use(h.middlewares.ValidUser())
	userGroup.GET("/:id", h.middlewares.ThisUserOrAdmin(), h.GetUser)
	userGroup.PATCH("/:id", h.middlewares.ThisUserOrAdmin(), h.UpdateUser)
	group.POST("/me/validation", h.middlewares.ValidUser(), h.middlewares.ProfessionalOnly(), h.SubmitValidation)
}

func (h *UserHandler) GetUser(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	found, err := h.userService.GetUser(id)
	if err != nil {
		envelope.AbortWithError(ctx, err, "UserHandler.GetUser")
		return
	}
	envelope.OK(ctx, gin.H{"user": found})
}

func (h *UserHandler) UpdateUser(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var patch user.Patch
	if err := ctx.ShouldBindBodyWithJSON(&patch); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.userService.UpdateUser(id, patch, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "UserHandler.UpdateUser")
		return
	}
	envelope.OK(ctx, gin.H{"user": updated})
}

type SubmitValidationRequest struct {
	Phone        string            `json:"phone"`
	Professional user.Professional `json:"professional"`
}

func (h *UserHandler) SubmitValidation(ctx *gin.Context) {
	var request SubmitValidationRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.userService.SubmitValidation(middlewares.CurrentUser(ctx).UUID, request.Phone, request.Professional)
	if err != nil {
		envelope.AbortWithError(ctx, err, "UserHandler.SubmitValidation")
		return
	}
	envelope.OK(ctx, gin.H{"user": updated})
}
