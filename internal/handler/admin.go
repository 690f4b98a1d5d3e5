package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/settings"
	"imovelhub/pkg/user"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the back-office: listing review, accounts, settings and the type catalog.
type AdminHandler struct {
	propertyService service.PropertyServiceI
	userService     service.UserServiceI
	settingsService service.SettingsServiceI
	typeService     service.PropertyTypeServiceI
	middlewares     middlewares.MiddlewaresI
}

func NewAdminHandler(
	propertyService service.PropertyServiceI,
	userService service.UserServiceI,
	settingsService service.SettingsServiceI,
	typeService service.PropertyTypeServiceI,
	middlewares middlewares.MiddlewaresI,
) *AdminHandler {
	return &AdminHandler{
		propertyService: propertyService,
		userService:     userService,
		settingsService: settingsService,
		typeService:     typeService,
		middlewares:     middlewares,
	}
}

func (h *AdminHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/settings", h.GetSettings)
	group.GET("/property-types", h.GetTypes)

	adminGroup := group.Group("/admin")
	adminGroup.Use(h.middlewares.ValidUser(), h.middlewares.AdminOnly())
	adminGroup.GET("/properties", h.GetAllProperties)
	adminGroup.POST("/properties/:id/approve", h.ApproveProperty)
	adminGroup.POST("/properties/:id/reject", h.RejectProperty)
	adminGroup.GET("/users", h.GetUsers)
	adminGroup.PATCH("/users/:id/status", h.UpdateUserStatus)
	adminGroup.POST("/users/:id/validation", h.DecideValidation)
	adminGroup.PATCH("/settings", h.UpdateSettings)
	adminGroup.POST("/property-types", h.InsertType)
	adminGroup.PATCH("/property-types/:id", h.UpdateType)
	adminGroup.DELETE("/property-types/:id", h.DeleteType)
}

func (h *AdminHandler) GetAllProperties(ctx *gin.Context) {
	properties, err := h.propertyService.GetAllProperties()
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.GetAllProperties")
		return
	}
	envelope.OK(ctx, gin.H{"properties": properties})
}

func (h *AdminHandler) ApproveProperty(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	approved, err := h.propertyService.ApproveProperty(id)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.ApproveProperty")
		return
	}
	envelope.OK(ctx, gin.H{"property": approved})
}

func (h *AdminHandler) RejectProperty(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	rejected, err := h.propertyService.RejectProperty(id)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.RejectProperty")
		return
	}
	envelope.OK(ctx, gin.H{"property": rejected})
}

func (h *AdminHandler) GetUsers(ctx *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.GetUsers")
		return
	}
	envelope.OK(ctx, gin.H{"users": users})
}

type UpdateUserStatusRequest struct {
	Status user.Status `json:"status"`
}

func (h *AdminHandler) UpdateUserStatus(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var request UpdateUserStatusRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.userService.UpdateUserStatus(id, request.Status, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.UpdateUserStatus")
		return
	}
	envelope.OK(ctx, gin.H{"user": updated})
}

type DecideValidationRequest struct {
	ValidationStatus user.ValidationStatus `json:"validation_status"`
}

func (h *AdminHandler) DecideValidation(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var request DecideValidationRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.userService.DecideValidation(id, request.ValidationStatus)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.DecideValidation")
		return
	}
	envelope.OK(ctx, gin.H{"user": updated})
}

func (h *AdminHandler) GetSettings(ctx *gin.Context) {
	current, err := h.settingsService.GetSettings()
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.GetSettings")
		return
	}
	envelope.OK(ctx, gin.H{"settings": current})
}

func (h *AdminHandler) UpdateSettings(ctx *gin.Context) {
	var patch settings.Patch
	if err := ctx.ShouldBindBodyWithJSON(&patch); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.settingsService.UpdateSettings(patch)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.UpdateSettings")
		return
	}
	envelope.OK(ctx, gin.H{"settings": updated})
}

func (h *AdminHandler) GetTypes(ctx *gin.Context) {
	types, err := h.typeService.GetTypes()
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.GetTypes")
		return
	}
	envelope.OK(ctx, gin.H{"property_types": types})
}

type PropertyTypeRequest struct {
	Name string `json:"name"`
}

func (h *AdminHandler) InsertType(ctx *gin.Context) {
	var request PropertyTypeRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	created, err := h.typeService.InsertType(request.Name)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.InsertType")
		return
	}
	envelope.OK(ctx, gin.H{"property_type": created})
}

func (h *AdminHandler) UpdateType(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var request PropertyTypeRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.typeService.UpdateType(id, request.Name)
	if err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.UpdateType")
		return
	}
	envelope.OK(ctx, gin.H{"property_type": updated})
}

func (h *AdminHandler) DeleteType(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	if err := h.typeService.DeleteType(id); err != nil {
		envelope.AbortWithError(ctx, err, "AdminHandler.DeleteType")
		return
	}
	envelope.OK(ctx, gin.H{})
}
