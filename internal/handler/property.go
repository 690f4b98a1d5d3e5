package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/property"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertyHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	GetProperties(ctx *gin.Context)
	GetProperty(ctx *gin.Context)
	GetMyProperties(ctx *gin.Context)
	InsertProperty(ctx *gin.Context)
	UpdateProperty(ctx *gin.Context)
	DeleteProperty(ctx *gin.Context)
	SimulatePayment(ctx *gin.Context)
	InsertPropertyImage(ctx *gin.Context)
	DeletePropertyImage(ctx *gin.Context)
}

type PropertyHandler struct {
	propertyService service.PropertyServiceI
	middlewares     middlewares.MiddlewaresI
}

func NewPropertyHandler(propertyService service.PropertyServiceI, middlewares middlewares.MiddlewaresI) PropertyHandlerI {
	return &PropertyHandler{
		propertyService: propertyService,
		middlewares:     middlewares,
	}
}

func (h *PropertyHandler) RegisterRoutes(group *gin.RouterGroup) {
	propertyGroup := group.Group("/properties")
	propertyGroup.GET("", h.middlewares.OptionalUser(), h.GetProperties)
	propertyGroup.GET("/:id", h.middlewares.OptionalUser(), h.GetProperty)
	propertyGroup.POST("", h.middlewares.ValidUser(), h.InsertProperty)
	propertyGroup.PATCH("/:id", h.middlewares.ValidUser(), h.UpdateProperty)
	propertyGroup.DELETE("/:id", h.middlewares.ValidUser(), h.DeleteProperty)
	propertyGroup.POST("/:id/pay", h.middlewares.ValidUser(), h.middlewares.MyProperty(), h.SimulatePayment)
	propertyGroup.POST("/:id/images", h.middlewares.ValidUser(), h.middlewares.MyProperty(), h.InsertPropertyImage)
	propertyGroup.DELETE("/:id/images/:index", h.middlewares.ValidUser(), h.middlewares.MyProperty(), h.DeletePropertyImage)
	group.GET("/me/properties", h.middlewares.ValidUser(), h.GetMyProperties)
}

// positiveQuery reads a numeric bound. Missing, malformed and non-positive values mean no bound.
func positiveQuery(ctx *gin.Context, key string) *float64 {
	value, err := strconv.ParseFloat(ctx.Query(key), 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

func parseFilter(ctx *gin.Context) property.Filter {
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}
	return property.Filter{
		Type:     strings.TrimSpace(ctx.Query("type")),
		City:     strings.TrimSpace(ctx.Query("city")),
		MaxPrice: positiveQuery(ctx, "max_price"),
		MaxArea:  positiveQuery(ctx, "max_area"),
		Query:    strings.TrimSpace(ctx.Query("q")),
		Offset:   offset,
		Limit:    limit,
	}
}

func parseId(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *PropertyHandler) GetProperties(ctx *gin.Context) {
	properties, err := h.propertyService.GetProperties(parseFilter(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.GetProperties")
		return
	}
	envelope.OK(ctx, gin.H{
		"properties": property.ViewsFor(properties, middlewares.CurrentUser(ctx) != nil),
	})
}

func (h *PropertyHandler) GetProperty(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	detail, err := h.propertyService.GetPropertyDetail(id, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.GetProperty")
		return
	}
	envelope.OK(ctx, gin.H{"property": detail})
}

func (h *PropertyHandler) GetMyProperties(ctx *gin.Context) {
	properties, err := h.propertyService.GetPropertiesByOwner(middlewares.CurrentUser(ctx).UUID)
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.GetMyProperties")
		return
	}
	envelope.OK(ctx, gin.H{"properties": properties})
}

func (h *PropertyHandler) InsertProperty(ctx *gin.Context) {
	var draft property.Draft
	if err := ctx.ShouldBindBodyWithJSON(&draft); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	created, err := h.propertyService.InsertProperty(draft, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.InsertProperty")
		return
	}
	envelope.OK(ctx, gin.H{"property": created})
}

func (h *PropertyHandler) UpdateProperty(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var patch property.Patch
	if err := ctx.ShouldBindBodyWithJSON(&patch); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.propertyService.UpdateProperty(id, patch, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.UpdateProperty")
		return
	}
	envelope.OK(ctx, gin.H{"property": updated})
}

func (h *PropertyHandler) DeleteProperty(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	if err := h.propertyService.DeleteProperty(id, middlewares.CurrentUser(ctx)); err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.DeleteProperty")
		return
	}
	envelope.OK(ctx, gin.H{})
}

func (h *PropertyHandler) SimulatePayment(ctx *gin.Context) {
	found := ctx.MustGet("property").(*property.Property)
	paid, err := h.propertyService.SimulatePayment(found.Id, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.SimulatePayment")
		return
	}
	envelope.OK(ctx, gin.H{"property": paid})
}

func (h *PropertyHandler) InsertPropertyImage(ctx *gin.Context) {
	found := ctx.MustGet("property").(*property.Property)
	file, err := ctx.FormFile("file")
	if err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	updated, err := h.propertyService.InsertPropertyImage(file, found.Id, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.InsertPropertyImage")
		return
	}
	envelope.OK(ctx, gin.H{"property": updated})
}

func (h *PropertyHandler) DeletePropertyImage(ctx *gin.Context) {
	found := ctx.MustGet("property").(*property.Property)
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid index")
		return
	}
	updated, err := h.propertyService.DeletePropertyImage(found.Id, index, middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "PropertyHandler.DeletePropertyImage")
		return
	}
	envelope.OK(ctx, gin.H{"property": updated})
}
