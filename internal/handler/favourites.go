package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/property"

	"github.com/gin-gonic/gin"
)

type FavouritesHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	GetFavourites(ctx *gin.Context)
	InsertFavourite(ctx *gin.Context)
	DeleteFavourite(ctx *gin.Context)
}

type FavouritesHandler struct {
	favouritesService service.FavouritesServiceI
	middlewares       middlewares.MiddlewaresI
}

func NewFavouritesHandler(favouritesService service.FavouritesServiceI, middlewares middlewares.MiddlewaresI) FavouritesHandlerI {
	return &FavouritesHandler{
		favouritesService: favouritesService,
		middlewares:       middlewares,
	}
}

func (h *FavouritesHandler) RegisterRoutes(group *gin.RouterGroup) {
	favouritesGroup := group.Group("/favourites")
	favouritesGroup.Use(h.middlewares.ValidUser())
	favouritesGroup.GET("", h.GetFavourites)
	favouritesGroup.POST("/:id", h.InsertFavourite)
	favouritesGroup.DELETE("/:id", h.DeleteFavourite)
}

func (h *FavouritesHandler) GetFavourites(ctx *gin.Context) {
	properties, err := h.favouritesService.GetFavourites(middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "FavouritesHandler.GetFavourites")
		return
	}
	envelope.OK(ctx, gin.H{"properties": property.ViewsFor(properties, true)})
}

func (h *FavouritesHandler) InsertFavourite(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	if err := h.favouritesService.InsertFavourite(id, middlewares.CurrentUser(ctx)); err != nil {
		envelope.AbortWithError(ctx, err, "FavouritesHandler.InsertFavourite")
		return
	}
	envelope.OK(ctx, gin.H{})
}

func (h *FavouritesHandler) DeleteFavourite(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	if err := h.favouritesService.DeleteFavourite(id, middlewares.CurrentUser(ctx)); err != nil {
		envelope.AbortWithError(ctx, err, "FavouritesHandler.DeleteFavourite")
		return
	}
	envelope.OK(ctx, gin.H{})
}
