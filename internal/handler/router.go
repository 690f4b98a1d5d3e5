package handler

import (
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Auth         service.AuthServiceI
	JWT          service.JWTServiceI
	Property     service.PropertyServiceI
	User         service.UserServiceI
	Settings     service.SettingsServiceI
	PropertyType service.PropertyTypeServiceI
	Inquiry      service.InquiryServiceI
	Favourites   service.FavouritesServiceI
}

// NewRouter mounts the API under /api/v1. mediaDir is served under /media when images are stored locally.
func NewRouter(services Services, middlewares middlewares.MiddlewaresI, appMetrics *metrics.Metrics, mediaDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), appMetrics.Middleware())
	router.GET("/metrics", gin.WrapH(appMetrics.Handler()))
	if mediaDir != "" {
		router.Static("/media", mediaDir)
	}

	v1 := router.Group("/api").Group("/v1")
	NewAuthHandler(services.Auth, services.JWT, middlewares).RegisterRoutes(v1)
	NewPropertyHandler(services.Property, middlewares).RegisterRoutes(v1)
	NewUserHandler(services.User, middlewares).RegisterRoutes(v1)
	NewAdminHandler(services.Property, services.User, services.Settings, services.PropertyType, middlewares).RegisterRoutes(v1)
	NewInquiryHandler(services.Inquiry, services.JWT, middlewares).RegisterRoutes(v1)
	NewFavouritesHandler(services.Favourites, middlewares).RegisterRoutes(v1)
	return router
}
