package middlewares

import (
	"context"
	"imovelhub/internal/envelope"
	"imovelhub/internal/repository"
	"imovelhub/internal/service"
	"imovelhub/pkg/user"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MiddlewaresI interface {
	ValidUser() gin.HandlerFunc
	OptionalUser() gin.HandlerFunc
	AdminOnly() gin.HandlerFunc
	ThisUserOrAdmin() gin.HandlerFunc
	MyProperty() gin.HandlerFunc
	ProfessionalOnly() gin.HandlerFunc
}

type Middlewares struct {
	jwtService   service.JWTServiceI
	propertyRepo repository.PropertyRepositoryI
}

func NewMiddlewares(jwtService service.JWTServiceI, propertyRepo repository.PropertyRepositoryI) MiddlewaresI {
	return &Middlewares{
		jwtService:   jwtService,
		propertyRepo: propertyRepo,
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx *gin.Context) *user.User {
	value, exists := ctx.Get("user")
	if !exists {
		return nil
	}
	current, _ := value.(*user.User)
	return current
}

func (middlewares *Middlewares) ValidUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := middlewares.jwtService.ValidateToken(ctx.GetHeader("Authorization"))
		if err != nil {
			envelope.AbortWithError(ctx, err, "Middlewares.ValidUser")
			return
		}
		ctx.Set("user", user)
		ctx.Next()
	}
}

// OptionalUser lets anonymous requests through. A token that is present must still be valid.
func (middlewares *Middlewares) OptionalUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		middlewares.ValidUser()(ctx)
	}
}

func (middlewares *Middlewares) AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		current := CurrentUser(ctx)
		if current == nil {
			envelope.Abort(ctx, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !current.IsAdmin() {
			envelope.Abort(ctx, http.StatusForbidden, "Forbidden")
			return
		}
		ctx.Next()
	}
}

func (middlewares *Middlewares) ThisUserOrAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		current := CurrentUser(ctx)
		if current == nil {
			envelope.Abort(ctx, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !current.IsAdmin() && ctx.Param("id") != current.UUID.String() {
			envelope.Abort(ctx, http.StatusForbidden, "Forbidden")
			return
		}
		ctx.Next()
	}
}

// ProfessionalOnly admits brokers and agencies.
func (middlewares *Middlewares) ProfessionalOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		current := CurrentUser(ctx)
		if current == nil {
			envelope.Abort(ctx, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !current.IsProfessional() {
			envelope.Abort(ctx, http.StatusForbidden, "Forbidden")
			return
		}
		ctx.Next()
	}
}

// MyProperty loads the listing in :id and admits its owner or an administrator.
func (middlewares *Middlewares) MyProperty() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		current := CurrentUser(ctx)
		if current == nil {
			envelope.Abort(ctx, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		propertyId, err := uuid.Parse(ctx.Param("id"))
		if err != nil {
			envelope.Abort(ctx, http.StatusBadRequest, "invalid id")
			return
		}
		c, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		found, err := middlewares.propertyRepo.GetProperty(c, propertyId)
		if err != nil {
			envelope.AbortWithError(ctx, err, "Middlewares.MyProperty")
			return
		}
		if found.OwnerId != current.UUID && !current.IsAdmin() {
			envelope.Abort(ctx, http.StatusForbidden, "Forbidden")
			return
		}
		ctx.Set("property", found)
		ctx.Next()
	}
}
