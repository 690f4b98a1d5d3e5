package service

import (
	"context"
	"errors"
	"imovelhub/internal/repository"
	"imovelhub/pkg/config"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/user"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carry identity only. Role and status are read from the store on every request.
type Claims struct {
	UserId  uuid.UUID `json:"user_id"`
	Version uint      `json:"version"`
	jwt.RegisteredClaims
}

type JWTServiceI interface {
	GenerateToken(user *user.User, isAccess bool) (string, error)
	ValidateToken(token string) (*user.User, error)
}

type JWTService struct {
	appConfig *config.Config
	userRepo  repository.UserRepositoryI
}

func NewJWTService(appConfig *config.Config, userRepo repository.UserRepositoryI) JWTServiceI {
	return &JWTService{
		appConfig: appConfig,
		userRepo:  userRepo,
	}
}

func (jwtService *JWTService) GenerateToken(user *user.User, isAccess bool) (string, error) {
	expireTime := time.Now().Add(1 * time.Hour)
	if !isAccess {
		expireTime = time.Now().AddDate(0, 1, 0)
	}
	claims := Claims{
		UserId:  user.UUID,
		Version: user.JWTVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(jwtService.appConfig.SecretKey))
	if err != nil {
		return "", customerror.NewError("JWTService.GenerateToken", jwtService.appConfig.Endpoint(), err.Error())
	}
	return tokenString, nil
}

// ValidateToken accepts a raw token or an "Authorization: Bearer" value.
func (jwtService *JWTService) ValidateToken(token string) (*user.User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	tokenClaims := &Claims{}
	_, err := jwt.ParseWithClaims(token, tokenClaims, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtService.appConfig.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, customerror.ErrJwtInvalid
	}
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	user, err := jwtService.userRepo.GetUser(ctx, tokenClaims.UserId)
	if errors.Is(err, customerror.ErrNotFound) {
		return nil, customerror.ErrJwtInvalid
	}
	if err != nil {
		return nil, customerror.Wrap(err, "JWTService.ValidateToken")
	}
	if user.JWTVersion != tokenClaims.Version {
		return nil, customerror.ErrJwtVersionIncorrect
	}
	if user.IsBlocked() {
		return nil, customerror.ErrAccountBlocked
	}
	return user, nil
}
