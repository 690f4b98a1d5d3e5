package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/mailer"
	"imovelhub/pkg/security"
	"imovelhub/pkg/user"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	resetHashAttempts = 5
	resetHashLifetime = 30 * time.Minute
	resetHashCooldown = 5 * time.Minute
)

type AuthServiceI interface {
	SignIn(email string, password string) (*user.User, error)
	SignUp(name string, email string, password string, accountType user.AccountType) (*user.User, error)
	RequestPasswordReset(email string) error
	ResetPassword(userId uuid.UUID, resetHash string, password string) error
}

type AuthService struct {
	userRepo repository.UserRepositoryI
	mailer   mailer.Mailer
	host     string
	port     string
	mainUrl  string
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepositoryI, mailer mailer.Mailer, host, port, mainUrl string, now func() time.Time) AuthServiceI {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		host:     host,
		port:     port,
		mainUrl:  mainUrl,
		now:      now,
	}
}

// SignIn reports a blocked account only once the password has been verified.
func (authService *AuthService) SignIn(email string, password string) (*user.User, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	account, err := authService.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, customerror.ErrNotFound) {
		return nil, customerror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, customerror.Wrap(err, "AuthService.SignIn")
	}
	credential, err := authService.userRepo.GetCredential(ctx, account.UUID)
	if errors.Is(err, customerror.ErrNotFound) {
		return nil, customerror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, customerror.Wrap(err, "AuthService.SignIn")
	}
	if !security.CheckPassword(credential.PasswordHash, password) {
		return nil, customerror.ErrInvalidCredentials
	}
	if account.IsBlocked() {
		return nil, customerror.ErrAccountBlocked
	}
	return account, nil
}

func (authService *AuthService) SignUp(name string, email string, password string, accountType user.AccountType) (*user.User, error) {
	name = strings.TrimSpace(name)
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	// a taken address wins over any form problem
	_, err := authService.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, customerror.ErrDuplicateEmail
	}
	if !errors.Is(err, customerror.ErrNotFound) {
		return nil, customerror.Wrap(err, "AuthService.SignUp")
	}
	if err := user.ValidateRegistration(name, email, password, accountType); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, customerror.NewError("AuthService.SignUp", authService.host+":"+authService.port, err.Error())
	}
	account := &user.User{
		UUID:             uuid.New(),
		Name:             name,
		Email:            email,
		AccountType:      accountType,
		Role:             user.RoleUser,
		Status:           user.StatusActive,
		ValidationStatus: user.ValidationNotSubmitted,
		CreatedAt:        authService.now(),
	}
	err = authService.userRepo.InsertUser(ctx, account, &user.Credential{UserId: account.UUID, PasswordHash: hash})
	if err != nil {
		return nil, customerror.Wrap(err, "AuthService.SignUp")
	}
	return account, nil
}

// RequestPasswordReset always succeeds so callers cannot probe which addresses exist.
func (authService *AuthService) RequestPasswordReset(email string) error {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	account, err := authService.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, customerror.ErrNotFound) {
			log.Print(customerror.Wrap(err, "AuthService.RequestPasswordReset").Error())
		}
		return nil
	}
	credential, err := authService.userRepo.GetCredential(ctx, account.UUID)
	if err != nil {
		log.Print(customerror.Wrap(err, "AuthService.RequestPasswordReset").Error())
		return nil
	}
	now := authService.now()
	if credential.ResetHashCreatedAt.Valid && credential.ResetHashCreatedAt.Time.Add(resetHashCooldown).After(now) {
		return nil
	}
	credential.ResetHash = security.GenerateHash()
	credential.ResetHashCreatedAt = sql.NullTime{Time: now, Valid: true}
	credential.ResetHashAttempts = resetHashAttempts
	if err := authService.userRepo.UpdateCredential(ctx, credential); err != nil {
		log.Print(customerror.Wrap(err, "AuthService.RequestPasswordReset").Error())
		return nil
	}
	go authService.sendResetMail(account, credential.ResetHash)
	return nil
}

func (authService *AuthService) sendResetMail(account *user.User, resetHash string) {
	link := fmt.Sprintf("%s/reset-password?user=%s&hash=%s", authService.mainUrl, account.UUID, resetHash)
	body := "Olá, " + account.Name + ".\nPara redefinir sua senha acesse: " + link + "\n"
	if err := authService.mailer.Send(account.Email, "Redefinição de senha", body); err != nil {
		log.Print(customerror.NewError("AuthService.sendResetMail", authService.host+":"+authService.port, err.Error()).Error())
	}
}

func (authService *AuthService) ResetPassword(userId uuid.UUID, resetHash string, password string) error {
	if err := user.ValidatePassword(password); err != nil {
		return err
	}
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	credential, err := authService.userRepo.GetCredential(ctx, userId)
	if err != nil {
		return customerror.Wrap(err, "AuthService.ResetPassword")
	}
	if credential.ResetHashAttempts <= 0 {
		return customerror.ErrAttemptsEnded
	}
	if !credential.ResetHashCreatedAt.Valid || credential.ResetHash == "" ||
		credential.ResetHashCreatedAt.Time.Add(resetHashLifetime).Before(authService.now()) {
		return customerror.ErrTimedOut
	}
	if !security.EqualHash(credential.ResetHash, resetHash) {
		credential.ResetHashAttempts--
		if err := authService.userRepo.UpdateCredential(ctx, credential); err != nil {
			log.Print(customerror.Wrap(err, "AuthService.ResetPassword").Error())
		}
		return customerror.ErrWrongCredentials
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return customerror.NewError("AuthService.ResetPassword", authService.host+":"+authService.port, err.Error())
	}
	credential.PasswordHash = hash
	credential.ResetHash = ""
	credential.ResetHashCreatedAt = sql.NullTime{}
	credential.ResetHashAttempts = 0
	if err := authService.userRepo.UpdateCredential(ctx, credential); err != nil {
		return customerror.Wrap(err, "AuthService.ResetPassword")
	}
	account, err := authService.userRepo.GetUser(ctx, userId)
	if err != nil {
		return customerror.Wrap(err, "AuthService.ResetPassword")
	}
	account.JWTVersion++
	if err := authService.userRepo.UpdateUser(ctx, account); err != nil {
		return customerror.Wrap(err, "AuthService.ResetPassword")
	}
	return nil
}
