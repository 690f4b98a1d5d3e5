// Package envelope writes the {"status","body","error"} response every endpoint returns.
// The HTTP status is always 200; the outcome travels in "status".
package envelope

import (
	"errors"
	"imovelhub/pkg/customerror"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func OK(ctx *gin.Context, body gin.H) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"body":   body,
		"error":  nil,
	})
}

func Abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(http.StatusOK, gin.H{
		"status": status,
		"body":   gin.H{},
		"error":  message,
	})
}

var knownErrors = []struct {
	err     error
	status  int
	message string
}{
	{customerror.ErrNotFound, http.StatusNotFound, "not found"},
	{customerror.ErrDuplicateEmail, http.StatusConflict, "user already exists"},
	{customerror.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{customerror.ErrWrongCredentials, http.StatusUnauthorized, "invalid credentials"},
	{customerror.ErrAccountBlocked, http.StatusForbidden, "account blocked"},
	{customerror.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{customerror.ErrPendingApproval, http.StatusConflict, "listing is pending approval"},
	{customerror.ErrInvalidTransition, http.StatusConflict, "invalid status transition"},
	{customerror.ErrAttemptsEnded, http.StatusUnauthorized, "attempts ended"},
	{customerror.ErrTimedOut, http.StatusBadRequest, "timed out"},
	{jwt.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
	{customerror.ErrJwtInvalid, http.StatusUnauthorized, "token invalid"},
	{customerror.ErrJwtVersionIncorrect, http.StatusUnauthorized, "token invalid"},
}

// AbortWithError maps domain errors to their envelope. Anything unknown is logged under module
// and reported as an internal error.
func AbortWithError(ctx *gin.Context, err error, module string) {
	var fields customerror.ValidationErrors
	if errors.As(err, &fields) {
		ctx.AbortWithStatusJSON(http.StatusOK, gin.H{
			"status": http.StatusBadRequest,
			"body":   gin.H{"fields": fields},
			"error":  "invalid data",
		})
		return
	}
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			Abort(ctx, known.status, known.message)
			return
		}
	}
	log.Print(customerror.Wrap(err, module).Error())
	Abort(ctx, http.StatusInternalServerError, "Internal Server Error")
}
