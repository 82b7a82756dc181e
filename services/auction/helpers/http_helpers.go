package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-house/internal/auctionerrors"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// AuthHeader carries the session token on authenticated requests
const AuthHeader = "X-Authorization"

// ContextUserIDKey is the gin context key the auth middleware stores the caller's user ID under
const ContextUserIDKey = "user_id"

// ContextTokenKey holds the raw session token of an authenticated request
const ContextTokenKey = "session_token"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// RespondError maps err to a status and message, writes the error envelope and logs it
func RespondError(c *gin.Context, handlerName, logMessage string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+logMessage, fields)
		return
	}
	utils.Warn(handlerName+": "+logMessage, fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, auctionerrors.ErrQuestionNotFound):
		return http.StatusNotFound, "question not found"
	case errors.Is(err, auctionerrors.ErrMissingToken),
		errors.Is(err, auctionerrors.ErrUnauthorized),
		errors.Is(err, auctionerrors.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, auctionerrors.ErrOwnItem):
		return http.StatusForbidden, "not allowed on your own item"
	case errors.Is(err, auctionerrors.ErrNotSeller):
		return http.StatusForbidden, "only the seller can answer"
	case errors.Is(err, auctionerrors.ErrEmailInUse):
		return http.StatusBadRequest, "email already in use"
	case errors.Is(err, auctionerrors.ErrInvalidCredentials):
		return http.StatusBadRequest, "invalid email/password supplied"
	case errors.Is(err, auctionerrors.ErrInvalidPassword):
		return http.StatusBadRequest, "password must be 6 to 72 bytes"
	case errors.Is(err, auctionerrors.ErrAuthRequired):
		return http.StatusBadRequest, "status filter requires a session token"
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusBadRequest, "auction has ended"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusBadRequest, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrInvalidEndDate):
		return http.StatusBadRequest, "invalid end date"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ParseIDParam reads a positive integer path parameter
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w - %s must be a positive integer, got %q", auctionerrors.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// CurrentUserID returns the user ID set by the auth middleware, or 0 for anonymous requests
func CurrentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
