package server

import (
	"context"
	"time"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// Authenticator resolves session tokens to user IDs
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = utils.GenerateID()
	}
	c.Header(RequestIDHeader, requestID)

	c.Next() // process request

	fields := map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": requestID,
	}
	if userID := helpers.CurrentUserID(c); userID > 0 {
		fields["user_id"] = userID
	}
	utils.Info("HTTP Request", fields)
}

// AuthMiddleware rejects requests without a valid X-Authorization session token
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, auth, true)
	}
}

// OptionalAuthMiddleware identifies the caller when a token is sent. An invalid token is still rejected.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, auth, false)
	}
}

func authenticate(c *gin.Context, auth Authenticator, required bool) {
	token := c.GetHeader(helpers.AuthHeader)
	if token == "" && !required {
		c.Next()
		return
	}

	userID, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.AbortJSONError(c, status, err, message)
		utils.Warn("AuthMiddleware: authentication failed", map[string]any{
			"path":   c.Request.URL.Path,
			"status": status,
			"error":  err.Error(),
		})
		return
	}

	c.Set(helpers.ContextUserIDKey, userID)
	c.Set(helpers.ContextTokenKey, token)
	c.Next()
}
