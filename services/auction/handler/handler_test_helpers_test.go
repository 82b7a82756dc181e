package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns a router that marks every request as coming from userID (0 = anonymous)
func newTestRouter(userID int64) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set(helpers.ContextUserIDKey, userID)
			c.Set(helpers.ContextTokenKey, "test-token")
		}
		c.Next()
	})
	return router
}

// doRequest sends body (a string is sent raw, anything else as JSON) and decodes the envelope
func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}
