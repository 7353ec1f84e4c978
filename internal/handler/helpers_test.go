package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"doccompare/internal/handler"
	"doccompare/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a gin context for an authenticated user. A nil body
// sends no payload; any other value is JSON encoded.
func newTestContext(method, path string, body interface{}, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		c.Set(middleware.ContextKeyUserID, userID)
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
