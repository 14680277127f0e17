//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "bar", got["foo"])
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, "session not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"session not found"}`, w.Body.String())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		limit  int64
		ok     bool
		status int
	}{
		{name: "valid", body: `{"message":"hi"}`, limit: 1024, ok: true},
		{name: "malformed", body: `{"message":`, limit: 1024, status: http.StatusBadRequest},
		{name: "too large", body: `{"message":"` + strings.Repeat("x", 64) + `"}`, limit: 16, status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var v struct {
				Message string `json:"message"`
			}
			ok := Decode(w, r, tt.limit, &v)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "hi", v.Message)
				return
			}
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

type fixedCount int

func (c fixedCount) Count() int { return int(c) }

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()

	NewHealthHandler(fixedCount(3), "gemini-2.5-flash").Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"api":"ok","model":"gemini-2.5-flash","sessions":"3"}}`, w.Body.String())
}
