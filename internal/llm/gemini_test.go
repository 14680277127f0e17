package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, model string, h http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g, err := NewGemini(context.Background(), "secret", model, srv.URL, srv.Client())
	require.NoError(t, err)
	return g
}

func TestGeminiGenerate(t *testing.T) {
	t.Parallel()

	g := newTestGemini(t, "models/test-model", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent"), r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" B"},{"text":"\n"}]}}]}`))
	})
	assert.Equal(t, "test-model", g.Model())

	text, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "B", text)
}

func TestGeminiGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"http error", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota"}}`, ErrGenerationFailed},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, ErrEmptyResponse},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, ErrGenerationFailed},
		{"bad json", http.StatusOK, `not json`, ErrGenerationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGemini(t, "", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGeminiListModelsFollowsPages(t *testing.T) {
	t.Parallel()

	g := newTestGemini(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/a"}],"nextPageToken":"next"}`))
			return
		}
		assert.Equal(t, "next", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{"models":[{"name":"models/b","inputTokenLimit":1024,"supportedGenerationMethods":["generateContent"]}]}`))
	})

	models, err := g.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/a", models[0].Name)
	assert.Equal(t, "models/b", models[1].Name)
	assert.Equal(t, 1024, models[1].InputTokenLimit)
	assert.Equal(t, []string{"generateContent"}, models[1].SupportedActions)
}

func TestNewGeminiDefaults(t *testing.T) {
	t.Parallel()

	g, err := NewGemini(context.Background(), "k", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.Model())

	_, err = NewGemini(context.Background(), "", "", "", nil)
	assert.Error(t, err)
}
