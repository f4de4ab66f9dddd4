package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloft/termdeck/backend/internal/config"
	"github.com/codeloft/termdeck/backend/internal/logging"
	"github.com/codeloft/termdeck/backend/internal/platform"
	"github.com/codeloft/termdeck/backend/internal/profile"
	"github.com/codeloft/termdeck/backend/internal/shell"
	"github.com/codeloft/termdeck/backend/internal/terminal"
)

type testPlatform struct{}

func (testPlatform) OS() string               { return runtime.GOOS }
func (testPlatform) Getenv(key string) string { return map[string]string{"SHELL": "/bin/sh"}[key] }
func (testPlatform) FileExists(string) bool   { return false }

func newTestRouter(t *testing.T) (*gin.Engine, *terminal.Supervisor) {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		t.Skip("PTY sessions are not supported on windows in this test")
	}
	gin.SetMode(gin.TestMode)

	sup := terminal.NewSupervisor(config.Default().Terminal, shell.NewResolver(testPlatform{}), logging.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sup.Shutdown(ctx)
	})

	h := NewHandlers(sup, profile.Static{}, profile.Static{})

	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/terminals", h.CreateTerminal)
	r.GET("/terminals", h.ListTerminals)
	r.GET("/terminals/:id", h.GetTerminal)
	r.GET("/terminals/:id/buffer", h.GetBuffer)
	r.POST("/terminals/:id/input", h.WriteInput)
	r.POST("/terminals/:id/resize", h.ResizeTerminal)
	r.DELETE("/terminals/:id", h.KillTerminal)
	r.PATCH("/terminals/:id", h.UpdateTerminal)
	return r, sup
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTerminal(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/terminals", gin.H{
		"working_dir": t.TempDir(),
		"cols":        80,
		"rows":        24,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Terminal terminal.Info `json:"terminal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Terminal.ID)
	return resp.Terminal.ID
}

func TestRootAndHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCreateListGet(t *testing.T) {
	r, _ := newTestRouter(t)

	id := createTerminal(t, r)

	w := doJSON(t, r, http.MethodGet, "/terminals", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = doJSON(t, r, http.MethodGet, "/terminals/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/terminals/term_unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/terminals", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInputAndBuffer(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createTerminal(t, r)

	w := doJSON(t, r, http.MethodPost, "/terminals/"+id+"/input", gin.H{"data": "echo over-http\n"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Eventually(t, func() bool {
		w := doJSON(t, r, http.MethodGet, "/terminals/"+id+"/buffer", nil)
		if w.Code != http.StatusOK {
			return false
		}
		var resp struct {
			Data string `json:"data"`
		}
		if json.Unmarshal(w.Body.Bytes(), &resp) != nil {
			return false
		}
		raw, err := base64.StdEncoding.DecodeString(resp.Data)
		return err == nil && bytes.Contains(raw, []byte("over-http"))
	}, 5*time.Second, 20*time.Millisecond, "echoed output should reach the buffer")

	w = doJSON(t, r, http.MethodPost, "/terminals/term_unknown/input", gin.H{"data": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResize(t *testing.T) {
	r, sup := newTestRouter(t)
	id := createTerminal(t, r)

	w := doJSON(t, r, http.MethodPost, "/terminals/"+id+"/resize", gin.H{"cols": 132, "rows": 43})
	require.Equal(t, http.StatusOK, w.Code)

	info, ok := sup.Get(id)
	require.True(t, ok)
	assert.Equal(t, 132, info.Cols)
	assert.Equal(t, 43, info.Rows)

	w = doJSON(t, r, http.MethodPost, "/terminals/"+id+"/resize", gin.H{"cols": 0, "rows": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetadataPatch(t *testing.T) {
	r, sup := newTestRouter(t)
	id := createTerminal(t, r)

	w := doJSON(t, r, http.MethodPatch, "/terminals/"+id, gin.H{
		"title":          "deploy logs",
		"pending_resume": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	info, ok := sup.Get(id)
	require.True(t, ok)
	assert.Equal(t, "deploy logs", info.Title)
	assert.True(t, info.PendingResume)

	w = doJSON(t, r, http.MethodPatch, "/terminals/term_unknown", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKillRemovesOnExit(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createTerminal(t, r)

	w := doJSON(t, r, http.MethodDelete, "/terminals/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Removal happens on the exit path, shortly after the kill.
	assert.Eventually(t, func() bool {
		return doJSON(t, r, http.MethodGet, "/terminals/"+id, nil).Code == http.StatusNotFound
	}, 5*time.Second, 20*time.Millisecond)

	// Idempotent from the client's view.
	w = doJSON(t, r, http.MethodDelete, "/terminals/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
