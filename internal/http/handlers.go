package http

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeloft/termdeck/backend/internal/profile"
	"github.com/codeloft/termdeck/backend/internal/terminal"
	"github.com/codeloft/termdeck/backend/internal/utils"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	supervisor  *terminal.Supervisor
	settings    profile.Settings
	credentials profile.Credentials
}

// NewHandlers creates a new handler set
func NewHandlers(supervisor *terminal.Supervisor, settings profile.Settings, credentials profile.Credentials) *Handlers {
	return &Handlers{
		supervisor:  supervisor,
		settings:    settings,
		credentials: credentials,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "termdeck-backend",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(h.supervisor.List()),
	})
}

type createRequest struct {
	WorkingDir string            `json:"working_dir"`
	Cols       int               `json:"cols"`
	Rows       int               `json:"rows"`
	Env        map[string]string `json:"env"`
	Preference string            `json:"preference"`
}

// CreateTerminal spawns a new shell session
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateWorkingDir(req.WorkingDir); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDims(req.Cols, req.Rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preference := req.Preference
	if preference == "" {
		preference = h.settings.TerminalPreference()
	}

	// Credential material first, then per-request entries on top.
	env := make(map[string]string)
	for k, v := range h.credentials.Overlay() {
		env[k] = v
	}
	for k, v := range req.Env {
		env[k] = v
	}

	info, err := h.supervisor.Create(terminal.CreateParams{
		WorkingDir: req.WorkingDir,
		Cols:       req.Cols,
		Rows:       req.Rows,
		Env:        env,
		Preference: preference,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"terminal": info})
}

// ListTerminals lists all live sessions
func (h *Handlers) ListTerminals(c *gin.Context) {
	terminals := h.supervisor.List()
	c.JSON(http.StatusOK, gin.H{
		"terminals": terminals,
		"count":     len(terminals),
	})
}

// GetTerminal returns one session
func (h *Handlers) GetTerminal(c *gin.Context) {
	info, ok := h.supervisor.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "terminal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"terminal": info})
}

// GetBuffer returns the session's current output window
func (h *Handlers) GetBuffer(c *gin.Context) {
	data, ok := h.supervisor.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "terminal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"terminal_id": c.Param("id"),
		"data":        base64.StdEncoding.EncodeToString(data),
		"size":        len(data),
	})
}

type inputRequest struct {
	Data string `json:"data" binding:"required"`
}

// WriteInput enqueues input for a session. Delivery is best-effort; an
// unknown id still answers 404 so clients can drop dead tabs.
func (h *Handlers) WriteInput(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.supervisor.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "terminal not found"})
		return
	}

	var req inputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateInput(req.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.supervisor.Write(id, req.Data)
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

type resizeRequest struct {
	Cols int `json:"cols" binding:"required,min=1"`
	Rows int `json:"rows" binding:"required,min=1"`
}

// ResizeTerminal changes the PTY dimensions
func (h *Handlers) ResizeTerminal(c *gin.Context) {
	id := c.Param("id")

	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDims(req.Cols, req.Rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.supervisor.Resize(id, req.Cols, req.Rows)
	c.JSON(http.StatusOK, gin.H{"terminal_id": id})
}

// KillTerminal terminates a session's process
func (h *Handlers) KillTerminal(c *gin.Context) {
	id := c.Param("id")
	h.supervisor.Kill(id)
	c.JSON(http.StatusOK, gin.H{"terminal_id": id})
}

type updateRequest struct {
	Title         *string `json:"title"`
	Cwd           *string `json:"cwd"`
	PendingResume *bool   `json:"pending_resume"`
}

// UpdateTerminal patches session metadata
func (h *Handlers) UpdateTerminal(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.supervisor.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "terminal not found"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		h.supervisor.SetTitle(id, *req.Title)
	}
	if req.Cwd != nil {
		h.supervisor.SetCwd(id, *req.Cwd)
	}
	if req.PendingResume != nil {
		h.supervisor.SetPendingResume(id, *req.PendingResume)
	}

	info, _ := h.supervisor.Get(id)
	c.JSON(http.StatusOK, gin.H{"terminal": info})
}
