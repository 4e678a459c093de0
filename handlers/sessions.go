package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skinscan/models"
	"skinscan/report"
	"skinscan/workflow"
)

func (h *Handler) session(c *gin.Context) (*workflow.Controller, bool) {
	ctrl, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return ctrl, true
}

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// CreateSession starts a session on the splash screen.
func (h *Handler) CreateSession(c *gin.Context) {
	ctrl := workflow.NewController(h.analyzer,
		workflow.WithSplashDelay(h.cfg.SplashDelay),
		workflow.WithProgress(h.cfg.Progress()),
		workflow.WithLogger(h.logger),
		workflow.WithResultHook(h.onSessionResult),
	)
	if err := h.sessions.Add(ctrl); err != nil {
		ctrl.Close()
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctrl.State())
}

func (h *Handler) GetSession(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

type navigateRequest struct {
	Screen string `json:"screen" binding:"required"`
}

func (h *Handler) Navigate(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	var req navigateRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	to, err := workflow.ParseScreen(req.Screen)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctrl.Navigate(to); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) Back(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := ctrl.Back(); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	var p models.UserProfile
	if err := bindJSON(c, &p); err != nil {
		h.writeError(c, err)
		return
	}
	profile, err := ctrl.SetProfile(p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "can_proceed": profile.CanProceed()})
}

type conditionRequest struct {
	Condition string `json:"condition" binding:"required"`
}

func (h *Handler) ToggleCondition(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	var req conditionRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	profile, err := ctrl.ToggleCondition(req.Condition)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "can_proceed": profile.CanProceed()})
}

func (h *Handler) Capture(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	img, err := h.readCapture(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := ctrl.Capture(img); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"width":    img.Width,
		"height":   img.Height,
		"format":   img.Format,
		"source":   img.Source,
		"metadata": img.Metadata,
	})
}

type cameraErrorRequest struct {
	Name string `json:"name"`
}

// CameraError records a failure the client hit while opening the camera.
func (h *Handler) CameraError(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	var req cameraErrorRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	camErr, err := ctrl.ReportCameraError(req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": camErr.Kind.String(), "message": camErr.Message()})
}

// DismissError clears the error shown on the current screen.
func (h *Handler) DismissError(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	ctrl.DismissError()
	c.JSON(http.StatusOK, ctrl.State())
}

// StartScan begins the simulated analysis. Poll the progress endpoint until
// the session reaches the results screen.
func (h *Handler) StartScan(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	if err := ctrl.StartScan(); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"progress": ctrl.Progress(), "screen": ctrl.Screen()})
}

func (h *Handler) GetProgress(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	st := ctrl.State()
	c.JSON(http.StatusOK, gin.H{"progress": st.Progress, "screen": st.Screen, "error": st.Error})
}

// GetResults returns the session's result, or a no_data status before any
// scan has finished. ?format=markdown renders a report.
func (h *Handler) GetResults(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	view := ctrl.Results()

	if c.Query("format") == "markdown" {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.Status(http.StatusOK)
		if _, err := report.NewMarkdownWriter(c.Writer).Write(view.Result); err != nil {
			h.logger.Error("failed to render markdown", "error", err)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetLog(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	book := ctrl.LogBook()
	c.JSON(http.StatusOK, gin.H{"entries": book.Entries(), "stats": book.Stats()})
}

type logEntryRequest struct {
	Routine       models.Routine       `json:"routine" binding:"required"`
	SkinCondition models.SkinCondition `json:"skin_condition"`
	Notes         string               `json:"notes"`
}

func (h *Handler) AddLogEntry(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	var req logEntryRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	entry, err := ctrl.AddLogEntry(req.Routine, req.SkinCondition, req.Notes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "stats": ctrl.LogBook().Stats()})
}
