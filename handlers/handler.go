// Package handlers exposes scan sessions, one-shot analysis and the
// analysis history over HTTP with gin.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"skinscan/analysis"
	"skinscan/capture"
	"skinscan/config"
	"skinscan/database"
	"skinscan/models"
	"skinscan/routinelog"
	"skinscan/workflow"
)

type Handler struct {
	cfg      *config.Config
	store    *database.Store
	sessions *workflow.Store
	analyzer *analysis.Analyzer
	logger   *slog.Logger

	stopSweep context.CancelFunc
	swept     chan struct{}
}

// New creates the upload directory and returns a handler backed by store.
func New(cfg *config.Config, store *database.Store, analyzer *analysis.Analyzer, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		cfg:   cfg,
		store: store,
		sessions: workflow.NewStore(
			workflow.WithIdleTTL(cfg.SessionTTL),
			workflow.WithMaxSessions(cfg.MaxSessions),
		),
		analyzer:  analyzer,
		logger:    logger,
		stopSweep: cancel,
		swept:     make(chan struct{}),
	}
	go h.sweepSessions(ctx, cfg.SessionTTL/2)
	return h, nil
}

// sweepSessions drops idle sessions until ctx is cancelled.
func (h *Handler) sweepSessions(ctx context.Context, every time.Duration) {
	defer close(h.swept)
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.sessions.Sweep(); n > 0 {
				h.logger.Debug("expired idle sessions", "count", n, "live", h.sessions.Len())
			}
		}
	}
}

// Close stops the session sweeper and ends every live session.
func (h *Handler) Close() {
	h.stopSweep()
	<-h.swept
	h.sessions.CloseAll()
}

// Router builds the gin engine with all routes.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(h.logger), CORS(h.cfg.AllowedOrigins))
	router.MaxMultipartMemory = h.cfg.MaxUploadSize

	api := router.Group("/api")
	{
		api.POST("/analyze", h.UploadAndAnalyze)

		api.GET("/history", h.GetAllAnalyses)
		api.GET("/history/:id", h.GetAnalysisByID)
		api.DELETE("/history/:id", h.DeleteAnalysis)

		api.GET("/statistics", h.GetStatistics)

		api.GET("/catalog/ingredients", h.GetIngredients)
		api.GET("/catalog/options", h.GetProfileOptions)

		s := api.Group("/sessions")
		s.POST("", h.CreateSession)
		s.GET("/:id", h.GetSession)
		s.DELETE("/:id", h.DeleteSession)
		s.POST("/:id/navigate", h.Navigate)
		s.POST("/:id/back", h.Back)
		s.PUT("/:id/profile", h.UpdateProfile)
		s.POST("/:id/profile/conditions", h.ToggleCondition)
		s.POST("/:id/capture", h.Capture)
		s.POST("/:id/camera-error", h.CameraError)
		s.DELETE("/:id/error", h.DismissError)
		s.POST("/:id/analyze", h.StartScan)
		s.GET("/:id/progress", h.GetProgress)
		s.GET("/:id/results", h.GetResults)
		s.GET("/:id/log", h.GetLog)
		s.POST("/:id/log", h.AddLogEntry)
	}

	router.Static("/uploads", h.cfg.UploadDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "Skin Analysis API",
			"sessions": h.sessions.Len(),
		})
	})

	return router
}

// persist stores the image next to the history row for result.
func (h *Handler) persist(ctx context.Context, result *models.AnalysisResult, img *capture.CapturedImage, originalName string) (models.Analysis, error) {
	path := filepath.Join(h.cfg.UploadDir, result.ID+"."+img.Format)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return models.Analysis{}, fmt.Errorf("failed to save image: %w", err)
	}
	if originalName == "" {
		originalName = filepath.Base(path)
	}

	record := models.NewAnalysisRecord(result, path, originalName, img.Metadata)
	if err := h.store.Create(ctx, &record); err != nil {
		return models.Analysis{}, err
	}
	return record, nil
}

func (h *Handler) onSessionResult(ctx context.Context, result *models.AnalysisResult, img *capture.CapturedImage) {
	name := string(img.Source) + "." + img.Format
	if _, err := h.persist(ctx, result, img, name); err != nil {
		h.logger.Error("failed to save session analysis", "id", result.ID, "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	switch {
	case errors.Is(err, workflow.ErrSessionNotFound), errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrIncompleteProfile):
		status = http.StatusConflict
		body["can_proceed"] = false
	case errors.Is(err, workflow.ErrIllegalTransition),
		errors.Is(err, workflow.ErrWrongScreen),
		errors.Is(err, workflow.ErrScanInProgress),
		errors.Is(err, workflow.ErrNoImage),
		errors.Is(err, workflow.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrTooManySessions):
		status = http.StatusTooManyRequests
	case errors.Is(err, capture.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, capture.ErrImageDecode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, capture.ErrEmptyImage),
		errors.Is(err, capture.ErrNotImage),
		errors.Is(err, models.ErrUnknownOption),
		errors.Is(err, routinelog.ErrInvalidRoutine),
		errors.Is(err, routinelog.ErrInvalidCondition):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, body)
}
