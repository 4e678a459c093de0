package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skinscan/capture"
	"skinscan/models"
)

// UploadAndAnalyze analyzes a multipart "image" upload in one request and
// stores the result in the history. Profile fields are optional form values.
func (h *Handler) UploadAndAnalyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	img, err := capture.FromReader(file, h.cfg.MaxUploadSize, capture.SourceUpload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	profile, err := models.NormalizeProfile(profileFromForm(c.Request.MultipartForm))
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), img, profile)
	if err != nil {
		h.writeError(c, err)
		return
	}

	record, err := h.persist(c.Request.Context(), result, img, header.Filename)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info("analysis saved", "id", record.ID, "file", header.Filename, "primary", record.PrimaryType)
	c.JSON(http.StatusOK, record)
}

// profileFromForm reads skin_color, skin_type, environment and conditions.
// Conditions may repeat or be comma separated.
func profileFromForm(form *multipart.Form) models.UserProfile {
	var p models.UserProfile
	if form == nil {
		return p
	}
	first := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	p.SkinColor = first("skin_color")
	p.SkinType = first("skin_type")
	p.Environment = first("environment")
	for _, v := range form.Value["conditions"] {
		for _, cond := range strings.Split(v, ",") {
			if cond = strings.TrimSpace(cond); cond != "" {
				p.Conditions = append(p.Conditions, cond)
			}
		}
	}
	return p
}

type captureRequest struct {
	ImageBase64 string `json:"image_base64"`
	Source      string `json:"source"`
}

// readCapture accepts a multipart "image" file or a JSON base64 payload,
// which may be a data URL from a camera snapshot.
func (h *Handler) readCapture(c *gin.Context) (*capture.CapturedImage, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("image")
		if err != nil {
			return nil, capture.ErrEmptyImage
		}
		defer file.Close()
		return capture.FromReader(file, h.cfg.MaxUploadSize, capture.SourceUpload)
	}

	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if int64(len(req.ImageBase64)) > h.cfg.MaxUploadSize*4/3+64 {
		return nil, capture.ErrTooLarge
	}
	source := capture.SourceUpload
	if req.Source == string(capture.SourceCamera) {
		source = capture.SourceCamera
	}
	return capture.FromDataURL(req.ImageBase64, source)
}

var errBadRequest = errors.New("invalid request body")
