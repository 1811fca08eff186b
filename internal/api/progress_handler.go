package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

// ProgressHandler serves body-stat entries and progress photos.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

type CreateProgressEntryRequest struct {
	RecordedAt *time.Time `json:"recordedAt"`
	WeightKg   *float64   `json:"weightKg" binding:"omitempty,gt=0"`
	BodyFatPct *float64   `json:"bodyFatPct" binding:"omitempty,gt=0,lt=100"`
	ChestCm    *float64   `json:"chestCm" binding:"omitempty,gt=0"`
	WaistCm    *float64   `json:"waistCm" binding:"omitempty,gt=0"`
	HipsCm     *float64   `json:"hipsCm" binding:"omitempty,gt=0"`
	Notes      string     `json:"notes" binding:"omitempty,max=500"`
}

type PhotoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string     `json:"objectKey" binding:"required"`
	ContentType string     `json:"contentType" binding:"required"`
	SizeBytes   int64      `json:"sizeBytes" binding:"omitempty,min=0"`
	TakenAt     *time.Time `json:"takenAt"`
}

// --- Handler Methods ---

// CreateEntry handles POST /progress.
func (h *ProgressHandler) CreateEntry(c *gin.Context) {
	var req CreateProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	in := service.CreateProgressEntryInput{
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		ChestCm:    req.ChestCm,
		WaistCm:    req.WaistCm,
		HipsCm:     req.HipsCm,
		Notes:      req.Notes,
	}
	if req.RecordedAt != nil {
		in.RecordedAt = *req.RecordedAt
	}

	entry, err := h.progressService.CreateEntry(c.Request.Context(), userID, in)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record progress")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListEntries handles GET /progress.
func (h *ProgressHandler) ListEntries(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		to = &t
	}

	entries, err := h.progressService.ListEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list progress")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteEntry handles DELETE /progress/:id.
func (h *ProgressHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.progressService.DeleteEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete entry")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUploadURL handles POST /progress/photos/upload-url.
func (h *ProgressHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	grant, err := h.progressService.RequestPhotoUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, grant)
}

// ConfirmPhoto handles POST /progress/photos.
func (h *ProgressHandler) ConfirmPhoto(c *gin.Context) {
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	takenAt := time.Time{}
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}

	photo, err := h.progressService.ConfirmPhoto(c.Request.Context(), userID, req.ObjectKey, req.ContentType, req.SizeBytes, takenAt)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "object key does not belong to this user")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm photo")
		}
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// ListPhotos handles GET /progress/photos.
func (h *ProgressHandler) ListPhotos(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	photos, err := h.progressService.ListPhotos(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list photos")
		return
	}
	c.JSON(http.StatusOK, photos)
}
