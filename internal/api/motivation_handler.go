package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

// MotivationHandler serves quotes and kudos content.
type MotivationHandler struct {
	motivationService service.MotivationService
}

func NewMotivationHandler(motivationService service.MotivationService) *MotivationHandler {
	return &MotivationHandler{motivationService: motivationService}
}

type AddQuoteRequest struct {
	Text   string `json:"text" binding:"required,max=500"`
	Author string `json:"author" binding:"omitempty,max=100"`
}

type AddKudosRequest struct {
	Text string `json:"text" binding:"required,max=200"`
}

// QuoteOfTheDay handles GET /motivation/quote.
func (h *MotivationHandler) QuoteOfTheDay(c *gin.Context) {
	quote, err := h.motivationService.QuoteOfTheDay(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoContent) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load quote")
		}
		return
	}
	c.JSON(http.StatusOK, quote)
}

// AddQuote handles POST /motivation/quotes (admin).
func (h *MotivationHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	quote, err := h.motivationService.AddQuote(c.Request.Context(), req.Text, req.Author)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to add quote")
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// AddKudos handles POST /motivation/kudos (admin).
func (h *MotivationHandler) AddKudos(c *gin.Context) {
	var req AddKudosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	phrase, err := h.motivationService.AddKudos(c.Request.Context(), req.Text)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to add kudos phrase")
		return
	}
	c.JSON(http.StatusCreated, phrase)
}
