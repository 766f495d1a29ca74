// Package apihandlers implements the synchronous HTTP façade: a liveness
// endpoint and categorize-on-demand. The HTTP path shares the categorizer
// with the queue bridge but never persists or publishes.
package apihandlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"categorization-service/internal/categorizer"
	"categorization-service/internal/models"
)

// Categorizer is the classification surface the HTTP façade needs.
type Categorizer interface {
	Categorize(ctx context.Context, req categorizer.Request) ([]models.CategoryScore, error)
}

type APIHandler struct {
	Categorizer Categorizer
}

func NewAPIHandler(cat Categorizer) *APIHandler {
	return &APIHandler{Categorizer: cat}
}

// CategorizeRequest is the POST /categorize body. Only transcription is
// required; tags, category and topK extend the call the same way the queue
// path does.
type CategorizeRequest struct {
	Transcription string   `json:"transcription"`
	Tags          []string `json:"tags,omitempty"`
	Category      string   `json:"category,omitempty"`
	TopK          int      `json:"topK,omitempty"`
}

// RootHandler answers the liveness probe.
func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Categorization Service is running"})
}

// CategorizeHandler runs a synchronous categorization. Invalid input maps to
// 400, oracle unavailability to 502, anything else to 500.
func (h *APIHandler) CategorizeHandler(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	scores, err := h.Categorizer.Categorize(c.Request.Context(), categorizer.Request{
		Text:     req.Transcription,
		Tags:     req.Tags,
		Category: req.Category,
		TopK:     req.TopK,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			BadRequest(c, err.Error())
		case errors.Is(err, models.ErrOracle):
			BadGateway(c, err.Error())
		default:
			Internal(c, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": scores})
}

// NewRouter assembles the gin engine with both routes.
func NewRouter(handler *APIHandler) *gin.Engine {
	router := gin.Default() // Includes logger and recovery middleware
	router.GET("/", handler.RootHandler)
	router.POST("/categorize", handler.CategorizeHandler)
	return router
}
