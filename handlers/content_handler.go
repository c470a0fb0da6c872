package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/business-partner/leads-backend/errors"
)

// ContentHandler proxies the read-only catalog and news content.
type ContentHandler struct {
	contentService ContentServiceInterface
}

func NewContentHandler(contentService ContentServiceInterface) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ListEquipment returns the catalog
// GET /v1/content/equipment
func (h *ContentHandler) ListEquipment(c *gin.Context) {
	items, err := h.contentService.GetEquipmentList(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetEquipment returns one catalog item by slug
// GET /v1/content/equipment/:slug
func (h *ContentHandler) GetEquipment(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		_ = c.Error(apperrors.ValidationFailed("Invalid slug", "Slug must not be empty"))
		return
	}

	item, err := h.contentService.GetEquipmentBySlug(c.Request.Context(), slug)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListNews returns published news, newest first
// GET /v1/content/news
func (h *ContentHandler) ListNews(c *gin.Context) {
	items, err := h.contentService.GetNewsList(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetNews returns one news article by slug
// GET /v1/content/news/:slug
func (h *ContentHandler) GetNews(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		_ = c.Error(apperrors.ValidationFailed("Invalid slug", "Slug must not be empty"))
		return
	}

	item, err := h.contentService.GetNewsBySlug(c.Request.Context(), slug)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}
