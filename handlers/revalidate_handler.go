package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

// RevalidateHandler exposes the cache-invalidation webhook called by the
// publishing tools when content changes.
type RevalidateHandler struct {
	revalidator RevalidatorInterface
}

func NewRevalidateHandler(revalidator RevalidatorInterface) *RevalidateHandler {
	return &RevalidateHandler{revalidator: revalidator}
}

// Revalidate triggers a debounced content cache flush
// POST /v1/revalidate?secret=...
func (h *RevalidateHandler) Revalidate(c *gin.Context) {
	log := logger.GetLogger()

	secret := c.Query("secret")
	if secret == "" {
		secret = c.GetHeader("X-Revalidation-Secret")
	}

	if !h.revalidator.SecretMatches(secret) {
		log.Warnw("Revalidation rejected: invalid secret", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, types.RevalidateResponse{
			Error: "Invalid secret",
		})
		return
	}

	h.revalidator.Trigger()

	c.JSON(http.StatusOK, types.RevalidateResponse{
		Revalidated: true,
		Now:         time.Now().UnixMilli(),
	})
}
