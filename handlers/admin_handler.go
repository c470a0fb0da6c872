package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/services"
	"github.com/business-partner/leads-backend/types"
)

// AdminHandler serves the lead review area: filtered, searchable, sorted
// and paginated listings of both collections plus status updates.
type AdminHandler struct {
	reviewService ReviewServiceInterface
}

func NewAdminHandler(reviewService ReviewServiceInterface) *AdminHandler {
	return &AdminHandler{reviewService: reviewService}
}

// listParamsFromQuery reads the listing parameters. Unknown values are not
// rejected here; the review service validates them.
func listParamsFromQuery(c *gin.Context) types.ListParams {
	p := types.DefaultListParams()

	p.StatusFilter = types.RequestStatus(c.Query("status"))
	p.Search = c.Query("q")

	if col := c.Query("sort"); col != "" {
		p.Sort.Column = types.SortColumn(col)
		p.Sort.Order = types.SortAsc
	}
	if ord := c.Query("order"); ord != "" {
		p.Sort.Order = types.SortOrder(ord)
	}
	if page := c.Query("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil {
			p.Page = n
		}
	}
	return p
}

// ListContactRequests lists contact leads
// GET /v1/admin/requests/contact
func (h *AdminHandler) ListContactRequests(c *gin.Context) {
	page, err := h.reviewService.ListContacts(c.Request.Context(), listParamsFromQuery(c))
	if err != nil {
		_ = c.Error(mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListEquipmentRequests lists equipment leads
// GET /v1/admin/requests/equipment
func (h *AdminHandler) ListEquipmentRequests(c *gin.Context) {
	page, err := h.reviewService.ListEquipment(c.Request.Context(), listParamsFromQuery(c))
	if err != nil {
		_ = c.Error(mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetDashboard returns totals and the most recent leads of both kinds
// GET /v1/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	snapshot, err := h.reviewService.FetchDashboard(c.Request.Context())
	if err != nil {
		_ = c.Error(mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type statusUpdateRequest struct {
	Status types.RequestStatus `json:"status" binding:"required"`
}

// UpdateContactRequestStatus moves a contact lead to a new status
// PATCH /v1/admin/requests/contact/:id/status
func (h *AdminHandler) UpdateContactRequestStatus(c *gin.Context) {
	id, req, ok := h.bindStatusUpdate(c)
	if !ok {
		return
	}

	updated, err := h.reviewService.UpdateContactStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateEquipmentRequestStatus moves an equipment lead to a new status
// PATCH /v1/admin/requests/equipment/:id/status
func (h *AdminHandler) UpdateEquipmentRequestStatus(c *gin.Context) {
	id, req, ok := h.bindStatusUpdate(c)
	if !ok {
		return
	}

	updated, err := h.reviewService.UpdateEquipmentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(mapReviewError(err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) bindStatusUpdate(c *gin.Context) (int64, statusUpdateRequest, bool) {
	var req statusUpdateRequest

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		_ = c.Error(apperrors.ValidationFailed("Invalid request ID", "ID must be a positive integer"))
		return 0, req, false
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", "Expected {\"status\": \"...\"}"))
		return 0, req, false
	}
	return id, req, true
}

// mapReviewError turns a superseded fetch into a conflict the client can
// quietly drop; everything else passes through.
func mapReviewError(err error) error {
	if errors.Is(err, services.ErrStaleSnapshot) {
		return apperrors.NewConflictError("Superseded by a newer request", "Discard this response and keep the newer one")
	}
	return err
}
