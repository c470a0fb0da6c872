package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

// SubmissionHandler exposes the public lead submission endpoints. The
// response shape is fixed: {"success":true} or {"error":"<message>"}, with
// messages safe to render to the visitor as-is.
type SubmissionHandler struct {
	gateway SubmissionGateway
}

func NewSubmissionHandler(gateway SubmissionGateway) *SubmissionHandler {
	return &SubmissionHandler{gateway: gateway}
}

// SubmitContactRequest handles contact form submissions
// POST /v1/requests/contact
func (h *SubmissionHandler) SubmitContactRequest(c *gin.Context) {
	h.submit(c, types.LeadKindContact)
}

// SubmitEquipmentRequest handles price/consultation requests from catalog
// item pages
// POST /v1/requests/equipment
func (h *SubmissionHandler) SubmitEquipmentRequest(c *gin.Context) {
	h.submit(c, types.LeadKindEquipment)
}

func (h *SubmissionHandler) submit(c *gin.Context, kind types.LeadKind) {
	log := logger.GetLogger()

	var input types.SubmissionInput
	if err := c.ShouldBind(&input); err != nil {
		log.Debugw("Malformed submission payload", "kind", kind, "error", err)
		c.JSON(http.StatusBadRequest, types.SubmissionResponse{
			Error: "Некорректный формат запроса",
		})
		return
	}

	if err := h.gateway.Submit(c.Request.Context(), kind, input); err != nil {
		status := http.StatusInternalServerError
		message := "Произошла ошибка при отправке заявки. Попробуйте позже."
		if appErr, ok := err.(*apperrors.AppError); ok {
			status = appErr.GetHTTPStatus()
			message = appErr.Message
		}
		c.JSON(status, types.SubmissionResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, types.SubmissionResponse{Success: true})
}
