package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firmledger/firmledger/internal/api/dto"
	ierr "github.com/firmledger/firmledger/internal/errors"
	"github.com/firmledger/firmledger/internal/logger"
	"github.com/firmledger/firmledger/internal/service"
)

// DunningHandler exposes the escalation policy engine over REST. It is the
// in-process boundary the host screens talk to.
type DunningHandler struct {
	policyService service.EscalationPolicyService
	log           *logger.Logger
}

func NewDunningHandler(policyService service.EscalationPolicyService, log *logger.Logger) *DunningHandler {
	return &DunningHandler{
		policyService: policyService,
		log:           log,
	}
}

// RegisterRoutes mounts the dunning routes on a router group
func (h *DunningHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dunning := rg.Group("/dunning")
	{
		dunning.GET("/policy", h.GetPolicy)
		dunning.PUT("/policy", h.SavePolicy)
		dunning.POST("/policy/reset", h.ResetToDefaults)
		dunning.GET("/policy/timeline", h.GetTimeline)

		dunning.POST("/templates", h.CreateTemplate)
		dunning.PUT("/templates/:id", h.UpdateTemplate)
		dunning.DELETE("/templates/:id", h.DeleteTemplate)
		dunning.POST("/templates/:id/change-day", h.ChangeDayTrigger)
		dunning.POST("/templates/:id/days-before-due", h.SetDaysBeforeDue)
		dunning.POST("/templates/:id/final-status", h.SetTemplateFinalStatus)

		dunning.PUT("/retry-schedule", h.UpdateRetrySchedule)
		dunning.PUT("/final-action", h.UpdateFinalAction)

		dunning.POST("/preview", h.PreviewTemplate)
		dunning.GET("/merge-fields", h.ListMergeFields)
	}
}

func (h *DunningHandler) GetPolicy(c *gin.Context) {
	resp, err := h.policyService.GetPolicy(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) SavePolicy(c *gin.Context) {
	var req dto.SaveEscalationPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.SavePolicy(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) ResetToDefaults(c *gin.Context) {
	resp, err := h.policyService.ResetToDefaults(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) GetTimeline(c *gin.Context) {
	resp, err := h.policyService.GetTimeline(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateReminderTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DunningHandler) UpdateTemplate(c *gin.Context) {
	var req dto.UpdateReminderTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.UpdateTemplate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) DeleteTemplate(c *gin.Context) {
	if err := h.policyService.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *DunningHandler) ChangeDayTrigger(c *gin.Context) {
	var req dto.ChangeDayTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	req.TemplateID = c.Param("id")

	resp, err := h.policyService.ChangeDayTrigger(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) SetDaysBeforeDue(c *gin.Context) {
	var req dto.SetDaysBeforeDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	req.TemplateID = c.Param("id")

	resp, err := h.policyService.SetDaysBeforeDue(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) SetTemplateFinalStatus(c *gin.Context) {
	var req dto.SetTemplateFinalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}
	req.TemplateID = c.Param("id")

	resp, err := h.policyService.SetTemplateFinalStatus(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) UpdateRetrySchedule(c *gin.Context) {
	var req dto.UpdateRetryScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.UpdateRetrySchedule(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) UpdateFinalAction(c *gin.Context) {
	var req dto.UpdateFinalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.UpdateFinalAction(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) PreviewTemplate(c *gin.Context) {
	var req dto.PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.policyService.PreviewTemplate(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DunningHandler) ListMergeFields(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewListMergeFieldsResponse())
}
