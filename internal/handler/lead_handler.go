package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// LeadHandler handles enquiry capture and follow-up endpoints.
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateLead godoc
// POST /api/v1/public/leads
// Public contact form. No authentication required.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req model.CreateLeadRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"lead": lead})
}

// ListLeads godoc
// GET /api/v1/admin/leads?status=&page=&per_page=
func (h *LeadHandler) ListLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	var status *model.LeadStatus
	if raw := c.Query("status"); raw != "" {
		s := model.LeadStatus(raw)
		switch s {
		case model.LeadStatusNew, model.LeadStatusContacted, model.LeadStatusConverted:
			status = &s
		default:
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
	}

	leads, total, err := h.leadService.List(c.Request.Context(), status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if leads == nil {
		leads = []model.Lead{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"leads": leads}, buildPagination(page, perPage, total))
}

// UpdateLeadStatus godoc
// PATCH /api/v1/admin/leads/:id/status
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateLeadStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lead, err := h.leadService.UpdateStatus(c.Request.Context(), leadID, req.Status)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}
