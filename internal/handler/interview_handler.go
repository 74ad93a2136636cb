package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/assessment"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// InterviewHandler handles the HTTP interview test endpoints. The WebSocket
// stream covers the same operations for clients that keep a live connection;
// these endpoints serve page loads and clients that fall back to polling.
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// StartAttempt godoc
// POST /api/v1/student/interview/attempts
func (h *InterviewHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.interviewService.StartAttempt(c.Request.Context(), claims.UserID, req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, assessment.ErrUnknownMode):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownMode)
		case errors.Is(err, service.ErrAttemptActive):
			response.Fail(c, http.StatusConflict, response.ErrAttemptActive)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestionsForMode)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": state})
}

// GetState godoc
// GET /api/v1/student/interview/attempts/:id
func (h *InterviewHandler) GetState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.interviewService.State(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": state})
}

// RecordAnswer godoc
// PUT /api/v1/student/interview/attempts/:id/answers
func (h *InterviewHandler) RecordAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	unanswered, err := h.interviewService.RecordAnswer(c.Request.Context(), attemptID, claims.UserID, req.QuestionID, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, assessment.ErrUnknownQuestion), errors.Is(err, assessment.ErrOptionOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)
		default:
			h.failAttempt(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unanswered": unanswered})
}

// ReportSignal godoc
// POST /api/v1/student/interview/attempts/:id/signals
func (h *InterviewHandler) ReportSignal(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReportSignalRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.interviewService.ReportSignal(c.Request.Context(), attemptID, claims.UserID, req.Signal)
	if err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"interruptions": count})
}

// SubmitAttempt godoc
// POST /api/v1/student/interview/attempts/:id/submit
func (h *InterviewHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	bundle, err := h.interviewService.Submit(c.Request.Context(), attemptID, claims.UserID, req.ConfirmUnanswered)
	if err != nil {
		if errors.Is(err, service.ErrUnansweredRemain) {
			response.Fail(c, http.StatusConflict, response.ErrUnansweredRemain)
			return
		}
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": bundle})
}

// GetReport godoc
// GET /api/v1/student/interview/attempts/:id/report
func (h *InterviewHandler) GetReport(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	bundle, err := h.interviewService.Report(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": bundle})
}

// History godoc
// GET /api/v1/student/interview/attempts
func (h *InterviewHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	attempts, total, err := h.interviewService.History(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, buildPagination(page, perPage, total))
}

func (h *InterviewHandler) failAttempt(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptSubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAttemptSubmitted)
	case errors.Is(err, service.ErrInvalidSignal):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
