package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// QuestionHandler handles question bank management endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListBanks godoc
// GET /api/v1/tutor/question-banks
// Lists all question banks.
func (h *QuestionHandler) ListBanks(c *gin.Context) {
	banks, err := h.questionService.ListBanks(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if banks == nil {
		banks = []model.QuestionBank{}
	}

	response.Success(c, http.StatusOK, gin.H{"banks": banks})
}

// GetBank godoc
// GET /api/v1/tutor/question-banks/:id
// Returns one bank with its full question list, answers included.
func (h *QuestionHandler) GetBank(c *gin.Context) {
	bankID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	bank, questions, err := h.questionService.GetBank(c.Request.Context(), bankID)
	if err != nil {
		if errors.Is(err, service.ErrBankNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if questions == nil {
		questions = []model.BankQuestion{}
	}

	response.Success(c, http.StatusOK, gin.H{"bank": bank, "questions": questions})
}

// CreateBank godoc
// POST /api/v1/tutor/question-banks
// Creates an empty question bank owned by the caller.
func (h *QuestionHandler) CreateBank(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuestionBankRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	bank, err := h.questionService.CreateBank(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"bank": bank})
}

// UpdateBank godoc
// PUT /api/v1/tutor/question-banks/:id
// Updates a bank's name, description, or active flag.
func (h *QuestionHandler) UpdateBank(c *gin.Context) {
	bankID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionBankRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	bank, err := h.questionService.UpdateBank(c.Request.Context(), bankID, &req)
	if err != nil {
		if errors.Is(err, service.ErrBankNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bank": bank})
}

// DeleteBank godoc
// DELETE /api/v1/tutor/question-banks/:id
// Deletes a bank and all of its questions.
func (h *QuestionHandler) DeleteBank(c *gin.Context) {
	bankID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.DeleteBank(c.Request.Context(), bankID); err != nil {
		if errors.Is(err, service.ErrBankNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question bank deleted successfully"})
}

// ReplaceQuestions godoc
// PUT /api/v1/tutor/question-banks/:id/questions
// Bulk replaces all questions in a bank.
func (h *QuestionHandler) ReplaceQuestions(c *gin.Context) {
	bankID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.questionService.ReplaceQuestions(c.Request.Context(), bankID, &req)
	if err != nil {
		if errors.Is(err, service.ErrBankNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"questions": err.Error()})
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
