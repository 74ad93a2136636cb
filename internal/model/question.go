package model

import (
	"time"

	"github.com/google/uuid"
)

// BankQuestion represents a stored interview question.
type BankQuestion struct {
	ID            uuid.UUID `json:"id"`
	QBankID       uuid.UUID `json:"qbank_id"`
	Category      string    `json:"category"`
	Prompt        string    `json:"prompt"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Explanation   string    `json:"explanation"`
	Position      int       `json:"position"`
}

// AddQuestionRequest is the payload for adding a question to a bank.
type AddQuestionRequest struct {
	Category      string   `json:"category" binding:"required,oneof=dsa aptitude"`
	Prompt        string   `json:"prompt" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,dive,required,max=500"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
	Position      int      `json:"position" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a bank's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}

// QuestionBank represents a named collection of interview questions.
type QuestionBank struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    *int      `json:"author_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateQuestionBankRequest is the payload for creating a question bank.
type CreateQuestionBankRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty"`
}

// UpdateQuestionBankRequest is the payload for renaming or toggling a bank.
type UpdateQuestionBankRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty"`
	Active      bool   `json:"active"`
}
