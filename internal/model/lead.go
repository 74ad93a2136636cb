package model

import "time"

// LeadStatus tracks follow-up progress on an enquiry.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
)

// Lead is a contact-form enquiry from a prospective student.
type Lead struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Message   string     `json:"message"`
	Source    string     `json:"source,omitempty"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateLeadRequest is the payload for the public contact form.
type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Phone   string `json:"phone" binding:"omitempty,min=7,max=20"`
	Message string `json:"message" binding:"required,min=5,max=2000"`
	Source  string `json:"source" binding:"omitempty,max=100"`
}

// UpdateLeadStatusRequest is the payload for moving a lead along the pipeline.
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" binding:"required,oneof=new contacted converted"`
}
