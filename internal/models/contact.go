package models

import (
	"strings"
	"time"
)

// Message status values. Any value may be set; no transition order is enforced.
const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// Inquiry types offered by the contact form. The set is open-ended.
const (
	InquiryGeneral       = "general"
	InquiryConsulting    = "consulting"
	InquiryEmployment    = "employment"
	InquiryCollaboration = "collaboration"
)

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Company     *string   `json:"company" bson:"company,omitempty"`
	Message     string    `json:"message" bson:"message"`
	InquiryType string    `json:"inquiry_type" bson:"inquiry_type"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Status      string    `json:"status" bson:"status"`
	ReferenceID string    `json:"reference_id" bson:"reference_id"`
}

// ContactMessageCreate is the contact-form payload.
type ContactMessageCreate struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Company     *string `json:"company" validate:"omitempty,max=200"`
	Message     string  `json:"message" validate:"required,max=5000"`
	InquiryType string  `json:"inquiry_type" validate:"max=50"`
}

// Validate trims the free-text fields and checks the payload.
func (c *ContactMessageCreate) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)
	c.InquiryType = strings.ToLower(strings.TrimSpace(c.InquiryType))
	if c.Company != nil {
		company := strings.TrimSpace(*c.Company)
		if company == "" {
			c.Company = nil
		} else {
			c.Company = &company
		}
	}
	return validateStruct(c)
}

// ContactResponse is returned to the contact form after a submission.
type ContactResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ReferenceID string `json:"reference_id"`
}
