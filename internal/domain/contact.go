package domain

import (
	"context"
	"time"
)

// ServiceInterest is the service a visitor asks about.
type ServiceInterest string

const (
	ServiceUnspecified       ServiceInterest = ""
	ServiceProjectManagement ServiceInterest = "project-management"
	ServiceProcurement       ServiceInterest = "procurement"
	ServiceRealEstate        ServiceInterest = "real-estate"
	ServiceConsultation      ServiceInterest = "consultation"
	ServiceOther             ServiceInterest = "other"
)

// Label returns the human readable name used in notification emails.
func (s ServiceInterest) Label() string {
	switch s {
	case ServiceProjectManagement:
		return "Project Management"
	case ServiceProcurement:
		return "Procurement Services"
	case ServiceRealEstate:
		return "Real Estate Management"
	case ServiceConsultation:
		return "General Consultation"
	case ServiceOther:
		return "Other"
	default:
		return "Not specified"
	}
}

// ContactRequest is the raw body of POST /send-email, JSON or urlencoded form.
// Unknown fields are ignored.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Company string `json:"company" form:"company"`
	Service string `json:"service" form:"service"`
	Message string `json:"message" form:"message"`
}

// ContactForm is a validated submission. Only the contact usecase constructs it.
// Field order here is the order validation errors are reported in.
type ContactForm struct {
	Name    string          `json:"name" validate:"required,min=2,max=100"`
	Email   string          `json:"email" validate:"required,email"`
	Phone   string          `json:"phone" validate:"omitempty,min=10,max=20"`
	Company string          `json:"company" validate:"max=100"`
	Service ServiceInterest `json:"service" validate:"omitempty,oneof=project-management procurement real-estate consultation other"`
	Message string          `json:"message" validate:"required,min=10,max=2000"`
}

// DispatchResult is the outcome of a successful relay.
type DispatchResult struct {
	MessageID string
	SentAt    time.Time
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Validate normalises and checks a raw submission.
	Validate(req *ContactRequest) (*ContactForm, error)
	// SendContactMessage validates, renders and relays a submission.
	SendContactMessage(ctx context.Context, req *ContactRequest) (*DispatchResult, error)
}
