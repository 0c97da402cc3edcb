package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gx-services-backend/internal/domain"
	"gx-services-backend/pkg/apperror"
	"gx-services-backend/pkg/email"
	"gx-services-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactRenderer builds the notification email for a submission.
type ContactRenderer interface {
	Render(data email.ContactEmailData) (email.Content, error)
}

// ContactDispatcher relays a rendered email and returns its message id.
type ContactDispatcher interface {
	Send(ctx context.Context, content email.Content, replyTo string) (string, error)
}

type contactUsecase struct {
	validate   *validator.Validate
	renderer   ContactRenderer
	dispatcher ContactDispatcher
	log        *slog.Logger
	now        func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(validate *validator.Validate, renderer ContactRenderer, dispatcher ContactDispatcher, log *slog.Logger) domain.ContactUsecase {
	return &contactUsecase{
		validate:   validate,
		renderer:   renderer,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Validate trims the submission, lower-cases the email and checks it against the
// ContactForm rules. Errors are *apperror.AppError of kind Validation carrying
// []validation.FieldError.
func (uc *contactUsecase) Validate(req *domain.ContactRequest) (*domain.ContactForm, error) {
	if req == nil {
		req = &domain.ContactRequest{}
	}

	form := domain.ContactForm{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		Service: domain.ServiceInterest(req.Service),
		Message: strings.TrimSpace(req.Message),
	}

	if err := uc.validate.Struct(form); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil, apperror.Internal(err)
		}
		return nil, apperror.Validation(validation.FormatValidationErrors(err))
	}

	return &form, nil
}

// SendContactMessage validates the contact request and sends the email
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (*domain.DispatchResult, error) {
	form, err := uc.Validate(req)
	if err != nil {
		return nil, err
	}

	content, err := uc.renderer.Render(email.ContactEmailData{
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Company:      form.Company,
		ServiceLabel: form.Service.Label(),
		Message:      form.Message,
	})
	if err != nil {
		return nil, apperror.DispatchFailed(err)
	}

	messageID, err := uc.dispatcher.Send(ctx, content, form.Email)
	if err != nil {
		if errors.Is(err, email.ErrVerifyFailed) {
			return nil, apperror.ServiceUnavailable(fmt.Errorf("smtp connection failed: %w", err))
		}
		return nil, apperror.DispatchFailed(fmt.Errorf("error sending email: %w", err))
	}

	sentAt := uc.now().UTC()
	uc.log.InfoContext(ctx, "Email sent successfully",
		"messageId", messageID,
		"from", form.Email,
		"name", form.Name,
		"timestamp", sentAt.Format(time.RFC3339Nano),
	)

	return &domain.DispatchResult{MessageID: messageID, SentAt: sentAt}, nil
}
