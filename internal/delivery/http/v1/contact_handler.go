package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gx-services-backend/internal/delivery/http/middleware"
	"gx-services-backend/internal/delivery/http/response"
	"gx-services-backend/internal/domain"
	"gx-services-backend/pkg/apperror"
	"gx-services-backend/pkg/security"
	"gx-services-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	secLog    *security.SecurityLogger
}

// NewContactHandler registers the contact route (public, no auth required)
func NewContactHandler(r gin.IRoutes, contactUC domain.ContactUsecase, secLog *security.SecurityLogger, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		secLog:    secLog,
	}

	r.POST("/send-email", append(mw, handler.SendEmail)...)
}

// SendEmail godoc
// @Summary      Submit Contact Form
// @Description  Validates a contact form submission and relays it by email to the GX Services team.
// @Tags         contact
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	var req domain.ContactRequest
	if appErr := bindContactRequest(c, &req); appErr != nil {
		h.logRejected(c, &req, appErr)
		_ = c.Error(appErr)
		return
	}

	result, err := h.contactUC.SendContactMessage(c.Request.Context(), &req)
	if err != nil {
		h.logRejected(c, &req, err)
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Your message has been sent successfully! We will get back to you soon.", result.MessageID)
}

// bindContactRequest reads a urlencoded form or a JSON body into req. Any other
// content type is parsed as JSON.
func bindContactRequest(c *gin.Context, req *domain.ContactRequest) *apperror.AppError {
	if c.ContentType() == binding.MIMEPOSTForm {
		if err := c.ShouldBindWith(req, binding.Form); err != nil {
			return bindError(err)
		}
		return nil
	}

	raw, err := c.GetRawData()
	if err != nil {
		return bindError(err)
	}
	return decodeJSON(raw, req)
}

// decodeJSON accepts a single JSON object or array, with nothing after it. An empty
// body decodes as an empty object and is left to validation. Explicit nulls are
// reported as type mismatches.
func decodeJSON(raw []byte, req *domain.ContactRequest) *apperror.AppError {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] != '{' && raw[0] != '[' {
		return apperror.MalformedBody(errors.New("body must be a JSON object or array"))
	}

	if err := json.Unmarshal(raw, req); err != nil {
		return bindError(err)
	}

	if nulls := validation.NullFields(raw, req); len(nulls) > 0 {
		return apperror.Validation(nulls)
	}
	return nil
}

// bindError classifies a body decoding failure. A bare io.EOF means no body.
func bindError(err error) *apperror.AppError {
	if errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperror.PayloadTooLarge(err)
	}

	if details, ok := validation.FromDecodeError(err); ok {
		return apperror.Validation(details)
	}

	return apperror.MalformedBody(err)
}

func (h *ContactHandler) logRejected(c *gin.Context, req *domain.ContactRequest, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return
	}

	ctx := c.Request.Context()
	reqID := c.GetString(middleware.RequestIDKey)

	switch appErr.Kind {
	case apperror.KindValidation:
		details, _ := appErr.Details.([]validation.FieldError)
		h.secLog.LogValidationFailed(ctx, req.Email, c.ClientIP(), reqID, validation.Fields(details))
	case apperror.KindMalformedBody:
		h.secLog.Log(ctx, security.SecurityEvent{Event: security.EventMalformedBody, IP: c.ClientIP(), RequestID: reqID})
	case apperror.KindPayloadTooLarge:
		h.secLog.Log(ctx, security.SecurityEvent{Event: security.EventOversizedBody, IP: c.ClientIP(), RequestID: reqID})
	}
}
