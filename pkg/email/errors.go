package email

import "errors"

var (
	// ErrVerifyFailed indicates the relay could not be reached or refused authentication.
	// Nothing was sent.
	ErrVerifyFailed = errors.New("smtp verification failed")

	// ErrSendFailed indicates the relay was reachable but the message was not accepted.
	ErrSendFailed = errors.New("smtp send failed")

	// ErrRenderFailed indicates a template could not be executed.
	ErrRenderFailed = errors.New("failed to render email template")
)
