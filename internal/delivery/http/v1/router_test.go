package v1_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"gx-services-backend/config"
	v1 "gx-services-backend/internal/delivery/http/v1"
	"gx-services-backend/internal/usecase"
	"gx-services-backend/pkg/email"
	"gx-services-backend/pkg/logger"
	"gx-services-backend/pkg/security"
	"gx-services-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRelay stands in for the SMTP relay behind the gomail dialer.
type fakeRelay struct {
	mu      sync.Mutex
	dialErr error
	sendErr error
	sent    []string
}

func (f *fakeRelay) Dial() (gomail.SendCloser, error) {
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return f, nil
}

func (f *fakeRelay) Send(_ string, _ []string, msg io.WriterTo) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, buf.String())
	f.mu.Unlock()
	return nil
}

func (f *fakeRelay) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Environment:          config.EnvDevelopment,
		EmailFrom:            "noreply@gxservices.co.za",
		EmailFromName:        "GX Services Contact Form",
		EmailTo:              []string{"info@gxservices.co.za"},
		AllowedOrigins:       []string{"https://gxservices.co.za"},
		RateLimitWindow:      15 * time.Minute,
		RateLimitMaxRequests: 100,
		BodyLimitBytes:       10 << 20,
	}
}

func newTestRouter(cfg *config.Config, relay *fakeRelay) *gin.Engine {
	dispatcher := email.NewDispatcher(relay, email.DispatcherConfig{
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		Recipients:  cfg.EmailTo,
	})
	contactUC := usecase.NewContactUsecase(validation.New(), email.NewRenderer(), dispatcher, logger.Nop())

	return v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		Config:         cfg,
		Logger:         logger.Nop(),
		SecurityLogger: security.Nop(),
	})
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.50:5555"
	return req
}

type apiResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	MessageID *string                 `json:"messageId"`
	Errors    []validation.FieldError `json:"errors"`
	Error     *string                 `json:"error"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

const minimalValid = `{"name":"Jo Doe","email":"jo@example.com","message":"Hello, I need help."}`

func TestHealth(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "GX Services Backend API is running", body["message"])
	assert.Equal(t, "development", body["environment"])

	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(body["timestamp"].(string), "Z"))
}

func TestSendEmail_Success(t *testing.T) {
	relay := &fakeRelay{}
	r := newTestRouter(testConfig(), relay)

	w, body := do(t, r, postJSON(minimalValid))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Your message has been sent successfully! We will get back to you soon.", body.Message)
	require.NotNil(t, body.MessageID)
	assert.NotEmpty(t, *body.MessageID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	require.Len(t, relay.sent, 1)
	assert.Contains(t, relay.sent[0], "Reply-To: jo@example.com")
	assert.Contains(t, relay.sent[0], "Subject: New Contact Form Submission - Jo Doe")
	assert.Contains(t, relay.sent[0], "Message-ID: "+*body.MessageID)
}

func TestSendEmail_IgnoresUnknownFields(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	w, body := do(t, r, postJSON(`{"name":"Jo Doe","email":"JO@example.com","message":"Hello, I need help.","newsletter":true}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}

func TestSendEmail_ValidationErrors(t *testing.T) {
	relay := &fakeRelay{}
	r := newTestRouter(testConfig(), relay)

	w, body := do(t, r, postJSON(`{"name":"J","email":"bad","message":"short"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 3)
	assert.Equal(t, "name", body.Errors[0].Field)
	assert.Equal(t, "email", body.Errors[1].Field)
	assert.Equal(t, "message", body.Errors[2].Field)
	assert.Nil(t, body.MessageID)
	assert.Empty(t, relay.sent)
}

func TestSendEmail_EmptyBody(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	w, body := do(t, r, postJSON(""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", body.Message)
	assert.Equal(t, []string{"name", "email", "message"}, validation.Fields(body.Errors))
}

func TestSendEmail_WrongFieldType(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	w, body := do(t, r, postJSON(`{"name":42,"email":"jo@example.com","message":"Hello, I need help."}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, `"name" must be a string`, body.Errors[0].Message)
}

func TestSendEmail_MalformedJSON(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	w, body := do(t, r, postJSON(`{"name":"Jo",`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid JSON in request body", body.Message)
	assert.Nil(t, body.Errors)
}

func TestSendEmail_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.BodyLimitBytes = 64
	r := newTestRouter(cfg, &fakeRelay{})

	w, body := do(t, r, postJSON(`{"name":"Jo Doe","email":"jo@example.com","message":"`+strings.Repeat("x", 200)+`"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body too large", body.Message)
}

func TestSendEmail_VerificationFailure(t *testing.T) {
	relay := &fakeRelay{dialErr: errors.New("dial tcp 10.0.0.1:587: connection refused")}
	r := newTestRouter(testConfig(), relay)

	w, body := do(t, r, postJSON(minimalValid))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Email service temporarily unavailable. Please try again later.", body.Message)
	assert.Nil(t, body.MessageID)
	assert.Nil(t, body.Error)
}

func TestSendEmail_SendFailure(t *testing.T) {
	t.Run("Development echoes the cause", func(t *testing.T) {
		relay := &fakeRelay{sendErr: errors.New("550 relay denied")}
		r := newTestRouter(testConfig(), relay)

		w, body := do(t, r, postJSON(minimalValid))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send message. Please try again later or contact us directly.", body.Message)
		require.NotNil(t, body.Error)
		assert.Contains(t, *body.Error, "550 relay denied")
	})

	t.Run("Production hides the cause", func(t *testing.T) {
		cfg := testConfig()
		cfg.Environment = config.EnvProduction
		relay := &fakeRelay{sendErr: errors.New("550 relay denied")}
		r := newTestRouter(cfg, relay)

		w, body := do(t, r, postJSON(minimalValid))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send message. Please try again later or contact us directly.", body.Message)
		assert.Nil(t, body.Error)
	})
}

func TestNotFound(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/unknown", nil),
		httptest.NewRequest(http.MethodGet, "/send-email", nil),
		httptest.NewRequest(http.MethodPost, "/health", nil),
	} {
		w, body := do(t, r, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.Method, req.URL.Path)
		assert.False(t, body.Success)
		assert.Equal(t, "Endpoint not found", body.Message)
	}
}

func TestCORSRejected(t *testing.T) {
	relay := &fakeRelay{}
	r := newTestRouter(testConfig(), relay)

	req := postJSON(minimalValid)
	req.Header.Set("Origin", "https://evil.example")
	w, body := do(t, r, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CORS policy violation", body.Message)
	assert.Empty(t, relay.sent)
}

func TestSendEmail_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 2
	r := newTestRouter(cfg, &fakeRelay{})

	for i := 0; i < 2; i++ {
		w, _ := do(t, r, postJSON(minimalValid))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := do(t, r, postJSON(minimalValid))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests from this IP, please try again later.", body.Message)

	// Health is not rate limited
	hw := httptest.NewRecorder()
	hreq := httptest.NewRequest(http.MethodGet, "/health", nil)
	hreq.RemoteAddr = "203.0.113.50:5555"
	r.ServeHTTP(hw, hreq)
	assert.Equal(t, http.StatusOK, hw.Code)
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.50:5555"
	return req
}

func TestSendEmail_RejectsTrailingData(t *testing.T) {
	relay := &fakeRelay{}
	r := newTestRouter(testConfig(), relay)

	w, body := do(t, r, postJSON(minimalValid+" garbage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON in request body", body.Message)
	assert.Nil(t, body.MessageID)
	assert.Empty(t, relay.sent)

	w, _ = do(t, r, postJSON(minimalValid+minimalValid))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEmail_RejectsNonObjectJSON(t *testing.T) {
	r := newTestRouter(testConfig(), &fakeRelay{})

	for _, payload := range []string{`null`, `"hello"`, `42`} {
		w, body := do(t, r, postJSON(payload))
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.Equal(t, "Invalid JSON in request body", body.Message, payload)
	}

	w, body := do(t, r, postJSON(`["x"]`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, `"value" must be of type object`, body.Errors[0].Message)
}

func TestSendEmail_NullField(t *testing.T) {
	relay := &fakeRelay{}
	r := newTestRouter(testConfig(), relay)

	w, body := do(t, r, postJSON(`{"name":null,"email":"jo@example.com","message":"Hello, I need help."}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "name", body.Errors[0].Field)
	assert.Equal(t, `"name" must be a string`, body.Errors[0].Message)
	assert.Empty(t, relay.sent)
}

func TestSendEmail_URLEncodedForm(t *testing.T) {
	t.Run("Valid form is relayed", func(t *testing.T) {
		relay := &fakeRelay{}
		r := newTestRouter(testConfig(), relay)

		w, body := do(t, r, postForm(url.Values{
			"name":    {"Jo Doe"},
			"email":   {"jo@example.com"},
			"message": {"Hello, I need help."},
			"service": {"procurement"},
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		require.NotNil(t, body.MessageID)
		require.Len(t, relay.sent, 1)
		assert.Contains(t, relay.sent[0], "Reply-To: jo@example.com")
		assert.Contains(t, relay.sent[0], "Procurement Services")
	})

	t.Run("Invalid form reports field errors", func(t *testing.T) {
		r := newTestRouter(testConfig(), &fakeRelay{})

		w, body := do(t, r, postForm(url.Values{"name": {"J"}, "email": {"bad"}, "message": {"short"}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"name", "email", "message"}, validation.Fields(body.Errors))
	})

	t.Run("Body limit applies to forms", func(t *testing.T) {
		cfg := testConfig()
		cfg.BodyLimitBytes = 64
		r := newTestRouter(cfg, &fakeRelay{})

		w, body := do(t, r, postForm(url.Values{
			"name":    {"Jo Doe"},
			"email":   {"jo@example.com"},
			"message": {strings.Repeat("x", 200)},
		}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "Request body too large", body.Message)
	})
}

func TestSendEmail_RateLimitCountsRejectedRequests(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 2
	r := newTestRouter(cfg, &fakeRelay{})

	rejected := postJSON(minimalValid)
	rejected.Header.Set("Origin", "https://evil.example")
	w, _ := do(t, r, rejected)
	require.Equal(t, http.StatusForbidden, w.Code)

	preflight := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
	preflight.Header.Set("Origin", "https://gxservices.co.za")
	preflight.RemoteAddr = "203.0.113.50:5555"
	pw := httptest.NewRecorder()
	r.ServeHTTP(pw, preflight)
	require.Equal(t, http.StatusNoContent, pw.Code)
	assert.Equal(t, "0", pw.Header().Get("RateLimit-Remaining"))

	w, body := do(t, r, postJSON(minimalValid))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests from this IP, please try again later.", body.Message)
}

func TestSendEmail_TrustedProxies(t *testing.T) {
	viaProxy := func(client string) *http.Request {
		req := postJSON(minimalValid)
		req.RemoteAddr = "10.1.2.3:40000"
		req.Header.Set("X-Forwarded-For", client)
		return req
	}

	t.Run("Forwarded clients get their own bucket", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimitMaxRequests = 1
		cfg.TrustedProxies = []string{"10.0.0.0/8"}
		r := newTestRouter(cfg, &fakeRelay{})

		w, _ := do(t, r, viaProxy("198.51.100.1"))
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, viaProxy("198.51.100.2"))
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, viaProxy("198.51.100.1"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("Untrusted peers cannot spoof X-Forwarded-For", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimitMaxRequests = 1
		r := newTestRouter(cfg, &fakeRelay{})

		w, _ := do(t, r, viaProxy("198.51.100.1"))
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = do(t, r, viaProxy("198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
