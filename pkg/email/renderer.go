package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// SAST is South Africa Standard Time. The zone has no daylight saving, so a fixed
// offset matches Africa/Johannesburg without depending on tzdata being installed.
var SAST = time.FixedZone("SAST", 2*60*60)

const (
	subjectPrefix   = "New Contact Form Submission - "
	timestampLayout = "2 January 2006 at 15:04"
)

// Renderer turns contact data into a subject, an HTML body and a text body.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
	now  func() time.Time
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithClock overrides the clock used for the "Submitted" line.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer parses the contact templates once. Templates are constants, so a parse
// failure is a programming error.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		html: htmltemplate.Must(htmltemplate.New("contact.html").Parse(contactHTMLTemplate)),
		text: texttemplate.Must(texttemplate.New("contact.txt").Parse(contactTextTemplate)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type templateData struct {
	ContactEmailData
	Submitted string
}

// Render renders data stamped with the current time.
func (r *Renderer) Render(data ContactEmailData) (Content, error) {
	return r.RenderAt(data, r.now())
}

// RenderAt renders data stamped with at. Output depends only on its arguments.
func (r *Renderer) RenderAt(data ContactEmailData, at time.Time) (Content, error) {
	td := templateData{
		ContactEmailData: data,
		Submitted:        FormatSubmitted(at),
	}

	var html bytes.Buffer
	if err := r.html.Execute(&html, td); err != nil {
		return Content{}, fmt.Errorf("%w: html: %w", ErrRenderFailed, err)
	}

	var text bytes.Buffer
	if err := r.text.Execute(&text, td); err != nil {
		return Content{}, fmt.Errorf("%w: text: %w", ErrRenderFailed, err)
	}

	return Content{
		Subject: subjectPrefix + data.Name,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// FormatSubmitted formats t the way en-ZA prints a long date with hour and minute,
// in SAST, e.g. "18 October 2026 at 14:05 (SAST)".
func FormatSubmitted(t time.Time) string {
	return t.In(SAST).Format(timestampLayout) + " (SAST)"
}
