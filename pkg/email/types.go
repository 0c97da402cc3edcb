package email

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	ServiceLabel string
	Message      string
}

// Content is a rendered message, ready for dispatch.
type Content struct {
	Subject string
	HTML    string
	Text    string
}
