package domain

import "context"

// CertificateIssuedEmailData is the data for the certificate-issued
// notification template.
type CertificateIssuedEmailData struct {
	StudentName string
	EventName   string
	CertUID     string
	VerifyURL   string
	DownloadURL string
}

// Mailer sends a single email. Implementations may be SES-backed or a
// no-op for development.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject,
// HTML body, and text body.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// EmailService sends domain notifications.
type EmailService interface {
	SendCertificateIssued(ctx context.Context, to string, data *CertificateIssuedEmailData) error
}
