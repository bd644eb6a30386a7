package services

import (
	"context"
	"fmt"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendCertificateIssued sends the certificate-issued notification using
// the "certificate_issued" template.
func (s *emailService) SendCertificateIssued(ctx context.Context, to string, data *domain.CertificateIssuedEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate issued data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate_issued", data)
	if err != nil {
		return fmt.Errorf("failed to render certificate issued template: %w", err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send certificate issued email: %w", err)
	}
	return nil
}
