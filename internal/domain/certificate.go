package domain

import (
	"context"
	"fmt"
	"time"
)

// CertUIDPrefix is the human-inspectable prefix of every certificate
// identifier.
const CertUIDPrefix = "CERT-"

// Placeholder display values used by verification when a referenced
// record has since been deleted.
const (
	UnknownStudentName = "Unknown Student"
	UnknownEventName   = "Unknown Event"
)

// Overlay defaults applied when a template config omits a style field.
const (
	DefaultNameFontSize = 24
	DefaultRollFontSize = 18
	DefaultOverlayColor = "#000000"
)

// Well-known template config field names.
const (
	FieldStudentName = "studentName"
	FieldRollNumber  = "rollNumber"
)

// FieldPlacement positions one dynamic text overlay on a certificate
// background. X and Y are normalized to [0,1] relative to the page.
// swagger:model FieldPlacement
type FieldPlacement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// TemplateConfig maps logical field names (e.g. "studentName",
// "rollNumber") to their placement on the template background.
type TemplateConfig map[string]FieldPlacement

// Validate checks every placement is inside the unit square and has a
// non-negative font size. Returns ErrInvalidInput-wrapped errors.
func (c TemplateConfig) Validate() error {
	for name, p := range c {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return fmt.Errorf("%w: field %q position (%v,%v) outside [0,1]", ErrInvalidInput, name, p.X, p.Y)
		}
		if p.FontSize < 0 {
			return fmt.Errorf("%w: field %q has negative font size", ErrInvalidInput, name)
		}
	}
	return nil
}

// CertificateTemplate links an event to its uploaded background image.
// The sibling placement config, when present, lives in the object store
// at the same base path with a ".json" extension.
// swagger:model CertificateTemplate
type CertificateTemplate struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	TemplatePath string    `json:"template_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GeneratedCertificate is one issued certificate. Immutable once created
// except for the download counter.
// swagger:model GeneratedCertificate
type GeneratedCertificate struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	EventID         string    `json:"event_id"`
	CertUID         string    `json:"cert_uid"`
	CertificatePath string    `json:"certificate_path"`
	Downloads       int       `json:"downloads"`
	CreatedAt       time.Time `json:"created_at"`
}

// CertificateWithEvent bundles an issued certificate with its event for
// student-facing listings. Event is nil when the event was deleted.
type CertificateWithEvent struct {
	Certificate *GeneratedCertificate `json:"certificate"`
	Event       *Event                `json:"event,omitempty"`
}

// IssuedCertificate is the descriptor returned by certificate issuance.
// swagger:model IssuedCertificate
type IssuedCertificate struct {
	CertificateID string                `json:"certificateId"`
	PDFURL        string                `json:"pdfUrl"`
	GeneratedAt   time.Time             `json:"generatedAt"`
	Certificate   *GeneratedCertificate `json:"certificate"`
	DownloadURL   string                `json:"download_url"`
}

// VerificationData is the public, denormalized detail of a valid
// certificate. It deliberately exposes nothing beyond display fields and
// the download reference.
// swagger:model VerificationData
type VerificationData struct {
	StudentName    string `json:"studentName"`
	EventName      string `json:"eventName"`
	IssueDate      string `json:"issueDate"`
	CertificateUID string `json:"certificateUid"`
	DownloadURL    string `json:"downloadUrl"`
}

// VerificationResult is the verdict of a certificate lookup. A missing
// certificate is a normal outcome (Valid false), not an error.
// swagger:model VerificationResult
type VerificationResult struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
	Data    *VerificationData `json:"data,omitempty"`
}

// IssueRequest carries the authenticated caller's identity into
// certificate issuance. Name and Email come from verified token claims.
type IssueRequest struct {
	StudentID    string
	StudentName  string
	StudentEmail string
	RollNumber   string
}

// TemplateRepository stores the one-to-one event/template linkage.
type TemplateRepository interface {
	Upsert(ctx context.Context, tpl *CertificateTemplate) error
	GetByEventID(ctx context.Context, eventID string) (*CertificateTemplate, error)
}

// CertificateRepository stores issued certificates.
type CertificateRepository interface {
	Create(ctx context.Context, cert *GeneratedCertificate) error
	GetByCertUID(ctx context.Context, certUID string) (*GeneratedCertificate, error)
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*GeneratedCertificate, error)
	ListByStudentID(ctx context.Context, studentID string) ([]*GeneratedCertificate, error)
	IncrementDownloads(ctx context.Context, certUID string) error
	Count(ctx context.Context) (int, error)
}

// RenderSpec describes one certificate document to render.
// TemplateImage is empty for the default layout; when set, Config may
// still be nil (background only, no overlays).
type RenderSpec struct {
	StudentName string
	RollNumber  string
	EventTitle  string
	EventDate   string
	CertUID     string

	TemplateImage []byte
	TemplateExt   string
	Config        TemplateConfig
}

// CertificateRenderer renders a certificate document (PDF bytes).
type CertificateRenderer interface {
	Render(spec RenderSpec) ([]byte, error)
}

// TemplateUpload is the parsed input of a template upload.
type TemplateUpload struct {
	EventID   string
	Filename  string
	Ext       string
	Image     []byte
	RawConfig []byte // optional JSON placement config, stored as sibling asset
}

// UploadedTemplate describes a stored template asset.
// swagger:model UploadedTemplate
type UploadedTemplate struct {
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// CertificateStats is the admin counter summary.
// swagger:model CertificateStats
type CertificateStats struct {
	TotalStudents         int `json:"total_students"`
	TotalEvents           int `json:"total_events"`
	CertificatesGenerated int `json:"certificates_generated"`
}

// CertificateService defines the certificate lifecycle: template upload,
// issuance, student listings, public verification, downloads, and admin
// counters.
type CertificateService interface {
	UploadTemplate(ctx context.Context, up *TemplateUpload) (*UploadedTemplate, error)
	Issue(ctx context.Context, eventID string, req *IssueRequest) (*IssuedCertificate, error)
	ListStudentCertificates(ctx context.Context, studentID string) ([]*CertificateWithEvent, error)
	Verify(ctx context.Context, certUID string) (*VerificationResult, error)
	Download(ctx context.Context, certUID string) (*GeneratedCertificate, error)
	Stats(ctx context.Context) (*CertificateStats, error)
}
