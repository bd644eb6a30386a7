package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Fawadali4423/UEMS/config"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

// maxTemplateSize is the upload limit for template images (5 MiB).
const maxTemplateSize = 5 << 20

var allowedTemplateExts = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"gif":  {},
}

type certificateService struct {
	eventRepo    domain.EventRepository
	certRepo     domain.CertificateRepository
	templateRepo domain.TemplateRepository
	studentRepo  domain.StudentRepository
	store        domain.ObjectStore
	renderer     domain.CertificateRenderer
	emailService domain.EmailService
	logger       *slog.Logger

	issuanceMode   string
	verifyBaseURL  string
	now            func() time.Time
	entropy        io.Reader
	contextTimeout time.Duration
}

// NewCertificateService builds the certificate lifecycle service.
// The clock and entropy source are injected so issuance is deterministic
// under test; pass time.Now and crypto/rand.Reader in production.
// issuanceMode selects config.IssuanceAlways (reference behavior: a new
// record on every request) or config.IssuanceReuse (return the existing
// record for the same event/student pair).
func NewCertificateService(
	eventRepo domain.EventRepository,
	certRepo domain.CertificateRepository,
	templateRepo domain.TemplateRepository,
	studentRepo domain.StudentRepository,
	store domain.ObjectStore,
	renderer domain.CertificateRenderer,
	emailService domain.EmailService,
	logger *slog.Logger,
	issuanceMode string,
	verifyBaseURL string,
	now func() time.Time,
	entropy io.Reader,
	timeout time.Duration,
) domain.CertificateService {
	return &certificateService{
		eventRepo:      eventRepo,
		certRepo:       certRepo,
		templateRepo:   templateRepo,
		studentRepo:    studentRepo,
		store:          store,
		renderer:       renderer,
		emailService:   emailService,
		logger:         logger,
		issuanceMode:   issuanceMode,
		verifyBaseURL:  verifyBaseURL,
		now:            now,
		entropy:        entropy,
		contextTimeout: timeout,
	}
}

// newCertUID generates a certificate identifier: the CERT- prefix, the
// issuance instant in hex milliseconds, and a random suffix drawn from
// the injected entropy source. Time gives monotonicity, the suffix makes
// identifiers non-enumerable.
func (s *certificateService) newCertUID() (string, error) {
	u, err := uuid.NewRandomFromReader(s.entropy)
	if err != nil {
		return "", fmt.Errorf("generate certificate id: %w", err)
	}
	suffix := strings.ToUpper(strings.ReplaceAll(u.String(), "-", ""))[:10]
	return fmt.Sprintf("%s%X-%s", domain.CertUIDPrefix, s.now().UnixMilli(), suffix), nil
}

func (s *certificateService) UploadTemplate(ctx context.Context, up *domain.TemplateUpload) (*domain.UploadedTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if up.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", domain.ErrInvalidInput)
	}
	ext := strings.ToLower(strings.TrimPrefix(up.Ext, "."))
	if _, ok := allowedTemplateExts[ext]; !ok {
		return nil, fmt.Errorf("%w: image must be jpeg, jpg, png or gif", domain.ErrInvalidInput)
	}
	if len(up.Image) == 0 || len(up.Image) > maxTemplateSize {
		return nil, fmt.Errorf("%w: image must be between 1 byte and 5 MiB", domain.ErrInvalidInput)
	}
	if len(up.RawConfig) > 0 {
		var cfg domain.TemplateConfig
		if err := json.Unmarshal(up.RawConfig, &cfg); err != nil {
			return nil, fmt.Errorf("%w: templateConfig is not valid JSON: %v", domain.ErrInvalidInput, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	filename := fmt.Sprintf("certificate_%s_%s.%s", up.EventID, s.now().Format("20060102150405"), ext)
	path := domain.TemplateDir + "/" + filename
	if err := s.store.Put(ctx, path, up.Image); err != nil {
		return nil, fmt.Errorf("store template image: %w", err)
	}

	if len(up.RawConfig) > 0 {
		configPath := strings.TrimSuffix(path, "."+ext) + ".json"
		if err := s.store.Put(ctx, configPath, up.RawConfig); err != nil {
			return nil, fmt.Errorf("store template config: %w", err)
		}
	}

	now := s.now()
	tpl := &domain.CertificateTemplate{
		EventID:      up.EventID,
		TemplatePath: path,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.templateRepo.Upsert(ctx, tpl); err != nil {
		return nil, fmt.Errorf("upsert certificate template: %w", err)
	}

	return &domain.UploadedTemplate{
		ImageURL: s.store.URL(path),
		Filename: filename,
		Path:     path,
	}, nil
}

// resolveTemplate loads the event's template image and sibling placement
// config. A missing template means "use the default layout". A template
// whose config is missing, unreadable, or invalid still renders with the
// background image and no overlays; those failures are logged, never
// propagated.
func (s *certificateService) resolveTemplate(ctx context.Context, eventID string) (image []byte, ext string, cfg domain.TemplateConfig) {
	tpl, err := s.templateRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "template lookup failed, using default layout", "event_id", eventID, "err", err)
		}
		return nil, "", nil
	}

	image, err = s.store.Get(ctx, tpl.TemplatePath)
	if err != nil {
		s.logger.WarnContext(ctx, "template image unreadable, using default layout", "event_id", eventID, "path", tpl.TemplatePath, "err", err)
		return nil, "", nil
	}
	if i := strings.LastIndex(tpl.TemplatePath, "."); i >= 0 {
		ext = tpl.TemplatePath[i+1:]
	}

	configPath := strings.TrimSuffix(tpl.TemplatePath, "."+ext) + ".json"
	ok, err := s.store.Exists(ctx, configPath)
	if err != nil || !ok {
		return image, ext, nil
	}
	raw, err := s.store.Get(ctx, configPath)
	if err != nil {
		s.logger.WarnContext(ctx, "template config unreadable, rendering without overlays", "event_id", eventID, "path", configPath, "err", err)
		return image, ext, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.logger.WarnContext(ctx, "template config malformed, rendering without overlays", "event_id", eventID, "path", configPath, "err", err)
		return image, ext, nil
	}
	if err := cfg.Validate(); err != nil {
		s.logger.WarnContext(ctx, "template config invalid, rendering without overlays", "event_id", eventID, "err", err)
		return image, ext, nil
	}
	return image, ext, cfg
}

func (s *certificateService) Issue(ctx context.Context, eventID string, req *domain.IssueRequest) (*domain.IssuedCertificate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.now()
	student := &domain.Student{
		ID:        req.StudentID,
		Name:      req.StudentName,
		Email:     req.StudentEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.RollNumber != "" {
		roll := req.RollNumber
		student.RollNumber = &roll
	}
	if err := s.studentRepo.Upsert(ctx, student); err != nil {
		return nil, fmt.Errorf("upsert student: %w", err)
	}

	if s.issuanceMode == config.IssuanceReuse {
		existing, err := s.certRepo.GetByEventAndStudent(ctx, eventID, req.StudentID)
		if err == nil {
			return s.describe(existing), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get existing certificate: %w", err)
		}
	}

	image, ext, cfg := s.resolveTemplate(ctx, eventID)

	certUID, err := s.newCertUID()
	if err != nil {
		return nil, err
	}
	rollNumber := req.RollNumber
	if rollNumber == "" && student.RollNumber != nil {
		rollNumber = *student.RollNumber
	}

	pdf, err := s.renderer.Render(domain.RenderSpec{
		StudentName:   req.StudentName,
		RollNumber:    rollNumber,
		EventTitle:    event.Title,
		EventDate:     event.Date,
		CertUID:       certUID,
		TemplateImage: image,
		TemplateExt:   ext,
		Config:        cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	path := fmt.Sprintf("%s/certificate_%s.pdf", domain.GeneratedDir, certUID)
	if err := s.store.Put(ctx, path, pdf); err != nil {
		return nil, fmt.Errorf("store certificate document: %w", err)
	}

	cert := &domain.GeneratedCertificate{
		StudentID:       req.StudentID,
		EventID:         eventID,
		CertUID:         certUID,
		CertificatePath: path,
		Downloads:       0,
		CreatedAt:       now,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		// No partial state: the rendered document must not outlive a
		// failed record insert.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.logger.ErrorContext(ctx, "orphaned certificate document after failed insert", "path", path, "err", delErr)
		}
		return nil, fmt.Errorf("persist certificate record: %w", err)
	}

	if s.emailService != nil && req.StudentEmail != "" {
		data := &domain.CertificateIssuedEmailData{
			StudentName: req.StudentName,
			EventName:   event.Title,
			CertUID:     certUID,
			VerifyURL:   s.verifyBaseURL + "/certificates/verify/" + certUID,
			DownloadURL: s.store.URL(path),
		}
		if err := s.emailService.SendCertificateIssued(ctx, req.StudentEmail, data); err != nil {
			s.logger.WarnContext(ctx, "certificate issued email failed", "cert_uid", certUID, "err", err)
		}
	}

	return s.describe(cert), nil
}

func (s *certificateService) describe(cert *domain.GeneratedCertificate) *domain.IssuedCertificate {
	url := s.store.URL(cert.CertificatePath)
	return &domain.IssuedCertificate{
		CertificateID: cert.CertUID,
		PDFURL:        url,
		GeneratedAt:   cert.CreatedAt,
		Certificate:   cert,
		DownloadURL:   url,
	}
}

func (s *certificateService) ListStudentCertificates(ctx context.Context, studentID string) ([]*domain.CertificateWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	certs, err := s.certRepo.ListByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	out := make([]*domain.CertificateWithEvent, 0, len(certs))
	for _, c := range certs {
		entry := &domain.CertificateWithEvent{Certificate: c}
		event, err := s.eventRepo.GetByID(ctx, c.EventID)
		if err == nil {
			entry.Event = event
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get event for certificate %s: %w", c.CertUID, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Verify looks up a certificate by its public identifier. A missing
// certificate is a negative verdict on a successful lookup, not an
// error; deleted student or event records degrade to placeholder names.
func (s *certificateService) Verify(ctx context.Context, certUID string) (*domain.VerificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cert, err := s.certRepo.GetByCertUID(ctx, certUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.VerificationResult{Valid: false, Message: "Certificate not found"}, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}

	studentName := domain.UnknownStudentName
	if student, err := s.studentRepo.GetByID(ctx, cert.StudentID); err == nil {
		studentName = student.Name
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get student: %w", err)
	}

	eventName := domain.UnknownEventName
	if event, err := s.eventRepo.GetByID(ctx, cert.EventID); err == nil {
		eventName = event.Title
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &domain.VerificationResult{
		Valid: true,
		Data: &domain.VerificationData{
			StudentName:    studentName,
			EventName:      eventName,
			IssueDate:      cert.CreatedAt.Format("2006-01-02"),
			CertificateUID: cert.CertUID,
			DownloadURL:    s.store.URL(cert.CertificatePath),
		},
	}, nil
}

func (s *certificateService) Download(ctx context.Context, certUID string) (*domain.GeneratedCertificate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cert, err := s.certRepo.GetByCertUID(ctx, certUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	if err := s.certRepo.IncrementDownloads(ctx, certUID); err != nil {
		return nil, fmt.Errorf("increment downloads: %w", err)
	}
	cert.Downloads++
	return cert, nil
}

func (s *certificateService) Stats(ctx context.Context) (*domain.CertificateStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	students, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	certs, err := s.certRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count certificates: %w", err)
	}
	return &domain.CertificateStats{
		TotalStudents:         students,
		TotalEvents:           events,
		CertificatesGenerated: certs,
	}, nil
}
