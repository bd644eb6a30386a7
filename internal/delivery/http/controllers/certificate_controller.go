package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/helpers"
	"github.com/Fawadali4423/UEMS/internal/delivery/http/middleware"
	"github.com/Fawadali4423/UEMS/internal/domain"
)

// uploadMemoryLimit bounds multipart parsing; the 5 MiB image limit
// itself is enforced by the service.
const uploadMemoryLimit = 8 << 20

type CertificateController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewCertificateController(logger *slog.Logger, svc domain.CertificateService) *CertificateController {
	return &CertificateController{
		Logger:  logger,
		Service: svc,
	}
}

// UploadTemplate godoc
// @Summary Upload a certificate template
// @Description Multipart upload of a template background image (jpeg/jpg/png/gif, max 5 MiB) for an event, with an optional templateConfig JSON placement map stored as a sibling asset.
// @Tags certificates
// @Accept mpfd
// @Produce json
// @Param certificate formData file true "Template image"
// @Param eventId formData string true "Event ID"
// @Param templateConfig formData string false "JSON placement config"
// @Success 201 {object} helpers.APIResponse "data contains imageUrl, filename, path"
// @Failure 422 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /certificates/upload [post]
func (c *CertificateController) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uploadMemoryLimit)
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		helpers.WriteValidationError(w, []string{"multipart form required: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("certificate")
	if err != nil {
		helpers.WriteValidationError(w, []string{"certificate image file is required"})
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to upload certificate", err.Error())
		return
	}

	up := &domain.TemplateUpload{
		EventID:   r.FormValue("eventId"),
		Filename:  header.Filename,
		Ext:       filepath.Ext(header.Filename),
		Image:     image,
		RawConfig: []byte(r.FormValue("templateConfig")),
	}
	result, err := c.Service.UploadTemplate(r.Context(), up)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteValidationError(w, []string{err.Error()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to upload certificate", err.Error())
		return
	}
	helpers.WriteSuccess(w, http.StatusCreated, "Certificate uploaded successfully", result)
}

// GenerateRequest is the request body for POST /certificates/generate.
type GenerateRequest struct {
	EventID    string `json:"eventId"`
	RollNumber string `json:"rollNumber"`
}

// Validate implements Validator.
func (g GenerateRequest) Validate() []string {
	if g.EventID == "" {
		return []string{"eventId is required"}
	}
	return nil
}

// generateRollRequest is the optional body for the path-parameter
// generate route.
type generateRollRequest struct {
	RollNumber string `json:"rollNumber"`
}

// Generate godoc
// @Summary Issue a certificate for the authenticated student
// @Description Renders a certificate for the event (templated layout when a template was uploaded, default layout otherwise), stores the document, and records the issuance. Depending on the configured issuance mode a repeat request either reuses or regenerates the record.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body generateRollRequest false "Optional roll number"
// @Success 200 {object} helpers.APIResponse "data contains certificateId, pdfUrl, generatedAt, certificate, download_url"
// @Failure 404 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /student/events/{id}/generate-certificate [post]
func (c *CertificateController) Generate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Missing event id", "missing id")
		return
	}
	var body generateRollRequest
	// Body is optional on this route; ignore decode failures.
	_ = decodeLoose(r, &body)
	c.issue(w, r, eventID, body.RollNumber)
}

// GenerateFromPayload godoc
// @Summary Issue a certificate (event id in body)
// @Description Compatibility route for clients that send the event id in the request body.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateRequest true "Event id and optional roll number"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /certificates/generate [post]
func (c *CertificateController) GenerateFromPayload(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.issue(w, r, req.EventID, req.RollNumber)
}

func (c *CertificateController) issue(w http.ResponseWriter, r *http.Request, eventID, rollNumber string) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteAuthError(w, "Unauthorized")
		return
	}
	roll := rollNumber
	if roll == "" {
		roll = identity.RollNumber
	}
	issued, err := c.Service.Issue(r.Context(), eventID, &domain.IssueRequest{
		StudentID:    identity.Subject,
		StudentName:  identity.Name,
		StudentEmail: identity.Email,
		RollNumber:   roll,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "Event not found", "Not Found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to generate certificate", err.Error())
		return
	}
	helpers.WriteSuccess(w, http.StatusOK, "", issued)
}

// MyCertificates godoc
// @Summary List the caller's certificates
// @Description Returns the authenticated student's issued certificates with their events embedded.
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.CertificateWithEvent
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /student/certificates [get]
func (c *CertificateController) MyCertificates(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteAuthError(w, "Unauthorized")
		return
	}
	certs, err := c.Service.ListStudentCertificates(r.Context(), identity.Subject)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to list certificates", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, certs)
}

// VerifyResponse is the public verification response.
// swagger:model VerifyResponse
type VerifyResponse struct {
	Success bool                     `json:"success"`
	Valid   bool                     `json:"valid"`
	Message string                   `json:"message,omitempty"`
	Data    *domain.VerificationData `json:"data,omitempty"`
}

// Verify godoc
// @Summary Verify a certificate
// @Description Public, unauthenticated lookup by certificate identifier. An unknown identifier is a successful negative verdict, not an error.
// @Tags certificates
// @Produce json
// @Param id path string true "Certificate UID (CERT-...)"
// @Success 200 {object} VerifyResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /certificates/verify/{id} [get]
func (c *CertificateController) Verify(w http.ResponseWriter, r *http.Request) {
	certUID := r.PathValue("id")
	result, err := c.Service.Verify(r.Context(), certUID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to verify certificate", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, VerifyResponse{
		Success: true,
		Valid:   result.Valid,
		Message: result.Message,
		Data:    result.Data,
	})
}

// Download godoc
// @Summary Download a certificate document
// @Description Bumps the download counter and redirects to the stored document.
// @Tags certificates
// @Param uid path string true "Certificate UID"
// @Success 302
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /certificates/{uid}/download [get]
func (c *CertificateController) Download(w http.ResponseWriter, r *http.Request) {
	certUID := r.PathValue("uid")
	cert, err := c.Service.Download(r.Context(), certUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteError(w, http.StatusNotFound, "Certificate not found", "Not Found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to download certificate", err.Error())
		return
	}
	http.Redirect(w, r, "/storage/"+cert.CertificatePath, http.StatusFound)
}
