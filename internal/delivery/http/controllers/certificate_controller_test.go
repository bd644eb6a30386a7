package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fawadali4423/UEMS/internal/delivery/http/middleware"
	"github.com/Fawadali4423/UEMS/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCertificateService implements domain.CertificateService for
// handler tests.
type fakeCertificateService struct {
	uploadErr      error
	uploadResult   *domain.UploadedTemplate
	lastUpload     *domain.TemplateUpload
	issueErr       error
	issueResult    *domain.IssuedCertificate
	lastIssueEvent string
	lastIssueReq   *domain.IssueRequest
	listErr        error
	listResult     []*domain.CertificateWithEvent
	verifyErr      error
	verifyResult   *domain.VerificationResult
	downloadErr    error
	downloadResult *domain.GeneratedCertificate
	statsErr       error
	statsResult    *domain.CertificateStats
}

func (f *fakeCertificateService) UploadTemplate(ctx context.Context, up *domain.TemplateUpload) (*domain.UploadedTemplate, error) {
	f.lastUpload = up
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeCertificateService) Issue(ctx context.Context, eventID string, req *domain.IssueRequest) (*domain.IssuedCertificate, error) {
	f.lastIssueEvent = eventID
	f.lastIssueReq = req
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return f.issueResult, nil
}

func (f *fakeCertificateService) ListStudentCertificates(ctx context.Context, studentID string) ([]*domain.CertificateWithEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeCertificateService) Verify(ctx context.Context, certUID string) (*domain.VerificationResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyResult, nil
}

func (f *fakeCertificateService) Download(ctx context.Context, certUID string) (*domain.GeneratedCertificate, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.downloadResult, nil
}

func (f *fakeCertificateService) Stats(ctx context.Context) (*domain.CertificateStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.statsResult, nil
}

func authedRequest(req *http.Request) *http.Request {
	return req.WithContext(middleware.SetIdentity(req.Context(), &domain.Identity{
		Subject:    "stu-1",
		Name:       "Ayesha Khan",
		Email:      "ayesha@example.edu",
		RollNumber: "BCS-21-042",
	}))
}

func multipartUpload(t *testing.T, eventID, filename string, image []byte, templateConfig string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("certificate", filename)
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("eventId", eventID))
	if templateConfig != "" {
		require.NoError(t, w.WriteField("templateConfig", templateConfig))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCertificateController_UploadTemplate(t *testing.T) {
	t.Run("uploaded", func(t *testing.T) {
		svc := &fakeCertificateService{uploadResult: &domain.UploadedTemplate{
			ImageURL: "http://test.local/storage/certificates/certificate_ev-1_20250310120000.png",
			Filename: "certificate_ev-1_20250310120000.png",
			Path:     "certificates/certificate_ev-1_20250310120000.png",
		}}
		ctrl := NewCertificateController(testLogger, svc)

		body, contentType := multipartUpload(t, "ev-1", "background.png", []byte("png-bytes"), `{"studentName":{"x":0.5,"y":0.4}}`)
		req := httptest.NewRequest(http.MethodPost, "/certificates/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		ctrl.UploadTemplate(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Success bool                   `json:"success"`
			Message string                 `json:"message"`
			Data    domain.UploadedTemplate `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Certificate uploaded successfully", resp.Message)
		assert.Equal(t, "certificates/certificate_ev-1_20250310120000.png", resp.Data.Path)

		require.NotNil(t, svc.lastUpload)
		assert.Equal(t, "ev-1", svc.lastUpload.EventID)
		assert.Equal(t, ".png", svc.lastUpload.Ext)
		assert.Equal(t, []byte("png-bytes"), svc.lastUpload.Image)
		assert.JSONEq(t, `{"studentName":{"x":0.5,"y":0.4}}`, string(svc.lastUpload.RawConfig))
	})

	t.Run("missing file yields 422", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{})

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("eventId", "ev-1"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/certificates/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		ctrl.UploadTemplate(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("service validation failure yields 422", func(t *testing.T) {
		svc := &fakeCertificateService{uploadErr: domain.ErrInvalidInput}
		ctrl := NewCertificateController(testLogger, svc)

		body, contentType := multipartUpload(t, "ev-1", "background.pdf", []byte("x"), "")
		req := httptest.NewRequest(http.MethodPost, "/certificates/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		ctrl.UploadTemplate(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCertificateController_Generate(t *testing.T) {
	issued := &domain.IssuedCertificate{
		CertificateID: "CERT-195F1A2B3C4-ABCDEF1234",
		PDFURL:        "http://test.local/storage/certificates/generated/certificate_CERT-195F1A2B3C4-ABCDEF1234.pdf",
		GeneratedAt:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		DownloadURL:   "http://test.local/storage/certificates/generated/certificate_CERT-195F1A2B3C4-ABCDEF1234.pdf",
	}

	t.Run("issues for the authenticated caller", func(t *testing.T) {
		svc := &fakeCertificateService{issueResult: issued}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("POST /student/events/{id}/generate-certificate", ctrl.Generate)
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/student/events/ev-1/generate-certificate", nil))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ev-1", svc.lastIssueEvent)
		require.NotNil(t, svc.lastIssueReq)
		assert.Equal(t, "stu-1", svc.lastIssueReq.StudentID)
		assert.Equal(t, "BCS-21-042", svc.lastIssueReq.RollNumber)

		var resp struct {
			Success bool                     `json:"success"`
			Data    domain.IssuedCertificate `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, issued.CertificateID, resp.Data.CertificateID)
	})

	t.Run("body roll number overrides the token claim", func(t *testing.T) {
		svc := &fakeCertificateService{issueResult: issued}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("POST /student/events/{id}/generate-certificate", ctrl.Generate)
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/student/events/ev-1/generate-certificate",
			bytes.NewReader([]byte(`{"rollNumber":"FA21-BCS-007"}`))))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "FA21-BCS-007", svc.lastIssueReq.RollNumber)
	})

	t.Run("unknown event yields 404", func(t *testing.T) {
		svc := &fakeCertificateService{issueErr: domain.ErrNotFound}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("POST /student/events/{id}/generate-certificate", ctrl.Generate)
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/student/events/ev-missing/generate-certificate", nil))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no identity yields 401", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{})

		mux := http.NewServeMux()
		mux.HandleFunc("POST /student/events/{id}/generate-certificate", ctrl.Generate)
		req := httptest.NewRequest(http.MethodPost, "/student/events/ev-1/generate-certificate", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("event id in body via compatibility route", func(t *testing.T) {
		svc := &fakeCertificateService{issueResult: issued}
		ctrl := NewCertificateController(testLogger, svc)

		req := authedRequest(httptest.NewRequest(http.MethodPost, "/certificates/generate",
			bytes.NewReader([]byte(`{"eventId":"ev-9"}`))))
		rec := httptest.NewRecorder()
		ctrl.GenerateFromPayload(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ev-9", svc.lastIssueEvent)
	})

	t.Run("missing event id in body yields 422", func(t *testing.T) {
		ctrl := NewCertificateController(testLogger, &fakeCertificateService{})

		req := authedRequest(httptest.NewRequest(http.MethodPost, "/certificates/generate",
			bytes.NewReader([]byte(`{}`))))
		rec := httptest.NewRecorder()
		ctrl.GenerateFromPayload(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCertificateController_Verify(t *testing.T) {
	t.Run("valid certificate", func(t *testing.T) {
		svc := &fakeCertificateService{verifyResult: &domain.VerificationResult{
			Valid: true,
			Data: &domain.VerificationData{
				StudentName:    "Ayesha Khan",
				EventName:      "Tech Expo",
				IssueDate:      "2025-03-10",
				CertificateUID: "CERT-ABC",
				DownloadURL:    "http://test.local/storage/certificates/generated/certificate_CERT-ABC.pdf",
			},
		}}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /certificates/verify/{id}", ctrl.Verify)
		req := httptest.NewRequest(http.MethodGet, "/certificates/verify/CERT-ABC", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.True(t, resp.Valid)
		require.NotNil(t, resp.Data)
		assert.Equal(t, "Ayesha Khan", resp.Data.StudentName)
	})

	t.Run("unknown certificate is 200 with valid false", func(t *testing.T) {
		svc := &fakeCertificateService{verifyResult: &domain.VerificationResult{
			Valid:   false,
			Message: "Certificate not found",
		}}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /certificates/verify/{id}", ctrl.Verify)
		req := httptest.NewRequest(http.MethodGet, "/certificates/verify/CERT-MISSING", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"valid":false,"message":"Certificate not found"}`, rec.Body.String())
	})

	t.Run("storage failure yields 500", func(t *testing.T) {
		svc := &fakeCertificateService{verifyErr: errors.New("db down")}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /certificates/verify/{id}", ctrl.Verify)
		req := httptest.NewRequest(http.MethodGet, "/certificates/verify/CERT-ABC", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCertificateController_Download(t *testing.T) {
	t.Run("redirects to the stored document", func(t *testing.T) {
		svc := &fakeCertificateService{downloadResult: &domain.GeneratedCertificate{
			CertUID:         "CERT-ABC",
			CertificatePath: "certificates/generated/certificate_CERT-ABC.pdf",
			Downloads:       1,
		}}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /certificates/{uid}/download", ctrl.Download)
		req := httptest.NewRequest(http.MethodGet, "/certificates/CERT-ABC/download", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/storage/certificates/generated/certificate_CERT-ABC.pdf", rec.Header().Get("Location"))
	})

	t.Run("unknown certificate yields 404", func(t *testing.T) {
		svc := &fakeCertificateService{downloadErr: domain.ErrNotFound}
		ctrl := NewCertificateController(testLogger, svc)

		mux := http.NewServeMux()
		mux.HandleFunc("GET /certificates/{uid}/download", ctrl.Download)
		req := httptest.NewRequest(http.MethodGet, "/certificates/CERT-MISSING/download", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCertificateController_MyCertificates(t *testing.T) {
	svc := &fakeCertificateService{listResult: []*domain.CertificateWithEvent{
		{
			Certificate: &domain.GeneratedCertificate{CertUID: "CERT-ABC"},
			Event:       &domain.Event{ID: "ev-1", Title: "Tech Expo"},
		},
	}}
	ctrl := NewCertificateController(testLogger, svc)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/student/certificates", nil))
	rec := httptest.NewRecorder()
	ctrl.MyCertificates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.CertificateWithEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "CERT-ABC", list[0].Certificate.CertUID)
}

func TestAdminController_Stats(t *testing.T) {
	svc := &fakeCertificateService{statsResult: &domain.CertificateStats{
		TotalStudents:         12,
		TotalEvents:           4,
		CertificatesGenerated: 9,
	}}
	ctrl := NewAdminController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/certificates/stats", nil)
	rec := httptest.NewRecorder()
	ctrl.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_students":12,"total_events":4,"certificates_generated":9}`, rec.Body.String())
}
