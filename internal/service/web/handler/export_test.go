package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/export"

	"github.com/qiniu/x/xlog"
)

type fakeExportApplicant struct {
	applicants []model.ApplicantDo
}

func (f *fakeExportApplicant) GetApplicantByID(xl *xlog.Logger, applicantID string) (*model.ApplicantDo, error) {
	for i := range f.applicants {
		if f.applicants[i].ID == applicantID {
			return &f.applicants[i], nil
		}
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorApplicantNotFound}
}

func (f *fakeExportApplicant) ListForExport(xl *xlog.Logger, limit int) ([]model.ApplicantDo, error) {
	if limit > 0 && limit < len(f.applicants) {
		return f.applicants[:limit], nil
	}
	return f.applicants, nil
}

func (f *fakeExportApplicant) CountApplicants(xl *xlog.Logger) (int, error) {
	return len(f.applicants), nil
}

type fakeExportSession struct{}

func (f *fakeExportSession) GetSessionByApplicant(xl *xlog.Logger, applicantID string) (*model.InterviewSessionDo, error) {
	return nil, &errors.ServerError{Code: errors.ServerErrorSessionNotFound}
}

type plainRenderer struct{}

func (r *plainRenderer) Render(xl *xlog.Logger, data *export.ReportData) ([]byte, error) {
	return []byte("%PDF report " + data.Applicant.ID), nil
}

func newExportHandler(count int) *ExportApiHandler {
	applicants := make([]model.ApplicantDo, 0, count)
	for i := 0; i < count; i++ {
		applicants = append(applicants, model.ApplicantDo{
			ID:       "a" + string(rune('1'+i)),
			FullName: "Pelamar " + string(rune('A'+i)),
			Nim:      "2024000" + string(rune('1'+i)),
		})
	}
	return &ExportApiHandler{
		Applicant: &fakeExportApplicant{applicants: applicants},
		Session:   &fakeExportSession{},
		Question:  &fakeQuestionCatalog{},
		Response:  &fakeResponseReader{},
		Renderer:  &plainRenderer{},
		ExportConf: &utils.ExportConfig{
			BatchSize:         2,
			TimeBudgetMs:      60000,
			PerItemEstimateMs: 100,
			MaxSinglePass:     60,
		},
	}
}

func TestBulkDownloadArchive(t *testing.T) {
	h := newExportHandler(3)
	router := newTestRouter(model.RoleAdmin)
	router.GET("/admin/bulk-download-pdf-optimized", h.BulkDownload)

	w := doJSON(router, "GET", "/admin/bulk-download-pdf-optimized", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Total-Applications"); got != "3" {
		t.Fatalf("X-Total-Applications %q", got)
	}
	if got := w.Header().Get("X-Processed-Applications"); got != "3" {
		t.Fatalf("X-Processed-Applications %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got == "" {
		t.Fatalf("missing Content-Disposition")
	}
	data := w.Body.Bytes()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("body is not a zip archive: %v", err)
	}
	if len(reader.File) != 3 {
		t.Fatalf("archive holds %d entries, expected 3", len(reader.File))
	}
}

func TestBulkDownloadHonorsLimit(t *testing.T) {
	h := newExportHandler(4)
	router := newTestRouter(model.RoleAdmin)
	router.GET("/admin/bulk-download-pdf-optimized", h.BulkDownload)

	w := doJSON(router, "GET", "/admin/bulk-download-pdf-optimized?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Processed-Applications"); got != "2" {
		t.Fatalf("X-Processed-Applications %q, expected 2", got)
	}
}

func TestEstimateExport(t *testing.T) {
	h := newExportHandler(5)
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/bulk-download-pdf-optimized", h.EstimateExport)

	w := doJSON(router, "POST", "/admin/bulk-download-pdf-optimized", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Success  bool                 `json:"success"`
		Estimasi model.ExportEstimate `json:"estimasi"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success response")
	}
	if body.Estimasi.TotalAplikasi != 5 || body.Estimasi.JumlahBatch != 3 {
		t.Fatalf("estimate %+v", body.Estimasi)
	}
	if body.Estimasi.EstimasiWaktuMs != 500 {
		t.Fatalf("estimated time %d, expected 500", body.Estimasi.EstimasiWaktuMs)
	}
}

func TestApplicantPDF(t *testing.T) {
	h := newExportHandler(1)
	router := newTestRouter(model.RoleAdmin)
	router.GET("/admin/applicants/:applicantId/pdf", h.ApplicantPDF)

	w := doJSON(router, "GET", "/admin/applicants/a1/pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body does not look like a pdf")
	}

	w = doJSON(router, "GET", "/admin/applicants/missing/pdf", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d for missing applicant, expected 404", w.Code)
	}
}
