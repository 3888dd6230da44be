package export

import (
	"bytes"
	"fmt"
	"time"

	model "github.com/solutions/rekrut-cube/internal/protodef/model"

	"github.com/jung-kurt/gofpdf"
	"github.com/qiniu/x/xlog"
)

// ReportData 渲染一份面试报告需要的全部数据。
type ReportData struct {
	Applicant model.ApplicantDo
	Session   *model.InterviewSessionDo
	Questions []model.InterviewQuestionDo
	Responses []model.InterviewResponseDo
}

// Renderer 把一个报名者的数据渲染成一份文档。
type Renderer interface {
	Render(xl *xlog.Logger, data *ReportData) ([]byte, error)
}

// PDFRenderer gofpdf实现。
type PDFRenderer struct {
	xl *xlog.Logger
}

func NewPDFRenderer(xl *xlog.Logger) *PDFRenderer {
	if xl == nil {
		xl = xlog.New("rekrut-cube-pdf")
	}
	return &PDFRenderer{xl: xl}
}

func (r *PDFRenderer) Render(xl *xlog.Logger, data *ReportData) ([]byte, error) {
	if xl == nil {
		xl = r.xl
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Laporan Wawancara", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Laporan Hasil Wawancara", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	writeRow("Nama", data.Applicant.FullName)
	writeRow("NIM", data.Applicant.Nim)
	writeRow("Jurusan", data.Applicant.Major)
	writeRow("Status", data.Applicant.Status)

	if data.Session == nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "Belum ada sesi wawancara untuk pelamar ini.", "", 1, "L", false, 0, "")
	} else {
		writeRow("Tanggal Wawancara", data.Session.InterviewDate.Format("2006-01-02 15:04"))
		if data.Session.InterviewerName != "" {
			writeRow("Pewawancara", data.Session.InterviewerName)
		}
		writeRow("Status Sesi", data.Session.Status)
		pdf.Ln(4)

		responseByQuestion := make(map[string]model.InterviewResponseDo, len(data.Responses))
		for _, response := range data.Responses {
			responseByQuestion[response.QuestionID] = response
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(12, 8, "No", "1", 0, "C", true, 0, "")
		pdf.CellFormat(118, 8, "Pertanyaan", "1", 0, "L", true, 0, "")
		pdf.CellFormat(20, 8, "Skor", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 8, "Catatan", "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, question := range data.Questions {
			response := responseByQuestion[question.ID]
			pdf.CellFormat(12, 8, fmt.Sprintf("%d", question.QuestionNumber), "1", 0, "C", false, 0, "")
			pdf.CellFormat(118, 8, question.QuestionText, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 8, fmt.Sprintf("%d", response.Score), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 8, response.Notes, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "B", 11)
		if data.Session.TotalScore != nil {
			pdf.CellFormat(0, 7, fmt.Sprintf("Total Skor: %d / %d", *data.Session.TotalScore, len(data.Questions)*model.ScoreMax), "", 1, "L", false, 0, "")
		}
		if data.Session.Recommendation != "" {
			pdf.CellFormat(0, 7, fmt.Sprintf("Rekomendasi: %s", data.Session.Recommendation), "", 1, "L", false, 0, "")
		}
		if data.Session.Notes != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, fmt.Sprintf("Catatan: %s", data.Session.Notes), "", "L", false)
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Dibuat %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "R", false, 0, "")

	buf := bytes.Buffer{}
	err := pdf.Output(&buf)
	if err != nil {
		xl.Errorf("failed to render pdf for applicant %s, error %v", data.Applicant.ID, err)
		return nil, err
	}
	return buf.Bytes(), nil
}
