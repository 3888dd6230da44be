package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/db"
	"github.com/solutions/rekrut-cube/internal/service/export"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

type ExportApplicantInterface interface {
	GetApplicantByID(xl *xlog.Logger, applicantID string) (*model.ApplicantDo, error)
	ListForExport(xl *xlog.Logger, limit int) ([]model.ApplicantDo, error)
	CountApplicants(xl *xlog.Logger) (int, error)
}

type ExportSessionInterface interface {
	GetSessionByApplicant(xl *xlog.Logger, applicantID string) (*model.InterviewSessionDo, error)
}

// ExportApiHandler 批量导出接口。GET出zip，POST只出预估。
type ExportApiHandler struct {
	Applicant  ExportApplicantInterface
	Session    ExportSessionInterface
	Question   QuestionInterface
	Response   ResponseReaderInterface
	Renderer   export.Renderer
	Uploader   *export.ArchiveUploader
	ExportConf *utils.ExportConfig
}

func NewExportApiHandler(conf utils.Config) *ExportApiHandler {
	h := new(ExportApiHandler)
	var err error
	h.Applicant, err = db.NewApplicantService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Session, err = db.NewSessionService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Question, err = db.NewQuestionService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Response, err = db.NewResponseService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Renderer = export.NewPDFRenderer(nil)
	h.Uploader = export.NewArchiveUploader(conf.Storage, conf.QiniuKeyPair, nil)
	h.ExportConf = conf.Export
	return h
}

// LoadReportData 拼装单个报名者的报告数据。没有场次时Session为nil，
// 渲染侧出占位文案。
func (h *ExportApiHandler) LoadReportData(xl *xlog.Logger, applicant model.ApplicantDo) (*export.ReportData, error) {
	data := &export.ReportData{Applicant: applicant}
	session, err := h.Session.GetSessionByApplicant(xl, applicant.ID)
	if err != nil {
		if !errors.IsCode(err, errors.ServerErrorSessionNotFound) {
			return nil, err
		}
		return data, nil
	}
	data.Session = session
	questions, err := h.Question.ListActiveQuestions(xl)
	if err != nil {
		return nil, err
	}
	data.Questions = questions
	responses, err := h.Response.ListBySession(xl, session.ID)
	if err != nil {
		return nil, err
	}
	data.Responses = responses
	return data, nil
}

// newExporter 按请求级参数构造exporter，batchSize query可临时覆盖配置。
func (h *ExportApiHandler) newExporter(c *gin.Context, xl *xlog.Logger) *export.Exporter {
	conf := utils.ExportConfig{}
	if h.ExportConf != nil {
		conf = *h.ExportConf
	}
	if arg := c.Query("batchSize"); arg != "" {
		if batchSize, err := strconv.Atoi(arg); err == nil && batchSize > 0 {
			conf.BatchSize = batchSize
		}
	}
	return export.NewExporter(&conf, h.Renderer, h, xl)
}

// BulkDownload 批量导出：预估决定全量或截断，产物为单个zip。
// 单份失败只计数不中断，整体打包失败才返回500。
func (h *ExportApiHandler) BulkDownload(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	exporter := h.newExporter(c, xl)

	total, err := h.Applicant.CountApplicants(xl)
	if err != nil {
		xl.Errorf("failed to count applicants, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	requestedLimit := 0
	if arg := c.Query("limit"); arg != "" {
		if limit, parseErr := strconv.Atoi(arg); parseErr == nil && limit > 0 {
			requestedLimit = limit
		}
	}
	effectiveLimit := exporter.EffectiveLimit(total, requestedLimit)
	if effectiveLimit < total {
		xl.Infof("bulk export limited to %d of %d applicants", effectiveLimit, total)
	}

	applicants, err := h.Applicant.ListForExport(xl, effectiveLimit)
	if err != nil {
		xl.Errorf("failed to list applicants for export, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	result, err := exporter.BuildArchive(xl, applicants)
	if err != nil {
		xl.Errorf("failed to build export archive, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	fileName := export.ArchiveFileName(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	c.Header("X-Total-Applications", strconv.Itoa(result.Total))
	c.Header("X-Processed-Applications", strconv.Itoa(result.Processed))
	c.Header("X-Processing-Time", strconv.FormatInt(result.Elapsed.Milliseconds(), 10))
	c.Header(model.RequestIDHeader, requestID)
	c.Data(http.StatusOK, "application/zip", result.Data)

	// 响应已出，留存上传失败只记日志
	if h.Uploader != nil && h.Uploader.Enabled() {
		if _, uploadErr := h.Uploader.Upload(xl, result.Data, fileName); uploadErr != nil {
			xl.Errorf("archive retention upload failed, error %v", uploadErr)
		}
	}
}

// EstimateExport 只做预估不产出文件，管理端先问后下。
func (h *ExportApiHandler) EstimateExport(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	exporter := h.newExporter(c, xl)

	total, err := h.Applicant.CountApplicants(xl)
	if err != nil {
		xl.Errorf("failed to count applicants, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	estimate := exporter.Estimate(total)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"estimasi":  estimate,
		"requestId": requestID,
	})
}

// ApplicantPDF 单个报名者的报告PDF。
func (h *ExportApiHandler) ApplicantPDF(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	applicantID := c.Param("applicantId")

	applicant, err := h.Applicant.GetApplicantByID(xl, applicantID)
	if err != nil {
		if errors.IsCode(err, errors.ServerErrorApplicantNotFound) {
			model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
			return
		}
		xl.Errorf("failed to get applicant %s, error %v", applicantID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	data, err := h.LoadReportData(xl, *applicant)
	if err != nil {
		xl.Errorf("failed to load report data for applicant %s, error %v", applicantID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	document, err := h.Renderer.Render(xl, data)
	if err != nil {
		xl.Errorf("failed to render report for applicant %s, error %v", applicantID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=laporan-%s.pdf", applicant.Nim))
	c.Header(model.RequestIDHeader, requestID)
	c.Data(http.StatusOK, "application/pdf", document)
}
