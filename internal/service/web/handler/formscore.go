package handler

import (
	"net/http"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/form"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/db"
	"github.com/solutions/rekrut-cube/internal/service/scoring"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

type SessionScoringInterface interface {
	GetSessionForInterviewer(xl *xlog.Logger, sessionID, interviewerID string) (*model.InterviewSessionDo, error)
	CompleteSession(xl *xlog.Logger, sessionID string, totalScore int, notes, recommendation, interviewerName string) error
}

type ResponseWriterInterface interface {
	ReplaceSessionResponses(xl *xlog.Logger, sessionID string, responses []model.InterviewResponseDo) error
}

// FormApiHandler 打分表的提交与修改。两条路径共用一套落库流程，
// 只在清洗规则上不同。
type FormApiHandler struct {
	Session  SessionScoringInterface
	Response ResponseWriterInterface
}

func NewFormApiHandler(conf utils.Config) *FormApiHandler {
	h := new(FormApiHandler)
	var err error
	h.Session, err = db.NewSessionService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Response, err = db.NewResponseService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	return h
}

// SubmitForm 首次提交：越界分数夹取到[0,5]。
func (h *FormApiHandler) SubmitForm(c *gin.Context) {
	h.handleForm(c, scoring.SanitizeSubmit, false)
}

// EditForm 修改：只允许改已完成的场次，分数在[1,5]之外的条目整条拒收。
func (h *FormApiHandler) EditForm(c *gin.Context) {
	h.handleForm(c, scoring.SanitizeEdit, true)
}

func (h *FormApiHandler) handleForm(c *gin.Context, sanitize func([]form.ScoreEntryForm) []model.InterviewResponseDo, requireCompleted bool) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewerID := c.GetString(model.AccountIDContextKey)
	args := &form.ScoreForm{}
	err := c.ShouldBindJSON(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("score form validation failed, error %v", err)
		model.SendError(c, model.NewResponseErrorValidation(err), requestID)
		return
	}

	session, err := h.Session.GetSessionForInterviewer(xl, args.SessionID, interviewerID)
	if err != nil {
		if errors.IsCode(err, errors.ServerErrorSessionNotFound) {
			model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
			return
		}
		xl.Errorf("failed to get session %s, error %v", args.SessionID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	if requireCompleted && session.Status != model.SessionStatusCompleted {
		xl.Infof("session %s in status %s, edit not allowed", session.ID, session.Status)
		model.SendError(c, model.NewResponseErrorInvalidState(session.Status), requestID)
		return
	}

	responses := sanitize(args.Responses)
	if len(responses) == 0 {
		xl.Infof("no valid responses left after sanitizing, session %s", session.ID)
		model.SendError(c, &model.ResponseError{
			Code:    model.ResponseErrorValidation,
			Status:  http.StatusBadRequest,
			Message: "no valid responses",
		}, requestID)
		return
	}

	totalScore, averageScore := scoring.Aggregate(responses)
	autoRecommendation := scoring.DeriveRecommendation(averageScore)
	recommendation := args.Recommendation
	if recommendation == "" {
		recommendation = autoRecommendation
	}

	if err := h.Response.ReplaceSessionResponses(xl, session.ID, responses); err != nil {
		xl.Errorf("failed to replace responses of session %s, error %v", session.ID, err)
		model.SendErrorDebug(c, model.NewResponseErrorInternal(), requestID, err.Error())
		return
	}
	if err := h.Session.CompleteSession(xl, session.ID, totalScore, args.SessionNotes, recommendation, args.InterviewerName); err != nil {
		xl.Errorf("failed to complete session %s, error %v", session.ID, err)
		model.SendErrorDebug(c, model.NewResponseErrorInternal(), requestID, err.Error())
		return
	}

	xl.Infof("session %s scored: total %d over %d responses", session.ID, totalScore, len(responses))
	resp := model.NewSuccessResponse(&model.FormResultResponse{
		SessionID:          session.ID,
		TotalScore:         totalScore,
		MaxScore:           scoring.MaxScore(len(responses)),
		AverageScore:       scoring.FormatAverage(averageScore),
		ResponseCount:      len(responses),
		Recommendation:     recommendation,
		AutoRecommendation: autoRecommendation,
		Status:             model.SessionStatusCompleted,
		Timestamp:          time.Now().Unix(),
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}
