package handler

import (
	"net/http"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/form"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/db"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

type SessionInterface interface {
	GetSessionByApplicant(xl *xlog.Logger, applicantID string) (*model.InterviewSessionDo, error)
	GetSessionForInterviewer(xl *xlog.Logger, sessionID, interviewerID string) (*model.InterviewSessionDo, error)
	CreateSession(xl *xlog.Logger, session *model.InterviewSessionDo) (*model.InterviewSessionDo, error)
	ListSessionsByInterviewer(xl *xlog.Logger, interviewerID string) ([]model.InterviewSessionDo, error)
}

type ApplicantReaderInterface interface {
	GetApplicantByID(xl *xlog.Logger, applicantID string) (*model.ApplicantDo, error)
	ListCandidates(xl *xlog.Logger, interviewerID string) ([]model.ApplicantDo, error)
}

type QuestionInterface interface {
	ListActiveQuestions(xl *xlog.Logger) ([]model.InterviewQuestionDo, error)
}

type ResponseReaderInterface interface {
	ListBySession(xl *xlog.Logger, sessionID string) ([]model.InterviewResponseDo, error)
}

// SessionApiHandler 面试场次相关接口。
type SessionApiHandler struct {
	Session   SessionInterface
	Applicant ApplicantReaderInterface
	Question  QuestionInterface
	Response  ResponseReaderInterface
}

func NewSessionApiHandler(conf utils.Config) *SessionApiHandler {
	h := new(SessionApiHandler)
	var err error
	h.Session, err = db.NewSessionService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Applicant, err = db.NewApplicantService(*conf.Mongo, nil)
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
	return h
}

// CreateSession 幂等创建：该报名者已有未取消的场次时直接返回已有场次，
// 不生成新记录。
func (h *SessionApiHandler) CreateSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewerID := c.GetString(model.AccountIDContextKey)
	args := &form.SessionCreateForm{}
	err := c.ShouldBindJSON(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("session form validation failed, error %v", err)
		model.SendError(c, model.NewResponseErrorValidation(err), requestID)
		return
	}

	applicant, err := h.Applicant.GetApplicantByID(xl, args.ApplicantID)
	if err != nil {
		xl.Infof("applicant %s not found, error %v", args.ApplicantID, err)
		model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
		return
	}
	// 非分配给自己的报名者与不存在同样返回404，不暴露资源是否存在
	if applicant.AssignedInterviewer != interviewerID {
		xl.Infof("applicant %s is not assigned to interviewer %s", applicant.ID, interviewerID)
		model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
		return
	}
	if applicant.Status != model.ApplicantStatusInterview {
		xl.Infof("applicant %s in status %s, session not allowed", applicant.ID, applicant.Status)
		model.SendError(c, model.NewResponseErrorInvalidState(applicant.Status), requestID)
		return
	}

	existing, err := h.Session.GetSessionByApplicant(xl, applicant.ID)
	if err == nil {
		xl.Infof("applicant %s already has session %s, returning it", applicant.ID, existing.ID)
		resp := model.NewSuccessResponse(existing).WithRequestID(requestID)
		resp.Send(c, http.StatusOK)
		return
	}
	if !errors.IsCode(err, errors.ServerErrorSessionNotFound) {
		xl.Errorf("failed to look up session for applicant %s, error %v", applicant.ID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	session := &model.InterviewSessionDo{
		ApplicantID:   applicant.ID,
		InterviewerID: interviewerID,
		Location:      args.Location,
		Notes:         args.Notes,
	}
	if args.InterviewDate > 0 {
		session.InterviewDate = time.Unix(args.InterviewDate, 0)
	}
	created, err := h.Session.CreateSession(xl, session)
	if err != nil {
		xl.Errorf("failed to create session for applicant %s, error %v", applicant.ID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	resp := model.NewSuccessResponse(created).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

// GetSession 场次详情：题目目录与已有作答合并返回。
// 查不到和不属于当前面试官一律404。
func (h *SessionApiHandler) GetSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewerID := c.GetString(model.AccountIDContextKey)
	sessionID := c.Param("sessionId")

	session, err := h.Session.GetSessionForInterviewer(xl, sessionID, interviewerID)
	if err != nil {
		if errors.IsCode(err, errors.ServerErrorSessionNotFound) {
			model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
			return
		}
		xl.Errorf("failed to get session %s, error %v", sessionID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	questions, err := h.Question.ListActiveQuestions(xl)
	if err != nil {
		xl.Errorf("failed to list questions, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	responses, err := h.Response.ListBySession(xl, session.ID)
	if err != nil {
		xl.Errorf("failed to list responses of session %s, error %v", session.ID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	resp := model.NewSuccessResponse(&model.SessionDetailResponse{
		Session:   session,
		Questions: mergeQuestionResponses(questions, responses),
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

// mergeQuestionResponses 按questionId配对，未作答的题score为0、response为空。
func mergeQuestionResponses(questions []model.InterviewQuestionDo, responses []model.InterviewResponseDo) []model.QuestionWithResponse {
	byQuestion := make(map[string]model.InterviewResponseDo, len(responses))
	for _, response := range responses {
		byQuestion[response.QuestionID] = response
	}
	merged := make([]model.QuestionWithResponse, 0, len(questions))
	for _, question := range questions {
		row := model.QuestionWithResponse{Question: question}
		if response, ok := byQuestion[question.ID]; ok {
			row.Score = response.Score
			row.Response = response.Response
			row.Notes = response.Notes
		}
		merged = append(merged, row)
	}
	return merged
}

// ListSessions 当前面试官自己的场次。
func (h *SessionApiHandler) ListSessions(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewerID := c.GetString(model.AccountIDContextKey)

	sessions, err := h.Session.ListSessionsByInterviewer(xl, interviewerID)
	if err != nil {
		xl.Errorf("failed to list sessions of interviewer %s, error %v", interviewerID, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	resp := model.NewSuccessResponse(&model.SessionListResponse{
		List:  sessions,
		Total: len(sessions),
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

// ListCandidates 候选人列表。普通面试官只看分配给自己的，
// HEAD_INTERVIEWER与管理员看全部。
func (h *SessionApiHandler) ListCandidates(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewerID := c.GetString(model.AccountIDContextKey)
	switch c.GetString(model.AccountRoleContextKey) {
	case model.RoleAdmin, model.RoleHeadInterviewer:
		interviewerID = ""
	}

	candidates, err := h.Applicant.ListCandidates(xl, interviewerID)
	if err != nil {
		xl.Errorf("failed to list candidates, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	resp := model.NewSuccessResponse(&model.CandidateListResponse{
		List:  candidates,
		Total: len(candidates),
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

// ListQuestions 面试题目录，打分页加载用。
func (h *SessionApiHandler) ListQuestions(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	questions, err := h.Question.ListActiveQuestions(xl)
	if err != nil {
		xl.Errorf("failed to list questions, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	resp := model.NewSuccessResponse(questions).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}
