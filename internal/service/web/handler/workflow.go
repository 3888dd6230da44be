package handler

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/form"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/cloud"
	"github.com/solutions/rekrut-cube/internal/service/db"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"
)

type ApplicantInterface interface {
	AssignInterviewer(xl *xlog.Logger, applicantID, interviewerID string) (*model.ApplicantDo, error)
	MarkAttendance(xl *xlog.Logger, nim string) (*model.ApplicantDo, error)
}

type InterviewerResolverInterface interface {
	ResolveInterviewer(xl *xlog.Logger, idOrUsername string) (*model.InterviewerDo, error)
}

// WorkflowApiHandler 管理端interview-workflow接口，按body里的action分流。
type WorkflowApiHandler struct {
	Applicant   ApplicantInterface
	Interviewer InterviewerResolverInterface
	Notify      cloud.NotificationService
}

func NewWorkflowApiHandler(conf utils.Config) *WorkflowApiHandler {
	h := new(WorkflowApiHandler)
	var err error
	h.Applicant, err = db.NewApplicantService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Interviewer, err = db.NewInterviewerService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	if conf.IM != nil {
		h.Notify = cloud.NewNotificationService(*conf.IM)
	} else {
		h.Notify = &cloud.NoopNotificationService{}
	}
	return h
}

// HandleWorkflow 读一次body，先用action字段分流再按对应form解析。
func (h *WorkflowApiHandler) HandleWorkflow(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil || !gjson.ValidBytes(body) {
		xl.Infof("invalid body, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	action := gjson.GetBytes(body, "action").String()
	switch action {
	case form.WorkflowActionAssignInterviewer:
		h.assignInterviewer(c, xl, body)
	case form.WorkflowActionMarkAttendance:
		h.markAttendance(c, xl, body)
	default:
		xl.Infof("unknown workflow action %q", action)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
	}
}

func (h *WorkflowApiHandler) assignInterviewer(c *gin.Context, xl *xlog.Logger, body []byte) {
	requestID := xl.ReqId
	args := &form.AssignInterviewerForm{}
	if err := json.Unmarshal(body, args); err != nil {
		xl.Infof("invalid assign args, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("assign form validation failed, error %v", err)
		model.SendError(c, model.NewResponseErrorValidation(err), requestID)
		return
	}

	interviewer, err := h.Interviewer.ResolveInterviewer(xl, args.InterviewerID)
	if err != nil {
		xl.Infof("interviewer %s not found, error %v", args.InterviewerID, err)
		model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
		return
	}
	applicant, err := h.Applicant.AssignInterviewer(xl, args.ApplicantID, interviewer.ID)
	if err != nil {
		switch {
		case errors.IsCode(err, errors.ServerErrorApplicantNotFound):
			model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
		case errors.IsCode(err, errors.ServerErrorAlreadyAssigned):
			model.SendError(c, model.NewResponseErrorInvalidState("already assigned"), requestID)
		case errors.IsCode(err, errors.ServerErrorInvalidState):
			model.SendError(c, model.NewResponseErrorInvalidState("applicant not in interview stage"), requestID)
		default:
			xl.Errorf("failed to assign interviewer, error %v", err)
			model.SendError(c, model.NewResponseErrorInternal(), requestID)
		}
		return
	}

	// 通知失败不影响分配结果
	if notifyErr := h.Notify.NotifyAssignment(xl, interviewer, applicant); notifyErr != nil {
		xl.Infof("assignment notification failed, error %v", notifyErr)
	}

	resp := model.NewSuccessResponse(&model.AssignmentResponse{
		Applicant:   applicant,
		Interviewer: interviewer,
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

func (h *WorkflowApiHandler) markAttendance(c *gin.Context, xl *xlog.Logger, body []byte) {
	requestID := xl.ReqId
	args := &form.MarkAttendanceForm{}
	if err := json.Unmarshal(body, args); err != nil {
		xl.Infof("invalid attendance args, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("attendance form validation failed, error %v", err)
		model.SendError(c, model.NewResponseErrorValidation(err), requestID)
		return
	}

	applicant, err := h.Applicant.MarkAttendance(xl, args.Nim)
	if err != nil {
		if errors.IsCode(err, errors.ServerErrorApplicantNotFound) {
			model.SendError(c, model.NewResponseErrorResourceUnavailable(), requestID)
			return
		}
		xl.Errorf("failed to mark attendance for nim %s, error %v", args.Nim, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}

	resp := model.NewSuccessResponse(&model.AttendanceResponse{
		Applicant: applicant,
		Status:    applicant.Status,
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}
