package handler

import (
	"net/http"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/form"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/db"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

const DefaultTokenExpireHour = 24

type InterviewerInterface interface {
	GetInterviewerByUsername(xl *xlog.Logger, username string) (*model.InterviewerDo, error)
	ListInterviewers(xl *xlog.Logger) ([]model.InterviewerDo, error)
}

// AccountApiHandler 登录签发token。账号来源有两处：
// 配置文件里的管理员，和interviewers集合里的面试官。
type AccountApiHandler struct {
	Interviewer InterviewerInterface
	Admins      []utils.AdminAccount
	JwtKey      string
	TokenExpire time.Duration
}

func NewAccountApiHandler(conf utils.Config) *AccountApiHandler {
	h := new(AccountApiHandler)
	var err error
	h.Interviewer, err = db.NewInterviewerService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	h.Admins = conf.Admins
	h.JwtKey = conf.JwtKey
	expireHour := conf.TokenExpireHour
	if expireHour <= 0 {
		expireHour = DefaultTokenExpireHour
	}
	h.TokenExpire = time.Duration(expireHour) * time.Hour
	return h
}

func (h *AccountApiHandler) Login(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	args := &form.LoginForm{}
	err := c.ShouldBindJSON(args)
	if err != nil {
		xl.Infof("invalid args in body, error %v", err)
		model.SendError(c, model.NewResponseErrorBadRequest(), requestID)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("login form validation failed, error %v", err)
		model.SendError(c, model.NewResponseErrorValidation(err), requestID)
		return
	}

	accountID, role, displayName, ok := h.authenticate(xl, args.Username, args.Password)
	if !ok {
		xl.Infof("wrong credential for username %s", args.Username)
		model.SendError(c, model.NewResponseErrorWrongCredential(), requestID)
		return
	}

	token, err := utils.JwtSign(map[string]interface{}{
		"accountId":   accountID,
		"role":        role,
		"displayName": displayName,
		"exp":         time.Now().Add(h.TokenExpire).Unix(),
	}, h.JwtKey)
	if err != nil {
		xl.Errorf("failed to sign token for %s, error %v", args.Username, err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	xl.Infof("account %s logged in with role %s", accountID, role)
	resp := model.NewSuccessResponse(&model.LoginResponse{
		Token:       token,
		Role:        role,
		DisplayName: displayName,
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}

// authenticate 先查配置管理员，再查面试官集合。口令统一为sha256摘要比对。
func (h *AccountApiHandler) authenticate(xl *xlog.Logger, username, password string) (accountID, role, displayName string, ok bool) {
	hashed := utils.HashPassword(password)
	for _, admin := range h.Admins {
		if admin.Username == username {
			if admin.PasswordHash != hashed {
				return "", "", "", false
			}
			name := admin.DisplayName
			if name == "" {
				name = admin.Username
			}
			return "admin-" + admin.Username, model.RoleAdmin, name, true
		}
	}
	interviewer, err := h.Interviewer.GetInterviewerByUsername(xl, username)
	if err != nil {
		return "", "", "", false
	}
	if interviewer.PasswordHash != hashed {
		return "", "", "", false
	}
	return interviewer.ID, interviewer.Role, interviewer.FullName, true
}

// ListInterviewers 管理端的面试官目录，分配下拉框用。
func (h *AccountApiHandler) ListInterviewers(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	interviewers, err := h.Interviewer.ListInterviewers(xl)
	if err != nil {
		xl.Errorf("failed to list interviewers, error %v", err)
		model.SendError(c, model.NewResponseErrorInternal(), requestID)
		return
	}
	resp := model.NewSuccessResponse(&model.InterviewerListResponse{
		List:  interviewers,
		Total: len(interviewers),
	}).WithRequestID(requestID)
	resp.Send(c, http.StatusOK)
}
