package cloud

import (
	"fmt"

	"github.com/qiniu/x/xlog"
	rcsdk "github.com/rongcloud/server-sdk-go/v3/sdk"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
)

const (
	// DefaultPortraitURL 默认IM头像地址。
	DefaultPortraitURL = "https://developer.rongcloud.cn/static/images/newversion-logo.png"
	// TextMessageObjectName 融云文本消息类型。
	TextMessageObjectName = "RC:TxtMsg"
)

// NotificationService 给面试官推送分配通知。发送失败不阻塞业务流程，
// 由调用方决定是否忽略。
type NotificationService interface {
	NotifyAssignment(xl *xlog.Logger, interviewer *model.InterviewerDo, applicant *model.ApplicantDo) error
}

// RongCloudNotificationService 融云IM实现，系统账号向面试官单聊发文本消息。
type RongCloudNotificationService struct {
	systemUserID    string
	rongCloudClient *rcsdk.RongCloud
	xl              *xlog.Logger
}

func NewRongCloudNotificationService(conf utils.IMConfig) *RongCloudNotificationService {
	return &RongCloudNotificationService{
		systemUserID:    conf.SystemUserID,
		rongCloudClient: rcsdk.NewRongCloud(conf.RongCloud.AppKey, conf.RongCloud.AppSecret),
		xl:              xlog.New("rekrut-cube-notify"),
	}
}

// NotifyAssignment 先确保面试官IM账号已注册，再发送分配通知。
func (s *RongCloudNotificationService) NotifyAssignment(xl *xlog.Logger, interviewer *model.InterviewerDo, applicant *model.ApplicantDo) error {
	if xl == nil {
		xl = s.xl
	}
	_, err := s.rongCloudClient.UserRegister(interviewer.ID, interviewer.FullName, DefaultPortraitURL)
	if err != nil {
		xl.Errorf("failed to register IM user for interviewer %s, error %v", interviewer.ID, err)
		return &errors.ServerError{Code: errors.ServerErrorIMSendFail, Summary: err.Error()}
	}
	msg := rcsdk.TXTMsg{
		Content: fmt.Sprintf("Anda ditugaskan mewawancarai %s (NIM %s).", applicant.FullName, applicant.Nim),
	}
	err = s.rongCloudClient.PrivateSend(s.systemUserID, []string{interviewer.ID}, TextMessageObjectName, &msg,
		"", "", 1, 0, 1, 1, 0)
	if err != nil {
		xl.Errorf("failed to send assignment notification to interviewer %s, error %v", interviewer.ID, err)
		return &errors.ServerError{Code: errors.ServerErrorIMSendFail, Summary: err.Error()}
	}
	xl.Infof("assignment notification sent to interviewer %s for applicant %s", interviewer.ID, applicant.ID)
	return nil
}

// NoopNotificationService 测试环境实现，只记录不外发。
type NoopNotificationService struct {
	Sent []string
}

func (s *NoopNotificationService) NotifyAssignment(xl *xlog.Logger, interviewer *model.InterviewerDo, applicant *model.ApplicantDo) error {
	s.Sent = append(s.Sent, interviewer.ID+":"+applicant.ID)
	return nil
}

// NewNotificationService 按配置选择实现，provider为test或未配置时走空实现。
func NewNotificationService(conf utils.IMConfig) NotificationService {
	if conf.Provider == "" || conf.Provider == "test" {
		return &NoopNotificationService{}
	}
	return NewRongCloudNotificationService(conf)
}
