package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 管理端interview-workflow接口的action取值。
const (
	WorkflowActionAssignInterviewer = "assign_interviewer"
	WorkflowActionMarkAttendance    = "mark_attendance"
)

// AssignInterviewerForm action为assign_interviewer时的请求体。
// interviewerId可以是面试官_id或username，服务端先按id再按username解析。
type AssignInterviewerForm struct {
	Action        string `json:"action"`
	ApplicantID   string `json:"applicantId"`
	InterviewerID string `json:"interviewerId"`
}

func (f *AssignInterviewerForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ApplicantID, validation.Required),
		validation.Field(&f.InterviewerID, validation.Required),
	)
}

// MarkAttendanceForm action为mark_attendance时的请求体。
type MarkAttendanceForm struct {
	Action string `json:"action"`
	Nim    string `json:"nim"`
}

func (f *MarkAttendanceForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Nim, validation.Required),
	)
}
