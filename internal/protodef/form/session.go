package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SessionCreateForm 创建/获取面试场次。interviewDate为unix秒，0表示取当前时间。
type SessionCreateForm struct {
	ApplicantID   string `json:"applicantId"`
	InterviewDate int64  `json:"interviewDate"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
}

func (f *SessionCreateForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ApplicantID, validation.Required),
		validation.Field(&f.InterviewDate, validation.Min(int64(0))),
	)
}
