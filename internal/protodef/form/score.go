package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ScoreEntryForm 单题打分。
type ScoreEntryForm struct {
	QuestionID string `json:"questionId"`
	Score      int    `json:"score"`
	Response   string `json:"response"`
	Notes      string `json:"notes"`
}

// ScoreForm 提交/修改打分表。submit和edit共用，
// interviewerName仅edit路径读取。
type ScoreForm struct {
	SessionID       string           `json:"sessionId"`
	Responses       []ScoreEntryForm `json:"responses"`
	SessionNotes    string           `json:"sessionNotes"`
	Recommendation  string           `json:"recommendation"`
	InterviewerName string           `json:"interviewerName"`
}

func (f *ScoreForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.SessionID, validation.Required),
		validation.Field(&f.Responses, validation.Required.Error("responses must not be empty")),
	)
}
