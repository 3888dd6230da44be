package dao

// mongo集合名。
const (
	ApplicantCollection   = "applicants"
	InterviewerCollection = "interviewers"
	SessionCollection     = "interview_sessions"
	QuestionCollection    = "interview_questions"
	ResponseCollection    = "interview_responses"
)
