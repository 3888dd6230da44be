package model

import "time"

// 报名者选拔状态。
const (
	ApplicantStatusUnderReview = "UNDER_REVIEW"
	ApplicantStatusShortlist   = "SHORTLIST"
	ApplicantStatusInterview   = "INTERVIEW"
	ApplicantStatusAccepted    = "ACCEPTED"
	ApplicantStatusRejected    = "REJECTED"
)

// 面试分配状态，挂在报名者上。
const (
	InterviewStatusUnassigned = ""
	InterviewStatusAssigned   = "ASSIGNED"
)

// 面试场次状态。
const (
	SessionStatusScheduled  = "SCHEDULED"
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusCompleted  = "COMPLETED"
	SessionStatusCancelled  = "CANCELLED"
)

// 面试官角色。
const (
	RoleInterviewer     = "INTERVIEWER"
	RoleHeadInterviewer = "HEAD_INTERVIEWER"
	RoleAdmin           = "ADMIN"
)

// 推荐档位，按平均分从高到低。
const (
	RecommendationStrong       = "Sangat Direkomendasikan"
	RecommendationRecommended  = "Direkomendasikan"
	RecommendationConsidered   = "Dipertimbangkan"
	RecommendationNot          = "Tidak Direkomendasikan"
	RecommendationNotEvaluable = "Belum dapat dievaluasi"
)

// 打分取值范围。
const (
	ScoreMin = 0
	ScoreMax = 5
)

// ApplicantDo 报名者。
type ApplicantDo struct {
	ID       string `bson:"_id" json:"applicantId"`
	Nim      string `bson:"nim" json:"nim"`
	FullName string `bson:"fullName" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Major    string `bson:"major" json:"major"`
	// BatchYear 入学年份。
	BatchYear int    `bson:"batchYear" json:"batchYear"`
	Status    string `bson:"status" json:"status"`
	// InterviewStatus 为ASSIGNED时AssignedInterviewer必定非空。
	InterviewStatus     string    `bson:"interviewStatus" json:"interviewStatus"`
	AttendanceConfirmed bool      `bson:"attendanceConfirmed" json:"attendanceConfirmed"`
	AssignedInterviewer string    `bson:"assignedInterviewer" json:"assignedInterviewer"`
	CreateTime          time.Time `bson:"createTime" json:"-"`
	UpdateTime          time.Time `bson:"updateTime" json:"-"`
}

// InterviewerDo 面试官。
type InterviewerDo struct {
	ID           string    `bson:"_id" json:"interviewerId"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	FullName     string    `bson:"fullName" json:"fullName"`
	Role         string    `bson:"role" json:"role"`
	CreateTime   time.Time `bson:"createTime" json:"-"`
}

// InterviewSessionDo 面试场次。每个报名者至多一个活动场次，
// 依赖创建前查询保证，不靠唯一索引。
type InterviewSessionDo struct {
	ID            string    `bson:"_id" json:"sessionId"`
	ApplicantID   string    `bson:"applicantId" json:"applicantId"`
	InterviewerID string    `bson:"interviewerId" json:"interviewerId"`
	Status        string    `bson:"status" json:"status"`
	InterviewDate time.Time `bson:"interviewDate" json:"interviewDate"`
	Location      string    `bson:"location" json:"location"`
	Notes         string    `bson:"notes" json:"notes"`
	// TotalScore 仅在状态变为COMPLETED时写入。
	TotalScore     *int   `bson:"totalScore" json:"totalScore"`
	Recommendation string `bson:"recommendation" json:"recommendation"`
	// InterviewerName 自由文本覆盖，报告上显示用。
	InterviewerName string    `bson:"interviewerName" json:"interviewerName"`
	CreateTime      time.Time `bson:"createTime" json:"-"`
	UpdateTime      time.Time `bson:"updateTime" json:"-"`
}

// InterviewQuestionDo 题目目录，打分侧只读。
type InterviewQuestionDo struct {
	ID             string `bson:"_id" json:"questionId"`
	QuestionNumber int    `bson:"questionNumber" json:"questionNumber"`
	QuestionText   string `bson:"questionText" json:"questionText"`
	Category       string `bson:"category" json:"category"`
	IsActive       bool   `bson:"isActive" json:"isActive"`
}

// InterviewResponseDo 一道题的打分记录。编辑时整组delete-then-insert替换，
// 不做行级更新。
type InterviewResponseDo struct {
	ID         string    `bson:"_id" json:"responseId"`
	SessionID  string    `bson:"sessionId" json:"sessionId"`
	QuestionID string    `bson:"questionId" json:"questionId"`
	Score      int       `bson:"score" json:"score"`
	Response   string    `bson:"response" json:"response"`
	Notes      string    `bson:"notes" json:"notes"`
	CreateTime time.Time `bson:"createTime" json:"-"`
}
