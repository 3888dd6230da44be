// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"github.com/gin-gonic/gin"
)

/*
	http_model.go: 规定API的返回体格式，***Response表示 *** 接口的返回体格式。
*/

const (
	// RequestIDHeader 七牛 request ID 头部。
	RequestIDHeader = "X-Reqid"
	// XLogKey gin context中，用于获取记录请求相关日志的 xlog logger的key。
	XLogKey = "xlog-logger"

	// AccountIDContextKey 存放在请求context 中的账号ID。
	AccountIDContextKey = "accountID"
	// AccountRoleContextKey 存放在请求context 中的账号角色。
	AccountRoleContextKey = "accountRole"
	// AccountNameContextKey 账号展示名。
	AccountNameContextKey = "accountName"

	// RequestStartKey 存放在gin context中的请求开始的时间戳。
	RequestStartKey = "request-start-timestamp-nano"
)

// Response 统一返回体。success为false时message必填，debug仅内部排障用。
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Debug     string      `json:"debug,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

func NewFailResponse(err ResponseError) *Response {
	return &Response{
		Success: false,
		Message: err.Message,
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

// WithDebug 附带来自存储层的诊断信息，仅限内部工具暴露。
func (r *Response) WithDebug(detail string) *Response {
	r.Debug = detail
	return r
}

func (r *Response) Send(c *gin.Context, status int) {
	c.JSON(status, r)
}

// LoginResponse 登录成功返回。
type LoginResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

// AssignmentResponse 分配面试官成功返回。
type AssignmentResponse struct {
	Applicant   *ApplicantDo   `json:"applicant"`
	Interviewer *InterviewerDo `json:"interviewer"`
}

// AttendanceResponse 出席确认成功返回。
type AttendanceResponse struct {
	Applicant *ApplicantDo `json:"applicant"`
	Status    string       `json:"status"`
}

// QuestionWithResponse 题目与已有作答的合并行，未作答时response为空、score为0。
type QuestionWithResponse struct {
	Question InterviewQuestionDo `json:"question"`
	Score    int                 `json:"score"`
	Response string              `json:"response"`
	Notes    string              `json:"notes"`
}

// SessionDetailResponse 面试场次详情。
type SessionDetailResponse struct {
	Session   *InterviewSessionDo    `json:"session"`
	Questions []QuestionWithResponse `json:"questions"`
}

// SessionListResponse 面试官自己的场次列表。
type SessionListResponse struct {
	List  []InterviewSessionDo `json:"list"`
	Total int                  `json:"total"`
}

// CandidateListResponse 候选人列表。
type CandidateListResponse struct {
	List  []ApplicantDo `json:"list"`
	Total int           `json:"total"`
}

// InterviewerListResponse 面试官目录。
type InterviewerListResponse struct {
	List  []InterviewerDo `json:"list"`
	Total int             `json:"total"`
}

// FormResultResponse 打分提交/修改的回显。averageScore固定两位小数。
type FormResultResponse struct {
	SessionID          string `json:"sessionId"`
	TotalScore         int    `json:"totalScore"`
	MaxScore           int    `json:"maxScore"`
	AverageScore       string `json:"averageScore"`
	ResponseCount      int    `json:"responseCount"`
	Recommendation     string `json:"recommendation"`
	AutoRecommendation string `json:"autoRecommendation"`
	Status             string `json:"status"`
	Timestamp          int64  `json:"timestamp"`
}

// ExportEstimate 批量导出的预估，字段名与管理端约定保持一致。
type ExportEstimate struct {
	TotalAplikasi        int   `json:"totalAplikasi"`
	EstimasiWaktuMs      int64 `json:"estimasiWaktuMs"`
	JumlahBatch          int   `json:"jumlahBatch"`
	RekomendasiBatchSize int   `json:"rekomendasiBatchSize"`
}

// ExportEstimateResponse POST bulk-download的返回体。
type ExportEstimateResponse struct {
	Estimasi ExportEstimate `json:"estimasi"`
}

func newFailBody(err ResponseError, requestID string) gin.H {
	body := gin.H{"success": false, "message": err.Message}
	if requestID != "" {
		body["requestId"] = requestID
	}
	return body
}

// SendError 按ResponseError自带的HTTP状态码返回失败体。
func SendError(c *gin.Context, err *ResponseError, requestID string) {
	c.JSON(err.Status, newFailBody(*err, requestID))
}

// SendErrorDebug 同SendError，附带debug详情。
func SendErrorDebug(c *gin.Context, err *ResponseError, requestID, debug string) {
	body := newFailBody(*err, requestID)
	if debug != "" {
		body["debug"] = debug
	}
	c.JSON(err.Status, body)
}
