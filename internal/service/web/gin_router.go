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

package web

import (
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/web/handler"
	"github.com/solutions/rekrut-cube/internal/service/web/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

// NewRouter 返回gin router，分流API。
func NewRouter(config *utils.Config) (*gin.Engine, error) {
	// 1. 初始化GIN
	router := gin.New()
	router.Use(gin.Recovery())
	// 1.1. 全局CORS配置
	router.Use(corsMiddleware())

	// 2. 声明Handler
	accountApiHandler := handler.NewAccountApiHandler(*config)
	workflowApiHandler := handler.NewWorkflowApiHandler(*config)
	sessionApiHandler := handler.NewSessionApiHandler(*config)
	formApiHandler := handler.NewFormApiHandler(*config)
	exportApiHandler := handler.NewExportApiHandler(*config)

	middleware.InitMiddleware(*config)

	// 3. 登录，无鉴权
	auth := router.Group("/auth", addRequestID)
	{
		auth.POST("login", accountApiHandler.Login)
		auth.POST("login/", accountApiHandler.Login)
	}

	// 4. 管理端
	admin := router.Group("/admin", addRequestID, middleware.Authenticate, middleware.AdminOnly)
	{
		// 4.1 分配面试官/确认出席，按action分流
		admin.POST("interview-workflow", workflowApiHandler.HandleWorkflow)
		// 4.2 面试官目录
		admin.GET("interviewers", accountApiHandler.ListInterviewers)
		// 4.3 批量导出
		admin.GET("bulk-download-pdf-optimized", exportApiHandler.BulkDownload)
		admin.POST("bulk-download-pdf-optimized", exportApiHandler.EstimateExport)
		// 4.4 单个报名者报告
		admin.GET("applicants/:applicantId/pdf", exportApiHandler.ApplicantPDF)
	}

	// 5. 面试官端
	interview := router.Group("/interview", addRequestID, middleware.Authenticate, middleware.InterviewerOnly)
	{
		// 5.1 候选人/题目
		interview.GET("candidates", sessionApiHandler.ListCandidates)
		interview.GET("questions", sessionApiHandler.ListQuestions)
		// 5.2 面试场次
		interview.POST("sessions", sessionApiHandler.CreateSession)
		interview.GET("sessions", sessionApiHandler.ListSessions)
		interview.GET("sessions/:sessionId", sessionApiHandler.GetSession)
		// 5.3 打分表
		interview.POST("forms/submit", formApiHandler.SubmitForm)
		interview.PUT("forms/edit", formApiHandler.EditForm)
	}

	router.NoRoute(addRequestID, returnNotFound)
	router.RedirectTrailingSlash = false

	return router, nil
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	model.SendError(c, model.NewResponseErrorNotFound(), xl.ReqId)
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS", "GET", "PUT", "DELETE", "HEAD"},
		AllowHeaders: []string{"Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Disposition", "X-Total-Applications",
			"X-Processed-Applications", "X-Processing-Time", model.RequestIDHeader},
		MaxAge: 12 * time.Hour,
	})
}
