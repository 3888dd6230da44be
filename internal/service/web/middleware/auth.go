package middleware

import (
	"strings"

	model "github.com/solutions/rekrut-cube/internal/protodef/model"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/rekrut-cube/internal/common/utils"
)

var jwtKey string

func InitMiddleware(conf utils.Config) {
	jwtKey = conf.JwtKey
}

// Authenticate 校验请求者的身份。
// 根据Authorization:Bearer <token>校验，通过后填充账号ID与角色。
func Authenticate(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		xl.Debug("authorization header is empty or in wrong format")
		xl.Debugf("%s %s: request unauthorized, wrong auth header format", c.Request.Method, c.Request.URL.Path)
		model.SendError(c, model.NewResponseErrorNotLoggedIn(), requestID)
		c.Abort()
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.JwtDecode(token, jwtKey)
	if err != nil {
		xl.Debugf("%s %s: request unauthorized, error %v", c.Request.Method, c.Request.URL.Path, err)
		model.SendError(c, model.NewResponseErrorBadToken(), requestID)
		c.Abort()
		return
	}
	accountID, _ := claims["accountId"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["displayName"].(string)
	if accountID == "" || role == "" {
		xl.Debugf("%s %s: token misses account claims", c.Request.Method, c.Request.URL.Path)
		model.SendError(c, model.NewResponseErrorBadToken(), requestID)
		c.Abort()
		return
	}
	c.Set(model.AccountIDContextKey, accountID)
	c.Set(model.AccountRoleContextKey, role)
	c.Set(model.AccountNameContextKey, name)
}

// AdminOnly 管理端接口的角色门槛，需在Authenticate之后使用。
func AdminOnly(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	role := c.GetString(model.AccountRoleContextKey)
	if role != model.RoleAdmin {
		xl.Debugf("%s %s: role %s rejected, admin only", c.Request.Method, c.Request.URL.Path, role)
		model.SendError(c, model.NewResponseErrorAdminOnly(), xl.ReqId)
		c.Abort()
		return
	}
}

// InterviewerOnly 面试官接口的角色门槛。HEAD_INTERVIEWER与ADMIN也可通过。
func InterviewerOnly(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	role := c.GetString(model.AccountRoleContextKey)
	switch role {
	case model.RoleInterviewer, model.RoleHeadInterviewer, model.RoleAdmin:
	default:
		xl.Debugf("%s %s: role %s rejected, interviewer only", c.Request.Method, c.Request.URL.Path, role)
		model.SendError(c, model.NewResponseErrorInterviewerOnly(), xl.ReqId)
		c.Abort()
		return
	}
}
