package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	"github.com/solutions/rekrut-cube/internal/protodef/model"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
)

func init() {
	gin.SetMode(gin.TestMode)
	InitMiddleware(utils.Config{JwtKey: "middleware-test-key"})
}

func newAuthRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(model.XLogKey, xlog.New("test"))
	})
	chain := append([]gin.HandlerFunc{Authenticate}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(model.AccountIDContextKey))
	})
	router.GET("/probe", chain...)
	return router
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.JwtSign(map[string]interface{}{
		"accountId":   "acc-1",
		"role":        role,
		"displayName": "Tester",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}, "middleware-test-key")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func doProbe(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	router := newAuthRouter()

	w := doProbe(router, "Bearer "+signToken(t, model.RoleInterviewer))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "acc-1" {
		t.Fatalf("account id %q not propagated", w.Body.String())
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	router := newAuthRouter()
	if w := doProbe(router, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, expected 401", w.Code)
	}
	if w := doProbe(router, "Token xyz"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d for wrong scheme, expected 401", w.Code)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	router := newAuthRouter()
	if w := doProbe(router, "Bearer not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, expected 401", w.Code)
	}

	// 错误密钥签发的token
	wrongKey, _ := utils.JwtSign(map[string]interface{}{
		"accountId": "acc-1", "role": model.RoleInterviewer,
	}, "another-key")
	if w := doProbe(router, "Bearer "+wrongKey); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d for wrong key, expected 401", w.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	router := newAuthRouter(AdminOnly)

	if w := doProbe(router, "Bearer "+signToken(t, model.RoleAdmin)); w.Code != http.StatusOK {
		t.Fatalf("admin rejected, status %d", w.Code)
	}
	if w := doProbe(router, "Bearer "+signToken(t, model.RoleInterviewer)); w.Code != http.StatusForbidden {
		t.Fatalf("interviewer passed admin gate, status %d", w.Code)
	}
}

func TestInterviewerOnly(t *testing.T) {
	router := newAuthRouter(InterviewerOnly)

	for _, role := range []string{model.RoleInterviewer, model.RoleHeadInterviewer, model.RoleAdmin} {
		if w := doProbe(router, "Bearer "+signToken(t, role)); w.Code != http.StatusOK {
			t.Fatalf("role %s rejected, status %d", role, w.Code)
		}
	}
	if w := doProbe(router, "Bearer "+signToken(t, "GUEST")); w.Code != http.StatusForbidden {
		t.Fatalf("guest passed interviewer gate, status %d", w.Code)
	}
}
