package middleware

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) util.Response {
	t.Helper()
	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func learnerAccount(state model.ApprovalState) *model.User {
	u := &model.User{
		Username:      "ayse",
		Role:          model.RoleUser,
		ApprovalState: state,
	}
	u.ID = 7
	return u
}

// 未批准的账号被审批闸门拦下，带稳定错误码
func TestApprovalMiddlewareRejectsPendingAccount(t *testing.T) {
	c, w := testContext(t)
	c.Set("account", learnerAccount(model.ApprovalPending))

	ApprovalMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CodeApprovalRequired, decodeResponse(t, w).ErrorCode)
}

func TestApprovalMiddlewareAllowsActiveAccount(t *testing.T) {
	c, w := testContext(t)
	c.Set("account", learnerAccount(model.ApprovalActive))

	ApprovalMiddleware()(c)

	assert.False(t, c.IsAborted())
	assert.Empty(t, w.Body.Bytes())
}

// 管理员不走审批流程，哪怕状态还是 pending 也放行
func TestApprovalMiddlewareAdminAlwaysPasses(t *testing.T) {
	c, _ := testContext(t)
	admin := &model.User{
		Username:      "admin",
		Role:          model.RoleAdmin,
		ApprovalState: model.ApprovalPending,
	}
	admin.ID = 1
	c.Set("account", admin)

	ApprovalMiddleware()(c)

	assert.False(t, c.IsAborted())
}

func TestApprovalMiddlewareMissingAccount(t *testing.T) {
	c, w := testContext(t)

	ApprovalMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMiddlewareRejectsLearner(t *testing.T) {
	c, w := testContext(t)
	c.Set("user", &util.Claims{UserID: 7, Role: model.RoleUser})

	RoleMiddleware(model.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, util.CodeAdminRequired, decodeResponse(t, w).ErrorCode)
}

func TestRoleMiddlewareAllowsAdmin(t *testing.T) {
	c, _ := testContext(t)
	c.Set("user", &util.Claims{UserID: 1, Role: model.RoleAdmin})

	RoleMiddleware(model.RoleAdmin)(c)

	assert.False(t, c.IsAborted())
}

func TestRoleMiddlewareMissingClaims(t *testing.T) {
	c, w := testContext(t)

	RoleMiddleware(model.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
