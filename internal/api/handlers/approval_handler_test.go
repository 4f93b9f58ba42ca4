package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate-pass-api-server/internal/models"
)

// testContext builds a gin context carrying an authenticated caller. The
// handlers under test here must bail out before ever touching their nil
// collaborators.
func testContext(t *testing.T, method, path string, body interface{}, role, serviceNo string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "ref", Value: "GP-0001"}}
	c.Set("user_role", role)
	c.Set("user_service_no", serviceNo)
	return c, w
}

func TestRejectMissingCommentNeverHitsStore(t *testing.T) {
	h := &ApprovalHandler{} // nil DB: any store access would panic
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/reject",
		map[string]string{}, models.RoleExecutive, "000100")

	h.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectWhitespaceCommentNeverHitsStore(t *testing.T) {
	h := &ApprovalHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/reject",
		map[string]string{"comment": "   \t"}, models.RoleDispatch, "000400")

	h.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "comment")
}

func TestRejectWithoutStageRole(t *testing.T) {
	h := &ApprovalHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/reject",
		map[string]string{"comment": "no"}, models.RoleUser, "000100")

	h.Reject(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApproveWithoutStageRole(t *testing.T) {
	h := &ApprovalHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/approve",
		map[string]string{}, models.RoleUser, "000100")

	h.Approve(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleForStage(t *testing.T) {
	assert.Equal(t, models.RoleVerify, roleForStage(models.StageVerify))
	assert.Equal(t, models.RoleReceiver, roleForStage(models.StageReceive))
	assert.Empty(t, roleForStage("CUSTODIAN"))
}
