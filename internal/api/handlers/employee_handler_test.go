package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmployeeRefusesNonMemberIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &EmployeeHandler{} // nil directory: a lookup would panic

	for _, id := range []string{"NSL42", "007354", "1234"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, err := http.NewRequest(http.MethodGet, "/employees/"+id, nil)
		require.NoError(t, err)
		c.Request = req
		c.Params = gin.Params{{Key: "serviceNo", Value: id}}

		h.GetEmployee(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Contains(t, w.Body.String(), "nonMember")
	}
}
