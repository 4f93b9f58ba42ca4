package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gate-pass-api-server/internal/models"
)

func TestMarkReturnedEmptySelectionNeverHitsStore(t *testing.T) {
	h := &ReturnHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/items/return",
		map[string][]string{"serials": {}}, models.RoleDispatch, "000400")

	h.MarkReturned(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkReturnedRoleWithoutObligation(t *testing.T) {
	h := &ReturnHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/items/return",
		map[string][]string{"serials": {"SN-100"}}, models.RoleVerify, "000300")

	h.MarkReturned(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssignReturnObligationEmptySelection(t *testing.T) {
	h := &ReturnHandler{}
	c, w := testContext(t, http.MethodPost, "/gate-passes/GP-0001/items/return-obligation",
		map[string][]string{}, models.RoleExecutive, "000200")

	h.AssignReturnObligation(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageForCountMentionsCount(t *testing.T) {
	assert.Contains(t, messageForCount(1), "1")
	assert.Contains(t, messageForCount(3), "3")
}
