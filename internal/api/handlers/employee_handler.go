package handlers

import (
	"net/http"

	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/identity"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	Directory *directory.Cache
}

// GetEmployee resolves a service number to an employee profile. Non-member
// identifiers are refused here: they have no ERP record by definition.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	serviceNo := c.Param("serviceNo")
	if serviceNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A service number is required"})
		return
	}
	if identity.IsNonMember(serviceNo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifier denotes a non-member party", "nonMember": true})
		return
	}

	profile, err := h.Directory.Profile(c.Request.Context(), serviceNo)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
