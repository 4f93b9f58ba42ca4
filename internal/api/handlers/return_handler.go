package handlers

import (
	"net/http"
	"time"

	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/models"
	"gate-pass-api-server/internal/notify"
	"gate-pass-api-server/internal/socket"
	"gate-pass-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReturnHandler struct {
	DB        *mongo.Database
	Hub       *socket.Hub
	Notifier  notify.Notifier
	Directory *directory.Cache

	// Refresh coalesces the role-room fan-out when several return calls
	// land in a burst; the requester still gets a targeted event per call.
	Refresh *socket.Debouncer
}

type SerialsPayload struct {
	Serials []string `json:"serials" binding:"required,min=1"`
}

func (h *ReturnHandler) loadPass(c *gin.Context, refNo string) (*models.GatePass, bool) {
	var pass models.GatePass
	err := h.DB.Collection("gate_passes").FindOne(c.Request.Context(), bson.M{"refNo": refNo}).Decode(&pass)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gate pass not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve gate pass"})
		}
		return nil, false
	}
	return &pass, true
}

// GetAwaitingReturn lists the gate pass's items tagged for the caller's
// return obligation.
func (h *ReturnHandler) GetAwaitingReturn(c *gin.Context) {
	role := c.GetString("user_role")
	tag, ok := workflow.ReturnTagForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role holds no return obligation"})
		return
	}

	pass, ok := h.loadPass(c, c.Param("ref"))
	if !ok {
		return
	}

	items := workflow.AwaitingReturn(pass.Items, tag)
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"refNo": pass.RefNo, "items": items})
}

// AssignReturnObligation tags the selected returnable items for the
// caller's role.
func (h *ReturnHandler) AssignReturnObligation(c *gin.Context) {
	role := c.GetString("user_role")
	tag, ok := workflow.ReturnTagForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role holds no return obligation"})
		return
	}

	var payload SerialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one serial number must be selected"})
		return
	}

	pass, ok := h.loadPass(c, c.Param("ref"))
	if !ok {
		return
	}

	items, err := workflow.AssignReturnObligation(pass.Items, payload.Serials, tag)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if !h.persistItems(c, pass.RefNo, items) {
		return
	}

	h.Hub.Broadcast(socket.Event{
		Name:  socket.EventRequestUpdated,
		RefNo: pass.RefNo,
	}, socket.UserRoom(pass.SenderServiceNo))

	c.JSON(http.StatusOK, gin.H{"status": "success", "refNo": pass.RefNo, "taggedCount": len(payload.Serials)})
}

// MarkReturned moves the selected items to returned, all-or-nothing, then
// fires two best-effort notifications: one to the original requester and
// one to the verify officer with the returned list.
func (h *ReturnHandler) MarkReturned(c *gin.Context) {
	role := c.GetString("user_role")
	actorServiceNo := c.GetString("user_service_no")

	tag, ok := workflow.ReturnTagForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role holds no return obligation"})
		return
	}

	var payload SerialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one serial number must be selected"})
		return
	}

	pass, ok := h.loadPass(c, c.Param("ref"))
	if !ok {
		return
	}

	items, updatedCount, err := workflow.MarkReturned(pass.Items, tag, payload.Serials, time.Now())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if !h.persistItems(c, pass.RefNo, items) {
		return
	}

	returned := make([]models.Item, 0, len(payload.Serials))
	for _, it := range items {
		for _, sn := range payload.Serials {
			if it.SerialNo == sn {
				returned = append(returned, it)
			}
		}
	}

	h.Hub.Broadcast(socket.Event{
		Name:      socket.EventBulkUpdate,
		RefNo:     pass.RefNo,
		ServiceNo: actorServiceNo,
	}, socket.UserRoom(pass.SenderServiceNo))
	h.Refresh.Trigger(socket.Event{
		Name:      socket.EventBulkUpdate,
		RefNo:     pass.RefNo,
		ServiceNo: actorServiceNo,
	})

	returnedEvent := notify.Event{Type: notify.TypeItemsReturned, RefNo: pass.RefNo, Items: returned}
	w1 := bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, pass.SenderServiceNo, returnedEvent)
	w2 := h.notifyVerifyOfficer(c, pass, returnedEvent)

	resp := gin.H{
		"status":       "success",
		"refNo":        pass.RefNo,
		"updatedCount": updatedCount,
		"message":      messageForCount(updatedCount),
	}
	appendWarning(resp, w1, w2)
	c.JSON(http.StatusOK, resp)
}

func (h *ReturnHandler) persistItems(c *gin.Context, refNo string, items []models.Item) bool {
	_, err := h.DB.Collection("gate_passes").UpdateOne(c.Request.Context(),
		bson.M{"refNo": refNo},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gate pass items"})
		return false
	}
	return true
}

// notifyVerifyOfficer mails whoever acted at the verify stage, the next
// role in the return chain.
func (h *ReturnHandler) notifyVerifyOfficer(c *gin.Context, pass *models.GatePass, event notify.Event) string {
	for _, s := range pass.Stages {
		if s.Role == models.StageVerify && s.ActorServiceNo != "" {
			return bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, s.ActorServiceNo, event)
		}
	}
	return ""
}
