package handlers

import (
	"errors"
	"net/http"
	"strings"
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

type ApprovalHandler struct {
	DB        *mongo.Database
	Hub       *socket.Hub
	Notifier  notify.Notifier
	Directory *directory.Cache
}

type ApprovePayload struct {
	Comment        string                 `json:"comment"`
	LoadingDetails *models.LoadingDetails `json:"loadingDetails"`
}

type RejectPayload struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *ApprovalHandler) loadPass(c *gin.Context, refNo string) (*models.GatePass, bool) {
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

func (h *ApprovalHandler) persistStages(c *gin.Context, refNo string, stages []models.ApprovalStage) bool {
	_, err := h.DB.Collection("gate_passes").UpdateOne(c.Request.Context(),
		bson.M{"refNo": refNo},
		bson.M{"$set": bson.M{"stages": stages, "updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gate pass"})
		return false
	}
	return true
}

func workflowErrorStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrCommentRequired):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrUnknownStage):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

// Approve records an approval at the caller's stage and moves the request
// into the next stage's pending bucket.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	refNo := c.Param("ref")
	actorServiceNo := c.GetString("user_service_no")
	role := c.GetString("user_role")

	stage, ok := workflow.StageForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role has no approval stage"})
		return
	}

	var payload ApprovePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pass, ok := h.loadPass(c, refNo)
	if !ok {
		return
	}

	stages, err := workflow.Approve(pass.Stages, stage, actorServiceNo, payload.Comment, payload.LoadingDetails, time.Now())
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !h.persistStages(c, refNo, stages) {
		return
	}

	completed := workflow.IsCompleted(stages)
	eventName := socket.EventRequestApproved
	if completed {
		eventName = socket.EventRequestCompleted
	}
	rooms := []string{socket.UserRoom(pass.SenderServiceNo)}
	if next, ok := workflow.CurrentStage(stages); ok {
		rooms = append(rooms, socket.RoleRoom(roleForStage(next)))
	}
	h.Hub.Broadcast(socket.Event{
		Name:      eventName,
		RefNo:     refNo,
		Status:    models.OutcomeApproved,
		ServiceNo: actorServiceNo,
	}, rooms...)

	// Counter-party mail, best-effort: the requester hears about the
	// executive decision, the receiver about the dispatch one.
	var warning string
	switch stage {
	case models.StageExecutive:
		warning = bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, pass.SenderServiceNo, notify.Event{
			Type: notify.TypeRequestApproved, RefNo: refNo, Stage: stage, Comment: payload.Comment,
		})
	case models.StageDispatch:
		if !pass.Receiver.NonMember && pass.Receiver.ServiceNo != "" {
			warning = bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, pass.Receiver.ServiceNo, notify.Event{
				Type: notify.TypeRequestApproved, RefNo: refNo, Stage: stage, Comment: payload.Comment,
			})
		}
	}

	resp := gin.H{"status": "success", "refNo": refNo, "stage": stage, "outcome": models.OutcomeApproved, "completed": completed}
	appendWarning(resp, warning)
	c.JSON(http.StatusOK, resp)
}

// Reject records a terminal rejection at the caller's stage. The comment
// is validated before any store access.
func (h *ApprovalHandler) Reject(c *gin.Context) {
	refNo := c.Param("ref")
	actorServiceNo := c.GetString("user_service_no")
	role := c.GetString("user_role")

	stage, ok := workflow.StageForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role has no approval stage"})
		return
	}

	var payload RejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection comment is required"})
		return
	}
	if strings.TrimSpace(payload.Comment) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": workflow.ErrCommentRequired.Error()})
		return
	}

	pass, ok := h.loadPass(c, refNo)
	if !ok {
		return
	}

	stages, err := workflow.Reject(pass.Stages, stage, actorServiceNo, payload.Comment, time.Now())
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !h.persistStages(c, refNo, stages) {
		return
	}

	h.Hub.Broadcast(socket.Event{
		Name:      socket.EventRequestRejected,
		RefNo:     refNo,
		Status:    models.OutcomeRejected,
		ServiceNo: actorServiceNo,
	}, socket.UserRoom(pass.SenderServiceNo), socket.RoleRoom(models.RoleUser))

	warning := bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, pass.SenderServiceNo, notify.Event{
		Type: notify.TypeRequestRejected, RefNo: refNo, Stage: stage, Comment: payload.Comment,
	})

	resp := gin.H{"status": "success", "refNo": refNo, "stage": stage, "outcome": models.OutcomeRejected}
	appendWarning(resp, warning)
	c.JSON(http.StatusOK, resp)
}

func roleForStage(stage string) string {
	switch stage {
	case models.StageExecutive:
		return models.RoleExecutive
	case models.StageVerify:
		return models.RoleVerify
	case models.StageDispatch:
		return models.RoleDispatch
	case models.StageReceive:
		return models.RoleReceiver
	}
	return ""
}
