package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/identity"
	"gate-pass-api-server/internal/models"
	"gate-pass-api-server/internal/notify"
	"gate-pass-api-server/internal/pagination"
	"gate-pass-api-server/internal/s3"
	"gate-pass-api-server/internal/socket"
	"gate-pass-api-server/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxPhotosPerItem = 5

type GatePassHandler struct {
	DB        *mongo.Database
	Hub       *socket.Hub
	Notifier  notify.Notifier
	Directory *directory.Cache
	Uploader  *s3.Uploader
}

type ItemPayload struct {
	Name       string `json:"name" binding:"required"`
	SerialNo   string `json:"serialNo" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Model      string `json:"model"`
	Returnable bool   `json:"returnable"`
}

type CreateGatePassPayload struct {
	Receiver         models.Receiver    `json:"receiver" binding:"required"`
	FromLocation     string             `json:"fromLocation" binding:"required"`
	Destination      models.Destination `json:"destination" binding:"required"`
	Transport        models.Transport   `json:"transport" binding:"required"`
	Items            []ItemPayload      `json:"items" binding:"required,min=1,dive"`
	ExecutiveOfficer string             `json:"executiveOfficer" binding:"required"`
}

// validateReceiver enforces the mutually exclusive receiver resolution:
// internal service number, or a non-member name/NIC/contact triple.
func validateReceiver(r models.Receiver, nonMemberPlace bool) error {
	nonMember := nonMemberPlace || identity.IsNonMember(r.ServiceNo) || identity.IsNonMember(r.NIC)
	if nonMember {
		if r.Name == "" || r.NIC == "" || r.Contact == "" {
			return fmt.Errorf("non-member receiver requires name, NIC and contact")
		}
		return nil
	}
	if r.ServiceNo == "" {
		return fmt.Errorf("internal receiver requires a service number")
	}
	return nil
}

// CreateGatePass accepts a multipart form: a "payload" JSON part plus
// optional photo parts named photos_<serialNo>, at most 5 per item.
func (h *GatePassHandler) CreateGatePass(c *gin.Context) {
	creatorServiceNo := c.GetString("user_service_no")

	var payload CreateGatePassPayload
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload JSON: " + err.Error()})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one item is required"})
		return
	}
	if err := validateReceiver(payload.Receiver, payload.Destination.NonMemberPlace); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload.Receiver.NonMember = payload.Destination.NonMemberPlace ||
		identity.IsNonMember(payload.Receiver.ServiceNo) || identity.IsNonMember(payload.Receiver.NIC)

	refNo := fmt.Sprintf("GP-%s", strings.ToUpper(uuid.New().String()[:8]))

	items := make([]models.Item, 0, len(payload.Items))
	for _, ip := range payload.Items {
		photos, err := h.uploadItemPhotos(c, refNo, ip.SerialNo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		items = append(items, models.Item{
			Name:       ip.Name,
			SerialNo:   ip.SerialNo,
			Category:   ip.Category,
			Quantity:   ip.Quantity,
			Model:      ip.Model,
			Returnable: ip.Returnable,
			Photos:     photos,
			Status:     workflow.SeedItemStatus(ip.Returnable),
		})
	}

	now := time.Now()
	pass := models.GatePass{
		RefNo:            refNo,
		SenderServiceNo:  creatorServiceNo,
		Receiver:         payload.Receiver,
		FromLocation:     payload.FromLocation,
		Destination:      payload.Destination,
		Transport:        payload.Transport,
		Items:            items,
		ExecutiveOfficer: payload.ExecutiveOfficer,
		Stages:           workflow.NewChain(),
		CreatedBy:        creatorServiceNo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	collection := h.DB.Collection("gate_passes")
	result, err := collection.InsertOne(c.Request.Context(), pass)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gate pass"})
		return
	}
	pass.ID = result.InsertedID.(primitive.ObjectID)

	h.Hub.Broadcast(socket.Event{
		Name:      socket.EventNewRequest,
		RefNo:     pass.RefNo,
		Status:    models.OutcomePending,
		ServiceNo: pass.SenderServiceNo,
	}, socket.UserRoom(pass.ExecutiveOfficer), socket.RoleRoom(models.RoleExecutive))

	// Best-effort heads-up to the assigned executive officer.
	warning := bestEffortNotify(c.Request.Context(), h.Directory, h.Notifier, pass.ExecutiveOfficer, notify.Event{
		Type:  notify.TypeNewRequest,
		RefNo: pass.RefNo,
		Stage: models.StageExecutive,
	})

	resp := gin.H{"status": "success", "gatePass": pass}
	appendWarning(resp, warning)
	c.JSON(http.StatusCreated, resp)
}

func (h *GatePassHandler) uploadItemPhotos(c *gin.Context, refNo, serialNo string) ([]models.MediaPointer, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["photos_"+serialNo]
	if len(files) > maxPhotosPerItem {
		return nil, fmt.Errorf("item %s: at most %d photos are allowed", serialNo, maxPhotosPerItem)
	}

	var photos []models.MediaPointer
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("item %s: failed to read photo: %w", serialNo, err)
		}
		photoID := uuid.New().String()
		objectKey := fmt.Sprintf("gate-passes/%s/%s/%s", refNo, serialNo, photoID)
		url, err := h.Uploader.UploadFile(c.Request.Context(), f, objectKey, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("item %s: failed to upload photo: %w", serialNo, err)
		}
		photos = append(photos, models.MediaPointer{
			ID:       photoID,
			URL:      url,
			FileName: fh.Filename,
			FileType: fh.Header.Get("Content-Type"),
		})
	}
	return photos, nil
}

// GetGatePassByRef returns a single enriched gate pass.
func (h *GatePassHandler) GetGatePassByRef(c *gin.Context) {
	refNo := c.Param("ref")
	collection := h.DB.Collection("gate_passes")

	var pass models.GatePass
	err := collection.FindOne(c.Request.Context(), bson.M{"refNo": refNo}).Decode(&pass)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gate pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve gate pass"})
		return
	}

	enriched := h.Directory.EnrichGatePasses(c.Request.Context(), []models.GatePass{pass})
	c.JSON(http.StatusOK, enriched[0])
}

// GetMyGatePasses lists the caller's own submissions, newest first.
func (h *GatePassHandler) GetMyGatePasses(c *gin.Context) {
	serviceNo := c.GetString("user_service_no")
	params := pagination.Parse(c.Query("limit"), c.Query("skip"))
	h.listBucket(c, bson.M{"senderServiceNo": serviceNo}, params)
}

// GetStatusBucket lists the pending/approved/rejected bucket for the
// caller's stage.
func (h *GatePassHandler) GetStatusBucket(c *gin.Context) {
	role := c.GetString("user_role")
	stage, ok := workflow.StageForRole(role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your role has no approval stage"})
		return
	}

	filter, err := bucketFilter(stage, c.Param("bucket"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Executive officers only see requests assigned to them.
	if stage == models.StageExecutive {
		filter["executiveOfficer"] = c.GetString("user_service_no")
	}

	params := pagination.Parse(c.Query("limit"), c.Query("skip"))
	h.listBucket(c, filter, params)
}

func (h *GatePassHandler) listBucket(c *gin.Context, filter bson.M, params pagination.Params) {
	ctx := c.Request.Context()
	collection := h.DB.Collection("gate_passes")

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count gate passes"})
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(params.Skip)).
		SetLimit(int64(params.Limit))
	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query gate passes"})
		return
	}
	defer cursor.Close(ctx)

	var passes []models.GatePass
	if err = cursor.All(ctx, &passes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode gate passes"})
		return
	}

	enriched := h.Directory.EnrichGatePasses(ctx, passes)
	if enriched == nil {
		enriched = []directory.EnrichedGatePass{}
	}

	page := pagination.Resolve(params, len(passes), total)
	c.JSON(http.StatusOK, gin.H{
		"items":    enriched,
		"total":    page.Total,
		"hasMore":  page.HasMore,
		"nextSkip": page.NextSkip,
	})
}

// bucketFilter builds the Mongo filter for one stage's bucket. Pending
// requires every earlier stage approved and no rejection anywhere.
func bucketFilter(stage, bucket string) (bson.M, error) {
	elem := func(role, outcome string) bson.M {
		return bson.M{"$elemMatch": bson.M{"role": role, "outcome": outcome}}
	}
	switch bucket {
	case "pending":
		order := []string{models.StageExecutive, models.StageVerify, models.StageDispatch, models.StageReceive}
		var conds []bson.M
		for _, s := range order {
			if s == stage {
				conds = append(conds, bson.M{"stages": elem(s, models.OutcomePending)})
				break
			}
			conds = append(conds, bson.M{"stages": elem(s, models.OutcomeApproved)})
		}
		conds = append(conds, bson.M{"stages": bson.M{"$not": bson.M{"$elemMatch": bson.M{"outcome": models.OutcomeRejected}}}})
		return bson.M{"$and": conds}, nil
	case "approved":
		return bson.M{"stages": elem(stage, models.OutcomeApproved)}, nil
	case "rejected":
		return bson.M{"stages": elem(stage, models.OutcomeRejected)}, nil
	}
	return nil, fmt.Errorf("unknown bucket %q", bucket)
}

type ReassignOfficerPayload struct {
	ExecutiveOfficer string `json:"executiveOfficer" binding:"required"`
}

// canReassignOfficer reports whether the caller may change the executive
// officer: the sender of the pass, or an executive/superadmin account.
func canReassignOfficer(role, callerServiceNo, senderServiceNo string) bool {
	if role == models.RoleExecutive || role == models.RoleSuperAdmin {
		return true
	}
	return callerServiceNo != "" && callerServiceNo == senderServiceNo
}

// ReassignOfficer changes the executive officer while that stage is still
// pending.
func (h *GatePassHandler) ReassignOfficer(c *gin.Context) {
	refNo := c.Param("ref")

	var payload ReassignOfficerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection("gate_passes")

	var pass models.GatePass
	if err := collection.FindOne(ctx, bson.M{"refNo": refNo}).Decode(&pass); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gate pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve gate pass"})
		return
	}
	if !canReassignOfficer(c.GetString("user_role"), c.GetString("user_service_no"), pass.SenderServiceNo) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only reassign the officer on your own gate passes"})
		return
	}
	if !workflow.PendingAt(pass.Stages, models.StageExecutive) {
		c.JSON(http.StatusConflict, gin.H{"error": "Executive stage has already acted on this gate pass"})
		return
	}

	_, err := collection.UpdateOne(ctx, bson.M{"refNo": refNo}, bson.M{
		"$set": bson.M{"executiveOfficer": payload.ExecutiveOfficer, "updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign officer"})
		return
	}

	h.Hub.Broadcast(socket.Event{
		Name:  socket.EventRequestUpdated,
		RefNo: refNo,
	}, socket.UserRoom(payload.ExecutiveOfficer), socket.RoleRoom(models.RoleExecutive))

	c.JSON(http.StatusOK, gin.H{"status": "success", "refNo": refNo, "executiveOfficer": payload.ExecutiveOfficer})
}
