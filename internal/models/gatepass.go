// server/internal/models/gatepass.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Receiver identifies the receiving party. Either ServiceNo (internal
// employee) or the Name/NIC/Contact triple (non-member) is set, never both.
type Receiver struct {
	ServiceNo string `bson:"serviceNo,omitempty" json:"serviceNo,omitempty"`
	Name      string `bson:"name,omitempty" json:"name,omitempty"`
	NIC       string `bson:"nic,omitempty" json:"nic,omitempty"`
	Contact   string `bson:"contact,omitempty" json:"contact,omitempty"`
	NonMember bool   `bson:"nonMember" json:"nonMember"`
}

// Destination is an internal location, or a company name/address when the
// items leave the organization.
type Destination struct {
	Location       string `bson:"location,omitempty" json:"location,omitempty"`
	CompanyName    string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyAddress string `bson:"companyAddress,omitempty" json:"companyAddress,omitempty"`
	NonMemberPlace bool   `bson:"nonMemberPlace" json:"nonMemberPlace"`
}

type Transport struct {
	Mode          string `bson:"mode" json:"mode"` // e.g. "VEHICLE", "BY_HAND"
	VehicleNo     string `bson:"vehicleNo,omitempty" json:"vehicleNo,omitempty"`
	TransporterID string `bson:"transporterID,omitempty" json:"transporterID,omitempty"`
}

type Item struct {
	Name       string         `bson:"name" json:"name"`
	SerialNo   string         `bson:"serialNo" json:"serialNo"`
	Category   string         `bson:"category" json:"category"`
	Quantity   int            `bson:"quantity" json:"quantity"`
	Model      string         `bson:"model,omitempty" json:"model,omitempty"`
	Returnable bool           `bson:"returnable" json:"returnable"`
	Photos     []MediaPointer `bson:"photos,omitempty" json:"photos,omitempty"` // max 5
	Status     string         `bson:"status" json:"status"`
	ReturnedAt *time.Time     `bson:"returnedAt,omitempty" json:"returnedAt,omitempty"`
}

// LoadingDetails is the optional payload the verify officer attaches on
// approve.
type LoadingDetails struct {
	VehicleNo  string `bson:"vehicleNo,omitempty" json:"vehicleNo,omitempty"`
	DriverName string `bson:"driverName,omitempty" json:"driverName,omitempty"`
	Remarks    string `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// ApprovalStage is one role's record in the sequential approval chain.
type ApprovalStage struct {
	Role           string          `bson:"role" json:"role"`
	Outcome        string          `bson:"outcome" json:"outcome"`
	Comment        string          `bson:"comment,omitempty" json:"comment,omitempty"`
	ActorServiceNo string          `bson:"actorServiceNo,omitempty" json:"actorServiceNo,omitempty"`
	ActedAt        *time.Time      `bson:"actedAt,omitempty" json:"actedAt,omitempty"`
	LoadingDetails *LoadingDetails `bson:"loadingDetails,omitempty" json:"loadingDetails,omitempty"`
}

// GatePass is the request of record. Immutable after creation except for
// item return updates and executive officer reassignment.
type GatePass struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RefNo            string             `bson:"refNo" json:"refNo"`
	SenderServiceNo  string             `bson:"senderServiceNo" json:"senderServiceNo"`
	Receiver         Receiver           `bson:"receiver" json:"receiver"`
	FromLocation     string             `bson:"fromLocation" json:"fromLocation"`
	Destination      Destination        `bson:"destination" json:"destination"`
	Transport        Transport          `bson:"transport" json:"transport"`
	Items            []Item             `bson:"items" json:"items"`
	ExecutiveOfficer string             `bson:"executiveOfficer" json:"executiveOfficer"`
	Stages           []ApprovalStage    `bson:"stages" json:"stages"`
	CreatedBy        string             `bson:"createdBy" json:"createdBy"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
