// server/internal/models/common.go
package models

// MediaPointer references a media object stored on S3 or a similar service.
type MediaPointer struct {
	ID       string `bson:"id" json:"id"`
	URL      string `bson:"url" json:"url"`
	FileName string `bson:"fileName" json:"fileName"`
	FileType string `bson:"fileType" json:"fileType"` // e.g. "image/jpeg"
}

// Stage identifiers, in the order the approval chain runs.
const (
	StageExecutive = "EXECUTIVE"
	StageVerify    = "VERIFY"
	StageDispatch  = "DISPATCH"
	StageReceive   = "RECEIVE"
)

// Outcomes of a single approval stage.
const (
	OutcomePending  = "PENDING"
	OutcomeApproved = "APPROVED"
	OutcomeRejected = "REJECTED"
)

// Item lifecycle status strings. Transitions are one-directional:
// returnable -> return to <role> -> returned.
const (
	ItemStatusReturnable     = "returnable"
	ItemStatusNotReturnable  = "not returnable"
	ItemStatusReturnToPetrol = "return to Petrol Leader"
	ItemStatusReturnToExec   = "return to Executive Officer"
	ItemStatusReturned       = "returned"
)

// Account roles.
const (
	RoleUser       = "user"
	RoleExecutive  = "executive"
	RoleVerify     = "verify"
	RoleDispatch   = "dispatch"
	RoleReceiver   = "receiver"
	RoleSuperAdmin = "superadmin"
)
