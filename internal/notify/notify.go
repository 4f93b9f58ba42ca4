// Package notify delivers workflow mails. Every send is best-effort: the
// caller's state change is already committed and is never rolled back on a
// delivery failure.
package notify

import (
	"gate-pass-api-server/internal/models"
)

// Event types, used as mail subjects.
const (
	TypeNewRequest      = "New Gate Pass Request"
	TypeRequestApproved = "Gate Pass Approved"
	TypeRequestRejected = "Gate Pass Rejected"
	TypeItemsReturned   = "Gate Pass Items Returned"
)

// Event carries everything a mail template needs.
type Event struct {
	Type           string
	RefNo          string
	Stage          string
	RecipientName  string
	RecipientEmail string
	ActorName      string
	Comment        string
	Items          []models.Item // returned-item list, for TypeItemsReturned
}

type Notifier interface {
	Notify(event Event) error
}
