package workflow

import (
	"errors"
	"fmt"
	"time"

	"gate-pass-api-server/internal/models"
)

var (
	ErrNoSerialsSelected = errors.New("at least one serial number must be selected")
	ErrNotReturnable     = errors.New("item is not in a returnable state")
)

// ReturnTagForRole maps a role to the item status tag it is obligated to
// collect.
func ReturnTagForRole(role string) (string, bool) {
	switch role {
	case models.RoleDispatch:
		return models.ItemStatusReturnToPetrol, true
	case models.RoleExecutive:
		return models.ItemStatusReturnToExec, true
	}
	return "", false
}

// SeedItemStatus is the lifecycle status a new item starts in.
func SeedItemStatus(returnable bool) string {
	if returnable {
		return models.ItemStatusReturnable
	}
	return models.ItemStatusNotReturnable
}

// AwaitingReturn filters a gate pass's items to those tagged for the given
// role's return obligation.
func AwaitingReturn(items []models.Item, tag string) []models.Item {
	var out []models.Item
	for _, it := range items {
		if it.Status == tag {
			out = append(out, it)
		}
	}
	return out
}

// AssignReturnObligation tags the selected items with a return-obligation
// status. Only items still in the plain returnable state may be tagged;
// the transition is one-directional.
func AssignReturnObligation(items []models.Item, serials []string, tag string) ([]models.Item, error) {
	if len(serials) == 0 {
		return nil, ErrNoSerialsSelected
	}
	out := append([]models.Item(nil), items...)
	for _, sn := range serials {
		i, err := findItem(out, sn)
		if err != nil {
			return nil, err
		}
		if out[i].Status != models.ItemStatusReturnable {
			return nil, fmt.Errorf("item %s: %w", sn, ErrNotReturnable)
		}
		out[i].Status = tag
	}
	return out, nil
}

// MarkReturned moves every selected item from the given return-obligation
// tag to returned, stamping the return date. All-or-nothing: if any serial
// is missing or not tagged for this role, no item changes. Returns the
// updated items and the number of items moved.
func MarkReturned(items []models.Item, tag string, serials []string, now time.Time) ([]models.Item, int, error) {
	if len(serials) == 0 {
		return nil, 0, ErrNoSerialsSelected
	}
	out := append([]models.Item(nil), items...)
	for _, sn := range serials {
		i, err := findItem(out, sn)
		if err != nil {
			return nil, 0, err
		}
		if out[i].Status != tag {
			return nil, 0, fmt.Errorf("item %s is not awaiting return at this stage", sn)
		}
		out[i].Status = models.ItemStatusReturned
		t := now
		out[i].ReturnedAt = &t
	}
	return out, len(serials), nil
}

func findItem(items []models.Item, serialNo string) (int, error) {
	for i := range items {
		if items[i].SerialNo == serialNo {
			return i, nil
		}
	}
	return -1, fmt.Errorf("item with serial %s not found", serialNo)
}
