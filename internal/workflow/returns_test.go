package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate-pass-api-server/internal/models"
)

func sampleItems() []models.Item {
	return []models.Item{
		{Name: "Fluke 87V", SerialNo: "SN-100", Returnable: true, Status: models.ItemStatusReturnToPetrol},
		{Name: "Crimping tool", SerialNo: "SN-101", Returnable: true, Status: models.ItemStatusReturnToPetrol},
		{Name: "Ladder", SerialNo: "SN-102", Returnable: true, Status: models.ItemStatusReturnToExec},
		{Name: "Cable drum", SerialNo: "SN-103", Returnable: false, Status: models.ItemStatusNotReturnable},
	}
}

func TestReturnTagForRole(t *testing.T) {
	tag, ok := ReturnTagForRole(models.RoleDispatch)
	require.True(t, ok)
	assert.Equal(t, "return to Petrol Leader", tag)

	tag, ok = ReturnTagForRole(models.RoleExecutive)
	require.True(t, ok)
	assert.Equal(t, "return to Executive Officer", tag)

	_, ok = ReturnTagForRole(models.RoleVerify)
	assert.False(t, ok)
}

func TestAwaitingReturnFiltersByTag(t *testing.T) {
	got := AwaitingReturn(sampleItems(), models.ItemStatusReturnToPetrol)
	require.Len(t, got, 2)
	assert.Equal(t, "SN-100", got[0].SerialNo)
	assert.Equal(t, "SN-101", got[1].SerialNo)
}

func TestMarkReturnedSingleItem(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	items, n, err := MarkReturned(sampleItems(), models.ItemStatusReturnToPetrol, []string{"SN-100"}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.ItemStatusReturned, items[0].Status)
	require.NotNil(t, items[0].ReturnedAt)
	assert.Equal(t, now, *items[0].ReturnedAt)
	// Unselected items keep their tag.
	assert.Equal(t, models.ItemStatusReturnToPetrol, items[1].Status)
}

func TestMarkReturnedAllOrNothing(t *testing.T) {
	orig := sampleItems()
	// SN-102 is tagged for the executive officer, not the petrol leader.
	items, n, err := MarkReturned(orig, models.ItemStatusReturnToPetrol, []string{"SN-100", "SN-102"}, time.Now())
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Zero(t, n)
	assert.Equal(t, models.ItemStatusReturnToPetrol, orig[0].Status)
}

func TestMarkReturnedUnknownSerial(t *testing.T) {
	_, _, err := MarkReturned(sampleItems(), models.ItemStatusReturnToPetrol, []string{"SN-999"}, time.Now())
	assert.Error(t, err)
}

func TestMarkReturnedRequiresSelection(t *testing.T) {
	_, _, err := MarkReturned(sampleItems(), models.ItemStatusReturnToPetrol, nil, time.Now())
	assert.ErrorIs(t, err, ErrNoSerialsSelected)
}

func TestMarkReturnedIsOneDirectional(t *testing.T) {
	now := time.Now()
	items, _, err := MarkReturned(sampleItems(), models.ItemStatusReturnToPetrol, []string{"SN-100"}, now)
	require.NoError(t, err)
	// A second return of the same serial must fail: status is no longer the tag.
	_, _, err = MarkReturned(items, models.ItemStatusReturnToPetrol, []string{"SN-100"}, now)
	assert.Error(t, err)
}

func TestAssignReturnObligation(t *testing.T) {
	items := []models.Item{
		{SerialNo: "SN-200", Returnable: true, Status: models.ItemStatusReturnable},
		{SerialNo: "SN-201", Returnable: false, Status: models.ItemStatusNotReturnable},
	}
	got, err := AssignReturnObligation(items, []string{"SN-200"}, models.ItemStatusReturnToPetrol)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusReturnToPetrol, got[0].Status)

	// Non-returnable items cannot be tagged.
	_, err = AssignReturnObligation(items, []string{"SN-201"}, models.ItemStatusReturnToPetrol)
	assert.ErrorIs(t, err, ErrNotReturnable)
}

func TestSeedItemStatus(t *testing.T) {
	assert.Equal(t, models.ItemStatusReturnable, SeedItemStatus(true))
	assert.Equal(t, models.ItemStatusNotReturnable, SeedItemStatus(false))
}
