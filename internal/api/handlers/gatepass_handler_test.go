package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"gate-pass-api-server/internal/models"
)

func TestValidateReceiverInternal(t *testing.T) {
	err := validateReceiver(models.Receiver{ServiceNo: "EMP-001234"}, false)
	assert.NoError(t, err)

	err = validateReceiver(models.Receiver{}, false)
	assert.Error(t, err)
}

func TestValidateReceiverNonMemberRequiresTriple(t *testing.T) {
	// NIC-shaped identifier forces the non-member path.
	err := validateReceiver(models.Receiver{NIC: "007354"}, false)
	assert.Error(t, err)

	err = validateReceiver(models.Receiver{NIC: "007354", Name: "A. Perera", Contact: "0712345678"}, false)
	assert.NoError(t, err)
}

func TestValidateReceiverNonMemberPlaceFlag(t *testing.T) {
	// The explicit flag alone switches the rule set, regardless of the
	// identifier shape.
	err := validateReceiver(models.Receiver{ServiceNo: "EMP-001234"}, true)
	assert.Error(t, err)

	err = validateReceiver(models.Receiver{Name: "External Co", NIC: "NSL42", Contact: "0112345678"}, true)
	assert.NoError(t, err)
}

func TestCanReassignOfficer(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		caller    string
		sender    string
		wantAllow bool
	}{
		{"sender reassigns own pass", models.RoleUser, "001234", "001234", true},
		{"other user is refused", models.RoleUser, "005678", "001234", false},
		{"executive may reassign any pass", models.RoleExecutive, "009999", "001234", true},
		{"superadmin may reassign any pass", models.RoleSuperAdmin, "000000", "001234", true},
		{"empty caller never matches", models.RoleUser, "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantAllow, canReassignOfficer(tc.role, tc.caller, tc.sender))
		})
	}
}

func TestBucketFilterPendingChainsEarlierApprovals(t *testing.T) {
	filter, err := bucketFilter(models.StageDispatch, "pending")
	require.NoError(t, err)

	conds, ok := filter["$and"].([]bson.M)
	require.True(t, ok)
	// Executive + verify approved, dispatch pending, no rejection anywhere.
	require.Len(t, conds, 4)
	assert.Equal(t,
		bson.M{"$elemMatch": bson.M{"role": models.StageExecutive, "outcome": models.OutcomeApproved}},
		conds[0]["stages"])
	assert.Equal(t,
		bson.M{"$elemMatch": bson.M{"role": models.StageDispatch, "outcome": models.OutcomePending}},
		conds[2]["stages"])
}

func TestBucketFilterRejectsUnknownBucket(t *testing.T) {
	_, err := bucketFilter(models.StageExecutive, "archived")
	assert.Error(t, err)
}

func TestBucketFilterApproved(t *testing.T) {
	filter, err := bucketFilter(models.StageVerify, "approved")
	require.NoError(t, err)
	assert.Contains(t, filter, "stages")
}
