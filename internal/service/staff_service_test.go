package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleky/nyx-gym-admin/internal/model"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaffService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")

	staff, err := svc.Register(gym.ID, StaffAttrs{
		Name:     "Front Desk",
		Email:    "desk@nyx.test",
		Password: "s3cret-pass",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", staff.Password)

	authed, err := svc.Authenticate("desk@nyx.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, authed.ID)

	// Unknown email and wrong password are indistinguishable.
	_, err = svc.Authenticate("nobody@nyx.test", "s3cret-pass")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Authenticate("desk@nyx.test", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterRejectsDuplicateEmailAndBadRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaffService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")

	_, err := svc.Register(gym.ID, StaffAttrs{
		Name: "Front Desk", Email: "desk@nyx.test", Password: "pw", Role: model.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Register(gym.ID, StaffAttrs{
		Name: "Other Desk", Email: "desk@nyx.test", Password: "pw", Role: model.RoleStaff,
	})
	var dup *DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	_, err = svc.Register(gym.ID, StaffAttrs{
		Name: "X", Email: "x@nyx.test", Password: "pw", Role: "JANITOR",
	})
	var enum *InvalidEnumError
	require.ErrorAs(t, err, &enum)
	assert.Equal(t, "role", enum.Field)
}

func TestSoftDeletedStaffCannotAct(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	svc := NewStaffService(db, log)
	members := NewMemberService(db, log)
	gym := seedGym(t, db, "Nyx Central")

	staff, err := svc.Register(gym.ID, StaffAttrs{
		Name: "Front Desk", Email: "desk@nyx.test", Password: "pw", Role: model.RoleStaff,
	})
	require.NoError(t, err)

	member := seedMember(t, members, gym.ID, staff.ID, "Andi", "+6281111111111")

	require.NoError(t, svc.SoftDelete(gym.ID, staff.ID))

	// The tombstoned account can no longer create members.
	_, err = members.Create(gym.ID, staff.ID, MemberAttrs{Name: "Budi", Phone: "+6282222222222"})
	assert.ErrorIs(t, err, ErrNotFound)

	// But the audit trail on existing members survives.
	kept, err := members.Get(gym.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, kept.CreatedByID)

	listed, err := svc.List(gym.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestVerifyActorCrossTenant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaffService(db, testLogger())
	gymA := seedGym(t, db, "Nyx North")
	gymB := seedGym(t, db, "Nyx South")
	staffB := seedStaff(t, db, gymB.ID, "desk@south.test")

	err := svc.VerifyActor(gymA.ID, staffB.ID)
	var isolation *TenantIsolationError
	require.ErrorAs(t, err, &isolation)
	assert.Equal(t, "staff", isolation.Entity)
}
