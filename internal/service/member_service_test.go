package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleky/nyx-gym-admin/internal/model"
)

func TestCreateAssignsCodeExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	first := seedMember(t, svc, gym.ID, staff.ID, "Andi", "+6281111111111")
	assert.Equal(t, fmt.Sprintf("MBR-%04d", first.ID), first.Code)

	second := seedMember(t, svc, gym.ID, staff.ID, "Budi", "+6282222222222")
	assert.Equal(t, fmt.Sprintf("MBR-%04d", second.ID), second.Code)
	assert.NotEqual(t, first.Code, second.Code)

	// The assignment guard never overwrites an existing code.
	res := db.Model(&model.Member{}).
		Where("id = ? AND (code IS NULL OR code = '')", first.ID).
		Update("code", "MBR-9999")
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)
}

func TestCreateRejectsLiveDuplicatePhone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	seedMember(t, svc, gym.ID, staff.ID, "Andi", "+6281111111111")

	_, err := svc.Create(gym.ID, staff.ID, MemberAttrs{Name: "Impostor", Phone: "+6281111111111"})
	var dup *DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)
	assert.Zero(t, dup.RestorableID)
}

func TestCreateOffersRestoreForTombstonedPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	member := seedMember(t, svc, gym.ID, staff.ID, "Citra", "+6281234567890")
	require.NoError(t, svc.SoftDelete(gym.ID, member.ID))

	// Creating a new member with the tombstoned phone surfaces the
	// restorable row instead of a hard uniqueness failure.
	_, err := svc.Create(gym.ID, staff.ID, MemberAttrs{Name: "Citra Again", Phone: "+6281234567890"})
	var dup *DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, member.ID, dup.RestorableID)

	check, err := svc.FindOrOfferRestore(gym.ID, "+6281234567890")
	require.NoError(t, err)
	assert.Equal(t, RestoreCheckRestorable, check.Outcome)
	require.NotNil(t, check.Member)
	assert.Equal(t, member.ID, check.Member.ID)
}

func TestFindOrOfferRestoreOutcomes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	check, err := svc.FindOrOfferRestore(gym.ID, "+6289999999999")
	require.NoError(t, err)
	assert.Equal(t, RestoreCheckNone, check.Outcome)

	seedMember(t, svc, gym.ID, staff.ID, "Dewi", "+6289999999999")
	check, err = svc.FindOrOfferRestore(gym.ID, "+6289999999999")
	require.NoError(t, err)
	assert.Equal(t, RestoreCheckLiveConflict, check.Outcome)
}

func TestSoftDeleteBlockedByActiveMembership(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	memberships := NewMembershipService(db, log, 7)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	plan := seedPlan(t, db, gym.ID, "Monthly", 30, 250000)
	member := seedMember(t, members, gym.ID, staff.ID, "Eka", "+6283333333333")

	assigned, err := memberships.Assign(gym.ID, AssignInput{
		MemberID:  member.ID,
		PlanID:    plan.ID,
		StartDate: date(2026, 1, 1),
	})
	require.NoError(t, err)

	err = members.SoftDelete(gym.ID, member.ID)
	var rule *BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "member_has_active_membership", rule.Rule)
	assert.Equal(t, assigned.ID, rule.BlockingID)

	// After cancelling the membership the delete goes through.
	_, err = memberships.Cancel(gym.ID, assigned.ID)
	require.NoError(t, err)
	require.NoError(t, members.SoftDelete(gym.ID, member.ID))
}

func TestSoftDeleteBlockedByPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Fajar", "+6284444444444")

	payment, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   150000,
		Purpose:  model.PaymentPurposeRetail,
		Method:   model.PaymentMethodCash,
		Status:   model.PaymentStatusPending,
	})
	require.NoError(t, err)

	err = members.SoftDelete(gym.ID, member.ID)
	var rule *BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "member_has_pending_payment", rule.Rule)
	assert.Equal(t, payment.ID, rule.BlockingID)
}

func TestRestoreKeepsCodeAndHistory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	member := seedMember(t, svc, gym.ID, staff.ID, "Gita", "+6285555555555")
	code := member.Code

	require.NoError(t, svc.SoftDelete(gym.ID, member.ID))
	_, err := svc.Get(gym.ID, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	restored, err := svc.Restore(gym.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, code, restored.Code)
	assert.False(t, restored.DeletedAt.Valid)

	again, err := svc.Get(gym.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again.Code)
}

func TestRestoreBlockedWhenPhoneReclaimed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	member := seedMember(t, svc, gym.ID, staff.ID, "Hana", "+6286666666666")
	require.NoError(t, svc.SoftDelete(gym.ID, member.ID))

	// A new live member takes over the phone directly (the service path
	// would have offered a restore instead).
	takeover := &model.Member{
		Name: "Hana II", Phone: "+6286666666666", Code: "MBR-9001",
		Status: model.MemberStatusActive, GymID: gym.ID, CreatedByID: staff.ID,
	}
	require.NoError(t, db.Create(takeover).Error)

	_, err := svc.Restore(gym.ID, member.ID)
	var dup *DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)
}

func TestIdentityUniquenessScopedPerGym(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gymA := seedGym(t, db, "Nyx North")
	gymB := seedGym(t, db, "Nyx South")
	staffA := seedStaff(t, db, gymA.ID, "desk@north.test")
	staffB := seedStaff(t, db, gymB.ID, "desk@south.test")

	// A live member at gym B never blocks the same phone at gym A.
	seedMember(t, svc, gymB.ID, staffB.ID, "South Andi", "+6281234567890")
	northern := seedMember(t, svc, gymA.ID, staffA.ID, "North Andi", "+6281234567890")
	assert.NotZero(t, northern.Code)

	// Nor does a tombstone at gym B: the restore probe answers none and
	// creation must agree with it instead of surfacing gym B's row id.
	buried := seedMember(t, svc, gymB.ID, staffB.ID, "South Budi", "+6285550000001")
	require.NoError(t, svc.SoftDelete(gymB.ID, buried.ID))

	check, err := svc.FindOrOfferRestore(gymA.ID, "+6285550000001")
	require.NoError(t, err)
	assert.Equal(t, RestoreCheckNone, check.Outcome)

	created, err := svc.Create(gymA.ID, staffA.ID, MemberAttrs{Name: "North Budi", Phone: "+6285550000001"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	// Within gym B the tombstone is still offered for restore.
	_, err = svc.Create(gymB.ID, staffB.ID, MemberAttrs{Name: "South Budi II", Phone: "+6285550000001"})
	var dup *DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, buried.ID, dup.RestorableID)
}

func TestCreateEnforcesTenantOfActor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gymA := seedGym(t, db, "Nyx North")
	gymB := seedGym(t, db, "Nyx South")
	staffB := seedStaff(t, db, gymB.ID, "desk@south.test")

	_, err := svc.Create(gymA.ID, staffB.ID, MemberAttrs{Name: "Ika", Phone: "+6287777777777"})
	var isolation *TenantIsolationError
	require.ErrorAs(t, err, &isolation)
	assert.Equal(t, "staff", isolation.Entity)
}

func TestCreateRejectsUnknownGender(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMemberService(db, testLogger())
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")

	_, err := svc.Create(gym.ID, staff.ID, MemberAttrs{Name: "X", Phone: "+6288888888888", Gender: "Z"})
	var enum *InvalidEnumError
	require.ErrorAs(t, err, &enum)
	assert.Equal(t, "gender", enum.Field)
}
