package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleky/nyx-gym-admin/internal/model"
)

func TestRecordValidatesEnums(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Andi", "+6281111111111")

	var enum *InvalidEnumError

	_, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID, Amount: 1000,
		Purpose: "LOTTERY", Method: model.PaymentMethodCash, Status: model.PaymentStatusPending,
	})
	require.ErrorAs(t, err, &enum)
	assert.Equal(t, "purpose", enum.Field)

	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID, Amount: 1000,
		Purpose: model.PaymentPurposeRetail, Method: "BARTER", Status: model.PaymentStatusPending,
	})
	require.ErrorAs(t, err, &enum)
	assert.Equal(t, "method", enum.Field)

	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID, Amount: 1000,
		Purpose: model.PaymentPurposeRetail, Method: model.PaymentMethodCash, Status: "MAYBE",
	})
	require.ErrorAs(t, err, &enum)
	assert.Equal(t, "status", enum.Field)

	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID, Amount: -1,
		Purpose: model.PaymentPurposeRetail, Method: model.PaymentMethodCash, Status: model.PaymentStatusPending,
	})
	var rule *BusinessRuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "payment_amount_non_negative", rule.Rule)

	// Nothing landed in the ledger.
	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransitionStatusHappyPaths(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Budi", "+6282222222222")

	payment, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   250000,
		Purpose:  model.PaymentPurposeMembership,
		Method:   model.PaymentMethodBankTransfer,
		Status:   model.PaymentStatusPending,
	})
	require.NoError(t, err)

	paid, err := payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, paid.Status)
	assert.Equal(t, int64(250000), paid.Amount)

	refunded, err := payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.Status)
	assert.Equal(t, int64(250000), refunded.Amount)
}

func TestTransitionStatusRejectsIllegalMoves(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Citra", "+6283333333333")

	payment, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   250000,
		Purpose:  model.PaymentPurposeMembership,
		Method:   model.PaymentMethodCash,
		Status:   model.PaymentStatusPending,
	})
	require.NoError(t, err)

	_, err = payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusPaid)
	require.NoError(t, err)

	// PAID may not go back to PENDING, and the row stays untouched.
	var transition *InvalidTransitionError
	_, err = payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusPending)
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, model.PaymentStatusPaid, transition.From)

	reloaded, err := payments.Get(gym.ID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, reloaded.Status)
	assert.Equal(t, int64(250000), reloaded.Amount)

	// REFUNDED is terminal.
	_, err = payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusRefunded)
	require.NoError(t, err)
	_, err = payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusPaid)
	require.ErrorAs(t, err, &transition)
}

func TestCancelPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Dewi", "+6284444444444")

	payment, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   50000,
		Purpose:  model.PaymentPurposeRetail,
		Method:   model.PaymentMethodCash,
		Status:   model.PaymentStatusPending,
	})
	require.NoError(t, err)

	cancelled, err := payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, cancelled.Status)

	var transition *InvalidTransitionError
	_, err = payments.TransitionStatus(gym.ID, payment.ID, model.PaymentStatusPaid)
	require.ErrorAs(t, err, &transition)
}

func TestLedgerSurvivesMemberDeletion(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	member := seedMember(t, members, gym.ID, staff.ID, "Eka", "+6285555555555")

	payment, err := payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   250000,
		Purpose:  model.PaymentPurposeMembership,
		Method:   model.PaymentMethodBankTransfer,
		Status:   model.PaymentStatusPaid,
	})
	require.NoError(t, err)

	require.NoError(t, members.SoftDelete(gym.ID, member.ID))

	// The row is still readable and listable.
	reloaded, err := payments.Get(gym.ID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, reloaded.Status)

	listed, err := payments.ListByMember(gym.ID, member.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Late settlements against the tombstoned member still land.
	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   10000,
		Purpose:  model.PaymentPurposeRetail,
		Method:   model.PaymentMethodCash,
		Status:   model.PaymentStatusPaid,
	})
	require.NoError(t, err)

	listed, err = payments.ListByMember(gym.ID, member.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestRecordVerifiesMembershipLinkage(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	memberships := NewMembershipService(db, log, 7)
	payments := NewPaymentService(db, log)
	gym := seedGym(t, db, "Nyx Central")
	staff := seedStaff(t, db, gym.ID, "desk@nyx.test")
	plan := seedPlan(t, db, gym.ID, "Monthly", 30, 250000)
	memberA := seedMember(t, members, gym.ID, staff.ID, "Fajar", "+6286666666666")
	memberB := seedMember(t, members, gym.ID, staff.ID, "Gita", "+6287777777777")

	m, err := memberships.Assign(gym.ID, AssignInput{
		MemberID:  memberA.ID,
		PlanID:    plan.ID,
		StartDate: date(2026, 1, 1),
	})
	require.NoError(t, err)

	// Linking member B's payment to member A's membership is refused.
	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID:     memberB.ID,
		MembershipID: &m.ID,
		Amount:       250000,
		Purpose:      model.PaymentPurposeMembership,
		Method:       model.PaymentMethodCash,
		Status:       model.PaymentStatusPending,
	})
	var isolation *TenantIsolationError
	require.ErrorAs(t, err, &isolation)
	assert.Equal(t, "membership", isolation.Entity)

	// The right member works.
	_, err = payments.Record(gym.ID, PaymentAttrs{
		MemberID:     memberA.ID,
		MembershipID: &m.ID,
		Amount:       250000,
		Purpose:      model.PaymentPurposeMembership,
		Method:       model.PaymentMethodCash,
		Status:       model.PaymentStatusPaid,
	})
	require.NoError(t, err)
}

func TestPaymentCrossTenant(t *testing.T) {
	db := setupTestDB(t)
	log := testLogger()
	members := NewMemberService(db, log)
	payments := NewPaymentService(db, log)
	gymA := seedGym(t, db, "Nyx North")
	gymB := seedGym(t, db, "Nyx South")
	staffA := seedStaff(t, db, gymA.ID, "desk@north.test")
	member := seedMember(t, members, gymA.ID, staffA.ID, "Hana", "+6288888888888")

	payment, err := payments.Record(gymA.ID, PaymentAttrs{
		MemberID: member.ID,
		Amount:   250000,
		Purpose:  model.PaymentPurposeMembership,
		Method:   model.PaymentMethodCash,
		Status:   model.PaymentStatusPending,
	})
	require.NoError(t, err)

	var isolation *TenantIsolationError

	_, err = payments.Get(gymB.ID, payment.ID)
	require.ErrorAs(t, err, &isolation)

	_, err = payments.TransitionStatus(gymB.ID, payment.ID, model.PaymentStatusPaid)
	require.ErrorAs(t, err, &isolation)
}
