package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pleky/nyx-gym-admin/internal/model"
)

var testDBCounter uint64

func setupTestDB(t *testing.T) *gorm.DB {
	// A plain ":memory:" database exists per connection, so pooled
	// connections opened later (e.g. by transactions) would not see the
	// migrated schema. Use a uniquely named shared-cache in-memory
	// database instead, keeping tests isolated from each other.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddUint64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Gym{},
		&model.StaffUser{},
		&model.Member{},
		&model.MembershipPlan{},
		&model.Membership{},
		&model.Payment{},
		&model.CheckIn{},
	)
	require.NoError(t, err)
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func seedGym(t *testing.T, db *gorm.DB, name string) *model.Gym {
	t.Helper()
	gym := &model.Gym{Name: name, Address: "Jl. Test 1", Phone: "+620000000000"}
	require.NoError(t, db.Create(gym).Error)
	return gym
}

func seedStaff(t *testing.T, db *gorm.DB, gymID uint, email string) *model.StaffUser {
	t.Helper()
	staff := &model.StaffUser{
		Name:   "Front Desk",
		Email:  email,
		Role:   model.RoleStaff,
		Status: model.StaffStatusActive,
		GymID:  gymID,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func seedPlan(t *testing.T, db *gorm.DB, gymID uint, name string, durationDays int, price int64) *model.MembershipPlan {
	t.Helper()
	plan := &model.MembershipPlan{
		Name:         name,
		DurationDays: durationDays,
		Price:        price,
		Active:       true,
		GymID:        gymID,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func seedMember(t *testing.T, svc *MemberService, gymID, staffID uint, name, phone string) *model.Member {
	t.Helper()
	member, err := svc.Create(gymID, staffID, MemberAttrs{Name: name, Phone: phone})
	require.NoError(t, err)
	return member
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
