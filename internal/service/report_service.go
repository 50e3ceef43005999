package service

import (
	"time"

	"github.com/pleky/nyx-gym-admin/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService is the read-only projection layer. Reports deliberately
// look past member tombstones (Unscoped) where customer churn would
// otherwise hide money already collected or visits already made.
type ReportService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, log *zap.Logger) *ReportService {
	return &ReportService{db: db, log: log}
}

// RevenueLine is one purpose bucket of a revenue report
type RevenueLine struct {
	Purpose string `json:"purpose"`
	Total   int64  `json:"total"`
	Count   int64  `json:"count"`
}

// RevenueReport summarizes PAID payments over a period
type RevenueReport struct {
	From  time.Time     `json:"from"`
	To    time.Time     `json:"to"`
	Total int64         `json:"total"`
	Lines []RevenueLine `json:"lines"`
}

// Revenue sums PAID payments by purpose over [from, to). Payments of
// tombstoned members are included: the report reflects all money collected.
func (s *ReportService) Revenue(gymID uint, from, to time.Time) (*RevenueReport, error) {
	var lines []RevenueLine
	err := s.db.Model(&model.Payment{}).
		Select("purpose, SUM(amount) AS total, COUNT(*) AS count").
		Where("gym_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			gymID, model.PaymentStatusPaid, from, to).
		Group("purpose").
		Order("purpose").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{From: from, To: to, Lines: lines}
	for _, line := range lines {
		report.Total += line.Total
	}
	return report, nil
}

// AttendanceReport summarizes visits over a period
type AttendanceReport struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalVisits   int64     `json:"total_visits"`
	UniqueMembers int64     `json:"unique_members"`
}

// Attendance counts visits over [from, to). Visits of since-deleted
// members still count; only voided entries are excluded.
func (s *ReportService) Attendance(gymID uint, from, to time.Time) (*AttendanceReport, error) {
	report := &AttendanceReport{From: from, To: to}

	err := s.db.Model(&model.CheckIn{}).
		Where("gym_id = ? AND visited_at >= ? AND visited_at < ?", gymID, from, to).
		Count(&report.TotalVisits).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&model.CheckIn{}).
		Where("gym_id = ? AND visited_at >= ? AND visited_at < ?", gymID, from, to).
		Distinct("member_id").
		Count(&report.UniqueMembers).Error
	if err != nil {
		return nil, err
	}

	return report, nil
}

// ChurnReport counts member registrations and tombstonings over a period
type ChurnReport struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Joined  int64     `json:"joined"`
	Deleted int64     `json:"deleted"`
}

// Churn looks at all member rows including tombstoned ones; a default-scope
// query would undercount both sides of the ledger.
func (s *ReportService) Churn(gymID uint, from, to time.Time) (*ChurnReport, error) {
	report := &ChurnReport{From: from, To: to}

	err := s.db.Unscoped().Model(&model.Member{}).
		Where("gym_id = ? AND created_at >= ? AND created_at < ?", gymID, from, to).
		Count(&report.Joined).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Unscoped().Model(&model.Member{}).
		Where("gym_id = ? AND deleted_at IS NOT NULL AND deleted_at >= ? AND deleted_at < ?", gymID, from, to).
		Count(&report.Deleted).Error
	if err != nil {
		return nil, err
	}

	return report, nil
}

// ExpiringMemberships lists non-terminal memberships ending within the
// given number of days after asOf, the front desk's renewal worklist.
func (s *ReportService) ExpiringMemberships(gymID uint, asOf time.Time, withinDays int) ([]model.Membership, error) {
	until := asOf.AddDate(0, 0, withinDays)

	var memberships []model.Membership
	err := s.db.
		Preload("Member", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Plan").
		Where("gym_id = ? AND status IN ? AND end_date >= ? AND end_date < ?",
			gymID,
			[]string{model.MembershipStatusActive, model.MembershipStatusPendingRenewal},
			asOf, until).
		Order("end_date").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
