package services

import (
	"context"
	"fmt"

	"pingpe-reports/models"
	"pingpe-reports/storage"
	"pingpe-reports/utils"
)

// unknownPartner labels commission rows whose partner profile is missing.
const unknownPartner = "Unknown"

// FinanceService computes the financial report for a date range. Every call
// re-derives the full report from current store data; nothing is cached.
type FinanceService struct {
	store  storage.Store
	logger *utils.Logger
}

// NewFinanceService creates a FinanceService backed by the given store.
func NewFinanceService(store storage.Store, logger *utils.Logger) *FinanceService {
	return &FinanceService{store: store, logger: logger}
}

// Generate pulls bookings, refunds and commissions for the window and rolls
// them up. Only completed bookings count toward revenue. Refunds are scoped
// by the refund's own created_at while commissions follow the parent
// booking's created_at; that asymmetry is intentional and matches how the
// rest of the system reads these tables.
func (s *FinanceService) Generate(ctx context.Context, r models.DateRange) (*models.FinancialReport, error) {
	bookings, err := s.store.BookingsInRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("finance: fetch bookings: %w", err)
	}

	report := &models.FinancialReport{BookingsCount: len(bookings)}

	completed := 0
	typeIndex := make(map[string]int)
	for _, b := range bookings {
		if b.Status != "completed" {
			continue
		}
		completed++
		report.TotalRevenue += b.TotalPrice

		name := b.InventoryType
		if name == "" {
			name = "stay"
		}
		idx, seen := typeIndex[name]
		if !seen {
			idx = len(report.RevenueByType)
			typeIndex[name] = idx
			report.RevenueByType = append(report.RevenueByType, models.RevenueBucket{Name: name})
		}
		report.RevenueByType[idx].Value += b.TotalPrice
	}

	if completed > 0 {
		report.AvgBookingValue = report.TotalRevenue / float64(completed)
	}

	refunds, err := s.store.RefundsInRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("finance: fetch refunds: %w", err)
	}
	for _, rf := range refunds {
		report.TotalRefunds += rf.Amount
	}
	if report.TotalRevenue > 0 {
		report.RefundRate = report.TotalRefunds / report.TotalRevenue * 100
	}

	commissions, err := s.store.CommissionsForBookingRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("finance: fetch commissions: %w", err)
	}
	for _, c := range commissions {
		report.TotalCommissions += c.Amount
		if !c.Paid {
			report.UnpaidCommissions += c.Amount
		}

		partner := c.PartnerName
		if partner == "" {
			partner = unknownPartner
		}
		report.Commissions = append(report.Commissions, models.CommissionEntry{
			Partner: partner,
			Amount:  c.Amount,
			Paid:    c.Paid,
			PaidAt:  c.PaidAt,
		})
	}

	s.logger.Info("[finance] %d bookings (%d completed) — revenue %.2f, refunds %.2f, commissions %.2f",
		len(bookings), completed, report.TotalRevenue, report.TotalRefunds, report.TotalCommissions)
	return report, nil
}
