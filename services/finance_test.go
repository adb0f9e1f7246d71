package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"pingpe-reports/models"
)

func testRange() models.DateRange { return models.LastDays(30) }

func TestFinanceZeroDivisionSafety(t *testing.T) {
	store := newFakeStore()
	store.bookings = []*models.Booking{
		{ID: "b1", Status: "pending", TotalPrice: 100},
		{ID: "b2", Status: "cancelled", TotalPrice: 50},
	}
	store.refunds = []*models.Refund{{ID: "r1", Amount: 25}}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.AvgBookingValue != 0 {
		t.Errorf("AvgBookingValue: got %v, want 0", report.AvgBookingValue)
	}
	if report.RefundRate != 0 {
		t.Errorf("RefundRate: got %v, want 0", report.RefundRate)
	}
	for _, v := range []float64{report.AvgBookingValue, report.RefundRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("report contains NaN/Inf: %v", v)
		}
	}
	if report.BookingsCount != 2 {
		t.Errorf("BookingsCount: got %d, want 2", report.BookingsCount)
	}
}

func TestFinanceCompletedOnlyRevenue(t *testing.T) {
	store := newFakeStore()
	store.bookings = []*models.Booking{
		{ID: "b1", Status: "completed", TotalPrice: 100},
		{ID: "b2", Status: "pending", TotalPrice: 999},
		{ID: "b3", Status: "completed", TotalPrice: 50},
	}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.TotalRevenue != 150 {
		t.Errorf("TotalRevenue: got %.2f, want 150", report.TotalRevenue)
	}
	if report.AvgBookingValue != 75 {
		t.Errorf("AvgBookingValue: got %.2f, want 75", report.AvgBookingValue)
	}
}

func TestFinanceRevenueGrouping(t *testing.T) {
	store := newFakeStore()
	store.bookings = []*models.Booking{
		{ID: "b1", Status: "completed", TotalPrice: 100, InventoryType: "stay"},
		{ID: "b2", Status: "completed", TotalPrice: 50, InventoryType: "stay"},
		{ID: "b3", Status: "completed", TotalPrice: 200, InventoryType: "safari"},
	}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.TotalRevenue != 350 {
		t.Errorf("TotalRevenue: got %.2f, want 350", report.TotalRevenue)
	}
	want := []models.RevenueBucket{{Name: "stay", Value: 150}, {Name: "safari", Value: 200}}
	if len(report.RevenueByType) != len(want) {
		t.Fatalf("RevenueByType len: got %d, want %d", len(report.RevenueByType), len(want))
	}
	for i, bucket := range want {
		if report.RevenueByType[i] != bucket {
			t.Errorf("RevenueByType[%d]: got %+v, want %+v", i, report.RevenueByType[i], bucket)
		}
	}
}

func TestFinanceDefaultInventoryBucket(t *testing.T) {
	store := newFakeStore()
	store.bookings = []*models.Booking{
		{ID: "b1", Status: "completed", TotalPrice: 80},
	}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(report.RevenueByType) != 1 || report.RevenueByType[0].Name != "stay" {
		t.Fatalf("expected single default bucket %q, got %+v", "stay", report.RevenueByType)
	}
}

func TestFinanceRefundRate(t *testing.T) {
	store := newFakeStore()
	store.bookings = []*models.Booking{
		{ID: "b1", Status: "completed", TotalPrice: 200},
	}
	store.refunds = []*models.Refund{
		{ID: "r1", Amount: 30},
		{ID: "r2", Amount: 20},
	}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.TotalRefunds != 50 {
		t.Errorf("TotalRefunds: got %.2f, want 50", report.TotalRefunds)
	}
	if report.RefundRate != 25 {
		t.Errorf("RefundRate: got %.2f, want 25", report.RefundRate)
	}
}

func TestFinanceCommissions(t *testing.T) {
	store := newFakeStore()
	store.commissions = []*models.PartnerCommission{
		{PartnerName: "Kabalebo Tours", Amount: 40, Paid: true},
		{PartnerName: "", Amount: 10, Paid: false},
		{PartnerName: "Guianas Travel", Amount: 15, Paid: false},
	}

	svc := NewFinanceService(store, newTestLogger())
	report, err := svc.Generate(context.Background(), testRange())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.TotalCommissions != 65 {
		t.Errorf("TotalCommissions: got %.2f, want 65", report.TotalCommissions)
	}
	if report.UnpaidCommissions != 25 {
		t.Errorf("UnpaidCommissions: got %.2f, want 25", report.UnpaidCommissions)
	}
	if len(report.Commissions) != 3 {
		t.Fatalf("Commissions len: got %d, want 3", len(report.Commissions))
	}
	if report.Commissions[1].Partner != "Unknown" {
		t.Errorf("missing partner name: got %q, want Unknown", report.Commissions[1].Partner)
	}
}

func TestFinancePropagatesSourceFailure(t *testing.T) {
	store := newFakeStore()
	store.failing["BookingsInRange"] = errors.New("connection refused")

	svc := NewFinanceService(store, newTestLogger())
	if _, err := svc.Generate(context.Background(), testRange()); err == nil {
		t.Fatal("expected error when bookings fetch fails")
	}
}
