package models

import "time"

// DateRange is an inclusive reporting window. Callers must supply
// From <= To; the range is immutable for the duration of one report.
type DateRange struct {
	From time.Time
	To   time.Time
}

// LastDays returns the window covering the past n days up to now.
func LastDays(n int) DateRange {
	now := time.Now()
	return DateRange{From: now.AddDate(0, 0, -n), To: now}
}

// RevenueBucket is one inventory-type slice of completed revenue.
type RevenueBucket struct {
	Name  string
	Value float64
}

// CommissionEntry is a partner commission prepared for display/export.
// Partner falls back to "Unknown" when the profile join found nothing.
type CommissionEntry struct {
	Partner string
	Amount  float64
	Paid    bool
	PaidAt  *time.Time
}

// FinancialReport aggregates revenue, refunds and commissions for one
// DateRange. Every ratio is guarded: a zero denominator yields 0, never
// NaN or Inf.
type FinancialReport struct {
	TotalRevenue      float64
	AvgBookingValue   float64
	BookingsCount     int
	RevenueByType     []RevenueBucket
	TotalRefunds      float64
	RefundRate        float64
	TotalCommissions  float64
	UnpaidCommissions float64
	Commissions       []CommissionEntry
}

// HostPerformance is one host's rollup of completed bookings in range.
type HostPerformance struct {
	Name     string
	Revenue  float64
	Bookings int
}

// PerformanceReport ranks hosts by completed revenue for one DateRange.
// AvgRating and ActiveHosts are global snapshots, not range-scoped.
type PerformanceReport struct {
	TopHostRevenue float64
	TopHostName    string
	AvgRating      float64
	ActiveHosts    int
	TopPerformers  []HostPerformance
}
