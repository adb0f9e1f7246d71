package services

import (
	"context"
	"fmt"
	"sort"

	"pingpe-reports/models"
	"pingpe-reports/storage"
	"pingpe-reports/utils"
)

// topPerformerLimit caps the ranked host list.
const topPerformerLimit = 10

// PerformanceService computes the host performance report for a date range.
type PerformanceService struct {
	store  storage.Store
	logger *utils.Logger
}

// NewPerformanceService creates a PerformanceService backed by the given store.
func NewPerformanceService(store storage.Store, logger *utils.Logger) *PerformanceService {
	return &PerformanceService{store: store, logger: logger}
}

// Generate aggregates completed bookings per host and ranks hosts by
// revenue, descending, stable on ties, truncated to the top 10. Host names
// resolve through a single batch profile lookup regardless of how many
// distinct hosts appear. AvgRating and ActiveHosts are global snapshots and
// ignore the window.
func (s *PerformanceService) Generate(ctx context.Context, r models.DateRange) (*models.PerformanceReport, error) {
	bookings, err := s.store.CompletedBookingsWithHost(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("performance: fetch completed bookings: %w", err)
	}

	// Roll up per host in first-seen order so revenue ties keep a
	// deterministic ranking.
	seen := utils.NewStringSet()
	var hostIDs []string
	totals := make(map[string]*models.HostPerformance)
	for _, b := range bookings {
		if seen.Add(b.HostID) {
			hostIDs = append(hostIDs, b.HostID)
			totals[b.HostID] = &models.HostPerformance{}
		}
		totals[b.HostID].Revenue += b.TotalPrice
		totals[b.HostID].Bookings++
	}

	names, err := s.store.ProfileNamesByIDs(ctx, hostIDs)
	if err != nil {
		return nil, fmt.Errorf("performance: resolve host names: %w", err)
	}

	performers := make([]models.HostPerformance, 0, len(hostIDs))
	for _, id := range hostIDs {
		entry := *totals[id]
		entry.Name = names[id]
		if entry.Name == "" {
			entry.Name = unknownPartner
		}
		performers = append(performers, entry)
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].Revenue > performers[j].Revenue
	})
	if len(performers) > topPerformerLimit {
		performers = performers[:topPerformerLimit]
	}

	report := &models.PerformanceReport{
		TopHostName:   "N/A",
		TopPerformers: performers,
	}
	if len(performers) > 0 {
		report.TopHostName = performers[0].Name
		report.TopHostRevenue = performers[0].Revenue
	}

	if report.AvgRating, err = s.store.AverageReviewRating(ctx); err != nil {
		return nil, fmt.Errorf("performance: average rating: %w", err)
	}
	if report.ActiveHosts, err = s.store.ActiveHostCount(ctx); err != nil {
		return nil, fmt.Errorf("performance: active host count: %w", err)
	}

	s.logger.Info("[performance] %d completed bookings across %d hosts — top host %q (%.2f)",
		len(bookings), len(hostIDs), report.TopHostName, report.TopHostRevenue)
	return report, nil
}
