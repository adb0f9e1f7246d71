package storage

import (
	"context"

	"pingpe-reports/models"
)

// SearchFilter is the shared predicate the category queries apply:
// only active rows, case-insensitive location substring when Location is
// set, minimum capacity when Guests > 0.
type SearchFilter struct {
	Location string
	Guests   int
}

// Store is the data-access dependency injected into every service. It is the
// single boundary to the hosted relational store, so services stay testable
// against a fake.
type Store interface {
	// Category search queries. Each returns rows in the source's own
	// insertion order.
	SearchProperties(ctx context.Context, f SearchFilter) ([]*models.Property, error)
	SearchExperiences(ctx context.Context, f SearchFilter) ([]*models.Experience, error)
	SearchTransportRoutes(ctx context.Context, f SearchFilter) ([]*models.TransportRoute, error)
	SearchHolidayPackages(ctx context.Context, f SearchFilter) ([]*models.HolidayPackage, error)

	// Financial report sources. Bookings and refunds filter on their own
	// created_at; commissions filter on the parent booking's created_at.
	BookingsInRange(ctx context.Context, r models.DateRange) ([]*models.Booking, error)
	RefundsInRange(ctx context.Context, r models.DateRange) ([]*models.Refund, error)
	CommissionsForBookingRange(ctx context.Context, r models.DateRange) ([]*models.PartnerCommission, error)

	// Performance report sources. ProfileNamesByIDs must resolve the whole
	// id set in one round trip. AverageReviewRating and ActiveHostCount are
	// global snapshots.
	CompletedBookingsWithHost(ctx context.Context, r models.DateRange) ([]*models.HostBooking, error)
	ProfileNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	AverageReviewRating(ctx context.Context) (float64, error)
	ActiveHostCount(ctx context.Context) (int, error)

	Close() error
}
