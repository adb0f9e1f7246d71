package services

import (
	"context"
	"sync"
	"time"

	"pingpe-reports/models"
	"pingpe-reports/storage"
)

// fakeStore is an in-memory storage.Store with per-method call counters,
// per-category failure injection and response delays, so tests can assert
// query counts, partial-failure containment and arrival-order independence.
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	properties   []*models.Property
	experiences  []*models.Experience
	transport    []*models.TransportRoute
	packages     []*models.HolidayPackage
	bookings     []*models.Booking
	refunds      []*models.Refund
	commissions  []*models.PartnerCommission
	hostBookings []*models.HostBooking
	profiles     map[string]string
	avgRating    float64
	activeHosts  int

	failing map[string]error
	delays  map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		calls:    make(map[string]int),
		profiles: make(map[string]string),
		failing:  make(map[string]error),
		delays:   make(map[string]time.Duration),
	}
}

func (f *fakeStore) enter(method string) error {
	f.mu.Lock()
	f.calls[method]++
	delay := f.delays[method]
	err := f.failing[method]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeStore) SearchProperties(ctx context.Context, _ storage.SearchFilter) ([]*models.Property, error) {
	if err := f.enter("SearchProperties"); err != nil {
		return nil, err
	}
	return f.properties, nil
}

func (f *fakeStore) SearchExperiences(ctx context.Context, _ storage.SearchFilter) ([]*models.Experience, error) {
	if err := f.enter("SearchExperiences"); err != nil {
		return nil, err
	}
	return f.experiences, nil
}

func (f *fakeStore) SearchTransportRoutes(ctx context.Context, _ storage.SearchFilter) ([]*models.TransportRoute, error) {
	if err := f.enter("SearchTransportRoutes"); err != nil {
		return nil, err
	}
	return f.transport, nil
}

func (f *fakeStore) SearchHolidayPackages(ctx context.Context, _ storage.SearchFilter) ([]*models.HolidayPackage, error) {
	if err := f.enter("SearchHolidayPackages"); err != nil {
		return nil, err
	}
	return f.packages, nil
}

func (f *fakeStore) BookingsInRange(ctx context.Context, _ models.DateRange) ([]*models.Booking, error) {
	if err := f.enter("BookingsInRange"); err != nil {
		return nil, err
	}
	return f.bookings, nil
}

func (f *fakeStore) RefundsInRange(ctx context.Context, _ models.DateRange) ([]*models.Refund, error) {
	if err := f.enter("RefundsInRange"); err != nil {
		return nil, err
	}
	return f.refunds, nil
}

func (f *fakeStore) CommissionsForBookingRange(ctx context.Context, _ models.DateRange) ([]*models.PartnerCommission, error) {
	if err := f.enter("CommissionsForBookingRange"); err != nil {
		return nil, err
	}
	return f.commissions, nil
}

func (f *fakeStore) CompletedBookingsWithHost(ctx context.Context, _ models.DateRange) ([]*models.HostBooking, error) {
	if err := f.enter("CompletedBookingsWithHost"); err != nil {
		return nil, err
	}
	return f.hostBookings, nil
}

func (f *fakeStore) ProfileNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if err := f.enter("ProfileNamesByIDs"); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := f.profiles[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (f *fakeStore) AverageReviewRating(ctx context.Context) (float64, error) {
	if err := f.enter("AverageReviewRating"); err != nil {
		return 0, err
	}
	return f.avgRating, nil
}

func (f *fakeStore) ActiveHostCount(ctx context.Context) (int, error) {
	if err := f.enter("ActiveHostCount"); err != nil {
		return 0, err
	}
	return f.activeHosts, nil
}

func (f *fakeStore) Close() error { return nil }
