package models

import "time"

// Booking is one reservation row from the bookings table. TotalPrice and
// InventoryType arrive COALESCE'd from storage: a NULL price reads as 0 and a
// NULL inventory type reads as "".
type Booking struct {
	ID            string
	Status        string
	TotalPrice    float64
	InventoryType string
	PropertyID    string
	CreatedAt     time.Time
}

// Property is a bookable stay. Guests is the maximum occupancy.
type Property struct {
	ID            string
	HostID        string
	Title         string
	City          string
	Country       string
	Guests        int
	PricePerNight float64
	Images        []string
	Rating        float64
	ReviewCount   int
	IsActive      bool
}

// Experience is a bookable tour or activity, priced per person.
type Experience struct {
	ID          string
	Title       string
	Location    string
	MaxGuests   int
	Price       float64
	Images      []string
	Rating      float64
	ReviewCount int
	IsActive    bool
}

// TransportRoute is a bookable transfer between two cities, priced per seat.
type TransportRoute struct {
	ID       string
	Title    string
	FromCity string
	ToCity   string
	Seats    int
	Price    float64
	Images   []string
	IsActive bool
}

// HolidayPackage is a bundled multi-day itinerary, priced per package.
type HolidayPackage struct {
	ID          string
	Title       string
	Destination string
	MaxGuests   int
	Price       float64
	Images      []string
	Rating      float64
	ReviewCount int
	IsActive    bool
}

// Refund is a processed refund row. CreatedAt is the refund's own timestamp,
// not the parent booking's.
type Refund struct {
	ID        string
	BookingID string
	Amount    float64
	CreatedAt time.Time
}

// PartnerCommission is a commission owed to a partner for one booking,
// joined to the partner's profile for display. PartnerName is "" when the
// profile row is missing; PaidAt is nil while the commission is unpaid.
type PartnerCommission struct {
	PartnerName string
	Amount      float64
	Paid        bool
	PaidAt      *time.Time
}

// HostBooking is the slim join row the performance report works from:
// one completed booking attributed to the host of its property.
type HostBooking struct {
	HostID     string
	TotalPrice float64
}
