package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pingpe-reports/models"
	"pingpe-reports/utils"
)

// PostgresStore implements Store against PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id        TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS properties (
			id              TEXT PRIMARY KEY,
			host_id         TEXT NOT NULL,
			title           TEXT NOT NULL,
			city            TEXT NOT NULL DEFAULT '',
			country         TEXT NOT NULL DEFAULT '',
			guests          INT  NOT NULL DEFAULT 0,
			price_per_night NUMERIC(10,2) NOT NULL DEFAULT 0,
			images          TEXT[] NOT NULL DEFAULT '{}',
			rating          NUMERIC(4,2) NOT NULL DEFAULT 0,
			review_count    INT  NOT NULL DEFAULT 0,
			is_active       BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS experiences (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			location     TEXT NOT NULL DEFAULT '',
			max_guests   INT  NOT NULL DEFAULT 0,
			price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			images       TEXT[] NOT NULL DEFAULT '{}',
			rating       NUMERIC(4,2) NOT NULL DEFAULT 0,
			review_count INT  NOT NULL DEFAULT 0,
			is_active    BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS transport_routes (
			id        TEXT PRIMARY KEY,
			title     TEXT NOT NULL,
			from_city TEXT NOT NULL DEFAULT '',
			to_city   TEXT NOT NULL DEFAULT '',
			seats     INT  NOT NULL DEFAULT 0,
			price     NUMERIC(10,2) NOT NULL DEFAULT 0,
			images    TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS holiday_packages (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			destination  TEXT NOT NULL DEFAULT '',
			max_guests   INT  NOT NULL DEFAULT 0,
			price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			images       TEXT[] NOT NULL DEFAULT '{}',
			rating       NUMERIC(4,2) NOT NULL DEFAULT 0,
			review_count INT  NOT NULL DEFAULT 0,
			is_active    BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS bookings (
			id             TEXT PRIMARY KEY,
			status         TEXT NOT NULL DEFAULT 'pending',
			total_price    NUMERIC(10,2),
			inventory_type TEXT,
			property_id    TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS refunds (
			id         TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			amount     NUMERIC(10,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS partner_commissions (
			id         TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			partner_id TEXT,
			amount     NUMERIC(10,2),
			paid       BOOLEAN NOT NULL DEFAULT FALSE,
			paid_at    TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS reviews (
			id     TEXT PRIMARY KEY,
			rating NUMERIC(4,2) NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at);
		CREATE INDEX IF NOT EXISTS idx_bookings_status     ON bookings(status);
		CREATE INDEX IF NOT EXISTS idx_refunds_created_at  ON refunds(created_at);
		CREATE INDEX IF NOT EXISTS idx_properties_city     ON properties(city);
		CREATE INDEX IF NOT EXISTS idx_properties_host     ON properties(host_id);
	`)
	return err
}

// SearchProperties returns active stays matching the filter.
func (ps *PostgresStore) SearchProperties(ctx context.Context, f SearchFilter) ([]*models.Property, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, host_id, title, city, country, guests, price_per_night,
		       images, rating, review_count
		FROM properties
		WHERE is_active
		  AND ($1 = '' OR city ILIKE '%' || $1 || '%' OR country ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR guests >= $2)
		ORDER BY id
	`, f.Location, f.Guests)
	if err != nil {
		return nil, fmt.Errorf("postgres: search properties: %w", err)
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p := &models.Property{IsActive: true}
		if err := rows.Scan(
			&p.ID, &p.HostID, &p.Title, &p.City, &p.Country, &p.Guests,
			&p.PricePerNight, pq.Array(&p.Images), &p.Rating, &p.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SearchExperiences returns active experiences matching the filter.
func (ps *PostgresStore) SearchExperiences(ctx context.Context, f SearchFilter) ([]*models.Experience, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, title, location, max_guests, price, images, rating, review_count
		FROM experiences
		WHERE is_active
		  AND ($1 = '' OR location ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR max_guests >= $2)
		ORDER BY id
	`, f.Location, f.Guests)
	if err != nil {
		return nil, fmt.Errorf("postgres: search experiences: %w", err)
	}
	defer rows.Close()

	var out []*models.Experience
	for rows.Next() {
		e := &models.Experience{IsActive: true}
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Location, &e.MaxGuests, &e.Price,
			pq.Array(&e.Images), &e.Rating, &e.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SearchTransportRoutes returns active routes matching the filter. The
// location predicate matches either endpoint of the route.
func (ps *PostgresStore) SearchTransportRoutes(ctx context.Context, f SearchFilter) ([]*models.TransportRoute, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, title, from_city, to_city, seats, price, images
		FROM transport_routes
		WHERE is_active
		  AND ($1 = '' OR from_city ILIKE '%' || $1 || '%' OR to_city ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR seats >= $2)
		ORDER BY id
	`, f.Location, f.Guests)
	if err != nil {
		return nil, fmt.Errorf("postgres: search transport routes: %w", err)
	}
	defer rows.Close()

	var out []*models.TransportRoute
	for rows.Next() {
		t := &models.TransportRoute{IsActive: true}
		if err := rows.Scan(
			&t.ID, &t.Title, &t.FromCity, &t.ToCity, &t.Seats, &t.Price,
			pq.Array(&t.Images),
		); err != nil {
			return nil, fmt.Errorf("postgres: scan transport route: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SearchHolidayPackages returns active packages matching the filter.
func (ps *PostgresStore) SearchHolidayPackages(ctx context.Context, f SearchFilter) ([]*models.HolidayPackage, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, title, destination, max_guests, price, images, rating, review_count
		FROM holiday_packages
		WHERE is_active
		  AND ($1 = '' OR destination ILIKE '%' || $1 || '%')
		  AND ($2 = 0 OR max_guests >= $2)
		ORDER BY id
	`, f.Location, f.Guests)
	if err != nil {
		return nil, fmt.Errorf("postgres: search holiday packages: %w", err)
	}
	defer rows.Close()

	var out []*models.HolidayPackage
	for rows.Next() {
		h := &models.HolidayPackage{IsActive: true}
		if err := rows.Scan(
			&h.ID, &h.Title, &h.Destination, &h.MaxGuests, &h.Price,
			pq.Array(&h.Images), &h.Rating, &h.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan holiday package: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// BookingsInRange returns all bookings created inside the window, inclusive
// on both ends, regardless of status.
func (ps *PostgresStore) BookingsInRange(ctx context.Context, r models.DateRange) ([]*models.Booking, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, status, COALESCE(total_price, 0), COALESCE(inventory_type, ''),
		       COALESCE(property_id, ''), created_at
		FROM bookings
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at
	`, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("postgres: bookings in range: %w", err)
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		if err := rows.Scan(
			&b.ID, &b.Status, &b.TotalPrice, &b.InventoryType, &b.PropertyID, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RefundsInRange filters on the refund's own created_at, not the parent
// booking's.
func (ps *PostgresStore) RefundsInRange(ctx context.Context, r models.DateRange) ([]*models.Refund, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, booking_id, COALESCE(amount, 0), created_at
		FROM refunds
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at
	`, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("postgres: refunds in range: %w", err)
	}
	defer rows.Close()

	var out []*models.Refund
	for rows.Next() {
		rf := &models.Refund{}
		if err := rows.Scan(&rf.ID, &rf.BookingID, &rf.Amount, &rf.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan refund: %w", err)
		}
		out = append(out, rf)
	}
	return out, rows.Err()
}

// CommissionsForBookingRange joins commissions to their parent bookings and
// filters on the booking's created_at. Partner names resolve through a LEFT
// JOIN so a missing profile yields an empty name rather than dropping the row.
func (ps *PostgresStore) CommissionsForBookingRange(ctx context.Context, r models.DateRange) ([]*models.PartnerCommission, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT COALESCE(p.full_name, ''), COALESCE(c.amount, 0), c.paid, c.paid_at
		FROM partner_commissions c
		JOIN bookings b ON c.booking_id = b.id
		LEFT JOIN profiles p ON c.partner_id = p.id
		WHERE b.created_at BETWEEN $1 AND $2
		ORDER BY b.created_at, c.id
	`, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("postgres: commissions for booking range: %w", err)
	}
	defer rows.Close()

	var out []*models.PartnerCommission
	for rows.Next() {
		c := &models.PartnerCommission{}
		var paidAt sql.NullTime
		if err := rows.Scan(&c.PartnerName, &c.Amount, &c.Paid, &paidAt); err != nil {
			return nil, fmt.Errorf("postgres: scan commission: %w", err)
		}
		if paidAt.Valid {
			t := paidAt.Time
			c.PaidAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompletedBookingsWithHost returns completed bookings in range joined to
// their property's host.
func (ps *PostgresStore) CompletedBookingsWithHost(ctx context.Context, r models.DateRange) ([]*models.HostBooking, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT pr.host_id, COALESCE(b.total_price, 0)
		FROM bookings b
		JOIN properties pr ON b.property_id = pr.id
		WHERE b.status = 'completed' AND b.created_at BETWEEN $1 AND $2
		ORDER BY b.created_at, b.id
	`, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("postgres: completed bookings with host: %w", err)
	}
	defer rows.Close()

	var out []*models.HostBooking
	for rows.Next() {
		hb := &models.HostBooking{}
		if err := rows.Scan(&hb.HostID, &hb.TotalPrice); err != nil {
			return nil, fmt.Errorf("postgres: scan host booking: %w", err)
		}
		out = append(out, hb)
	}
	return out, rows.Err()
}

// ProfileNamesByIDs resolves the whole id set in a single query.
func (ps *PostgresStore) ProfileNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, full_name FROM profiles WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("postgres: profile names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("postgres: scan profile: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// AverageReviewRating is a global snapshot over every review in the system.
func (ps *PostgresStore) AverageReviewRating(ctx context.Context) (float64, error) {
	var avg float64
	err := ps.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM reviews`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("postgres: average review rating: %w", err)
	}
	return avg, nil
}

// ActiveHostCount counts distinct hosts with at least one active property.
func (ps *PostgresStore) ActiveHostCount(ctx context.Context) (int, error) {
	var n int
	err := ps.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT host_id) FROM properties WHERE is_active`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: active host count: %w", err)
	}
	return n, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
