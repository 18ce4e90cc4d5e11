package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
// All booking variants share one table: a common header plus nullable
// variant-specific columns selected by the kind tag.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, user_id, kind, status, start_time, end_time, total_price,
	created_at, updated_at, canceled_at,
	vehicle_id, driver_id, pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	service_id, provider_id, service_vehicle_id, address, latitude, longitude,
	route_id, seat_id, agency_id, notes`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`

	var endTime, canceledAt sql.NullTime
	if !b.Interval.OpenEnded() {
		endTime = sql.NullTime{Time: b.Interval.End, Valid: true}
	}
	if !b.CanceledAt.IsZero() {
		canceledAt = sql.NullTime{Time: b.CanceledAt, Valid: true}
	}

	args := []any{
		b.ID, b.UserID, b.Kind, b.Status, b.Interval.Start, endTime, b.TotalPrice,
		b.CreatedAt, b.UpdatedAt, canceledAt,
	}
	args = append(args, variantArgs(b)...)

	_, err := r.q.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByUser retrieves a user's bookings filtered by status, most recent
// start time first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string, statuses []domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY start_time DESC
		LIMIT $3
	`

	rows, err := r.q.QueryContext(ctx, query, userID, pq.Array(statusStrings(statuses)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Update updates a booking's mutable header fields.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2, canceled_at = $3
		WHERE id = $4
	`

	var canceledAt sql.NullTime
	if !b.CanceledAt.IsZero() {
		canceledAt = sql.NullTime{Time: b.CanceledAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, b.Status, b.UpdatedAt, canceledAt, b.ID)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// CountOverlapping counts active bookings on a resource whose interval
// overlaps [start, end) under the half-open rule. Stored open-ended bookings
// are treated as unbounded commitments.
func (r *BookingRepository) CountOverlapping(ctx context.Context, kind domain.BookingKind, resourceID string, statuses []domain.BookingStatus, interval domain.Interval) (int, error) {
	resourceColumn, err := resourceColumnFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		SELECT COUNT(1)
		FROM bookings
		WHERE kind = $1
		  AND %s = $2
		  AND status = ANY($3)
		  AND start_time < $4
		  AND COALESCE(end_time, 'infinity'::timestamptz) > $5
	`, resourceColumn)

	var count int
	err = r.q.QueryRowContext(ctx, query,
		kind, resourceID, pq.Array(statusStrings(statuses)), interval.End, interval.Start,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func resourceColumnFor(kind domain.BookingKind) (string, error) {
	switch kind {
	case domain.BookingKindCarsharing:
		return "vehicle_id", nil
	case domain.BookingKindDetailing:
		return "provider_id", nil
	case domain.BookingKindBusSeat:
		return "seat_id", nil
	default:
		return "", fmt.Errorf("unknown booking kind %q", kind)
	}
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// variantArgs returns the 18 variant-specific insert arguments in column
// order, NULL for the columns of the other variants.
func variantArgs(b *domain.Booking) []any {
	var (
		vehicleID, driverID, pickupAddress         sql.NullString
		pickupLat, pickupLng                       sql.NullFloat64
		dropoffAddress                             sql.NullString
		dropoffLat, dropoffLng                     sql.NullFloat64
		serviceID, providerID, serviceVehicleID    sql.NullString
		address                                    sql.NullString
		latitude, longitude                        sql.NullFloat64
		routeID, seatID, agencyID, notes           sql.NullString
	)

	switch b.Kind {
	case domain.BookingKindCarsharing:
		d := b.Carsharing
		vehicleID = sql.NullString{String: d.VehicleID, Valid: true}
		driverID = sql.NullString{String: d.DriverID, Valid: true}
		pickupAddress = sql.NullString{String: d.Pickup.Address, Valid: true}
		pickupLat = sql.NullFloat64{Float64: d.Pickup.Lat, Valid: true}
		pickupLng = sql.NullFloat64{Float64: d.Pickup.Lng, Valid: true}
		if d.Dropoff != nil {
			dropoffAddress = sql.NullString{String: d.Dropoff.Address, Valid: true}
			dropoffLat = sql.NullFloat64{Float64: d.Dropoff.Lat, Valid: true}
			dropoffLng = sql.NullFloat64{Float64: d.Dropoff.Lng, Valid: true}
		}
	case domain.BookingKindDetailing:
		d := b.Detailing
		serviceID = sql.NullString{String: d.ServiceID, Valid: true}
		providerID = sql.NullString{String: d.ProviderID, Valid: true}
		serviceVehicleID = sql.NullString{String: d.VehicleID, Valid: true}
		address = sql.NullString{String: d.Location.Address, Valid: true}
		latitude = sql.NullFloat64{Float64: d.Location.Lat, Valid: true}
		longitude = sql.NullFloat64{Float64: d.Location.Lng, Valid: true}
		notes = nullString(d.Notes)
	case domain.BookingKindBusSeat:
		d := b.BusSeat
		routeID = sql.NullString{String: d.RouteID, Valid: true}
		seatID = sql.NullString{String: d.SeatID, Valid: true}
		agencyID = sql.NullString{String: d.AgencyID, Valid: true}
		notes = nullString(d.Notes)
	}

	return []any{
		vehicleID, driverID, pickupAddress, pickupLat, pickupLng,
		dropoffAddress, dropoffLat, dropoffLng,
		serviceID, providerID, serviceVehicleID, address, latitude, longitude,
		routeID, seatID, agencyID, notes,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var endTime, canceledAt sql.NullTime
	var (
		vehicleID, driverID, pickupAddress      sql.NullString
		pickupLat, pickupLng                    sql.NullFloat64
		dropoffAddress                          sql.NullString
		dropoffLat, dropoffLng                  sql.NullFloat64
		serviceID, providerID, serviceVehicleID sql.NullString
		address                                 sql.NullString
		latitude, longitude                     sql.NullFloat64
		routeID, seatID, agencyID, notes        sql.NullString
	)

	if err := row.Scan(
		&b.ID, &b.UserID, &b.Kind, &b.Status, &b.Interval.Start, &endTime, &b.TotalPrice,
		&b.CreatedAt, &b.UpdatedAt, &canceledAt,
		&vehicleID, &driverID, &pickupAddress, &pickupLat, &pickupLng,
		&dropoffAddress, &dropoffLat, &dropoffLng,
		&serviceID, &providerID, &serviceVehicleID, &address, &latitude, &longitude,
		&routeID, &seatID, &agencyID, &notes,
	); err != nil {
		return nil, err
	}

	if endTime.Valid {
		b.Interval.End = endTime.Time
	}
	if canceledAt.Valid {
		b.CanceledAt = canceledAt.Time
	}

	switch b.Kind {
	case domain.BookingKindCarsharing:
		details := &domain.CarsharingDetails{
			VehicleID: vehicleID.String,
			DriverID:  driverID.String,
			Pickup: domain.Location{
				Address: pickupAddress.String,
				Lat:     pickupLat.Float64,
				Lng:     pickupLng.Float64,
			},
		}
		if dropoffAddress.Valid {
			details.Dropoff = &domain.Location{
				Address: dropoffAddress.String,
				Lat:     dropoffLat.Float64,
				Lng:     dropoffLng.Float64,
			}
		}
		b.Carsharing = details
	case domain.BookingKindDetailing:
		b.Detailing = &domain.DetailingDetails{
			ServiceID:  serviceID.String,
			ProviderID: providerID.String,
			VehicleID:  serviceVehicleID.String,
			Location: domain.Location{
				Address: address.String,
				Lat:     latitude.Float64,
				Lng:     longitude.Float64,
			},
			Notes: notes.String,
		}
	case domain.BookingKindBusSeat:
		b.BusSeat = &domain.BusSeatDetails{
			RouteID:  routeID.String,
			SeatID:   seatID.String,
			AgencyID: agencyID.String,
			Notes:    notes.String,
		}
	}

	return &b, nil
}
