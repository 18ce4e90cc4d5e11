package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

// NewBusRepositoryWithTx creates a bus repository using a transaction.
func NewBusRepositoryWithTx(tx *sql.Tx) *BusRepository {
	return &BusRepository{q: tx}
}

const routeColumns = `id, agency_id, origin, destination, departure_time, available_seats, price, created_at`

// GetRouteByID retrieves a route by ID.
func (r *BusRepository) GetRouteByID(ctx context.Context, id string) (*domain.BusRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM bus_routes WHERE id = $1`

	route, err := scanRoute(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

// ListRoutes retrieves all routes in insertion order.
func (r *BusRepository) ListRoutes(ctx context.Context) ([]*domain.BusRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM bus_routes ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.BusRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// GetSeatByID retrieves a seat by ID.
func (r *BusRepository) GetSeatByID(ctx context.Context, id string) (*domain.BusSeat, error) {
	query := `SELECT id, route_id, seat_number, is_booked, booked_by, booked_at FROM bus_seats WHERE id = $1`

	seat, err := scanSeat(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return seat, nil
}

// ListSeatsByRoute retrieves all seats on a route in insertion order.
func (r *BusRepository) ListSeatsByRoute(ctx context.Context, routeID string) ([]*domain.BusSeat, error) {
	query := `SELECT id, route_id, seat_number, is_booked, booked_by, booked_at FROM bus_seats WHERE route_id = $1 ORDER BY seat_number ASC`

	rows, err := r.q.QueryContext(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*domain.BusSeat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// MarkSeatBooked flips is_booked false -> true. The WHERE guard makes the
// flip a compare-and-set: a second caller sees zero rows affected and gets
// ErrSeatTaken.
func (r *BusRepository) MarkSeatBooked(ctx context.Context, seatID, userID string, at time.Time) error {
	query := `
		UPDATE bus_seats
		SET is_booked = TRUE, booked_by = $1, booked_at = $2
		WHERE id = $3 AND NOT is_booked
	`

	result, err := r.q.ExecContext(ctx, query, userID, at, seatID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either missing or already booked; disambiguate for the caller.
		if _, err := r.GetSeatByID(ctx, seatID); errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrSeatTaken
	}
	return nil
}

// ReleaseSeat flips a booked seat back to free and restores the route's
// available seat count.
func (r *BusRepository) ReleaseSeat(ctx context.Context, seatID string) error {
	query := `
		UPDATE bus_seats
		SET is_booked = FALSE, booked_by = NULL, booked_at = NULL
		WHERE id = $1 AND is_booked
	`

	result, err := r.q.ExecContext(ctx, query, seatID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Already free; nothing to restore on the route.
		return nil
	}

	restore := `
		UPDATE bus_routes
		SET available_seats = available_seats + 1
		WHERE id = (SELECT route_id FROM bus_seats WHERE id = $1)
	`
	_, err = r.q.ExecContext(ctx, restore, seatID)
	return err
}

// DecrementAvailableSeats reduces the route's available seat count.
func (r *BusRepository) DecrementAvailableSeats(ctx context.Context, routeID string) error {
	query := `
		UPDATE bus_routes
		SET available_seats = available_seats - 1
		WHERE id = $1 AND available_seats > 0
	`

	result, err := r.q.ExecContext(ctx, query, routeID)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func scanRoute(row rowScanner) (*domain.BusRoute, error) {
	var route domain.BusRoute
	if err := row.Scan(
		&route.ID,
		&route.AgencyID,
		&route.Origin,
		&route.Destination,
		&route.DepartureTime,
		&route.AvailableSeats,
		&route.Price,
		&route.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &route, nil
}

func scanSeat(row rowScanner) (*domain.BusSeat, error) {
	var seat domain.BusSeat
	var bookedBy sql.NullString
	var bookedAt sql.NullTime

	if err := row.Scan(
		&seat.ID,
		&seat.RouteID,
		&seat.SeatNumber,
		&seat.IsBooked,
		&bookedBy,
		&bookedAt,
	); err != nil {
		return nil, err
	}

	seat.BookedBy = bookedBy.String
	if bookedAt.Valid {
		seat.BookedAt = bookedAt.Time
	}
	return &seat, nil
}
