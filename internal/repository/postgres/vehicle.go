package postgres

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

const vehicleColumns = `id, owner_id, make, model, year, license_plate, color, vehicle_type,
	seating_capacity, fuel_type, transmission, hourly_rate, daily_rate,
	is_available, is_approved, latitude, longitude, created_at, updated_at`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.q.ExecContext(ctx, query,
		v.ID,
		v.OwnerID,
		v.Make,
		v.Model,
		v.Year,
		v.LicensePlate,
		nullString(v.Color),
		v.VehicleType,
		v.SeatingCapacity,
		nullString(v.FuelType),
		nullString(v.Transmission),
		v.HourlyRate,
		v.DailyRate,
		v.IsAvailable,
		v.IsApproved,
		nullFloat(v.Latitude),
		nullFloat(v.Longitude),
		v.CreatedAt,
		v.UpdatedAt,
	)

	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// GetAll retrieves all vehicles in insertion order.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Update updates an existing vehicle.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET make = $1, model = $2, year = $3, license_plate = $4, color = $5,
		    vehicle_type = $6, seating_capacity = $7, fuel_type = $8, transmission = $9,
		    hourly_rate = $10, daily_rate = $11, is_available = $12, is_approved = $13,
		    latitude = $14, longitude = $15, updated_at = $16
		WHERE id = $17
	`

	result, err := r.q.ExecContext(ctx, query,
		v.Make,
		v.Model,
		v.Year,
		v.LicensePlate,
		nullString(v.Color),
		v.VehicleType,
		v.SeatingCapacity,
		nullString(v.FuelType),
		nullString(v.Transmission),
		v.HourlyRate,
		v.DailyRate,
		v.IsAvailable,
		v.IsApproved,
		nullFloat(v.Latitude),
		nullFloat(v.Longitude),
		v.UpdatedAt,
		v.ID,
	)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// SetAvailability flips the vehicle's exclusivity flag.
func (r *VehicleRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	query := `UPDATE vehicles SET is_available = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, available, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var color, fuelType, transmission sql.NullString
	var lat, lng sql.NullFloat64

	if err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.LicensePlate,
		&color,
		&v.VehicleType,
		&v.SeatingCapacity,
		&fuelType,
		&transmission,
		&v.HourlyRate,
		&v.DailyRate,
		&v.IsAvailable,
		&v.IsApproved,
		&lat,
		&lng,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}

	v.Color = color.String
	v.FuelType = fuelType.String
	v.Transmission = transmission.String
	if lat.Valid {
		v.Latitude = &lat.Float64
	}
	if lng.Valid {
		v.Longitude = &lng.Float64
	}

	return &v, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
