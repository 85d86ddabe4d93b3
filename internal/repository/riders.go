package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

// RiderRepo persists riders.
type RiderRepo struct {
	db *pgxpool.Pool
}

// NewRiderRepo creates a new RiderRepo.
func NewRiderRepo(db *pgxpool.Pool) *RiderRepo {
	return &RiderRepo{db: db}
}

const riderColumns = `
    r.id, r.user_id, r.name, r.phone, r.is_available,
    r.lat, r.lng, r.capacity, r.created_at, r.last_active_at`

// activeLoad counts the rider's undelivered assignments. currentOrders
// is always derived this way, never stored.
const activeLoad = `
    (SELECT COUNT(*) FROM delivery_assignments a
     WHERE a.rider_id = r.id AND a.delivered_at IS NULL)`

// Create inserts a new rider.
func (r *RiderRepo) Create(ctx context.Context, rd *domain.Rider) error {
	if rd.Capacity <= 0 {
		rd.Capacity = domain.DefaultRiderCapacity
	}
	var lat, lng *float64
	if rd.CurrentLocation != nil {
		lat, lng = &rd.CurrentLocation.Lat, &rd.CurrentLocation.Lng
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO riders (id, user_id, name, phone, is_available, lat, lng, capacity, created_at, last_active_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)`,
		rd.ID, rd.UserID, rd.Name, rd.Phone, rd.IsAvailable, lat, lng, rd.Capacity, rd.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rider: %w", err)
	}
	return nil
}

// Get fetches one rider with its derived load. Returns nil when absent.
func (r *RiderRepo) Get(ctx context.Context, id string) (*domain.RiderLoad, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+riderColumns+`, `+activeLoad+` FROM riders r WHERE r.id = $1`, id)
	rl, err := scanRiderLoad(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rider %s: %w", id, err)
	}
	return rl, nil
}

// ListAvailableWithLoad returns the candidate pool: available riders and
// their derived active-assignment counts. Capacity filtering is left to
// the engine, which also tracks in-sweep increments.
func (r *RiderRepo) ListAvailableWithLoad(ctx context.Context) ([]domain.RiderLoad, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+riderColumns+`, `+activeLoad+`
        FROM riders r
        WHERE r.is_available
        ORDER BY r.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list available riders: %w", err)
	}
	defer rows.Close()

	var out []domain.RiderLoad
	for rows.Next() {
		rl, err := scanRiderLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rider: %w", err)
		}
		out = append(out, *rl)
	}
	return out, rows.Err()
}

// SetAvailability toggles the rider's availability flag. Reports whether
// the rider exists.
func (r *RiderRepo) SetAvailability(ctx context.Context, id string, available bool) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders SET is_available = $2, last_active_at = now() WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return false, fmt.Errorf("set rider availability %s: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// UpdateLocation records the rider's reported position.
func (r *RiderRepo) UpdateLocation(ctx context.Context, id string, p domain.Point) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE riders SET lat = $2, lng = $3, last_active_at = now() WHERE id = $1`,
		id, p.Lat, p.Lng,
	)
	if err != nil {
		return false, fmt.Errorf("update rider location %s: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

func scanRiderLoad(row pgx.Row) (*domain.RiderLoad, error) {
	var rl domain.RiderLoad
	var lat, lng *float64
	err := row.Scan(
		&rl.ID, &rl.UserID, &rl.Name, &rl.Phone, &rl.IsAvailable,
		&lat, &lng, &rl.Capacity, &rl.CreatedAt, &rl.LastActiveAt,
		&rl.CurrentOrders,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		rl.CurrentLocation = &domain.Point{Lat: *lat, Lng: *lng}
	}
	return &rl, nil
}
