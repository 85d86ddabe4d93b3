package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/ports/assigntx"
)

// AssignmentRepo persists delivery assignments. Assignment rows are only
// ever inserted or updated in place; delivered rows are history.
type AssignmentRepo struct {
	db *pgxpool.Pool
}

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *AssignmentRepo) WithTx(ctx context.Context, fn func(tx assigntx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

const assignmentColumns = `
    id, order_id, rider_id, assigned_at, picked_up_at, delivered_at, proof_ref, notes`

// GetActiveByOrder returns the order's undelivered assignment, if any.
func (r *AssignmentRepo) GetActiveByOrder(ctx context.Context, orderID string) (*domain.DeliveryAssignment, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
        FROM delivery_assignments
        WHERE order_id = $1 AND delivered_at IS NULL`,
		orderID,
	)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active assignment %s: %w", orderID, err)
	}
	return a, nil
}

// ListActiveByRider returns the rider's undelivered assignments.
func (r *AssignmentRepo) ListActiveByRider(ctx context.Context, riderID string) ([]domain.DeliveryAssignment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+assignmentColumns+`
        FROM delivery_assignments
        WHERE rider_id = $1 AND delivered_at IS NULL
        ORDER BY assigned_at ASC`,
		riderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active by rider: %w", err)
	}
	defer rows.Close()

	var out []domain.DeliveryAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// MarkPickedUp stamps pickup, once, and only for the owning rider.
// Reports whether the write landed.
func (r *AssignmentRepo) MarkPickedUp(ctx context.Context, orderID, riderID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_assignments
        SET picked_up_at = now()
        WHERE order_id = $1 AND rider_id = $2
          AND picked_up_at IS NULL AND delivered_at IS NULL`,
		orderID, riderID,
	)
	if err != nil {
		return false, fmt.Errorf("mark picked up %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// MarkDelivered stamps delivery, once, after pickup, for the owning
// rider. This is the write that releases the rider's capacity slot.
func (r *AssignmentRepo) MarkDelivered(ctx context.Context, orderID, riderID string, proofRef *string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE delivery_assignments
        SET delivered_at = now(), proof_ref = COALESCE($3, proof_ref)
        WHERE order_id = $1 AND rider_id = $2
          AND picked_up_at IS NOT NULL AND delivered_at IS NULL`,
		orderID, riderID, proofRef,
	)
	if err != nil {
		return false, fmt.Errorf("mark delivered %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// TxRepo is the transactional assignment repository.
type TxRepo struct {
	tx pgx.Tx
}

// LockRider takes a row lock on the rider, serializing capacity checks
// for that rider until commit. Reports whether the rider exists.
func (r *TxRepo) LockRider(ctx context.Context, riderID string) (bool, error) {
	var id string
	err := r.tx.QueryRow(ctx,
		`SELECT id FROM riders WHERE id = $1 FOR UPDATE`, riderID,
	).Scan(&id)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("lock rider %s: %w", riderID, err)
	}
	return true, nil
}

// CountActiveByRider counts the rider's undelivered assignments.
func (r *TxRepo) CountActiveByRider(ctx context.Context, riderID string) (int, error) {
	var n int
	err := r.tx.QueryRow(ctx, `
        SELECT COUNT(*) FROM delivery_assignments
        WHERE rider_id = $1 AND delivered_at IS NULL`,
		riderID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active by rider %s: %w", riderID, err)
	}
	return n, nil
}

// GetActiveByOrder returns the order's undelivered assignment with a row
// lock, if any.
func (r *TxRepo) GetActiveByOrder(ctx context.Context, orderID string) (*domain.DeliveryAssignment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
        FROM delivery_assignments
        WHERE order_id = $1 AND delivered_at IS NULL
        FOR UPDATE`,
		orderID,
	)
	a, err := scanAssignment(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active assignment %s: %w", orderID, err)
	}
	return a, nil
}

// ClaimUnclaimed attaches the rider to an existing unclaimed active
// assignment. The WHERE clause is the claim condition: it lands only
// while no rider holds the slot.
func (r *TxRepo) ClaimUnclaimed(ctx context.Context, orderID, riderID string) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_assignments
        SET rider_id = $2, assigned_at = now()
        WHERE order_id = $1 AND rider_id IS NULL AND delivered_at IS NULL`,
		orderID, riderID,
	)
	if err != nil {
		return false, fmt.Errorf("claim unclaimed %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// InsertClaimed creates a claimed assignment row unless the order
// already has an active one. The partial unique index on
// (order_id) WHERE delivered_at IS NULL backs this against concurrent
// inserts; a duplicate surfaces as a lost claim, not an error.
func (r *TxRepo) InsertClaimed(ctx context.Context, orderID, riderID, notes string) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        INSERT INTO delivery_assignments (order_id, rider_id, assigned_at, notes)
        SELECT $1, $2, now(), $3
        WHERE NOT EXISTS (
            SELECT 1 FROM delivery_assignments
            WHERE order_id = $1 AND delivered_at IS NULL
        )`,
		orderID, riderID, notes,
	)
	if err != nil {
		if IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert claimed %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// ReleaseRider clears the rider from the order's active assignment so a
// new claim can land. Only pre-pickup assignments can be released.
func (r *TxRepo) ReleaseRider(ctx context.Context, orderID string) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_assignments
        SET rider_id = NULL
        WHERE order_id = $1 AND rider_id IS NOT NULL
          AND picked_up_at IS NULL AND delivered_at IS NULL`,
		orderID,
	)
	if err != nil {
		return false, fmt.Errorf("release rider %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}

func scanAssignment(row pgx.Row) (*domain.DeliveryAssignment, error) {
	var a domain.DeliveryAssignment
	err := row.Scan(
		&a.ID, &a.OrderID, &a.RiderID, &a.AssignedAt,
		&a.PickedUpAt, &a.DeliveredAt, &a.ProofRef, &a.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
