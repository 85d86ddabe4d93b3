package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

// PaymentRepo persists payment transactions. Rows accumulate across
// retries; only the latest one per order is authoritative.
type PaymentRepo struct {
	db *pgxpool.Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create inserts a new payment transaction.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.PaymentTransaction) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO payment_transactions (order_id, amount, method, status, reference, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		p.OrderID, p.Amount, string(p.Method), string(p.Status), p.Reference, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// LatestByOrder returns the most recent transaction for an order, or nil.
func (r *PaymentRepo) LatestByOrder(ctx context.Context, orderID string) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, order_id, amount, method, status, reference, verified_by, verified_at, created_at
        FROM payment_transactions
        WHERE order_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`,
		orderID,
	)

	var p domain.PaymentTransaction
	var method, status string
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &method, &status,
		&p.Reference, &p.VerifiedBy, &p.VerifiedAt, &p.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest payment %s: %w", orderID, err)
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

// MarkVerified stamps the latest pending transaction for the order as
// verified, once. Reports whether the write landed.
func (r *PaymentRepo) MarkVerified(ctx context.Context, orderID, verifierID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE payment_transactions
        SET status = 'verified', verified_by = $2, verified_at = now()
        WHERE id = (
            SELECT id FROM payment_transactions
            WHERE order_id = $1 AND status = 'pending'
            ORDER BY created_at DESC, id DESC
            LIMIT 1
        )`,
		orderID, verifierID,
	)
	if err != nil {
		return false, fmt.Errorf("mark payment verified %s: %w", orderID, err)
	}
	return ct.RowsAffected() == 1, nil
}
