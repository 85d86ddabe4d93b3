package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

// OrderRepo persists orders and their audit trail.
type OrderRepo struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
    id, order_number, customer_id, status, fulfillment_type,
    payment_method, payment_status, payment_verified,
    subtotal, delivery_fee, tax, discount, total,
    delivery_lat, delivery_lng, assigned_rider_id,
    created_at, updated_at, preparing_at, ready_at, out_at,
    delivered_at, cancelled_at, cancel_reason`

// Create inserts a new order.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	var lat, lng *float64
	if o.DeliveryPoint != nil {
		lat, lng = &o.DeliveryPoint.Lat, &o.DeliveryPoint.Lng
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO orders (
            id, order_number, customer_id, status, fulfillment_type,
            payment_method, payment_status, payment_verified,
            subtotal, delivery_fee, tax, discount, total,
            delivery_lat, delivery_lng, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$16)`,
		o.ID, o.OrderNumber, o.CustomerID, string(o.Status), string(o.FulfillmentType),
		string(o.PaymentMethod), string(o.PaymentStatus), o.PaymentVerified,
		o.Subtotal, o.DeliveryFee, o.Tax, o.Discount, o.Total,
		lat, lng, o.CreatedAt,
	)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: order %s already exists", apperr.ErrConflict, o.ID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get fetches one order by ID. Returns nil when the order does not exist.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return o, nil
}

// UpdateStatus commits a status transition conditionally: the row is
// touched only while its status is still `from`. Milestone timestamps are
// stamped once, on first entry into the corresponding status. Reports
// whether the write landed.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, cancelReason *string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $2,
            updated_at = now(),
            preparing_at = CASE WHEN $2 = 'preparing' AND preparing_at IS NULL THEN now() ELSE preparing_at END,
            ready_at = CASE WHEN $2 = 'ready_for_pickup' AND ready_at IS NULL THEN now() ELSE ready_at END,
            out_at = CASE WHEN $2 = 'out_for_delivery' AND out_at IS NULL THEN now() ELSE out_at END,
            delivered_at = CASE WHEN $2 = 'delivered' AND delivered_at IS NULL THEN now() ELSE delivered_at END,
            cancelled_at = CASE WHEN $2 = 'cancelled' AND cancelled_at IS NULL THEN now() ELSE cancelled_at END,
            cancel_reason = COALESCE($4, cancel_reason)
        WHERE id = $1 AND status = $3`,
		id, string(to), string(from), cancelReason,
	)
	if err != nil {
		return false, fmt.Errorf("update order status %s: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// SetPaymentVerified flips the payment flags, once. Reports whether the
// write landed (false means it was already verified).
func (r *OrderRepo) SetPaymentVerified(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET payment_status = 'verified', payment_verified = TRUE, updated_at = now()
        WHERE id = $1 AND payment_verified = FALSE`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("set payment verified %s: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// SetAssignedRider maintains the denormalized assigned_rider_id
// projection. Never the source of truth; the active assignment row is.
func (r *OrderRepo) SetAssignedRider(ctx context.Context, id string, riderID *string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE orders SET assigned_rider_id = $2, updated_at = now() WHERE id = $1`,
		id, riderID,
	)
	if err != nil {
		return fmt.Errorf("set assigned rider %s: %w", id, err)
	}
	return nil
}

// ListEligibleForAssignment returns delivery orders awaiting a rider,
// oldest first: payment-cleared, in preparing or ready_for_pickup, and
// without an active claimed assignment.
func (r *OrderRepo) ListEligibleForAssignment(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders o
        WHERE o.status IN ('ready_for_pickup', 'preparing')
          AND o.fulfillment_type = 'delivery'
          AND (o.payment_verified OR (o.payment_method = 'cod' AND o.payment_status = 'pending'))
          AND NOT EXISTS (
              SELECT 1 FROM delivery_assignments a
              WHERE a.order_id = o.id AND a.rider_id IS NOT NULL AND a.delivered_at IS NULL
          )
        ORDER BY o.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list eligible orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan eligible order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// ListActive returns non-terminal orders for the dashboard, oldest first.
func (r *OrderRepo) ListActive(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders o
        WHERE o.status NOT IN ('delivered', 'cancelled')
        ORDER BY o.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan active order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// AppendStatusEvent appends one audit-trail entry.
func (r *OrderRepo) AppendStatusEvent(ctx context.Context, e *domain.StatusEvent) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO order_status_events (order_id, from_status, to_status, actor_role, actor_id, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		e.OrderID, string(e.FromStatus), string(e.ToStatus),
		e.Actor.Role.String(), e.Actor.ID, e.Notes, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append status event: %w", err)
	}
	return nil
}

// CountStatusEvents returns the number of audit entries for an order.
func (r *OrderRepo) CountStatusEvents(ctx context.Context, orderID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_status_events WHERE order_id = $1`, orderID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count status events: %w", err)
	}
	return n, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status, fulfillment, method, payStatus string
	var lat, lng *float64

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &status, &fulfillment,
		&method, &payStatus, &o.PaymentVerified,
		&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Discount, &o.Total,
		&lat, &lng, &o.AssignedRiderID,
		&o.CreatedAt, &o.UpdatedAt, &o.PreparingAt, &o.ReadyAt, &o.OutAt,
		&o.DeliveredAt, &o.CancelledAt, &o.CancelReason,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.FulfillmentType = domain.FulfillmentType(fulfillment)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.PaymentStatus = domain.PaymentStatus(payStatus)
	if lat != nil && lng != nil {
		o.DeliveryPoint = &domain.Point{Lat: *lat, Lng: *lng}
	}
	return &o, nil
}
