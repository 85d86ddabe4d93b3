package domain

import "time"

// PaymentTransaction records one payment attempt for an order. Multiple
// rows may exist for retries; only the latest is authoritative.
type PaymentTransaction struct {
	ID         int64
	OrderID    string
	Amount     int64
	Method     PaymentMethod
	Status     PaymentStatus
	Reference  string
	VerifiedBy *string
	VerifiedAt *time.Time
	CreatedAt  time.Time
}
