package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Validation and invariant failures surfaced to the request layer. Every
// failure is scoped to its own transaction; nothing here is fatal to the
// process.
var (
	ErrWarehouseNotFound   = errors.New("warehouse not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationNotOpen  = errors.New("reservation is not in a pending state")
	ErrAlreadyInvoiced     = errors.New("reservation is already invoiced")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid  = errors.New("invoice is already fully paid")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidItem         = errors.New("item price or discount out of range")
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrNotAccrualEntry     = errors.New("only accrual entries can be reversed")
	ErrAgentNotFound       = errors.New("agent not found")
	ErrSameAgent           = errors.New("source and target agents are identical")
	ErrRoleMismatch        = errors.New("agents must hold the same role")

	// ErrContention marks lock-wait timeouts and deadlocks. The whole
	// operation is safe to retry from scratch.
	ErrContention = errors.New("row lock contention, retry the operation")
)

// InsufficientStockError names the offending product and the shortfall.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// OverpaymentError rejects a payment that would push paid_amount above the
// invoice total.
type OverpaymentError struct {
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds remaining invoice balance %s",
		e.Requested.String(), e.Remaining.String())
}

// wrapTxError classifies engine-level lock failures as retryable contention
// so callers never mistake them for validation errors.
func wrapTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01": // lock_not_available, serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", ErrContention, err)
		}
	}
	return err
}
