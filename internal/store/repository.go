package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lifecycle statuses recorded for a payment row. They mirror the processor's
// state machine: pending → authorized → captured → refunded, with voided as
// the alternative exit from authorized and failed for rejected attempts.
const (
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusCaptured   = "captured"
	StatusRefunded   = "refunded"
	StatusVoided     = "voided"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when no payment row matches.
var ErrNotFound = errors.New("store: payment not found")

// Payment is the order-management view of a payment attempt. The gateway core
// itself never reads these rows; they exist for the surrounding service.
type Payment struct {
	ID                     uuid.UUID
	ProcessorTransactionID string
	AmountCents            int64
	Currency               string
	Email                  string
	Status                 string
	DeclineCode            string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DB is the subset of pgxpool.Pool the repository uses; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// Repository persists payment lifecycle rows.
type Repository struct {
	db DB
}

// NewRepository creates a repository over a pgx pool (or a mock).
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("store: db required")
	}
	return &Repository{db: db}
}

const paymentColumns = "id, processor_transaction_id, amount_cents, currency, email, status, decline_code, created_at, updated_at"

// CreatePayment inserts a pending payment row for a checkout attempt.
func (r *Repository) CreatePayment(ctx context.Context, amountCents int64, currency, email string) (*Payment, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (id, amount_cents, currency, email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+paymentColumns,
		uuid.New(), amountCents, currency, email, StatusPending,
	)
	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("store: insert payment: %w", err)
	}
	return p, nil
}

// UpdateStatus transitions a payment row by our identifier, recording the
// processor reference and any decline code from the outcome.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status, processorTransactionID, declineCode string) (*Payment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payments
		SET status = $2,
		    processor_transaction_id = COALESCE(NULLIF($3, ''), processor_transaction_id),
		    decline_code = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+paymentColumns,
		id, status, processorTransactionID, declineCode,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: update payment %s: %w", id, err)
	}
	return p, nil
}

// UpdateStatusByProcessorRef transitions a payment row by the processor's
// transaction identifier, used by later lifecycle calls that only carry it.
func (r *Repository) UpdateStatusByProcessorRef(ctx context.Context, processorTransactionID, status string) (*Payment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE processor_transaction_id = $1
		RETURNING `+paymentColumns,
		processorTransactionID, status,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: update payment by ref %s: %w", processorTransactionID, err)
	}
	return p, nil
}

// GetByID fetches a payment row.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load payment %s: %w", id, err)
	}
	return p, nil
}

// GetByProcessorRef fetches a payment row by the processor's transaction id.
func (r *Repository) GetByProcessorRef(ctx context.Context, processorTransactionID string) (*Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE processor_transaction_id = $1`, processorTransactionID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load payment by ref %s: %w", processorTransactionID, err)
	}
	return p, nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.ProcessorTransactionID,
		&p.AmountCents,
		&p.Currency,
		&p.Email,
		&p.Status,
		&p.DeclineCode,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
