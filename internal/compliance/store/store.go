package store

import (
	"context"
	"errors"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and is handed to services explicitly rather than living in
// package-level state.
type Store interface {
	Contractors() Contractors
	Payments() Payments
	Forms1099() Forms1099

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for most callers.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Contractors interface {
	// GetByID returns a contractor by id.
	GetByID(ctx context.Context, id string) (domain.Contractor, error)

	// GetByEmail returns a contractor by email (the W-9 intake identity).
	GetByEmail(ctx context.Context, email string) (domain.Contractor, error)

	// Create inserts a new contractor (id is provided by the app via ULID).
	Create(ctx context.Context, c domain.Contractor) error

	// Update replaces the mutable fields of an existing contractor and
	// bumps updated_at. Used when a W-9 is resubmitted.
	Update(ctx context.Context, c domain.Contractor) error

	// List returns contractors ordered by creation date (newest first).
	// w9Received filters by W-9 status when non-nil.
	List(ctx context.Context, w9Received *bool) ([]domain.Contractor, error)

	// ListIDs returns all known contractor ids. This is the iteration
	// surface the threshold classification walks.
	ListIDs(ctx context.Context) ([]string, error)

	// IsEmpty returns true if there are no contractors.
	IsEmpty(ctx context.Context) (bool, error)
}

type Payments interface {
	// Create inserts a new payment record.
	Create(ctx context.Context, p domain.Payment) error

	// GetByID returns a payment by id.
	GetByID(ctx context.Context, id string) (domain.Payment, error)

	// ListForContractor returns the contractor's payments ordered by date,
	// restricted to [from, to] inclusive when the bounds are non-nil. An
	// unknown contractor yields an empty slice, not an error.
	ListForContractor(ctx context.Context, contractorID string, from, to *time.Time) ([]domain.Payment, error)

	// ExistsByExternalRef reports whether a payment with the given
	// processor reference was already recorded. Guards duplicate ingestion.
	ExistsByExternalRef(ctx context.Context, ref string) (bool, error)
}

type Forms1099 interface {
	// Create inserts a new form record.
	Create(ctx context.Context, f domain.Form1099) error

	// GetForYear returns the form for a contractor and year.
	GetForYear(ctx context.Context, contractorID string, year int) (domain.Form1099, error)

	// ListByYear returns all forms for a tax year ordered by creation.
	ListByYear(ctx context.Context, year int) ([]domain.Form1099, error)

	// DeleteForYear removes a contractor's form for a year. Used when
	// regenerating forms from fresh totals.
	DeleteForYear(ctx context.Context, contractorID string, year int) error
}
