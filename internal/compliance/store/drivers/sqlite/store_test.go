package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tallyworks/compliance/internal/compliance/domain"
	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func seedContractor(t *testing.T, s *Store, name, email string) domain.Contractor {
	t.Helper()

	c := domain.Contractor{
		ID:    idx.New().String(),
		Name:  name,
		Email: email,
		State: "CA",
	}
	require.NoError(t, s.Contractors().Create(context.Background(), c))
	return c
}

func TestContractorsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("create and get", func(t *testing.T) {
		w9Date := date(2026, 2, 1)
		c := domain.Contractor{
			ID:             idx.New().String(),
			Name:           "Ada Example",
			Email:          "ada@example.com",
			TINEncrypted:   []byte{0xde, 0xad, 0xbe, 0xef},
			W9Received:     true,
			W9ReceivedDate: &w9Date,
			Address:        "1 Main St",
			City:           "Springfield",
			State:          "IL",
			ZipCode:        "62701",
		}
		require.NoError(t, s.Contractors().Create(ctx, c))

		got, err := s.Contractors().GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, c.Email, got.Email)
		require.Equal(t, c.TINEncrypted, got.TINEncrypted)
		require.True(t, got.W9Received)
		require.NotNil(t, got.W9ReceivedDate)
		require.True(t, w9Date.Equal(*got.W9ReceivedDate))

		byEmail, err := s.Contractors().GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, c.ID, byEmail.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := domain.Contractor{ID: idx.New().String(), Name: "Other", Email: "ada@example.com"}
		err := s.Contractors().Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing contractor maps to not found", func(t *testing.T) {
		_, err := s.Contractors().GetByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Contractors().Update(ctx, domain.Contractor{ID: idx.New().String(), Email: "x@example.com"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update refreshes w9 fields", func(t *testing.T) {
		c, err := s.Contractors().GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)

		c.TINEncrypted = []byte{0x01}
		c.Name = "Ada B. Example"
		require.NoError(t, s.Contractors().Update(ctx, c))

		got, err := s.Contractors().GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada B. Example", got.Name)
		require.Equal(t, []byte{0x01}, got.TINEncrypted)
	})

	t.Run("list filters by w9 status", func(t *testing.T) {
		seedContractor(t, s, "Pending Person", "pending@example.com")

		all, err := s.Contractors().List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)

		received := true
		withW9, err := s.Contractors().List(ctx, &received)
		require.NoError(t, err)
		require.Len(t, withW9, 1)
		require.Equal(t, "ada@example.com", withW9[0].Email)

		ids, err := s.Contractors().ListIDs(ctx)
		require.NoError(t, err)
		require.Len(t, ids, 2)

		empty, err := s.Contractors().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})
}

func TestPaymentsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := seedContractor(t, s, "Ada Example", "ada@example.com")

	pay := func(amount string, on time.Time, ref string) domain.Payment {
		p := domain.Payment{
			ID:           idx.New().String(),
			ContractorID: c.ID,
			Amount:       decimal.RequireFromString(amount),
			Date:         on,
			ExternalRef:  ref,
		}
		require.NoError(t, s.Payments().Create(ctx, p))
		return p
	}

	pay("800.00", date(2026, 1, 15), "ch_001")
	pay("500.00", date(2026, 2, 1), "")
	pay("42.50", date(2025, 12, 31), "")

	t.Run("amounts and dates survive the round trip exactly", func(t *testing.T) {
		payments, err := s.Payments().ListForContractor(ctx, c.ID, nil, nil)
		require.NoError(t, err)
		require.Len(t, payments, 3)

		// Ordered by date.
		require.True(t, payments[0].Amount.Equal(decimal.RequireFromString("42.50")))
		require.True(t, payments[1].Amount.Equal(decimal.RequireFromString("800.00")))
		require.Equal(t, domain.DefaultPaymentCategory, payments[0].Category)
	})

	t.Run("inclusive date bounds", func(t *testing.T) {
		from := date(2026, 1, 1)
		to := date(2026, 12, 31)
		payments, err := s.Payments().ListForContractor(ctx, c.ID, &from, &to)
		require.NoError(t, err)
		require.Len(t, payments, 2)

		// A payment landing exactly on the boundary is included.
		edge := date(2025, 12, 31)
		payments, err = s.Payments().ListForContractor(ctx, c.ID, &edge, &edge)
		require.NoError(t, err)
		require.Len(t, payments, 1)
	})

	t.Run("unknown contractor yields empty, not error", func(t *testing.T) {
		payments, err := s.Payments().ListForContractor(ctx, idx.New().String(), nil, nil)
		require.NoError(t, err)
		require.Empty(t, payments)
	})

	t.Run("duplicate external ref rejected", func(t *testing.T) {
		p := domain.Payment{
			ID:           idx.New().String(),
			ContractorID: c.ID,
			Amount:       decimal.RequireFromString("10.00"),
			Date:         date(2026, 3, 1),
			ExternalRef:  "ch_001",
		}
		err := s.Payments().Create(ctx, p)
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		exists, err := s.Payments().ExistsByExternalRef(ctx, "ch_001")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = s.Payments().ExistsByExternalRef(ctx, "ch_999")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("empty external refs do not collide", func(t *testing.T) {
		// Two payments without a processor ref were both inserted above.
		payments, err := s.Payments().ListForContractor(ctx, c.ID, nil, nil)
		require.NoError(t, err)
		require.Len(t, payments, 3)
	})
}

func TestFormsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := seedContractor(t, s, "Ada Example", "ada@example.com")

	form := domain.Form1099{
		ID:           idx.New().String(),
		Year:         2026,
		ContractorID: c.ID,
		TotalPaid:    decimal.RequireFromString("1300.00"),
	}
	require.NoError(t, s.Forms1099().Create(ctx, form))

	t.Run("get and list", func(t *testing.T) {
		got, err := s.Forms1099().GetForYear(ctx, c.ID, 2026)
		require.NoError(t, err)
		require.True(t, got.TotalPaid.Equal(form.TotalPaid))
		require.False(t, got.Filed)

		forms, err := s.Forms1099().ListByYear(ctx, 2026)
		require.NoError(t, err)
		require.Len(t, forms, 1)

		forms, err = s.Forms1099().ListByYear(ctx, 2025)
		require.NoError(t, err)
		require.Empty(t, forms)
	})

	t.Run("one form per contractor per year", func(t *testing.T) {
		dup := domain.Form1099{
			ID:           idx.New().String(),
			Year:         2026,
			ContractorID: c.ID,
			TotalPaid:    decimal.RequireFromString("999.00"),
		}
		require.ErrorIs(t, s.Forms1099().Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("delete then recreate", func(t *testing.T) {
		require.NoError(t, s.Forms1099().DeleteForYear(ctx, c.ID, 2026))

		_, err := s.Forms1099().GetForYear(ctx, c.ID, 2026)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Contractors().Create(ctx, domain.Contractor{
			ID:    idx.New().String(),
			Name:  "Ghost",
			Email: "ghost@example.com",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Contractors().GetByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Contractors().Create(ctx, domain.Contractor{
			ID:    idx.New().String(),
			Name:  "Kept",
			Email: "kept@example.com",
		})
	})
	require.NoError(t, err)

	_, err = s.Contractors().GetByEmail(ctx, "kept@example.com")
	require.NoError(t, err)
}
