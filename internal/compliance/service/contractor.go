package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/domain"
	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/idx"
	"github.com/tallyworks/compliance/pkg/tincrypt"
)

// ContractorService handles W-9 intake and contractor lookups. The TIN is
// encrypted before it ever reaches the store and decrypted only on an
// explicit reveal.
type ContractorService struct {
	Store  store.Store
	Cipher *tincrypt.Cipher
}

// W9Submission is the intake payload for a contractor's W-9 equivalent.
type W9Submission struct {
	Name    string
	Email   string
	TIN     string // SSN or EIN, with or without separators
	Address string
	City    string
	State   string
	ZipCode string
}

func (w W9Submission) validate() error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(w.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case tincrypt.Normalize(w.TIN) == "":
		return fmt.Errorf("%w: tin is required", ErrInvalidInput)
	}
	return nil
}

// SubmitW9 creates or updates the contractor identified by the submission
// email, sealing the TIN and marking the W-9 as received. Resubmission
// replaces the previous TIN ciphertext.
func (s *ContractorService) SubmitW9(ctx context.Context, sub W9Submission) (domain.Contractor, error) {
	if err := sub.validate(); err != nil {
		return domain.Contractor{}, err
	}

	sealed, err := s.Cipher.Encrypt(sub.TIN)
	if err != nil {
		return domain.Contractor{}, fmt.Errorf("encrypt tin: %w", err)
	}

	now := time.Now().UTC()
	received := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var out domain.Contractor
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Contractors().GetByEmail(ctx, sub.Email)
		switch {
		case err == nil:
			existing.Name = sub.Name
			existing.TINEncrypted = sealed
			existing.W9Received = true
			existing.W9ReceivedDate = &received
			existing.Address = sub.Address
			existing.City = sub.City
			existing.State = sub.State
			existing.ZipCode = sub.ZipCode
			out = existing
			return tx.Contractors().Update(ctx, existing)

		case errors.Is(err, store.ErrNotFound):
			out = domain.Contractor{
				ID:             idx.New().String(),
				Name:           sub.Name,
				Email:          sub.Email,
				TINEncrypted:   sealed,
				W9Received:     true,
				W9ReceivedDate: &received,
				Address:        sub.Address,
				City:           sub.City,
				State:          sub.State,
				ZipCode:        sub.ZipCode,
			}
			return tx.Contractors().Create(ctx, out)

		default:
			return err
		}
	})
	if err != nil {
		return domain.Contractor{}, err
	}

	return out, nil
}

// AddContractor registers a contractor without a W-9, e.g. ahead of first
// payment. The TIN arrives later through SubmitW9.
func (s *ContractorService) AddContractor(ctx context.Context, name, email string) (domain.Contractor, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return domain.Contractor{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	c := domain.Contractor{
		ID:    idx.New().String(),
		Name:  name,
		Email: email,
	}
	if err := s.Store.Contractors().Create(ctx, c); err != nil {
		return domain.Contractor{}, err
	}
	return c, nil
}

// GetContractor fetches a contractor by id.
func (s *ContractorService) GetContractor(ctx context.Context, id string) (domain.Contractor, error) {
	c, err := s.Store.Contractors().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Contractor{}, ErrContractorNotFound
	}
	return c, err
}

// ListContractors lists contractors, optionally filtered by W-9 status.
func (s *ContractorService) ListContractors(ctx context.Context, w9Received *bool) ([]domain.Contractor, error) {
	return s.Store.Contractors().List(ctx, w9Received)
}

// HasW9 reports whether the contractor has a W-9 on file. Unknown
// contractors report false rather than an error.
func (s *ContractorService) HasW9(ctx context.Context, id string) (bool, error) {
	c, err := s.Store.Contractors().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.W9Received, nil
}

// RevealTIN decrypts and display-formats a contractor's TIN. This is the
// only path that produces plaintext TINs; callers gate it accordingly.
func (s *ContractorService) RevealTIN(ctx context.Context, id string, kind tincrypt.Kind) (string, error) {
	c, err := s.GetContractor(ctx, id)
	if err != nil {
		return "", err
	}
	if !c.HasTIN() {
		return "", ErrNoTIN
	}

	tin, err := s.Cipher.Decrypt(c.TINEncrypted)
	if err != nil {
		return "", err
	}

	return tincrypt.Format(tin, kind), nil
}
