package domain

import "time"

// Contractor is a payee that may require annual tax reporting. The TIN is
// only ever held encrypted; the plaintext exists transiently during intake
// and reveal.
type Contractor struct {
	ID             string
	Name           string
	Email          string // unique intake identity
	TINEncrypted   []byte // AES-GCM sealed canonical TIN, nil until W-9 received
	W9Received     bool
	W9ReceivedDate *time.Time
	Address        string
	City           string
	State          string // 2-letter state code
	ZipCode        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasTIN reports whether an encrypted TIN is on file.
func (c Contractor) HasTIN() bool { return len(c.TINEncrypted) > 0 }
