package service

import "errors"

var (
	// ErrContractorNotFound reports an operation against an unknown
	// contractor id or email.
	ErrContractorNotFound = errors.New("service: contractor not found")

	// ErrInvalidInput reports a request that fails basic field validation.
	ErrInvalidInput = errors.New("service: invalid input")

	// ErrNegativeAmount reports a payment with a negative amount.
	ErrNegativeAmount = errors.New("service: payment amount must not be negative")

	// ErrDuplicatePayment reports a payment whose external processor
	// reference was already recorded.
	ErrDuplicatePayment = errors.New("service: duplicate payment reference")

	// ErrNoTIN reports a TIN reveal for a contractor with no TIN on file.
	ErrNoTIN = errors.New("service: no tin on file")

	// ErrInvalidYear reports a reporting operation without a usable tax year.
	ErrInvalidYear = errors.New("service: invalid tax year")
)
