package certificates

import "errors"

var (
	ErrCertificateNotFound     = errors.New("Certificate not found")
	ErrCertificateDateRequired = errors.New("Certificate date is required")
	ErrTreatmentDateRequired   = errors.New("Date of treatment is required")
	ErrCustomerNameRequired    = errors.New("Customer name is required")
	ErrInvalidDate             = errors.New("Invalid date")
	ErrInvalidItemRef          = errors.New("Invalid item reference")

	// ErrDuplicateNumber surfaces after the bounded numbering retry is
	// exhausted, or immediately when an explicit suffix collides.
	ErrDuplicateNumber = errors.New("Certificate number already exists")
)
