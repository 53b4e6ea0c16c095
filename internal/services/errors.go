package services

import "errors"

// Export preconditions, checked before any formatter runs
var (
	ErrNoRecords             = errors.New("no regatta records")
	ErrMissingIBAN           = errors.New("profile has no IBAN")
	ErrCreditorNotConfigured = errors.New("club account for SEPA transfers is not configured")
)

// Export errors
var (
	ErrUnknownExportKind = errors.New("unknown export kind")
)

// Online submission errors
var (
	ErrSubmissionNotConfigured = errors.New("online submission is not configured")
	ErrSubmissionFailed        = errors.New("online submission failed")
)
