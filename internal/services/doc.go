// Package services implements the business logic between the HTTP handlers
// and the exporters. Handlers never call a formatter directly.
//
// # Services
//
//	- ExportService: precondition checks, payment derivation and rendering of
//	  every export kind, including the concurrent zip bundle
//	- SeasonService: stored seasons (profile and regattas) and exports of them
//	- SubmissionService: single-attempt online submission through the relay
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Preconditions surface as sentinel errors (ErrNoRecords, ErrMissingIBAN,
// ErrCreditorNotConfigured) before any formatter runs. Handlers map them to
// problem responses with errors.Is:
//
//	artifact, err := exports.SEPA(ctx, export, "")
//	if errors.Is(err, services.ErrMissingIBAN) {
//	    // 422
//	}
//
// Relay failures wrap ErrSubmissionFailed and are never retried.
package services
