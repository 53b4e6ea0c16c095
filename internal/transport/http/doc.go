// Package http implements the HTTP handlers of the club portal API.
// Handlers stay thin: they parse and validate the request, call a service
// and turn the result into JSON or a file download.
//
// # Routes
//
//	GET    /api/health                          health summary
//	GET    /api/health/ready                    readiness, 503 when not ready
//	GET    /api/health/live                     liveness
//	GET    /api/version                         build information
//	GET    /api/exports/kinds                   supported export kinds
//	POST   /api/exports/statistics              statistics of a posted season
//	POST   /api/exports/{kind}                  export of a posted season
//	GET    /api/seasons                         stored seasons
//	GET    /api/seasons/{season}/profile        sailor profile
//	PUT    /api/seasons/{season}/profile        replace sailor profile
//	GET    /api/seasons/{season}/regattas       regatta records
//	POST   /api/seasons/{season}/regattas       add a record
//	PUT    /api/seasons/{season}/regattas/{id}  replace a record
//	DELETE /api/seasons/{season}/regattas/{id}  delete a record
//	GET    /api/seasons/{season}/statistics     statistics of a stored season
//	GET    /api/seasons/{season}/exports/{kind} export of a stored season
//	POST   /api/seasons/{season}/submit         online submission
//
// # Errors
//
// Every failure is answered with an RFC 7807 problem document produced by
// the shared ErrorHandler. Service sentinels are mapped in mapServiceError,
// so a missing IBAN becomes a 422 and a failed relay call a 502.
//
// # Downloads
//
// Export responses carry the artifact bytes with Content-Disposition set
// to the generated filename. Nothing is written to disk by the server.
package http
