package config

import "time"

// Application constants
const (
	AppName = "Club Portal Startgeld-Export"

	// Document defaults
	DefaultClubName      = "Segel-Club"
	DefaultFooterCaption = "Startgeld-Erstattung - erstellt mit dem Vereinsportal"

	// SEPA identifiers: message ID is <prefix>-<YYYYMMDDHHmmss>,
	// end-to-end IDs are <prefix>-<1-based index>
	DefaultSEPAMessagePrefix  = "TSC"
	DefaultSEPAEndToEndPrefix = "STARTGELD"
	DefaultSEPAFilename       = "sepa-ueberweisung.xml"

	// Network Timeouts
	DefaultSubmissionTimeout = 15 * time.Second

	// File Paths (relative to the working directory unless absolute)
	DefaultExportsDir = "exports"
	DefaultLogsDir    = "logs"
)
