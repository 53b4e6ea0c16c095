// Package config provides centralized configuration management for the portal.
// It loads configuration from defaults, an optional YAML file and environment
// variables, validates it, and exposes a type-safe struct tree.
//
// # Configuration Sources
//
// Configuration is applied in the following order, later sources winning:
//
//	1. Default values (Default())
//	2. YAML file (PORTAL_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern PORTAL_<SECTION>_<KEY>:
//
//	PORTAL_SERVER_PORT=8080
//	PORTAL_LOGGING_LEVEL=debug
//	PORTAL_CREDITOR_IBAN="DE02 1203 0000 0000 2020 51"
//	PORTAL_EXPORT_CSV_QUOTE_FIELDS=true
//	PORTAL_SUBMISSION_RELAY_URL=https://forms.example.org/relay
//
// # Creditor
//
// The club account used for SEPA exports is configuration, never a constant
// in code. SEPA exports are refused until PORTAL_CREDITOR_IBAN (or
// creditor.iban in YAML) is set.
package config
