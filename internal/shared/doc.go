// Package shared holds code used across layers that belongs to none of them.
//
// The testutil subpackage provides a capturing slog handler and season
// fixtures (profile, regatta records) for package tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewExportService(cfg, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "export rendered")
package shared
