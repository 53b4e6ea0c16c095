// Package app wires the club portal server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, PORTAL_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Create business metrics and the season store
//	4. Initialize services with their dependencies
//	5. Set up middleware, handlers and the /metrics endpoint
//	6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests and
// flushes telemetry within the configured shutdown timeout. Errors are
// returned to the caller; the package never calls os.Exit.
package app
