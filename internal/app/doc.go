// Package app wires the demo server together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML and DEMO_* environment variables
//	2. Initialize logging and OpenTelemetry
//	3. Create the worker pool, hashing services and stream responder
//	4. Build the chi router and middleware chain
//	5. Bind the listener and hand accepted connections to pool workers
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := app.NewApplication(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := a.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM open event streams are ended, in-flight requests are
// given ShutdownTimeout to finish, then the pool is stopped and telemetry is
// flushed.
package app
