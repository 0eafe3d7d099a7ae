// Package config provides centralized configuration management for the demo
// server. It loads configuration from multiple sources, validates it, and
// exposes a typed struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DEMO_<SECTION>_<FIELD>:
//
//	DEMO_SERVER_PORT=8051
//	DEMO_POOL_WORKERS=8
//	DEMO_STREAMS_INTERVAL=1s
//	DEMO_LOGGING_LEVEL=debug
//	DEMO_OBSERVABILITY_TRACE_EXPORTER=stdout
//
// The file location can be set with DEMO_CONFIG_FILE; otherwise config.yaml
// and configs/config.yaml are tried.
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time, so a bad
// port, a negative pool size or an unknown log level fails startup instead of
// surfacing later.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use config.Default() and adjust fields directly.
package config
