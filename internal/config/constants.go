package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Remote Web Object Demo"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix     = "DEMO"
	ConfigFileEnv = "DEMO_CONFIG_FILE"

	// Server defaults
	DefaultHost         = "localhost"
	DefaultPort         = 8051
	DefaultMaxBodyBytes = 10 << 20 // 10MB
	DefaultQueueSize    = 1024

	// Origin echoed when a request carries no Origin header
	DefaultOrigin = "localhost"

	// Streams
	DefaultStreamInterval = time.Second

	// Paths (relative to the executable, then the working directory)
	DefaultWebDir = "web"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
