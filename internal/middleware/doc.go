// Package middleware holds the HTTP middleware chain of the demo server:
// request ids, real client addresses, OpenTelemetry spans and request
// metrics, structured request logging, panic recovery and CORS preflight
// handling.
//
// Compress is optional and wired only when the server enables it.
package middleware
