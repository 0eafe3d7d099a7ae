// Package services implements the computations behind the demo API:
// password hashing with algorithm selection, hex digests and CRC-32.
//
// Services are stateless apart from their logger and metric instruments and
// are safe for concurrent use.
package services
