// Package dispatch turns a normalized request into a Result. Routing looks
// only at the path segments, the method and the Accept header; no transport
// types leak in, so every route can be tested without an HTTP server.
package dispatch
