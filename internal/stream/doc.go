// Package stream implements the demo's server-push feeds. A Source yields
// named events at a fixed interval; Responder writes them either as
// text/event-stream or, for upgrade requests, as websocket JSON messages.
package stream
