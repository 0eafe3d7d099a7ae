// Package http adapts the demo's transport-independent dispatcher to
// net/http. DemoHandler is mounted as the catch-all route of the chi router:
//
//	r.Handle("/*", demoHandler)
//
// JSON and JSON-Patch results are written byte-exact with the request's
// origin echoed in Access-Control-Allow-Origin. Errors go through the shared
// ErrorHandler as plain text without CORS headers. Stream results are handed
// to the stream.Responder, which picks server-sent events or a websocket
// depending on the request.
package http
