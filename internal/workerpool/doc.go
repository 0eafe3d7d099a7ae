// Package workerpool provides the connection concurrency model of the demo
// server: a bounded Pool of workers fed by a FIFO queue, and a Listener that
// binds every accepted connection to one worker for as long as it stays open.
// A long-lived event stream therefore occupies exactly one worker and never
// delays connections served by the others.
package workerpool
