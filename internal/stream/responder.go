package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"remotewebdemo/internal/infrastructure"
)

// ContentTypeEventStream is the media type of server-sent event responses
const ContentTypeEventStream = "text/event-stream; charset=utf-8"

const (
	transportSSE       = "sse"
	transportWebSocket = "websocket"

	// Time allowed to write a message to a websocket peer
	writeWait = 10 * time.Second
)

// wireMessage is the websocket framing of an event
type wireMessage struct {
	Data  json.RawMessage `json:"data"`
	Event string          `json:"event"`
}

// Responder writes event sources to clients as server-sent events, or as
// JSON websocket messages when the request asks for an upgrade.
type Responder struct {
	metrics  *infrastructure.DemoMetrics
	logger   *slog.Logger
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// NewResponder creates a Responder. metrics may be nil.
func NewResponder(metrics *infrastructure.DemoMetrics, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Responder{
		metrics: metrics,
		logger:  logger.With(slog.String("component", "stream")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close ends every open stream
func (s *Responder) Close() {
	s.cancel()
}

// Serve writes events from src until the client goes away, the request
// context ends or the Responder is closed. Termination is never an error.
func (s *Responder) Serve(w http.ResponseWriter, r *http.Request, src Source, origin string) {
	// Stream logs stay correlated when Serve is reached without RequestID
	ctx, cancel := context.WithCancel(infrastructure.EnsureTraceID(r.Context()))
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	if websocket.IsWebSocketUpgrade(r) {
		s.serveWebSocket(ctx, w, r, src)
		return
	}
	s.serveSSE(ctx, w, src, origin)
}

func (s *Responder) serveSSE(ctx context.Context, w http.ResponseWriter, src Source, origin string) {
	h := w.Header()
	h.Set("Content-Type", ContentTypeEventStream)
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Cache-Control", "no-cache")

	rc := http.NewResponseController(w)
	// Streams outlive any server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.WarnContext(ctx, "Response does not support flushing", slog.String("error", err.Error()))
		return
	}

	done := s.track(ctx, transportSSE)
	sent := int64(0)
	defer func() { done(sent) }()

	for {
		ev, err := src.Next(ctx)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
		sent++
		s.recordEvent(ctx, transportSSE, ev.Name)
	}
}

func (s *Responder) serveWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request, src Source) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		s.logger.InfoContext(ctx, "WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Reading is required to process close and ping frames
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	done := s.track(ctx, transportWebSocket)
	sent := int64(0)
	defer func() { done(sent) }()

	for {
		ev, err := src.Next(ctx)
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(wireMessage{Data: json.RawMessage(ev.Data), Event: ev.Name}); err != nil {
			return
		}
		sent++
		s.recordEvent(ctx, transportWebSocket, ev.Name)
	}
}

// track records an open stream and returns the func that records its end
func (s *Responder) track(ctx context.Context, transport string) func(sent int64) {
	start := time.Now()
	attrs := metric.WithAttributes(attribute.String("transport", transport))
	if s.metrics != nil && s.metrics.StreamsActive != nil {
		s.metrics.StreamsActive.Add(ctx, 1, attrs)
	}
	s.logger.DebugContext(ctx, "Stream opened", slog.String("transport", transport))

	return func(sent int64) {
		// ctx is done by now
		bg := context.WithoutCancel(ctx)
		if s.metrics != nil && s.metrics.StreamsActive != nil {
			s.metrics.StreamsActive.Add(bg, -1, attrs)
		}
		s.logger.DebugContext(bg, "Stream closed",
			slog.String("transport", transport),
			slog.Int64("events_sent", sent),
			slog.Duration("duration", time.Since(start)))
	}
}

func (s *Responder) recordEvent(ctx context.Context, transport, event string) {
	if s.metrics == nil || s.metrics.StreamEventsTotal == nil {
		return
	}
	s.metrics.StreamEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("event", event),
	))
}
