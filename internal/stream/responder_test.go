package stream

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/config"
	"remotewebdemo/internal/infrastructure"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServeSSE(t *testing.T) {
	responder := NewResponder(nil, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/demo/tick", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	responder.Serve(rec, req, NewTick(10*time.Millisecond), "http://example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentTypeEventStream, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, rec.Flushed)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "event: tick\ndata: 1\n\nevent: tick\ndata: 2\n\n"),
		"unexpected body %q", rec.Body.String())
}

func TestServeSSEOverConnection(t *testing.T) {
	responder := NewResponder(nil, discardLogger())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.Serve(w, r, NewTick(5*time.Millisecond), "localhost")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "localhost", resp.Header.Get("Access-Control-Allow-Origin"))

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 6 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		lines = append(lines, line)
	}
	assert.Equal(t, []string{
		"event: tick\n", "data: 1\n", "\n",
		"event: tick\n", "data: 2\n", "\n",
	}, lines)
}

func TestResponderCloseEndsStreams(t *testing.T) {
	responder := NewResponder(nil, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/demo/clock", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		responder.Serve(rec, req, NewClock(time.Hour), "localhost")
	}()

	responder.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after Close")
	}
}

func TestServeWebSocket(t *testing.T) {
	responder := NewResponder(nil, discardLogger())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.Serve(w, r, NewTick(5*time.Millisecond), "localhost")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	for want := 1; want <= 2; want++ {
		var msg struct {
			Data  int    `json:"data"`
			Event string `json:"event"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "tick", msg.Event)
		assert.Equal(t, want, msg.Data)
	}
}

func TestStreamMetrics(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(config.ObservabilityConfig{TraceExporter: "none", EnableMetrics: true}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateDemoMetrics(providers.Meter)
	require.NoError(t, err)

	responder := NewResponder(metrics, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/demo/tick", nil).WithContext(ctx)
	responder.Serve(httptest.NewRecorder(), req, NewTick(10*time.Millisecond), "localhost")

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[f.GetName()] += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				values[f.GetName()] += g.GetValue()
			}
		}
	}

	assert.Greater(t, values["stream_events_total"], float64(0))
	assert.Equal(t, float64(0), values["stream_active_connections"])
}

func TestServeAssignsTraceID(t *testing.T) {
	tests := []struct {
		name    string
		traceID string
	}{
		{name: "generated when missing"},
		{name: "kept from request", traceID: "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			logger, _, err := infrastructure.NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &buf)
			require.NoError(t, err)
			responder := NewResponder(nil, logger)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			if tt.traceID != "" {
				ctx = infrastructure.WithTraceID(ctx, tt.traceID)
			}
			req := httptest.NewRequest(http.MethodGet, "/demo/tick", nil).WithContext(ctx)

			responder.Serve(httptest.NewRecorder(), req, NewTick(10*time.Millisecond), "http://example.com")

			var opened string
			for _, line := range strings.Split(buf.String(), "\n") {
				if strings.Contains(line, `"msg":"Stream opened"`) {
					opened = line
				}
			}
			require.NotEmpty(t, opened, "no open log in %q", buf.String())
			if tt.traceID != "" {
				assert.Contains(t, opened, `"trace_id":"`+tt.traceID+`"`)
			} else {
				assert.Regexp(t, `"trace_id":"[0-9a-f-]{36}"`, opened)
			}
		})
	}
}
