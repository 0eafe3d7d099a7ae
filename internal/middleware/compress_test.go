package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	large := strings.Repeat("remote web object ", 200)

	tests := []struct {
		name         string
		contentType  string
		body         string
		acceptGzip   bool
		wantEncoding string
	}{
		{name: "large body compressed", contentType: "application/json", body: large, acceptGzip: true, wantEncoding: "gzip"},
		{name: "client without gzip", contentType: "application/json", body: large},
		{name: "small body left alone", contentType: "application/json", body: "[]", acceptGzip: true},
		{name: "event stream left alone", contentType: "text/event-stream; charset=utf-8", body: large, acceptGzip: true},
	}

	mw, err := Compress(1024)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, tt.body)
			}))

			req := httptest.NewRequest(http.MethodGet, "/demo/", nil)
			if tt.acceptGzip {
				req.Header.Set("Accept-Encoding", "gzip")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantEncoding, rec.Header().Get("Content-Encoding"))

			got := rec.Body.String()
			if tt.wantEncoding == "gzip" {
				zr, err := gzip.NewReader(rec.Body)
				require.NoError(t, err)
				raw, err := io.ReadAll(zr)
				require.NoError(t, err)
				got = string(raw)
			}
			assert.Equal(t, tt.body, got)
		})
	}
}

func TestCompressSkipsWebSocketUpgrade(t *testing.T) {
	mw, err := Compress(1024)
	require.NoError(t, err)

	var gotOriginal bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotOriginal = w.(*httptest.ResponseRecorder)
		w.WriteHeader(http.StatusSwitchingProtocols)
	}))

	req := httptest.NewRequest(http.MethodGet, "/demo/tick", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, gotOriginal, "upgrade requests must reach the handler with the original writer")
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}
