package services

import (
	"context"
	"hash/crc32"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/config"
	"remotewebdemo/internal/infrastructure"
	"remotewebdemo/internal/shared/testutil"
)

func TestDigestService_Digest(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		data      string
		want      string
		wantErr   error
	}{
		{
			name:      "sha256 abc",
			algorithm: "sha256",
			data:      "abc",
			want:      "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		{
			name:      "sha512 abc",
			algorithm: "sha512",
			data:      "abc",
			want:      "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
		{
			name:      "sha256 utf-8 input",
			algorithm: "sha256",
			data:      "",
			want:      "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:      "unknown",
			algorithm: "md5",
			data:      "abc",
			wantErr:   ErrUnknownAlgorithm,
		},
		{
			name:      "case sensitive",
			algorithm: "SHA256",
			data:      "abc",
			wantErr:   ErrUnknownAlgorithm,
		},
	}

	logger, _ := testutil.NewTestLogger(t)
	s := NewDigestService(nil, logger)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Digest(context.Background(), tt.algorithm, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigestService_CRC32(t *testing.T) {
	s := NewDigestService(nil, nil)
	ctx := context.Background()

	assert.Equal(t, uint32(891568578), s.CRC32(ctx, "abc", 0))
	assert.Equal(t, uint32(0), s.CRC32(ctx, "", 0))

	// a seed continues a running checksum
	first := s.CRC32(ctx, "ab", 0)
	assert.Equal(t, crc32.ChecksumIEEE([]byte("abc")), s.CRC32(ctx, "c", first))
}

func TestDigestService_Algorithms(t *testing.T) {
	assert.Equal(t, []string{"sha256", "sha512"}, NewDigestService(nil, nil).Algorithms())
}

func TestServicesRecordMetrics(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(config.ObservabilityConfig{TraceExporter: "none", EnableMetrics: true}, testLoggerDiscard())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateDemoMetrics(providers.Meter)
	require.NoError(t, err)

	s := NewDigestService(metrics, nil)
	_, err = s.Digest(context.Background(), "sha256", "abc")
	require.NoError(t, err)
	s.CRC32(context.Background(), "abc", 0)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "hash_operations_total" {
			found = true
			var total float64
			for _, m := range f.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			assert.Equal(t, float64(2), total)
		}
	}
	assert.True(t, found, "hash_operations_total not exported")
}

func testLoggerDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
