package services

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"log/slog"
	"time"

	"remotewebdemo/internal/infrastructure"
)

// Digest algorithm names
const (
	SHA256 = "sha256"
	SHA512 = "sha512"
)

var digests = map[string]func() hash.Hash{
	SHA256: sha256.New,
	SHA512: sha512.New,
}

// DigestService computes hex digests and CRC-32 checksums
type DigestService struct {
	metrics *infrastructure.DemoMetrics
	logger  *slog.Logger
}

// NewDigestService creates a digest service. metrics may be nil.
func NewDigestService(metrics *infrastructure.DemoMetrics, logger *slog.Logger) *DigestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestService{
		metrics: metrics,
		logger:  logger.With(slog.String("service", "digest")),
	}
}

// Algorithms returns the supported digest names
func (s *DigestService) Algorithms() []string {
	return []string{SHA256, SHA512}
}

// Digest returns the lowercase hex digest of data's UTF-8 bytes
func (s *DigestService) Digest(ctx context.Context, algorithm, data string) (string, error) {
	newHash, ok := digests[algorithm]
	if !ok {
		return "", ErrUnknownAlgorithm
	}

	start := time.Now()
	h := newHash()
	h.Write([]byte(data))
	sum := hex.EncodeToString(h.Sum(nil))
	recordHash(ctx, s.metrics, "digest", algorithm, start, nil)
	return sum, nil
}

// CRC32 continues the IEEE CRC-32 running value seed over data.
// A zero seed yields the standard checksum.
func (s *DigestService) CRC32(ctx context.Context, data string, seed uint32) uint32 {
	start := time.Now()
	sum := crc32.Update(seed, crc32.IEEETable, []byte(data))
	recordHash(ctx, s.metrics, "crc", "crc32", start, nil)
	return sum
}
