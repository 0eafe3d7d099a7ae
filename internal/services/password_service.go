package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"remotewebdemo/internal/infrastructure"
	"remotewebdemo/internal/passwd"
)

// algorithmPriority is the order in which requested algorithm names are
// matched when a request names several.
var algorithmPriority = []string{
	passwd.MD5Crypt,
	passwd.BCrypt,
	passwd.SHA1Crypt,
	passwd.SunMD5Crypt,
	passwd.SHA256Crypt,
	passwd.SHA512Crypt,
}

// PasswordRequest carries the inputs of one hash computation
type PasswordRequest struct {
	// Algorithms are the requested names; the highest priority exact match wins
	Algorithms []string
	Cleartext  string
	Salt       string
	Rounds     *int
}

// PasswordService hashes passwords with the registered algorithms
type PasswordService struct {
	registry  *passwd.Registry
	maxRounds map[string]int
	metrics  *infrastructure.DemoMetrics
	logger   *slog.Logger
}

// NewPasswordService creates a password service. metrics may be nil.
func NewPasswordService(registry *passwd.Registry, metrics *infrastructure.DemoMetrics, logger *slog.Logger) *PasswordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordService{
		registry: registry,
		metrics:  metrics,
		logger:   logger.With(slog.String("service", "password")),
	}
}

// WithRoundLimits caps the rounds a request may ask for, keyed by algorithm
// name. Zero or missing entries are unlimited.
func (s *PasswordService) WithRoundLimits(limits map[string]int) *PasswordService {
	s.maxRounds = limits
	return s
}

// Algorithms returns the supported algorithm names in lexical order
func (s *PasswordService) Algorithms() []string {
	return s.registry.Names()
}

// Select returns the highest priority algorithm named exactly in candidates
func (s *PasswordService) Select(candidates []string) (string, bool) {
	for _, name := range algorithmPriority {
		for _, c := range candidates {
			if c == name {
				return name, true
			}
		}
	}
	return "", false
}

// Hash computes the password hash for req. The cleartext check runs before
// algorithm selection.
func (s *PasswordService) Hash(ctx context.Context, req PasswordRequest) (string, error) {
	if req.Cleartext == "" {
		return "", ErrNoCleartext
	}

	name, ok := s.Select(req.Algorithms)
	if !ok {
		return "", ErrUnknownAlgorithm
	}
	hasher, err := s.registry.Get(name)
	if err != nil {
		return "", ErrUnknownAlgorithm
	}

	if limit := s.maxRounds[name]; limit > 0 && req.Rounds != nil && *req.Rounds > limit {
		return "", &HashError{
			Algorithm: name,
			Err:       fmt.Errorf("%w: %s rounds exceed limit (max %d)", passwd.ErrInvalidRounds, name, limit),
		}
	}

	start := time.Now()
	hash, err := hasher.Hash(req.Cleartext, passwd.Options{Salt: req.Salt, Rounds: req.Rounds})
	recordHash(ctx, s.metrics, "password", name, start, err)
	if err != nil {
		s.logger.DebugContext(ctx, "password hashing rejected",
			slog.String("algorithm", name),
			slog.String("error", err.Error()))
		return "", &HashError{Algorithm: name, Err: err}
	}

	s.logger.DebugContext(ctx, "password hashed",
		slog.String("algorithm", name),
		slog.Duration("duration", time.Since(start)))
	return hash, nil
}
