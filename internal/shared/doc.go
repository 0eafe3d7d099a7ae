// Package shared holds helpers used across the demo server packages.
//
// The testutil subpackage provides a buffered slog handler so tests can
// assert on structured log output:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc := services.NewPasswordService(passwd.DefaultRegistry(), nil, logger)
//	// ...
//	testutil.AssertLogContains(t, handler, slog.LevelDebug, "password hashed")
package shared
