// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines for machine parsing
//   - Development: colored console output
//
// Logs go to stderr by default so generated output on stdout stays clean.
//
// Field helpers (Platform, CapsuleID, InstanceID, BuildID, Status) give every
// package the same keys for the same things.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Compilation finished", logging.Platform(types.PlatformWeb))
package logging
