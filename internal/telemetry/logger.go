// Package telemetry builds the zap.Logger instances handed to
// stream.Processor and used by the demo binary. Grounded on the
// logger-construction shape repeated across gonimbus's internal/cmd/*.go
// files: one call at startup selects a profile, and everything downstream
// takes the resulting *zap.Logger as a plain dependency rather than
// reaching for a package-level global.
package telemetry

import "go.uber.org/zap"

// Profile selects a logger's encoding and default level.
type Profile int

const (
	// ProfileProduction emits JSON-encoded, info-level-and-above logs.
	ProfileProduction Profile = iota
	// ProfileDevelopment emits console-encoded, debug-level-and-above logs
	// with stack traces on warnings.
	ProfileDevelopment
	// ProfileNop discards every log line. Used in tests and anywhere a
	// caller prefers silence over passing around a nil-check.
	ProfileNop
)

// New builds a *zap.Logger for profile. A construction failure falls back
// to a no-op logger rather than propagating an error, since logger setup
// failing should never prevent the matcher itself from starting.
func New(profile Profile) *zap.Logger {
	switch profile {
	case ProfileDevelopment:
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	case ProfileNop:
		return zap.NewNop()
	default:
		l, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
}
