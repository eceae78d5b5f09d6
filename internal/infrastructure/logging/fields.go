package logging

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/id"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

// Field keys shared by every component, so log lines join across packages
const (
	KeyPlatform   = "platform"
	KeyCapsuleID  = "capsule_id"
	KeyInstanceID = "instance_id"
	KeyBuildID    = "build_id"
	KeyStatus     = "status"
	KeyIssueCode  = "code"
	KeyFile       = "file"
)

// Platform tags a line with its compile target.
func Platform(p types.Platform) zap.Field {
	return zap.String(KeyPlatform, string(p))
}

// CapsuleID tags a line with a catalog capsule.
func CapsuleID(id string) zap.Field {
	return zap.String(KeyCapsuleID, id)
}

// InstanceID tags a line with a composition node.
func InstanceID(id string) zap.Field {
	return zap.String(KeyInstanceID, id)
}

// BuildID tags a line with one compile run.
func BuildID(b id.BuildID) zap.Field {
	return zap.String(KeyBuildID, b.String())
}

// Status tags a line with a compilation outcome.
func Status(s types.Status) zap.Field {
	return zap.String(KeyStatus, string(s))
}

// IssueCode tags a line with a diagnostic code.
func IssueCode(c errors.Code) zap.Field {
	return zap.String(KeyIssueCode, string(c))
}

// File tags a line with a catalog or output path.
func File(path string) zap.Field {
	return zap.String(KeyFile, path)
}

// ForPlatform returns a child logger whose lines all carry the platform.
func ForPlatform(logger *zap.Logger, p types.Platform) *zap.Logger {
	return logger.With(Platform(p))
}
