package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/capsulec/internal/shared/errors"
	"github.com/GriffinCanCode/capsulec/internal/shared/id"
	"github.com/GriffinCanCode/capsulec/internal/shared/types"
)

func TestCapsuleFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	logger.Info("Compilation finished",
		BuildID(id.BuildID("01HZX")),
		Platform(types.PlatformIOS),
		Status(types.StatusSucceeded),
	)
	logger.Debug("Instance failed to render",
		InstanceID("hero"),
		CapsuleID("card"),
		IssueCode(errors.ErrUnknownCapsule),
		File("catalog/card.yaml"),
	)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		KeyBuildID:  "01HZX",
		KeyPlatform: "ios",
		KeyStatus:   string(types.StatusSucceeded),
	}, entries[0].ContextMap())
	assert.Equal(t, map[string]interface{}{
		KeyInstanceID: "hero",
		KeyCapsuleID:  "card",
		KeyIssueCode:  "UNKNOWN_CAPSULE",
		KeyFile:       "catalog/card.yaml",
	}, entries[1].ContextMap())
}

func TestForPlatform(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := ForPlatform(zap.New(core), types.PlatformWeb)

	logger.Info("one")
	logger.Warn("two", CapsuleID("button"))

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "web", entry.ContextMap()[KeyPlatform])
	}
	assert.Equal(t, 1, logs.FilterField(CapsuleID("button")).Len())
}
