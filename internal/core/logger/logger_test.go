package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInit_Development verifies development initialization succeeds.
func TestInit_Development(t *testing.T) {
	err := Init("development", "debug")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

// TestInit_Production verifies production initialization succeeds.
func TestInit_Production(t *testing.T) {
	err := Init("production", "info")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

// TestInit_InvalidLevel verifies an unknown level falls back to the config default.
func TestInit_InvalidLevel(t *testing.T) {
	err := Init("development", "not-a-level")
	require.NoError(t, err)
	assert.NotNil(t, Get())
}

// TestGet_Uninitialized verifies Get never returns nil.
func TestGet_Uninitialized(t *testing.T) {
	saved := globalLogger
	globalLogger = nil
	defer func() { globalLogger = saved }()

	assert.NotNil(t, Get())
	assert.NotPanics(t, func() { Get().Info("noop") })
	assert.NotPanics(t, func() { Named("test").Debug("noop") })
}
