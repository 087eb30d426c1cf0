package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{"JSON output mode", true, 0},
		{"Console output mode", false, 0},
		{"Console debug", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			// Helpers must be safe to call after initialization
			Debugw("debug", FieldBlockID, "b1")
			Infow("info", FieldCount, 1)
			Cleanup()
		})
	}
}

func TestHelpersWithNilLogger(t *testing.T) {
	Logger = nil
	defer func() { Logger = nil; _ = Initialize(false, 0) }()

	assert.NotPanics(t, func() {
		Infow("x")
		Warnw("x")
		Errorw("x")
		Debugw("x")
		Cleanup()
	})
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{10, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.True(t, ShouldOutput(VerbosityUser, OutputErrors))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputWatchEvents))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputConfig))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputHelpers))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputBlockDispatch))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputBlockDispatch))

	// Unknown categories need full verbosity
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputCategory(99)))
}

func TestEnabled(t *testing.T) {
	defer func() { _ = Initialize(false, 0) }()

	require.NoError(t, Initialize(false, VerbosityDebug))
	assert.True(t, Enabled(OutputTiming))
	assert.False(t, Enabled(OutputBlockDispatch))

	require.NoError(t, Initialize(false, VerbosityUser))
	assert.False(t, Enabled(OutputTiming))
}

func TestVerbosityDescription(t *testing.T) {
	assert.Equal(t, "programs and errors only", VerbosityDescription(0))
	assert.Equal(t, "above + every rendered block", VerbosityDescription(5))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv)", LevelName(7))
}
