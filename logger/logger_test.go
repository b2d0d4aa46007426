package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{"JSON output mode", true, 0},
		{"Console output mode", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.Equal(t, tt.verbosity, Verbosity)
			assert.Equal(t, tt.verbosity >= VerbosityDebug, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
}

func TestShouldOutput(t *testing.T) {
	assert.False(t, ShouldOutput(0, OutputProgress))
	assert.True(t, ShouldOutput(1, OutputProgress))
	assert.False(t, ShouldOutput(1, OutputRegistration))
	assert.True(t, ShouldOutput(3, OutputParseDiagnostics))
	assert.False(t, ShouldOutput(2, OutputCategory(99)))
}

func TestEnabled(t *testing.T) {
	saved := Verbosity
	defer func() { Verbosity = saved }()

	Verbosity = VerbosityDebug
	assert.True(t, Enabled(OutputRegistration))
	assert.True(t, Enabled(OutputTiming))
	assert.False(t, Enabled(OutputParseDiagnostics))

	Verbosity = VerbosityTrace
	assert.True(t, Enabled(OutputParseDiagnostics))
}

func TestElapsed(t *testing.T) {
	saved := Verbosity
	defer func() { Verbosity = saved }()
	start := time.Now()

	Verbosity = VerbosityInfo
	assert.Equal(t, []interface{}{FieldCount, 3}, Elapsed(start, FieldCount, 3))

	Verbosity = VerbosityDebug
	fields := Elapsed(start, FieldCount, 3)
	require.Len(t, fields, 4)
	assert.Equal(t, FieldDurationMS, fields[2])
	assert.IsType(t, int64(0), fields[3])
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Trace (-vvv+)", LevelName(5))
	assert.Equal(t, "Unknown", LevelName(-2))
}

func TestComponentLogger(t *testing.T) {
	Logger = nil
	require.NoError(t, Initialize(false, 0))
	l := ComponentLogger("registry")
	require.NotNil(t, l)
	ChildLogger(l, FieldModule, "Core").Debugw("ignored at warn level")
}

func TestChildLogger_Fields(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	core, logs := observer.New(zapcore.InfoLevel)
	Logger = zap.New(core).Sugar()

	l := ChildLogger(ComponentLogger("registry"), FieldModule, "Graphics")
	l.Infow("Registered class", FieldClass, "Drawable")
	l.Debugw("below level")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "registry", entry.LoggerName)
	assert.Equal(t, "Registered class", entry.Message)
	assert.Equal(t, map[string]interface{}{"module": "Graphics", "class": "Drawable"}, entry.ContextMap())
}
