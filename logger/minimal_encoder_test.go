package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return ansi.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

var noon = time.Date(2026, 1, 2, 12, 0, 0, 0, time.Local)

func TestMinimalEncoder_Layout(t *testing.T) {
	line := encode(t, newMinimalEncoder(),
		zapcore.Entry{Level: zapcore.InfoLevel, Time: noon, Message: "Generated input"},
		zap.String(FieldSource, "robot.json"),
		zap.Int(FieldDurationMS, 12))

	assert.Equal(t, "12:00:00  Generated input  source=robot.json duration_ms=12\n", line)
}

func TestMinimalEncoder_Levels(t *testing.T) {
	enc := newMinimalEncoder()

	warn := encode(t, enc, zapcore.Entry{Level: zapcore.WarnLevel, Time: noon, Message: "careful"})
	assert.Equal(t, "12:00:00  WARN  careful\n", warn)

	errLine := encode(t, enc, zapcore.Entry{Level: zapcore.ErrorLevel, Time: noon, Message: "broken"})
	assert.Equal(t, "12:00:00  ERROR  broken\n", errLine)

	debug := encode(t, enc, zapcore.Entry{Level: zapcore.DebugLevel, Time: noon, Message: "detail"})
	assert.Equal(t, "12:00:00  debug  detail\n", debug)
}

func TestMinimalEncoder_NeverDiscardsFields(t *testing.T) {
	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldBlockID, "b1"), "block_id=b1"},
		{zap.String(FieldBlockType, "math_number"), "block_type=math_number"},
		{zap.Bool("legacy", true), "legacy=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("slots", []string{"A", "B"}), "slots=[A B]"},
		{zap.Int32("int32_field", 42), "int32_field=42"},
		{zap.Int64(FieldCount, 9999999), "count=9999999"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	line := encode(t, newMinimalEncoder(),
		zapcore.Entry{Level: zapcore.InfoLevel, Time: noon, Message: "fields"}, fields...)
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, line, tf.mustFind)
		}
	}
}

func TestMinimalEncoder_ErrorsOmitStack(t *testing.T) {
	err := errors.Wrap(errors.New("boom"), "input robot.json")

	line := encode(t, newMinimalEncoder(),
		zapcore.Entry{Level: zapcore.WarnLevel, Time: noon, Message: "failed"},
		zap.Error(err))

	assert.Equal(t, "12:00:00  WARN  failed  error=input robot.json: boom\n", line)
	assert.NotContains(t, line, "errorVerbose")
}

func TestMinimalEncoder_ContextFields(t *testing.T) {
	enc := newMinimalEncoder().Clone()
	enc.AddString(FieldComponent, "watch")
	enc.AddInt(FieldWorkers, 4)
	enc.AddString(FieldBlockID, "root")

	line := encode(t, enc,
		zapcore.Entry{Level: zapcore.InfoLevel, Time: noon, Message: "Inputs changed"},
		zap.Int(FieldCount, 2))
	assert.Equal(t, "12:00:00  watch  Inputs changed  block_id=root workers=4 count=2\n", line)

	// Clones do not share context
	other := newMinimalEncoder()
	plain := encode(t, other, zapcore.Entry{Level: zapcore.InfoLevel, Time: noon, Message: "x"})
	assert.Equal(t, "12:00:00  x\n", plain)
}

func TestMinimalEncoder_LoggerNameWins(t *testing.T) {
	enc := newMinimalEncoder()
	enc.AddString(FieldComponent, "context")

	line := encode(t, enc, zapcore.Entry{Level: zapcore.InfoLevel, Time: noon, LoggerName: "pipeline", Message: "done"})
	assert.Equal(t, "12:00:00  pipeline  done\n", line)
}
