package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Everforest palette
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg       = "\x1b[38;5;223m" // Soft beige (#d3c6aa)
	colorTime     = "\x1b[38;5;107m" // Mid green (#83c092)
	colorID       = "\x1b[38;5;109m" // Blue-green (#7fbbb3)
	colorNumber   = "\x1b[38;5;108m" // Bright green (#a7c080)
	colorKey      = "\x1b[38;5;65m"  // Deep green
	colorYellow   = "\x1b[38;5;179m" // Soft yellow (#dbbc7f)
	colorRed      = "\x1b[38;5;167m" // Warm red (#e67e80)
	colorRedBg    = "\x1b[48;5;52m"
	colorYellowBg = "\x1b[48;5;58m"
)

var componentColors = []string{
	"\x1b[38;5;108m", // green
	"\x1b[38;5;65m",  // deep green
	"\x1b[38;5;208m", // orange
}

var bufferPool = buffer.NewPool()

// minimalEncoder is a compact console encoder:
//
//	"13:04:35  WARN  watch  Change callback error  error=input robot.json: ..."
//
// Every field is kept; ids and numbers are colored by key.
type minimalEncoder struct {
	// context holds fields added with With
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := bufferPool.Get()

	line.AppendString(colorTime)
	line.AppendString(ent.Time.Format("15:04:05"))
	line.AppendString(colorReset)

	// Level: only shown for WARN and above
	if ent.Level > zapcore.InfoLevel {
		line.AppendString("  ")
		line.AppendString(levelColorString(ent.Level))
	} else if ent.Level < zapcore.InfoLevel {
		line.AppendString("  ")
		line.AppendString(colorKey + "debug" + colorReset)
	}

	component := ent.LoggerName
	if component == "" {
		if c, ok := enc.Fields[FieldComponent].(string); ok {
			component = c
		}
	}
	if component != "" {
		line.AppendString("  ")
		line.AppendString(colorComponent(component))
		line.AppendString(component)
		line.AppendString(colorReset)
	}

	line.AppendString("  ")
	line.AppendString(colorFg)
	line.AppendString(ent.Message)
	line.AppendString(colorReset)

	if rendered := renderFields(enc.Fields, fields); rendered != "" {
		line.AppendString("  ")
		line.AppendString(rendered)
	}

	line.AppendString("\n")
	return line, nil
}

// renderFields formats context fields (sorted) then entry fields (in order)
func renderFields(context map[string]interface{}, fields []zapcore.Field) string {
	var parts []string

	keys := make([]string, 0, len(context))
	for k := range context {
		if k != FieldComponent {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, formatField(k, context[k]))
	}

	local := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(local)
		v, ok := local.Fields[f.Key]
		if !ok || f.Key == "" {
			continue
		}
		parts = append(parts, formatField(f.Key, v))
	}

	return strings.Join(parts, " ")
}

func formatField(key string, value interface{}) string {
	var color string
	switch key {
	case FieldBlockID, FieldFile, FieldSource, FieldOutput, FieldDigest:
		color = colorID
	case FieldCount, FieldSize, FieldWorkers, FieldDurationMS:
		color = colorNumber
	case FieldError:
		color = colorRed
	default:
		color = colorFg
	}
	return colorKey + key + "=" + colorReset + color + fmt.Sprint(value) + colorReset
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorYellowBg + colorYellow + "WARN" + colorReset
	default:
		return colorBold + colorRedBg + colorRed + level.CapitalString() + colorReset
	}
}

// colorComponent picks a stable color per component name
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	return componentColors[hash%len(componentColors)]
}
