package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestWithDetailf(t *testing.T) {
	err := WithDetailf(New("error"), "block %s", "b1")

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "block b1", details[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsGenerationDefect(nil))
}

func TestIsGenerationDefect(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown block type", Wrap(ErrUnknownBlockType, "controls_repeat"), true},
		{"unresolved name", Wrapf(ErrUnresolvedName, "variable %q", "x"), true},
		{"malformed field", WithHint(ErrMalformedField, "use digits"), true},
		{"not found", NewNotFoundError("file %s", "a.json"), false},
		{"plain", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGenerationDefect(tt.err))
		})
	}
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("unsupported format %q", "xml")
	assert.True(t, Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}
