package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroBasedIndex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3", "2"},
		{"1", "0"},
		{"0", "-1"},
		{"-2", "-3"},
		{"x", "x - 1"},
		{"len(l)", "len(l) - 1"},
		{"3.5", "3.5 - 1"},
		{"+3", "+3 - 1"},
		{"1e3", "1e3 - 1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ZeroBasedIndex(tt.in))
		})
	}
}

func TestIntegerLiteral(t *testing.T) {
	n, ok := IntegerLiteral("42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = IntegerLiteral("4 2")
	assert.False(t, ok)

	_, ok = IntegerLiteral("99999999999999999999999")
	assert.False(t, ok, "out of range literals take the dynamic path")
}
