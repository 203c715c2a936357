package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int", 5, 5},
		{"Float", 20160101.0, 20160101},
		{"String", " 42 ", 42},
		{"Bytes", []byte("7"), 7},
		{"Garbage", "abc", 0},
		{"Nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("yes"))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(""))
	assert.False(t, ToBool(2.5))
}
