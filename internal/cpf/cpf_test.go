package cpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"111.111.111-11", "11111111111"},
		{"11111111111", "11111111111"},
		{"111 111 111 11", "11111111111"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("11111111111"))
	assert.True(t, Valid("111.111.111-11"))
	assert.False(t, Valid("1111111111"))
	assert.False(t, Valid("111111111112"))
	assert.False(t, Valid(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "123.456.789-01", Format("12345678901"))
	assert.Equal(t, "123.456.789-01", Format("123.456.789-01"))
	// Not 11 digits: returned as-is
	assert.Equal(t, "1234", Format("1234"))
}
