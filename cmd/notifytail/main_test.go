package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWsURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/api/ws/notifications?token=abc"},
		{"https://medium-fa.ir/", "wss://medium-fa.ir/api/ws/notifications?token=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := wsURL(tt.base, "abc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
