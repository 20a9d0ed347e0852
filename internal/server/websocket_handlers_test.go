package server

import (
	"encoding/json"
	"fmt"
	"testing"

	"nashr/internal/models"
	"nashr/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketError_EscapesMessage(t *testing.T) {
	tests := []struct {
		name string
		code string
		msg  string
	}{
		{"hub limit", models.CodeConflict, notifications.ErrUserConnLimit.Error()},
		{"quotes and newline", models.CodeConflict, fmt.Sprintf("limit %q reached\nretry", "5")},
		{"unauthorized", models.CodeUnauthorized, "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.ErrorResponse
			require.NoError(t, json.Unmarshal(socketError(tt.code, tt.msg), &got))
			assert.Equal(t, tt.msg, got.Error)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}
