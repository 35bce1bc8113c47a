package store

import (
	"aimufti-backend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		content string
		want    error
	}{
		{"user ok", models.RoleUser, "hi", nil},
		{"assistant ok", models.RoleAssistant, "hello", nil},
		{"system rejected", models.Role("system"), "x", ErrInvalidRole},
		{"empty content", models.RoleAssistant, "", ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateMessage(tt.role, tt.content), tt.want)
		})
	}
}
