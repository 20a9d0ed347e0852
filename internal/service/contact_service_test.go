package service

import (
	"context"
	"testing"

	"nashr/internal/models"
	"nashr/internal/repository"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(repository.NewContactRepository(testutil.NewTestDB(t)))

	msg, err := svc.Submit(ctx, ContactInput{Name: "علی", Email: " Ali@Example.com ", Subject: "سلام", Message: "پیام"})
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", msg.Email)
	assert.Equal(t, "general", msg.Type)
	assert.Equal(t, "pending", msg.Status)

	_, err = svc.Submit(ctx, ContactInput{Name: "علی", Email: "a@b.co", Subject: "s", Message: "m", Type: "bug"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   ContactInput
		msg  string
	}{
		{"missing subject", ContactInput{Name: "a", Email: "a@b.co", Message: "m"}, "تمام فیلدها الزامی هستند"},
		{"bad email", ContactInput{Name: "a", Email: "nope", Subject: "s", Message: "m"}, "ایمیل نامعتبر است"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.in)
			appErr := assertAppError(t, err, models.CodeValidation)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}

	list, err := svc.List(ctx, "admin", "pending", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Len(t, list.Messages, 2)

	_, err = svc.List(ctx, "", "", 1, 10)
	assertAppError(t, err, models.CodeUnauthorized)
}
