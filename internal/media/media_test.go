package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nashr/internal/models"
	"nashr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestUpload_CoverIsCroppedAndVariantsWritten(t *testing.T) {
	dir := t.TempDir()
	repo := testutil.NewImageRepoStub()
	svc := NewService(repo, dir, 1)

	up, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		Kind:     models.ImageKindCover,
		Filename: "cover.png",
		Content:  testutil.TinyPNG(t, 400, 200),
	})
	require.NoError(t, err)

	// 400x200 is wider than 1.91:1, so the width is cut to 200*1.91.
	assert.Equal(t, 382, up.Image.Width)
	assert.Equal(t, 200, up.Image.Height)
	assert.Equal(t, models.ImageKindCover, up.Image.Kind)
	assert.Equal(t, "/media/"+up.Image.Hash+"/master.jpg", up.URL)
	assert.Equal(t, map[string]string{"320w": "/media/" + up.Image.Hash + "/320.webp"}, up.Variants)

	for _, name := range []string{"master.jpg", "master.webp", "320.webp"} {
		_, err := os.Stat(filepath.Join(dir, up.Image.Hash, name))
		assert.NoError(t, err, name)
	}
}

func TestUpload_AvatarIsSquare(t *testing.T) {
	svc := NewService(testutil.NewImageRepoStub(), t.TempDir(), 1)

	up, err := svc.Upload(context.Background(), UploadInput{
		UserID:  "u1",
		Kind:    models.ImageKindAvatar,
		Content: testutil.TinyPNG(t, 300, 500),
	})
	require.NoError(t, err)
	assert.Equal(t, 300, up.Image.Width)
	assert.Equal(t, 300, up.Image.Height)
	assert.Len(t, up.Variants, 3)
}

func TestUpload_SameContentDeduplicates(t *testing.T) {
	repo := testutil.NewImageRepoStub()
	svc := NewService(repo, t.TempDir(), 1)
	content := testutil.TinyPNG(t, 120, 120)

	first, err := svc.Upload(context.Background(), UploadInput{UserID: "u1", Kind: models.ImageKindAvatar, Content: content})
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), UploadInput{UserID: "u1", Kind: models.ImageKindAvatar, Content: content})
	require.NoError(t, err)

	assert.Equal(t, first.Image.Hash, second.Image.Hash)
	assert.Equal(t, 1, repo.Len())

	other, err := svc.Upload(context.Background(), UploadInput{UserID: "u2", Kind: models.ImageKindAvatar, Content: content})
	require.NoError(t, err)
	assert.NotEqual(t, first.Image.Hash, other.Image.Hash)
}

func TestUpload_Rejections(t *testing.T) {
	svc := NewService(testutil.NewImageRepoStub(), t.TempDir(), 1)
	ctx := context.Background()

	tests := []struct {
		name string
		in   UploadInput
		code string
	}{
		{"anonymous", UploadInput{Content: []byte("x")}, models.CodeUnauthorized},
		{"unknown kind", UploadInput{UserID: "u1", Kind: "banner", Content: []byte("x")}, models.CodeValidation},
		{"empty", UploadInput{UserID: "u1"}, models.CodeValidation},
		{"too large", UploadInput{UserID: "u1", Content: make([]byte, 2*1024*1024)}, models.CodeValidation},
		{"not an image", UploadInput{UserID: "u1", Content: []byte("plain text, not pixels")}, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.in)
			assertCode(t, err, tt.code)
		})
	}
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(nil, "", 0)
	assert.Equal(t, DefaultUploadDir, svc.Dir())
	assert.Equal(t, int64(DefaultMaxUploadSizeMB*1024*1024), svc.MaxBytes())
}
