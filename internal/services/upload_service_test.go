package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"strings"
	"testing"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhoto(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestUploadService_UploadImage_Success(t *testing.T) {
	var gotObjectName, gotContentType string

	storage := &MockImageStorage{
		UploadFunc: func(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
			gotObjectName = objectName
			gotContentType = contentType
			assert.NotEmpty(t, data)
			return "http://storage.local/photos/" + objectName, nil
		},
	}

	uploadService := NewUploadService(storage, slog.Default())

	url, err := uploadService.UploadImage(context.Background(), bytes.NewReader(testPhoto(t)))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotObjectName, "items/"), "object name %q should live under items/", gotObjectName)
	assert.True(t, strings.HasSuffix(gotObjectName, ".jpg"))
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Contains(t, url, gotObjectName)
}

func TestUploadService_UploadImage_UniqueObjectNames(t *testing.T) {
	names := make(map[string]bool)

	storage := &MockImageStorage{
		UploadFunc: func(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
			names[objectName] = true
			return "http://storage.local/photos/" + objectName, nil
		},
	}

	uploadService := NewUploadService(storage, slog.Default())

	photo := testPhoto(t)
	for i := 0; i < 3; i++ {
		_, err := uploadService.UploadImage(context.Background(), bytes.NewReader(photo))
		require.NoError(t, err)
	}

	assert.Len(t, names, 3, "each upload should get its own object name")
}

func TestUploadService_UploadImage_RejectsNonImage(t *testing.T) {
	uploadService := NewUploadService(&MockImageStorage{}, slog.Default())

	url, err := uploadService.UploadImage(context.Background(), strings.NewReader("just some text"))

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, url)
}

func TestUploadService_UploadImage_StorageFailure(t *testing.T) {
	storage := &MockImageStorage{
		UploadFunc: func(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
			return "", errors.New("connection refused")
		},
	}

	uploadService := NewUploadService(storage, slog.Default())

	url, err := uploadService.UploadImage(context.Background(), bytes.NewReader(testPhoto(t)))

	assert.ErrorIs(t, err, models.ErrUploadFailed)
	assert.Empty(t, url)
}
