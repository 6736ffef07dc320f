package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shahzebali977/lostandfounddevops/internal/imaging"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

// ImageStorage defines the interface for the photo object store
type ImageStorage interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// UploadService handles listing photo uploads
type UploadService struct {
	storage ImageStorage
	logger  *slog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(storage ImageStorage, logger *slog.Logger) *UploadService {
	return &UploadService{
		storage: storage,
		logger:  logger,
	}
}

// UploadImage normalizes one photo and stores it, returning the public
// URL. The URL is only a reference; attaching it to an item happens in
// a separate request, so a storage failure never blocks item creation.
func (s *UploadService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	data, err := imaging.Normalize(r)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			return "", fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
		}
		s.logger.Error("failed to process image", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	objectName := "items/" + uuid.New().String() + ".jpg"

	url, err := s.storage.Upload(ctx, objectName, data, imaging.ContentType)
	if err != nil {
		s.logger.Error("failed to store image", slog.String("object", objectName), slog.Any("error", err))
		return "", models.ErrUploadFailed
	}

	s.logger.Info("image uploaded", slog.String("object", objectName), slog.Int("bytes", len(data)))
	return url, nil
}
