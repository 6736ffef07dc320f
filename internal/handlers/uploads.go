package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	pkghttp "github.com/shahzebali977/lostandfounddevops/pkg/http"
)

// UploadServiceInterface defines the interface for image upload logic
type UploadServiceInterface interface {
	UploadImage(ctx context.Context, r io.Reader) (string, error)
}

// UploadHandler handles image upload HTTP requests
type UploadHandler struct {
	service       UploadServiceInterface
	maxUploadSize int64
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service UploadServiceInterface, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// UploadImageResponse carries the stable URL of a stored image
type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage accepts a JPEG or PNG, normalizes it and stores it
//
// @Summary Upload an item photo
// @Security BearerAuth
// @Accept multipart/form-data
// @Param image formData file true "Image file (JPEG or PNG)"
// @Produce json
// @Success 201 {object} UploadImageResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 502 {object} pkghttp.ErrorResponse
// @Router /uploads/images [post]
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		pkghttp.WriteValidationError(w, "File too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		pkghttp.WriteValidationError(w, "Multipart field 'image' is required")
		return
	}
	defer file.Close()

	// The service sniffs the real content type; the part header is not
	// trusted
	url, err := h.service.UploadImage(r.Context(), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UploadImageResponse{URL: url})
}
