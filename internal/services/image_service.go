package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageService is the local-disk media store. Files land under
// uploadDir/<folder>/ and are served by the /uploads/ file server.
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	os.MkdirAll(uploadDir, 0755)

	return &ImageService{uploadDir: uploadDir}
}

func (s *ImageService) Upload(ctx context.Context, folder, filename string, file io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	newFilename := uuid.New().String() + ext

	dir := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	filePath := filepath.Join(dir, newFilename)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath) // Clean up on error
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + folder + "/" + newFilename, nil
}
