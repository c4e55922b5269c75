package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageBytes = 5 * 1024 * 1024

var ErrInvalidImage = errors.New("image must be a jpg, png, webp or gif under 5MB")

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// ImageUploader stores a project image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// LocalImageUploader writes into a directory served statically under /uploads.
type LocalImageUploader struct {
	dir     string
	baseURL string
}

func NewLocalImageUploader(dir, baseURL string) *LocalImageUploader {
	return &LocalImageUploader{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (u *LocalImageUploader) Upload(_ context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] || file.Size > maxImageBytes {
		return "", ErrInvalidImage
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	projectsDir := filepath.Join(u.dir, "projects")
	if err := os.MkdirAll(projectsDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(projectsDir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxImageBytes+1)); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return fmt.Sprintf("%s/uploads/projects/%s", u.baseURL, name), nil
}
