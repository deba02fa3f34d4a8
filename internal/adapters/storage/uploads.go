package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// AllowedExtensions lists the image extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// UploadManager stores uploaded images under a fixed directory
type UploadManager struct {
	dir    string
	logger *logger.Logger
}

// NewUploadManager creates the uploads directory if needed
func NewUploadManager(cfg config.StorageConfig, log *logger.Logger) (*UploadManager, error) {
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", cfg.UploadsDir, err)
	}

	return &UploadManager{
		dir:    cfg.UploadsDir,
		logger: log.WithComponent("uploads"),
	}, nil
}

var _ ports.ImageStore = (*UploadManager)(nil)

// Dir returns the uploads directory
func (m *UploadManager) Dir() string {
	return m.dir
}

// Accept stores file under a fresh "<uuid>.<ext>" name
func (m *UploadManager) Accept(ctx context.Context, file *ports.FileUpload) (*string, error) {
	if file == nil || file.Filename == "" {
		return nil, nil
	}

	ext, err := extension(file.Filename)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := uuid.New().String() + "." + ext
	path := filepath.Join(m.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}

	if _, err := io.Copy(dst, file.Content); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close upload: %w", err)
	}

	m.logger.Info("Image stored", "stored_name", name, "original_name", file.Filename)

	return &name, nil
}

// Remove deletes a stored image. Failures are logged and swallowed because
// the record change that triggered the removal has already been decided.
func (m *UploadManager) Remove(ctx context.Context, name string) {
	if name == "" {
		return
	}

	if name != filepath.Base(name) || name == "." || name == ".." {
		m.logger.Warn("Refusing to remove image outside uploads dir", "stored_name", name)
		return
	}

	err := os.Remove(filepath.Join(m.dir, name))
	switch {
	case err == nil:
		m.logger.Info("Image removed", "stored_name", name)
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Warn("Image already missing", "stored_name", name)
	default:
		m.logger.Error("Failed to remove image", "stored_name", name, "error", err)
	}
}

func extension(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", fmt.Errorf("%w: %q has no extension", entities.ErrInvalidFileType, filename)
	}

	ext := strings.ToLower(filename[idx+1:])
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: .%s is not allowed", entities.ErrInvalidFileType, ext)
	}

	return ext, nil
}
