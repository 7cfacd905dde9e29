package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore persists uploaded menu photos under one directory per meal
// type, giving each file a random name so uploads never collide.
type FileStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewFileStore creates the store and its base directory.
func NewFileStore(baseDir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{baseDir: baseDir, logger: logger}, nil
}

// Save writes the stream into the meal's folder and returns the stored
// filename. The original name contributes only its extension.
func (s *FileStore) Save(mealType, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	dir := filepath.Join(s.baseDir, mealType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create meal directory: %w", err)
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info("Stored menu image",
		zap.String("meal_type", mealType),
		zap.String("filename", filename))
	return filename, nil
}

// Remove deletes a stored file, ignoring files already gone.
func (s *FileStore) Remove(mealType, filename string) error {
	err := os.Remove(filepath.Join(s.baseDir, mealType, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
