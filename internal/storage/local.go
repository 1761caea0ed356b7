package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStorage writes files under basePath and serves them from baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
	log      *zap.Logger
}

func NewLocalStorage(basePath, baseURL string, log *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{basePath: basePath, baseURL: baseURL, log: log}, nil
}

func (s *LocalStorage) Root() string {
	return s.basePath
}

func (s *LocalStorage) Save(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	s.log.Info("image saved", zap.String("path", fullPath))
	return s.baseURL + path, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	path, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || path == "" {
		return nil
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(path))
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	s.log.Info("image removed", zap.String("path", fullPath))
	return nil
}
