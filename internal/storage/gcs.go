package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	client     *storage.Client
	bucketName string
}

// NewGCSStorage uses application default credentials when credentialsFile is empty.
func NewGCSStorage(ctx context.Context, bucketName, credentialsFile string) (*GCSStorage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS_BUCKET not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStorage{client: client, bucketName: bucketName}, nil
}

func (c *GCSStorage) Save(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	writer := c.client.Bucket(c.bucketName).Object(path).NewWriter(ctx)
	writer.ContentType = file.Header.Get("Content-Type")
	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return "", fmt.Errorf("upload to gcs: %w", err)
	}
	// The object is only committed on Close.
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload to gcs: %w", err)
	}

	return c.urlPrefix() + path, nil
}

func (c *GCSStorage) Delete(ctx context.Context, url string) error {
	path, ok := strings.CutPrefix(url, c.urlPrefix())
	if !ok || path == "" {
		return nil
	}
	err := c.client.Bucket(c.bucketName).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object: %w", err)
	}
	return nil
}

func (c *GCSStorage) urlPrefix() string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/", c.bucketName)
}

func (c *GCSStorage) Close() error {
	return c.client.Close()
}
