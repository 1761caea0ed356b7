package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Storage struct {
	s3     s3iface.S3API
	bucket string
}

func NewS3Storage(region, bucket string) (*S3Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET not set")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	return &S3Storage{s3: s3.New(sess), bucket: bucket}, nil
}

func (c *S3Storage) Save(ctx context.Context, file *multipart.FileHeader, path string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(path),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object: %w", err)
	}

	return c.urlPrefix() + path, nil
}

// Delete removes the object behind url. S3 reports success for missing keys.
func (c *S3Storage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, c.urlPrefix())
	if !ok || key == "" {
		return nil
	}
	_, err := c.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object: %w", err)
	}
	return nil
}

func (c *S3Storage) urlPrefix() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", c.bucket)
}
