// Package media stores product images in S3 compatible object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrDisabled    = errors.New("media: object storage not configured")
	ErrUnsupported = errors.New("media: unsupported image type")
)

const MaxImageBytes = 5 << 20

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type Options struct {
	Bucket        string
	Region        string
	Endpoint      string // empty for AWS, set for R2/MinIO
	AccessKeyID   string
	SecretKey     string
	PublicBaseURL string
}

// Store uploads objects and returns their public URL.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewStore returns ErrDisabled when no bucket is configured.
func NewStore(ctx context.Context, o Options) (*Store, error) {
	if o.Bucket == "" {
		return nil, ErrDisabled
	}
	loaders := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKeyID != "" && o.SecretKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("media: load config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	base := strings.TrimRight(o.PublicBaseURL, "/")
	if base == "" {
		if o.Endpoint != "" {
			base = strings.TrimRight(o.Endpoint, "/") + "/" + o.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
		}
	}
	return &Store{client: client, bucket: o.Bucket, baseURL: base}, nil
}

// ImageKey names a new object for a product image, keeping the extension.
func ImageKey(productID, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupported
	}
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext), nil
}

// Put uploads data under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("media: image larger than %d bytes", MaxImageBytes)
	}
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: delete %s: %w", key, err)
	}
	return nil
}

// KeyOf returns the object key for a URL produced by Put, or "" when url
// does not belong to this store.
func (s *Store) KeyOf(url string) string {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
