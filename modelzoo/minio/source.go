package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Source fetches model archives from MinIO or any S3-compatible
// object store.
//
// Registry URLs with the s3 scheme name bucket and key explicitly
// (s3://bucket/key). Any other URL is mapped to its base file name
// below the configured prefix, so a registry written for HTTP can be
// served unchanged from a bucket that mirrors the archives.
type Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewSource creates a new MinIO source.
// prefix is prepended to mirrored keys (e.g. "models/").
func NewSource(client *minio.Client, bucket, prefix string) *Source {
	return &Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Fetch streams the object the URL maps to, returning its size.
func (s *Source) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	bucket, key, err := s.object(rawURL)
	if err != nil {
		return nil, 0, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	// GetObject is lazy; Stat surfaces missing objects before the
	// caller starts reading.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, err
	}

	return obj, info.Size, nil
}

func (s *Source) object(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse archive url: %w", err)
	}

	if u.Scheme == "s3" {
		bucket = u.Host
		if bucket == "" {
			bucket = s.bucket
		}
		return bucket, strings.TrimPrefix(u.Path, "/"), nil
	}

	return s.bucket, path.Join(s.prefix, path.Base(u.Path)), nil
}
