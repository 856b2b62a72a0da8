package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of the S3 API the source uses.
// *s3.Client implements it.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source fetches model archives from an S3 bucket.
//
// Registry URLs with the s3 scheme name bucket and key explicitly
// (s3://bucket/key). Any other URL is mapped to its base file name
// below the configured prefix, so a registry written for HTTP can be
// served unchanged from a bucket that mirrors the archives.
type Source struct {
	client     Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewSource creates a new S3 source.
// prefix is prepended to mirrored keys (e.g. "models/").
func NewSource(client Client, bucket, prefix string) *Source {
	return &Source{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		prefix:     prefix,
	}
}

// NewSourceFromConfig creates a Source backed by a client built from
// the default AWS config chain.
func NewSourceFromConfig(ctx context.Context, bucket, prefix string, optFns ...func(*config.LoadOptions) error) (*Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewSource(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Fetch streams the object the URL maps to. The returned size is -1
// when the response carries no content length.
func (s *Source) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	bucket, key, err := s.object(rawURL)
	if err != nil {
		return nil, 0, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, err
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return out.Body, size, nil
}

// Download fills w with concurrent ranged reads.
func (s *Source) Download(ctx context.Context, rawURL string, w io.WriterAt) (int64, error) {
	bucket, key, err := s.object(rawURL)
	if err != nil {
		return 0, err
	}

	return s.downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
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
