package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ArtworksCrawler/internal/domain"
	"ArtworksCrawler/internal/ports"
)

// ObjectStoreOptions carries the S3-compatible connection parameters
// (Backblaze B2 in production).
type ObjectStoreOptions struct {
	EndpointURL string
	AccessKey   string
	SecretKey   string
	Region      string
	Bucket      string
	Key         string
}

// objectUploader is the subset of *minio.Client the sink relies on.
type objectUploader interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectSink uploads the artifact as a single object.
type ObjectSink struct {
	client objectUploader
	bucket string
	key    string
}

var _ ports.ArtifactSink = (*ObjectSink)(nil)

// NewObjectSink builds a minio client signed with S3 v4 credentials.
func NewObjectSink(opts ObjectStoreOptions) (*ObjectSink, error) {
	if opts.Bucket == "" {
		return nil, &Error{Target: "s3", Op: "configure", Err: fmt.Errorf("bucket name is empty")}
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, &Error{Target: "s3", Op: "configure", Err: fmt.Errorf("access key and secret key are required")}
	}

	host, secure, err := parseEndpoint(opts.EndpointURL)
	if err != nil {
		return nil, &Error{Target: "s3", Op: "configure", Err: err}
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, &Error{Target: "s3", Op: "configure", Err: err}
	}

	return newObjectSink(client, opts.Bucket, opts.Key), nil
}

func newObjectSink(client objectUploader, bucket, key string) *ObjectSink {
	if key == "" {
		key = DefaultObjectName
	}
	return &ObjectSink{client: client, bucket: bucket, key: key}
}

// Describe names the destination for logs and summaries.
func (s *ObjectSink) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Store uploads the serialized records with a JSON content type.
func (s *ObjectSink) Store(ctx context.Context, records []domain.ArtworkRecord) error {
	data, err := EncodeArtifact(records)
	if err != nil {
		return &Error{Target: s.Describe(), Op: "encode", Err: err}
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentTypeJSON,
	})
	if err != nil {
		return &Error{Target: s.Describe(), Op: "upload", Err: err}
	}
	return nil
}

// parseEndpoint accepts either a full URL or a bare host; bare hosts use TLS.
func parseEndpoint(raw string) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("endpoint url is empty")
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimSuffix(raw, "/"), true, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("invalid endpoint %s: %w", raw, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %s has no host", raw)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}
