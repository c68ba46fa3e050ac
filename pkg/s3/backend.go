package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Backend stores each session record as one object under a key prefix.
// It is safe for concurrent use.
type Backend struct {
	client  Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithPrefix sets the object key prefix (default "sessions/").
func WithPrefix(prefix string) BackendOption {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// WithTimeout bounds every S3 call.
func WithTimeout(d time.Duration) BackendOption {
	return func(b *Backend) {
		b.timeout = d
	}
}

// NewBackend creates a session backend storing objects in bucket.
func NewBackend(client Client, bucket string, opts ...BackendOption) (*Backend, error) {
	if client == nil || bucket == "" {
		return nil, ErrInvalidConfig
	}
	b := &Backend{
		client: client,
		bucket: bucket,
		prefix: "sessions/",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) key(id string) *string {
	return aws.String(b.prefix + id)
}

func (b *Backend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(ctx, b.timeout)
	}
	return ctx, func() {}
}

func (b *Backend) Load(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    b.key(id),
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyError(err, "get")
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read session object: %w", err)
	}
	return data, nil
}

func (b *Backend) Dump(ctx context.Context, id string, data []byte) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           b.key(id),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	return classifyError(err, "put")
}

// Clear succeeds for missing objects; S3 DeleteObject is idempotent.
func (b *Backend) Clear(ctx context.Context, id string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    b.key(id),
	})
	if isNotFound(err) {
		return nil
	}
	return classifyError(err, "delete")
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// classifyError converts S3 errors to package errors.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, operation)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); code {
		case "NoSuchBucket":
			return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
		case "AccessDenied":
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		default:
			return fmt.Errorf("s3 %s failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("s3 %s failed: %w", operation, err)
}
