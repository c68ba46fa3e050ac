package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/s3"
	"github.com/dmitrymomot/plugsession/pkg/session"
	"github.com/dmitrymomot/plugsession/pkg/session/backendtest"
)

// bucket is an in-memory object store keyed by object key.
type bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newBucket() *bucket {
	return &bucket{objects: make(map[string][]byte)}
}

func (b *bucket) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(bytes.Clone(data)))}, nil
}

func (b *bucket) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func (b *bucket) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, aws.ToString(in.Key))
	return &awss3.DeleteObjectOutput{}, nil
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awss3.GetObjectOutput), args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awss3.PutObjectOutput), args.Error(1)
}

func (m *mockClient) DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awss3.DeleteObjectOutput), args.Error(1)
}

func TestBackend_Contract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) session.Backend {
		b, err := s3.NewBackend(newBucket(), "sessions")
		require.NoError(t, err)
		return b
	})
}

func TestNewBackend_Invalid(t *testing.T) {
	_, err := s3.NewBackend(nil, "sessions")
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	_, err = s3.NewBackend(newBucket(), "")
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)
}

func TestBackend_Prefix(t *testing.T) {
	ctx := context.Background()
	store := newBucket()
	b, err := s3.NewBackend(store, "sessions", s3.WithPrefix("app/"))
	require.NoError(t, err)

	require.NoError(t, b.Dump(ctx, "abc", []byte("record")))
	assert.Equal(t, []byte("record"), store.objects["app/abc"])
}

func TestBackend_Requests(t *testing.T) {
	ctx := context.Background()
	client := &mockClient{}
	b, err := s3.NewBackend(client, "bkt", s3.WithTimeout(time.Second))
	require.NoError(t, err)

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *awss3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "bkt" &&
			aws.ToString(in.Key) == "sessions/abc" &&
			aws.ToInt64(in.ContentLength) == 6
	})).Return(&awss3.PutObjectOutput{}, nil).Once()

	require.NoError(t, b.Dump(ctx, "abc", []byte("record")))
	client.AssertExpectations(t)
}

func TestBackend_NotFound(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{"typed NoSuchKey", &types.NoSuchKey{}},
		{"typed NotFound", &types.NotFound{}},
		{"generic NoSuchKey", &smithy.GenericAPIError{Code: "NoSuchKey"}},
		{"generic NotFound", &smithy.GenericAPIError{Code: "NotFound"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{}
			client.On("GetObject", mock.Anything, mock.Anything).Return(nil, tt.err)
			client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, tt.err)
			b, err := s3.NewBackend(client, "bkt")
			require.NoError(t, err)

			data, err := b.Load(ctx, "abc")
			assert.NoError(t, err)
			assert.Nil(t, data)
			assert.NoError(t, b.Clear(ctx, "abc"))
		})
	}
}

func TestBackend_ErrorClassification(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no bucket", &types.NoSuchBucket{}, s3.ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, s3.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, s3.ErrServiceUnavailable},
		{"deadline", context.DeadlineExceeded, s3.ErrOperationTimeout},
		{"canceled", context.Canceled, s3.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{}
			client.On("GetObject", mock.Anything, mock.Anything).Return(nil, tt.err)
			client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.err)
			b, err := s3.NewBackend(client, "bkt")
			require.NoError(t, err)

			_, err = b.Load(ctx, "abc")
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, b.Dump(ctx, "abc", []byte("v")), tt.want)
		})
	}

	t.Run("other", func(t *testing.T) {
		cause := errors.New("boom")
		client := &mockClient{}
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, cause)
		b, err := s3.NewBackend(client, "bkt")
		require.NoError(t, err)
		assert.ErrorIs(t, b.Dump(ctx, "abc", []byte("v")), cause)
	})
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	_, err := s3.NewClient(ctx, s3.Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	client, err := s3.NewClient(ctx, s3.Config{
		Bucket:         "sessions",
		Region:         "us-east-1",
		AccessKeyID:    "key",
		SecretKey:      "secret",
		Endpoint:       "http://localhost:9000",
		ForcePathStyle: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestFactory_InvalidOptions(t *testing.T) {
	reg := session.NewRegistry(nil)
	reg.Register("s3", s3.Factory)

	_, err := reg.Build(context.Background(), session.BackendSpec{Name: "s3", Options: map[string]any{"buckett": "x"}})
	assert.ErrorIs(t, err, session.ErrConfiguration)

	_, err = reg.Build(context.Background(), session.BackendSpec{Name: "s3"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)
}
