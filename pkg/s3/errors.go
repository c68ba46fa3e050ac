package s3

import "errors"

var (
	ErrInvalidConfig      = errors.New("s3.invalid_config")
	ErrFailedToLoadConfig = errors.New("s3.failed_to_load_config")
	ErrBucketNotFound     = errors.New("s3.bucket_not_found")
	ErrAccessDenied       = errors.New("s3.access_denied")
	ErrServiceUnavailable = errors.New("s3.service_unavailable")
	ErrOperationTimeout   = errors.New("s3.operation_timeout")
	ErrOperationCanceled  = errors.New("s3.operation_canceled")
)
