package service

import "errors"

var (
	// ErrNotFound covers both missing records and records owned by
	// someone else, so ownership cannot be probed by id.
	ErrNotFound = errors.New("resource not found")

	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrStorageFailure    = errors.New("failed to store document")
	ErrIngestionFailure  = errors.New("failed to ingest document")
	ErrInvalidArgument   = errors.New("invalid argument")
)
