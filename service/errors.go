package service

import (
	"errors"

	"autopost/constant"
)

var (
	// Pre-condition violations, surfaced to the caller before any provider runs.
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrTooLarge          = errors.New("file exceeds the configured size limit")

	// Publishing workflow failures. Both abort the workflow without writing a record.
	ErrAuthorizationFailed = errors.New("authorization failed")
	ErrUploadFailed        = errors.New("upload failed")

	// ErrProviderUnavailable marks a recoverable tier failure. It never leaves
	// the fallback chain; the degraded tier guarantees a result.
	ErrProviderUnavailable = errors.New("provider unavailable")

	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidRequest covers request-shape problems other than format/size.
	ErrInvalidRequest = errors.New("invalid request")
)

// KindOf maps a service error to the error kind surfaced in JSON responses.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return constant.KindUnsupportedFormat
	case errors.Is(err, ErrTooLarge):
		return constant.KindTooLarge
	case errors.Is(err, ErrAuthorizationFailed):
		return constant.KindAuthorizationFailed
	case errors.Is(err, ErrUploadFailed):
		return constant.KindUploadFailed
	case errors.Is(err, ErrAssetNotFound):
		return constant.KindNotFound
	case errors.Is(err, ErrInvalidRequest):
		return constant.KindInvalidRequest
	default:
		return constant.KindInternal
	}
}
