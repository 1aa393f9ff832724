package fetcher

import "errors"

var (
	// ErrStatusNotOK is returned when http response had status differen than 200 OK.
	ErrStatusNotOK = errors.New("response status is not 200 OK")
	// ErrContentTypeNotSupported is returned when response content type is not supported.
	ErrContentTypeNotSupported = errors.New("response content type not supported")
	// ErrProductGone is returned when extraction service doesn't know product anymore.
	ErrProductGone = errors.New("product no longer exists")
	// ErrRateLimited is returned when extraction service asks to slow down.
	ErrRateLimited = errors.New("rate limited")
)
