package application

import "errors"

var (
	ErrForbidden        = errors.New("forbidden")
	ErrEmailUnresolved  = errors.New("user email not found")
	ErrQuotaExceeded    = errors.New("subdomain limit reached")
	ErrCreateInProgress = errors.New("another subdomain request is being created")
)
