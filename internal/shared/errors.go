package shared

import (
	"errors"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found. Alias of the transport
	// sentinel so RespondError maps repository misses to 404.
	ErrNotFound = httpx.ErrNotFound
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
