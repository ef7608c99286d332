package auth

import (
	"errors"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
)

var (
	// ErrMissingToken means the request carried no usable bearer credential.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers every credential failure after extraction: bad signature,
	// foreign algorithm, expiry, malformed payload, or a user that no longer exists.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStoreUnavailable wraps user store failures other than not-found.
	ErrStoreUnavailable = apperr.ErrStoreUnavailable
)
