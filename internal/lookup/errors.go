package lookup

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/regtriage/internal/diagnostic"
)

// Domain errors for tag lookups.
var (
	ErrInvalidTag   = diagnostic.ErrInvalidTag
	ErrLookupFailed = errors.New("lookup failed")
)

// MapHTTPStatus maps lookup errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidTag) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
