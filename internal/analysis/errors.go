package analysis

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrNoTestcases     = errors.New("no testcases found")
	ErrClusterNotFound = errors.New("cluster not found")
	ErrInvalidSchedule = errors.New("invalid analysis schedule")
)

// MapHTTPStatus maps analysis domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoTestcases) || errors.Is(err, ErrClusterNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
