package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/docudefense/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is the single failure shape for non-2xx responses. It carries the
// operation name and the HTTP status; Message is the trimmed response body.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is lets callers match auth failures and missing resources with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrorUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case common.ErrorNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrorValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}
