package feed

import (
	"errors"
	"fmt"
)

// ErrAllCategoriesFailed is returned by FetchAll when no category fetch
// succeeded. Partial failures are dropped, not surfaced.
var ErrAllCategoriesFailed = errors.New("all category fetches failed")

// StatusError reports an unexpected HTTP status from a feed endpoint.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}
