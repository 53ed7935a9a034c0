// Package browse holds the festival browsing state: the fetched drink
// list with preferences reattached, the active filter and sort
// configuration, and the user-facing error surface. It is the seam
// between the feed, the preference store, and the catalog engine.
package browse

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/casklist/casklist/internal/feed"
)

// User-facing messages for each failure class. Fixed strings so the UI
// never surfaces a raw error chain.
const (
	msgNotFound   = "Festival data not found."
	msgServer     = "Server error. Please try again later."
	msgClient     = "Could not load drinks. Please try again."
	msgOffline    = "No internet connection. Check your network."
	msgTimeout    = "Request timed out. Check your connection."
	msgCategories = "Could not load any drink categories. Pull to retry."
	msgUnknown    = "Something went wrong. Please try again."
)

// userMessage classifies err into one of the fixed user-facing strings.
// HTTP status errors are checked first, then network failures; DNS
// errors are checked before the generic timeout interface because a
// failed lookup on a dead connection also reports Timeout() == true.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *feed.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return msgNotFound
		case statusErr.StatusCode >= 500:
			return msgServer
		default:
			return msgClient
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return msgOffline
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return msgOffline
	}

	if errors.Is(err, feed.ErrAllCategoriesFailed) {
		return msgCategories
	}

	return msgUnknown
}
