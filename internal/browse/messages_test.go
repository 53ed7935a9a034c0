package browse

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casklist/casklist/internal/feed"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"feed 404", &feed.StatusError{StatusCode: 404, URL: "http://x/beer.json"}, msgNotFound},
		{"server 500", &feed.StatusError{StatusCode: 500, URL: "http://x"}, msgServer},
		{"bad gateway", &feed.StatusError{StatusCode: 502, URL: "http://x"}, msgServer},
		{"client 403", &feed.StatusError{StatusCode: 403, URL: "http://x"}, msgClient},
		{"wrapped status", fmt.Errorf("fetch beer: %w", &feed.StatusError{StatusCode: 503}), msgServer},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "x", IsNotFound: true}, msgOffline},
		// A DNS error that also reports timeout still reads as offline.
		{"dns timeout", &net.DNSError{Err: "lookup timeout", Name: "x", IsTimeout: true}, msgOffline},
		{"net timeout", timeoutErr{}, msgTimeout},
		{"deadline exceeded", context.DeadlineExceeded, msgTimeout},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, msgOffline},
		{"all categories failed", feed.ErrAllCategoriesFailed, msgCategories},
		{"all failed with cause", fmt.Errorf("%w: %w", feed.ErrAllCategoriesFailed,
			&feed.StatusError{StatusCode: 502}), msgServer},
		{"unknown", errors.New("boom"), msgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
