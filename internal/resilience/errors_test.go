package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("bad prompt"), false},
		{"transient error", NewTransientError(errors.New("overloaded"), 529), true},
		{"wrapped transient", fmt.Errorf("qa call: %w", NewTransientError(errors.New("unavailable"), 503)), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", fmt.Errorf("dial backend: %w", syscall.ECONNREFUSED), true},
		{"connection aborted", syscall.ECONNABORTED, true},
		{"string reset", errors.New("read tcp: connection reset by peer"), true},
		{"string broken pipe", errors.New("write: broken pipe"), true},
		{"string dns", errors.New("lookup backend: no such host"), true},
		{"string tls", errors.New("net/http: TLS handshake timeout"), true},
		{"string io timeout", errors.New("read tcp: i/o timeout"), true},
		{"context cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient_NetTimeout(t *testing.T) {
	var err net.Error = timeoutErr{}
	assert.True(t, IsTransient(fmt.Errorf("embed call: %w", err)))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504, 529} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	cause := errors.New("backend unavailable")
	te := NewTransientError(cause, 503)

	assert.ErrorIs(t, te, cause)
	assert.Equal(t, 503, te.StatusCode)
	assert.Equal(t, "backend unavailable", te.Error())
}
