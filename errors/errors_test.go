package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil error defaults transient", nil, ErrorTransient},
		{"fetch timeout is transient", ErrFetchTimeout, ErrorTransient},
		{"rate limited is transient", ErrRateLimited, ErrorTransient},
		{"deadline exceeded is transient", context.DeadlineExceeded, ErrorTransient},
		{"invalid data is invalid", ErrInvalidData, ErrorInvalid},
		{"invalid config is fatal", ErrInvalidConfig, ErrorFatal},
		{"unknown error defaults transient", stderrors.New("boom"), ErrorTransient},
		{"timeout pattern in message", stderrors.New("dial tcp: i/o timeout"), ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := WrapTransient(ErrFetchTimeout, "fetcher", "FetchBatch", "attempt")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrFetchTimeout))
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "fetcher.FetchBatch: attempt failed")
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "c", "m", "a"))
	assert.NoError(t, WrapTransient(nil, "c", "m", "a"))
	assert.NoError(t, WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, WrapFatal(nil, "c", "m", "a"))
}

func TestClassifiedErrorOverridesHeuristics(t *testing.T) {
	// An error whose message looks transient but is classified invalid.
	err := WrapInvalid(fmt.Errorf("connection string malformed"), "config", "Validate", "parse")

	assert.True(t, IsInvalid(err))
	assert.False(t, IsTransient(err))
	assert.Equal(t, ErrorInvalid, Classify(err))
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(42).String())
}

func TestUnwrap(t *testing.T) {
	base := stderrors.New("base")
	err := WrapFatal(base, "engine", "Start", "init")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, ErrorFatal, ce.Class)
	assert.Equal(t, "engine", ce.Component)
	assert.True(t, stderrors.Is(err, base))
}
