package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("title is required", "title")

	require.NotNil(t, err)
	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "[VALIDATION_ERROR] title is required", err.Error())
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("user", "harry")

	require.NotNil(t, err)
	assert.Equal(t, CategoryNotFound, err.Category)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "[NOT_FOUND] user not found", err.Error())
}

func TestNewExternalAPIError(t *testing.T) {
	cause := fmt.Errorf("status 503")
	err := NewExternalAPIError("Anthropic", cause)

	require.NotNil(t, err)
	assert.Equal(t, CategoryExternalAPI, err.Category)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Equal(t, cause, err.Unwrap())
}

func TestNewRateLimitError(t *testing.T) {
	err := NewRateLimitError("60s")

	assert.Equal(t, CategoryRateLimit, err.Category)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
}

func TestToAppErrorPassthrough(t *testing.T) {
	original := NewValidationError("bad input")
	converted := ToAppError(original)

	assert.Same(t, original, converted)
	assert.Nil(t, ToAppError(nil))
}

func TestToAppErrorClassifiesByMessage(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category ErrorCategory
	}{
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), CategoryNetwork},
		{"timeout", fmt.Errorf("request timeout after 30s"), CategoryTimeout},
		{"context canceled", context.Canceled, CategoryTimeout},
		{"deadline exceeded", context.DeadlineExceeded, CategoryTimeout},
		{"unknown", fmt.Errorf("something broke"), CategoryInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ToAppError(tc.err)
			assert.Equal(t, tc.category, appErr.Category)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewNetworkError("down", nil)))
	assert.True(t, IsRetryableError(NewTimeoutError("slow", nil)))
	assert.True(t, IsRetryableError(NewRateLimitError("10s")))
	assert.False(t, IsRetryableError(NewValidationError("bad input")))
	assert.False(t, IsRetryableError(NewNotFoundError("user", "x")))
}

func TestGetRetryDelayGrowsWithAttempts(t *testing.T) {
	netErr := NewNetworkError("down", nil)

	first := GetRetryDelay(netErr, 1)
	second := GetRetryDelay(netErr, 2)
	assert.Greater(t, second, first)

	rateErr := NewRateLimitError("10s")
	assert.Equal(t, 4*time.Second, GetRetryDelay(rateErr, 2))
}

func TestWrapError(t *testing.T) {
	base := fmt.Errorf("boom")
	wrapped := WrapError(base, "loading user %s", "harry")

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "loading user harry")

	assert.Nil(t, WrapError(nil, "ignored"))
}
