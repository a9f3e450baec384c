package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("dial tcp: refused"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Error(), "dial tcp")
}

func TestFromErrorKeepsTyped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrValidation, "bad count"))

	appErr := FromError(wrapped)

	assert.Equal(t, "bad count", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("redis: %w", Clone(ErrCacheMiss, "advocates:search:abc"))

	assert.True(t, errors.Is(err, ErrCacheMiss))
	assert.False(t, errors.Is(err, ErrInternal))
}
