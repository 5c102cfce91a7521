package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/chesscompare/internal/errors"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := errors.NewUpstreamError("archives", cause)

	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}

func TestCodeOf_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("normalize: %w", errors.NewMalformedGameError("u", []string{"rated"}, nil))
	assert.Equal(t, errors.ErrCodeMalformedGame, errors.CodeOf(err))
	assert.Equal(t, "", errors.CodeOf(stderrors.New("plain")))
}

func TestAs_WrapsUnknown(t *testing.T) {
	appErr := errors.As(stderrors.New("plain"))
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	v := errors.NewValidationError("fact", "unknown")
	assert.Same(t, v, errors.As(v))
}
