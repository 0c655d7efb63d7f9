package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestBuilderMarksSentinel(t *testing.T) {
	err := NewError("subscription not found").
		WithHintf("no subscription with id %s", "subs_1").
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromErr(err))
	assert.Equal(t, "no subscription with id subs_1", errors.FlattenHints(err))
}

func TestBuilderWrapsExistingError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WithError(cause).
		WithHint("The payment provider could not be reached").
		WithReportableDetails(map[string]any{"provider": "mollie"}).
		Mark(ErrProviderUnavailable)

	assert.True(t, IsProviderUnavailable(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusFromErr(err))
}

func TestHTTPStatusFallsBackToInternalError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromErr(errors.New("unmarked")))
}
