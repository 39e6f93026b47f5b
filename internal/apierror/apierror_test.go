package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MapErrorToHTTPStatus(NewAPIError(ErrNotFound, "missing", nil)))
	assert.Equal(t, http.StatusConflict, MapErrorToHTTPStatus(NewAPIError(ErrConflict, "duplicate", nil)))
	assert.Equal(t, http.StatusBadRequest, MapErrorToHTTPStatus(NewAPIError(ErrInvalidInput, "bad field", nil)))
	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(NewAPIError(ErrInternalServer, "boom", nil)))
	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(errors.New("plain")))
}

func TestAPIErrorMessage(t *testing.T) {
	err := NewAPIError(ErrNotFound, "Lead not found", nil)
	assert.Equal(t, "NOT_FOUND: Lead not found", err.Error())
}
