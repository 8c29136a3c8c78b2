package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ValidationError{Msg: "bad"}))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&InsufficientInventoryError{Available: 2}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&NotFoundError{Resource: "event", ID: "x"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(&HostResolutionError{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(&TransientStoreError{Err: assert.AnError}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}

func TestHTTPStatusThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("creating booking: %w", &InsufficientInventoryError{Available: 7})
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.True(t, IsInsufficientInventory(wrapped))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Only 4 tickets available", UserMessage(&InsufficientInventoryError{Available: 4}))
	assert.Equal(t, "quantity required", UserMessage(&ValidationError{Msg: "quantity required"}))

	// Internals never leak.
	assert.Equal(t, "failed to create booking", UserMessage(&TransientStoreError{Err: assert.AnError}))
	assert.Equal(t, "failed to create booking", UserMessage(&HostResolutionError{BookingID: "b", EventID: "e"}))
}
