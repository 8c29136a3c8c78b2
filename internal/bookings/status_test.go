package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsConfirmedEquivalent(t *testing.T) {
	confirmed := []string{
		"CONFIRMED", "COMPLETED", "SUCCESS", "SUCCESSFUL", "SUCCEEDED", "PAID",
		"confirmed", "Paid", "success", " CONFIRMED ",
	}
	for _, s := range confirmed {
		assert.True(t, Status(s).IsConfirmedEquivalent(), "expected %q to be confirmed-equivalent", s)
	}

	notConfirmed := []string{
		"PENDING", "CANCELLED", "FAILED", "REFUNDED", "", "CONFIRM", "OK",
	}
	for _, s := range notConfirmed {
		assert.False(t, Status(s).IsConfirmedEquivalent(), "expected %q to not be confirmed-equivalent", s)
	}
}

func TestStatusHoldsInventory(t *testing.T) {
	assert.True(t, StatusPending.HoldsInventory())
	assert.True(t, StatusConfirmed.HoldsInventory())
	assert.True(t, Status("PAID").HoldsInventory())

	assert.False(t, StatusCancelled.HoldsInventory())
	assert.False(t, StatusFailed.HoldsInventory())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusConfirmed.IsValid())
	assert.False(t, Status("UNKNOWN").IsValid())
}
