package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBikeStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(BikeStatusAvailable, BikeStatusRented))
	assert.True(t, CanTransition(BikeStatusRented, BikeStatusMaintenance))
	assert.True(t, CanTransition(BikeStatusMaintenance, BikeStatusAvailable))

	// A rented bike cannot be retired out from under the customer.
	assert.False(t, CanTransition(BikeStatusRented, BikeStatusRetired))

	// Retired is terminal.
	assert.False(t, CanTransition(BikeStatusRetired, BikeStatusAvailable))
	assert.False(t, CanTransition(BikeStatusRetired, BikeStatusRented))

	assert.True(t, ValidStatus(BikeStatusAvailable))
	assert.False(t, ValidStatus("LOST"))
}
