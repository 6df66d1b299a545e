package models_test

import (
	"testing"

	"butik/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPointsForAmount(t *testing.T) {
	cases := []struct {
		amount float64
		points int
	}{
		{0, 0},
		{999, 0},
		{999.99, 0},
		{1000, 10},
		{1500, 10},
		{1999, 10},
		{2000, 20},
		{2500, 20},
		{10000, 100},
		{-50, 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.points, models.PointsForAmount(c.amount), "amount %v", c.amount)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, models.StatusProcessing.CanTransitionTo(models.StatusPacked))
	assert.True(t, models.StatusProcessing.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusPacked.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusPacked.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusDelivered))

	// No skipping ahead, no leaving terminal states, no self transitions.
	assert.False(t, models.StatusProcessing.CanTransitionTo(models.StatusShipped))
	assert.False(t, models.StatusProcessing.CanTransitionTo(models.StatusDelivered))
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusDelivered.CanTransitionTo(models.StatusProcessing))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusProcessing))
	assert.False(t, models.StatusProcessing.CanTransitionTo(models.StatusProcessing))
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusProcessing, models.StatusPacked, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled,
	} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, models.OrderStatus("Refunded").Valid())
	assert.False(t, models.OrderStatus("").Valid())
}
