package models_test

import (
	"testing"
	"time"

	"pasar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Discounts(t *testing.T) {
	p := &models.Product{PriceOld: 200, PriceNew: 150}
	assert.InDelta(t, 25.0, p.DiscountPercentage(), 0.001)
	assert.InDelta(t, 50.0, p.DiscountAmount(), 0.001)

	zero := &models.Product{}
	assert.Equal(t, 0.0, zero.DiscountPercentage())
}

func TestProduct_IsExpired(t *testing.T) {
	now := time.Now()

	fresh := &models.Product{StartDate: now, ExpiryDate: now.Add(models.ValidityWindow)}
	assert.False(t, fresh.IsExpired())

	stale := &models.Product{
		StartDate:  now.Add(-8 * 24 * time.Hour),
		ExpiryDate: now.Add(-24 * time.Hour),
	}
	assert.True(t, stale.IsExpired())
}
