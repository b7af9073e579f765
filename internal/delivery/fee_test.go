package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	warehouseLat = 11.5564
	warehouseLng = 104.9282
)

func TestZoneFee(t *testing.T) {
	tests := []struct {
		name     string
		province string
		method   string
		want     int
	}{
		{"phnom penh lowercase", "phnom penh", "", UrbanFee},
		{"phnom penh mixed case", "Phnom Penh", "delivery", UrbanFee},
		{"compact spelling", "PhnomPenh", "", UrbanFee},
		{"abbreviation", "PP", "", UrbanFee},
		{"khmer name", "ភ្នំពេញ", "", UrbanFee},
		{"other province", "Kandal", "", RemoteFee},
		{"empty province", "", "", RemoteFee},
		{"pickup is free", "Kandal", "pickup", 0},
		{"self pickup is free", "Phnom Penh", "Self-Pickup", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ZoneFee(tt.province, tt.method))
		})
	}
}

func TestDistanceFeeAtWarehouse(t *testing.T) {
	assert.Equal(t, BaseFee, DistanceFee(Haversine(warehouseLat, warehouseLng, warehouseLat, warehouseLng)))
}

func TestDistanceFeeNegativeDistanceClamped(t *testing.T) {
	assert.Equal(t, BaseFee, DistanceFee(-5))
}

func TestDistanceFeeGrowsWithDistance(t *testing.T) {
	assert.Equal(t, BaseFee+10*PerKmFee, DistanceFee(10))
	assert.Less(t, DistanceFee(10), DistanceFee(150))
}

func TestHaversineKnownDistance(t *testing.T) {
	// Phnom Penh to Battambang is roughly 240 km great-circle.
	km := Haversine(warehouseLat, warehouseLng, 13.0287, 103.1029)
	assert.InDelta(t, 250, km, 30)
}

func TestQuoterZoneStrategy(t *testing.T) {
	q := NewQuoter("zone", warehouseLat, warehouseLng)

	assert.Equal(t, UrbanFee, q.Quote("12", "Phnom Penh", ""))
	assert.Equal(t, RemoteFee, q.Quote("08", "Kandal", ""))
	assert.Equal(t, 0, q.Quote("08", "Kandal", "pickup"))
}

func TestQuoterDistanceStrategy(t *testing.T) {
	q := NewQuoter("distance", warehouseLat, warehouseLng)

	// Phnom Penh centroid sits near the warehouse, Battambang far away.
	near := q.Quote("12", "Phnom Penh", "")
	far := q.Quote("02", "Battambang", "")
	assert.GreaterOrEqual(t, near, BaseFee)
	assert.Greater(t, far, near)
}

func TestQuoterDistanceFallsBackToZone(t *testing.T) {
	q := NewQuoter("distance", warehouseLat, warehouseLng)

	assert.Equal(t, RemoteFee, q.Quote("no-such-code", "Kandal", ""))
	assert.Equal(t, UrbanFee, q.Quote("", "Phnom Penh", ""))
}
