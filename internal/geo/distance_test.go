package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			lat1:     35.681236,
			lon1:     139.767125,
			lat2:     35.681236,
			lon2:     139.767125,
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "tokyo station to osaka station",
			lat1:     35.681236,
			lon1:     139.767125,
			lat2:     34.702485,
			lon2:     135.495951,
			expected: 403.06,
			delta:    0.5,
		},
		{
			name:     "one degree of latitude",
			lat1:     35.0,
			lon1:     139.0,
			lat2:     36.0,
			lon2:     139.0,
			expected: 111.19,
			delta:    0.01,
		},
		{
			name:     "antipodal points",
			lat1:     0,
			lon1:     0,
			lat2:     0,
			lon2:     180,
			expected: 20015.09,
			delta:    0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, d, tt.delta)
			assert.GreaterOrEqual(t, d, 0.0)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(35.0, 139.0, 35.03, 139.02)
	b := DistanceKm(35.03, 139.02, 35.0, 139.0)
	assert.InDelta(t, a, b, 1e-9)
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	minLat, maxLat, minLng, maxLng := BoundingBox(35.0, 139.0, 5)

	assert.InDelta(t, 5, DistanceKm(35.0, 139.0, maxLat, 139.0), 0.01)
	assert.InDelta(t, 5, DistanceKm(35.0, 139.0, minLat, 139.0), 0.01)
	assert.GreaterOrEqual(t, DistanceKm(35.0, 139.0, 35.0, maxLng), 4.99)
	assert.GreaterOrEqual(t, DistanceKm(35.0, 139.0, 35.0, minLng), 4.99)
}
