package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carenest/marketplace/internal/domain"
)

func TestDistanceKm(t *testing.T) {
	lagos := domain.Location{Lat: 6.5244, Long: 3.3792}
	abuja := domain.Location{Lat: 9.0765, Long: 7.3986}
	ikeja := domain.Location{Lat: 6.6018, Long: 3.3515}

	tests := []struct {
		name     string
		from, to domain.Location
		min, max int
	}{
		{"same point", lagos, lagos, 0, 0},
		{"across town", lagos, ikeja, 8, 9},
		{"between cities", lagos, abuja, 520, 540},
		{"symmetric", abuja, lagos, 520, 540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.from, tt.to)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestDistanceKmUsesBothEndpoints(t *testing.T) {
	provider := domain.Location{Lat: 6.5244, Long: 3.3792}
	address := domain.Location{Lat: 6.5244, Long: 4.3792}

	assert.Positive(t, DistanceKm(address, provider))
}

func TestDistanceUsesEquatorialRadius(t *testing.T) {
	origin := domain.Location{}
	// 1000/6375 rad of longitude along the equator: about 999.4 km on a
	// 6371 km sphere and about 1000.5 km on the equatorial radius.
	east := domain.Location{Long: 1000.0 / 6375.0 * 180 / math.Pi}

	assert.Equal(t, 1000, DistanceKm(origin, east))
	assert.InDelta(t, 1000490, DistanceMeters(origin, east), 50)
}
