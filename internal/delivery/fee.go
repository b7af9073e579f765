package delivery

import (
	"math"
	"strings"

	"github.com/example/kiri/internal/geo"
)

// Delivery fee constants, in riel.
const (
	BaseFee   = 2000
	PerKmFee  = 1000
	UrbanFee  = 3000
	RemoteFee = 6000
)

const earthRadiusKm = 6371

// urbanMarkers classify a province string as Phnom Penh.
var urbanMarkers = []string{"phnom penh", "phnompenh", "pp", "ភ្នំពេញ"}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceFee computes the fee for a delivery distance: base fee plus a
// per-kilometer charge, rounded to whole riel. No cap.
func DistanceFee(km float64) int {
	return int(math.Round(BaseFee + PerKmFee*math.Max(0, km)))
}

// ZoneFee classifies the province string as urban or remote. Pickup methods
// always cost nothing.
func ZoneFee(province, method string) int {
	if m := strings.ToLower(strings.TrimSpace(method)); m == "pickup" || m == "self-pickup" {
		return 0
	}

	p := strings.ToLower(strings.TrimSpace(province))
	for _, marker := range urbanMarkers {
		if strings.Contains(p, marker) {
			return UrbanFee
		}
	}
	return RemoteFee
}

// Quoter selects between the zone and distance strategies.
type Quoter struct {
	strategy     string
	warehouseLat float64
	warehouseLng float64
}

// NewQuoter builds a Quoter. Strategy is "zone" or "distance".
func NewQuoter(strategy string, warehouseLat, warehouseLng float64) *Quoter {
	return &Quoter{strategy: strategy, warehouseLat: warehouseLat, warehouseLng: warehouseLng}
}

// Quote returns the delivery fee in riel for a destination province. The
// distance strategy resolves the province centroid by code and falls back to
// the zone strategy when the code is unknown.
func (q *Quoter) Quote(provinceCode, provinceName, method string) int {
	if q.strategy == "distance" {
		if lat, lng, ok := geo.ProvinceCentroid(provinceCode); ok {
			return DistanceFee(Haversine(q.warehouseLat, q.warehouseLng, lat, lng))
		}
	}
	return ZoneFee(provinceName, method)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
