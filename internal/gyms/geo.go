// Package gyms matches a device position to the user's saved gyms.
package gyms

import (
	"math"

	"github.com/claude/ironlog/internal/models"
)

const earthRadiusMeters = 6371000

// ProximityThresholdMeters is how close a position must be for a gym to count
// as the one the user is at.
const ProximityThresholdMeters = 300

// Haversine returns the great-circle distance in meters between two points
// given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Nearest returns the closest gym with coordinates within the proximity
// threshold of (lat, lon). Gyms without coordinates are skipped.
func Nearest(gyms []models.Gym, lat, lon float64) (*models.Gym, float64, bool) {
	var (
		best     *models.Gym
		bestDist = math.Inf(1)
	)
	for i := range gyms {
		g := &gyms[i]
		if g.Latitude == nil || g.Longitude == nil {
			continue
		}
		d := Haversine(lat, lon, *g.Latitude, *g.Longitude)
		if d <= ProximityThresholdMeters && d < bestDist {
			best, bestDist = g, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}
