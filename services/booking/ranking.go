package booking

import (
	"math"
	"sort"

	"masterbook/models"
)

const (
	maxRating       = 5.0
	proximityWeight = 3.0
	ratingWeight    = 7.0
)

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// distanceKm is the great-circle distance between two points.
func distanceKm(a, b models.GeoPoint) float64 {
	return haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// scoreFor weighs proximity at 30% and rating at 70%.
func scoreFor(distance, maxDistance, rating float64) float64 {
	var proximity float64
	if maxDistance > 0 {
		proximity = 1 - distance/maxDistance
	}
	if rating > maxRating {
		rating = maxRating
	}
	return proximity*proximityWeight + (rating/maxRating)*ratingWeight
}

// Score ranks a master for a request made at the given point.
func Score(master models.Master, at models.GeoPoint, maxDistanceKm float64) float64 {
	return scoreFor(distanceKm(master.LocationGeo, at), maxDistanceKm, master.Rating)
}

// Rank sorts masters by score, best first. Equal scores keep input order.
func Rank(masters []models.RankedMaster) {
	sort.SliceStable(masters, func(i, j int) bool {
		return masters[i].Score > masters[j].Score
	})
}

// Split separates masters the client has been served by (served count > 0)
// from the rest. Both groups keep their relative order.
func Split(ranked []models.RankedMaster, served map[string]int) *models.SearchResult {
	res := &models.SearchResult{
		Favorites: []models.RankedMaster{},
		Regular:   []models.RankedMaster{},
	}
	for _, rm := range ranked {
		if served[rm.Master.ID] > 0 {
			res.Favorites = append(res.Favorites, rm)
		} else {
			res.Regular = append(res.Regular, rm)
		}
	}
	return res
}
