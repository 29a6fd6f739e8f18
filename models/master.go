package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func (g GeoPoint) Lon() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

func (g GeoPoint) Lat() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// Valid reports whether the point carries a usable [lon, lat] pair.
func (g GeoPoint) Valid() bool {
	if len(g.Coordinates) != 2 {
		return false
	}
	lat, lon := g.Lat(), g.Lon()
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Service is an entry in the catalogue. MaxDuration (minutes) drives scheduling;
// MinDuration is informational.
type Service struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	MinDuration int     `bson:"minDuration" json:"minDuration"`
	MaxDuration int     `bson:"maxDuration" json:"maxDuration"`
	Price       float64 `bson:"price" json:"price"`
}

const (
	MasterStatusActive    = "active"
	MasterStatusSuspended = "suspended"
)

type Master struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	LocationGeo GeoPoint  `bson:"locationGeo" json:"locationGeo"`
	Rating      float64   `bson:"rating" json:"rating"` // 0..5
	ServiceIDs  []string  `bson:"serviceIds" json:"serviceIds"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Offers reports whether the master lists the service.
func (m Master) Offers(serviceID string) bool {
	for _, id := range m.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
