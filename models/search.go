package models

// SearchCriteria drives a breadth search across a date and time range.
type SearchCriteria struct {
	ServiceIDs    []string  `json:"serviceIds" binding:"required"`
	DateFrom      string    `json:"dateFrom" binding:"required"`
	DateTo        string    `json:"dateTo" binding:"required"`
	TimeFrom      TimeOfDay `json:"timeFrom"`
	TimeTo        TimeOfDay `json:"timeTo"`
	Location      GeoPoint  `json:"location" binding:"required"`
	MaxDistanceKm float64   `json:"maxDistanceKm,omitempty"` // 0 means the configured default
	ClientID      string    `json:"clientId,omitempty"`      // enables the favorites split
}

// PinpointCriteria asks for masters able to start one service at one moment.
type PinpointCriteria struct {
	ServiceID        string    `json:"serviceId" binding:"required"`
	Date             string    `json:"date" binding:"required"`
	Time             TimeOfDay `json:"time"`
	Location         GeoPoint  `json:"location" binding:"required"`
	MaxDistanceKm    float64   `json:"maxDistanceKm,omitempty"`
	ExcludeMasterIDs []string  `json:"excludeMasterIds,omitempty"`
}

// AvailableStart is a feasible start time for a service on a date.
type AvailableStart struct {
	Date      string    `json:"date"`
	Time      TimeOfDay `json:"time"`
	ServiceID string    `json:"serviceId"`
}

type RankedMaster struct {
	Master     Master           `json:"master"`
	Score      float64          `json:"score"`
	DistanceKm float64          `json:"distanceKm"`
	Starts     []AvailableStart `json:"starts,omitempty"`
}

// SearchResult splits ranked masters into those who already served the
// client and the rest. Both lists keep rank order.
type SearchResult struct {
	Favorites []RankedMaster `json:"favorites"`
	Regular   []RankedMaster `json:"regular"`
}
