package travel

import (
	"context"
	"errors"
	"time"

	"masterbook/models"
)

// ErrNoRoute means the provider knows of no way between the two points.
var ErrNoRoute = errors.New("no route between locations")

// Oracle estimates door-to-door travel time.
type Oracle interface {
	EstimateTravelSeconds(ctx context.Context, from, to models.GeoPoint, departure time.Time) (int, error)
}
