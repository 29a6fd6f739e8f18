package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"masterbook/config"
	"masterbook/database"
	calendarRepo "masterbook/database/repository/calendar"
	catalogRepo "masterbook/database/repository/catalog"
	masterRepo "masterbook/database/repository/master"
	"masterbook/models"
	"masterbook/services/scheduling"
	"masterbook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// Seeds a demo catalogue, masters scattered around a fixed point and a week
// of published slots for each of them.
func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	database.InitDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.DB()
	for _, coll := range []string{"services", "masters", "calendar_days"} {
		if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", coll, err)
		}
	}

	catalog := catalogRepo.NewMongoServiceRepo()
	masters := masterRepo.NewMongoMasterRepo()
	days := calendarRepo.NewMongoCalendarRepo()
	for _, ensure := range []func() error{catalog.EnsureIndexes, masters.EnsureIndexes, days.EnsureIndexes} {
		if err := ensure(); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}
	calendar := scheduling.NewCalendarService(days, masters, scheduling.DefaultSlotMinutes, logger)

	services := []models.Service{
		{ID: "haircut", Name: "Haircut", MinDuration: 30, MaxDuration: 60, Price: 30},
		{ID: "manicure", Name: "Manicure", MinDuration: 30, MaxDuration: 30, Price: 20},
		{ID: "coloring", Name: "Coloring", MinDuration: 60, MaxDuration: 120, Price: 70},
	}
	for i := range services {
		if err := catalog.Upsert(ctx, &services[i]); err != nil {
			log.Fatalf("Failed to insert service %s: %v", services[i].ID, err)
		}
	}

	// Fixed client point for simulation.
	centerLat, centerLon := 55.7558, 37.6173
	const total = 30
	const maxDistance, minDistance = 8.0, 0.1
	spacing := (maxDistance - minDistance) / float64(total-1)

	var weekDates []string
	today := time.Now().UTC()
	for i := 0; i < 7; i++ {
		weekDates = append(weekDates, today.AddDate(0, 0, i).Format(models.DateLayout))
	}

	for n := 0; n < total; n++ {
		distanceKm := maxDistance - spacing*float64(n)
		angle := rand.Float64() * 2 * math.Pi
		// 1 km is about 0.009 degrees of latitude; longitude shrinks with cos(lat).
		dLat := distanceKm * 0.009 * math.Sin(angle)
		dLon := distanceKm * 0.009 / math.Cos(centerLat*math.Pi/180) * math.Cos(angle)

		offered := []string{services[n%len(services)].ID}
		if n%4 == 0 {
			offered = append(offered, services[(n+1)%len(services)].ID)
		}
		master := &models.Master{
			ID:          fmt.Sprintf("master-%d", n+1),
			Name:        fmt.Sprintf("Master %d", n+1),
			LocationGeo: models.NewGeoPoint(centerLat+dLat, centerLon+dLon),
			Rating:      math.Round((3+rand.Float64()*2)*10) / 10,
			ServiceIDs:  offered,
			Status:      models.MasterStatusActive,
		}
		if err := masters.Upsert(ctx, master); err != nil {
			log.Fatalf("Failed to insert master %s: %v", master.ID, err)
		}

		for _, date := range weekDates {
			if _, err := calendar.PublishSlots(ctx, master.ID, date, workingDay(n)); err != nil {
				log.Fatalf("Failed to publish slots of %s on %s: %v", master.ID, date, err)
			}
		}
	}
	fmt.Printf("Seeded %d services, %d masters, %d days each\n", len(services), total, len(weekDates))
}

// workingDay returns half-hour slots over a shift that depends on n.
func workingDay(n int) []models.TimeOfDay {
	start, end := models.NewTimeOfDay(9, 0), models.NewTimeOfDay(18, 0)
	if n%2 == 1 {
		start, end = models.NewTimeOfDay(12, 0), models.NewTimeOfDay(21, 0)
	}
	var times []models.TimeOfDay
	for t := start; t < end; t = t.Add(scheduling.DefaultSlotMinutes) {
		times = append(times, t)
	}
	return times
}
