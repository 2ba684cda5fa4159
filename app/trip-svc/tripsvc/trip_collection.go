// Package tripsvc serves recently inferred bikeshare trips over http, fed by NATS
package tripsvc

import (
	"sync"
	"time"

	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
)

// tripCollection contains recently received trips and provides thread safe access to them
type tripCollection struct {
	mu    sync.Mutex
	trips []*bikeshare.Trip
}

// makeTripCollection tripCollection factory
func makeTripCollection() *tripCollection {
	return &tripCollection{
		trips: make([]*bikeshare.Trip, 0),
	}
}

// addTrip stores a newly received trip
func (c *tripCollection) addTrip(trip *bikeshare.Trip) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = append(c.trips, trip)
}

// tripList returns all trips currently stored, ordered by trip start time
func (c *tripCollection) tripList() []bikeshare.Trip {
	c.mu.Lock()
	defer c.mu.Unlock()
	results := make([]bikeshare.Trip, 0, len(c.trips))
	for _, trip := range c.trips {
		results = append(results, *trip)
	}
	bikeshare.SortTripsByStart(results)
	return results
}

// expireTrips removes all trips that ended more than expireAfterSeconds before "at".
// returns the number of trips that have been removed and how many are currently stored.
func (c *tripCollection) expireTrips(at time.Time, expireAfterSeconds int) (removed int, currentSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newTrips := make([]*bikeshare.Trip, 0)
	for _, trip := range c.trips {
		seconds := at.Unix() - trip.EndedAt.Unix()
		if seconds < int64(expireAfterSeconds) {
			newTrips = append(newTrips, trip)
		}
	}
	previousSize := len(c.trips)
	c.trips = newTrips
	currentSize = len(c.trips)
	return previousSize - currentSize, currentSize
}
