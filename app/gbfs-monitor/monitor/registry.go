package monitor

import (
	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
	"github.com/OpenMobilityTools/bikewatch/foundation/gbfs"
)

const (
	//tripDistanceMeters is how far a bike must have moved between two samples before the
	//movement is treated as a trip rather than GPS noise
	tripDistanceMeters = 50.0
	//minTripSeconds filters out accidental unlocks and immediately cancelled rentals
	minTripSeconds = 100
)

//bikePosition is the last at-rest observation of a bike
type bikePosition struct {
	lat      float64
	lon      float64
	lastSeen int64
}

//hasMoved returns true if the bike reports different coordinates than other
func (b *bikePosition) hasMoved(other *bikePosition) bool {
	return b.lat != other.lat || b.lon != other.lon
}

//awayFrom returns true if other is more than tripDistanceMeters away,
//in order to account for GPS inaccuracy
func (b *bikePosition) awayFrom(other *bikePosition) bool {
	return bikeshare.Distance(b.lat, b.lon, other.lat, other.lon) > tripDistanceMeters
}

//bikeRegistry keeps the last at-rest position of every tracked bike and the trips inferred
//between polls. The registry is owned and mutated by a single poll loop, one payload is fully
//reconciled before the next one is submitted, so no locking is needed
type bikeRegistry struct {
	stations    *bikeshare.StationIndex
	bikes       map[string]bikePosition
	lastUpdated int64
	tripLog     []bikeshare.Trip
}

//makeBikeRegistry creates a bikeRegistry resolving trip endpoints against stations
func makeBikeRegistry(stations *bikeshare.StationIndex) *bikeRegistry {
	return &bikeRegistry{
		stations: stations,
		bikes:    make(map[string]bikePosition),
	}
}

//reconcile applies one free bike status payload against the registry and returns the trips
//inferred from it in detection order.
//the second return value is false when the payload repeats or regresses a previously seen
//last_updated, in which case nothing was changed.
//a bike that vanishes from one payload and reappears relocated, or a trip that returns to its
//start station, is not detected: only a bike's last known sample is ever compared to its
//newest sample. Rare in practice and deliberately left alone, detecting it would require
//diffing payload membership every cycle
func (r *bikeRegistry) reconcile(feed *gbfs.FreeBikeStatus) ([]bikeshare.Trip, bool) {
	if feed.LastUpdated <= r.lastUpdated {
		return nil, false
	}
	r.lastUpdated = feed.LastUpdated

	var newTrips []bikeshare.Trip
	for _, bike := range feed.Bikes {
		cur := bikePosition{
			lat:      bike.Lat,
			lon:      bike.Lon,
			lastSeen: feed.LastUpdated,
		}
		old, tracked := r.bikes[bike.BikeID]
		if !tracked {
			//disabled bikes that were never seen enabled are not worth tracking
			if !bool(bike.IsDisabled) {
				r.bikes[bike.BikeID] = cur
			}
			continue
		}

		if old.awayFrom(&cur) && cur.lastSeen-old.lastSeen > minTripSeconds {
			startStation := r.stations.Nearest(old.lat, old.lon)
			endStation := r.stations.Nearest(cur.lat, cur.lon)
			newTrips = append(newTrips, bikeshare.MakeTrip(startStation, endStation, old.lastSeen, cur.lastSeen))
			r.bikes[bike.BikeID] = cur
			continue
		}

		//no trip: the timestamp always refreshes, coordinates only when the bike moved a bit
		if old.hasMoved(&cur) {
			r.bikes[bike.BikeID] = cur
		} else {
			old.lastSeen = cur.lastSeen
			r.bikes[bike.BikeID] = old
		}
	}

	r.tripLog = append(r.tripLog, newTrips...)
	return newTrips, true
}

//trackedCount returns the number of bikes currently tracked by the registry
func (r *bikeRegistry) trackedCount() int {
	return len(r.bikes)
}

//tripCount returns the number of trips inferred so far
func (r *bikeRegistry) tripCount() int {
	return len(r.tripLog)
}

//sortedTrips returns a copy of the full trip log ordered ascending by trip start time
func (r *bikeRegistry) sortedTrips() []bikeshare.Trip {
	trips := make([]bikeshare.Trip, len(r.tripLog))
	copy(trips, r.tripLog)
	bikeshare.SortTripsByStart(trips)
	return trips
}
