package tripsvc

import (
	"testing"
	"time"

	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
)

func testTrip(startedAtEpoch, endedAtEpoch int64) *bikeshare.Trip {
	station := bikeshare.Station{ID: "101", Name: "Alexanderplatz", Lat: 0, Lon: 0}
	trip := bikeshare.MakeTrip(station, station, startedAtEpoch, endedAtEpoch)
	return &trip
}

func Test_tripCollection_tripList(t *testing.T) {
	collection := makeTripCollection()
	collection.addTrip(testTrip(3000, 3100))
	collection.addTrip(testTrip(1000, 1200))
	collection.addTrip(testTrip(2000, 2500))

	trips := collection.tripList()
	if len(trips) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(trips))
	}
	for i := 1; i < len(trips); i++ {
		if trips[i].StartedAt.Before(trips[i-1].StartedAt) {
			t.Errorf("tripList() not ordered by start time: %+v", trips)
		}
	}
}

func Test_tripCollection_expireTrips(t *testing.T) {
	collection := makeTripCollection()
	collection.addTrip(testTrip(1000, 1200))
	collection.addTrip(testTrip(2000, 2500))
	collection.addTrip(testTrip(3000, 3900))

	removed, currentSize := collection.expireTrips(time.Unix(4000, 0), 1000)
	if removed != 2 || currentSize != 1 {
		t.Fatalf("expireTrips() removed=%d currentSize=%d, want removed=2 currentSize=1", removed, currentSize)
	}

	trips := collection.tripList()
	if len(trips) != 1 || trips[0].EndedAt.Unix() != 3900 {
		t.Errorf("unexpected surviving trips: %+v", trips)
	}
}
