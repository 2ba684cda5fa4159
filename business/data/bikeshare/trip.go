package bikeshare

import (
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

//Trip contains details of one inferred rental, derived from two consecutive position
//samples of the same bike. The endpoint stations are denormalized at creation time so the
//record stands alone once the trip is persisted
type Trip struct {
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	EndedAt         time.Time `db:"ended_at" json:"ended_at"`
	DurationSeconds int64     `db:"duration" json:"duration"`

	StartStationID        string  `db:"start_station_id" json:"start_station_id"`
	StartStationName      string  `db:"start_station_name" json:"start_station_name"`
	StartStationLatitude  float64 `db:"start_station_latitude" json:"start_station_latitude"`
	StartStationLongitude float64 `db:"start_station_longitude" json:"start_station_longitude"`

	EndStationID        string  `db:"end_station_id" json:"end_station_id"`
	EndStationName      string  `db:"end_station_name" json:"end_station_name"`
	EndStationLatitude  float64 `db:"end_station_latitude" json:"end_station_latitude"`
	EndStationLongitude float64 `db:"end_station_longitude" json:"end_station_longitude"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MakeTrip builds a Trip between start and end stations from epoch second timestamps
func MakeTrip(start Station, end Station, startedAtEpoch int64, endedAtEpoch int64) Trip {
	return Trip{
		StartedAt:             time.Unix(startedAtEpoch, 0).UTC(),
		EndedAt:               time.Unix(endedAtEpoch, 0).UTC(),
		DurationSeconds:       endedAtEpoch - startedAtEpoch,
		StartStationID:        start.ID,
		StartStationName:      start.Name,
		StartStationLatitude:  start.Lat,
		StartStationLongitude: start.Lon,
		EndStationID:          end.ID,
		EndStationName:        end.Name,
		EndStationLatitude:    end.Lat,
		EndStationLongitude:   end.Lon,
	}
}

// SortTripsByStart orders trips ascending by their start time
func SortTripsByStart(trips []Trip) {
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].StartedAt.Before(trips[j].StartedAt)
	})
}

// RecordTrip saves a Trip into the database
func RecordTrip(trip *Trip, db *sqlx.DB) error {

	trip.CreatedAt = time.Now()

	statementString := "insert into trip " +
		"(started_at, " +
		"ended_at, " +
		"duration, " +
		"start_station_id, " +
		"start_station_name, " +
		"start_station_latitude, " +
		"start_station_longitude, " +
		"end_station_id, " +
		"end_station_name, " +
		"end_station_latitude, " +
		"end_station_longitude, " +
		"created_at) " +
		"values " +
		"(:started_at, " +
		":ended_at, " +
		":duration, " +
		":start_station_id, " +
		":start_station_name, " +
		":start_station_latitude, " +
		":start_station_longitude, " +
		":end_station_id, " +
		":end_station_name, " +
		":end_station_latitude, " +
		":end_station_longitude, " +
		":created_at)"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, trip)
	return err
}
