// Package bikeshare provides bikeshare domain records, station lookup and trip persistence
package bikeshare

import (
	"fmt"
	"math"
	"sort"
)

const (
	// FlexParkingID is the placeholder station id used when a bike is parked away from any station
	FlexParkingID = "0"
	// FlexParkingName is the placeholder station name used when a bike is parked away from any station
	FlexParkingName = "Flex parking"

	//stationRadiusMeters is how close a point must be to a station before the point is
	//considered to be at that station
	stationRadiusMeters = 10.0
)

// Station represents one bikeshare station, immutable after load
type Station struct {
	ID   string  `json:"station_id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// IsFlexParking returns true when the station is the synthesized flex parking placeholder
func (s *Station) IsFlexParking() bool {
	return s.ID == FlexParkingID && s.Name == FlexParkingName
}

//StationIndex answers nearest-station queries against an immutable station list.
//stations are kept sorted by longitude so candidates can be located with binary search.
//the longitude-only search can miss a station whose longitude is distant but whose latitude
//makes it geometrically closer, an accepted trade off since bikes parked at a station
//report coordinates within a few meters of it
type StationIndex struct {
	stations []Station
}

// NewStationIndex builds a StationIndex from stations, failing when the list is empty
func NewStationIndex(stations []Station) (*StationIndex, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("cannot build station index from empty station list")
	}
	sorted := make([]Station, len(stations))
	copy(sorted, stations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Lon < sorted[j].Lon
	})
	return &StationIndex{stations: sorted}, nil
}

// Size returns the number of stations held by the index
func (si *StationIndex) Size() int {
	return len(si.stations)
}

//Nearest finds the station closest to the point using the longitude-adjacent candidates only.
//when no candidate is within stationRadiusMeters a flex parking placeholder carrying the
//query coordinates is returned, never a failure
func (si *StationIndex) Nearest(lat, lon float64) Station {
	lower := sort.Search(len(si.stations), func(i int) bool {
		return si.stations[i].Lon >= lon
	})
	upper := sort.Search(len(si.stations), func(i int) bool {
		return si.stations[i].Lon > lon
	})

	bestIndex := -1
	bestDistance := math.Inf(1)
	for _, candidate := range []int{lower - 1, lower, upper} {
		if candidate < 0 || candidate >= len(si.stations) {
			continue
		}
		station := si.stations[candidate]
		if d := Distance(lat, lon, station.Lat, station.Lon); d < bestDistance {
			bestDistance = d
			bestIndex = candidate
		}
	}

	if bestIndex >= 0 && bestDistance < stationRadiusMeters {
		return si.stations[bestIndex]
	}
	return Station{
		ID:   FlexParkingID,
		Name: FlexParkingName,
		Lat:  lat,
		Lon:  lon,
	}
}
