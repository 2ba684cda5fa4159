// Package gbfs provides access to General Bikeshare Feed Specification documents
package gbfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// document is the envelope every GBFS file shares
type document struct {
	LastUpdated int64           `json:"last_updated" validate:"required"`
	TTL         int64           `json:"ttl" validate:"gte=0"`
	Data        json.RawMessage `json:"data" validate:"required"`
}

// StationRecord is one station entry from a station_information document
type StationRecord struct {
	StationID string  `json:"station_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon       float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// StationInformation contains the decoded contents of a station_information document
type StationInformation struct {
	LastUpdated int64
	TTL         int64
	Stations    []StationRecord
}

// BikeRecord is one bike entry from a free_bike_status document
type BikeRecord struct {
	BikeID     string  `json:"bike_id" validate:"required"`
	Lat        float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon        float64 `json:"lon" validate:"gte=-180,lte=180"`
	IsDisabled Flag    `json:"is_disabled"`
	IsReserved Flag    `json:"is_reserved"`
}

// FreeBikeStatus contains the decoded contents of a free_bike_status document
type FreeBikeStatus struct {
	LastUpdated int64
	TTL         int64
	Bikes       []BikeRecord
}

// Flag is a GBFS boolean field. GBFS v1 feeds publish these as 0/1 integers,
// v2 feeds publish real booleans, so both encodings are accepted
type Flag bool

// UnmarshalJSON implements json.Unmarshaler for Flag
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "0", "false":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("unexpected GBFS boolean value %q", string(data))
	}
	return nil
}

// GetStationInformation retrieves and decodes a station_information document from url
func GetStationInformation(log *log.Logger, url string) (*StationInformation, error) {
	doc, err := getDocument(log, url)
	if err != nil {
		return nil, fmt.Errorf("loading station information document: %w", err)
	}
	var data struct {
		Stations []StationRecord `json:"stations"`
	}
	if err = json.Unmarshal(doc.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding station information data: %w", err)
	}
	for _, station := range data.Stations {
		if err = validate.Struct(station); err != nil {
			return nil, fmt.Errorf("invalid station record %+v: %w", station, err)
		}
	}
	return &StationInformation{
		LastUpdated: doc.LastUpdated,
		TTL:         doc.TTL,
		Stations:    data.Stations,
	}, nil
}

// GetFreeBikeStatus retrieves and decodes a free_bike_status document from url
func GetFreeBikeStatus(log *log.Logger, url string) (*FreeBikeStatus, error) {
	doc, err := getDocument(log, url)
	if err != nil {
		return nil, fmt.Errorf("loading free bike status document: %w", err)
	}
	var data struct {
		Bikes []BikeRecord `json:"bikes"`
	}
	if err = json.Unmarshal(doc.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding free bike status data: %w", err)
	}
	for _, bike := range data.Bikes {
		if err = validate.Struct(bike); err != nil {
			return nil, fmt.Errorf("invalid bike record %+v: %w", bike, err)
		}
	}
	return &FreeBikeStatus{
		LastUpdated: doc.LastUpdated,
		TTL:         doc.TTL,
		Bikes:       data.Bikes,
	}, nil
}

// getDocument pulls a GBFS document from url using simple GET request and decodes the envelope
func getDocument(log *log.Logger, url string) (*document, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		innerErr := resp.Body.Close()
		if innerErr != nil {
			log.Printf("error closing http response body. error: %v\n", innerErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status %s from %s", resp.Status, url)
	}

	var doc document
	if err = json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document envelope: %w", err)
	}
	if err = validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid document envelope: %w", err)
	}
	return &doc, nil
}
