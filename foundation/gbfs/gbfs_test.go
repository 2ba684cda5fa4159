package gbfs

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(os.Stdout, "TEST : ", 0)
}

func serveJSON(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestGetStationInformation(t *testing.T) {
	server := serveJSON(`{
		"last_updated": 1609459200,
		"ttl": 300,
		"data": {
			"stations": [
				{"station_id": "101", "name": "Alexanderplatz", "lat": 52.5219, "lon": 13.4132},
				{"station_id": "102", "name": "Bergmannstrasse", "lat": 52.4884, "lon": 13.4022}
			]
		}
	}`)
	defer server.Close()

	info, err := GetStationInformation(testLogger(), server.URL)
	if err != nil {
		t.Fatalf("GetStationInformation() error: %v", err)
	}
	if info.LastUpdated != 1609459200 || info.TTL != 300 {
		t.Errorf("unexpected envelope fields: %+v", info)
	}
	if len(info.Stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(info.Stations))
	}
	if info.Stations[0].StationID != "101" || info.Stations[0].Name != "Alexanderplatz" {
		t.Errorf("unexpected first station: %+v", info.Stations[0])
	}
}

func TestGetStationInformation_errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing station id",
			body: `{"last_updated": 1609459200, "ttl": 300, "data": {"stations": [{"name": "Nowhere", "lat": 0, "lon": 0}]}}`,
		},
		{
			name: "latitude out of range",
			body: `{"last_updated": 1609459200, "ttl": 300, "data": {"stations": [{"station_id": "1", "name": "Nowhere", "lat": 95, "lon": 0}]}}`,
		},
		{
			name: "missing envelope timestamp",
			body: `{"ttl": 300, "data": {"stations": []}}`,
		},
		{
			name: "not json",
			body: `<html>service unavailable</html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serveJSON(tt.body)
			defer server.Close()
			if _, err := GetStationInformation(testLogger(), server.URL); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestGetFreeBikeStatus(t *testing.T) {
	//is_disabled appears both as v1 integers and v2 booleans in the wild
	server := serveJSON(`{
		"last_updated": 1609459260,
		"ttl": 10,
		"data": {
			"bikes": [
				{"bike_id": "b1", "lat": 52.5219, "lon": 13.4132, "is_disabled": 0, "is_reserved": 0},
				{"bike_id": "b2", "lat": 52.4884, "lon": 13.4022, "is_disabled": 1},
				{"bike_id": "b3", "lat": 52.5000, "lon": 13.4100, "is_disabled": true, "is_reserved": false}
			]
		}
	}`)
	defer server.Close()

	feed, err := GetFreeBikeStatus(testLogger(), server.URL)
	if err != nil {
		t.Fatalf("GetFreeBikeStatus() error: %v", err)
	}
	if feed.LastUpdated != 1609459260 || feed.TTL != 10 {
		t.Errorf("unexpected envelope fields: %+v", feed)
	}
	if len(feed.Bikes) != 3 {
		t.Fatalf("expected 3 bikes, got %d", len(feed.Bikes))
	}
	if feed.Bikes[0].IsDisabled || feed.Bikes[0].IsReserved {
		t.Errorf("expected b1 enabled, got %+v", feed.Bikes[0])
	}
	if !feed.Bikes[1].IsDisabled {
		t.Errorf("expected b2 disabled, got %+v", feed.Bikes[1])
	}
	if !feed.Bikes[2].IsDisabled {
		t.Errorf("expected b3 disabled, got %+v", feed.Bikes[2])
	}
}

func TestGetFreeBikeStatus_httpError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := GetFreeBikeStatus(testLogger(), server.URL); err == nil {
		t.Errorf("expected error for http failure status")
	}
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		give    string
		want    Flag
		wantErr bool
	}{
		{give: "0", want: false},
		{give: "1", want: true},
		{give: "false", want: false},
		{give: "true", want: true},
		{give: "2", wantErr: true},
		{give: `"yes"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			var got Flag
			err := got.UnmarshalJSON([]byte(tt.give))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.give, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %v, want %v", tt.give, got, tt.want)
			}
		})
	}
}
