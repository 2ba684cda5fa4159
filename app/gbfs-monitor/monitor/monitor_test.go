package monitor

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
)

func Test_nextSleep(t *testing.T) {
	minimum := time.Second
	type args struct {
		lastUpdated int64
		ttl         int64
		now         time.Time
	}
	tests := []struct {
		name string
		args args
		want time.Duration
	}{
		{
			name: "waits until the feed advertises fresh data plus slack",
			args: args{lastUpdated: 1000, ttl: 10, now: time.Unix(1005, 0)},
			want: 6 * time.Second,
		},
		{
			name: "never waits less than the minimum",
			args: args{lastUpdated: 1000, ttl: 10, now: time.Unix(1011, 0)},
			want: time.Second,
		},
		{
			name: "stale feed falls back to the minimum",
			args: args{lastUpdated: 1000, ttl: 10, now: time.Unix(2000, 0)},
			want: time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextSleep(tt.args.lastUpdated, tt.args.ttl, tt.args.now, minimum); got != tt.want {
				t.Errorf("nextSleep() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_writeTripLog(t *testing.T) {
	registry := testRegistry(t)
	station := bikeshare.Station{ID: "101", Name: "First Street", Lat: 0, Lon: 0}
	//detection order deliberately out of chronological order
	registry.tripLog = append(registry.tripLog,
		bikeshare.MakeTrip(station, station, 3000, 3100),
		bikeshare.MakeTrip(station, station, 1000, 1200))

	path := filepath.Join(t.TempDir(), "trips.json")
	testLog := log.New(os.Stdout, "TEST : ", 0)

	if err := writeTripLog(testLog, registry, path); err != nil {
		t.Fatalf("writeTripLog() error: %v", err)
	}

	jsonData, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read trip log file: %v", err)
	}
	var written []bikeshare.Trip
	if err = json.Unmarshal(jsonData, &written); err != nil {
		t.Fatalf("unable to parse trip log file: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 trips in trip log file, got %d", len(written))
	}
	if written[0].StartedAt.Unix() != 1000 || written[1].StartedAt.Unix() != 3000 {
		t.Errorf("trip log file not sorted by start time: %+v", written)
	}
}
