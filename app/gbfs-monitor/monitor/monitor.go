// Package monitor watches a GBFS free bike feed and infers completed rental trips
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
	"github.com/OpenMobilityTools/bikewatch/foundation/gbfs"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

// Config contains the feed and publishing settings for the bike monitor loop
type Config struct {
	StationInformationURL string
	FreeBikeStatusURL     string
	MinimumPollSeconds    int
	RecordToDatabase      bool
	PublishOverNats       bool
	NatsSubject           string
	TripLogPath           string
}

//RunBikeMonitorLoop starts loop that polls a GBFS free_bike_status feed, reconciles each
//payload against the bike registry and publishes inferred trips.
//station information is loaded once at startup, failure to load it is fatal.
//on shutdown signal the full trip log is sorted by trip start time and written to
//cfg.TripLogPath before returning
func RunBikeMonitorLoop(log *log.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	cfg Config,
	metrics *Metrics,
	shutdownSignal chan os.Signal) error {

	stationInfo, err := gbfs.GetStationInformation(log, cfg.StationInformationURL)
	if err != nil {
		return fmt.Errorf("loading station information: %w", err)
	}
	stations := make([]bikeshare.Station, 0, len(stationInfo.Stations))
	for _, record := range stationInfo.Stations {
		stations = append(stations, bikeshare.Station{
			ID:   record.StationID,
			Name: record.Name,
			Lat:  record.Lat,
			Lon:  record.Lon,
		})
	}
	stationIndex, err := bikeshare.NewStationIndex(stations)
	if err != nil {
		return fmt.Errorf("building station index: %w", err)
	}
	log.Printf("loaded %d stations\n", stationIndex.Size())

	registry := makeBikeRegistry(stationIndex)
	publisher := makeTripPublisher(log, db, natsConn, cfg.NatsSubject,
		cfg.RecordToDatabase, cfg.PublishOverNats, metrics)

	minimumSleep := time.Duration(cfg.MinimumPollSeconds) * time.Second

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //sleep for zero seconds the first time
	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return writeTripLog(log, registry, cfg.TripLogPath)
		case <-sleepChan:
			break
		}

		//set default sleep for next loop in the event of an error after continue statements
		sleep = minimumSleep

		// mark the time we start working
		start := time.Now()

		feed, err := gbfs.GetFreeBikeStatus(log, cfg.FreeBikeStatusURL)
		if err != nil {
			log.Printf("error attempting to get free bike status. error:%v\n", err)
			if metrics != nil {
				metrics.PollErrs.Inc()
			}
			continue
		}

		newTrips, applied := registry.reconcile(feed)
		if !applied {
			log.Printf("feed last_updated did not advance, skipping payload\n")
			if metrics != nil {
				metrics.DuplicatePayloads.Inc()
			}
		} else {
			log.Printf("reconciled %d bikes, %d tracked, %d new trips\n",
				len(feed.Bikes), registry.trackedCount(), len(newTrips))
			if metrics != nil {
				metrics.Polls.Inc()
				metrics.TripsDetected.Add(float64(len(newTrips)))
				metrics.TrackedBikes.Set(float64(registry.trackedCount()))
			}
			publisher.publish(newTrips)
		}

		workTook := time.Now().Sub(start)
		if metrics != nil {
			metrics.observeReconcile(workTook)
		}
		log.Printf("work took %s\n", fmtDuration(workTook))

		sleep = nextSleep(feed.LastUpdated, feed.TTL, time.Now(), minimumSleep)
	}
}

//nextSleep returns how long to wait before the next poll. The feed advertises when fresh
//data is expected through last_updated + ttl, one extra second covers update delays and
//clock skew. Never waits less than minimum
func nextSleep(lastUpdated int64, ttl int64, now time.Time, minimum time.Duration) time.Duration {
	next := time.Unix(lastUpdated+ttl, 0).Add(time.Second)
	wait := next.Sub(now)
	if wait < minimum {
		return minimum
	}
	return wait
}

//writeTripLog writes the full trip log, ordered by trip start time, to path as json
func writeTripLog(log *log.Logger, registry *bikeRegistry, path string) error {
	trips := registry.sortedTrips()
	jsonData, err := json.MarshalIndent(trips, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling trip log: %w", err)
	}
	if err = os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("writing trip log to %s: %w", path, err)
	}
	log.Printf("wrote %d trips to %s\n", len(trips), path)
	return nil
}

//fmtDuration returns a string presentation of time.Duration for logging
func fmtDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	mill := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%d", h, m, mill)
}
