package monitor

import (
	"encoding/json"
	"log"

	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

//tripPublisher takes trips inferred by the bike registry and sends them to their
// destinations (such as database and/or nats )
type tripPublisher struct {
	log              *log.Logger
	db               *sqlx.DB
	natsConn         *nats.Conn
	natsSubject      string
	recordToDatabase bool
	publishOverNats  bool
	metrics          *Metrics
}

//makeTripPublisher creates tripPublisher
func makeTripPublisher(log *log.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	natsSubject string,
	recordToDatabase bool,
	publishOverNats bool,
	metrics *Metrics) *tripPublisher {
	return &tripPublisher{
		log:              log,
		db:               db,
		natsConn:         natsConn,
		natsSubject:      natsSubject,
		recordToDatabase: recordToDatabase,
		publishOverNats:  publishOverNats,
		metrics:          metrics,
	}
}

//publish sends newly detected trips over NATS and records them to the database according to
//publishOverNats and recordToDatabase
func (p *tripPublisher) publish(trips []bikeshare.Trip) {
	for _, trip := range trips {
		p.log.Printf("New trip from %s to %s, started at %s, took %d seconds\n",
			trip.StartStationName, trip.EndStationName, trip.StartedAt, trip.DurationSeconds)
	}
	if p.publishOverNats {
		p.sendOverNats(trips)
	}
	if p.recordToDatabase {
		p.record(trips)
	}
}

func (p *tripPublisher) sendOverNats(trips []bikeshare.Trip) {
	for _, trip := range trips {
		jsonData, err := json.Marshal(trip)
		if err != nil {
			p.log.Printf("failed to marshal trip to json in tripPublisher.sendOverNats, error:%v", err)
			continue
		}
		err = p.natsConn.Publish(p.natsSubject, jsonData)
		if err != nil {
			p.log.Printf("failed to send trip in tripPublisher.sendOverNats, error:%v", err)
			if p.metrics != nil {
				p.metrics.NatsPublishErrs.Inc()
			}
			continue
		}
		if p.metrics != nil {
			p.metrics.NatsPublished.Inc()
		}
	}
}

func (p *tripPublisher) record(trips []bikeshare.Trip) {
	for i := range trips {
		err := bikeshare.RecordTrip(&trips[i], p.db)
		if err != nil {
			p.log.Printf("Error saving trip %+v. error: %v", trips[i], err)
		}
	}
}
