package tripsvc

import (
	"encoding/json"
	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
	"github.com/nats-io/nats.go"
	logger "log"
	"os"
	"sync"
)

//runTripListener starts NATS subscription on tripSubject for bikeshare.Trip messages.
//Stores results in tripCollection. Ends NATS subscription and returns on shutdownSignal
func runTripListener(
	log *logger.Logger,
	wg *sync.WaitGroup,
	natsConn *nats.Conn,
	tripCollection *tripCollection,
	tripSubject string,
	shutdownSignal chan bool) {
	wg.Add(1)
	defer wg.Done()

	ch := make(chan *nats.Msg, 64)
	log.Printf("Subscribing to trips on subject:%s on nats: %v\n", tripSubject, natsConn.Servers())
	sub, err := natsConn.ChanSubscribe(tripSubject, ch)
	if err != nil {
		log.Printf("Unable to establish subscription to nats server: %v\n", err)
		os.Exit(1)
	}

	for {
		select {
		case msg := <-ch:
			processTripFromMsg(log, msg, tripCollection)
			break
		case <-shutdownSignal:
			log.Printf("ending trip listener on shutdown signal\n")
			log.Printf("unsubscribing to nats\n")
			err = sub.Unsubscribe()
			if err != nil {
				log.Printf("Error unsubscribing to nats:%s", err)
			}
			return
		}
	}
}

//processTripFromMsg un-marshal bikeshare.Trip from nats.Msg and store result in tripCollection
func processTripFromMsg(log *logger.Logger, msg *nats.Msg, tripCollection *tripCollection) {
	var trip bikeshare.Trip
	err := json.Unmarshal(msg.Data, &trip)
	if err != nil {
		log.Printf("error parsing Trip: %s, payload:%s", err, string(msg.Data))
		return
	}
	tripCollection.addTrip(&trip)
}
