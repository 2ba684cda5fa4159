package tripsvc

import (
	"github.com/nats-io/nats.go"
	logger "log"
	"os"
	"sync"
	"time"
)

//StartServices brings up backgroundLoop, tripListener and webservice. Exits on shutdown signal
func StartServices(log *logger.Logger,
	expireTripSeconds int,
	httpPort int,
	natsConn *nats.Conn,
	tripSubject string,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	//create shared container
	tripCollection := makeTripCollection()

	//create shutdown channels
	backgroundLoopShutdown := make(chan bool, 1)
	tripListenerShutdown := make(chan bool, 1)
	webServiceShutdown := make(chan bool, 1)

	//start all child services
	go runBackgroundLoop(log, &wg, tripCollection, backgroundLoopShutdown, expireTripSeconds)
	go runTripListener(log, &wg, natsConn, tripCollection, tripSubject, tripListenerShutdown)
	go runWebService(log, &wg, tripCollection, httpPort, webServiceShutdown)
	select {
	case <-shutdownSignal:
		log.Printf("Exiting on shutdown signal, shutting down subroutines")
		backgroundLoopShutdown <- true
		tripListenerShutdown <- true
		webServiceShutdown <- true
		wg.Wait()
		log.Printf("Subroutines shut down, exiting trip service")

	}

}

//runBackgroundLoop frequently runs clean up on tripCollection
func runBackgroundLoop(log *logger.Logger,
	wg *sync.WaitGroup,
	tripCollection *tripCollection,
	shutdownSignal chan bool,
	expireTripSeconds int) {
	wg.Add(1)
	defer wg.Done()

	sleepChan := make(chan bool)

	loopDuration := time.Duration(3) * time.Second
	sleep := loopDuration
	for {
		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("ending background loop on shutdown signal")
			return
		case <-sleepChan:
			removed, currentSize := tripCollection.expireTrips(time.Now(), expireTripSeconds)
			if removed > 0 {
				log.Printf("expired %d trips, %d trips currently held", removed, currentSize)
			}
		}
	}
}
