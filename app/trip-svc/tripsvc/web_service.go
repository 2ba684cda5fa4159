package tripsvc

import (
	"context"
	"encoding/json"
	"github.com/OpenMobilityTools/bikewatch/business/data/bikeshare"
	"github.com/gorilla/mux"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//tripsHandler holds data needed to respond to and log trip requests
type tripsHandler struct {
	log            *logger.Logger
	tripCollection *tripCollection
}

//makeTripsHandler tripsHandler factory
func makeTripsHandler(log *logger.Logger, tripCollection *tripCollection) *tripsHandler {
	return &tripsHandler{
		log:            log,
		tripCollection: tripCollection,
	}
}

//JsonTripResponseWrapper provides json response wrapper around bikeshare.Trips
type JsonTripResponseWrapper struct {
	AsOf      int64            `json:"as_of"`
	TripCount int              `json:"trip_count"`
	Trips     []bikeshare.Trip `json:"trips"`
}

//ServeHTTP implements tripsHandler's http.Handler interface
func (t *tripsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	trips := t.tripCollection.tripList()
	jsonWrapper := JsonTripResponseWrapper{
		AsOf:      time.Now().Unix(),
		TripCount: len(trips),
		Trips:     trips,
	}
	jsonData, err := json.Marshal(jsonWrapper)
	if err != nil {
		t.log.Printf("Error marshaling trips to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		t.log.Printf("Error writing json response: %s", err)
		return
	}
	t.log.Printf("wrote %d bytes in json response.", byteCount)
}

//createServer creates configured http.Server for responding to trip requests
func createServer(log *logger.Logger,
	tripCollection *tripCollection,
	httpPort int) *http.Server {

	tripService := makeTripsHandler(log, tripCollection)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/trips", tripService)
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//runWebService starts up trip web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	tripCollection *tripCollection,
	httpPort int,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, tripCollection, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()

	select {
	case <-shutdownSignal:
		log.Printf("ending webservice on shutdown signal")
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Printf("error shutting down webservice, error:%s", err)
		}
	}
}
