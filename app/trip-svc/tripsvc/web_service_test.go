package tripsvc

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func Test_defaultHttpHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	handler := defaultHttpHandler{}
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if status := recorder.Header().Get("Application-Status"); status != "OK" {
		t.Errorf("expected Application-Status OK header, got %q", status)
	}
}

func Test_tripsHandler(t *testing.T) {
	collection := makeTripCollection()
	collection.addTrip(testTrip(2000, 2100))
	collection.addTrip(testTrip(1000, 1200))

	handler := makeTripsHandler(log.New(os.Stdout, "TEST : ", 0), collection)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/trips", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("expected json content type, got %q", contentType)
	}

	var wrapper JsonTripResponseWrapper
	if err := json.Unmarshal(recorder.Body.Bytes(), &wrapper); err != nil {
		t.Fatalf("unable to parse response: %v", err)
	}
	if wrapper.TripCount != 2 || len(wrapper.Trips) != 2 {
		t.Fatalf("expected 2 trips in response, got %+v", wrapper)
	}
	if wrapper.Trips[0].StartedAt.Unix() != 1000 {
		t.Errorf("expected trips ordered by start time, got %+v", wrapper.Trips)
	}
	if wrapper.AsOf == 0 {
		t.Errorf("expected as_of to be set")
	}
}
