package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
)

//go:embed statsdata
var statsdata embed.FS

const (
	// SchedulePath is where the fake serves the schedule endpoint.
	SchedulePath = "/api/v1/schedule"

	// ServerErrorDate makes the fake answer 500.
	ServerErrorDate = "2024-06-04"
	// GarbageDate makes the fake answer 200 with a body that is not JSON.
	GarbageDate = "2024-06-07"
)

// FakeStatsAPIServer serves canned schedule responses keyed by the date
// query parameter. Dates without a fixture get an empty schedule.
type FakeStatsAPIServer struct {
	s *httptest.Server

	mu       sync.Mutex
	requests []url.Values
}

func NewFakeStatsAPIServer() *FakeStatsAPIServer {
	f := &FakeStatsAPIServer{}
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", f.scheduleHandler)
	})
	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeStatsAPIServer) Close() {
	f.s.Close()
}

func (f *FakeStatsAPIServer) URL() string {
	return f.s.URL
}

// ScheduleURL is the full schedule endpoint on the fake.
func (f *FakeStatsAPIServer) ScheduleURL() string {
	return f.s.URL + SchedulePath
}

// Requests returns the query of every schedule request seen so far.
func (f *FakeStatsAPIServer) Requests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.requests...)
}

func (f *FakeStatsAPIServer) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, q)
	f.mu.Unlock()

	date := q.Get("date")
	switch date {
	case ServerErrorDate:
		http.Error(w, `{"message":"internal error"}`, http.StatusInternalServerError)
		return
	case GarbageDate:
		w.Header().Add("Content-Type", "application/json")
		w.Write([]byte("<html>maintenance</html>"))
		return
	}

	data, err := statsdata.ReadFile(fmt.Sprintf("statsdata/%s.json", date))
	if err != nil {
		w.Header().Add("Content-Type", "application/json")
		w.Write([]byte(`{"totalItems":0,"dates":[]}`))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("error writing response: %v", err)
	}
}
