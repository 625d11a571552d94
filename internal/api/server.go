package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"worldtour/internal/cache"
	"worldtour/internal/catalog"
	"worldtour/internal/cost"
	"worldtour/internal/dataset"
	mmetrics "worldtour/internal/metrics"
	"worldtour/internal/report"
	"worldtour/internal/sim"
	"worldtour/internal/world"
)

// Server exposes candidates and trips of one dataset over HTTP.
type Server struct {
	Router *mux.Router

	budgetHours int
	metrics     *mmetrics.Collector
	pub         sim.HopPublisher
	trips       *cache.TripCache

	mu     sync.RWMutex
	raw    []world.City
	cat    *catalog.Catalog // eastward scale anchored at the default origin
	runner *sim.Runner
}

// New builds the API over raw cities. origin anchors the scale used by the
// candidates endpoint.
func New(raw []world.City, origin world.City, budgetHours int, m *mmetrics.Collector, pub sim.HopPublisher) *Server {
	s := &Server{
		Router:      mux.NewRouter(),
		budgetHours: budgetHours,
		metrics:     m,
		pub:         pub,
		trips:       cache.NewTripCache(),
	}
	s.swap(raw, origin)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	s.Router.HandleFunc("/cities/{id}/candidates", s.handleCandidates).Methods(http.MethodGet)
	s.Router.HandleFunc("/trips/{origin}", s.handleTrip).Methods(http.MethodGet)
	if s.metrics != nil {
		s.Router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
}

// Reload replaces the dataset and invalidates cached trips.
func (s *Server) Reload(raw []world.City, origin world.City) {
	s.swap(raw, origin)
	s.trips.BumpEpoch()
	log.Printf("dataset reloaded: %d cities", len(raw))
}

func (s *Server) swap(raw []world.City, origin world.City) {
	cat, _ := dataset.Prepare(raw, origin)
	runner := sim.NewRunner(raw, s.budgetHours, 1, false, s.metrics, s.pub)
	s.mu.Lock()
	s.raw, s.cat, s.runner = raw, cat, runner
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.CatalogSize.Set(float64(len(raw)))
	}
}

type candidateResponse struct {
	From       world.City         `json:"from"`
	Candidates []candidateWithCost `json:"candidates"`
}

type candidateWithCost struct {
	world.Candidate
	Hours int `json:"hours"`
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid city id")
		return
	}
	s.mu.RLock()
	cat := s.cat
	s.mu.RUnlock()

	from, ok := cat.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "city not found")
		return
	}
	writeJSON(w, http.StatusOK, candidateResponse{From: from, Candidates: withCosts(from, cat.EastwardCandidates(from))})
}

func (s *Server) handleTrip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["origin"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid origin id")
		return
	}
	key := cache.TripKey{Origin: id, BudgetHours: s.budgetHours, Epoch: s.trips.Epoch()}
	if rep, ok := s.trips.Get(key); ok {
		s.countLookup("hit")
		writeJSON(w, http.StatusOK, rep)
		return
	}
	s.countLookup("miss")

	s.mu.RLock()
	raw, runner := s.raw, s.runner
	s.mu.RUnlock()

	origin, err := dataset.FindCity(raw, id)
	if errors.Is(err, dataset.ErrOriginNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	res, err := runner.Run(r.Context(), origin)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	rep := report.Build(res)
	s.trips.Put(key, rep)
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) countLookup(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

// withCosts attaches the hop cost each candidate would carry from from.
func withCosts(from world.City, cs []world.Candidate) []candidateWithCost {
	out := make([]candidateWithCost, len(cs))
	for i, c := range cs {
		out[i] = candidateWithCost{Candidate: c, Hours: cost.HopCost(from, c.City, c.Rank)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
