package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"airline_tycoon/internal/game"
	"airline_tycoon/internal/models"
	"airline_tycoon/internal/persistence"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	engine *game.Engine
	db     *persistence.DB
	log    *slog.Logger
}

// New constructs the HTTP router wired to the game engine. db may be nil,
// in which case the save slot endpoints answer 503.
func New(engine *game.Engine, db *persistence.DB, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: engine, db: db, log: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/state", s.handleState)
	r.Get("/catalog/aircraft", s.handleAircraftCatalog)
	r.Get("/catalog/airports", s.handleAirportCatalog)
	r.Get("/catalog/events", s.handleEventCatalog)

	r.Post("/fleet/buy", s.handleBuyAircraft)
	r.Post("/fleet/lease", s.handleLeaseAircraft)
	r.Post("/airports/buy", s.handleBuyAirport)
	r.Post("/routes", s.handleCreateRoute)
	r.Post("/loans", s.handleTakeLoan)
	r.Post("/advertising", s.handleAdvertising)
	r.Post("/research", s.handleResearch)
	r.Post("/turn", s.handleTurn)
	r.Post("/game/new", s.handleNewGame)
	r.Post("/analysis/route", s.handleRouteAnalysis)

	r.Get("/saves", s.handleListSaves)
	r.Post("/saves", s.handleSave)
	r.Post("/saves/{id}/load", s.handleLoadSave)
	r.Delete("/saves/{id}", s.handleDeleteSave)
	r.Get("/news/archive", s.handleNewsArchive)

	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.State())
}

func (s *Server) handleAircraftCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Catalog().Aircraft)
}

// handleAirportCatalog returns the airports with their current ownership.
// ?owner=player|competitor|unowned filters the list.
func (s *Server) handleAirportCatalog(w http.ResponseWriter, r *http.Request) {
	airports := s.engine.State().Airports
	owner := r.URL.Query().Get("owner")
	if owner == "" || owner == "all" {
		writeJSON(w, airports)
		return
	}
	out := make([]models.Airport, 0, len(airports))
	for _, a := range airports {
		switch {
		case owner == "unowned" && a.IsUnowned(),
			owner == string(a.Owner):
			out = append(out, a)
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleEventCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Catalog().Events)
}

type aircraftRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleBuyAircraft(w http.ResponseWriter, r *http.Request) {
	var req aircraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	ac, err := s.engine.BuyAircraft(req.Type)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, ac)
}

func (s *Server) handleLeaseAircraft(w http.ResponseWriter, r *http.Request) {
	var req aircraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	ac, err := s.engine.LeaseAircraft(req.Type)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, ac)
}

func (s *Server) handleBuyAirport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	ap, err := s.engine.BuyAirportSlot(req.Code)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, ap)
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From           string `json:"from"`
		To             string `json:"to"`
		AircraftID     int    `json:"aircraft_id"`
		FlightsPerWeek int    `json:"flights_per_week"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	route, err := s.engine.CreateRoute(req.From, req.To, req.AircraftID, req.FlightsPerWeek)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, route)
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Quarters int     `json:"quarters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	loan, err := s.engine.TakeLoan(req.Amount, req.Quarters)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, loan)
}

func (s *Server) handleAdvertising(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Budget float64 `json:"budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.SetAdvertisingBudget(req.Budget); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.State())
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.SetResearchLevel(req.Level); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.State())
}

type turnResponse struct {
	Outcome game.TurnOutcome `json:"outcome"`
	State   models.GameState `json:"state"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	out, err := s.engine.AdvanceTurn()
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, turnResponse{Outcome: out, State: s.engine.State()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.engine.NewGame()
	writeJSON(w, s.engine.State())
}

type RouteAnalysisRequest struct {
	Origin         string   `json:"origin"`
	Dest           string   `json:"dest"`
	AircraftTypes  []string `json:"aircraft_types"`
	FlightsPerWeek int      `json:"flights_per_week"`
}

func (s *Server) handleRouteAnalysis(w http.ResponseWriter, r *http.Request) {
	var req RouteAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := s.engine.AnalyzeRoute(req.Origin, req.Dest, req.AircraftTypes, req.FlightsPerWeek)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, results)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if !s.savesEnabled(w) {
		return
	}
	slots, err := s.db.ListSlots()
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, slots)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.savesEnabled(w) {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	// An empty body is fine; the slot gets a dated name.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	info, err := s.db.SaveSlot(req.Name, s.engine.State())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(info)
}

func (s *Server) handleLoadSave(w http.ResponseWriter, r *http.Request) {
	if !s.savesEnabled(w) {
		return
	}
	st, err := s.db.LoadSlot(chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if err := s.engine.Restore(st); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, s.engine.State())
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if !s.savesEnabled(w) {
		return
	}
	if err := s.db.DeleteSlot(chi.URLParam(r, "id")); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNewsArchive returns archived news for the running game. ?limit=
// caps the count (default 200).
func (s *Server) handleNewsArchive(w http.ResponseWriter, r *http.Request) {
	if !s.savesEnabled(w) {
		return
	}
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "bad limit")
			return
		}
		limit = n
	}
	news, err := s.db.NewsArchive(s.engine.State().GameID, limit)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, news)
}

// ===== helpers =====

func (s *Server) savesEnabled(w http.ResponseWriter) bool {
	if s.db == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "save slots are not configured")
		return false
	}
	return true
}

// writeEngineError maps command failures to client errors; anything
// unrecognised is logged and reported as a 500.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSONError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownAircraftType),
		errors.Is(err, game.ErrUnknownAircraft),
		errors.Is(err, game.ErrUnknownAirport),
		errors.Is(err, persistence.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrAirportOwned),
		errors.Is(err, game.ErrAircraftAssigned),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrIncompatibleSave),
		errors.Is(err, persistence.ErrBadSnapshot):
		return http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrSameAirport),
		errors.Is(err, game.ErrDestinationNotOwned),
		errors.Is(err, game.ErrOutOfRange),
		errors.Is(err, game.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
