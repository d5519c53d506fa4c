package game

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brunoga/deep"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"airline_tycoon/internal/catalog"
	"airline_tycoon/internal/models"
	"airline_tycoon/internal/rand"
)

// Rules are the per-game starting conditions.
type Rules struct {
	StartingCash       float64
	StartingReputation int
	StartYear          int
	HomeAirport        string
	StarterFleet       []string
	LoanRate           float64
}

func DefaultRules() Rules {
	return Rules{
		StartingCash:       50_000_000,
		StartingReputation: 50,
		StartYear:          1990,
		HomeAirport:        "JFK",
		StarterFleet:       []string{"Boeing 737-300"},
		LoanRate:           0.02,
	}
}

// Engine owns one game's state and is its only mutator. Commands and turn
// resolution are serialised on mu so readers never see a half-resolved turn.
type Engine struct {
	mu       sync.Mutex
	state    models.GameState
	catalog  catalog.Catalog
	rules    Rules
	rng      rand.Source
	log      *slog.Logger
	savePath string
}

// NewEngine constructs an engine and starts a fresh game.
func NewEngine(cat catalog.Catalog, rules Rules, src rand.Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		catalog: cat,
		rules:   rules,
		rng:     src,
		log:     logger,
	}
	e.NewGame()
	return e
}

// SetSavePath configures where the game autosaves after every turn. An
// empty path disables autosave.
func (e *Engine) SetSavePath(path string) {
	e.mu.Lock()
	e.savePath = path
	e.mu.Unlock()
}

// NewGame discards the current state and seeds a new one from the catalog
// and rules.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := models.GameState{
		SchemaVersion:  models.SchemaVersion,
		GameID:         uuid.NewString(),
		Year:           e.rules.StartYear,
		Quarter:        1,
		Cash:           e.rules.StartingCash,
		Reputation:     e.rules.StartingReputation,
		FuelPrice:      1.0,
		Economy:        1.0,
		Airports:       deep.MustCopy(e.catalog.Airports),
		Fleet:          []models.Aircraft{},
		Routes:         []models.Route{},
		Competitors:    []models.Competitor{},
		Loans:          []models.Loan{},
		Events:         []models.ActiveEvent{},
		News:           []models.NewsEntry{},
		NextAircraftID: 1,
		NextRouteID:    1,
		NextLoanID:     1,
	}
	if home := st.AirportByCode(e.rules.HomeAirport); home != nil {
		home.Owner = models.OwnerPlayer
	}

	for i, spec := range e.catalog.Rivals {
		c := models.Competitor{
			ID:         i + 1,
			Name:       spec.Name,
			Color:      spec.Color,
			Cash:       spec.Cash,
			Reputation: spec.Reputation,
			Airports:   []string{},
			Aggressive: spec.Aggressive,
		}
		for _, code := range spec.Airports {
			ap := st.AirportByCode(code)
			if ap == nil || !ap.IsUnowned() {
				e.log.Warn("rival home airport unavailable", "rival", spec.Name, "airport", code)
				continue
			}
			ap.Owner = models.OwnerCompetitor
			ap.CompetitorID = c.ID
			c.Airports = append(c.Airports, ap.Code)
		}
		st.Competitors = append(st.Competitors, c)
	}

	for _, name := range e.rules.StarterFleet {
		t, ok := e.catalog.FindAircraft(name)
		if !ok {
			e.log.Warn("unknown starter aircraft", "type", name)
			continue
		}
		st.Fleet = append(st.Fleet, newAircraft(&st, t, models.AcquisitionOwned))
	}

	st.AddNews(fmt.Sprintf("Welcome aboard! Your airline begins operations in Q%d %d", st.Quarter, st.Year))
	e.state = st
	e.log.Info("new game", "game_id", st.GameID, "year", st.Year, "cash", st.Cash)
}

// State returns a deep copy of the current game state.
func (e *Engine) State() models.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return deep.MustCopy(e.state)
}

// Catalog returns a copy of the reference data this game uses.
func (e *Engine) Catalog() catalog.Catalog {
	return deep.MustCopy(e.catalog)
}

// Restore replaces the current state wholesale, as when loading a save.
func (e *Engine) Restore(st models.GameState) error {
	if st.SchemaVersion != models.SchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", ErrIncompatibleSave, st.SchemaVersion, models.SchemaVersion)
	}
	if st.FuelPrice <= 0 {
		st.FuelPrice = 1.0
	}
	if st.Economy <= 0 {
		st.Economy = 1.0
	}
	if st.News == nil {
		st.News = []models.NewsEntry{}
	}
	e.mu.Lock()
	e.state = st
	e.mu.Unlock()
	e.log.Info("game restored", "game_id", st.GameID, "year", st.Year, "quarter", st.Quarter)
	return nil
}

// SaveState persists the current state as JSON. An empty path uses the
// configured save path.
func (e *Engine) SaveState(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if path == "" {
		path = e.savePath
	}
	return e.saveLocked(path)
}

func (e *Engine) saveLocked(path string) error {
	if path == "" {
		return fmt.Errorf("no save path configured")
	}
	data, err := json.MarshalIndent(&e.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadState restores state from a JSON save file.
func (e *Engine) LoadState(path string) error {
	if path == "" {
		e.mu.Lock()
		path = e.savePath
		e.mu.Unlock()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var st models.GameState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleSave, err)
	}
	return e.Restore(st)
}

func newAircraft(st *models.GameState, t models.AircraftType, mode models.Acquisition) models.Aircraft {
	ac := models.Aircraft{
		ID:          st.NextAircraftID,
		Type:        t,
		Name:        fmt.Sprintf("%s #%d", t.Name, st.NextAircraftID),
		Acquisition: mode,
	}
	st.NextAircraftID++
	return ac
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatMoney renders a dollar amount rounded to whole dollars with
// thousands separators, e.g. "-$1,250,000".
func FormatMoney(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}
