package models

import "strings"

// SchemaVersion is stamped on every saved GameState. Loading a save written
// with a different version is refused.
const SchemaVersion = 1

// NewsLimit bounds the news log; the oldest entries are dropped first.
const NewsLimit = 50

const (
	MaxReputation = 100
	MaxResearch   = 10
)

type Category string

const (
	CategoryRegional   Category = "Regional"
	CategoryNarrowBody Category = "Narrow-body"
	CategoryWideBody   Category = "Wide-body"
	CategoryJumbo      Category = "Jumbo"
	CategorySupersonic Category = "Supersonic"
	CategoryCargo      Category = "Cargo"
)

// AircraftType is an immutable catalog entry.
type AircraftType struct {
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Passengers    int      `json:"passengers"`
	CargoTonnes   int      `json:"cargo_tonnes"`
	RangeKm       int      `json:"range_km"`
	Price         float64  `json:"price"`
	OperatingCost float64  `json:"operating_cost_per_flight"`
	LeaseCost     float64  `json:"lease_cost_per_quarter"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type OwnerKind string

const (
	Unowned         OwnerKind = ""
	OwnerPlayer     OwnerKind = "player"
	OwnerCompetitor OwnerKind = "competitor"
)

type Airport struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Position     Point     `json:"position"`
	Region       string    `json:"region"`
	MarketSize   int       `json:"market_size"`
	Slots        int       `json:"slots"`
	Owner        OwnerKind `json:"owner,omitempty"`
	CompetitorID int       `json:"competitor_id,omitempty"`
}

func (a Airport) IsUnowned() bool { return a.Owner == Unowned }
func (a Airport) OwnedByPlayer() bool { return a.Owner == OwnerPlayer }
func (a Airport) SlotPrice() float64 { return float64(a.MarketSize) * 10 }
func (a Airport) OwnedBy(id int) bool { return a.Owner == OwnerCompetitor && a.CompetitorID == id }

type Acquisition string

const (
	AcquisitionOwned  Acquisition = "owned"
	AcquisitionLeased Acquisition = "leased"
)

// Aircraft is a specific airframe in the player's fleet. RouteID is zero
// while the aircraft is unassigned.
type Aircraft struct {
	ID          int          `json:"id"`
	Type        AircraftType `json:"type"`
	Name        string       `json:"name"`
	Acquisition Acquisition  `json:"acquisition"`
	AgeQuarters int          `json:"age_quarters"`
	RouteID     int          `json:"route_id,omitempty"`
}

func (a Aircraft) Leased() bool { return a.Acquisition == AcquisitionLeased }
func (a Aircraft) Assigned() bool { return a.RouteID != 0 }

type Route struct {
	ID             int    `json:"id"`
	From           string `json:"from"`
	To             string `json:"to"`
	AircraftID     int    `json:"aircraft_id"`
	FlightsPerWeek int    `json:"flights_per_week"`
	DistanceKm     int    `json:"distance_km"`
}

type Competitor struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Cash       float64    `json:"cash"`
	Reputation int        `json:"reputation"`
	Airports   []string   `json:"airports"`
	Aggressive bool       `json:"aggressive"`
	Routes     []Route    `json:"routes,omitempty"`
	Fleet      []Aircraft `json:"fleet,omitempty"`
}

type Loan struct {
	ID                  int     `json:"id"`
	Principal           float64 `json:"principal"`
	Balance             float64 `json:"balance"`
	Payment             float64 `json:"quarterly_payment"`
	PrincipalPerQuarter float64 `json:"principal_per_quarter"`
	Term                int     `json:"term_quarters"`
	QuartersRemaining   int     `json:"quarters_remaining"`
	Rate                float64 `json:"rate"`
}

type NewsEntry struct {
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Message string `json:"message"`
}

// ExpenseBreakdown itemises one quarter of operating expense.
type ExpenseBreakdown struct {
	Operations  float64 `json:"operations"`
	Leases      float64 `json:"leases"`
	Airports    float64 `json:"airports"`
	Maintenance float64 `json:"maintenance"`
	Loans       float64 `json:"loans"`
	Advertising float64 `json:"advertising"`
	Research    float64 `json:"research"`
}

func (b ExpenseBreakdown) Total() float64 {
	return b.Operations + b.Leases + b.Airports + b.Maintenance + b.Loans + b.Advertising + b.Research
}

// QuarterReport is the settlement of the most recently closed quarter.
type QuarterReport struct {
	Year     int              `json:"year"`
	Quarter  int              `json:"quarter"`
	Revenue  float64          `json:"revenue"`
	Expense  float64          `json:"expense"`
	Profit   float64          `json:"profit"`
	Expenses ExpenseBreakdown `json:"expenses"`
}

type GameState struct {
	SchemaVersion     int           `json:"schema_version"`
	GameID            string        `json:"game_id"`
	Year              int           `json:"year"`
	Quarter           int           `json:"quarter"`
	Cash              float64       `json:"cash"`
	Reputation        int           `json:"reputation"`
	ResearchLevel     int           `json:"research_level"`
	AdvertisingBudget float64       `json:"advertising_budget"`
	FuelPrice         float64       `json:"fuel_price"`
	Economy           float64       `json:"economy"`
	Airports          []Airport     `json:"airports"`
	Fleet             []Aircraft    `json:"fleet"`
	Routes            []Route       `json:"routes"`
	Competitors       []Competitor  `json:"competitors"`
	Loans             []Loan        `json:"loans"`
	Events            []ActiveEvent `json:"events"`
	News              []NewsEntry   `json:"news"`
	LastReport        QuarterReport `json:"last_report"`
	Bankrupt          bool          `json:"bankrupt"`
	VictoryAnnounced  bool          `json:"victory_announced"`
	NextAircraftID    int           `json:"next_aircraft_id"`
	NextRouteID       int           `json:"next_route_id"`
	NextLoanID        int           `json:"next_loan_id"`
}

// AirportByCode returns a pointer into the airport list, or nil.
func (st *GameState) AirportByCode(code string) *Airport {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i := range st.Airports {
		if st.Airports[i].Code == code {
			return &st.Airports[i]
		}
	}
	return nil
}

func (st *GameState) AircraftByID(id int) *Aircraft {
	for i := range st.Fleet {
		if st.Fleet[i].ID == id {
			return &st.Fleet[i]
		}
	}
	return nil
}

func (st *GameState) RouteByID(id int) *Route {
	for i := range st.Routes {
		if st.Routes[i].ID == id {
			return &st.Routes[i]
		}
	}
	return nil
}

func (st *GameState) CompetitorByID(id int) *Competitor {
	for i := range st.Competitors {
		if st.Competitors[i].ID == id {
			return &st.Competitors[i]
		}
	}
	return nil
}

// OwnedAirportCount counts player-owned airports.
func (st *GameState) OwnedAirportCount() int {
	n := 0
	for _, ap := range st.Airports {
		if ap.OwnedByPlayer() {
			n++
		}
	}
	return n
}

// AddNews appends a dated entry, keeping only the most recent NewsLimit.
func (st *GameState) AddNews(msg string) {
	if msg == "" {
		return
	}
	st.News = append(st.News, NewsEntry{Year: st.Year, Quarter: st.Quarter, Message: msg})
	if len(st.News) > NewsLimit {
		st.News = st.News[len(st.News)-NewsLimit:]
	}
}

// AdjustReputation adds delta and clamps to [0, MaxReputation].
func (st *GameState) AdjustReputation(delta int) {
	st.Reputation = clampInt(st.Reputation+delta, 0, MaxReputation)
}

// AdjustResearch adds levels and clamps to [0, MaxResearch].
func (st *GameState) AdjustResearch(levels int) {
	st.ResearchLevel = clampInt(st.ResearchLevel+levels, 0, MaxResearch)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
