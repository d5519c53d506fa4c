// Package econ computes route and airline economics from a game state.
// Nothing here mutates its inputs.
package econ

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"

	"airline_tycoon/internal/models"
)

const (
	// MapScale converts map units into kilometres.
	MapScale = 30.0

	PricePerKm      = 0.15
	WeeksPerQuarter = 13

	// CompetitionPenalty is the load factor lost per rival at a route endpoint.
	CompetitionPenalty = 0.1

	AirportUpkeep         = 500_000.0
	AircraftMaintenance   = 250_000.0
	MaintenanceAgeDivisor = 40.0
	ResearchCostPerLevel  = 500_000.0
)

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Distance is the straight-line map distance between two airports scaled to
// kilometres and floored. It is what route range checks are made against.
func Distance(a, b models.Airport) int {
	dx := a.Position.X - b.Position.X
	dy := a.Position.Y - b.Position.Y
	return int(math.Floor(math.Hypot(dx, dy) * MapScale))
}

// CompetitionIntensity counts competitors holding either endpoint of a route.
func CompetitionIntensity(from, to string, competitors []models.Competitor) int {
	n := 0
	for _, c := range competitors {
		if slices.Contains(c.Airports, from) || slices.Contains(c.Airports, to) {
			n++
		}
	}
	return n
}

// LoadFactorBase maps reputation onto the baseline share of seats sold.
func LoadFactorBase(reputation int) float64 {
	return Clamp(0.75+float64(reputation-75)/200, 0.40, 0.95)
}

// LoadFactor applies the economy and competition to the reputation baseline.
func LoadFactor(reputation int, economy float64, intensity int) float64 {
	lf := LoadFactorBase(reputation) * economy * (1 - CompetitionPenalty*float64(intensity))
	return math.Max(lf, 0)
}

// FlightsPerQuarter converts a weekly frequency to flights per quarter.
func FlightsPerQuarter(flightsPerWeek int) int {
	return flightsPerWeek * WeeksPerQuarter
}

// RouteRevenue is one quarter of ticket revenue for a route.
func RouteRevenue(st *models.GameState, rt models.Route) float64 {
	ac := st.AircraftByID(rt.AircraftID)
	if ac == nil {
		return 0
	}
	intensity := CompetitionIntensity(rt.From, rt.To, st.Competitors)
	lf := LoadFactor(st.Reputation, st.Economy, intensity)
	passengers := float64(ac.Type.Passengers) * lf
	perFlight := passengers * float64(rt.DistanceKm) * PricePerKm
	return perFlight * float64(FlightsPerQuarter(rt.FlightsPerWeek))
}

// RouteExpense is one quarter of fuel-scaled operating cost for a route plus
// the lease on its aircraft when leased.
func RouteExpense(st *models.GameState, rt models.Route) float64 {
	ac := st.AircraftByID(rt.AircraftID)
	if ac == nil {
		return 0
	}
	cost := ac.Type.OperatingCost * float64(FlightsPerQuarter(rt.FlightsPerWeek)) * st.FuelPrice
	if ac.Leased() {
		cost += ac.Type.LeaseCost
	}
	return cost
}

// RouteEstimate is a profitability preview for one route.
type RouteEstimate struct {
	DistanceKm        int     `json:"distance_km"`
	FlightsPerQuarter int     `json:"flights_per_quarter"`
	Competition       int     `json:"competition"`
	LoadFactor        float64 `json:"load_factor"`
	Revenue           float64 `json:"revenue"`
	Expense           float64 `json:"expense"`
	Profit            float64 `json:"profit"`
}

func EstimateRoute(st *models.GameState, rt models.Route) RouteEstimate {
	intensity := CompetitionIntensity(rt.From, rt.To, st.Competitors)
	rev := RouteRevenue(st, rt)
	exp := RouteExpense(st, rt)
	return RouteEstimate{
		DistanceKm:        rt.DistanceKm,
		FlightsPerQuarter: FlightsPerQuarter(rt.FlightsPerWeek),
		Competition:       intensity,
		LoadFactor:        LoadFactor(st.Reputation, st.Economy, intensity),
		Revenue:           rev,
		Expense:           exp,
		Profit:            rev - exp,
	}
}

func QuarterlyRevenue(st *models.GameState) float64 {
	total := 0.0
	for _, rt := range st.Routes {
		total += RouteRevenue(st, rt)
	}
	return total
}

// Expenses itemises the quarter's costs.
func Expenses(st *models.GameState) models.ExpenseBreakdown {
	var b models.ExpenseBreakdown
	for _, rt := range st.Routes {
		if ac := st.AircraftByID(rt.AircraftID); ac != nil {
			b.Operations += ac.Type.OperatingCost * float64(FlightsPerQuarter(rt.FlightsPerWeek)) * st.FuelPrice
		}
	}
	for _, ac := range st.Fleet {
		if ac.Leased() {
			b.Leases += ac.Type.LeaseCost
		}
		// Older airframes cost more to keep flying.
		b.Maintenance += AircraftMaintenance * (1 + float64(ac.AgeQuarters)/MaintenanceAgeDivisor)
	}
	b.Airports = float64(st.OwnedAirportCount()) * AirportUpkeep
	for _, ln := range st.Loans {
		b.Loans += ln.Payment
	}
	b.Advertising = st.AdvertisingBudget
	b.Research = float64(st.ResearchLevel) * ResearchCostPerLevel
	return b
}

func QuarterlyExpense(st *models.GameState) float64 {
	return Expenses(st).Total()
}

// AnnuityPayment is the fixed per-quarter payment that retires principal
// over quarters at the given per-quarter rate.
func AnnuityPayment(principal, rate float64, quarters int) float64 {
	if quarters <= 0 {
		return principal
	}
	if rate == 0 {
		return principal / float64(quarters)
	}
	return principal * rate / (1 - math.Pow(1+rate, -float64(quarters)))
}

// Score is the end-of-run rating shown on victory.
func Score(st *models.GameState) int {
	s := st.Cash/1_000_000 +
		float64(st.OwnedAirportCount())*100 +
		float64(len(st.Fleet))*50 +
		float64(st.Reputation)*10 +
		float64(len(st.Routes))*75
	return int(math.Floor(s))
}
