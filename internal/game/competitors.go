package game

import (
	"fmt"

	"airline_tycoon/internal/econ"
	"airline_tycoon/internal/models"
	"airline_tycoon/internal/rand"
)

const (
	CompetitorIncomePerAirport = 2_000_000.0
	ExpansionCashThreshold     = 15_000_000.0
	ExpansionChance            = 0.15
	CompetitorReputationFloor  = 20
)

func (e *Engine) simulateCompetitorsLocked() {
	for i := range e.state.Competitors {
		e.simulateCompetitorLocked(&e.state.Competitors[i])
	}
}

func (e *Engine) simulateCompetitorLocked(c *models.Competitor) {
	st := &e.state
	profit := float64(len(c.Airports)) * CompetitorIncomePerAirport *
		(float64(c.Reputation) / 75) *
		(1 + rand.Uniform(e.rng, -0.3, 0.2)) *
		st.Economy
	c.Cash += profit

	if c.Aggressive && c.Cash > ExpansionCashThreshold && rand.Chance(e.rng, ExpansionChance) {
		e.expandCompetitorLocked(c)
	}

	if profit > 0 {
		c.Reputation = min(c.Reputation+1, models.MaxReputation)
	} else {
		c.Reputation = econ.Clamp(c.Reputation-2, CompetitorReputationFloor, models.MaxReputation)
	}
}

// expandCompetitorLocked buys one random unclaimed airport for c if it can
// afford the slots.
func (e *Engine) expandCompetitorLocked(c *models.Competitor) {
	st := &e.state
	idx := rand.SampleFiltered(e.rng, st.Airports, models.Airport.IsUnowned)
	if idx < 0 {
		return
	}
	ap := &st.Airports[idx]
	price := ap.SlotPrice()
	if c.Cash < price {
		return
	}
	c.Cash -= price
	ap.Owner = models.OwnerCompetitor
	ap.CompetitorID = c.ID
	c.Airports = append(c.Airports, ap.Code)
	st.AddNews(fmt.Sprintf("%s expands into %s (%s)", c.Name, ap.Name, ap.Code))
	e.log.Debug("competitor expanded", "competitor", c.Name, "airport", ap.Code, "price", price)
}
