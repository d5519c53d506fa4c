package game

import (
	"cmp"
	"fmt"
	"slices"

	"airline_tycoon/internal/econ"
	"airline_tycoon/internal/models"
)

// BuyAircraft purchases an aircraft outright.
func (e *Engine) BuyAircraft(typeName string) (models.Aircraft, error) {
	t, ok := e.catalog.FindAircraft(typeName)
	if !ok {
		return models.Aircraft{}, fmt.Errorf("%w: %q", ErrUnknownAircraftType, typeName)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return models.Aircraft{}, ErrGameOver
	}
	if e.state.Cash < t.Price {
		return models.Aircraft{}, fmt.Errorf("%w: %s costs %s", ErrInsufficientFunds, t.Name, FormatMoney(t.Price))
	}
	e.state.Cash -= t.Price
	ac := newAircraft(&e.state, t, models.AcquisitionOwned)
	e.state.Fleet = append(e.state.Fleet, ac)
	e.state.AddNews(fmt.Sprintf("Purchased %s for %s", ac.Name, FormatMoney(t.Price)))
	e.log.Debug("aircraft purchased", "id", ac.ID, "type", t.Name, "cash", e.state.Cash)
	return ac, nil
}

// LeaseAircraft adds a leased aircraft. Leases cost nothing up front; the
// lease is charged every quarter.
func (e *Engine) LeaseAircraft(typeName string) (models.Aircraft, error) {
	t, ok := e.catalog.FindAircraft(typeName)
	if !ok {
		return models.Aircraft{}, fmt.Errorf("%w: %q", ErrUnknownAircraftType, typeName)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return models.Aircraft{}, ErrGameOver
	}
	ac := newAircraft(&e.state, t, models.AcquisitionLeased)
	e.state.Fleet = append(e.state.Fleet, ac)
	e.state.AddNews(fmt.Sprintf("Leased %s at %s per quarter", ac.Name, FormatMoney(t.LeaseCost)))
	e.log.Debug("aircraft leased", "id", ac.ID, "type", t.Name)
	return ac, nil
}

// BuyAirportSlot acquires operating rights at an unowned airport.
func (e *Engine) BuyAirportSlot(code string) (models.Airport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return models.Airport{}, ErrGameOver
	}
	ap := e.state.AirportByCode(code)
	if ap == nil {
		return models.Airport{}, fmt.Errorf("%w: %q", ErrUnknownAirport, code)
	}
	if !ap.IsUnowned() {
		return models.Airport{}, fmt.Errorf("%w: %s", ErrAirportOwned, ap.Code)
	}
	price := ap.SlotPrice()
	if e.state.Cash < price {
		return models.Airport{}, fmt.Errorf("%w: slots at %s cost %s", ErrInsufficientFunds, ap.Code, FormatMoney(price))
	}
	e.state.Cash -= price
	ap.Owner = models.OwnerPlayer
	e.state.AddNews(fmt.Sprintf("Acquired slots at %s (%s) for %s", ap.Name, ap.Code, FormatMoney(price)))
	e.log.Debug("airport acquired", "airport", ap.Code, "price", price)
	return *ap, nil
}

// CreateRoute assigns an idle aircraft to fly between two airports.
// Non-positive frequencies are treated as one flight a week.
func (e *Engine) CreateRoute(from, to string, aircraftID, flightsPerWeek int) (models.Route, error) {
	fromID, toID := normalizeCode(from), normalizeCode(to)
	if flightsPerWeek <= 0 {
		flightsPerWeek = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return models.Route{}, ErrGameOver
	}
	if fromID == toID {
		return models.Route{}, ErrSameAirport
	}
	fromAp := e.state.AirportByCode(fromID)
	if fromAp == nil {
		return models.Route{}, fmt.Errorf("%w: %q", ErrUnknownAirport, from)
	}
	toAp := e.state.AirportByCode(toID)
	if toAp == nil {
		return models.Route{}, fmt.Errorf("%w: %q", ErrUnknownAirport, to)
	}
	ac := e.state.AircraftByID(aircraftID)
	if ac == nil {
		return models.Route{}, fmt.Errorf("%w: id %d", ErrUnknownAircraft, aircraftID)
	}
	if ac.Assigned() {
		return models.Route{}, fmt.Errorf("%w: %s", ErrAircraftAssigned, ac.Name)
	}
	if !toAp.OwnedByPlayer() {
		return models.Route{}, fmt.Errorf("%w: %s", ErrDestinationNotOwned, toAp.Code)
	}
	dist := econ.Distance(*fromAp, *toAp)
	if dist > ac.Type.RangeKm {
		return models.Route{}, fmt.Errorf("%w: %d km, %s range is %d km", ErrOutOfRange, dist, ac.Type.Name, ac.Type.RangeKm)
	}

	rt := models.Route{
		ID:             e.state.NextRouteID,
		From:           fromAp.Code,
		To:             toAp.Code,
		AircraftID:     ac.ID,
		FlightsPerWeek: flightsPerWeek,
		DistanceKm:     dist,
	}
	e.state.NextRouteID++
	ac.RouteID = rt.ID
	e.state.Routes = append(e.state.Routes, rt)
	e.state.AddNews(fmt.Sprintf("Route %s-%s opened with %s", rt.From, rt.To, ac.Name))
	e.log.Debug("route created", "route", rt.ID, "from", rt.From, "to", rt.To, "aircraft", ac.ID, "km", dist)
	return rt, nil
}

// TakeLoan borrows amount over the given number of quarters at the rules'
// quarterly rate and credits the cash immediately.
func (e *Engine) TakeLoan(amount float64, quarters int) (models.Loan, error) {
	if amount <= 0 || quarters <= 0 {
		return models.Loan{}, fmt.Errorf("%w: loan of %s over %d quarters", ErrInvalidAmount, FormatMoney(amount), quarters)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return models.Loan{}, ErrGameOver
	}
	ln := newLoan(e.state.NextLoanID, amount, e.rules.LoanRate, quarters)
	e.state.NextLoanID++
	e.state.Loans = append(e.state.Loans, ln)
	e.state.Cash += amount
	e.state.AddNews(fmt.Sprintf("Borrowed %s over %d quarters (%s per quarter)", FormatMoney(amount), quarters, FormatMoney(ln.Payment)))
	e.log.Debug("loan taken", "id", ln.ID, "amount", amount, "quarters", quarters, "payment", ln.Payment)
	return ln, nil
}

// SetAdvertisingBudget replaces the recurring quarterly ad spend. Negative
// budgets are treated as zero.
func (e *Engine) SetAdvertisingBudget(amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return ErrGameOver
	}
	e.state.AdvertisingBudget = max(amount, 0)
	e.log.Debug("advertising budget set", "budget", e.state.AdvertisingBudget)
	return nil
}

// SetResearchLevel sets the funded research level, clamped to 0..10.
func (e *Engine) SetResearchLevel(level int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return ErrGameOver
	}
	e.state.ResearchLevel = econ.Clamp(level, 0, models.MaxResearch)
	e.log.Debug("research level set", "level", e.state.ResearchLevel)
	return nil
}

// RouteOption is one candidate aircraft type for a prospective route.
type RouteOption struct {
	AircraftType string             `json:"aircraft_type"`
	Valid        bool               `json:"valid"`
	Error        string             `json:"error,omitempty"`
	Estimate     econ.RouteEstimate `json:"estimate"`
	LeasedProfit float64            `json:"leased_profit"`
}

// AnalyzeRoute previews the quarterly economics of flying from-to with each
// of the given aircraft types. Valid options come first, most profitable
// first, and at most five are returned.
func (e *Engine) AnalyzeRoute(from, to string, typeNames []string, flightsPerWeek int) ([]RouteOption, error) {
	fromID, toID := normalizeCode(from), normalizeCode(to)
	if flightsPerWeek <= 0 {
		flightsPerWeek = 1
	}
	if fromID == toID {
		return nil, ErrSameAirport
	}
	if len(typeNames) == 0 {
		for _, t := range e.catalog.Aircraft {
			typeNames = append(typeNames, t.Name)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fromAp := e.state.AirportByCode(fromID)
	toAp := e.state.AirportByCode(toID)
	if fromAp == nil || toAp == nil {
		return nil, fmt.Errorf("%w: %s-%s", ErrUnknownAirport, fromID, toID)
	}
	dist := econ.Distance(*fromAp, *toAp)

	results := make([]RouteOption, 0, len(typeNames))
	for _, name := range typeNames {
		t, ok := e.catalog.FindAircraft(name)
		if !ok {
			results = append(results, RouteOption{AircraftType: name, Error: ErrUnknownAircraftType.Error()})
			continue
		}
		if dist > t.RangeKm {
			results = append(results, RouteOption{AircraftType: t.Name, Error: ErrOutOfRange.Error()})
			continue
		}

		// Price the route against a hypothetical airframe; the state copy
		// shares everything but the fleet.
		probe := e.state
		probe.Fleet = []models.Aircraft{{ID: 1, Type: t, Acquisition: models.AcquisitionOwned}}
		rt := models.Route{From: fromID, To: toID, AircraftID: 1, FlightsPerWeek: flightsPerWeek, DistanceKm: dist}
		est := econ.EstimateRoute(&probe, rt)
		results = append(results, RouteOption{
			AircraftType: t.Name,
			Valid:        true,
			Estimate:     est,
			LeasedProfit: est.Profit - t.LeaseCost,
		})
	}

	slices.SortStableFunc(results, func(a, b RouteOption) int {
		if a.Valid != b.Valid {
			if a.Valid {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Estimate.Profit, a.Estimate.Profit)
	})
	if len(results) > 5 {
		results = results[:5]
	}
	return results, nil
}
