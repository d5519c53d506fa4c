package game

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"airline_tycoon/internal/catalog"
	"airline_tycoon/internal/econ"
	"airline_tycoon/internal/models"
)

func advance(t *testing.T, e *Engine, n int) TurnOutcome {
	t.Helper()
	var out TurnOutcome
	for range n {
		var err error
		out, err = e.AdvanceTurn()
		if err != nil {
			t.Fatalf("AdvanceTurn returned error: %v", err)
		}
	}
	return out
}

func TestAdvanceFourQuartersRollsYear(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)

	out := advance(t, e, 3)
	if out.Year != 1990 || out.Quarter != 4 {
		t.Fatalf("expected Q4 1990 after three turns, got Q%d %d", out.Quarter, out.Year)
	}
	out = advance(t, e, 1)
	if out.Year != 1991 || out.Quarter != 1 {
		t.Fatalf("expected Q1 1991 after four turns, got Q%d %d", out.Quarter, out.Year)
	}
	if out.Report.Year != 1990 || out.Report.Quarter != 4 {
		t.Fatalf("expected report for Q4 1990, got Q%d %d", out.Report.Quarter, out.Report.Year)
	}
	found := slices.ContainsFunc(e.State().News, func(n models.NewsEntry) bool {
		return strings.Contains(n.Message, "1991")
	})
	if !found {
		t.Fatalf("expected a year-boundary news entry")
	}
}

func TestAdvanceTurnSettlesCash(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	if _, err := e.BuyAirportSlot("BBB"); err != nil {
		t.Fatalf("BuyAirportSlot: %v", err)
	}
	if _, err := e.CreateRoute("AAA", "BBB", 1, 7); err != nil {
		t.Fatalf("CreateRoute: %v", err)
	}

	// Settlement runs after aging, so price the quarter on an aged copy.
	want := e.State()
	for i := range want.Fleet {
		want.Fleet[i].AgeQuarters++
	}
	revenue := econ.QuarterlyRevenue(&want)
	expense := econ.QuarterlyExpense(&want)

	out := advance(t, e, 1)
	st := e.State()
	if math.Abs(out.Report.Revenue-revenue) > 1e-6 || math.Abs(out.Report.Expense-expense) > 1e-6 {
		t.Fatalf("expected revenue %.2f expense %.2f, got %.2f %.2f", revenue, expense, out.Report.Revenue, out.Report.Expense)
	}
	if math.Abs(st.Cash-(want.Cash+revenue-expense)) > 1e-6 {
		t.Fatalf("expected cash %.2f, got %.2f", want.Cash+revenue-expense, st.Cash)
	}
	if st.Fleet[0].AgeQuarters != 1 {
		t.Fatalf("expected aircraft age 1, got %d", st.Fleet[0].AgeQuarters)
	}
	if st.LastReport != out.Report {
		t.Fatalf("expected last report to be kept on state")
	}
}

func TestReputationDrift(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	if _, err := e.BuyAirportSlot("BBB"); err != nil {
		t.Fatalf("BuyAirportSlot: %v", err)
	}
	if _, err := e.CreateRoute("AAA", "BBB", 1, 7); err != nil {
		t.Fatalf("CreateRoute: %v", err)
	}

	out := advance(t, e, 1)
	if out.Report.Profit <= 0 {
		t.Fatalf("expected a profitable first quarter, got %.2f", out.Report.Profit)
	}
	if rep := e.State().Reputation; rep != 51 {
		t.Fatalf("expected reputation 51 after profit, got %d", rep)
	}

	// A 3M ad budget tips the quarter into a loss: -2 for the loss, +3 for ads.
	if err := e.SetAdvertisingBudget(3_000_000); err != nil {
		t.Fatal(err)
	}
	out = advance(t, e, 1)
	if out.Report.Profit >= 0 {
		t.Fatalf("expected a loss with heavy advertising, got %.2f", out.Report.Profit)
	}
	if rep := e.State().Reputation; rep != 52 {
		t.Fatalf("expected reputation 52, got %d", rep)
	}
	if last := e.State().News; !slices.ContainsFunc(last, func(n models.NewsEntry) bool {
		return strings.Contains(n.Message, "loss: $") && !strings.Contains(n.Message, "-$")
	}) {
		t.Fatalf("expected loss news with an absolute amount")
	}
}

func TestReputationStaysInRange(t *testing.T) {
	cases := []struct {
		name       string
		reputation int
		withRoute  bool
		advertise  float64
		wantProfit bool
		want       int
	}{
		{"loss at the floor", 1, false, 0, false, 0},
		{"profit and ads at the ceiling", 99, true, 3_000_000, true, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := testCatalog()
			cat.Events = nil
			e := newTestEngine(t, cat, testRules(), nil)
			if tc.withRoute {
				if _, err := e.BuyAirportSlot("BBB"); err != nil {
					t.Fatalf("BuyAirportSlot: %v", err)
				}
				if _, err := e.CreateRoute("AAA", "BBB", 1, 7); err != nil {
					t.Fatalf("CreateRoute: %v", err)
				}
			}
			if err := e.SetAdvertisingBudget(tc.advertise); err != nil {
				t.Fatal(err)
			}
			st := e.State()
			st.Reputation = tc.reputation
			st.Economy = 1.5
			if err := e.Restore(st); err != nil {
				t.Fatalf("Restore: %v", err)
			}

			out := advance(t, e, 1)
			if got := out.Report.Profit > 0; got != tc.wantProfit {
				t.Fatalf("expected profitable=%v, got profit %.2f", tc.wantProfit, out.Report.Profit)
			}
			if rep := e.State().Reputation; rep != tc.want {
				t.Fatalf("expected reputation %d, got %d", tc.want, rep)
			}
		})
	}
}

func bareRules() Rules {
	r := DefaultRules()
	r.HomeAirport = ""
	r.StarterFleet = nil
	return r
}

func TestBankruptcyBelowThreshold(t *testing.T) {
	cat := testCatalog()
	cat.Events = nil
	e := newTestEngine(t, cat, bareRules(), nil)

	st := e.State()
	st.Cash = -10_000_000
	if err := e.Restore(st); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if out := advance(t, e, 1); out.Bankrupt {
		t.Fatalf("expected cash of exactly -10M to survive")
	}

	st = e.State()
	st.Cash = -10_000_001
	if err := e.Restore(st); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	out := advance(t, e, 1)
	if !out.Bankrupt {
		t.Fatalf("expected bankrupt at -10,000,001")
	}

	if _, err := e.AdvanceTurn(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after bankruptcy, got %v", err)
	}
	if _, err := e.BuyAircraft("Test Jet"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected commands to be refused after bankruptcy, got %v", err)
	}

	e.NewGame()
	if _, err := e.AdvanceTurn(); err != nil {
		t.Fatalf("expected a new game to clear bankruptcy, got %v", err)
	}
}

func TestVictoryAtYear2000(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	st := e.State()
	st.Year, st.Quarter = 1999, 4
	if err := e.Restore(st); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	out := advance(t, e, 1)
	if !out.Victory || out.Year != 2000 {
		t.Fatalf("expected victory in 2000, got %+v", out)
	}
	final := e.State()
	if want := econ.Score(&final); out.Score != want {
		t.Fatalf("expected score %d, got %d", want, out.Score)
	}

	out = advance(t, e, 1)
	if !out.Victory {
		t.Fatalf("expected victory to keep being reported")
	}
	n := 0
	for _, entry := range e.State().News {
		if strings.Contains(entry.Message, "Final score") {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected victory news once, got %d", n)
	}
}

func TestFuelEventResetsOnExpiry(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	e.mu.Lock()
	e.activateEventLocked(testCatalog().Events[0])
	e.mu.Unlock()

	if fuel := e.State().FuelPrice; fuel != 1.5 {
		t.Fatalf("expected fuel 1.5 on activation, got %.2f", fuel)
	}
	advance(t, e, 1)
	st := e.State()
	if st.FuelPrice != 1.5 || len(st.Events) != 1 || st.Events[0].QuartersRemaining != 1 {
		t.Fatalf("expected event still active with fuel 1.5, got fuel %.2f events %+v", st.FuelPrice, st.Events)
	}
	advance(t, e, 1)
	st = e.State()
	if st.FuelPrice != 1.0 || len(st.Events) != 0 {
		t.Fatalf("expected fuel reset on expiry, got fuel %.2f events %d", st.FuelPrice, len(st.Events))
	}
}

func TestOverlappingFuelEventsResetUnconditionally(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	long := models.EventTemplate{ID: "long", Description: "Long crisis", Duration: 4,
		Effects: []models.Effect{models.FuelPriceEffect{Multiplier: 2.0}}}
	e.mu.Lock()
	e.activateEventLocked(testCatalog().Events[0])
	e.activateEventLocked(long)
	e.mu.Unlock()

	if fuel := e.State().FuelPrice; fuel != 2.0 {
		t.Fatalf("expected last activation to win, got %.2f", fuel)
	}
	advance(t, e, 2)
	st := e.State()
	if len(st.Events) != 1 || st.Events[0].Template.ID != "long" {
		t.Fatalf("expected the long event to remain, got %+v", st.Events)
	}
	if st.FuelPrice != 1.0 {
		t.Fatalf("expected the first expiry to reset fuel, got %.2f", st.FuelPrice)
	}
}

func TestRandomEventTrigger(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.05}, ints: []int{2}}
	e := newTestEngine(t, testCatalog(), testRules(), src)
	before := e.State().Cash

	out := advance(t, e, 1)
	if out.Event != "Government grant" {
		t.Fatalf("expected the grant to trigger, got %q", out.Event)
	}
	st := e.State()
	if math.Abs(st.Cash-(before+out.Report.Profit+1_000_000)) > 1e-6 {
		t.Fatalf("expected the one-shot grant to land in cash")
	}
	advance(t, e, 1)
	st2 := e.State()
	if len(st2.Events) != 0 {
		t.Fatalf("expected the grant to expire, got %+v", st2.Events)
	}
	if math.Abs(st2.Cash-(st.Cash+st2.LastReport.Profit)) > 1e-6 {
		t.Fatalf("expected one-shot cash to stay after expiry")
	}
}

func TestNoEventAboveChance(t *testing.T) {
	src := &scriptedSource{floats: []float64{EventChance}}
	e := newTestEngine(t, testCatalog(), testRules(), src)
	if out := advance(t, e, 1); out.Event != "" {
		t.Fatalf("expected no event at the probability edge, got %q", out.Event)
	}
}

func TestLoanRetiresAfterTerm(t *testing.T) {
	e := newTestEngine(t, testCatalog(), testRules(), nil)
	ln, err := e.TakeLoan(1_000_000, 3)
	if err != nil {
		t.Fatalf("TakeLoan: %v", err)
	}

	out := advance(t, e, 1)
	if out.Report.Expenses.Loans != ln.Payment {
		t.Fatalf("expected loan payment %.2f in expenses, got %.2f", ln.Payment, out.Report.Expenses.Loans)
	}
	advance(t, e, 1)
	st := e.State()
	if len(st.Loans) != 1 {
		t.Fatalf("expected loan active before maturity")
	}
	if got := st.Loans[0]; math.Abs(got.Balance-1_000_000.0/3) > 1e-6 || got.QuartersRemaining != 1 {
		t.Fatalf("expected one third left with 1 quarter, got %.4f / %d", got.Balance, got.QuartersRemaining)
	}
	if math.Abs(st.Loans[0].Balance-st.Loans[0].PrincipalPerQuarter) > 1e-6 {
		t.Fatalf("expected final instalment to clear the balance")
	}

	advance(t, e, 1)
	st = e.State()
	if len(st.Loans) != 0 {
		t.Fatalf("expected loan retired after 3 quarters, got %+v", st.Loans)
	}
	if !slices.ContainsFunc(st.News, func(n models.NewsEntry) bool { return strings.Contains(n.Message, "paid off") }) {
		t.Fatalf("expected payoff news")
	}
}

func rivalCatalog(spec catalog.RivalSpec) catalog.Catalog {
	cat := testCatalog()
	cat.Events = nil
	cat.Rivals = []catalog.RivalSpec{spec}
	return cat
}

func TestCompetitorExpansion(t *testing.T) {
	// Draws: profit noise 0.6 (factor 1.0), expansion roll 0.0, first candidate.
	src := &scriptedSource{floats: []float64{0.6, 0.0}, ints: []int{0}}
	cat := rivalCatalog(catalog.RivalSpec{Name: "Rival", Cash: 100_000_000, Reputation: 75, Airports: []string{"BBB"}, Aggressive: true})
	e := newTestEngine(t, cat, testRules(), src)

	advance(t, e, 1)
	st := e.State()
	c := st.Competitors[0]
	if !slices.Equal(c.Airports, []string{"BBB", "CCC"}) {
		t.Fatalf("expected rival to expand into CCC, got %v", c.Airports)
	}
	if ap := st.AirportByCode("CCC"); !ap.OwnedBy(c.ID) {
		t.Fatalf("expected CCC to record rival ownership, got %+v", ap)
	}
	// +2M profit, -2M for CCC slots.
	if math.Abs(c.Cash-100_000_000) > 1e-3 {
		t.Fatalf("expected rival cash 100M, got %.2f", c.Cash)
	}
	if c.Reputation != 76 {
		t.Fatalf("expected rival reputation 76, got %d", c.Reputation)
	}
	if _, err := e.BuyAirportSlot("CCC"); !errors.Is(err, ErrAirportOwned) {
		t.Fatalf("expected player to be locked out of CCC, got %v", err)
	}
}

func TestCompetitorStaysPutBelowThreshold(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.6, 0.0}}
	cat := rivalCatalog(catalog.RivalSpec{Name: "Rival", Cash: 1_000_000, Reputation: 75, Airports: []string{"BBB"}, Aggressive: true})
	e := newTestEngine(t, cat, testRules(), src)

	advance(t, e, 1)
	if got := e.State().Competitors[0].Airports; len(got) != 1 {
		t.Fatalf("expected no expansion below the cash threshold, got %v", got)
	}
}

func TestCompetitorReputationFloor(t *testing.T) {
	cat := rivalCatalog(catalog.RivalSpec{Name: "Idle", Cash: 0, Reputation: 21})
	e := newTestEngine(t, cat, testRules(), nil)

	advance(t, e, 1)
	if rep := e.State().Competitors[0].Reputation; rep != 20 {
		t.Fatalf("expected reputation 20, got %d", rep)
	}
	advance(t, e, 1)
	if rep := e.State().Competitors[0].Reputation; rep != 20 {
		t.Fatalf("expected reputation to hold at the floor, got %d", rep)
	}
}
