package game

import (
	"fmt"

	"airline_tycoon/internal/econ"
	"airline_tycoon/internal/models"
)

const (
	BankruptcyThreshold = -10_000_000.0
	VictoryYear         = 2000
	EventChance         = 0.10
)

// TurnOutcome summarises one resolved quarter for the caller.
type TurnOutcome struct {
	Year     int                  `json:"year"`
	Quarter  int                  `json:"quarter"`
	Report   models.QuarterReport `json:"report"`
	Bankrupt bool                 `json:"bankrupt"`
	Victory  bool                 `json:"victory"`
	Score    int                  `json:"score,omitempty"`
	Event    string               `json:"event,omitempty"`
}

// AdvanceTurn resolves one quarter. The whole pipeline runs under the
// engine lock. Reaching the victory year is reported on every turn from
// then on but never stops play; bankruptcy does.
func (e *Engine) AdvanceTurn() (TurnOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Bankrupt {
		return TurnOutcome{}, ErrGameOver
	}
	st := &e.state

	for i := range st.Fleet {
		st.Fleet[i].AgeQuarters++
	}

	expenses := econ.Expenses(st)
	report := models.QuarterReport{
		Year:     st.Year,
		Quarter:  st.Quarter,
		Revenue:  econ.QuarterlyRevenue(st),
		Expense:  expenses.Total(),
		Expenses: expenses,
	}
	report.Profit = report.Revenue - report.Expense
	st.Cash += report.Profit
	st.LastReport = report

	switch {
	case report.Profit > 0 && len(st.Routes) > 0:
		st.AdjustReputation(1)
	case report.Profit < 0:
		st.AdjustReputation(-2)
	}
	st.AdjustReputation(int(st.AdvertisingBudget / 1_000_000))

	st.Quarter++
	if st.Quarter > 4 {
		st.Quarter = 1
		st.Year++
		st.AddNews(fmt.Sprintf("Happy New Year! Welcome to %d", st.Year))
	}

	if report.Profit >= 0 {
		st.AddNews(fmt.Sprintf("Q%d %d profit: %s", report.Quarter, report.Year, FormatMoney(report.Profit)))
	} else {
		st.AddNews(fmt.Sprintf("Q%d %d loss: %s", report.Quarter, report.Year, FormatMoney(-report.Profit)))
	}

	e.tickEventsLocked()
	out := TurnOutcome{Report: report}
	if tpl, ok := e.rollEventLocked(); ok {
		out.Event = tpl.Description
	}
	e.amortizeLoansLocked()
	e.simulateCompetitorsLocked()

	out.Year, out.Quarter = st.Year, st.Quarter
	if st.Cash < BankruptcyThreshold {
		st.Bankrupt = true
		out.Bankrupt = true
		st.AddNews(fmt.Sprintf("Bankrupt! Cash fell to %s", FormatMoney(st.Cash)))
		e.log.Warn("airline bankrupt", "game_id", st.GameID, "year", st.Year, "quarter", st.Quarter, "cash", st.Cash)
	}
	if st.Year >= VictoryYear {
		out.Victory = true
		out.Score = econ.Score(st)
		if !st.VictoryAnnounced {
			st.VictoryAnnounced = true
			st.AddNews(fmt.Sprintf("Your airline reached %d! Final score: %d", st.Year, out.Score))
		}
	}

	e.log.Info("turn resolved",
		"year", st.Year, "quarter", st.Quarter,
		"revenue", report.Revenue, "expense", report.Expense,
		"cash", st.Cash, "reputation", st.Reputation)

	if e.savePath != "" {
		if err := e.saveLocked(e.savePath); err != nil {
			e.log.Error("autosave failed", "path", e.savePath, "error", err)
		}
	}
	return out, nil
}
