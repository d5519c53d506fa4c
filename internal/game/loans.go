package game

import (
	"fmt"

	"airline_tycoon/internal/econ"
	"airline_tycoon/internal/models"
)

// newLoan prices a loan. Payment is the annuity instalment charged as an
// expense each quarter; the balance falls by the straight-line share.
func newLoan(id int, principal, rate float64, quarters int) models.Loan {
	return models.Loan{
		ID:                  id,
		Principal:           principal,
		Balance:             principal,
		Payment:             econ.AnnuityPayment(principal, rate, quarters),
		PrincipalPerQuarter: principal / float64(quarters),
		Term:                quarters,
		QuartersRemaining:   quarters,
		Rate:                rate,
	}
}

func (e *Engine) amortizeLoansLocked() {
	st := &e.state
	kept := st.Loans[:0]
	for _, ln := range st.Loans {
		ln.Balance -= ln.PrincipalPerQuarter
		ln.QuartersRemaining--
		if ln.Balance > 1e-6 && ln.QuartersRemaining > 0 {
			kept = append(kept, ln)
			continue
		}
		st.AddNews(fmt.Sprintf("Loan of %s paid off", FormatMoney(ln.Principal)))
		e.log.Debug("loan retired", "id", ln.ID)
	}
	st.Loans = kept
}
