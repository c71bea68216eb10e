package brrrr

import "github.com/iwvelando/rehabdesk/pkg/loans"

// Refinance sizes the refinance loan described by the inputs. It reports
// false until both the after-repair value and loan-to-value are entered.
func (r RefinanceInputs) Refinance() (loans.Refinance, bool) {
	if r.ARV == nil || r.LoanToValue == nil {
		return loans.Refinance{}, false
	}
	return loans.CalculateRefinance(
		r.ARV.Float(),
		r.LoanToValue.Float(),
		r.InterestRate.Float(),
		int(r.LoanTermYears.Float()),
		r.ClosingCosts.Float(),
	), true
}
