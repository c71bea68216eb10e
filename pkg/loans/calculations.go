// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/rehabdesk/pkg/constants"
	"github.com/iwvelando/rehabdesk/pkg/mathutil"
)

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return (principal - downPayment) * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// Refinance summarizes a cash-out refinance against an appraised value.
type Refinance struct {
	LoanAmount     float64
	NetProceeds    float64
	MonthlyPayment float64
	AnnualDebt     float64
}

// CalculateRefinance sizes a refinance loan at loanToValue percent of
// appraisedValue and amortizes it over termYears at annualInterestRate
// percent. Closing costs reduce the proceeds.
func CalculateRefinance(appraisedValue, loanToValue, annualInterestRate float64, termYears int, closingCosts float64) Refinance {
	amount := mathutil.ApplyPercentage(appraisedValue, loanToValue)
	payment := CalculateMonthlyPayment(amount, 0, annualInterestRate, termYears*constants.MonthsPerYear)
	return Refinance{
		LoanAmount:     mathutil.Round(amount),
		NetProceeds:    mathutil.Round(amount - closingCosts),
		MonthlyPayment: mathutil.Round(payment),
		AnnualDebt:     mathutil.Round(payment * constants.MonthsPerYear),
	}
}
