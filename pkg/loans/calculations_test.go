package loans

import (
	"math"
	"testing"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		downPayment        float64
		annualInterestRate float64
		termMonths         int
		expectedRange      []float64 // [min, max] expected range
	}{
		{
			name:               "Standard 30-year mortgage",
			principal:          300000,
			downPayment:        60000, // 20%
			annualInterestRate: 6.0,
			termMonths:         360,
			expectedRange:      []float64{1400, 1500}, // Around $1439
		},
		{
			name:               "5-year car loan",
			principal:          25000,
			downPayment:        5000,
			annualInterestRate: 4.0,
			termMonths:         60,
			expectedRange:      []float64{360, 380}, // Around $368
		},
		{
			name:               "Zero interest loan",
			principal:          12000,
			downPayment:        2000,
			annualInterestRate: 0.0,
			termMonths:         60,
			expectedRange:      []float64{166, 167}, // Exactly $166.67
		},
		{
			name:               "100% down payment",
			principal:          50000,
			downPayment:        50000,
			annualInterestRate: 5.0,
			termMonths:         60,
			expectedRange:      []float64{0, 0}, // Should be 0
		},
		{
			name:               "High interest loan",
			principal:          10000,
			downPayment:        0,
			annualInterestRate: 18.0,
			termMonths:         36,
			expectedRange:      []float64{360, 380}, // Around $372
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.downPayment, tt.annualInterestRate, tt.termMonths)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           float64
	}{
		{
			name:               "Standard mortgage interest",
			remainingPrincipal: 200000,
			annualInterestRate: 6.0,
			expected:           1000.0, // 200000 * 0.06 / 12
		},
		{
			name:               "Car loan interest",
			remainingPrincipal: 15000,
			annualInterestRate: 4.5,
			expected:           56.25, // 15000 * 0.045 / 12
		},
		{
			name:               "Zero interest",
			remainingPrincipal: 10000,
			annualInterestRate: 0.0,
			expected:           0.0,
		},
		{
			name:               "High interest",
			remainingPrincipal: 5000,
			annualInterestRate: 24.0,
			expected:           100.0, // 5000 * 0.24 / 12
		},
		{
			name:               "Very small principal",
			remainingPrincipal: 100,
			annualInterestRate: 6.0,
			expected:           0.5, // 100 * 0.06 / 12
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualInterestRate)

			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestCalculateMonthlyPaymentZeroTerm(t *testing.T) {
	if got := CalculateMonthlyPayment(100000, 0, 6.0, 0); got != 0 {
		t.Fatalf("expected zero payment for zero term, got %.2f", got)
	}
}

func TestCalculateRefinance(t *testing.T) {
	refi := CalculateRefinance(200000, 75, 6.0, 30, 3000)

	if refi.LoanAmount != 150000 {
		t.Errorf("LoanAmount = %.2f, expected 150000", refi.LoanAmount)
	}
	if refi.NetProceeds != 147000 {
		t.Errorf("NetProceeds = %.2f, expected 147000", refi.NetProceeds)
	}
	// 150k over 30 years at 6% is about $899.33 a month.
	if math.Abs(refi.MonthlyPayment-899.33) > 0.01 {
		t.Errorf("MonthlyPayment = %.2f, expected 899.33", refi.MonthlyPayment)
	}
	if math.Abs(refi.AnnualDebt-refi.MonthlyPayment*12) > 0.05 {
		t.Errorf("AnnualDebt = %.2f, expected about 12 payments", refi.AnnualDebt)
	}
}
