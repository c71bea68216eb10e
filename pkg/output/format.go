// Package output renders analyzer results for the command line.
package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/pkg/format"
	"github.com/iwvelando/rehabdesk/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyProjection writes a human-readable rendering of a BRRRR projection.
// refi is optional.
func PrettyProjection(w io.Writer, name string, proj brrrr.Projection, refi *loans.Refinance) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- BRRRR projection for %s ---\n", name)

	fmt.Fprintf(w, "Stage        | Cash Needed\n")
	fmt.Fprintf(w, "_____        | ___________\n")
	for _, point := range proj.CashNeededOverTime {
		fmt.Fprintf(w, "%-12s | %s\n", point.Label, format.Currency(point.Value))
	}

	if refi != nil {
		fmt.Fprintf(w, "\nRefinance\n")
		fmt.Fprintf(w, "  Loan amount:     %s\n", format.Currency(refi.LoanAmount))
		fmt.Fprintf(w, "  Net proceeds:    %s\n", format.Currency(refi.NetProceeds))
		fmt.Fprintf(w, "  Monthly payment: %s\n", format.Currency(refi.MonthlyPayment))
		fmt.Fprintf(w, "  Annual debt:     %s\n", format.Currency(refi.AnnualDebt))
	}

	fmt.Fprintf(w, "\nYear     | Equity        | Appreciation  | Net Cash Flow | Total Return\n")
	fmt.Fprintf(w, "____     | ______        | ____________  | _____________ | ____________\n")
	for _, r := range proj.LongTermReturns {
		_, _ = p.Fprintf(w, "%-8s | %13s | %13s | %13s | %s\n",
			r.Label,
			format.WholeCurrency(r.Equity),
			format.WholeCurrency(r.Appreciation),
			format.WholeCurrency(r.NetCashFlow),
			format.WholeCurrency(r.TotalReturn),
		)
	}
}

// CsvProjection writes the long-term returns of a projection in
// comma-separated value format, preceded by the cash timeline.
func CsvProjection(w io.Writer, proj brrrr.Projection) {
	fmt.Fprintf(w, `"stage","cash needed"`+"\n")
	for _, point := range proj.CashNeededOverTime {
		fmt.Fprintf(w, `"%s","%.2f"`+"\n", point.Label, point.Value)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, `"year","equity","appreciation","net cash flow","total return"`+"\n")
	for _, r := range proj.LongTermReturns {
		fmt.Fprintf(w, `"%s","%.2f","%.2f","%.2f","%.2f"`+"\n", r.Label, r.Equity, r.Appreciation, r.NetCashFlow, r.TotalReturn)
	}
}

// PrettyEvaluation writes a human-readable flip evaluation.
func PrettyEvaluation(w io.Writer, name string, eval flip.Evaluation) {
	fmt.Fprintf(w, "--- Flip evaluation for %s ---\n", name)
	fmt.Fprintf(w, "Repair cost:      %s\n", format.Currency(eval.RepairCost))
	fmt.Fprintf(w, "Other costs:      %s\n", format.Currency(eval.TotalCosts))
	fmt.Fprintf(w, "Total investment: %s\n", format.Currency(eval.TotalInvestment))
	fmt.Fprintf(w, "Profit:           %s\n", format.Currency(eval.Profit))
	fmt.Fprintf(w, "Return on cost:   %s\n", format.Percent(eval.ROI/100))
	fmt.Fprintf(w, "Maximum offer:    %s\n", format.Currency(eval.MaxOffer))
	verdict := "below target"
	if eval.MeetsTarget {
		verdict = "meets target"
	}
	fmt.Fprintf(w, "Desired profit:   %s\n", verdict)
}

// CsvEvaluation writes a flip evaluation as a header row and a value row.
func CsvEvaluation(w io.Writer, eval flip.Evaluation) {
	fmt.Fprintf(w, `"repair cost","total costs","total investment","profit","roi","max offer","meets target"`+"\n")
	fmt.Fprintf(w, `"%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%t"`+"\n",
		eval.RepairCost, eval.TotalCosts, eval.TotalInvestment, eval.Profit, eval.ROI, eval.MaxOffer, eval.MeetsTarget)
}
