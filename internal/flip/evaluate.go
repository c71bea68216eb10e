package flip

import "github.com/iwvelando/rehabdesk/pkg/mathutil"

// Evaluation is the profitability of the entered figures.
type Evaluation struct {
	RepairCost      float64 `json:"repairCost"`
	TotalCosts      float64 `json:"totalCosts"`
	TotalInvestment float64 `json:"totalInvestment"`
	Profit          float64 `json:"profit"`
	ROI             float64 `json:"roi"`
	MaxOffer        float64 `json:"maxOffer"`
	MeetsTarget     bool    `json:"meetsTarget"`
}

// EffectiveRepairCost returns the repair budget: square feet times the
// per-square-foot rate in perSF mode, otherwise the lump sum.
func (a Analyzer) EffectiveRepairCost() float64 {
	if a.RepairCostType == RepairPerSF {
		return a.RepairCostPerSF.Float() * a.RepairCostSF.Float()
	}
	return a.RepairCost.Float()
}

// Evaluate computes the flip's costs, profit and maximum offer. Missing
// figures read as zero.
func (a Analyzer) Evaluate() Evaluation {
	repair := a.EffectiveRepairCost()

	costs := a.BuyingCosts.Float() + a.HoldingCosts.Float() + a.SellingCosts.Float() + a.FinancingCosts.Float()

	investment := a.PurchasePrice.Float() + repair + costs
	profit := a.ARV.Float() - investment
	desired := a.DesiredProfit.Float()

	return Evaluation{
		RepairCost:      mathutil.Round(repair),
		TotalCosts:      mathutil.Round(costs),
		TotalInvestment: mathutil.Round(investment),
		Profit:          mathutil.Round(profit),
		ROI:             mathutil.Round(mathutil.CalculatePercentage(profit, investment)),
		MaxOffer:        mathutil.Round(a.ARV.Float() - repair - costs - desired),
		MeetsTarget:     profit >= desired || mathutil.IsZero(profit-desired),
	}
}
