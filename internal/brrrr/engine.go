package brrrr

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/pkg/constants"
	"github.com/iwvelando/rehabdesk/pkg/mathutil"
	"go.uber.org/zap"
)

const defaultFinancingStrategy = constants.DefaultFinancingStrategy

// Chart labels of the three cash-needed points.
const (
	LabelClosing    = "Closing"
	LabelStabilized = "Stabilized"
	LabelAfterRefi  = "After Refi"
)

// ComputeProjection derives the cash needed over time and the long-term
// return projection from the two phases. Missing figures read as zero.
func ComputeProjection(phase1 []LineItem, phase2 Phase2) Projection {
	cash := []CashPoint{
		{Label: LabelClosing, Value: mathutil.Outlay(figure(phase1, KeyCashAtClosing, legacyCashAtClosingIndex).Value.Float())},
		{Label: LabelStabilized, Value: mathutil.Outlay(figure(phase1, KeyCashAtStabilization, legacyCashAtStabilizationIndex).Value.Float())},
		{Label: LabelAfterRefi, Value: mathutil.Outlay(phase2.RefiAmount.Float())},
	}

	years := phase2.horizon()
	baseEquity := figure(phase1, KeyEquity, legacyEquityIndex).Value.Float()
	netCashFlow := figure(phase2.Items, KeyCashFlowBeforeDebt, legacyCashFlowBeforeDebtIndex).PerYear.Float()

	returns := make([]YearReturn, 0, max(years, 0))
	var cumAppreciation, cumNetCashFlow float64
	for y := 1; y <= years; y++ {
		// Each year's appreciation is measured from the original equity.
		cumAppreciation += mathutil.CompoundGrowth(baseEquity, constants.AnnualAppreciationRate, y)
		cumNetCashFlow += netCashFlow
		total := baseEquity + cumAppreciation + cumNetCashFlow
		returns = append(returns, YearReturn{
			Label:        fmt.Sprintf("Year %d", y),
			Equity:       mathutil.RoundWhole(baseEquity),
			Appreciation: mathutil.RoundWhole(cumAppreciation),
			NetCashFlow:  mathutil.RoundWhole(cumNetCashFlow),
			TotalReturn:  mathutil.RoundWhole(total),
		})
	}

	return Projection{CashNeededOverTime: cash, LongTermReturns: returns}
}

// horizon returns the projection length in years. Non-positive years read
// as zero and values beyond the int32 range are clamped before conversion.
func (p Phase2) horizon() int {
	if p.Years == nil {
		return constants.DefaultProjectionYears
	}
	years := p.Years.Float()
	switch {
	case !(years > 0):
		return 0
	case years > math.MaxInt32:
		return math.MaxInt32
	}
	return int(years)
}

// figure finds the line item playing a role. Keyed phases are searched by
// key only; a phase without any keys falls back to the legacy position.
func figure(items []LineItem, key string, legacyIndex int) LineItem {
	keyed := false
	for _, item := range items {
		if item.Key == key {
			return item
		}
		if item.Key != "" {
			keyed = true
		}
	}
	if !keyed && legacyIndex < len(items) {
		return items[legacyIndex]
	}
	return LineItem{}
}

// Engine applies client saves to stored analyzer state.
type Engine struct {
	logger   *zap.Logger
	maxYears int
}

// NewEngine creates an engine that rejects projections longer than maxYears.
func NewEngine(logger *zap.Logger, maxYears int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxYears <= 0 {
		maxYears = constants.DefaultMaxProjectionYears
	}
	return &Engine{logger: logger, maxYears: maxYears}
}

// Apply merges upd over prev. Fields absent from upd keep their stored
// value. Results are recomputed when upd is finished and carries both
// phases, and otherwise keep the stored projection. LastUpdated is always
// set to now.
func (e *Engine) Apply(prev Analyzer, upd Update, now time.Time) (Analyzer, error) {
	next := prev

	if upd.Phase1 != nil {
		next.Phase1 = upd.Phase1
	}
	if upd.Phase2 != nil {
		next.Phase2 = *upd.Phase2
	}
	if upd.Phase2Inputs != nil {
		next.Phase2Inputs = *upd.Phase2Inputs
	}
	if upd.FinancingStrategy != nil {
		next.FinancingStrategy = *upd.FinancingStrategy
	}
	if next.FinancingStrategy == "" {
		next.FinancingStrategy = defaultFinancingStrategy
	}
	if upd.Finished != nil {
		next.Finished = *upd.Finished
	}
	next.Extra = prev.Extra.Merge(upd.Extra)

	if upd.Finished != nil && *upd.Finished && upd.Phase1 != nil && upd.Phase2 != nil {
		if years := upd.Phase2.horizon(); years > e.maxYears {
			return prev, apperr.Validation("projection horizon of %d years exceeds the maximum of %d", years, e.maxYears)
		}
		projection := ComputeProjection(upd.Phase1, *upd.Phase2)
		next.Results = &projection
		e.logger.Debug("computed brrrr projection",
			zap.String("op", "brrrr.Apply"),
			zap.Int("years", len(projection.LongTermReturns)),
		)
	}

	stamped := now.UTC()
	next.LastUpdated = &stamped
	return next, nil
}
