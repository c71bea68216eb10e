// Package flip holds the fix-and-flip analyzer: the wizard state a client
// saves step by step, and a read-only evaluation of the entered figures.
package flip

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/jsonx"
	"github.com/iwvelando/rehabdesk/pkg/validation"
	"go.uber.org/zap"
)

// Repair cost entry modes.
const (
	RepairLumpSum = "lumpSum"
	RepairPerSF   = "perSF"
)

// Financing types.
const (
	FinancingCash = "cash"
	FinancingLoan = "loan"
)

// Analyzer is the flip analyzer state embedded in a project.
type Analyzer struct {
	ARV             *jsonx.Number `json:"arv,omitempty"`
	PurchasePrice   *jsonx.Number `json:"purchasePrice,omitempty"`
	RepairCost      *jsonx.Number `json:"repairCost,omitempty"`
	RepairCostType  string        `json:"repairCostType,omitempty"`
	RepairCostPerSF *jsonx.Number `json:"repairCostPerSF,omitempty"`
	RepairCostSF    *jsonx.Number `json:"repairCostSF,omitempty"`
	BuyingCosts     *jsonx.Number `json:"buyingCosts,omitempty"`
	HoldingCosts    *jsonx.Number `json:"holdingCosts,omitempty"`
	SellingCosts    *jsonx.Number `json:"sellingCosts,omitempty"`
	FinancingType   string        `json:"financingType,omitempty"`
	FinancingCosts  *jsonx.Number `json:"financingCosts,omitempty"`
	DesiredProfit   *jsonx.Number `json:"desiredProfit,omitempty"`

	// Step is the last completed wizard step.
	Step     *int `json:"step,omitempty"`
	Finished bool `json:"finished"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`

	// Results are computed and owned by the client; they are only
	// meaningful once Finished is set.
	Results []json.RawMessage `json:"results"`

	Extra jsonx.Extras `json:"-"`
}

// MarshalJSON writes results as [] until the client stores some.
func (a Analyzer) MarshalJSON() ([]byte, error) {
	type alias Analyzer
	out := alias(a)
	if out.Results == nil {
		out.Results = []json.RawMessage{}
	}
	return jsonx.Marshal(out, a.Extra)
}

// UnmarshalJSON implements json.Unmarshaler. Decoding onto a populated
// value overwrites only the members present in data.
func (a *Analyzer) UnmarshalJSON(data []byte) error {
	type alias Analyzer
	if err := json.Unmarshal(data, (*alias)(a)); err != nil {
		return err
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	a.Extra = a.Extra.Merge(extras)
	return nil
}

// Clone returns a deep copy of a.
func (a Analyzer) Clone() (Analyzer, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return Analyzer{}, fmt.Errorf("failed to encode flip analyzer: %w", err)
	}
	var out Analyzer
	if err := json.Unmarshal(data, &out); err != nil {
		return Analyzer{}, fmt.Errorf("failed to decode flip analyzer: %w", err)
	}
	return out, nil
}

// Wizard applies client saves to stored flip analyzer state.
type Wizard struct {
	logger    *zap.Logger
	finalStep int
}

// NewWizard creates a wizard whose analysis may be finished only from
// finalStep onwards. A finalStep of zero disables the check.
func NewWizard(logger *zap.Logger, finalStep int) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if finalStep < 0 {
		finalStep = 0
	}
	return &Wizard{logger: logger, finalStep: finalStep}
}

// Apply merges the JSON object body over prev, validates the result and
// stamps LastUpdated with now. prev is not modified.
func (w *Wizard) Apply(prev Analyzer, body []byte, now time.Time) (Analyzer, error) {
	next, err := prev.Clone()
	if err != nil {
		return prev, apperr.Internal("failed to copy flip analyzer", err)
	}
	if err := json.Unmarshal(body, &next); err != nil {
		return prev, apperr.Wrap(apperr.CodeValidation, "invalid flip analyzer: "+err.Error(), err)
	}

	if err := w.validate(prev, next); err != nil {
		return prev, err
	}

	stamped := now.UTC()
	next.LastUpdated = &stamped
	w.logger.Debug("merged flip analyzer",
		zap.String("op", "flip.Apply"),
		zap.Int("step", next.currentStep()),
		zap.Bool("finished", next.Finished),
	)
	return next, nil
}

func (w *Wizard) validate(prev, next Analyzer) error {
	if next.Step != nil && *next.Step < 0 {
		return apperr.Validation("step must be zero or greater, got %d", *next.Step)
	}
	if err := validation.OneOf("repairCostType", next.RepairCostType, true, RepairLumpSum, RepairPerSF); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err.Error(), err)
	}
	if err := validation.OneOf("financingType", next.FinancingType, true, FinancingCash, FinancingLoan); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err.Error(), err)
	}
	if w.finalStep > 0 && next.Finished && !prev.Finished && next.currentStep() < w.finalStep {
		return apperr.Validation("flip analysis can only be finished from step %d, currently at step %d",
			w.finalStep, next.currentStep())
	}
	return nil
}

func (a Analyzer) currentStep() int {
	if a.Step == nil {
		return 0
	}
	return *a.Step
}
