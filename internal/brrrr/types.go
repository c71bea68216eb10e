// Package brrrr implements the Buy, Rehab, Rent, Refinance, Repeat analyzer:
// the embedded analyzer state of a project, the long-term projection engine,
// and the merge applied when a client saves the analyzer.
package brrrr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/iwvelando/rehabdesk/internal/jsonx"
)

// Line item keys naming the figures the projection reads.
const (
	KeyEquity              = "equity"
	KeyCashAtClosing       = "cashAtClosing"
	KeyCashAtStabilization = "cashAtStabilization"
	KeyCashFlowBeforeDebt  = "cashFlowBeforeDebt"
)

// Positions of the same figures in clients that send unkeyed line items.
const (
	legacyEquityIndex              = 0
	legacyCashAtClosingIndex       = 1
	legacyCashAtStabilizationIndex = 4
	legacyCashFlowBeforeDebtIndex  = 6
)

// LineItem is one named figure of a phase.
type LineItem struct {
	Key      string        `json:"key,omitempty"`
	Label    string        `json:"label,omitempty"`
	Value    *jsonx.Number `json:"value,omitempty"`
	PerMonth *jsonx.Number `json:"perMonth,omitempty"`
	PerYear  *jsonx.Number `json:"perYear,omitempty"`
	Extra    jsonx.Extras  `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type alias LineItem
	return jsonx.Marshal(alias(li), li.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	type alias LineItem
	if err := json.Unmarshal(data, (*alias)(li)); err != nil {
		return err
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	li.Extra = li.Extra.Merge(extras)
	return nil
}

// maxPositionalItems bounds the index accepted for an item sent under a
// numeric key.
const maxPositionalItems = 256

// Phase2 holds the stabilized operating figures plus the refinance amount
// and projection horizon.
type Phase2 struct {
	Items      []LineItem    `json:"items"`
	RefiAmount *jsonx.Number `json:"refiAmount,omitempty"`
	Years      *jsonx.Number `json:"years,omitempty"`
	Extra      jsonx.Extras  `json:"-"`
}

// MarshalJSON writes a bare item array when nothing else is set, which is
// the shape older clients send and read back.
func (p Phase2) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []LineItem{}
	}
	if p.RefiAmount == nil && p.Years == nil && len(p.Extra) == 0 {
		return json.Marshal(items)
	}
	type alias Phase2
	out := alias(p)
	out.Items = items
	return jsonx.Marshal(out, p.Extra)
}

// UnmarshalJSON accepts an item array or an object. Object members named
// by an index ("0", "6", ...) are line items at that position unless the
// object also carries "items"; other unknown members are kept in Extra.
func (p *Phase2) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var items []LineItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Phase2{Items: items}
		return nil
	}

	type alias Phase2
	var decoded alias
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	extras, err := jsonx.Capture(trimmed, alias{})
	if err != nil {
		return err
	}

	if decoded.Items == nil {
		positional := map[int]LineItem{}
		last := -1
		for k, raw := range extras {
			idx, ok := itemIndex(k)
			if !ok {
				continue
			}
			var item LineItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("phase2 item %s: %w", k, err)
			}
			positional[idx] = item
			last = max(last, idx)
			delete(extras, k)
		}
		if last >= 0 {
			decoded.Items = make([]LineItem, last+1)
			for idx, item := range positional {
				decoded.Items[idx] = item
			}
		}
	}
	if len(extras) == 0 {
		extras = nil
	}
	decoded.Extra = extras
	*p = Phase2(decoded)
	return nil
}

// itemIndex parses a member name written as a non-negative decimal index.
func itemIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= maxPositionalItems {
		return 0, false
	}
	return idx, true
}

// RefinanceInputs are the refinance assumptions entered alongside phase 2.
type RefinanceInputs struct {
	ARV           *jsonx.Number `json:"arv,omitempty"`
	LoanToValue   *jsonx.Number `json:"loanToValue,omitempty"`
	InterestRate  *jsonx.Number `json:"interestRate,omitempty"`
	LoanTermYears *jsonx.Number `json:"loanTermYears,omitempty"`
	ClosingCosts  *jsonx.Number `json:"closingCosts,omitempty"`
	Extra         jsonx.Extras  `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (r RefinanceInputs) MarshalJSON() ([]byte, error) {
	type alias RefinanceInputs
	return jsonx.Marshal(alias(r), r.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RefinanceInputs) UnmarshalJSON(data []byte) error {
	type alias RefinanceInputs
	if err := json.Unmarshal(data, (*alias)(r)); err != nil {
		return err
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	r.Extra = r.Extra.Merge(extras)
	return nil
}

// CashPoint is one labeled point of the cash-needed chart.
type CashPoint struct {
	Label string  `json:"x"`
	Value float64 `json:"y"`
}

// YearReturn is one year of the long-term return projection.
type YearReturn struct {
	Label        string  `json:"x"`
	Equity       float64 `json:"equity"`
	Appreciation float64 `json:"appreciation"`
	NetCashFlow  float64 `json:"netCashFlow"`
	TotalReturn  float64 `json:"totalReturn"`
}

// Projection is the computed result of a finished analysis.
type Projection struct {
	CashNeededOverTime []CashPoint  `json:"cashNeededOverTime"`
	LongTermReturns    []YearReturn `json:"longTermReturns"`
}

func (p *Projection) empty() bool {
	return p == nil || (p.CashNeededOverTime == nil && p.LongTermReturns == nil)
}

// Analyzer is the BRRRR analyzer state embedded in a project.
type Analyzer struct {
	Phase1            []LineItem      `json:"phase1"`
	Phase2            Phase2          `json:"phase2"`
	Phase2Inputs      RefinanceInputs `json:"phase2Inputs"`
	FinancingStrategy string          `json:"financingStrategy"`
	Results           *Projection     `json:"results"`
	Finished          bool            `json:"finished"`
	LastUpdated       *time.Time      `json:"lastUpdated,omitempty"`
	Extra             jsonx.Extras    `json:"-"`
}

// MarshalJSON writes empty collections instead of null and results as {}
// until a projection exists.
func (a Analyzer) MarshalJSON() ([]byte, error) {
	type alias Analyzer
	out := struct {
		alias
		Phase1  []LineItem `json:"phase1"`
		Results any        `json:"results"`
	}{alias: alias(a), Phase1: a.Phase1, Results: struct{}{}}
	if out.Phase1 == nil {
		out.Phase1 = []LineItem{}
	}
	if !a.Results.empty() {
		out.Results = a.Results
	}
	if out.FinancingStrategy == "" {
		out.FinancingStrategy = defaultFinancingStrategy
	}
	return jsonx.Marshal(out, a.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Analyzer) UnmarshalJSON(data []byte) error {
	type alias Analyzer
	if err := json.Unmarshal(data, (*alias)(a)); err != nil {
		return err
	}
	if a.Results.empty() {
		a.Results = nil
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	a.Extra = a.Extra.Merge(extras)
	return nil
}

// Update is a client save of the analyzer. A nil field was absent (or null)
// in the request.
type Update struct {
	Phase1            []LineItem       `json:"phase1"`
	Phase2            *Phase2          `json:"phase2"`
	Phase2Inputs      *RefinanceInputs `json:"phase2Inputs"`
	FinancingStrategy *string          `json:"financingStrategy"`
	Finished          *bool            `json:"finished"`

	// Server-owned; accepted so echoing the state back is harmless.
	Results     json.RawMessage `json:"results"`
	LastUpdated json.RawMessage `json:"lastUpdated"`

	Extra jsonx.Extras `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Update) UnmarshalJSON(data []byte) error {
	type alias Update
	if err := json.Unmarshal(data, (*alias)(u)); err != nil {
		return err
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	u.Extra = u.Extra.Merge(extras)
	return nil
}
