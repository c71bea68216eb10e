package brrrr

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/jsonx"
	"go.uber.org/zap"
)

func valueItem(v float64) LineItem {
	return LineItem{Value: jsonx.NewNumber(v)}
}

// examplePhases is the worked example: equity 100000, 20000 at closing,
// 5000 at stabilization, 150000 refinanced, 1200 a year cash flow, 2 years.
func examplePhases() ([]LineItem, Phase2) {
	phase1 := []LineItem{valueItem(100000), valueItem(20000), {}, {}, valueItem(5000)}
	items := make([]LineItem, 7)
	items[6] = LineItem{PerYear: jsonx.NewNumber(1200)}
	return phase1, Phase2{Items: items, RefiAmount: jsonx.NewNumber(150000), Years: jsonx.NewNumber(2)}
}

func TestComputeProjectionWorkedExample(t *testing.T) {
	phase1, phase2 := examplePhases()

	got := ComputeProjection(phase1, phase2)

	expectedCash := []CashPoint{
		{Label: "Closing", Value: -20000},
		{Label: "Stabilized", Value: -5000},
		{Label: "After Refi", Value: -150000},
	}
	if !reflect.DeepEqual(got.CashNeededOverTime, expectedCash) {
		t.Fatalf("CashNeededOverTime = %+v, expected %+v", got.CashNeededOverTime, expectedCash)
	}

	expectedReturns := []YearReturn{
		{Label: "Year 1", Equity: 100000, Appreciation: 3000, NetCashFlow: 1200, TotalReturn: 104200},
		{Label: "Year 2", Equity: 100000, Appreciation: 9090, NetCashFlow: 2400, TotalReturn: 111490},
	}
	if !reflect.DeepEqual(got.LongTermReturns, expectedReturns) {
		t.Fatalf("LongTermReturns = %+v, expected %+v", got.LongTermReturns, expectedReturns)
	}
}

func TestComputeProjectionHorizon(t *testing.T) {
	phase1, _ := examplePhases()

	tests := []struct {
		name     string
		years    *jsonx.Number
		expected int
	}{
		{"default horizon when absent", nil, 15},
		{"zero years", jsonx.NewNumber(0), 0},
		{"negative years", jsonx.NewNumber(-3), 0},
		{"explicit horizon", jsonx.NewNumber(30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProjection(phase1, Phase2{Years: tt.years})
			if len(got.LongTermReturns) != tt.expected {
				t.Fatalf("expected %d years, got %d", tt.expected, len(got.LongTermReturns))
			}
			if got.LongTermReturns == nil {
				t.Fatal("LongTermReturns must be an empty slice, not nil")
			}
			for i, r := range got.LongTermReturns {
				if want := "Year " + strconv.Itoa(i+1); r.Label != want {
					t.Fatalf("entry %d labeled %q, expected %q", i, r.Label, want)
				}
			}
		})
	}
}

func TestComputeProjectionMissingInputsAreZero(t *testing.T) {
	got := ComputeProjection(nil, Phase2{Years: jsonx.NewNumber(3)})

	if len(got.CashNeededOverTime) != 3 {
		t.Fatalf("expected 3 cash points, got %d", len(got.CashNeededOverTime))
	}
	for _, p := range got.CashNeededOverTime {
		if p.Value != 0 {
			t.Errorf("%s = %v, expected 0", p.Label, p.Value)
		}
	}
	for _, r := range got.LongTermReturns {
		if r.Equity != 0 || r.Appreciation != 0 || r.NetCashFlow != 0 || r.TotalReturn != 0 {
			t.Errorf("expected zero returns, got %+v", r)
		}
	}
}

func TestComputeProjectionCashIsNeverPositive(t *testing.T) {
	phase1 := []LineItem{valueItem(50000), valueItem(-12000), {}, {}, valueItem(8000)}
	phase2 := Phase2{RefiAmount: jsonx.NewNumber(-90000)}

	got := ComputeProjection(phase1, phase2)
	for _, p := range got.CashNeededOverTime {
		if p.Value > 0 {
			t.Errorf("%s = %v, expected a non-positive value", p.Label, p.Value)
		}
	}
	if got.CashNeededOverTime[0].Value != -12000 {
		t.Errorf("Closing = %v, expected -12000", got.CashNeededOverTime[0].Value)
	}
}

func TestComputeProjectionAppreciationNonDecreasing(t *testing.T) {
	phase1 := []LineItem{valueItem(250000)}
	got := ComputeProjection(phase1, Phase2{Years: jsonx.NewNumber(40)})

	for i := 1; i < len(got.LongTermReturns); i++ {
		if got.LongTermReturns[i].Appreciation < got.LongTermReturns[i-1].Appreciation {
			t.Fatalf("appreciation decreased at %s", got.LongTermReturns[i].Label)
		}
	}
}

func TestComputeProjectionKeyedItems(t *testing.T) {
	// Keyed items are found regardless of order.
	phase1 := []LineItem{
		{Key: KeyCashAtStabilization, Value: jsonx.NewNumber(5000)},
		{Key: KeyCashAtClosing, Value: jsonx.NewNumber(20000)},
		{Key: KeyEquity, Value: jsonx.NewNumber(100000)},
	}
	phase2 := Phase2{
		Items:      []LineItem{{Key: KeyCashFlowBeforeDebt, PerYear: jsonx.NewNumber(1200)}},
		RefiAmount: jsonx.NewNumber(150000),
		Years:      jsonx.NewNumber(2),
	}
	keyed := ComputeProjection(phase1, phase2)

	legacy1, legacy2 := examplePhases()
	positional := ComputeProjection(legacy1, legacy2)

	if !reflect.DeepEqual(keyed, positional) {
		t.Fatalf("keyed projection %+v differs from positional %+v", keyed, positional)
	}
}

func TestComputeProjectionKeyedPhaseDoesNotFallBack(t *testing.T) {
	// A keyed phase without a closing item must not read position 1.
	phase1 := []LineItem{
		{Key: KeyEquity, Value: jsonx.NewNumber(100000)},
		{Key: "rehab", Value: jsonx.NewNumber(45000)},
	}
	got := ComputeProjection(phase1, Phase2{Years: jsonx.NewNumber(1)})

	if got.CashNeededOverTime[0].Value != 0 {
		t.Fatalf("Closing = %v, expected 0", got.CashNeededOverTime[0].Value)
	}
}

func decodeUpdate(t *testing.T, body string) Update {
	t.Helper()
	var upd Update
	if err := json.Unmarshal([]byte(body), &upd); err != nil {
		t.Fatalf("failed to decode update: %v", err)
	}
	return upd
}

const finishedExample = `{
	"finished": true,
	"phase1": [{"value":100000},{"value":"20000"},null,null,{"value":5000}],
	"phase2": {"items":[{},{},{},{},{},{},{"perYear":1200}],"refiAmount":150000,"years":2}
}`

func TestApplyComputesWhenFinished(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	next, err := engine.Apply(Analyzer{}, decodeUpdate(t, finishedExample), now)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if next.Results == nil {
		t.Fatal("expected results to be computed")
	}
	if len(next.Results.CashNeededOverTime) != 3 || len(next.Results.LongTermReturns) != 2 {
		t.Fatalf("unexpected results: %+v", next.Results)
	}
	if next.Results.CashNeededOverTime[0].Value != -20000 {
		t.Fatalf("Closing = %v, expected -20000", next.Results.CashNeededOverTime[0].Value)
	}
	if !next.Finished {
		t.Fatal("expected finished to be stored")
	}
	if next.LastUpdated == nil || !next.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %v, expected %v", next.LastUpdated, now)
	}
	if next.FinancingStrategy != "cash" {
		t.Fatalf("FinancingStrategy = %q, expected default cash", next.FinancingStrategy)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	upd := decodeUpdate(t, finishedExample)

	first, err := engine.Apply(Analyzer{}, upd, time.Now())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	second, err := engine.Apply(first, upd, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Fatalf("results changed between identical saves: %+v vs %+v", first.Results, second.Results)
	}
}

func TestApplyPartialSaveKeepsResults(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	stored, err := engine.Apply(Analyzer{}, decodeUpdate(t, finishedExample), time.Now())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tests := []struct {
		name string
		body string
	}{
		{"not finished", `{"finished": false, "phase1": [{"value": 1}], "phase2": []}`},
		{"finished without phase2", `{"finished": true, "phase1": [{"value": 1}]}`},
		{"finished without phase1", `{"finished": true, "phase2": []}`},
		{"only strategy", `{"financingStrategy": "hardMoney"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := engine.Apply(stored, decodeUpdate(t, tt.body), time.Now())
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if !reflect.DeepEqual(next.Results, stored.Results) {
				t.Fatalf("results changed on partial save")
			}
		})
	}
}

func TestApplyFallbackFields(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	prev := Analyzer{
		FinancingStrategy: "loan",
		Phase2Inputs:      RefinanceInputs{LoanToValue: jsonx.NewNumber(75)},
	}

	next, err := engine.Apply(prev, decodeUpdate(t, `{"phase2Inputs": null, "custom": {"a": 1}}`), time.Now())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if next.FinancingStrategy != "loan" {
		t.Errorf("FinancingStrategy = %q, expected stored loan", next.FinancingStrategy)
	}
	if next.Phase2Inputs.LoanToValue.Float() != 75 {
		t.Errorf("Phase2Inputs lost on null update: %+v", next.Phase2Inputs)
	}
	if string(next.Extra["custom"]) != `{"a": 1}` {
		t.Errorf("unknown field not kept: %v", next.Extra)
	}

	next, err = engine.Apply(prev, decodeUpdate(t, `{"phase2Inputs": {"interestRate": 7}, "financingStrategy": "cash"}`), time.Now())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if next.FinancingStrategy != "cash" {
		t.Errorf("FinancingStrategy = %q, expected cash", next.FinancingStrategy)
	}
	if next.Phase2Inputs.LoanToValue != nil || next.Phase2Inputs.InterestRate.Float() != 7 {
		t.Errorf("Phase2Inputs should be replaced wholesale, got %+v", next.Phase2Inputs)
	}
}

func TestApplyRejectsExcessiveHorizon(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 50)

	tests := []struct {
		name  string
		years string
	}{
		{"just above the cap", "51"},
		{"far above the cap", "500"},
		{"beyond the int range", "1e20"},
		{"largest float", "1.7976931348623157e308"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"finished": true, "phase1": [], "phase2": {"items": [], "years": ` + tt.years + `}}`
			prev := Analyzer{FinancingStrategy: "loan"}
			next, err := engine.Apply(prev, decodeUpdate(t, body), time.Now())
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if next.Results != nil || next.FinancingStrategy != "loan" {
				t.Fatalf("rejected save should return the stored state, got %+v", next)
			}
		})
	}

	next, err := engine.Apply(Analyzer{}, decodeUpdate(t, `{"finished": true, "phase1": [], "phase2": {"years": 50}}`), time.Now())
	if err != nil {
		t.Fatalf("a horizon at the cap should be accepted: %v", err)
	}
	if len(next.Results.LongTermReturns) != 50 {
		t.Fatalf("expected 50 years, got %d", len(next.Results.LongTermReturns))
	}
}

func TestHorizon(t *testing.T) {
	tests := []struct {
		name     string
		years    *jsonx.Number
		expected int
	}{
		{"absent", nil, 15},
		{"fractional", jsonx.NewNumber(2.9), 2},
		{"negative", jsonx.NewNumber(-1e20), 0},
		{"huge", jsonx.NewNumber(1e20), math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Phase2{Years: tt.years}).horizon(); got != tt.expected {
				t.Fatalf("horizon() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

// An object phase2 may carry its line items under index keys next to the
// refinance amount and horizon.
func TestApplyIndexedPhase2Object(t *testing.T) {
	engine := NewEngine(zap.NewNop(), 0)
	body := `{
		"finished": true,
		"phase1": [{"value":100000},{"value":20000},{},{},{"value":5000}],
		"phase2": {"refiAmount":150000, "years":2, "6":{"perYear":1200}}
	}`

	next, err := engine.Apply(Analyzer{}, decodeUpdate(t, body), time.Now())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	returns := next.Results.LongTermReturns
	if len(returns) != 2 {
		t.Fatalf("expected 2 years, got %d", len(returns))
	}
	if returns[0].NetCashFlow != 1200 || returns[1].NetCashFlow != 2400 {
		t.Errorf("net cash flow = %v, %v, expected 1200, 2400", returns[0].NetCashFlow, returns[1].NetCashFlow)
	}
	if returns[0].TotalReturn != 104200 || returns[1].TotalReturn != 111490 {
		t.Errorf("total return = %v, %v, expected 104200, 111490", returns[0].TotalReturn, returns[1].TotalReturn)
	}

	data, err := json.Marshal(next)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var stored Analyzer
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(stored.Phase2.Items) != 7 || stored.Phase2.Items[6].PerYear.Float() != 1200 {
		t.Fatalf("stored phase2 lost the indexed item: %s", data)
	}
}

func TestPhase2ObjectMembers(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		items      int
		extraKeys  []string
		perYearAt6 float64
	}{
		{
			name:       "indexed items",
			body:       `{"years":2,"0":{"value":1},"6":{"perYear":1200}}`,
			items:      7,
			perYearAt6: 1200,
		},
		{
			name:      "items array wins over index keys",
			body:      `{"items":[{"value":1}],"6":{"perYear":1200}}`,
			items:     1,
			extraKeys: []string{"6"},
		},
		{
			name:      "non-index keys are kept",
			body:      `{"years":2,"note":"draft","06":{"value":1},"-1":{},"999":{}}`,
			extraKeys: []string{"-1", "06", "999", "note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Phase2
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(p.Items) != tt.items {
				t.Fatalf("len(Items) = %d, expected %d", len(p.Items), tt.items)
			}
			if tt.perYearAt6 != 0 && p.Items[6].PerYear.Float() != tt.perYearAt6 {
				t.Errorf("Items[6].PerYear = %v", p.Items[6].PerYear.Float())
			}
			var keys []string
			for k := range p.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if !reflect.DeepEqual(keys, tt.extraKeys) {
				t.Fatalf("extra keys = %v, expected %v", keys, tt.extraKeys)
			}

			data, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var again Phase2
			if err := json.Unmarshal(data, &again); err != nil {
				t.Fatalf("re-Unmarshal() error = %v", err)
			}
			if len(again.Items) != tt.items || len(again.Extra) != len(tt.extraKeys) {
				t.Fatalf("round trip changed phase2: %s", data)
			}
		})
	}
}

func TestPhase2RejectsMalformedIndexedItem(t *testing.T) {
	var p Phase2
	if err := json.Unmarshal([]byte(`{"6":{"perYear":{}}}`), &p); err == nil {
		t.Fatal("expected an error for a malformed indexed item")
	}
}

func TestAnalyzerJSONRoundTrip(t *testing.T) {
	var empty Analyzer
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if results, ok := generic["results"].(map[string]any); !ok || len(results) != 0 {
		t.Errorf("results = %v, expected {}", generic["results"])
	}
	if phase1, ok := generic["phase1"].([]any); !ok || len(phase1) != 0 {
		t.Errorf("phase1 = %v, expected []", generic["phase1"])
	}
	if generic["financingStrategy"] != "cash" {
		t.Errorf("financingStrategy = %v, expected cash", generic["financingStrategy"])
	}

	var decoded Analyzer
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Results != nil {
		t.Errorf("empty results should decode to nil, got %+v", decoded.Results)
	}
}

func TestPhase2WireShapes(t *testing.T) {
	var fromArray Phase2
	if err := json.Unmarshal([]byte(`[{"label":"Rent","perMonth":"1500"}]`), &fromArray); err != nil {
		t.Fatalf("array form: %v", err)
	}
	if len(fromArray.Items) != 1 || fromArray.Items[0].PerMonth.Float() != 1500 {
		t.Fatalf("unexpected array decode: %+v", fromArray)
	}
	data, err := json.Marshal(fromArray)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if data[0] != '[' {
		t.Fatalf("phase2 without scalars should encode as an array, got %s", data)
	}

	var fromObject Phase2
	if err := json.Unmarshal([]byte(`{"items":[],"refiAmount":1000,"years":"5"}`), &fromObject); err != nil {
		t.Fatalf("object form: %v", err)
	}
	if fromObject.RefiAmount.Float() != 1000 || fromObject.horizon() != 5 {
		t.Fatalf("unexpected object decode: %+v", fromObject)
	}
	data, err = json.Marshal(fromObject)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if data[0] != '{' {
		t.Fatalf("phase2 with scalars should encode as an object, got %s", data)
	}
}

func TestLineItemKeepsUnknownFields(t *testing.T) {
	var li LineItem
	if err := json.Unmarshal([]byte(`{"label":"Taxes","value":300,"editable":true}`), &li); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	data, err := json.Marshal(li)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"label":"Taxes","value":300,"editable":true}` {
		t.Fatalf("round trip = %s", data)
	}
}

func TestRefinanceInputs(t *testing.T) {
	if _, ok := (RefinanceInputs{ARV: jsonx.NewNumber(200000)}).Refinance(); ok {
		t.Fatal("expected no refinance without loan-to-value")
	}

	refi, ok := RefinanceInputs{
		ARV:           jsonx.NewNumber(200000),
		LoanToValue:   jsonx.NewNumber(75),
		InterestRate:  jsonx.NewNumber(6),
		LoanTermYears: jsonx.NewNumber(30),
	}.Refinance()
	if !ok {
		t.Fatal("expected refinance to be sized")
	}
	if refi.LoanAmount != 150000 {
		t.Fatalf("LoanAmount = %v, expected 150000", refi.LoanAmount)
	}
}
