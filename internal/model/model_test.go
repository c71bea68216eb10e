package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/rehabdesk/internal/apperr"
)

func validProject() Project {
	return Project{
		Address1:    "12 Elm St",
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62701",
		Country:     "USA",
		ProjectName: "Elm",
		Strategy:    "BRRRR",
		Stage:       "Acquisition",
	}
}

func TestProjectAddress(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Project)
		expected string
	}{
		{
			name:     "Without second line",
			mutate:   func(*Project) {},
			expected: "12 Elm St, Springfield, IL, 62701, USA",
		},
		{
			name:     "With second line",
			mutate:   func(p *Project) { p.Address2 = "Unit 4" },
			expected: "12 Elm St, Unit 4, Springfield, IL, 62701, USA",
		},
		{
			name:     "Missing state and postal code",
			mutate:   func(p *Project) { p.State, p.PostalCode = "", "" },
			expected: "12 Elm St, Springfield, , , USA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(&p)
			if got := p.Address(); got != tt.expected {
				t.Errorf("Address() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestProjectValidate(t *testing.T) {
	if err := validProject().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := validProject()
	p.City = ""
	p.Stage = " "
	err := p.Validate()
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "city, stage") {
		t.Errorf("error should name the missing fields, got %q", err.Error())
	}
}

func TestProjectMarshalEmptyLists(t *testing.T) {
	p := validProject()
	p.ID = "p1"
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"updates", "photoLog", "incomes", "expenses"} {
		list, ok := generic[key].([]any)
		if !ok || len(list) != 0 {
			t.Errorf("%s = %v, expected []", key, generic[key])
		}
	}
	if generic["_id"] != "p1" {
		t.Errorf("_id = %v, expected p1", generic["_id"])
	}
	if _, ok := generic["location"]; ok {
		t.Error("location should be omitted until geocoded")
	}
	if generic["archived"] != false {
		t.Errorf("archived = %v, expected false", generic["archived"])
	}
}

func TestProjectPatch(t *testing.T) {
	p := validProject()

	tests := []struct {
		name          string
		body          string
		expectAddress bool
	}{
		{"Name only", `{"projectName":"Renamed"}`, false},
		{"Same city", `{"city":"Springfield"}`, false},
		{"Empty city", `{"city":""}`, false},
		{"New city", `{"city":"Shelbyville"}`, true},
		{"New second line", `{"address2":"Unit 9"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch ProjectPatch
			if err := json.Unmarshal([]byte(tt.body), &patch); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := patch.ChangesAddress(p); got != tt.expectAddress {
				t.Errorf("ChangesAddress() = %v, expected %v", got, tt.expectAddress)
			}
		})
	}

	var patch ProjectPatch
	if err := json.Unmarshal([]byte(`{"projectName":"Renamed","archived":true,"budget":{"total":5000,"kitchen":1200}}`), &patch); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	patch.ApplyTo(&p)
	if p.ProjectName != "Renamed" || !p.Archived || p.City != "Springfield" {
		t.Errorf("unexpected patched project: %+v", p)
	}
	if p.Budget.Total.Float() != 5000 || string(p.Budget.Extra["kitchen"]) != "1200" {
		t.Errorf("budget not replaced: %+v", p.Budget)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	input := `{"total":"25000","lines":[{"name":"Roof","amount":8000}]}`
	var b Budget
	if err := json.Unmarshal([]byte(input), &b); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	expected := `{"total":25000,"lines":[{"name":"Roof","amount":8000}]}`
	if string(data) != expected {
		t.Fatalf("Marshal() = %s, expected %s", data, expected)
	}
}

func TestIncomeValidate(t *testing.T) {
	complete := Income{Date: "2025-01-01", Description: "Rent", Type: "rental", Amount: "1500"}
	if err := complete.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	incomplete := complete
	incomplete.Amount = ""
	err := incomplete.Validate()
	if err == nil || err.Error() != "All fields are required." {
		t.Fatalf("expected 'All fields are required.', got %v", err)
	}
}

func TestTaskNormalize(t *testing.T) {
	tests := []struct {
		name      string
		task      Task
		expectErr bool
	}{
		{"Defaults applied", Task{Name: "Order tile", List: "l1"}, false},
		{"Missing list", Task{Name: "Order tile"}, true},
		{"Missing name", Task{List: "l1"}, true},
		{"Bad priority", Task{Name: "x", List: "l1", Priority: "Whenever"}, true},
		{"Bad status", Task{Name: "x", List: "l1", Status: "done"}, true},
		{"Explicit values", Task{Name: "x", List: "l1", Priority: "Urgent", Status: "complete"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			err := task.Normalize()
			if tt.expectErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Priority == "" || task.Status == "" {
				t.Errorf("defaults not applied: %+v", task)
			}
		})
	}

	task := Task{Name: "x", List: "l1"}
	_ = task.Normalize()
	if task.Priority != PriorityNone || task.Status != StatusActive {
		t.Errorf("expected None/active defaults, got %s/%s", task.Priority, task.Status)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("NewID() should return distinct ids, got %q and %q", a, b)
	}
}
