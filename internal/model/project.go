package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/internal/jsonx"
	"github.com/iwvelando/rehabdesk/pkg/validation"
)

// Location is a geocoded coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Update is a dated progress note on a project.
type Update struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	Photos      []string  `json:"photos"`
	DisplayAt   time.Time `json:"displayAt"`
}

// PhotoLogEntry is the metadata of one uploaded photo.
type PhotoLogEntry struct {
	ID             string    `json:"_id"`
	URL            string    `json:"url"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Filename       string    `json:"filename,omitempty"`
	StoredFilename string    `json:"storedFilename,omitempty"`
	OriginalName   string    `json:"originalname,omitempty"`
}

// PropertySpecs describes the physical property.
type PropertySpecs struct {
	PropertyType  string        `json:"propertyType,omitempty"`
	PropertyStyle string        `json:"propertyStyle,omitempty"`
	Basement      string        `json:"basement,omitempty"`
	Parking       string        `json:"parking,omitempty"`
	YearBuilt     jsonx.Text    `json:"yearBuilt,omitempty"`
	NoOfUnits     *jsonx.Number `json:"noOfUnits,omitempty"`
	Stories       *jsonx.Number `json:"stories,omitempty"`
	Rooms         *jsonx.Number `json:"rooms,omitempty"`
	Garages       *jsonx.Number `json:"garages,omitempty"`
	SquareFeet    *jsonx.Number `json:"squareFeet,omitempty"`
	Beds          *jsonx.Number `json:"beds,omitempty"`
	FullBaths     *jsonx.Number `json:"fullBaths,omitempty"`
	HalfBaths     *jsonx.Number `json:"halfBaths,omitempty"`
	LotSize       *jsonx.Number `json:"lotSize,omitempty"`
	LotSizeUnit   string        `json:"lotSizeUnit,omitempty"`
	LotFrontage   *jsonx.Number `json:"lotFrontage,omitempty"`
	LotDepth      *jsonx.Number `json:"lotDepth,omitempty"`
	LandUse       string        `json:"landUse,omitempty"`
}

// OwnerData holds lead information about the current owner.
type OwnerData struct {
	LeadTemperature string `json:"leadTemperature,omitempty"`
	LeadSource      string `json:"leadSource,omitempty"`
	LeadNotes       string `json:"leadNotes,omitempty"`
}

// Budget is the project budget. Only the headline figures are modelled;
// the rest of the client's budget document is kept as is.
type Budget struct {
	Total       *jsonx.Number `json:"total,omitempty"`
	Contingency *jsonx.Number `json:"contingency,omitempty"`
	Extra       jsonx.Extras  `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (b Budget) MarshalJSON() ([]byte, error) {
	type alias Budget
	return jsonx.Marshal(alias(b), b.Extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Budget) UnmarshalJSON(data []byte) error {
	type alias Budget
	if err := json.Unmarshal(data, (*alias)(b)); err != nil {
		return err
	}
	extras, err := jsonx.Capture(data, alias{})
	if err != nil {
		return err
	}
	b.Extra = b.Extra.Merge(extras)
	return nil
}

// Project is the aggregate root. Analyzer state, updates, photos and the
// expense and income ledgers live inside it.
type Project struct {
	Meta

	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Country     string `json:"country"`
	ProjectName string `json:"projectName"`
	Strategy    string `json:"strategy"`
	Stage       string `json:"stage"`
	Archived    bool   `json:"archived"`

	Location *Location `json:"location,omitempty"`

	Updates       []Update        `json:"updates"`
	PhotoLog      []PhotoLogEntry `json:"photoLog"`
	PropertySpecs PropertySpecs   `json:"propertySpecs"`
	OwnerData     OwnerData       `json:"ownerData"`
	Budget        Budget          `json:"budget"`
	Incomes       []Income        `json:"incomes"`
	Expenses      []Expense       `json:"expenses"`

	FlipAnalyzer  flip.Analyzer  `json:"flipAnalyzer"`
	BrrrrAnalyzer brrrr.Analyzer `json:"brrrrAnalyzer"`
}

// MarshalJSON writes empty lists instead of null.
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	out := alias(p)
	if out.Updates == nil {
		out.Updates = []Update{}
	}
	if out.PhotoLog == nil {
		out.PhotoLog = []PhotoLogEntry{}
	}
	if out.Incomes == nil {
		out.Incomes = []Income{}
	}
	if out.Expenses == nil {
		out.Expenses = []Expense{}
	}
	return json.Marshal(out)
}

// Address composes the single-line address sent to the geocoder.
func (p Project) Address() string {
	var b strings.Builder
	b.WriteString(p.Address1)
	b.WriteString(", ")
	if p.Address2 != "" {
		b.WriteString(p.Address2)
		b.WriteString(", ")
	}
	b.WriteString(p.City)
	b.WriteString(", ")
	b.WriteString(p.State)
	b.WriteString(", ")
	b.WriteString(p.PostalCode)
	b.WriteString(", ")
	b.WriteString(p.Country)
	return b.String()
}

// Validate checks the fields a project cannot be created without.
func (p Project) Validate() error {
	missing := validation.MissingFields(
		validation.Required("address1", p.Address1),
		validation.Required("city", p.City),
		validation.Required("country", p.Country),
		validation.Required("projectName", p.ProjectName),
		validation.Required("strategy", p.Strategy),
		validation.Required("stage", p.Stage),
	)
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ProjectPatch is a partial project update. A nil field was absent.
type ProjectPatch struct {
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postalCode"`
	Country     *string `json:"country"`
	ProjectName *string `json:"projectName"`
	Strategy    *string `json:"strategy"`
	Stage       *string `json:"stage"`
	Archived    *bool   `json:"archived"`

	PropertySpecs *PropertySpecs `json:"propertySpecs"`
	OwnerData     *OwnerData     `json:"ownerData"`
	Budget        *Budget        `json:"budget"`
}

// ChangesAddress reports whether the patch sets any address field to a
// non-empty value different from p's.
func (patch ProjectPatch) ChangesAddress(p Project) bool {
	changed := func(v *string, current string) bool {
		return v != nil && *v != "" && *v != current
	}
	return changed(patch.Address1, p.Address1) ||
		changed(patch.Address2, p.Address2) ||
		changed(patch.City, p.City) ||
		changed(patch.State, p.State) ||
		changed(patch.PostalCode, p.PostalCode) ||
		changed(patch.Country, p.Country)
}

// ApplyTo copies the present fields onto p.
func (patch ProjectPatch) ApplyTo(p *Project) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Address1, patch.Address1)
	set(&p.Address2, patch.Address2)
	set(&p.City, patch.City)
	set(&p.State, patch.State)
	set(&p.PostalCode, patch.PostalCode)
	set(&p.Country, patch.Country)
	set(&p.ProjectName, patch.ProjectName)
	set(&p.Strategy, patch.Strategy)
	set(&p.Stage, patch.Stage)
	if patch.Archived != nil {
		p.Archived = *patch.Archived
	}
	if patch.PropertySpecs != nil {
		p.PropertySpecs = *patch.PropertySpecs
	}
	if patch.OwnerData != nil {
		p.OwnerData = *patch.OwnerData
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}
}

// FindUpdate returns the index of the update with id, or -1.
func (p *Project) FindUpdate(id string) int {
	for i := range p.Updates {
		if p.Updates[i].ID == id {
			return i
		}
	}
	return -1
}

// FindPhoto returns the index of the photo log entry with id, or -1.
func (p *Project) FindPhoto(id string) int {
	for i := range p.PhotoLog {
		if p.PhotoLog[i].ID == id {
			return i
		}
	}
	return -1
}

// FindExpense returns the index of the expense with id, or -1.
func (p *Project) FindExpense(id string) int {
	for i := range p.Expenses {
		if p.Expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// FindIncome returns the index of the income with id, or -1.
func (p *Project) FindIncome(id string) int {
	for i := range p.Incomes {
		if p.Incomes[i].ID == id {
			return i
		}
	}
	return -1
}
