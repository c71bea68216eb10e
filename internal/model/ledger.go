package model

import (
	"strings"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/jsonx"
	"github.com/iwvelando/rehabdesk/pkg/validation"
)

// Expense is one line of a project's expense ledger. Amounts are kept as
// entered.
type Expense struct {
	ID          string     `json:"_id"`
	Date        string     `json:"date,omitempty"`
	InvoiceNo   jsonx.Text `json:"invoiceNo,omitempty"`
	Description string     `json:"description,omitempty"`
	Account     string     `json:"account,omitempty"`
	Company     string     `json:"company,omitempty"`
	Category    string     `json:"category,omitempty"`
	ClassName   string     `json:"className,omitempty"`
	Amount      jsonx.Text `json:"amount,omitempty"`
	Tax         jsonx.Text `json:"tax,omitempty"`
	File        string     `json:"file,omitempty"`
}

// Income is one line of a project's income ledger.
type Income struct {
	ID          string     `json:"_id"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Amount      jsonx.Text `json:"amount"`
}

// Validate checks that every income field is filled in.
func (i Income) Validate() error {
	missing := validation.MissingFields(
		validation.Required("date", i.Date),
		validation.Required("description", i.Description),
		validation.Required("type", i.Type),
		validation.Required("amount", string(i.Amount)),
	)
	if len(missing) > 0 {
		return apperr.Validation("All fields are required.")
	}
	return nil
}

// Account is a ledger account of a project.
type Account struct {
	Meta
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
}

// OwnerID scopes accounts to their project.
func (a *Account) OwnerID() string { return a.ProjectID }

// Validate checks required fields.
func (a Account) Validate() error {
	return requireFields(
		validation.Required("name", a.Name),
		validation.Required("projectId", a.ProjectID),
	)
}

// Company is a vendor or contractor attached to a project.
type Company struct {
	Meta
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     jsonx.Text `json:"phone,omitempty"`
	Label     string     `json:"label,omitempty"`
	Rating    jsonx.Text `json:"rating,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	ProjectID string     `json:"projectId"`
}

// OwnerID scopes companies to their project.
func (c *Company) OwnerID() string { return c.ProjectID }

// Validate checks required fields.
func (c Company) Validate() error {
	return requireFields(
		validation.Required("name", c.Name),
		validation.Required("projectId", c.ProjectID),
	)
}

func requireFields(fields ...validation.Field) error {
	if missing := validation.MissingFields(fields...); len(missing) > 0 {
		return apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
