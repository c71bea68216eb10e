package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/iwvelando/rehabdesk/internal/apperr"
	"github.com/iwvelando/rehabdesk/internal/model"
	"github.com/iwvelando/rehabdesk/internal/store"
	"github.com/iwvelando/rehabdesk/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService manages a project's expenses and incomes along with its
// accounts and companies.
type LedgerService struct {
	projects  *ProjectService
	accounts  *store.Collection[model.Account, *model.Account]
	companies *store.Collection[model.Company, *model.Company]
	logger    *zap.Logger
}

// Expenses returns the project's expenses.
func (s *LedgerService) Expenses(ctx context.Context, projectID string) ([]model.Expense, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Expenses == nil {
		return []model.Expense{}, nil
	}
	return p.Expenses, nil
}

// AddExpense appends an expense under a new id.
func (s *LedgerService) AddExpense(ctx context.Context, projectID string, e model.Expense) (model.Expense, error) {
	e.ID = model.NewID()
	_, err := s.projects.mutate(ctx, projectID, "service.AddExpense", func(p *model.Project) error {
		p.Expenses = append(p.Expenses, e)
		return nil
	})
	if err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// UpdateExpense merges the JSON object body into an expense.
func (s *LedgerService) UpdateExpense(ctx context.Context, projectID, expenseID string, body []byte) (model.Expense, error) {
	var updated model.Expense
	_, err := s.projects.mutate(ctx, projectID, "service.UpdateExpense", func(p *model.Project) error {
		idx := p.FindExpense(expenseID)
		if idx < 0 {
			return apperr.NotFound("Expense")
		}
		e := p.Expenses[idx]
		if err := json.Unmarshal(body, &e); err != nil {
			return apperr.Wrap(apperr.CodeValidation, "invalid expense: "+err.Error(), err)
		}
		e.ID = expenseID
		p.Expenses[idx] = e
		updated = e
		return nil
	})
	return updated, err
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, projectID, expenseID string) error {
	_, err := s.projects.mutate(ctx, projectID, "service.DeleteExpense", func(p *model.Project) error {
		idx := p.FindExpense(expenseID)
		if idx < 0 {
			return apperr.NotFound("Expense")
		}
		p.Expenses = slices.Delete(p.Expenses, idx, idx+1)
		return nil
	})
	return err
}

// Incomes returns the project's incomes.
func (s *LedgerService) Incomes(ctx context.Context, projectID string) ([]model.Income, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Incomes == nil {
		return []model.Income{}, nil
	}
	return p.Incomes, nil
}

// AddIncome validates and appends an income under a new id.
func (s *LedgerService) AddIncome(ctx context.Context, projectID string, in model.Income) (model.Income, error) {
	in.ID = model.NewID()
	_, err := s.projects.mutate(ctx, projectID, "service.AddIncome", func(p *model.Project) error {
		if err := in.Validate(); err != nil {
			return err
		}
		p.Incomes = append(p.Incomes, in)
		return nil
	})
	if err != nil {
		return model.Income{}, err
	}
	return in, nil
}

// UpdateIncome merges the JSON object body into an income.
func (s *LedgerService) UpdateIncome(ctx context.Context, projectID, incomeID string, body []byte) (model.Income, error) {
	var updated model.Income
	_, err := s.projects.mutate(ctx, projectID, "service.UpdateIncome", func(p *model.Project) error {
		idx := p.FindIncome(incomeID)
		if idx < 0 {
			return apperr.NotFound("Income")
		}
		in := p.Incomes[idx]
		if err := json.Unmarshal(body, &in); err != nil {
			return apperr.Wrap(apperr.CodeValidation, "invalid income: "+err.Error(), err)
		}
		in.ID = incomeID
		p.Incomes[idx] = in
		updated = in
		return nil
	})
	return updated, err
}

// DeleteIncome removes an income.
func (s *LedgerService) DeleteIncome(ctx context.Context, projectID, incomeID string) error {
	_, err := s.projects.mutate(ctx, projectID, "service.DeleteIncome", func(p *model.Project) error {
		idx := p.FindIncome(incomeID)
		if idx < 0 {
			return apperr.NotFound("Income")
		}
		p.Incomes = slices.Delete(p.Incomes, idx, idx+1)
		return nil
	})
	return err
}

// Summary totals a project's ledger.
type Summary struct {
	Expenses     decimal.Decimal `json:"expenses"`
	Tax          decimal.Decimal `json:"tax"`
	Incomes      decimal.Decimal `json:"incomes"`
	Net          decimal.Decimal `json:"net"`
	ExpenseCount int             `json:"expenseCount"`
	IncomeCount  int             `json:"incomeCount"`
	Skipped      int             `json:"skipped"`
}

// Summarize totals the project's expenses, taxes and incomes. Amounts that
// do not parse are counted in Skipped.
func (s *LedgerService) Summarize(ctx context.Context, projectID string) (Summary, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(p.Expenses, p.Incomes), nil
}

func summarize(expenses []model.Expense, incomes []model.Income) Summary {
	var spent, tax, earned money.Total
	for _, e := range expenses {
		spent.Add(string(e.Amount))
		tax.Add(string(e.Tax))
	}
	for _, in := range incomes {
		earned.Add(string(in.Amount))
	}

	return Summary{
		Expenses:     spent.Sum.Round(2),
		Tax:          tax.Sum.Round(2),
		Incomes:      earned.Sum.Round(2),
		Net:          earned.Sum.Sub(spent.Sum).Sub(tax.Sum).Round(2),
		ExpenseCount: len(expenses),
		IncomeCount:  len(incomes),
		Skipped:      spent.Skipped + tax.Skipped + earned.Skipped,
	}
}

// Accounts returns the project's accounts.
func (s *LedgerService) Accounts(ctx context.Context, projectID string) ([]model.Account, error) {
	accounts, err := s.accounts.List(ctx, projectID)
	if err != nil {
		return nil, storeError(s.logger, "service.ListAccounts", "Account", err)
	}
	return accounts, nil
}

// CreateAccount adds an account to the project.
func (s *LedgerService) CreateAccount(ctx context.Context, projectID string, a model.Account) (*model.Account, error) {
	const op = "service.CreateAccount"
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	a.Meta = model.Meta{}
	a.ProjectID = projectID
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Insert(ctx, &a); err != nil {
		return nil, storeError(s.logger, op, "Account", err)
	}
	return &a, nil
}

// UpdateAccount merges the JSON object body into an account of the project.
func (s *LedgerService) UpdateAccount(ctx context.Context, projectID, accountID string, body []byte) (*model.Account, error) {
	const op = "service.UpdateAccount"
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil || a.ProjectID != projectID {
		return nil, ownedLookupError(s.logger, op, "Account", err)
	}
	meta := a.Meta
	if err := json.Unmarshal(body, a); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "invalid account: "+err.Error(), err)
	}
	a.Meta, a.ProjectID = meta, projectID
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Replace(ctx, a); err != nil {
		return nil, storeError(s.logger, op, "Account", err)
	}
	return a, nil
}

// DeleteAccount removes an account of the project. Deleting an unknown
// account succeeds.
func (s *LedgerService) DeleteAccount(ctx context.Context, projectID, accountID string) error {
	const op = "service.DeleteAccount"
	a, err := s.accounts.Get(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && a.ProjectID != projectID) {
		return nil
	}
	if err != nil {
		return storeError(s.logger, op, "Account", err)
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeError(s.logger, op, "Account", err)
	}
	return nil
}

// Companies returns the project's companies.
func (s *LedgerService) Companies(ctx context.Context, projectID string) ([]model.Company, error) {
	companies, err := s.companies.List(ctx, projectID)
	if err != nil {
		return nil, storeError(s.logger, "service.ListCompanies", "Company", err)
	}
	return companies, nil
}

// CreateCompany adds a company to the project.
func (s *LedgerService) CreateCompany(ctx context.Context, projectID string, c model.Company) (*model.Company, error) {
	const op = "service.CreateCompany"
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	c.Meta = model.Meta{}
	c.ProjectID = projectID
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.companies.Insert(ctx, &c); err != nil {
		return nil, storeError(s.logger, op, "Company", err)
	}
	return &c, nil
}

// UpdateCompany merges the JSON object body into a company of the project.
func (s *LedgerService) UpdateCompany(ctx context.Context, projectID, companyID string, body []byte) (*model.Company, error) {
	const op = "service.UpdateCompany"
	c, err := s.companies.Get(ctx, companyID)
	if err != nil || c.ProjectID != projectID {
		return nil, ownedLookupError(s.logger, op, "Company", err)
	}
	meta := c.Meta
	if err := json.Unmarshal(body, c); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, "invalid company: "+err.Error(), err)
	}
	c.Meta, c.ProjectID = meta, projectID
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.companies.Replace(ctx, c); err != nil {
		return nil, storeError(s.logger, op, "Company", err)
	}
	return c, nil
}

// DeleteCompany removes a company of the project. Deleting an unknown
// company succeeds.
func (s *LedgerService) DeleteCompany(ctx context.Context, projectID, companyID string) error {
	const op = "service.DeleteCompany"
	c, err := s.companies.Get(ctx, companyID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && c.ProjectID != projectID) {
		return nil
	}
	if err != nil {
		return storeError(s.logger, op, "Company", err)
	}
	if err := s.companies.Delete(ctx, companyID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeError(s.logger, op, "Company", err)
	}
	return nil
}

// ownedLookupError reports a document that is missing or belongs to
// another project as not found.
func ownedLookupError(logger *zap.Logger, op, entity string, err error) error {
	if err == nil || errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return storeError(logger, op, entity, err)
}
