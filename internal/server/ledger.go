package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/rehabdesk/internal/model"
)

func (h *handler) ledgerRoutes(r chi.Router) {
	r.Get("/summary/{projectId}", h.handleSummary)

	r.Get("/incomes/{projectId}", h.handleListIncomes)
	r.Post("/incomes/{projectId}", h.handleAddIncome)
	r.Put("/incomes/{projectId}/{incomeId}", h.handleUpdateIncome)
	r.Delete("/incomes/{projectId}/{incomeId}", h.handleDeleteIncome)

	r.Get("/accounts/{projectId}", h.handleListAccounts)
	r.Post("/accounts/{projectId}", h.handleCreateAccount)
	r.Put("/accounts/{projectId}/{accountId}", h.handleUpdateAccount)
	r.Delete("/accounts/{projectId}/{accountId}", h.handleDeleteAccount)

	r.Get("/companies/{projectId}", h.handleListCompanies)
	r.Post("/companies/{projectId}", h.handleCreateCompany)
	r.Put("/companies/{projectId}/{companyId}", h.handleUpdateCompany)
	r.Delete("/companies/{projectId}/{companyId}", h.handleDeleteCompany)

	r.Get("/{projectId}", h.handleListExpenses)
	r.Post("/{projectId}", h.handleAddExpense)
	r.Put("/{projectId}/{expenseId}", h.handleUpdateExpense)
	r.Delete("/{projectId}/{expenseId}", h.handleDeleteExpense)
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Ledger.Summarize(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.respond(w, err, "server.handleSummary")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.Ledger.Expenses(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.respond(w, err, "server.handleListExpenses")
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

func (h *handler) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddExpense"
	var e model.Expense
	if err := h.decodeJSON(w, r, &e); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Ledger.AddExpense(r.Context(), chi.URLParam(r, "projectId"), e)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateExpense"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	e, err := h.svc.Ledger.UpdateExpense(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "expenseId"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

func (h *handler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.DeleteExpense(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "expenseId")); err != nil {
		h.respond(w, err, "server.handleDeleteExpense")
		return
	}
	h.writeSuccess(w)
}

func (h *handler) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.svc.Ledger.Incomes(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.respond(w, err, "server.handleListIncomes")
		return
	}
	h.writeJSON(w, http.StatusOK, incomes)
}

func (h *handler) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddIncome"
	var in model.Income
	if err := h.decodeJSON(w, r, &in); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Ledger.AddIncome(r.Context(), chi.URLParam(r, "projectId"), in)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateIncome"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	in, err := h.svc.Ledger.UpdateIncome(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "incomeId"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, in)
}

func (h *handler) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.DeleteIncome(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "incomeId")); err != nil {
		h.respond(w, err, "server.handleDeleteIncome")
		return
	}
	h.writeSuccess(w)
}

func (h *handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.Ledger.Accounts(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.respond(w, err, "server.handleListAccounts")
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

func (h *handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateAccount"
	var a model.Account
	if err := h.decodeJSON(w, r, &a); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Ledger.CreateAccount(r.Context(), chi.URLParam(r, "projectId"), a)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateAccount"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	a, err := h.svc.Ledger.UpdateAccount(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "accountId"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.DeleteAccount(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "accountId")); err != nil {
		h.respond(w, err, "server.handleDeleteAccount")
		return
	}
	h.writeSuccess(w)
}

func (h *handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.Ledger.Companies(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.respond(w, err, "server.handleListCompanies")
		return
	}
	h.writeJSON(w, http.StatusOK, companies)
}

func (h *handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateCompany"
	var c model.Company
	if err := h.decodeJSON(w, r, &c); err != nil {
		h.respond(w, err, op)
		return
	}
	saved, err := h.svc.Ledger.CreateCompany(r.Context(), chi.URLParam(r, "projectId"), c)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateCompany"
	body, err := h.readBody(w, r)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	c, err := h.svc.Ledger.UpdateCompany(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "companyId"), body)
	if err != nil {
		h.respond(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *handler) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.DeleteCompany(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "companyId")); err != nil {
		h.respond(w, err, "server.handleDeleteCompany")
		return
	}
	h.writeSuccess(w)
}
