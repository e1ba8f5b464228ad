package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/store"
)

// ExpensesHandler handles expense endpoints.
type ExpensesHandler struct {
	DB *sqlx.DB
}

type expenseRequest struct {
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	Category    string   `json:"category"`
	Date        *isoDate `json:"date"`
	Recurring   bool     `json:"recurring"`
	WatchID     *int64   `json:"watchId"`
}

func (req *expenseRequest) validate() error {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return errors.New("description required")
	}
	if req.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if !model.ValidExpenseCategory(req.Category) {
		return fmt.Errorf("category must be one of %s", strings.Join(model.ExpenseCategories, ", "))
	}
	if req.Date == nil || req.Date.IsZero() {
		return errors.New("date required")
	}
	return nil
}

func (req *expenseRequest) apply(e *model.Expense) {
	e.Description = req.Description
	e.Amount = req.Amount
	e.Category = req.Category
	e.Date = req.Date.Time
	e.Recurring = req.Recurring
	e.WatchID = req.WatchID
}

// checkWatch returns a client message when the linked watch does not exist.
func (h *ExpensesHandler) checkWatch(r *http.Request, id *int64) (string, error) {
	if id == nil {
		return "", nil
	}
	watch, err := store.GetWatch(r.Context(), h.DB, *id)
	if err != nil {
		return "", err
	}
	if watch == nil {
		return fmt.Sprintf("watch %d not found", *id), nil
	}
	return "", nil
}

// List handles GET /api/expenses.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := store.ListExpenses(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list expenses", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	jsonResponse(w, http.StatusOK, expenses)
}

// Create handles POST /api/expenses.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.checkWatch(r, req.WatchID)
	if err != nil {
		slog.Error("failed to check watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	var e model.Expense
	req.apply(&e)

	created, err := store.CreateExpense(r.Context(), h.DB, &e)
	if err != nil {
		slog.Error("failed to create expense", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("expense created", "user", claims.Username, "expense", created.ID, "category", created.Category, "amount", created.Amount)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/expenses/{id}.
func (h *ExpensesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	e, err := store.GetExpense(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get expense", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	if e == nil {
		jsonError(w, http.StatusNotFound, "expense not found")
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

// Update handles PUT /api/expenses/{id}.
func (h *ExpensesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.checkWatch(r, req.WatchID)
	if err != nil {
		slog.Error("failed to check watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	e := model.Expense{ID: id}
	req.apply(&e)

	err = store.UpdateExpense(r.Context(), h.DB, &e)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		slog.Error("failed to update expense", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	updated, err := store.GetExpense(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		slog.Error("failed to reload expense", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/expenses/{id}.
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	err := store.DeleteExpense(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete expense", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("expense deleted", "user", claims.Username, "expense", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}
