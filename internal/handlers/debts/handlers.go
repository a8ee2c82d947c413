// Package debts serves the debt and budget endpoints.
package debts

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "debtplan/internal/http"
	"debtplan/internal/models"
	debtsvc "debtplan/internal/services/debts"
	"debtplan/internal/services/storage"
)

var manager *debtsvc.Manager

// Initialize sets up the debts package with required dependencies
func Initialize(m *debtsvc.Manager) {
	manager = m
}

// RegisterRoutes registers the debt and budget routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/debts", handleList)
	r.Post("/api/debts", handleAdd)
	r.Get("/api/debts/{id}", handleGet)
	r.Put("/api/debts/{id}", handleUpdate)
	r.Delete("/api/debts/{id}", handleDelete)

	r.Get("/api/budget", handleGetBudget)
	r.Put("/api/budget", handlePutBudget)
}

func handleList(w http.ResponseWriter, r *http.Request) {
	all, err := manager.List()
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.OK(w, all)
}

func handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.OK(w, d)
}

func handleAdd(w http.ResponseWriter, r *http.Request) {
	var d models.Debt
	if err := httputil.DecodeJSON(r, &d); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := d.Validate(); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := manager.Add(d)
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, added)
}

func handleUpdate(w http.ResponseWriter, r *http.Request) {
	var d models.Debt
	if err := httputil.DecodeJSON(r, &d); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := d.Validate(); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := manager.Update(d)
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.OK(w, updated)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := manager.Remove(chi.URLParam(r, "id")); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleGetBudget(w http.ResponseWriter, r *http.Request) {
	settings, err := manager.LoadBudget()
	if err != nil {
		storeError(w, err)
		return
	}
	httputil.OK(w, settings)
}

func handlePutBudget(w http.ResponseWriter, r *http.Request) {
	var settings models.BudgetSettings
	if err := httputil.DecodeJSON(r, &settings); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := settings.Validate(); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := manager.SaveBudget(&settings); err != nil {
		storeError(w, err)
		return
	}
	httputil.OK(w, settings)
}

// storeError maps repository errors onto status codes
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, debtsvc.ErrNotFound):
		httputil.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, debtsvc.ErrDuplicate):
		httputil.ErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrLocked):
		httputil.ErrorResponse(w, "storage is locked; unlock it first", http.StatusLocked)
	default:
		httputil.ErrorResponse(w, "failed to access debt data: "+err.Error(), http.StatusInternalServerError)
	}
}
