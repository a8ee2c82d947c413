// Package plan serves payoff simulations over stored or ad-hoc debts.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "debtplan/internal/http"
	"debtplan/internal/models"
	debtsvc "debtplan/internal/services/debts"
	"debtplan/internal/services/payoff"
	"debtplan/internal/services/plancache"
	"debtplan/internal/services/storage"
)

var (
	manager *debtsvc.Manager
	cache   plancache.Cache
	debug   bool
)

// Initialize sets up the plan package with required dependencies.
// With debugMode set, every plan cache lookup is logged.
func Initialize(m *debtsvc.Manager, c plancache.Cache, debugMode bool) {
	manager = m
	cache = c
	debug = debugMode
}

// RegisterRoutes registers the plan routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/plan", handleStoredPlan)
	r.Post("/api/plan", handleAdHocPlan)
	r.Get("/api/plan/compare", handleStoredCompare)
	r.Post("/api/plan/compare", handleAdHocCompare)
	r.Post("/api/plan/apply", handleApply)
}

// scenario is one set of simulation inputs
type scenario struct {
	debts    []models.Debt
	budget   float64
	strategy models.Strategy
	income   float64
}

// storedScenario builds inputs from the repository; a non-empty override replaces the saved strategy
func storedScenario(override string) (*scenario, error) {
	settings, err := manager.LoadBudget()
	if err != nil {
		return nil, err
	}
	debts, err := manager.SimulationDebts()
	if err != nil {
		return nil, err
	}

	strategy, err := models.ParseStrategy(string(settings.Strategy))
	if err != nil {
		return nil, fmt.Errorf("saved budget settings: %w", err)
	}
	if override != "" {
		if strategy, err = models.ParseStrategy(override); err != nil {
			return nil, badRequest{err}
		}
	}

	return &scenario{
		debts:    debts,
		budget:   settings.MonthlyBudget(),
		strategy: strategy,
		income:   settings.MonthlyIncome,
	}, nil
}

func requestScenario(r *http.Request) (*scenario, error) {
	var req models.PlanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		return nil, badRequest{err}
	}
	if req.Strategy == "" {
		req.Strategy = models.Avalanche
	}
	if err := req.Validate(); err != nil {
		return nil, badRequest{err}
	}
	strategy, _ := models.ParseStrategy(string(req.Strategy))

	return &scenario{
		debts:    req.Debts,
		budget:   req.MonthlyBudget,
		strategy: strategy,
		income:   req.MonthlyIncome,
	}, nil
}

// simulate runs the scenario, going through the plan cache
func simulate(ctx context.Context, s *scenario) *models.PaymentPlanDetail {
	key := plancache.Key(s.debts, s.budget, s.strategy, s.income)
	if cached, ok := cache.Get(ctx, key); ok {
		if debug {
			log.Printf("Debug: plan cache hit %s (%s)", key, s.strategy)
		}
		return cached
	}
	if debug {
		log.Printf("Debug: plan cache miss %s (%s, %d debts)", key, s.strategy, len(s.debts))
	}

	plan := payoff.Simulate(s.debts, s.budget, s.strategy, s.income)
	if err := cache.Set(ctx, key, &plan); err != nil {
		log.Printf("Warning: could not cache plan: %v", err)
	}
	return &plan
}

func handleStoredPlan(w http.ResponseWriter, r *http.Request) {
	s, err := storedScenario(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, simulate(r.Context(), s))
}

func handleAdHocPlan(w http.ResponseWriter, r *http.Request) {
	s, err := requestScenario(r)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, simulate(r.Context(), s))
}

func handleStoredCompare(w http.ResponseWriter, r *http.Request) {
	s, err := storedScenario("")
	if err != nil {
		writeError(w, err)
		return
	}
	compare(w, r, s)
}

func handleAdHocCompare(w http.ResponseWriter, r *http.Request) {
	s, err := requestScenario(r)
	if err != nil {
		writeError(w, err)
		return
	}
	compare(w, r, s)
}

func compare(w http.ResponseWriter, r *http.Request, s *scenario) {
	result, err := payoff.CompareStrategies(r.Context(), s.debts, s.budget, s.income)
	if err != nil {
		writeError(w, err)
		return
	}

	// Full schedules are only sent when asked for
	if r.URL.Query().Get("detail") != "true" {
		for i := range result.Results {
			result.Results[i].Plan = nil
		}
	}
	httputil.OK(w, result)
}

// applyResponse reports what recording a month changed
type applyResponse struct {
	Month   int      `json:"month"`
	PaidOff []string `json:"paidOff"`
}

func handleApply(w http.ResponseWriter, r *http.Request) {
	month, err := httputil.QueryInt(r, "month", 1)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := storedScenario(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, err)
		return
	}
	plan := simulate(r.Context(), s)
	if plan.Months == 0 {
		httputil.ErrorResponse(w, "no open debts to apply a plan to", http.StatusBadRequest)
		return
	}
	if month < 1 || month > plan.Months {
		httputil.ErrorResponse(w, fmt.Sprintf("month must be between 1 and %d", plan.Months), http.StatusBadRequest)
		return
	}

	paid, err := manager.ApplyMonth(plan, month)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, applyResponse{Month: month, PaidOff: paid})
}

// badRequest marks errors caused by client input
type badRequest struct{ error }

func (b badRequest) Unwrap() error { return b.error }

func writeError(w http.ResponseWriter, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrLocked):
		httputil.ErrorResponse(w, "storage is locked; unlock it first", http.StatusLocked)
	case errors.Is(err, context.Canceled):
		httputil.ErrorResponse(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		httputil.ErrorResponse(w, "failed to build plan: "+err.Error(), http.StatusInternalServerError)
	}
}
