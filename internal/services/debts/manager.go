// Package debts persists the user's debts and budget settings.
package debts

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"debtplan/internal/models"
	"debtplan/internal/services/storage"
)

const (
	debtsFile  = "debts.json"
	budgetFile = "budget.json"
)

var (
	// ErrNotFound is returned when a debt id is not stored
	ErrNotFound = errors.New("debt not found")
	// ErrDuplicate is returned when adding a debt whose id is already stored
	ErrDuplicate = errors.New("debt already exists")
)

// Manager handles persistence of debts and budget settings
type Manager struct {
	store *storage.Storage
	mu    sync.RWMutex
}

// NewManager creates a manager backed by store
func NewManager(store *storage.Storage) *Manager {
	return &Manager{store: store}
}

// List returns every stored debt in insertion order
func (m *Manager) List() ([]models.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.loadInternal()
}

// Get returns one debt by id
func (m *Manager) Get(id string) (*models.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all, err := m.loadInternal()
	if err != nil {
		return nil, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &all[i], nil
}

// Add validates and stores a new debt, assigning an id when it has none
func (m *Manager) Add(d models.Debt) (*models.Debt, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.loadInternal()
	if err != nil {
		return nil, err
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	} else if indexOf(all, d.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, d.ID)
	}
	d.IsPaidOff = false

	all = append(all, d)
	if err := m.saveInternal(all); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update replaces the stored debt with the same id
func (m *Manager) Update(d models.Debt) (*models.Debt, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.loadInternal()
	if err != nil {
		return nil, err
	}
	i := indexOf(all, d.ID)
	if i < 0 {
		return nil, ErrNotFound
	}

	all[i] = d
	if err := m.saveInternal(all); err != nil {
		return nil, err
	}
	return &d, nil
}

// Remove deletes a debt by id
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.loadInternal()
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return ErrNotFound
	}

	return m.saveInternal(append(all[:i], all[i+1:]...))
}

// SimulationDebts returns the stored debts a simulation should include:
// open debts the engine can amortize.
func (m *Manager) SimulationDebts() ([]models.Debt, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}

	open := make([]models.Debt, 0, len(all))
	for _, d := range all {
		if !d.IsPaidOff && d.IsSimulatable() {
			open = append(open, d)
		}
	}
	return open, nil
}

// ApplyMonth records the state of the stored debts after the given month of
// plan. Each debt in the plan takes the balance from its latest payment at or
// before that month; debts that reached zero are marked paid off. It returns
// the ids newly paid off, in payoff order.
func (m *Manager) ApplyMonth(plan *models.PaymentPlanDetail, month int) ([]string, error) {
	if month < 1 || month > len(plan.MonthlyPlans) {
		return nil, fmt.Errorf("month %d is outside the plan (1-%d)", month, len(plan.MonthlyPlans))
	}

	latest := make(map[string]float64)
	for _, mp := range plan.MonthlyPlans[:month] {
		for _, p := range mp.Payments {
			latest[p.DebtID] = p.RemainingBalance
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.loadInternal()
	if err != nil {
		return nil, err
	}

	paidNow := make(map[string]bool)
	for i := range all {
		balance, ok := latest[all[i].ID]
		if !ok {
			continue
		}
		all[i].Balance = balance
		if balance == 0 && !all[i].IsPaidOff {
			all[i].IsPaidOff = true
			paidNow[all[i].ID] = true
		}
	}

	if err := m.saveInternal(all); err != nil {
		return nil, err
	}

	newlyPaid := []string{}
	for _, id := range plan.PaidOffDebtIDs() {
		if paidNow[id] {
			newlyPaid = append(newlyPaid, id)
		}
	}
	return newlyPaid, nil
}

// LoadBudget returns the saved budget settings, or defaults if none are saved
func (m *Manager) LoadBudget() (*models.BudgetSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := models.DefaultBudgetSettings()
	if err := m.store.ReadJSON(budgetFile, settings); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.DefaultBudgetSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// SaveBudget validates and writes the budget settings. The strategy is stored
// in its canonical form and written back to settings.
func (m *Manager) SaveBudget(settings *models.BudgetSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings.Strategy, _ = models.ParseStrategy(string(settings.Strategy))

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.WriteJSON(budgetFile, settings)
}

// loadInternal reads debts without acquiring lock (caller must hold lock)
func (m *Manager) loadInternal() ([]models.Debt, error) {
	all := []models.Debt{}
	if err := m.store.ReadJSON(debtsFile, &all); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Debt{}, nil
		}
		return nil, err
	}
	if all == nil {
		all = []models.Debt{}
	}
	return all, nil
}

// saveInternal writes debts without acquiring lock (caller must hold lock)
func (m *Manager) saveInternal(all []models.Debt) error {
	if all == nil {
		all = []models.Debt{}
	}
	return m.store.WriteJSON(debtsFile, all)
}

func indexOf(all []models.Debt, id string) int {
	for i, d := range all {
		if d.ID == id {
			return i
		}
	}
	return -1
}
