package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// MemoryStore implements Store in memory. It backs `serve --store memory`
// and the tests.
type MemoryStore struct {
	mu sync.RWMutex

	nextID       int64
	accounts     map[int64]api.Account
	categories   map[int64]api.Category
	transactions map[int64]api.Transaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[int64]api.Account),
		categories:   make(map[int64]api.Category),
		transactions: make(map[int64]api.Transaction),
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](rows map[int64]V) []int64 {
	keys := make([]int64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

// Account operations

func (m *MemoryStore) ListAccounts(context.Context) ([]api.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Account, 0, len(m.accounts))
	for _, id := range sortedKeys(m.accounts) {
		out = append(out, m.accounts[id])
	}
	return out, nil
}

func (m *MemoryStore) CreateAccount(_ context.Context, in api.AccountInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.accounts[id] = api.Account{ID: id, Name: in.Name, Type: in.Type, Amount: in.Amount}
	return id, nil
}

func (m *MemoryStore) UpdateAccount(_ context.Context, id int64, in api.AccountInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	m.accounts[id] = api.Account{ID: id, Name: in.Name, Type: in.Type, Amount: in.Amount}
	return nil
}

func (m *MemoryStore) DeleteAccount(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	delete(m.accounts, id)
	for tid, t := range m.transactions {
		if t.AccountID != nil && *t.AccountID == id {
			t.AccountID = nil
			m.transactions[tid] = t
		}
	}
	return nil
}

// Category operations

func (m *MemoryStore) ListCategories(context.Context) ([]api.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Category, 0, len(m.categories))
	for _, id := range sortedKeys(m.categories) {
		out = append(out, m.categories[id])
	}
	return out, nil
}

func (m *MemoryStore) CreateCategory(_ context.Context, in api.CategoryInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.categories[id] = categoryRow(id, in)
	return id, nil
}

func (m *MemoryStore) UpdateCategory(_ context.Context, id int64, in api.CategoryInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	m.categories[id] = categoryRow(id, in)
	return nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	delete(m.categories, id)
	for tid, t := range m.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			m.transactions[tid] = t
		}
	}
	return nil
}

func categoryRow(id int64, in api.CategoryInput) api.Category {
	color := in.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}
	return api.Category{ID: id, Name: in.Name, Type: in.Type, Color: color}
}

// Transaction operations

func (m *MemoryStore) ListTransactions(context.Context) ([]api.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Transaction, 0, len(m.transactions))
	for _, id := range sortedKeys(m.transactions) {
		out = append(out, m.transactions[id])
	}
	return out, nil
}

func (m *MemoryStore) CreateTransaction(_ context.Context, in api.TransactionInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkRefs(in.AccountID, in.CategoryID); err != nil {
		return 0, err
	}
	row := in.Transaction(m.id())
	row.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	m.insert(row)
	return row.ID, nil
}

func (m *MemoryStore) UpdateTransaction(_ context.Context, id int64, in api.TransactionInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err := m.checkRefs(in.AccountID, in.CategoryID); err != nil {
		return err
	}
	next := in.Transaction(id)
	next.CreatedAt = old.CreatedAt
	m.apply(old, next)
	m.transactions[id] = next
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	m.apply(old, api.Transaction{})
	delete(m.transactions, id)
	return nil
}

func (m *MemoryStore) CompleteTransaction(_ context.Context, id int64, in api.CompleteInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.transactions[id]
	if !ok {
		return 0, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if !model.Kind(old.Kind).IsObligation() || old.Completed {
		return 0, fmt.Errorf("transaction %d cannot be completed: %w", id, common.ErrConflict)
	}
	if err := m.checkRefs(in.AccountID, nil); err != nil {
		return 0, err
	}

	done := old
	done.Completed = true
	m.apply(old, done)
	m.transactions[id] = done

	row := settlement(old, in)
	row.ID = m.id()
	row.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	m.insert(row)
	return row.ID, nil
}

func (m *MemoryStore) insert(row api.Transaction) {
	m.apply(api.Transaction{}, row)
	m.transactions[row.ID] = row
}

// apply moves account balances from old's effect to new's. Must hold mu.
func (m *MemoryStore) apply(old, new api.Transaction) {
	for _, ch := range balanceChanges(old, new) {
		a, ok := m.accounts[ch.accountID]
		if !ok {
			continue
		}
		a.Amount = a.Amount.Add(ch.adj.Delta)
		m.accounts[ch.accountID] = a
	}
}

func (m *MemoryStore) checkRefs(account, category *int64) error {
	if account != nil {
		if _, ok := m.accounts[*account]; !ok {
			return fmt.Errorf("%w: account %d does not exist", common.ErrInvalidInput, *account)
		}
	}
	if category != nil {
		if _, ok := m.categories[*category]; !ok {
			return fmt.Errorf("%w: category %d does not exist", common.ErrInvalidInput, *category)
		}
	}
	return nil
}
