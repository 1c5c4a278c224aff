// Package bookkeeping owns the in-memory ledger snapshot and exposes the
// optimistic mutation entry points used by UI collaborators.
package bookkeeping

import (
	"time"

	"github.com/moajmalnk/faisytkd/internal/analytics"
	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Source says where a snapshot came from.
type Source string

// Snapshot sources.
const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceSeed   Source = "seed"
)

// Snapshot is a complete copy of accounts, categories and item lists.
// A published snapshot is never mutated; changes are made on a Clone.
type Snapshot struct {
	Ledger     *ledger.Ledger      `json:"accounts"`
	Categories []model.Category    `json:"categories"`
	Collect    []model.Obligation  `json:"collect"`
	Pay        []model.Obligation  `json:"pay"`
	Income     []model.Transaction `json:"income"`
	Expense    []model.Transaction `json:"expense"`
	LoadedAt   time.Time           `json:"loaded_at"`
	Source     Source              `json:"-"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Ledger: ledger.New(nil)}
}

// Clone returns a deep copy that can be mutated freely.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	if s.Ledger != nil {
		c.Ledger = s.Ledger.Clone()
	} else {
		c.Ledger = ledger.New(nil)
	}
	c.Categories = append([]model.Category(nil), s.Categories...)
	c.Collect = append([]model.Obligation(nil), s.Collect...)
	c.Pay = append([]model.Obligation(nil), s.Pay...)
	c.Income = append([]model.Transaction(nil), s.Income...)
	c.Expense = append([]model.Transaction(nil), s.Expense...)
	return &c
}

// Accounts returns the accounts in display order.
func (s *Snapshot) Accounts() []model.Account {
	return s.Ledger.Accounts()
}

// Input returns the lists the aggregation reads.
func (s *Snapshot) Input() analytics.Input {
	return analytics.Input{
		Accounts:   s.Ledger.Accounts(),
		Categories: s.Categories,
		Collect:    s.Collect,
		Pay:        s.Pay,
		Income:     s.Income,
		Expense:    s.Expense,
	}
}

// Analytics computes totals for the snapshot.
func (s *Snapshot) Analytics() analytics.Analytics {
	return analytics.Compute(s.Input())
}

// AnalyticsWithin computes totals with income and expense narrowed to p.
func (s *Snapshot) AnalyticsWithin(p analytics.Period, today time.Time) analytics.Analytics {
	return analytics.Compute(s.Input().Within(p, today))
}

// Obligations returns the collect or pay list.
func (s *Snapshot) Obligations(kind model.Kind) []model.Obligation {
	if p := s.obligations(kind); p != nil {
		return *p
	}
	return nil
}

// Transactions returns the income or expense list.
func (s *Snapshot) Transactions(kind model.Kind) []model.Transaction {
	if p := s.transactions(kind); p != nil {
		return *p
	}
	return nil
}

// Obligation finds a collect or pay item by id.
func (s *Snapshot) Obligation(kind model.Kind, id string) (model.Obligation, bool) {
	for _, o := range s.Obligations(kind) {
		if o.ID == id {
			return o, true
		}
	}
	return model.Obligation{}, false
}

// Transaction finds an income or expense item by id.
func (s *Snapshot) Transaction(kind model.Kind, id string) (model.Transaction, bool) {
	for _, t := range s.Transactions(kind) {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

// Category finds a category by id.
func (s *Snapshot) Category(id string) (model.Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Snapshot) obligations(kind model.Kind) *[]model.Obligation {
	switch kind {
	case model.KindCollect:
		return &s.Collect
	case model.KindPay:
		return &s.Pay
	}
	return nil
}

func (s *Snapshot) transactions(kind model.Kind) *[]model.Transaction {
	switch kind {
	case model.KindIncome:
		return &s.Income
	case model.KindExpense:
		return &s.Expense
	}
	return nil
}

func (s *Snapshot) putObligation(kind model.Kind, o model.Obligation) {
	list := s.obligations(kind)
	for i := range *list {
		if (*list)[i].ID == o.ID {
			(*list)[i] = o
			return
		}
	}
	*list = append(*list, o)
}

func (s *Snapshot) removeObligation(kind model.Kind, id string) {
	list := s.obligations(kind)
	out := (*list)[:0]
	for _, o := range *list {
		if o.ID != id {
			out = append(out, o)
		}
	}
	*list = out
}

func (s *Snapshot) putTransaction(kind model.Kind, t model.Transaction) {
	list := s.transactions(kind)
	for i := range *list {
		if (*list)[i].ID == t.ID {
			(*list)[i] = t
			return
		}
	}
	*list = append(*list, t)
}

func (s *Snapshot) removeTransaction(kind model.Kind, id string) {
	list := s.transactions(kind)
	out := (*list)[:0]
	for _, t := range *list {
		if t.ID != id {
			out = append(out, t)
		}
	}
	*list = out
}

func (s *Snapshot) putCategory(c model.Category) {
	for i := range s.Categories {
		if s.Categories[i].ID == c.ID {
			s.Categories[i] = c
			return
		}
	}
	s.Categories = append(s.Categories, c)
}

// removeCategory drops the category and detaches every item referencing it.
func (s *Snapshot) removeCategory(id string) {
	out := s.Categories[:0]
	for _, c := range s.Categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.Categories = out
	for _, list := range []*[]model.Transaction{&s.Income, &s.Expense} {
		for i := range *list {
			if (*list)[i].CategoryID == id {
				(*list)[i].CategoryID = ""
			}
		}
	}
}

// detachAccount clears every item reference to the account.
func (s *Snapshot) detachAccount(id string) {
	s.rewriteAccountRefs(id, "")
}

func (s *Snapshot) rewriteAccountRefs(from, to string) {
	for _, list := range []*[]model.Obligation{&s.Collect, &s.Pay} {
		for i := range *list {
			if (*list)[i].AccountID == from {
				(*list)[i].AccountID = to
			}
		}
	}
	for _, list := range []*[]model.Transaction{&s.Income, &s.Expense} {
		for i := range *list {
			if (*list)[i].AccountID == from {
				(*list)[i].AccountID = to
			}
		}
	}
}

func (s *Snapshot) rewriteCategoryRefs(from, to string) {
	for _, list := range []*[]model.Transaction{&s.Income, &s.Expense} {
		for i := range *list {
			if (*list)[i].CategoryID == from {
				(*list)[i].CategoryID = to
			}
		}
	}
}
