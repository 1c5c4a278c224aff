package server

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// DefaultCategories are created when a store has no categories.
var DefaultCategories = []api.CategoryInput{
	{Name: "Groceries", Type: "expense", Color: "#e74c3c"},
	{Name: "Rent", Type: "expense", Color: "#e67e22"},
	{Name: "Utilities", Type: "expense", Color: "#f39c12"},
	{Name: "Transportation", Type: "expense", Color: "#3498db"},
	{Name: "Entertainment", Type: "expense", Color: "#9b59b6"},
	{Name: "Salary", Type: "income", Color: "#27ae60"},
	{Name: "Freelance", Type: "income", Color: "#16a085"},
}

type demoItem struct {
	daysAgo  int
	kind     model.Kind
	note     string
	amount   string
	category string
	account  string
}

var demoAccounts = []api.AccountInput{
	{Name: "Cash", Type: "cash", Amount: decimal.RequireFromString("1500")},
	{Name: "Bank", Type: "bank", Amount: decimal.RequireFromString("8200")},
	{Name: "Credit Card", Type: "credit", Amount: decimal.Zero},
}

var demoItems = []demoItem{
	{28, model.KindIncome, "Monthly Salary", "3200.00", "Salary", "Bank"},
	{25, model.KindIncome, "Freelance: Landing Page", "850.00", "Freelance", "Bank"},
	{24, model.KindExpense, "Rent - Apartment", "1500.00", "Rent", "Bank"},
	{22, model.KindExpense, "Utilities - Electricity", "120.45", "Utilities", "Bank"},
	{20, model.KindExpense, "Groceries - Whole Foods", "96.72", "Groceries", "Credit Card"},
	{19, model.KindExpense, "Subway Pass", "45.00", "Transportation", "Cash"},
	{16, model.KindExpense, "Movie Night", "28.50", "Entertainment", "Cash"},
	{13, model.KindIncome, "Freelance: Dashboard Charts", "600.00", "Freelance", "Bank"},
	{8, model.KindExpense, "Concert Tickets", "140.00", "Entertainment", "Credit Card"},
	{4, model.KindExpense, "Rideshare", "22.30", "Transportation", "Cash"},
	{3, model.KindCollect, "Invoice #42", "400.00", "", "Bank"},
	{2, model.KindPay, "Electrician", "180.00", "", "Cash"},
}

// SeedDemo fills an empty store with demo accounts and transactions through
// the Store, so balances reflect every posting. It does nothing when the
// store already holds transactions.
func SeedDemo(ctx context.Context, store Store, today time.Time) error {
	existing, err := store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("checking transactions count: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		for _, in := range DefaultCategories {
			if _, err := store.CreateCategory(ctx, in); err != nil {
				return fmt.Errorf("seeding categories: %w", err)
			}
		}
		if categories, err = store.ListCategories(ctx); err != nil {
			return err
		}
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	accountIDs := make(map[string]int64, len(demoAccounts))
	for _, in := range demoAccounts {
		id, err := store.CreateAccount(ctx, in)
		if err != nil {
			return fmt.Errorf("seeding demo accounts: %w", err)
		}
		accountIDs[in.Name] = id
	}

	for _, item := range demoItems {
		note := item.note
		in := api.TransactionInput{
			Kind:       string(item.kind),
			Amount:     decimal.RequireFromString(item.amount),
			Note:       &note,
			OccurredOn: today.AddDate(0, 0, -item.daysAgo).Format(model.DateLayout),
		}
		if id, ok := categoryIDs[item.category]; ok {
			in.CategoryID = &id
		}
		if id, ok := accountIDs[item.account]; ok {
			in.AccountID = &id
		}
		if _, err := store.CreateTransaction(ctx, in); err != nil {
			return fmt.Errorf("seeding demo transactions: %w", err)
		}
	}
	return nil
}
