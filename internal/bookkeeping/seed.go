package bookkeeping

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// SeedSnapshot is the built-in snapshot shown when neither the remote
// service nor the local cache can be read. Its ids are not server ids, so
// mutations against seed items fail and roll back.
func SeedSnapshot() *Snapshot {
	amount := decimal.RequireFromString
	today := model.DateOf(time.Now())

	obligation := func(id, name, value string) model.Obligation {
		return model.Obligation{ID: "seed-" + id, Name: name, Amount: amount(value), Date: today}
	}

	return &Snapshot{
		Ledger: ledger.New([]model.Account{
			{ID: "seed-cash", Name: "Cash", Type: model.AccountCash, Balance: amount("15740")},
			{ID: "seed-kotak", Name: "Kotak", Type: model.AccountBank, Balance: amount("94337.83")},
			{ID: "seed-federal", Name: "Federal", Type: model.AccountBank, Balance: amount("60791")},
			{ID: "seed-credit-card", Name: "Credit Card", Type: model.AccountCredit, Balance: amount("24836.04")},
		}),
		Categories: []model.Category{
			{ID: "seed-groceries", Name: "Groceries", Kind: model.CategoryExpense, Color: "#e74c3c"},
			{ID: "seed-rent", Name: "Rent", Kind: model.CategoryExpense, Color: "#e67e22"},
			{ID: "seed-utilities", Name: "Utilities", Kind: model.CategoryExpense, Color: "#f39c12"},
			{ID: "seed-transportation", Name: "Transportation", Kind: model.CategoryExpense, Color: "#3498db"},
			{ID: "seed-entertainment", Name: "Entertainment", Kind: model.CategoryExpense, Color: "#9b59b6"},
			{ID: "seed-salary", Name: "Salary", Kind: model.CategoryIncome, Color: "#27ae60"},
			{ID: "seed-freelance", Name: "Freelance", Kind: model.CategoryIncome, Color: "#16a085"},
		},
		Collect: []model.Obligation{
			obligation("c1", "CODO 129310", "10000"),
			obligation("c2", "Ashif", "3800"),
			obligation("c3", "Kunjani", "1500"),
			obligation("c4", "Kunjaka", "680"),
			obligation("c5", "Sathyabalan", "740"),
			obligation("c6", "Nabeel", "2930"),
			obligation("c7", "Ajmal P", "345"),
			obligation("c8", "Fahis", "500"),
			obligation("c9", "Kasargod", "5000"),
		},
		Pay: []model.Obligation{
			obligation("p1", "Uppappa", "40000"),
			obligation("p2", "College", "10000"),
		},
	}
}
