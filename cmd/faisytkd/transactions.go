package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/analytics"
	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/cli"
	"github.com/moajmalnk/faisytkd/internal/model"
)

type transactionOps struct {
	add    func(context.Context, bookkeeping.TransactionInput) (model.Transaction, error)
	update func(context.Context, string, bookkeeping.TransactionInput) error
	remove func(context.Context, string) error
}

func transactionOpsFor(book *bookkeeping.Book, kind model.Kind) transactionOps {
	if kind == model.KindExpense {
		return transactionOps{book.AddExpense, book.UpdateExpense, book.DeleteExpense}
	}
	return transactionOps{book.AddIncome, book.UpdateIncome, book.DeleteIncome}
}

func transactionCmd(kind model.Kind) *cobra.Command {
	short := "Manage income"
	if kind == model.KindExpense {
		short = "Manage expenses"
	}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
	}

	cmd.AddCommand(listTransactionsCmd(kind))
	cmd.AddCommand(addTransactionCmd(kind))
	cmd.AddCommand(updateTransactionCmd(kind))
	cmd.AddCommand(deleteTransactionCmd(kind))

	return cmd
}

func listTransactionsCmd(kind model.Kind) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s items", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := analytics.ParsePeriod(period)
			if err != nil {
				return err
			}

			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			items := snap.Transactions(kind)
			if from, ok := p.Start(model.Today()); ok {
				items = analytics.Since(items, from)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("No %s items.", kind)))
				return nil
			}

			tbl := cli.NewTable(cmd.OutOrStdout(), "ID", "Date", "Name", "Amount", "Category", "Account")
			for _, t := range items {
				tbl.Row(t.ID, formatDate(t.Date), t.Name, cli.Money(t.Amount), categoryName(snap, t.CategoryID), accountName(snap, t.AccountID))
			}
			if err := tbl.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal (%s): %s\n", p, cli.Money(analytics.Total(items)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "all", periodUsage)

	return cmd
}

func addTransactionCmd(kind model.Kind) *cobra.Command {
	var (
		account  string
		category string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: fmt.Sprintf("Record %s", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			day, err := parseDate(date)
			if err != nil {
				return err
			}

			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			accountID, err := resolveAccount(snap, account)
			if err != nil {
				return err
			}
			categoryID, err := resolveCategory(snap, category)
			if err != nil {
				return err
			}

			item, err := transactionOpsFor(book, kind).add(cmd.Context(), bookkeeping.TransactionInput{
				Name:       args[0],
				Amount:     amount,
				CategoryID: categoryID,
				Date:       day,
				AccountID:  accountID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "account id or name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")

	return cmd
}

func updateTransactionCmd(kind model.Kind) *cobra.Command {
	var (
		name     string
		amount   string
		account  string
		category string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			cur, ok := snap.Transaction(kind, args[0])
			if !ok {
				return fmt.Errorf("%s item %q not found", kind, args[0])
			}

			in := bookkeeping.TransactionInput{
				Name:       cur.Name,
				Amount:     cur.Amount,
				CategoryID: cur.CategoryID,
				Date:       cur.Date,
				AccountID:  cur.AccountID,
			}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("amount") {
				if in.Amount, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("account") {
				if in.AccountID, err = resolveAccount(snap, account); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("category") {
				if in.CategoryID, err = resolveCategory(snap, category); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("date") {
				if in.Date, err = parseDate(date); err != nil {
					return err
				}
			}
			return transactionOpsFor(book, kind).update(cmd.Context(), cur.ID, in)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVarP(&account, "account", "a", "", "account id or name; empty detaches")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name; empty detaches")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date as YYYY-MM-DD")

	return cmd
}

func deleteTransactionCmd(kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			return transactionOpsFor(book, kind).remove(cmd.Context(), args[0])
		},
	}
}
