package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/cli"
	"github.com/moajmalnk/faisytkd/internal/model"
)

const (
	collectKind = model.KindCollect
	payKind     = model.KindPay
	incomeKind  = model.KindIncome
	expenseKind = model.KindExpense
)

// obligationOps binds the Book entry points for one obligation kind.
type obligationOps struct {
	add      func(context.Context, bookkeeping.ObligationInput) (model.Obligation, error)
	update   func(context.Context, string, bookkeeping.ObligationInput) error
	remove   func(context.Context, string) error
	complete func(context.Context, string, string) error
}

func obligationOpsFor(book *bookkeeping.Book, kind model.Kind) obligationOps {
	if kind == model.KindPay {
		return obligationOps{book.AddPay, book.UpdatePay, book.DeletePay, book.CompletePay}
	}
	return obligationOps{book.AddCollect, book.UpdateCollect, book.DeleteCollect, book.CompleteCollect}
}

func obligationCmd(kind model.Kind) *cobra.Command {
	short := "Manage money to collect"
	long := `Track money owed to you. An open item is deducted from its account until
it is completed, when it becomes an income.`
	if kind == model.KindPay {
		short = "Manage money to pay"
		long = `Track money you owe. An open item is held on its account until it is
completed, when it becomes an expense.`
	}

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Long:  long,
	}

	cmd.AddCommand(listObligationsCmd(kind))
	cmd.AddCommand(addObligationCmd(kind))
	cmd.AddCommand(updateObligationCmd(kind))
	cmd.AddCommand(deleteObligationCmd(kind))
	cmd.AddCommand(completeObligationCmd(kind))

	return cmd
}

func listObligationsCmd(kind model.Kind) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s items", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			items := snap.Obligations(kind)
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("No %s items.", kind)))
				return nil
			}

			tbl := cli.NewTable(cmd.OutOrStdout(), "ID", "Name", "Amount", "Account", "Date", "Status")
			for _, o := range items {
				if open && o.Completed {
					continue
				}
				status := cli.WarningStyle.Render("open")
				if o.Completed {
					status = cli.SuccessStyle.Render("completed")
				}
				tbl.Row(o.ID, o.Name, cli.Money(o.Amount), accountName(snap, o.AccountID), formatDate(o.Date), status)
			}
			return tbl.Flush()
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "hide completed items")

	return cmd
}

func addObligationCmd(kind model.Kind) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: fmt.Sprintf("Add a %s item", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			accountID, err := resolveAccount(book.Snapshot(), account)
			if err != nil {
				return err
			}

			item, err := obligationOpsFor(book, kind).add(cmd.Context(), bookkeeping.ObligationInput{
				Name:      args[0],
				Amount:    amount,
				AccountID: accountID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "account id or name")

	return cmd
}

func updateObligationCmd(kind model.Kind) *cobra.Command {
	var (
		name    string
		amount  string
		account string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s item", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			cur, ok := snap.Obligation(kind, args[0])
			if !ok {
				return fmt.Errorf("%s item %q not found", kind, args[0])
			}

			in := bookkeeping.ObligationInput{Name: cur.Name, Amount: cur.Amount, AccountID: cur.AccountID}
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
			return obligationOpsFor(book, kind).update(cmd.Context(), cur.ID, in)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVarP(&account, "account", "a", "", "account id or name; empty detaches")

	return cmd
}

func deleteObligationCmd(kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s item", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			return obligationOpsFor(book, kind).remove(cmd.Context(), args[0])
		},
	}
}

func completeObligationCmd(kind model.Kind) *cobra.Command {
	var account string

	settles := strings.ToLower(string(kind.Settles()))
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: fmt.Sprintf("Mark a %s item done and record it as %s", kind, settles),
		Long: fmt.Sprintf(`Complete a %s item. Its hold on the original account is released and an
%s of the same amount is posted to --account, or to the item's own account
when no account is given. Completing a completed item does nothing.`, kind, settles),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			cur, ok := snap.Obligation(kind, args[0])
			if !ok {
				return fmt.Errorf("%s item %q not found", kind, args[0])
			}

			accountID := cur.AccountID
			if account != "" {
				if accountID, err = resolveAccount(snap, account); err != nil {
					return err
				}
			}
			return obligationOpsFor(book, kind).complete(cmd.Context(), cur.ID, accountID)
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "account that receives the settled amount")

	return cmd
}
