package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/cli"
	"github.com/moajmalnk/faisytkd/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, update, and delete the cash, bank, and credit accounts balances are posted to.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			accounts := snap.Accounts()
			if len(accounts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No accounts found. Use 'faisytkd accounts add' to create one."))
				return nil
			}

			tbl := cli.NewTable(cmd.OutOrStdout(), "ID", "Name", "Type", "Balance")
			for _, a := range accounts {
				tbl.Row(a.ID, a.Name, a.Type, cli.Money(a.Balance))
			}
			tbl.Row("", cli.HeaderStyle.Render("Total"), "", cli.Money(snap.Ledger.Total()))
			return tbl.Flush()
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		balance     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseAccountType(accountType)
			if err != nil {
				return err
			}
			amount, err := parseAmount(balance)
			if err != nil {
				return err
			}

			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			acct, err := book.AddAccount(cmd.Context(), bookkeeping.AccountInput{Name: args[0], Type: typ, Balance: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", acct.Name, acct.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", string(model.AccountBank), "account type (cash, bank, credit)")
	cmd.Flags().StringVarP(&balance, "balance", "b", "0", "opening balance")

	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		name        string
		accountType string
		balance     string
	)

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Rename an account, change its type, or overwrite its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			id, err := resolveAccount(snap, args[0])
			if err != nil {
				return err
			}
			acct, _ := snap.Ledger.Get(id)

			in := bookkeeping.AccountInput{Name: acct.Name, Type: acct.Type, Balance: acct.Balance}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("type") {
				if in.Type, err = model.ParseAccountType(accountType); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("balance") {
				if in.Balance, err = parseAmount(balance); err != nil {
					return err
				}
			}
			return book.UpdateAccount(cmd.Context(), id, in)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&accountType, "type", "t", "", "new type (cash, bank, credit)")
	cmd.Flags().StringVarP(&balance, "balance", "b", "", "new balance")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account",
		Long:  `Delete an account. Items posted to it are kept but no longer reference an account.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			id, err := resolveAccount(book.Snapshot(), args[0])
			if err != nil {
				return err
			}
			return book.DeleteAccount(cmd.Context(), id)
		},
	}
}
