package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/analytics"
	"github.com/moajmalnk/faisytkd/internal/cli"
)

const periodUsage = "window ending today: all, day, week, month, 3month, 6month or year"

func summaryCmd() *cobra.Command {
	var (
		asJSON bool
		period string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, profit and loss, and balance distribution",
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

			a := book.AnalyticsWithin(p)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			return renderAnalytics(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVarP(&period, "period", "p", "all", periodUsage)

	return cmd
}

func renderAnalytics(w io.Writer, a analytics.Analytics) error {
	s := a.Summary

	profit := cli.SuccessStyle.Render(cli.Money(s.Profit))
	if s.Profit.IsNegative() {
		profit = cli.ErrorStyle.Render(cli.Money(s.Profit))
	}

	lines := []string{
		cli.TitleStyle.Render("Summary"),
		fmt.Sprintf("Accounts            %s", cli.Money(s.TotalAccounts)),
		fmt.Sprintf("Income              %s", cli.Money(s.TotalIncome)),
		fmt.Sprintf("Expense             %s", cli.Money(s.TotalExpense)),
		fmt.Sprintf("Profit              %s", profit),
		fmt.Sprintf("Expense ratio       %s", cli.Percent(s.ExpenseRatio)),
		fmt.Sprintf("Profit margin       %s", cli.Percent(s.ProfitMargin)),
		"",
		fmt.Sprintf("To collect          %s", cli.Money(s.TotalCollect)),
		fmt.Sprintf("To pay              %s", cli.Money(s.TotalPay)),
		fmt.Sprintf("Net obligations     %s", cli.Money(s.NetObligations)),
		fmt.Sprintf("Cash after settling %s", cli.Money(s.NetCashAfterObligations)),
	}
	fmt.Fprintln(w, cli.BoxStyle.Render(strings.Join(lines, "\n")))

	if len(a.ByAccount) > 0 {
		fmt.Fprintln(w, cli.TitleStyle.Render("Accounts"))
		tbl := cli.NewTable(w, "Name", "Type", "Balance", "Share")
		for _, acct := range a.ByAccount {
			tbl.Row(acct.Name, acct.Type, cli.Money(acct.Balance), cli.Percent(acct.Share))
		}
		if err := tbl.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(a.ByCategory) > 0 {
		fmt.Fprintln(w, cli.TitleStyle.Render("Expenses by category"))
		tbl := cli.NewTable(w, "Category", "Total", "Share")
		for _, c := range a.ByCategory {
			name := c.Name
			if c.Color != "" {
				name = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(name)
			}
			tbl.Row(name, cli.Money(c.Total), cli.Percent(c.Share))
		}
		if err := tbl.Flush(); err != nil {
			return err
		}
	}
	return nil
}
