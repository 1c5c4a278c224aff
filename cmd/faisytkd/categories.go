package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/cli"
	"github.com/moajmalnk/faisytkd/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			categories := book.Snapshot().Categories
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No categories found. Use 'faisytkd categories add' to create one."))
				return nil
			}

			tbl := cli.NewTable(cmd.OutOrStdout(), "ID", "Name", "Kind", "Color")
			for _, c := range categories {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■ " + c.Color)
				tbl.Row(c.ID, c.Name, c.Kind, swatch)
			}
			return tbl.Flush()
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		kind  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseCategoryKind(kind)
			if err != nil {
				return err
			}

			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			c, err := book.AddCategory(cmd.Context(), bookkeeping.CategoryInput{Name: args[0], Kind: k, Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(model.CategoryExpense), "category kind (income, expense)")
	cmd.Flags().StringVarP(&color, "color", "c", model.DefaultCategoryColor, "display color")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name  string
		kind  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "update <category>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			snap := book.Snapshot()
			id, err := resolveCategory(snap, args[0])
			if err != nil {
				return err
			}
			cur, _ := snap.Category(id)

			in := bookkeeping.CategoryInput{Name: cur.Name, Kind: cur.Kind, Color: cur.Color}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("kind") {
				if in.Kind, err = model.ParseCategoryKind(kind); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("color") {
				in.Color = color
			}
			return book.UpdateCategory(cmd.Context(), id, in)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "new kind (income, expense)")
	cmd.Flags().StringVarP(&color, "color", "c", "", "new display color")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category",
		Long:  `Delete a category. Items filed under it are kept without a category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, closeBook, err := openBook(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBook()

			id, err := resolveCategory(book.Snapshot(), args[0])
			if err != nil {
				return err
			}
			return book.DeleteCategory(cmd.Context(), id)
		},
	}
}
