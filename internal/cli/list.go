package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

var filterFieldsStr = strings.Join(types.FilterableFields, ", ")

func newListCmd(a *app) *cobra.Command {
	var filterBy, value string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered",
		Long: `List prints every book in the catalog in insertion order.

With --filter-by and --value only matching books are shown. A value of
"Taken" or "Available" selects books by reservation state.

Example:
  booklib list
  booklib list --filter-by author --value "George Orwell"
  booklib list --filter-by "taken or available books" --value Available`,
		Args: cobra.NoArgs,
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			if filterBy != "" && value == "" {
				return userError(types.MsgFillField)
			}

			books, err := lib.ListBooks()
			if err != nil {
				return sysErrorf("list books: %w", err)
			}
			if filterBy != "" {
				books, err = lib.Filter(books, filterBy, value)
				if err != nil {
					return filterError(err, filterBy)
				}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, books)
			}
			heading, count := library.FilterSummary(filterBy, value, len(books))
			if heading != "" {
				fmt.Fprintln(out, heading)
			}
			printBooks(out, books)
			fmt.Fprintln(out, count)
			return nil
		}),
	}
	cmd.Flags().StringVar(&filterBy, "filter-by", "", "filter field ("+filterFieldsStr+")")
	cmd.Flags().StringVar(&value, "value", "", "value the filter field must equal")
	return cmd
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options <field>",
		Short: "Show the values a filter field can take",
		Long: `Options prints the distinct values of a filter field across the catalog.

Valid fields: ` + filterFieldsStr,
		Args: cobra.ExactArgs(1),
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			books, err := lib.ListBooks()
			if err != nil {
				return sysErrorf("list books: %w", err)
			}
			options, err := lib.OptionsFor(books, args[0])
			if err != nil {
				return filterError(err, args[0])
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), options)
			}
			printLines(cmd.OutOrStdout(), options)
			return nil
		}),
	}
}

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the fields books can be filtered by",
		Args:  cobra.NoArgs,
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			fields := lib.ListFilterableFields()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), fields)
			}
			printLines(cmd.OutOrStdout(), fields)
			return nil
		}),
	}
}

func filterError(err error, field string) error {
	if errors.Is(err, types.ErrInvalidFilterField) {
		return userErrorf("unknown filter field %q (valid: %s)", field, filterFieldsStr)
	}
	return sysErrorf("filter books: %w", err)
}
