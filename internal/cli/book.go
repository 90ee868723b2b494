package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// addFlags holds the raw text of each book field, as typed by the user.
type addFlags struct {
	name      string
	author    string
	category  string
	language  string
	published string
	isbn      string
	guid      string
}

func newAddCmd(a *app) *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a book in the catalog",
		Long: `Add registers a new book. Every field is required and the GUID must not
already be in the catalog.

Example:
  booklib add --name "Nineteen Eighty-Four" --author "George Orwell" \
    --category Fiction --language English --published 1949-06-08 \
    --isbn 9780451524935 --guid 1064A`,
		Args: cobra.NoArgs,
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			return a.runAdd(cmd, lib, f)
		}),
	}
	cmd.Flags().StringVar(&f.name, "name", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "author")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.language, "language", "", "language")
	cmd.Flags().StringVar(&f.published, "published", "", "publication date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.isbn, "isbn", "", "ISBN (digits only)")
	cmd.Flags().StringVar(&f.guid, "guid", "", "unique book identifier")
	return cmd
}

// parse validates presence and shape of every field and builds the Book.
func (f addFlags) parse() (types.Book, error) {
	for _, v := range []string{f.name, f.author, f.category, f.language, f.published, f.isbn, f.guid} {
		if strings.TrimSpace(v) == "" {
			return types.Book{}, userError(types.MsgFillAllFields)
		}
	}
	date, err := types.ParseDate(f.published)
	if err != nil {
		return types.Book{}, userErrorf("%s %w", types.MsgInputErrors, err)
	}
	isbn, err := types.ParseISBN(f.isbn)
	if err != nil {
		return types.Book{}, userErrorf("%s %w", types.MsgInputErrors, err)
	}
	b := types.Book{
		Name:            f.name,
		Author:          f.author,
		Category:        f.category,
		Language:        f.language,
		PublicationDate: date,
		ISBN:            isbn,
		GUID:            f.guid,
	}
	if err := b.Validate(); err != nil {
		return types.Book{}, userErrorf("%s %w", types.MsgFillAllFields, err)
	}
	return b, nil
}

func (a *app) runAdd(cmd *cobra.Command, lib *library.Library, f addFlags) error {
	b, err := f.parse()
	if err != nil {
		return err
	}
	if err := lib.AddBook(b); err != nil {
		if errors.Is(err, types.ErrDuplicateGUID) {
			return userError(types.MsgDuplicateGUID)
		}
		return sysErrorf("add book: %w", err)
	}

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), b)
	}
	fmt.Fprintln(cmd.OutOrStdout(), types.MsgBookAdded)
	return nil
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <guid>",
		Short: "Show a book by GUID",
		Args:  cobra.ExactArgs(1),
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			guid := args[0]
			b, err := lib.FindBookByGUID(guid)
			if err != nil {
				return sysErrorf("find book: %w", err)
			}
			if b == nil {
				return userErrorf("No book found (GUID: %s)", guid)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, b)
			}
			fmt.Fprintf(out, "Book by GUID: %s\n", b.Name)
			printBooks(out, []types.Book{*b})
			return nil
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <guid>",
		Short: "Remove a book and its reservation",
		Long: `Delete removes the book with the given GUID from the catalog, then removes
any reservation recorded for that GUID.`,
		Args: cobra.ExactArgs(1),
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			guid := args[0]
			b, err := lib.FindBookByGUID(guid)
			if err != nil {
				return sysErrorf("find book: %w", err)
			}
			if err := lib.RemoveBookByGUID(guid); err != nil {
				return sysErrorf("remove book: %w", err)
			}
			if err := lib.RemoveReservationByGUID(guid); err != nil {
				return sysErrorf("remove reservation: %w", err)
			}
			if b == nil {
				return userErrorf("No book found (GUID: %s)", guid)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book deleted (GUID: %s)\n", guid)
			return nil
		}),
	}
}
