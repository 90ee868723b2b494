package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// takeResult is the JSON form of a take-book outcome.
type takeResult struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	GUID    string `json:"guid"`
	Person  string `json:"person"`
	Period  int    `json:"period"`
}

func newTakeCmd(a *app) *cobra.Command {
	var person, periodText, guid string
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Reserve a book for a person",
		Long: `Take reserves a book for 1 to 60 days. A book can be reserved by one person
at a time, and a person can hold at most 3 books.

Example:
  booklib take --person Alice --period 10 --guid 1064A`,
		Args: cobra.NoArgs,
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			for _, v := range []string{person, periodText, guid} {
				if strings.TrimSpace(v) == "" {
					return userError(types.MsgFillAllFields)
				}
			}
			period, err := strconv.Atoi(strings.TrimSpace(periodText))
			if err != nil {
				return userErrorf("%s %w", types.MsgInputErrors, err)
			}
			if err := types.ValidatePeriod(period); err != nil {
				return userError(types.MsgPeriodRange)
			}

			outcome, err := lib.TakeBook(person, period, guid)
			if err != nil {
				return sysErrorf("take book: %w", err)
			}
			if !outcome.OK() {
				return userError(outcome.Message())
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), takeResult{
					Outcome: outcome.String(),
					Message: outcome.Message(),
					GUID:    guid,
					Person:  person,
					Period:  period,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message())
			return nil
		}),
	}
	cmd.Flags().StringVar(&person, "person", "", "person taking the book")
	cmd.Flags().StringVar(&periodText, "period", "", "reservation period in days (1-60)")
	cmd.Flags().StringVar(&guid, "guid", "", "GUID of the book")
	return cmd
}

func newReservationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reservations",
		Short: "List live reservations",
		Args:  cobra.NoArgs,
		RunE: a.libraryRunE(func(cmd *cobra.Command, args []string, lib *library.Library) error {
			reservations, err := lib.ListReservations()
			if err != nil {
				return sysErrorf("list reservations: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), reservations)
			}
			printReservations(cmd.OutOrStdout(), reservations)
			return nil
		}),
	}
}
