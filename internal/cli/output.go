package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	data, err := codec.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErrorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printBooks(w io.Writer, books []types.Book) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GUID\tNAME\tAUTHOR\tCATEGORY\tLANGUAGE\tPUBLISHED\tISBN")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.GUID, b.Name, b.Author, b.Category, b.Language,
			b.PublicationDate, strconv.Itoa(b.ISBN))
	}
	tw.Flush()
}

func printReservations(w io.Writer, reservations []types.Reservation) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GUID\tPERSON\tPERIOD")
	for _, r := range reservations {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.BookGUID, r.Person, r.Period)
	}
	tw.Flush()
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
