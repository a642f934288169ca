package main

import (
	"fmt"
	"imahima/repositories"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
)

func main() {
	dbPath := pflag.StringP("db", "d", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	prefix := pflag.StringP("prefix", "p", "", "Key prefix to scan (member:, presence:, edge:)")
	pflag.Parse()

	if *dbPath == "" {
		log.Fatal("--db or BADGER_FILEPATH is required")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	rows, err := repositories.Inspect(db, *prefix)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Member", "Detail", "Updated"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, row := range rows {
		updated := ""
		if !row.UpdatedAt.IsZero() {
			updated = row.UpdatedAt.Format(time.DateTime)
		}
		table.Append([]string{row.Key, row.Kind, row.MemberID, row.Detail, updated})
	}
	table.Render()
	fmt.Printf("%d keys\n", len(rows))
}
