package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/foliodb/folio/pkg/folio"
)

func main() {
	ctx := context.Background()

	credentials, err := os.ReadFile("service-account.json")
	if err != nil {
		log.Fatalf("Failed to read credentials: %v", err)
	}

	db, err := folio.New(folio.Config{
		SpreadsheetID: "your-spreadsheet-id",
		Credentials:   credentials,
	})
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	folio.SetDefault(db)

	shops := folio.From("Transactions").Where(func(r folio.Row) bool {
		return r["Category"] == "Shops"
	})

	rows, err := shops.Rows(ctx)
	if err != nil {
		log.Fatalf("Failed to read rows: %v", err)
	}

	fmt.Printf("Found %d shop transactions:\n", len(rows))
	for _, r := range rows {
		fmt.Printf("  - %v at %v\n", r["Amount"], r["Business"])
	}

	// Recategorize in place. Formulas and hyperlinks in the affected rows
	// survive the write-back.
	err = shops.UpdateRows(ctx, func(r folio.Row) folio.Row {
		r["Category"] = "Shopping"
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to update rows: %v", err)
	}

	err = folio.From("Transactions").InsertRows(ctx, folio.Row{
		"Amount":   12.5,
		"Category": "Coffee",
		"Business": "Blue Bottle",
	})
	if err != nil {
		log.Fatalf("Failed to insert row: %v", err)
	}

	// Map rows into structs when a typed view is more convenient.
	type Transaction struct {
		Amount   float64 `folio:"Amount"`
		Category string  `folio:"Category"`
		Business string  `folio:"Business"`
	}

	all, err := folio.From("Transactions").Rows(ctx)
	if err != nil {
		log.Fatalf("Failed to read rows: %v", err)
	}

	var transactions []Transaction
	if err := folio.ScanRows(all, &transactions); err != nil {
		log.Fatalf("Failed to scan rows: %v", err)
	}
	for _, t := range transactions {
		fmt.Printf("%-10s %8.2f  %s\n", t.Category, t.Amount, t.Business)
	}
}
