package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/format"
)

var searchOutput string

// searchCmd searches brands by name
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search brands by name",
	Long: `Searches brands on the rewards backend. Queries shorter than two
characters resolve to an empty result without calling the backend.`,
	Example: `  rez search nykaa
  rez search "coffee day" --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchOutput, "output", "table", "Output format: table or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	query := format.FoldQuery(strings.Join(args, " "))

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	records, err := client.SearchBrands(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	now := time.Now()
	brands := make([]catalog.Brand, 0, len(records))
	for _, rec := range records {
		brands = append(brands, catalog.BrandFromAffiliate(rec, now))
	}

	if searchOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(brands)
	}

	if len(brands) == 0 {
		fmt.Println("No brands found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "BRAND\tCASHBACK\tLINK\n")
	for _, b := range brands {
		link := "in-app"
		if b.IsAffiliate() {
			link = b.ExternalURL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, format.CashbackRate(b.Cashback.Percentage), link)
	}
	return nil
}
