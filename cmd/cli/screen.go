package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezapp/marketplace-service/internal/format"
	"github.com/rezapp/marketplace-service/internal/section"
)

var (
	screenRefresh bool
	screenOutput  string
)

// screenCmd renders one aggregated screen
var screenCmd = &cobra.Command{
	Use:   "screen <mall|cash-store>",
	Short: "Show an aggregated screen",
	Long: `Fetches and renders the full batch behind the mall or cash-store
screen: brands, categories, deals and, for the cash store, the cashback
wallet summary.`,
	Example: `  rez screen mall
  rez screen cash-store --output json
  rez screen mall --refresh`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mall", "cash-store"},
	RunE:      runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().BoolVar(&screenRefresh, "refresh", false, "Bypass the snapshot cache")
	screenCmd.Flags().StringVar(&screenOutput, "output", "table", "Output format: table or json")
}

func runScreen(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	opts := section.Options{Logger: *logger}
	var agg *section.Aggregator
	switch args[0] {
	case "mall":
		agg = section.NewMall(client, opts)
	case "cash-store":
		agg = section.NewCashStore(client, opts)
	default:
		return fmt.Errorf("unknown screen: %s", args[0])
	}
	defer agg.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if screenRefresh {
		err = agg.Refresh(ctx)
	} else {
		err = agg.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s screen: %w", args[0], err)
	}

	v := agg.View()
	if screenOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v.Snapshot)
	}

	printSnapshot(v.Snapshot)
	return nil
}

func printSnapshot(snap *section.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if snap.Summary != nil {
		fmt.Fprintf(w, "Cashback wallet\t\n")
		fmt.Fprintf(w, "  Total earned\t%s\n", format.Rupees(snap.Summary.TotalEarned))
		fmt.Fprintf(w, "  Pending\t%s\n", format.Rupees(snap.Summary.Pending))
		fmt.Fprintf(w, "  Available\t%s\n", format.Rupees(snap.Summary.Available))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "BRAND\tCASHBACK\tTIER\tBADGES\n")
	for _, b := range snap.TopBrands {
		badges := ""
		for i, badge := range b.Badges {
			if i > 0 {
				badges += ","
			}
			badges += string(badge)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, format.CashbackRate(b.Cashback.Percentage), b.Tier, badges)
	}

	if len(snap.TrendingDeals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "TRENDING DEAL\tBRAND\tRATE\n")
		for _, o := range snap.TrendingDeals {
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.Title, o.Brand.Name, format.CashbackRate(o.CashbackRate))
		}
	}
}
