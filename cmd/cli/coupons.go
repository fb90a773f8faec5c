package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/format"
)

var couponsOutput string

// couponsCmd lists active coupon codes
var couponsCmd = &cobra.Command{
	Use:     "coupons",
	Short:   "List active coupon codes",
	Example: `  rez coupons
  rez coupons --output json`,
	RunE: runCoupons,
}

func init() {
	rootCmd.AddCommand(couponsCmd)

	couponsCmd.Flags().StringVar(&couponsOutput, "output", "table", "Output format: table or json")
}

func runCoupons(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	records, err := client.Coupons(ctx)
	if err != nil {
		return fmt.Errorf("coupon listing failed: %w", err)
	}

	coupons := make([]catalog.Coupon, 0, len(records))
	for _, rec := range records {
		coupons = append(coupons, catalog.CouponFromRecord(rec))
	}

	if couponsOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(coupons)
	}

	if len(coupons) == 0 {
		fmt.Println("No active coupons.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "CODE\tBRAND\tTITLE\tVALIDITY\n")
	for _, c := range coupons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.Brand.Name, c.Title, format.Countdown(now, c.ValidUntil))
	}
	return nil
}
