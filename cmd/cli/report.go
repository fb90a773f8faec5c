package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezapp/marketplace-service/internal/catalog"
	"github.com/rezapp/marketplace-service/internal/export"
)

var (
	reportOut   string
	reportPages int
)

// reportCmd exports cashback history as an XLSX workbook
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export cashback history as an XLSX report",
	Long: `Fetches the cashback wallet summary and activity history from the
rewards backend and writes them into a spreadsheet.`,
	Example: `  rez report --out cashback.xlsx
  rez report --out cashback.xlsx --pages 5`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOut, "out", "cashback.xlsx", "Output file path")
	reportCmd.Flags().IntVar(&reportPages, "pages", 3, "How many history pages to include")
}

func runReport(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	summaryRec, err := client.CashbackSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cashback summary: %w", err)
	}
	summary := catalog.SummaryFromRecord(*summaryRec)

	var activity []catalog.CashbackActivity
	for page := 1; page <= reportPages; page++ {
		history, err := client.CashbackHistory(ctx, page, 50)
		if err != nil {
			return fmt.Errorf("failed to fetch history page %d: %w", page, err)
		}
		for _, rec := range history.Items {
			activity = append(activity, catalog.ActivityFromRecord(rec))
		}
		if page >= history.Pages {
			break
		}
	}

	data, err := export.ActivityReport(&summary, activity)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if err := os.WriteFile(reportOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", reportOut, err)
	}

	logger.Info().Str("file", reportOut).Int("entries", len(activity)).Msg("Report written")
	fmt.Printf("Wrote %d entries to %s\n", len(activity), reportOut)
	return nil
}
