package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/registrar-labs/courserec/internal/core/ports/driving"
)

var (
	ingestCoursesPath string
	ingestDemandPath  string
	ingestTerm        string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the catalog from CSV exports or the catalog feed",
	Long: `Rebuild the stored catalog snapshot. With --courses, listings are read
from a local CSV export (optionally joined with --demand). With --term,
listings are fetched from the configured catalog web service instead.

Each run replaces the previous snapshot wholesale.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if ingestCoursesPath == "" && ingestTerm == "" {
			return fmt.Errorf("either --courses or --term is required")
		}
		if ingestCoursesPath != "" && ingestTerm != "" {
			return fmt.Errorf("--courses and --term are mutually exclusive")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		svc := app.ingestService()

		ctx := cmd.Context()
		var stats *driving.IngestStats
		if ingestTerm != "" {
			stats, err = svc.IngestAPI(ctx, ingestTerm)
		} else {
			stats, err = svc.IngestCSV(ctx, ingestCoursesPath, ingestDemandPath)
		}
		if err != nil {
			return err
		}

		cmd.Printf("Ingested %d raw listings into %d courses\n", stats.RawListings, stats.Courses)
		if ingestDemandPath != "" {
			cmd.Printf("Demand: %d records kept, %d dropped\n", stats.DemandRecords, stats.DemandDropped)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCoursesPath, "courses", "", "path to the courses CSV export")
	ingestCmd.Flags().StringVar(&ingestDemandPath, "demand", "", "path to the demand CSV export")
	ingestCmd.Flags().StringVar(&ingestTerm, "term", "", "term code to fetch from the catalog feed")
	rootCmd.AddCommand(ingestCmd)
}
