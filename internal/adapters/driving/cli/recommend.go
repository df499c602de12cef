package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

var (
	recommendID int64
	recommendK  int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [title]",
	Short: "Recommend courses similar to a source course",
	Long: `Recommend courses whose descriptions are most similar to the source
course, identified by exact title or by --id, and report enrollment
demand over the recommended set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && recommendID == 0 {
			return fmt.Errorf("a course title or --id is required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		svc, err := app.recommenderService(ctx)
		if err != nil {
			return err
		}

		sourceID := recommendID
		if len(args) > 0 {
			course, err := svc.ResolveTitle(ctx, args[0])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}
			sourceID = course.ID
		}

		recs, err := svc.Recommend(ctx, sourceID, recommendK)
		if err != nil {
			return err
		}

		report, err := svc.Report(ctx, recs)
		if err != nil {
			return err
		}

		printReport(cmd, report)
		return nil
	},
}

func init() {
	recommendCmd.Flags().Int64Var(&recommendID, "id", 0, "source course id (alternative to title)")
	recommendCmd.Flags().IntVar(&recommendK, "k", 0, "number of recommendations (default 10)")
	rootCmd.AddCommand(recommendCmd)
}

func printReport(cmd *cobra.Command, report *domain.DemandReport) {
	cmd.Println("Most similar courses:")
	for i, row := range report.BySimilarity {
		cmd.Printf("  %2d. %-10s %-50s %.5f  %s\n",
			i+1, row.FullCode, truncate(row.Title, 50), row.Similarity, formatDemand(row.Demand))
	}

	cmd.Println("\nBy demand:")
	for i, row := range report.ByDemand {
		cmd.Printf("  %2d. %-10s %-50s %s\n",
			i+1, row.FullCode, truncate(row.Title, 50), formatDemand(row.Demand))
	}

	summary := report.Summary
	cmd.Println("\nSummary:")
	if summary.OverallAverage != nil {
		cmd.Printf("  average demand: %.3f\n", *summary.OverallAverage)
	} else {
		cmd.Println("  average demand: no data")
	}
	for _, dept := range summary.PerDepartment {
		if dept.Average != nil {
			cmd.Printf("  %-40s %.3f (%d courses)\n", dept.DeptName, *dept.Average, dept.Count)
		} else {
			cmd.Printf("  %-40s no data (%d courses)\n", dept.DeptName, dept.Count)
		}
	}

	printPartition(cmd, "Above average demand", summary.HighDemand)
	printPartition(cmd, "Below average demand", summary.LowDemand)
}

func printPartition(cmd *cobra.Command, label string, rows []domain.DemandRow) {
	if len(rows) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", label)
	for _, row := range rows {
		cmd.Printf("  %-10s %-50s %s\n", row.FullCode, truncate(row.Title, 50), formatDemand(row.Demand))
	}
}

func formatDemand(d *int64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *d)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
