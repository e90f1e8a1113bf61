package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/pkg/core/services"
	"github.com/jakechorley/seat-allotment/pkg/db"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List saved allotment runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("listRuns command")

			database, err := app.Database()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger)
			if err != nil {
				return err
			}

			printRuns(os.Stdout, runs)
			return nil
		},
	}
}

// ExportRunCmd creates the exportRun command
func ExportRunCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportRun [run_id]",
		Short: "Write the result files of a saved run (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}
			outDir, _ := cmd.Flags().GetString("out")
			name, _ := cmd.Flags().GetString("name")
			pdf, _ := cmd.Flags().GetBool("pdf")
			extended, _ := cmd.Flags().GetBool("extended")

			app.Logger.Debug("exportRun command", zap.String("run_id", runID))

			database, err := app.Database()
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = app.Cfg.OutputDir
			}
			saved, paths, err := services.ExportRun(app.Ctx, database, app.Logger, runID, services.ExportOptions{
				Dir:      outDir,
				BaseName: name,
				Extended: extended || app.Cfg.ExtendedExport,
				PDF:      pdf,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exported run %s (%d allotted of %d candidates)\n\n",
				saved.Run.ID, len(saved.Allotments), saved.Run.CandidateCount)
			printPaths(paths)
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("out", "", "Output directory (defaults to outputDir from config)")
	cmd.Flags().String("name", "", "Base name of the output files")
	cmd.Flags().Bool("pdf", false, "Also write a PDF of the allotments")
	cmd.Flags().Bool("extended", false, "Add OPNO and AllotCode columns")

	return cmd
}

// PublishRunCmd creates the publishRun command
func PublishRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRun [run_id]",
		Short: "Publish a saved run to the results spreadsheet (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			app.Logger.Debug("publishRun command", zap.String("run_id", runID))

			database, err := app.Database()
			if err != nil {
				return err
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishRun(app.Ctx, database, client, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published run %s\n\n", published.RunID)
			fmt.Printf("Tab:         %s\n", published.TabTitle)
			fmt.Printf("Rows:        %d\n\n", published.Rows)

			return nil
		},
	}
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d runs:\n\n", len(runs))
	fmt.Fprintf(w, "%-36s  %-16s  %-11s  %9s  %10s  %s\n", "Run ID", "Created", "Tie-break", "Allotted", "Candidates", "Published")
	for _, run := range runs {
		published := run.PublishedDatetime
		if published == "" {
			published = "-"
		}
		fmt.Fprintf(w, "%-36s  %-16s  %-11s  %9d  %10d  %s\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.TieBreak,
			run.AllottedCount,
			run.CandidateCount,
			published,
		)
	}
	fmt.Fprintln(w)
}
