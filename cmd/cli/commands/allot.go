package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/core/allotment"
	"github.com/jakechorley/seat-allotment/pkg/core/services"
)

// AllotCmd creates the allot command
func AllotCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allot",
		Short: "Allot seats to candidates in rank order",
		Long: `Read the candidate, seat and option tables, allot seats in rank order and write the results.

Input files given as flags override the inputs in the config file.
When a database is configured the run is saved unless --dry-run is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, _ := cmd.Flags().GetString("candidates")
			seats, _ := cmd.Flags().GetString("seats")
			options, _ := cmd.Flags().GetString("options")
			tieBreak, _ := cmd.Flags().GetString("tie-break")
			outDir, _ := cmd.Flags().GetString("out")
			name, _ := cmd.Flags().GetString("name")
			pdf, _ := cmd.Flags().GetBool("pdf")
			extended, _ := cmd.Flags().GetBool("extended")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("allot command",
				zap.String("candidates", candidates),
				zap.String("seats", seats),
				zap.String("options", options),
				zap.String("tie_break", tieBreak),
				zap.Bool("dry_run", dryRun))

			inputs, err := resolveInputs(app.Cfg.Inputs, candidates, seats, options)
			if err != nil {
				return err
			}

			if tieBreak == "" {
				tieBreak = app.Cfg.TieBreak
			}
			if !allotment.TieBreak(tieBreak).IsValid() {
				return fmt.Errorf("unknown tie-break %q (use %s or %s)", tieBreak, allotment.TieBreakInputOrder, allotment.TieBreakRollNumber)
			}

			var tables services.TableClient
			if services.NeedsSheets(inputs) {
				client, err := app.SheetsClient()
				if err != nil {
					return err
				}
				tables = client
			}

			var store services.RunAllotmentStore
			if app.HasDatabase() && !dryRun {
				database, err := app.Database()
				if err != nil {
					return err
				}
				store = database
			}

			result, err := services.RunAllotment(app.Ctx, store, tables, services.RunAllotmentParams{
				Inputs:   inputs,
				TieBreak: allotment.TieBreak(tieBreak),
				DryRun:   dryRun,
			}, app.Logger)
			if err != nil {
				return fmt.Errorf("allotment failed: %w", err)
			}

			printRunResult(result, dryRun)

			if !result.Success {
				return fmt.Errorf("allotment failed validation with %d violations; nothing was written", len(result.Violations))
			}

			if outDir == "" {
				outDir = app.Cfg.OutputDir
			}
			if name == "" && result.RunID != "" {
				name = "allotment_" + result.RunID
			}
			paths, err := services.WriteResults(result.Outcome.Allotments, services.BalanceRows(result.SeatBalances()), services.ExportOptions{
				Dir:      outDir,
				BaseName: name,
				Extended: extended || app.Cfg.ExtendedExport,
				PDF:      pdf,
			})
			if err != nil {
				return err
			}
			printPaths(paths)

			if app.Cfg.MetricsFile != "" {
				if err := result.Metrics.WriteToTextfile(app.Cfg.MetricsFile); err != nil {
					return err
				}
				fmt.Printf("Metrics:     %s\n", app.Cfg.MetricsFile)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("candidates", "", "Candidates CSV file (RollNo, ARank, Category, AIQ)")
	cmd.Flags().String("seats", "", "Seats CSV file (grp, typ, college, course, category, SEAT)")
	cmd.Flags().String("options", "", "Options CSV file (RollNo, OPNO, Optn, ValidOption, Delflg)")
	cmd.Flags().String("tie-break", "", "Order of candidates with equal rank: input_order or roll_number")
	cmd.Flags().String("out", "", "Output directory (defaults to outputDir from config)")
	cmd.Flags().String("name", "", "Base name of the output files")
	cmd.Flags().Bool("pdf", false, "Also write a PDF of the allotments")
	cmd.Flags().Bool("extended", false, "Add OPNO and AllotCode columns")
	cmd.Flags().Bool("dry-run", false, "Run without saving to the database")

	return cmd
}

// resolveInputs applies file flags over the configured inputs and checks all three are set
func resolveInputs(configured config.Inputs, candidates, seats, options string) (config.Inputs, error) {
	inputs := configured
	if candidates != "" {
		inputs.Candidates = &config.Source{File: candidates}
	}
	if seats != "" {
		inputs.Seats = &config.Source{File: seats}
	}
	if options != "" {
		inputs.Options = &config.Source{File: options}
	}

	var missing []string
	if inputs.Candidates == nil {
		missing = append(missing, "--candidates")
	}
	if inputs.Seats == nil {
		missing = append(missing, "--seats")
	}
	if inputs.Options == nil {
		missing = append(missing, "--options")
	}
	if len(missing) > 0 {
		return config.Inputs{}, fmt.Errorf("missing inputs %v: pass them as flags or set inputs in the config file", missing)
	}

	return inputs, nil
}

func printRunResult(result *services.RunAllotmentResult, dryRun bool) {
	stats := result.Outcome.Stats

	fmt.Printf("\n🎓 Seat Allotment Results\n\n")
	if result.RunID != "" {
		fmt.Printf("Run ID:      %s\n", result.RunID)
	}
	switch {
	case !result.Success:
		fmt.Printf("Status:      ❌ FAILED VALIDATION (not saved)\n")
	case dryRun:
		fmt.Printf("Mode:        🧪 DRY RUN (not saved)\n")
	case result.RunID != "":
		fmt.Printf("Status:      ✅ SUCCESS (saved to database)\n")
	default:
		fmt.Printf("Status:      ✅ SUCCESS\n")
	}
	fmt.Printf("Summary:     %s\n", result.Summary())
	fmt.Printf("Unallotted:  %d\n", stats.Unallotted)
	fmt.Printf("Excluded:    %d\n", stats.Excluded)
	if stats.Duplicates > 0 {
		fmt.Printf("Duplicates:  %d\n", stats.Duplicates)
	}
	fmt.Printf("Seats left:  %d of %d\n", result.Pool.Total(), totalSeats(result.Initial))

	if len(stats.Skips) > 0 {
		fmt.Printf("\nSkipped preferences:\n")
		for _, reason := range sortedSkipReasons(stats.Skips) {
			fmt.Printf("  %-12s %d\n", reason, stats.Skips[reason])
		}
	}

	if len(result.Violations) > 0 {
		fmt.Printf("\n⚠️  Validation Errors (%d):\n", len(result.Violations))
		for _, v := range result.Violations {
			fmt.Printf("  • %s\n", v.Error())
		}
	}
	fmt.Println()
}

func printPaths(paths []string) {
	for i, path := range paths {
		label := ""
		if i == 0 {
			label = "Written:"
		}
		fmt.Printf("%-12s %s\n", label, path)
	}
}

func totalSeats(initial map[allotment.SeatKey]int) int {
	total := 0
	for _, seats := range initial {
		total += seats
	}
	return total
}

func sortedSkipReasons(skips map[allotment.SkipReason]int) []allotment.SkipReason {
	reasons := make([]allotment.SkipReason, 0, len(skips))
	for reason, count := range skips {
		if count > 0 {
			reasons = append(reasons, reason)
		}
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}
