package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/feedback-desk/internal/auth"
	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/dashboard"
	"github.com/spec-kit/feedback-desk/internal/observability"
	"github.com/spec-kit/feedback-desk/internal/repository"
)

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write bug reports or feedback as CSV",
	Long: `Write bug reports or feedback as CSV, using the same filters as the admin dashboard.

Examples:
  feedback-desk export --kind bug-reports --status resolved
  feedback-desk export --kind feedback --rating 5 --out five-star.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")
		rating, _ := cmd.Flags().GetString("rating")
		category, _ := cmd.Flags().GetString("category")
		out, _ := cmd.Flags().GetString("out")

		if kind != dashboard.KindBugReports && kind != dashboard.KindFeedback {
			return fmt.Errorf("--kind must be %q or %q", dashboard.KindBugReports, dashboard.KindFeedback)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Logger.Output = "stderr"
		logger, err := observability.NewLogger(cfg.Logger, cfg.App)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		a, err := newApplication(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		bw := bufio.NewWriter(w)

		var n int
		if kind == dashboard.KindBugReports {
			n, err = a.dashboard.ExportBugReports(cmd.Context(), bw, repository.ParseBugReportFilter(status, search))
		} else {
			n, err = a.dashboard.ExportFeedback(cmd.Context(), bw, repository.ParseFeedbackFilter(status, rating, category, search))
		}
		if err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", n, out)
		}
		return nil
	},
}

// --- hash-password ---

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost, _ := cmd.Flags().GetInt("cost")
		hash, err := auth.HashPassword(args[0], cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("kind", dashboard.KindBugReports, "bug-reports or feedback")
	exportCmd.Flags().String("status", "all", "status filter")
	exportCmd.Flags().String("search", "", "case-insensitive substring filter")
	exportCmd.Flags().String("rating", "all", "rating filter (feedback only)")
	exportCmd.Flags().String("category", "all", "category filter (feedback only)")
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)

	hashPasswordCmd.Flags().Int("cost", 12, "bcrypt cost")
	rootCmd.AddCommand(hashPasswordCmd)
}
