package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cashplan/internal/config"
	"cashplan/internal/engine"
	"cashplan/internal/report"
)

var (
	reportPlanPath string
	reportOutPath  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the projection and write a PDF summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cf, err := config.LoadPlan(reportPlanPath)
		if err != nil {
			return err
		}

		out, err := engine.Simulate(cf)
		if err != nil {
			return eris.Wrap(err, "run projection")
		}

		pdf, err := report.GeneratePDF(cf, out, report.Options{
			Title:    cfg.Report.Title,
			Currency: cfg.Report.Currency,
		})
		if err != nil {
			return err
		}

		path := reportOutPath
		if path == "" {
			path = filepath.Join(cfg.Report.OutputDir, "cashplan.pdf")
		}
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return eris.Wrap(err, "write pdf")
		}
		zap.L().Info("report written",
			zap.String("path", path),
			zap.Int("years", len(out.Years)))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportPlanPath, "plan", "", "plan YAML file (required)")
	reportCmd.Flags().StringVar(&reportOutPath, "out", "", "PDF output path")
	_ = reportCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(reportCmd)
}
