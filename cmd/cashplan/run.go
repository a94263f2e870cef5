package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cashplan/internal/config"
	"cashplan/internal/engine"
	"cashplan/internal/report"
)

var (
	runPlanPath string
	runOutPath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the projection and emit JSON results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cf, err := config.LoadPlan(runPlanPath)
		if err != nil {
			return err
		}

		out, err := engine.Simulate(cf)
		if err != nil {
			return eris.Wrap(err, "run projection")
		}
		zap.L().Info("projection complete",
			zap.Int("years", len(out.Years)),
			zap.String("plan", runPlanPath))

		w := cmd.OutOrStdout()
		if runOutPath != "" {
			f, err := os.Create(runOutPath)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			w = f
		}
		return report.WriteJSON(w, out)
	},
}

func init() {
	runCmd.Flags().StringVar(&runPlanPath, "plan", "", "plan YAML file (required)")
	runCmd.Flags().StringVar(&runOutPath, "out", "", "write JSON to file instead of stdout")
	_ = runCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(runCmd)
}
