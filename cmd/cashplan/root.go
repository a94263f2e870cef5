package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cashplan/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cashplan",
	Short: "Deterministic household cashflow projection",
	Long:  "Projects a household's accounts, pensions, incomes and expenses year by year under UK income tax and National Insurance rules, liquidating assets to fund shortfalls.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
