package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/salesreport/internal/cli"
	"github.com/Veraticus/salesreport/internal/config"
	"github.com/Veraticus/salesreport/internal/generator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the sales database with generated sales",
		Long: `Generate sample sales and store them in the SQLite database so that
'salesreport report --source sqlite' has something to report on.

Existing sales with the same IDs are replaced. Use --reset to start from an empty table.`,
		RunE: runSeed,
	}

	cmd.Flags().Int("count", config.DefaultCount, "number of sales to generate")
	cmd.Flags().Int64("seed", config.DefaultSeed, "generator seed")
	cmd.Flags().Bool("reset", false, "delete stored sales first")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := bindFlags(cmd, map[string]string{
		"count": "report.count",
		"seed":  "report.seed",
	}); err != nil {
		return err
	}

	count := viper.GetInt("report.count")
	if count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := store.DeleteAllSales(ctx); err != nil {
			return err
		}
	}

	sales := generator.Generate(generator.Options{
		Count: count,
		Seed:  viper.GetInt64("report.seed"),
		Now:   time.Now(),
	})
	if err := store.SaveSales(ctx, sales); err != nil {
		return fmt.Errorf("failed to save sales: %w", err)
	}

	total, err := store.CountSales(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Stored %d sales in %s (%d total)", len(sales), store.Path(), total)))
	return nil
}
