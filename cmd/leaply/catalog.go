package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/adapter/sqlite"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the simulation catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Insert or update simulations from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := sqlite.LoadSeed(args[0])
		if err != nil {
			return err
		}

		catalog, err := sqlite.Open(cmd.Context(), cfg.CatalogDSN)
		if err != nil {
			return err
		}
		defer catalog.Close()

		if err := catalog.Upsert(cmd.Context(), entries); err != nil {
			return err
		}
		logger.Info("catalog imported", zap.String("file", args[0]), zap.Int("simulations", len(entries)))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List simulations ordered by title",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := sqlite.Open(cmd.Context(), cfg.CatalogDSN)
		if err != nil {
			return err
		}
		defer catalog.Close()

		entries, err := catalog.ListSimulations(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tTITLE\tACTIVE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", e.Slug, e.Title, e.Active)
		}
		return tw.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
}
