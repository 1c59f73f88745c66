package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/parkwise/internal/config"
	"github.com/example/parkwise/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the parkwise store and config",
		Long: `Write .parkwise/config.yaml (if missing) and create or migrate the
conveyor store it points at.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			if _, err := os.Stat(config.Path(cwd)); os.IsNotExist(err) {
				if err := config.Save(cwd, loadedConfig); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", config.Path(cwd))
			}

			fmt.Fprintf(out, "Initializing store at %s\n", loadedConfig.Database.Path)
			database, err := db.Open(loadedConfig.Database.Path)
			if err != nil {
				return err
			}
			defer database.Close()

			current, err := db.CurrentVersion(database)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Store ready (schema version %d)\n", current)

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Demo conveyors added to parking lots 1 and 2")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  parkwise conveyor add --lot 1 --max-weight 2500")
			fmt.Fprintln(out, "  parkwise conveyor list --lot 1")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "Add demo conveyors to the store")

	return cmd
}
