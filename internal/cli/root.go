// Package cli provides CLI commands for the parkwise application.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/parkwise/internal/config"
	coreconveyor "github.com/example/parkwise/internal/core/conveyor"
	"github.com/example/parkwise/internal/version"
	"github.com/example/parkwise/internal/wire"
)

// loadedConfig is the configuration for the current invocation.
// Set once in the root PersistentPreRunE.
var loadedConfig = config.Default()

// NewRootCmd builds the parkwise command tree.
func NewRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:     "parkwise",
		Short:   "Parkwise - conveyor administration for automated parking lots",
		Version: version.String(),
		Long: `Parkwise manages the vehicle conveyors of automated parking lots:
adding units, driving them through their lifecycle, changing their
weight limit, moving them between lots and retiring them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			loadedConfig = cfg
			wire.Configure(cfg)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the store file (overrides database.path)")

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(ConveyorCmd())
	rootCmd.AddCommand(ConsoleCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the parkwise version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// PrintError writes err to w in red.
func PrintError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "✗ %v\n", err)
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s id %q is not a number", coreconveyor.ErrInvalidArgument, kind, raw)
	}
	return id, nil
}

func parseWeight(raw string) (int, error) {
	kg, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: max weight %q is not a number", coreconveyor.ErrInvalidArgument, raw)
	}
	return kg, nil
}
