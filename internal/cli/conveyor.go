package cli

import (
	"context"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/parkwise/internal/adapters/cli"
	"github.com/example/parkwise/internal/wire"
)

// ConveyorCmd returns the conveyor command tree. A fresh tree is built per
// call so flag values never leak between console lines.
func ConveyorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conveyor",
		Short: "Manage parking lot conveyors",
		Long:  "Add, inspect, operate and retire the vehicle conveyors of a parking lot",
	}

	cmd.AddCommand(conveyorAddCmd())
	cmd.AddCommand(conveyorListCmd())
	cmd.AddCommand(conveyorShowCmd())
	cmd.AddCommand(conveyorIDCmd("on [conveyor-id]", "Turn on an Off conveyor (moves it to Testing)", (*cliadapter.ConveyorAdapter).TurnOn))
	cmd.AddCommand(conveyorIDCmd("off [conveyor-id]", "Turn off an Operational conveyor", (*cliadapter.ConveyorAdapter).TurnOff))
	cmd.AddCommand(conveyorIDCmd("restart [conveyor-id]", "Restart a Paused conveyor (moves it to Testing)", (*cliadapter.ConveyorAdapter).Restart))
	cmd.AddCommand(conveyorIDCmd("pause [conveyor-id]", "Pause a conveyor (refused: hardware only)", (*cliadapter.ConveyorAdapter).Pause))
	cmd.AddCommand(conveyorIDCmd("deactivate [conveyor-id]", "Deactivate (soft-delete) a conveyor", (*cliadapter.ConveyorAdapter).Deactivate))
	cmd.AddCommand(conveyorSetStatusCmd())
	cmd.AddCommand(conveyorWeightCmd())
	cmd.AddCommand(conveyorMoveCmd())
	cmd.AddCommand(conveyorOnAllCmd())

	return cmd
}

func adapterFor(cmd *cobra.Command) (*cliadapter.ConveyorAdapter, error) {
	return wire.ConveyorAdapterWithOutput(cmd.OutOrStdout())
}

func conveyorAddCmd() *cobra.Command {
	var lot int64
	var maxWeight int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a conveyor to a parking lot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Add(wire.Context(), lot, maxWeight)
		},
	}
	cmd.Flags().Int64Var(&lot, "lot", 0, "Parking lot id (required)")
	cmd.Flags().IntVar(&maxWeight, "max-weight", 0, "Max vehicle weight in kg (required)")
	_ = cmd.MarkFlagRequired("lot")
	_ = cmd.MarkFlagRequired("max-weight")

	return cmd
}

func conveyorListCmd() *cobra.Command {
	var lot int64
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the conveyors of a parking lot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.List(wire.Context(), lot, all)
		},
	}
	cmd.Flags().Int64Var(&lot, "lot", 0, "Parking lot id (required)")
	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated conveyors")
	_ = cmd.MarkFlagRequired("lot")

	return cmd
}

func conveyorShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [conveyor-id]",
		Short: "Show conveyor details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			_, err = adapter.Show(wire.Context(), id)
			return err
		},
	}
}

// conveyorIDCmd builds a command that takes a single conveyor id.
func conveyorIDCmd(use, short string, run func(*cliadapter.ConveyorAdapter, context.Context, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return run(adapter, wire.Context(), id)
		},
	}
}

func conveyorSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status [conveyor-id] [status]",
		Short: "Set a conveyor status directly (refused: use on, off or restart)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.SetStatus(wire.Context(), id, args[1])
		},
	}
}

func conveyorWeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Change a conveyor's max vehicle weight (decide, then confirm)",
		Long: `A weight change is staged with 'decide' and written with 'confirm'.
The staged value lives in this process only; use 'parkwise console' to
decide and confirm within one session.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "decide [conveyor-id] [kg]",
		Short: "Stage a new max weight for an Off conveyor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			kg, err := parseWeight(args[1])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.DecideWeight(wire.Context(), id, kg)
		},
	})

	cmd.AddCommand(conveyorIDCmd("confirm [conveyor-id]", "Write the staged max weight", (*cliadapter.ConveyorAdapter).ConfirmWeight))

	cmd.AddCommand(&cobra.Command{
		Use:   "pending [conveyor-id]",
		Short: "Show the staged max weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			adapter.ShowPending(id)
			return nil
		},
	})

	return cmd
}

func conveyorMoveCmd() *cobra.Command {
	var lot int64

	cmd := &cobra.Command{
		Use:   "move [conveyor-id]",
		Short: "Move a conveyor to another parking lot (clears its position)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("conveyor", args[0])
			if err != nil {
				return err
			}
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.Move(wire.Context(), id, lot)
		},
	}
	cmd.Flags().Int64Var(&lot, "lot", 0, "Destination parking lot id (required)")
	_ = cmd.MarkFlagRequired("lot")

	return cmd
}

func conveyorOnAllCmd() *cobra.Command {
	var lot int64

	cmd := &cobra.Command{
		Use:   "on-all",
		Short: "Turn on every Off conveyor of a parking lot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := adapterFor(cmd)
			if err != nil {
				return err
			}
			return adapter.TurnOnAll(wire.Context(), lot)
		},
	}
	cmd.Flags().Int64Var(&lot, "lot", 0, "Parking lot id (required)")
	_ = cmd.MarkFlagRequired("lot")

	return cmd
}
