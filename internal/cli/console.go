package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const consolePrompt = "parkwise> "

// ConsoleCmd returns the console command
func ConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive conveyor session",
		Long: `Start an interactive session that accepts the 'conveyor' subcommands,
for example "list --lot 1" or "weight decide 3 2800".

Pending weight changes and attempt counters live in this process, so a
weight change can be decided and confirmed within one session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunConsole(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// RunConsole reads one command per line from in until EOF or "exit".
// A failed line prints its error and the session continues.
func RunConsole(in io.Reader, out, errOut io.Writer) error {
	fmt.Fprintf(out, "%s type 'help' for commands, 'exit' to quit\n", color.New(color.FgCyan).Sprint("parkwise console"))

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, consolePrompt)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return nil
			}
			if fields[0] == "conveyor" {
				fields = fields[1:]
			}

			line := ConveyorCmd()
			line.SetArgs(fields)
			line.SetOut(out)
			line.SetErr(errOut)
			line.SilenceUsage = true
			line.SilenceErrors = true
			if err := line.Execute(); err != nil {
				PrintError(errOut, err)
			}
		}
		fmt.Fprint(out, consolePrompt)
	}
	fmt.Fprintln(out)

	return scanner.Err()
}
