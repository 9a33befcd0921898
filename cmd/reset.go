package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the business identity, diagnosis and action plan",
		Long: `Reset the session: the stored business identity, the last diagnosis and
the action plan are deleted. This cannot be undone.

Examples:
  gbp-pulse reset
  gbp-pulse reset --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.state.RequestReset()
			if !resetYes && !confirm(os.Stdin, "Are you sure you want to reset? All progress will be lost. [y/N] ") {
				a.state.CancelReset()
				fmt.Println("Reset cancelled.")
				return nil
			}
			if err := a.state.ConfirmReset(ctx); err != nil {
				return fmt.Errorf("reset incomplete: %w", userError(err))
			}
			printSuccess("Session reset")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func confirm(in io.Reader, question string) bool {
	fmt.Fprint(os.Stderr, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
