package main

import (
	"fmt"
	"os"

	"github.com/helmcode/gbp-pulse/cmd"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gbp-pulse",
		Short: "AI-powered Google Business Profile recovery and growth",
		Long: `gbp-pulse diagnoses Google Business Profile problems, builds a trackable
action plan, writes profile content and audits new profiles against
Google's guidelines.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewRunCmd(),
		cmd.NewDiagnoseCmd(),
		cmd.NewPlanCmd(),
		cmd.NewWriteCmd(),
		cmd.NewAuditCmd(),
		cmd.NewAskCmd(),
		cmd.NewIdentityCmd(),
		cmd.NewClaimCmd(),
		cmd.NewResetCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gbp-pulse version %s\n", version)
		},
	}
}
