package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var writeCopy bool

func NewWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write TOOL INPUT",
		Short: "Generate profile content with one of the studio tools",
		Long: `Generate content for the stored business with a content studio tool.

Tools: ` + toolList() + `

Examples:
  # Business description
  gbp-pulse write description "Family owned since 1990, 24/7 emergency plumbing"

  # Reply to a review and copy it to the clipboard
  gbp-pulse write reply "Great service, fixed our leak in an hour!" --copy`,
		Args: cobra.ExactArgs(2),
		RunE: runWrite,
	}

	cmd.Flags().BoolVar(&writeCopy, "copy", false, "Copy the generated text to the clipboard")

	return cmd
}

func toolList() string {
	names := make([]string, 0, model.NumTools)
	for _, t := range model.Tools() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func runWrite(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tool, err := model.ParseTool(args[0])
	if err != nil {
		return fmt.Errorf("%w (supported: %s)", err, toolList())
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	bc := a.state.Context()
	printHeader("GBP Pulse Content Studio",
		fmt.Sprintf("🏢 Business: %s (%s)", bc.Name, bc.Industry),
		fmt.Sprintf("✍️  Tool: %s", tool.Label()))

	gw, err := a.gateway(ctx)
	if err != nil {
		return err
	}

	s := a.state.Studio()
	if err := s.SetInput(tool, args[1]); err != nil {
		return err
	}

	sp := startSpinner("Writing...")
	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()
	c, err := s.Generate(reqCtx, gw, tool, bc)
	sp.Stop()
	if err != nil {
		return userError(err)
	}
	if c.Err != nil {
		printError(apperr.UserMessage(c.Err))
	}

	entry := s.Entry(tool)
	if err := printer().Content(tool, entry.Input, entry.Output); err != nil {
		return err
	}

	if writeCopy && c.Err == nil && s.MarkCopied() {
		if err := clipboard.WriteAll(entry.Output); err != nil {
			printWarning(fmt.Sprintf("Could not copy to the clipboard: %v", err))
			return nil
		}
		printSuccess("Copied to clipboard")
	}
	return nil
}

