package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var copilotCmd = &cobra.Command{
	Use:   "copilot [question]",
	Short: "Build an assistant prompt from your notes",
	Long: `Searches your notes for the question and prints a prompt quoting the best
excerpts, ready to paste into any chat assistant.

  fireforget copilot "when is the Lisbon trip?" -k 5 | pbcopy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCopilot,
}

var (
	copilotK       int
	copilotSources bool
)

func init() {
	copilotCmd.Flags().IntVarP(&copilotK, "k", "k", 0, "number of excerpts, 3 to 20 (0 = configured default)")
	copilotCmd.Flags().BoolVar(&copilotSources, "sources", false, "list the quoted notes after the prompt")
	rootCmd.AddCommand(copilotCmd)
}

func runCopilot(cmd *cobra.Command, args []string) error {
	if copilotService == nil {
		return errors.New("copilot service not configured")
	}

	prompt, err := copilotService.BuildPrompt(cmd.Context(), strings.Join(args, " "), copilotK)
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}
	if prompt.Prompt == "" {
		return errors.New("question is empty")
	}

	cmd.Print(prompt.Prompt)
	if !strings.HasSuffix(prompt.Prompt, "\n") {
		cmd.Println()
	}

	if copilotSources {
		cmd.Println()
		cmd.Println("Sources:")
		for _, s := range prompt.Sources {
			cmd.Printf("  [%d] %s\n", s.N, s.NotePath)
		}
	}
	return nil
}
