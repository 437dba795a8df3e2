package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for fireforget.

Type a question, press Enter, and browse the matching notes. Opening a hit
shows the whole note scrolled to the matching passage.

Controls:
  Enter     - Search / open the selected note
  ↑/k, ↓/j  - Navigate results or scroll a note
  /         - New search
  Esc       - Back
  Ctrl+C    - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI crashed: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Search: searchService,
		Notes:  noteService,
		Limit:  appConfig.MaxResults,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
