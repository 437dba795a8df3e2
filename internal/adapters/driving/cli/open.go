package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/browser"
)

// openBrowser is swapped out in tests.
var openBrowser = browser.Open

var openCmd = &cobra.Command{
	Use:   "open [page]",
	Short: "Open the web UI in your browser",
	Long: fmt.Sprintf(`Open a page of the running web UI in the default browser.

Pages: %s. Start the server first with "fireforget serve".`,
		strings.Join(browser.PageNames(), ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	page := ""
	if len(args) == 1 {
		page = args[0]
	}
	url, err := browser.URL(appConfig.Host, appConfig.Port, page)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), url)
	if err := openBrowser(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
