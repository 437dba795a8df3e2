package cli

import (
	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Long:        `Print the version number of fireforget.`,
	Annotations: map[string]string{needsAnnotation: needsNothing},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("fireforget version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
