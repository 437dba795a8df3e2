package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change settings stored in config.toml inside the data directory.

Relative directory settings are resolved against the data directory.`,
	Annotations: map[string]string{needsAnnotation: needsSettings},
}

var configGetCmd = &cobra.Command{
	Use:         "get [key]",
	Short:       "Print one setting, or all of them",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{needsAnnotation: needsSettings},
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:         "set [key] [value]",
	Short:       "Change a setting",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{needsAnnotation: needsSettings},
	RunE:        runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{needsAnnotation: needsSettings},
	RunE:        runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 1 {
		setting, err := settingsService.Get(args[0])
		if err != nil {
			return err
		}
		cmd.Println(setting.Value)
		return nil
	}

	settings, err := settingsService.List()
	if err != nil {
		return err
	}
	for _, s := range settings {
		marker := ""
		if !s.Explicit {
			marker = "  (default)"
		}
		cmd.Printf("%s = %s%s\n", s.Key, s.Value, marker)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.Path())
	return nil
}
